package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for resampling
type RNGPort interface {
	// Stream creates the generator for one batch of a resampling run. The
	// same run, stage, batch and seed always yield the same draws.
	Stream(ctx context.Context, runID, stageName string, batch int, baseSeed int64) (*rand.Rand, error)
}
