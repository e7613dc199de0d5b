package rng

import (
	"context"
	"math/rand"
	"strconv"
)

// Adapter implements ports.RNGPort with math/rand sources derived from a
// base seed and a djb2 hash of the stream coordinates.
type Adapter struct{}

// NewAdapter creates a new RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Stream creates a deterministic stream for one batch of one run
func (a *Adapter) Stream(ctx context.Context, runID, stageName string, batch int, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := baseSeed
	if runID != "" {
		seed += int64(hashString(runID))
	}
	if stageName != "" {
		seed += int64(hashString(stageName))
	}
	seed += int64(hashString("batch-" + strconv.Itoa(batch)))
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}
