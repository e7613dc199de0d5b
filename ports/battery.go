package ports

import (
	"context"

	"zebu/domain/association"
)

// SignificanceOptions parameterize a significance step
type SignificanceOptions struct {
	// Permutations is the number of resamples; ignored by analytic tests.
	Permutations int
	// Seed fixes the resampling streams. SeedSet distinguishes an explicit
	// zero from an omitted seed.
	Seed    int64
	SeedSet bool
	// PAdjust names the multiple-comparison adjustment applied across cells.
	PAdjust string
}

// SignificancePort assesses the local and global values of an estimated
// result. It returns a copy of the result with its significance block
// replaced; the input is not modified.
type SignificancePort interface {
	Assess(ctx context.Context, result *association.Result, opts SignificanceOptions) (*association.Result, error)
}
