package engine

import (
	"fmt"
	"time"

	"zebu/adapters/stats/measures"
	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal/probability"
)

// Options bound the work a single estimation may do.
type Options struct {
	// MaxCells caps the size of the joint array; 0 disables the cap.
	MaxCells int
}

// StatsEngine estimates local and global association for categorical data
type StatsEngine struct {
	options Options
}

// NewStatsEngine creates a new statistical engine
func NewStatsEngine(options Options) *StatsEngine {
	return &StatsEngine{options: options}
}

// Estimate computes observed, expected and bound arrays for ds and derives
// the chosen local measure and its global value.
func (e *StatsEngine) Estimate(ds *association.Dataset, measure association.Measure) (*association.Result, error) {
	formula, err := measures.Lookup(measure)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset", core.ErrInvalidVariable)
	}
	if err := formula.CheckArity(ds.Arity()); err != nil {
		return nil, err
	}
	if err := e.checkSize(ds); err != nil {
		return nil, err
	}

	bundle, err := probability.Estimate(ds)
	if err != nil {
		return nil, err
	}

	local, err := formula.Local(measures.Inputs{
		N:              bundle.N,
		Observed:       bundle.Observed,
		Expected:       bundle.Expected,
		TheoreticalMax: bundle.TheoreticalMax,
		TheoreticalMin: bundle.TheoreticalMin,
	})
	if err != nil {
		return nil, err
	}
	global, err := formula.Global(local, bundle.Observed)
	if err != nil {
		return nil, err
	}

	return &association.Result{
		ID:             core.NewID(),
		Measure:        measure,
		Variables:      ds.Variables,
		SampleSize:     bundle.N,
		Margins:        bundle.Margins,
		Observed:       bundle.Observed,
		Expected:       bundle.Expected,
		TheoreticalMax: bundle.TheoreticalMax,
		TheoreticalMin: bundle.TheoreticalMin,
		Local:          local,
		Global:         global,
		CreatedAt:      time.Now().UTC(),
		Data:           ds,
	}, nil
}

func (e *StatsEngine) checkSize(ds *association.Dataset) error {
	if e.options.MaxCells <= 0 {
		return nil
	}
	cells := 1
	for _, k := range ds.Shape() {
		cells *= k
		if cells > e.options.MaxCells {
			return core.NewParameterError("variables", fmt.Sprintf("joint array exceeds %d cells", e.options.MaxCells))
		}
	}
	return nil
}
