package app

import (
	"context"
	"fmt"

	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal"
	"zebu/ports"
)

// Defaults fill in significance parameters a caller leaves unset
type Defaults struct {
	Permutations int
	Seed         int64
	PAdjust      string
}

// AssociationService coordinates estimation, significance and storage
type AssociationService struct {
	estimator   ports.EstimatorPort
	permutation ports.SignificancePort
	analytic    ports.SignificancePort
	results     ports.ResultRepository
	defaults    Defaults
	logger      *internal.Logger
}

// NewAssociationService creates the service. results may be nil, in which
// case nothing is stored and Load always fails with ErrNotFound.
func NewAssociationService(estimator ports.EstimatorPort, permutation, analytic ports.SignificancePort, results ports.ResultRepository, defaults Defaults) *AssociationService {
	return &AssociationService{
		estimator:   estimator,
		permutation: permutation,
		analytic:    analytic,
		results:     results,
		defaults:    defaults,
		logger:      internal.DefaultLogger.WithComponent("AssociationService"),
	}
}

// EstimateRequest carries row-oriented labels for estimation
type EstimateRequest struct {
	Variables  []string   `json:"variables"`
	Rows       [][]string `json:"rows"`
	Categories [][]string `json:"categories,omitempty"`
	Measure    string     `json:"measure"`
}

// Estimate builds a dataset from the request and estimates it
func (s *AssociationService) Estimate(ctx context.Context, req EstimateRequest) (*association.Result, error) {
	var (
		ds  *association.Dataset
		err error
	)
	if len(req.Categories) > 0 {
		ds, err = association.NewDatasetWithCategories(req.Variables, req.Rows, req.Categories)
	} else {
		ds, err = association.NewDataset(req.Variables, req.Rows)
	}
	if err != nil {
		return nil, err
	}
	if dropped := len(req.Rows) - ds.Rows(); dropped > 0 {
		s.logger.Warn("dropped %d incomplete rows of %d", dropped, len(req.Rows))
	}
	return s.EstimateDataset(ctx, ds, req.Measure)
}

// EstimateDataset estimates an already encoded dataset
func (s *AssociationService) EstimateDataset(ctx context.Context, ds *association.Dataset, measure string) (*association.Result, error) {
	m, err := association.ParseMeasure(measure)
	if err != nil {
		return nil, err
	}
	result, err := s.estimator.Estimate(ds, m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("estimated %s on %v (N=%d, global=%.6g)", m, ds.Names(), result.SampleSize, result.Global)

	if err := s.save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SignificancePermutation runs the permutation test. Zero permutations,
// an unset seed and an empty method take the service defaults.
func (s *AssociationService) SignificancePermutation(ctx context.Context, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error) {
	if opts.Permutations == 0 {
		opts.Permutations = s.defaults.Permutations
	}
	if !opts.SeedSet {
		opts.Seed, opts.SeedSet = s.defaults.Seed, true
	}
	return s.assess(ctx, s.permutation, result, opts)
}

// SignificanceAnalytic runs the normal-approximation test on chi-squared
// residuals
func (s *AssociationService) SignificanceAnalytic(ctx context.Context, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error) {
	return s.assess(ctx, s.analytic, result, opts)
}

func (s *AssociationService) assess(ctx context.Context, referee ports.SignificancePort, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error) {
	if referee == nil {
		return nil, fmt.Errorf("%w: significance test not configured", core.ErrUnsupportedMeasure)
	}
	if opts.PAdjust == "" {
		opts.PAdjust = s.defaults.PAdjust
	}
	assessed, err := referee.Assess(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, assessed); err != nil {
		return nil, err
	}
	return assessed, nil
}

// Get returns one field of a stored result
func (s *AssociationService) Get(ctx context.Context, id core.ID, field string) (association.Value, error) {
	f, err := association.ParseField(field)
	if err != nil {
		return association.Value{}, err
	}
	result, err := s.Load(ctx, id)
	if err != nil {
		return association.Value{}, err
	}
	return result.Get(f)
}

// Load fetches a stored result
func (s *AssociationService) Load(ctx context.Context, id core.ID) (*association.Result, error) {
	if s.results == nil {
		return nil, core.NewNotFoundError("association result", id.String())
	}
	return s.results.Get(ctx, id)
}

// List returns summaries of stored results, newest first
func (s *AssociationService) List(ctx context.Context, limit int) ([]ports.ResultSummary, error) {
	if s.results == nil {
		return nil, nil
	}
	return s.results.List(ctx, limit)
}

// Delete removes a stored result
func (s *AssociationService) Delete(ctx context.Context, id core.ID) error {
	if s.results == nil {
		return core.NewNotFoundError("association result", id.String())
	}
	if err := s.results.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted result %s", id)
	return nil
}

func (s *AssociationService) save(ctx context.Context, result *association.Result) error {
	if s.results == nil {
		return nil
	}
	if err := s.results.Save(ctx, result); err != nil {
		s.logger.Error("saving result %s: %v", result.ID, err)
		return fmt.Errorf("save result %s: %w", result.ID, err)
	}
	return nil
}
