package ports

import "zebu/domain/association"

// EstimatorPort computes the association result for a dataset
type EstimatorPort interface {
	Estimate(ds *association.Dataset, measure association.Measure) (*association.Result, error)
}
