package testkit

import (
	"zebu/adapters/memory"
	"zebu/adapters/rng"
	"zebu/domain/association"
	"zebu/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	results *memory.ResultRepository
}

// NewTestKit creates a new test kit instance
func NewTestKit() *TestKit {
	return &TestKit{results: memory.NewResultRepository()}
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewAdapter()
}

// ResultRepository returns the shared in-memory repository
func (t *TestKit) ResultRepository() ports.ResultRepository {
	return t.results
}

// MustDataset builds a dataset and panics on error; for fixtures only.
func MustDataset(names []string, rows [][]string) *association.Dataset {
	ds, err := association.NewDataset(names, rows)
	if err != nil {
		panic(err)
	}
	return ds
}
