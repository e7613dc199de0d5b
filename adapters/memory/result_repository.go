package memory

import (
	"context"
	"sort"
	"sync"

	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/ports"
)

// ResultRepository keeps results in process memory. It serves the server
// when no database is configured and backs tests.
type ResultRepository struct {
	mu      sync.RWMutex
	results map[core.ID]*association.Result
	order   []core.ID
}

// NewResultRepository creates an empty repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[core.ID]*association.Result)}
}

// Save stores or replaces a result
func (r *ResultRepository) Save(ctx context.Context, result *association.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.results[result.ID]; !exists {
		r.order = append(r.order, result.ID)
	}
	r.results[result.ID] = result
	return nil
}

// Get returns a stored result
func (r *ResultRepository) Get(ctx context.Context, id core.ID) (*association.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[id]
	if !ok {
		return nil, core.NewNotFoundError("association result", id.String())
	}
	return result, nil
}

// List returns the most recent results first
func (r *ResultRepository) List(ctx context.Context, limit int) ([]ports.ResultSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := append([]core.ID(nil), r.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		return r.results[ids[i]].CreatedAt.After(r.results[ids[j]].CreatedAt)
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	summaries := make([]ports.ResultSummary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, ports.NewResultSummary(r.results[id]))
	}
	return summaries, nil
}

// Delete removes a result
func (r *ResultRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[id]; !ok {
		return core.NewNotFoundError("association result", id.String())
	}
	delete(r.results, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
