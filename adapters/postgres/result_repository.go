package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/ports"
)

// ResultRepository stores association results as JSON documents with
// their listing columns alongside
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save inserts a result or replaces the stored copy with the same id
func (r *ResultRepository) Save(ctx context.Context, result *association.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	summary := ports.NewResultSummary(result)

	query := `
		INSERT INTO association_results (
			id, measure, variables, sample_size, global_value, significance,
			payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			significance = EXCLUDED.significance,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		summary.ID.String(),
		string(summary.Measure),
		summary.Variables,
		summary.SampleSize,
		summary.Global,
		string(summary.Significance),
		payload,
		result.CreatedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", result.ID, err)
	}
	return nil
}

// Get loads a result by id
func (r *ResultRepository) Get(ctx context.Context, id core.ID) (*association.Result, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM association_results WHERE id = $1`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("association result", id.String())
		}
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}

	var result association.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result %s: %w", id, err)
	}
	return &result, nil
}

// List returns summaries, newest first. limit <= 0 returns every row.
func (r *ResultRepository) List(ctx context.Context, limit int) ([]ports.ResultSummary, error) {
	query := `
		SELECT id, measure, variables, sample_size, global_value, significance
		FROM association_results
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	summaries := []ports.ResultSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return summaries, nil
}

// Delete removes a result
func (r *ResultRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM association_results WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete result %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete result %s: %w", id, err)
	}
	if n == 0 {
		return core.NewNotFoundError("association result", id.String())
	}
	return nil
}
