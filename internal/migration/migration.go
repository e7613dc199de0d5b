package migration

import (
	"context"

	"zebu/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every step
// is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.Steps() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.Wrapf(err, "failed to %s", step.Name)
		}
	}
	return nil
}

// Step is one named schema statement
type Step struct {
	Name string
	SQL  string
}

// Steps lists the schema statements in execution order
func (r *MigrationRunner) Steps() []Step {
	return []Step{
		{
			Name: "create association_results table",
			SQL: `
		CREATE TABLE IF NOT EXISTS association_results (
			id TEXT PRIMARY KEY,
			measure VARCHAR(16) NOT NULL,
			variables TEXT NOT NULL,
			sample_size INTEGER NOT NULL,
			global_value DOUBLE PRECISION NOT NULL,
			significance VARCHAR(16) NOT NULL DEFAULT 'none',
			payload JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		},
		{
			Name: "index association_results by creation time",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_association_results_created_at ON association_results (created_at DESC)`,
		},
		{
			Name: "index association_results by measure",
			SQL:  `CREATE INDEX IF NOT EXISTS idx_association_results_measure ON association_results (measure)`,
		},
	}
}
