package postgres

import (
	"context"
	"os"
	"testing"

	"zebu/adapters/stats/engine"
	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *ResultRepository {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResultRepository(db)
}

func TestResultRepository_RoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	names, rows := testkit.FromCounts([][]int{{30, 20}, {10, 40}})
	result, err := engine.NewStatsEngine(engine.Options{}).Estimate(testkit.MustDataset(names, rows), association.MeasurePMI)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(ctx, result.ID) })

	require.NoError(t, repo.Save(ctx, result))

	loaded, err := repo.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Measure, loaded.Measure)
	assert.Equal(t, result.Local.Data(), loaded.Local.Data())
	assert.Equal(t, result.Data.Codes, loaded.Data.Codes)
	assert.Equal(t, association.SignificanceNone, loaded.State())

	loaded.Attach(&association.Significance{State: association.SignificanceAnalytic, PAdjust: "none"})
	require.NoError(t, repo.Save(ctx, loaded))

	summaries, err := repo.List(ctx, 50)
	require.NoError(t, err)
	var found bool
	for _, s := range summaries {
		if s.ID == result.ID {
			found = true
			assert.Equal(t, "A,B", s.Variables)
			assert.Equal(t, association.SignificanceAnalytic, s.Significance)
		}
	}
	assert.True(t, found)

	require.NoError(t, repo.Delete(ctx, result.ID))
	_, err = repo.Get(ctx, result.ID)
	assert.True(t, core.IsNotFoundError(err))
}
