package battery

import (
	"context"
	"errors"
	"testing"

	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal/testkit"
	"zebu/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticReferee_ResidualPValues(t *testing.T) {
	names, rows := testkit.FromCounts([][]int{{3, 2}, {1, 4}})
	result := estimate(t, names, rows, association.MeasureChiSq)

	assessed, err := NewAnalyticReferee().Assess(context.Background(), result, ports.SignificanceOptions{PAdjust: "none"})
	require.NoError(t, err)

	assert.Equal(t, association.SignificanceAnalytic, assessed.State())
	assert.Equal(t, association.SignificanceNone, result.State())
	assert.Zero(t, assessed.Significance.Permutations)

	// |r| = 0.7071 on the diagonal and 0.5774 off it
	p := assessed.Significance.LocalP
	assert.InDelta(t, 0.4795, p.At(0, 0), 1e-3)
	assert.InDelta(t, 0.4795, p.At(1, 0), 1e-3)
	assert.InDelta(t, 0.5637, p.At(0, 1), 1e-3)

	// chi-squared 5/3 on one degree of freedom
	assert.InDelta(t, 0.1967, assessed.Significance.GlobalP, 1e-3)
}

func TestAnalyticReferee_AdjustsAcrossCells(t *testing.T) {
	names, rows := testkit.FromCounts([][]int{{30, 10, 5}, {10, 30, 15}})
	result := estimate(t, names, rows, association.MeasureChiSq)

	raw, err := NewAnalyticReferee().Assess(context.Background(), result, ports.SignificanceOptions{PAdjust: "none"})
	require.NoError(t, err)
	adjusted, err := NewAnalyticReferee().Assess(context.Background(), result, ports.SignificanceOptions{PAdjust: "bonferroni"})
	require.NoError(t, err)

	for i, p := range raw.Significance.LocalP.Data() {
		assert.GreaterOrEqual(t, adjusted.Significance.LocalP.Data()[i], p)
	}
	assert.Equal(t, raw.Significance.GlobalP, adjusted.Significance.GlobalP, "global p is adjusted separately")
}

func TestAnalyticReferee_Errors(t *testing.T) {
	names, rows := testkit.FromCounts([][]int{{3, 2}, {1, 4}})
	lewontin := estimate(t, names, rows, association.MeasureD)

	cfg := testkit.DefaultCategoricalConfig()
	cfg.Rows = 200
	names3, rows3 := testkit.NewCategoricalDataGenerator(cfg).Shopping()
	threeWay := estimate(t, names3, rows3, association.MeasureChiSq)

	tests := []struct {
		name   string
		result *association.Result
		opts   ports.SignificanceOptions
		want   error
	}{
		{"non chi-squared measure", lewontin, ports.SignificanceOptions{}, core.ErrUnsupportedMeasure},
		{"three variables", threeWay, ports.SignificanceOptions{}, core.ErrUnsupportedArity},
		{"unknown adjustment", threeWay, ports.SignificanceOptions{PAdjust: "sidak"}, core.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessed, err := NewAnalyticReferee().Assess(context.Background(), tt.result, tt.opts)
			assert.Nil(t, assessed)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
