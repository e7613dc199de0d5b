package probability

import (
	"errors"
	"math/rand"
	"testing"

	"zebu/domain/association"
	"zebu/domain/contingency"
	"zebu/domain/core"
	"zebu/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// scenario is the 2x2 table {(0,0):0.3,(0,1):0.2,(1,0):0.1,(1,1):0.4} at N=10.
func scenario(t *testing.T) *association.Dataset {
	t.Helper()
	names, rows := testkit.FromCounts([][]int{{3, 2}, {1, 4}})
	ds, err := association.NewDataset(names, rows)
	require.NoError(t, err)
	return ds
}

func TestEstimate_ConcreteScenario(t *testing.T) {
	b, err := Estimate(scenario(t))
	require.NoError(t, err)

	assert.Equal(t, 10, b.N)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, b.Margins[0], tol)
	assert.InDeltaSlice(t, []float64{0.4, 0.6}, b.Margins[1], tol)
	assert.InDeltaSlice(t, []float64{0.3, 0.2, 0.1, 0.4}, b.Observed.Data(), tol)
	assert.InDeltaSlice(t, []float64{0.2, 0.3, 0.2, 0.3}, b.Expected.Data(), tol)
	assert.InDeltaSlice(t, []float64{0.4, 0.5, 0.4, 0.5}, b.TheoreticalMax.Data(), tol)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0, 0.1}, b.TheoreticalMin.Data(), tol)
}

func TestEstimate_Errors(t *testing.T) {
	tests := []struct {
		name string
		ds   func() *association.Dataset
		want error
	}{
		{
			name: "single category variable",
			ds: func() *association.Dataset {
				return testkit.MustDataset([]string{"a", "b"}, [][]string{{"x", "1"}, {"x", "2"}})
			},
			want: core.ErrInvalidVariable,
		},
		{
			name: "no rows",
			ds: func() *association.Dataset {
				ds, _ := association.NewDatasetWithCategories([]string{"a", "b"}, nil, [][]string{{"x", "y"}, {"1", "2"}})
				return ds
			},
			want: core.ErrInsufficientData,
		},
		{
			name: "declared category never observed",
			ds: func() *association.Dataset {
				ds, _ := association.NewDatasetWithCategories([]string{"a", "b"},
					[][]string{{"x", "1"}, {"y", "2"}},
					[][]string{{"x", "y", "z"}, {"1", "2"}})
				return ds
			},
			want: core.ErrInsufficientData,
		},
		{
			name: "nil dataset",
			ds:   func() *association.Dataset { return nil },
			want: core.ErrInvalidVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.ds())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func randomMargins(rng *rand.Rand, cards []int) [][]float64 {
	margins := make([][]float64, len(cards))
	for v, k := range cards {
		m := make([]float64, k)
		total := 0.0
		for i := range m {
			m[i] = rng.Float64() + 1e-3
			total += m[i]
		}
		for i := range m {
			m[i] /= total
		}
		margins[v] = m
	}
	return margins
}

func assertOrdered(t *testing.T, lo, hi *contingency.Array, what string) {
	t.Helper()
	require.True(t, lo.SameShape(hi))
	for i := range lo.Data() {
		if lo.Data()[i] > hi.Data()[i]+tol {
			t.Fatalf("%s violated at %d: %g > %g", what, i, lo.Data()[i], hi.Data()[i])
		}
	}
}

func TestBounds_ContainExpected(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shapes := [][]int{{2, 2}, {3, 4}, {2, 3, 2}, {4, 2, 2, 3}}

	for trial := 0; trial < 50; trial++ {
		margins := randomMargins(rng, shapes[trial%len(shapes)])
		e := Expected(margins)
		lo := TheoreticalMin(margins)
		hi := TheoreticalMax(margins)

		assert.InDelta(t, 1.0, e.Sum(), 1e-9)
		assertOrdered(t, lo, e, "min <= expected")
		assertOrdered(t, e, hi, "expected <= max")
		assert.GreaterOrEqual(t, lo.Min(), 0.0)
	}
}

func TestBounds_ContainObserved(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		cfg := testkit.DefaultCategoricalConfig()
		cfg.Rows = 40 + int(seed)*7
		cfg.Seed = seed
		names, rows := testkit.NewCategoricalDataGenerator(cfg).Shopping()

		b, err := Estimate(testkit.MustDataset(names, rows))
		require.NoError(t, err)

		assert.InDelta(t, 1.0, b.Observed.Sum(), 1e-9)
		assertOrdered(t, b.TheoreticalMin, b.Observed, "min <= observed")
		assertOrdered(t, b.Observed, b.TheoreticalMax, "observed <= max")
	}
}

func TestExpected_OrderInvariant(t *testing.T) {
	margins := [][]float64{{0.2, 0.8}, {0.1, 0.3, 0.6}}
	ab := Expected(margins)
	ba := Expected([][]float64{margins[1], margins[0]})

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, ab.At(i, j), ba.At(j, i), tol)
		}
	}
}

func TestTabulate_ReusesBuffer(t *testing.T) {
	dst := contingency.New(2, 2)
	Tabulate(dst, [][]int{{0, 1, 1, 1}, {0, 0, 1, 1}})
	assert.InDeltaSlice(t, []float64{0.25, 0, 0.25, 0.5}, dst.Data(), tol)

	Tabulate(dst, [][]int{{0, 0}, {1, 1}})
	assert.InDeltaSlice(t, []float64{0, 1, 0, 0}, dst.Data(), tol)
}
