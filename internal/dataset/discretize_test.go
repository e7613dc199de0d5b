package dataset

import (
	"errors"
	"strconv"
	"testing"

	"zebu/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func TestDiscretize_EqualWidth(t *testing.T) {
	values := append(sequence(0, 10), "")
	labels, err := Discretize(values, BinOptions{Breaks: 2})
	require.NoError(t, err)

	assert.Equal(t, "[0,5)", labels[0])
	assert.Equal(t, "[0,5)", labels[4])
	assert.Equal(t, "[5,10]", labels[5])
	assert.Equal(t, "[5,10]", labels[10], "the maximum falls in the closed last bin")
	assert.Equal(t, "", labels[11], "missing stays missing")
}

func TestDiscretize_Quantile(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i + 1)
	}
	edges, err := Breakpoints(data, BinOptions{Breaks: 4, Method: BinQuantile})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 25, 50, 75, 100}, edges)

	labels, err := Discretize(sequence(1, 100), BinOptions{Breaks: 4, Method: BinQuantile})
	require.NoError(t, err)
	counts := map[string]int{}
	for _, l := range labels {
		counts[l]++
	}
	assert.Equal(t, map[string]int{"[1,25)": 24, "[25,50)": 25, "[50,75)": 25, "[75,100]": 26}, counts)
}

func TestDiscretize_ExplicitEdges(t *testing.T) {
	labels, err := Discretize([]string{"0.5", "1.5", "2.25", "9"}, BinOptions{Edges: []float64{0, 1, 2.5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"[0,1)", "[1,2.5]", "[1,2.5]", ""}, labels)
}

func TestDiscretize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		opts   BinOptions
		want   error
	}{
		{"non numeric", []string{"1", "red"}, BinOptions{Breaks: 2}, core.ErrInvalidParameter},
		{"one break", sequence(1, 5), BinOptions{Breaks: 1}, core.ErrInvalidParameter},
		{"constant", []string{"3", "3", "3"}, BinOptions{Breaks: 2}, core.ErrInsufficientData},
		{"empty", []string{"", ""}, BinOptions{Breaks: 2}, core.ErrInsufficientData},
		{"unsorted edges", sequence(1, 5), BinOptions{Edges: []float64{0, 3, 2}}, core.ErrInvalidParameter},
		{"unknown method", sequence(1, 5), BinOptions{Breaks: 2, Method: "kmeans"}, core.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discretize(tt.values, tt.opts)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestIsContinuous(t *testing.T) {
	assert.True(t, IsContinuous(sequence(1, 10), 4))
	assert.False(t, IsContinuous(sequence(1, 4), 4), "no more distinct values than breaks")
	assert.False(t, IsContinuous([]string{"1.5", "yes", "2"}, 1))
	assert.True(t, IsContinuous([]string{"1.5", "", "2", "3.25"}, 2))
}

func TestIntervalLabels(t *testing.T) {
	assert.Equal(t, []string{"[-1.5,0)", "[0,0.3333]"}, IntervalLabels([]float64{-1.5, 0, 1.0 / 3}))
}

func TestDiscretizeWithLabels_NumericOrder(t *testing.T) {
	values, order, err := DiscretizeWithLabels([]string{"2", "15", "30", "7"}, BinOptions{Edges: []float64{2, 10, 20, 30}})
	require.NoError(t, err)

	assert.Equal(t, []string{"[2,10)", "[10,20)", "[20,30]"}, order)
	assert.Equal(t, []string{"[2,10)", "[10,20)", "[20,30]", "[2,10)"}, values)
}
