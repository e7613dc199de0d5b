package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"zebu/domain/core"
)

// BinMethod selects how breakpoints are placed
type BinMethod string

const (
	BinEqualWidth BinMethod = "width"
	BinQuantile   BinMethod = "quantile"
)

// BinOptions configure Discretize. Edges, when set, override Breaks and
// Method.
type BinOptions struct {
	Breaks int
	Method BinMethod
	Edges  []float64
}

// IsContinuous reports whether every non-empty value parses as a number
// and there are more distinct values than breaks.
func IsContinuous(values []string, breaks int) bool {
	distinct := make(map[float64]struct{})
	for _, v := range values {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		distinct[f] = struct{}{}
	}
	return len(distinct) > breaks
}

// Discretize maps numeric strings to interval labels "[a,b)", the last
// interval closed "[a,b]". Empty values stay empty, as do values outside
// explicit edges.
func Discretize(values []string, opts BinOptions) ([]string, error) {
	out, _, err := DiscretizeWithLabels(values, opts)
	return out, err
}

// DiscretizeWithLabels is Discretize that also returns every interval
// label in increasing numeric order.
func DiscretizeWithLabels(values []string, opts BinOptions) ([]string, []string, error) {
	numbers := make([]float64, 0, len(values))
	parsed := make([]float64, len(values))
	present := make([]bool, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, core.NewParameterError("values", fmt.Sprintf("%q is not numeric", v))
		}
		parsed[i], present[i] = f, true
		numbers = append(numbers, f)
	}
	if len(numbers) == 0 {
		return nil, nil, fmt.Errorf("%w: no numeric values to bin", core.ErrInsufficientData)
	}

	edges, err := Breakpoints(numbers, opts)
	if err != nil {
		return nil, nil, err
	}
	labels := IntervalLabels(edges)

	out := make([]string, len(values))
	for i := range values {
		if !present[i] {
			continue
		}
		if b := bin(edges, parsed[i]); b >= 0 {
			out[i] = labels[b]
		}
	}
	return out, labels, nil
}

// Breakpoints computes strictly increasing bin edges for data
func Breakpoints(data []float64, opts BinOptions) ([]float64, error) {
	if len(opts.Edges) > 0 {
		if len(opts.Edges) < 3 {
			return nil, core.NewParameterError("edges", "need at least 3 edges for 2 bins")
		}
		if !sort.Float64sAreSorted(opts.Edges) || hasDuplicates(opts.Edges) {
			return nil, core.NewParameterError("edges", "must be strictly increasing")
		}
		return append([]float64(nil), opts.Edges...), nil
	}
	if opts.Breaks < 2 {
		return nil, core.NewParameterError("breaks", fmt.Sprintf("must be at least 2, got %d", opts.Breaks))
	}

	lo, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	if lo == hi {
		return nil, fmt.Errorf("%w: all values equal %g", core.ErrInsufficientData, lo)
	}

	edges := make([]float64, 0, opts.Breaks+1)
	edges = append(edges, lo)
	switch opts.Method {
	case "", BinEqualWidth:
		width := (hi - lo) / float64(opts.Breaks)
		for i := 1; i < opts.Breaks; i++ {
			edges = append(edges, lo+float64(i)*width)
		}
	case BinQuantile:
		for i := 1; i < opts.Breaks; i++ {
			q, err := stats.Percentile(data, 100*float64(i)/float64(opts.Breaks))
			if err != nil {
				return nil, err
			}
			if q > edges[len(edges)-1] && q < hi {
				edges = append(edges, q)
			}
		}
	default:
		return nil, core.NewParameterError("method", fmt.Sprintf("unknown binning method %q", opts.Method))
	}
	return append(edges, hi), nil
}

// IntervalLabels renders one label per bin
func IntervalLabels(edges []float64) []string {
	labels := make([]string, len(edges)-1)
	for i := range labels {
		closing := ")"
		if i == len(labels)-1 {
			closing = "]"
		}
		labels[i] = "[" + formatEdge(edges[i]) + "," + formatEdge(edges[i+1]) + closing
	}
	return labels
}

func formatEdge(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// bin returns the interval index of v, or -1 outside the edges
func bin(edges []float64, v float64) int {
	last := len(edges) - 1
	if v < edges[0] || v > edges[last] {
		return -1
	}
	if v == edges[last] {
		return last - 1
	}
	// first edge strictly greater than v
	i := sort.Search(len(edges), func(i int) bool { return edges[i] > v })
	return i - 1
}

func hasDuplicates(sorted []float64) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}
