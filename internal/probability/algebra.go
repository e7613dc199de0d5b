package probability

import (
	"math"

	"zebu/domain/association"
	"zebu/domain/contingency"
)

// Expected is the outer product of the marginals: the joint distribution
// under full mutual independence.
func Expected(margins [][]float64) *contingency.Array {
	return combine(margins, func(x, y float64) float64 { return x * y })
}

// TheoreticalMax is min_i p(x_i) broadcast to the joint shape.
func TheoreticalMax(margins [][]float64) *contingency.Array {
	return combine(margins, math.Min)
}

// TheoreticalMin is max(0, sum_i p(x_i) - (M-1)).
func TheoreticalMin(margins [][]float64) *contingency.Array {
	out := combine(margins, func(x, y float64) float64 { return x + y })
	shift := float64(len(margins) - 1)
	data := out.Data()
	for i, v := range data {
		data[i] = math.Max(0, v-shift)
	}
	return out
}

func combine(margins [][]float64, op func(x, y float64) float64) *contingency.Array {
	var out *contingency.Array
	for _, m := range margins {
		out = contingency.Outer(out, m, op)
	}
	return out
}

// Bundle collects every probability array derived from one dataset.
type Bundle struct {
	N              int
	Margins        [][]float64
	Observed       *contingency.Array
	Expected       *contingency.Array
	TheoreticalMax *contingency.Array
	TheoreticalMin *contingency.Array
}

// Estimate computes the full bundle for ds.
func Estimate(ds *association.Dataset) (*Bundle, error) {
	margins, err := Marginals(ds)
	if err != nil {
		return nil, err
	}
	observed, err := Joint(ds)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		N:              ds.Rows(),
		Margins:        margins,
		Observed:       observed,
		Expected:       Expected(margins),
		TheoreticalMax: TheoreticalMax(margins),
		TheoreticalMin: TheoreticalMin(margins),
	}, nil
}
