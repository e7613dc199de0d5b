package measures

import (
	"fmt"
	"math"

	"zebu/domain/association"
	"zebu/domain/contingency"
	"zebu/domain/core"
)

// PMIFloor is the pmi of a combination that never occurs. It is finite so
// that the probability-weighted global value, where such cells carry zero
// weight, stays defined.
const PMIFloor = -math.MaxFloat64

// Inputs are the probability arrays a local measure is computed from.
// All arrays share one shape.
type Inputs struct {
	N              int
	Observed       *contingency.Array
	Expected       *contingency.Array
	TheoreticalMax *contingency.Array
	TheoreticalMin *contingency.Array
}

// cellFunc computes the local value of one cell.
type cellFunc func(o, e, tmax, tmin, n float64) float64

// Formula pairs a measure's cell formula with its arity constraint and
// global aggregate.
type Formula struct {
	Measure       association.Measure
	Description   string
	BivariateOnly bool
	SumOfSquares  bool
	cell          cellFunc
}

var formulas = map[association.Measure]Formula{
	association.MeasureD: {
		Measure:     association.MeasureD,
		Description: "Lewontin's D",
		cell:        lewontinD,
	},
	association.MeasureZ: {
		Measure:     association.MeasureZ,
		Description: "Ducher's Z",
		cell:        ducherZ,
	},
	association.MeasurePMI: {
		Measure:     association.MeasurePMI,
		Description: "Pointwise mutual information",
		cell:        pmi,
	},
	association.MeasureNPMI: {
		Measure:       association.MeasureNPMI,
		Description:   "Normalized pointwise mutual information",
		BivariateOnly: true,
		cell:          npmi,
	},
	association.MeasureNPMI2: {
		Measure:     association.MeasureNPMI2,
		Description: "Normalized pointwise mutual information (multivariate)",
		cell:        npmi2,
	},
	association.MeasureChiSq: {
		Measure:      association.MeasureChiSq,
		Description:  "Chi-squared residuals",
		SumOfSquares: true,
		cell:         chiSquaredResidual,
	},
}

// Lookup returns the formula for a measure.
func Lookup(m association.Measure) (Formula, error) {
	f, ok := formulas[m]
	if !ok {
		return Formula{}, fmt.Errorf("%w: %q", core.ErrInvalidMeasure, m)
	}
	return f, nil
}

// CheckArity fails with ErrUnsupportedArity when the formula cannot be
// applied to nvars variables.
func (f Formula) CheckArity(nvars int) error {
	if nvars < 2 {
		return core.NewArityError(string(f.Measure), "at least 2", nvars)
	}
	if f.BivariateOnly && nvars != 2 {
		return core.NewArityError(string(f.Measure), "exactly 2", nvars)
	}
	return nil
}

// Local computes the local association array for in.
func (f Formula) Local(in Inputs) (*contingency.Array, error) {
	out := contingency.New(in.Observed.Shape()...)
	if err := f.LocalInto(out, in); err != nil {
		return nil, err
	}
	return out, nil
}

// LocalInto writes the local association array into dst, which must have
// the shape of the inputs.
func (f Formula) LocalInto(dst *contingency.Array, in Inputs) error {
	if err := f.CheckArity(in.Observed.Rank()); err != nil {
		return err
	}
	for _, a := range []*contingency.Array{in.Expected, in.TheoreticalMax, in.TheoreticalMin, dst} {
		if !in.Observed.SameShape(a) {
			return fmt.Errorf("%w: array shapes differ", core.ErrInvalidParameter)
		}
	}

	o := in.Observed.Data()
	e := in.Expected.Data()
	hi := in.TheoreticalMax.Data()
	lo := in.TheoreticalMin.Data()
	out := dst.Data()
	n := float64(in.N)
	for i := range out {
		out[i] = f.cell(o[i], e[i], hi[i], lo[i], n)
	}
	return nil
}

// Global aggregates a local array: the sum of squares for chi-squared
// residuals, otherwise the observed-probability weighted sum. A
// non-finite cell is reported as ErrInsufficientData.
func (f Formula) Global(local, observed *contingency.Array) (float64, error) {
	l := local.Data()
	o := observed.Data()
	for i, v := range l {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: non-finite %s value in cell %d", core.ErrInsufficientData, f.Measure, i)
		}
	}

	total := 0.0
	if f.SumOfSquares {
		for _, v := range l {
			total += v * v
		}
	} else {
		for i, v := range l {
			if o[i] == 0 {
				continue
			}
			total += o[i] * v
		}
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: global %s value overflows", core.ErrInsufficientData, f.Measure)
	}
	return total, nil
}

func lewontinD(o, e, _, _, _ float64) float64 {
	return o - e
}

// ducherZ rescales D by the distance from E to the bound in the direction
// of the deviation. A bound equal to E yields 0.
func ducherZ(o, e, tmax, tmin, _ float64) float64 {
	switch {
	case o > e:
		if tmax == e {
			return 0
		}
		return clamp((o - e) / (tmax - e))
	case o < e:
		if e == tmin {
			return 0
		}
		return clamp((o - e) / (e - tmin))
	}
	return 0
}

func pmi(o, e, _, _, _ float64) float64 {
	if e == 0 {
		return 0
	}
	if o == 0 {
		return PMIFloor
	}
	return math.Log(o / e)
}

// npmi is Bouma's normalization pmi / -log(O). It tends to -1 as O -> 0.
func npmi(o, e, _, _, _ float64) float64 {
	if e == 0 {
		return 0
	}
	if o == 0 {
		return -1
	}
	h := -math.Log(o)
	if h == 0 {
		return 0
	}
	return clamp(math.Log(o/e) / h)
}

// npmi2 normalizes positive pmi by its value at O = min_i p(x_i) (the
// theoretical maximum, where pmi = log(Tmax/E)) and negative pmi by -log(O).
func npmi2(o, e, tmax, _, _ float64) float64 {
	if e == 0 {
		return 0
	}
	if o == 0 {
		return -1
	}
	p := math.Log(o / e)
	switch {
	case p > 0:
		denom := math.Log(tmax / e)
		if denom <= 0 {
			return 0
		}
		return clamp(p / denom)
	case p < 0:
		h := -math.Log(o)
		if h == 0 {
			return 0
		}
		return clamp(p / h)
	}
	return 0
}

// chiSquaredResidual is sqrt(N)(O-E)/sqrt(E); a structurally empty cell
// (E = 0) has residual 0.
func chiSquaredResidual(o, e, _, _, n float64) float64 {
	if e == 0 {
		return 0
	}
	return math.Sqrt(n) * (o - e) / math.Sqrt(e)
}

// clamp absorbs rounding that pushes a normalized value just past ±1.
func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
