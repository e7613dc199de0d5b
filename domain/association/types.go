package association

import (
	"fmt"
	"strings"
	"time"

	"zebu/domain/contingency"
	"zebu/domain/core"
)

// Measure identifies a local association measure.
type Measure string

const (
	MeasureD     Measure = "d"     // Lewontin's D
	MeasureZ     Measure = "z"     // Ducher's Z
	MeasurePMI   Measure = "pmi"   // pointwise mutual information
	MeasureNPMI  Measure = "npmi"  // normalized pmi, two variables only
	MeasureNPMI2 Measure = "npmi2" // normalized pmi for any number of variables
	MeasureChiSq Measure = "chisq" // chi-squared residuals
)

// Measures lists every supported measure in display order.
var Measures = []Measure{MeasureD, MeasureZ, MeasurePMI, MeasureNPMI, MeasureNPMI2, MeasureChiSq}

// ParseMeasure maps an identifier (case-insensitive) to a Measure.
func ParseMeasure(s string) (Measure, error) {
	m := Measure(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Measures {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrInvalidMeasure, s)
}

func (m Measure) String() string { return string(m) }

// SignificanceState records which significance step, if any, has run.
type SignificanceState string

const (
	SignificanceNone        SignificanceState = "none"
	SignificancePermutation SignificanceState = "permutation"
	SignificanceAnalytic    SignificanceState = "analytic"
)

// NullSummary describes the permuted distribution of the global value.
type NullSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile95 float64 `json:"percentile_95"`
	Percentile99 float64 `json:"percentile_99"`
}

// Significance is attached to a Result by a significance step.
type Significance struct {
	State        SignificanceState  `json:"state"`
	Permutations int                `json:"permutations,omitempty"`
	Seed         int64              `json:"seed,omitempty"`
	PAdjust      string             `json:"p_adjust"`
	LocalP       *contingency.Array `json:"local_p"`
	GlobalP      float64            `json:"global_p"`
	NullGlobal   *NullSummary       `json:"null_global,omitempty"`
	ComputedAt   time.Time          `json:"computed_at"`
}

// Result is the output of estimation, optionally augmented with
// significance. Later steps only add to it.
type Result struct {
	ID             core.ID            `json:"id"`
	Measure        Measure            `json:"measure"`
	Variables      []Variable         `json:"variables"`
	SampleSize     int                `json:"sample_size"`
	Margins        [][]float64        `json:"margins"`
	Observed       *contingency.Array `json:"observed"`
	Expected       *contingency.Array `json:"expected"`
	TheoreticalMax *contingency.Array `json:"theoretical_max"`
	TheoreticalMin *contingency.Array `json:"theoretical_min"`
	Local          *contingency.Array `json:"local"`
	Global         float64            `json:"global"`
	Significance   *Significance      `json:"significance,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`

	// Data is retained for resampling.
	Data *Dataset `json:"data,omitempty"`
}

// VariableNames returns the variable names in order.
func (r *Result) VariableNames() []string {
	names := make([]string, len(r.Variables))
	for i, v := range r.Variables {
		names[i] = v.Name
	}
	return names
}

// State reports the significance state.
func (r *Result) State() SignificanceState {
	if r.Significance == nil {
		return SignificanceNone
	}
	return r.Significance.State
}

// Attach records a completed significance step. A later step replaces an
// earlier one as a whole.
func (r *Result) Attach(s *Significance) {
	r.Significance = s
}

// Field names a retrievable part of a Result.
type Field string

const (
	FieldLocal          Field = "local"
	FieldObserved       Field = "observed"
	FieldExpected       Field = "expected"
	FieldTheoreticalMax Field = "theoretical_max"
	FieldTheoreticalMin Field = "theoretical_min"
	FieldGlobal         Field = "global"
	FieldLocalP         Field = "local_p"
	FieldGlobalP        Field = "global_p"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldLocal, FieldObserved, FieldExpected, FieldTheoreticalMax,
		FieldTheoreticalMin, FieldGlobal, FieldLocalP, FieldGlobalP:
		return f, nil
	}
	return "", core.NewParameterError("field", fmt.Sprintf("unknown field %q", s))
}

// Value is either an array or a scalar.
type Value struct {
	Array  *contingency.Array `json:"array,omitempty"`
	Scalar float64            `json:"scalar"`
}

// IsScalar reports whether the value carries a scalar.
func (v Value) IsScalar() bool { return v.Array == nil }

// Get returns a field of the result. Significance fields fail with
// ErrFieldNotAvailable until a significance step has run.
func (r *Result) Get(f Field) (Value, error) {
	switch f {
	case FieldLocal:
		return Value{Array: r.Local}, nil
	case FieldObserved:
		return Value{Array: r.Observed}, nil
	case FieldExpected:
		return Value{Array: r.Expected}, nil
	case FieldTheoreticalMax:
		return Value{Array: r.TheoreticalMax}, nil
	case FieldTheoreticalMin:
		return Value{Array: r.TheoreticalMin}, nil
	case FieldGlobal:
		return Value{Scalar: r.Global}, nil
	case FieldLocalP, FieldGlobalP:
		if r.State() == SignificanceNone {
			return Value{}, fmt.Errorf("%w: %s requires a significance test", core.ErrFieldNotAvailable, f)
		}
		if f == FieldLocalP {
			return Value{Array: r.Significance.LocalP}, nil
		}
		return Value{Scalar: r.Significance.GlobalP}, nil
	}
	return Value{}, core.NewParameterError("field", fmt.Sprintf("unknown field %q", f))
}

// Cell is one category combination, flattened for presentation.
type Cell struct {
	Labels   []string `json:"labels"`
	Observed float64  `json:"observed"`
	Expected float64  `json:"expected"`
	Local    float64  `json:"local"`
	PValue   *float64 `json:"p_value,omitempty"`
}

// Cells flattens the result in storage order (last variable fastest).
func (r *Result) Cells() []Cell {
	cells := make([]Cell, 0, r.Local.Len())
	var localP []float64
	if r.Significance != nil && r.Significance.LocalP != nil {
		localP = r.Significance.LocalP.Data()
	}
	r.Local.Each(func(idx []int, v float64) {
		off := r.Local.Offset(idx)
		labels := make([]string, len(idx))
		for i, c := range idx {
			labels[i] = r.Variables[i].Categories[c]
		}
		cell := Cell{
			Labels:   labels,
			Observed: r.Observed.Data()[off],
			Expected: r.Expected.Data()[off],
			Local:    v,
		}
		if localP != nil {
			p := localP[off]
			cell.PValue = &p
		}
		cells = append(cells, cell)
	})
	return cells
}
