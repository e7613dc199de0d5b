// Package probability derives marginal, joint, expected and bound arrays
// from categorical data.
package probability

import (
	"fmt"

	"zebu/domain/association"
	"zebu/domain/contingency"
	"zebu/domain/core"
)

// Validate checks that a dataset can be estimated: at least one row and at
// least two categories per variable.
func Validate(ds *association.Dataset) error {
	if ds == nil || ds.Arity() == 0 {
		return fmt.Errorf("%w: no variables", core.ErrInvalidVariable)
	}
	for _, v := range ds.Variables {
		if v.Cardinality() < 2 {
			return core.NewVariableError(v.Name, fmt.Sprintf("has %d categories, need at least 2", v.Cardinality()))
		}
	}
	if ds.Rows() == 0 {
		return fmt.Errorf("%w: dataset has no complete rows", core.ErrInsufficientData)
	}
	return nil
}

// Marginals returns one probability vector per variable (count / N).
// A category that never occurs makes its probability 0, which later
// appears as a divisor, so it is rejected here.
func Marginals(ds *association.Dataset) ([][]float64, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}
	n := float64(ds.Rows())
	margins := make([][]float64, ds.Arity())
	for v, variable := range ds.Variables {
		counts := make([]float64, variable.Cardinality())
		for _, code := range ds.Codes[v] {
			counts[code]++
		}
		for c, count := range counts {
			if count == 0 {
				return nil, fmt.Errorf("%w: category %q of %q is never observed",
					core.ErrInsufficientData, variable.Categories[c], variable.Name)
			}
			counts[c] = count / n
		}
		margins[v] = counts
	}
	return margins, nil
}

// Joint returns the observed joint probability array.
func Joint(ds *association.Dataset) (*contingency.Array, error) {
	if err := Validate(ds); err != nil {
		return nil, err
	}
	joint := contingency.New(ds.Shape()...)
	Tabulate(joint, ds.Codes)
	return joint, nil
}

// Tabulate overwrites dst with the joint probabilities of codes.
// dst must have one axis per column with matching cardinalities.
func Tabulate(dst *contingency.Array, codes [][]int) {
	dst.Fill(0)
	if len(codes) == 0 || len(codes[0]) == 0 {
		return
	}
	shape := dst.Shape()
	data := dst.Data()
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	rows := len(codes[0])
	for r := 0; r < rows; r++ {
		off := 0
		for v, col := range codes {
			off += col[r] * strides[v]
		}
		data[off]++
	}
	dst.Scale(1 / float64(rows))
}
