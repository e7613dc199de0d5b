// Package contingency holds the dense M-dimensional arrays used for joint,
// expected and local association values. Storage is row-major: the last
// axis varies fastest.
package contingency

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Array is a dense float64 array with one axis per variable.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// New allocates a zero-filled array with the given axis lengths.
func New(shape ...int) *Array {
	size := 1
	for _, k := range shape {
		if k < 0 {
			panic(fmt.Sprintf("contingency: negative axis length %d", k))
		}
		size *= k
	}
	a := &Array{
		shape: append([]int(nil), shape...),
		data:  make([]float64, size),
	}
	a.strides = stridesFor(a.shape)
	return a
}

// FromData wraps data (not copied) as an array of the given shape.
func FromData(shape []int, data []float64) (*Array, error) {
	size := 1
	for _, k := range shape {
		if k < 0 {
			return nil, fmt.Errorf("negative axis length %d", k)
		}
		size *= k
	}
	if size != len(data) {
		return nil, fmt.Errorf("shape %v needs %d values, got %d", shape, size, len(data))
	}
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesFor(shape),
		data:    data,
	}, nil
}

func stridesFor(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
	}
	return strides
}

// Shape returns a copy of the axis lengths.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Rank is the number of axes.
func (a *Array) Rank() int { return len(a.shape) }

// Len is the total number of cells.
func (a *Array) Len() int { return len(a.data) }

// Data exposes the backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

// Offset converts a multi-index to a position in Data.
func (a *Array) Offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("contingency: index rank %d, array rank %d", len(idx), len(a.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic(fmt.Sprintf("contingency: index %v out of range for shape %v", idx, a.shape))
		}
		off += v * a.strides[i]
	}
	return off
}

// Unravel writes the multi-index of offset into idx.
func (a *Array) Unravel(offset int, idx []int) {
	for i, s := range a.strides {
		idx[i] = offset / s
		offset %= s
	}
}

// At returns the value at the given multi-index.
func (a *Array) At(idx ...int) float64 { return a.data[a.Offset(idx)] }

// Set stores v at the given multi-index.
func (a *Array) Set(v float64, idx ...int) { a.data[a.Offset(idx)] = v }

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// SameShape reports whether b has the same axis lengths as a.
func (a *Array) SameShape(b *Array) bool {
	if b == nil || len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// Sum of all cells.
func (a *Array) Sum() float64 { return floats.Sum(a.data) }

// Min and Max over all cells; both panic on an empty array.
func (a *Array) Min() float64 { return floats.Min(a.data) }
func (a *Array) Max() float64 { return floats.Max(a.data) }

// Fill sets every cell to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Scale multiplies every cell by c in place.
func (a *Array) Scale(c float64) { floats.Scale(c, a.data) }

// Each calls fn for every cell in storage order. idx is reused between calls.
func (a *Array) Each(fn func(idx []int, v float64)) {
	idx := make([]int, len(a.shape))
	for off, v := range a.data {
		a.Unravel(off, idx)
		fn(idx, v)
	}
}

// Outer returns the array of shape (a.shape..., len(v)) whose cell
// (i..., j) is op(a[i...], v[j]). A nil a starts from v alone.
func Outer(a *Array, v []float64, op func(x, y float64) float64) *Array {
	if a == nil {
		out := New(len(v))
		copy(out.data, v)
		return out
	}
	shape := append(a.Shape(), len(v))
	out := New(shape...)
	k := len(v)
	for i, x := range a.data {
		row := out.data[i*k : (i+1)*k]
		for j, y := range v {
			row[j] = op(x, y)
		}
	}
	return out
}

type arrayJSON struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// MarshalJSON encodes the array as {"shape": [...], "data": [...]}.
func (a *Array) MarshalJSON() ([]byte, error) {
	return json.Marshal(arrayJSON{Shape: a.shape, Data: a.data})
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (a *Array) UnmarshalJSON(b []byte) error {
	var raw arrayJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	decoded, err := FromData(raw.Shape, raw.Data)
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}
