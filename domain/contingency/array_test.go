package contingency

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_OffsetRoundTrip(t *testing.T) {
	a := New(2, 3, 4)
	require.Equal(t, 24, a.Len())
	require.Equal(t, 3, a.Rank())

	idx := make([]int, 3)
	for off := 0; off < a.Len(); off++ {
		a.Unravel(off, idx)
		assert.Equal(t, off, a.Offset(idx))
	}

	a.Set(7, 1, 2, 3)
	assert.Equal(t, 7.0, a.Data()[23])
	assert.Equal(t, 7.0, a.At(1, 2, 3))
}

func TestArray_OffsetOutOfRangePanics(t *testing.T) {
	a := New(2, 2)
	assert.Panics(t, func() { a.At(2, 0) })
	assert.Panics(t, func() { a.At(0) })
}

func TestFromData_SizeMismatch(t *testing.T) {
	_, err := FromData([]int{2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestOuter_Product(t *testing.T) {
	mul := func(x, y float64) float64 { return x * y }
	a := Outer(nil, []float64{0.5, 0.5}, mul)
	a = Outer(a, []float64{0.4, 0.6}, mul)

	assert.Equal(t, []int{2, 2}, a.Shape())
	assert.InDelta(t, 0.2, a.At(0, 0), 1e-12)
	assert.InDelta(t, 0.3, a.At(0, 1), 1e-12)
	assert.InDelta(t, 0.2, a.At(1, 0), 1e-12)
	assert.InDelta(t, 0.3, a.At(1, 1), 1e-12)
	assert.InDelta(t, 1.0, a.Sum(), 1e-12)
}

func TestArray_CloneIsDeep(t *testing.T) {
	a := New(2)
	b := a.Clone()
	b.Set(1, 0)
	assert.Equal(t, 0.0, a.At(0))
	assert.True(t, a.SameShape(b))
	assert.False(t, a.SameShape(New(3)))
}

func TestArray_EachVisitsInStorageOrder(t *testing.T) {
	a, err := FromData([]int{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	var seen [][]int
	a.Each(func(idx []int, v float64) {
		seen = append(seen, append([]int(nil), idx...))
	})
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, seen)
	assert.Equal(t, 1.0, a.Min())
	assert.Equal(t, 4.0, a.Max())
}

func TestArray_JSON(t *testing.T) {
	a, err := FromData([]int{1, 3}, []float64{0.1, 0.2, 0.7})
	require.NoError(t, err)

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":[1,3],"data":[0.1,0.2,0.7]}`, string(b))

	var back Array
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, a.SameShape(&back))
	assert.Equal(t, a.Data(), back.Data())
}
