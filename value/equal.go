package value

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are structurally equal.
//
// Floats compare by value with NaN equal to NaN, times compare by instant,
// arrays by dtype, shape and element bytes, frames and series by column
// order, index order and cells.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		y := b.(Float)
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case String:
		return x == b.(String)
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	case List:
		return equalSlices(x, b.(List))
	case Map:
		y := b.(Map)
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Time:
		return x.Equal(b.(Time).Time)
	case Date:
		return x == b.(Date)
	case *Array:
		return x.equal(b.(*Array))
	case *Frame:
		y := b.(*Frame)
		if len(x.Columns) != len(y.Columns) || len(x.Rows) != len(y.Rows) {
			return false
		}
		for i := range x.Columns {
			if x.Columns[i] != y.Columns[i] {
				return false
			}
		}
		if !equalSlices(x.Index, y.Index) {
			return false
		}
		for i := range x.Rows {
			if !equalSlices(x.Rows[i], y.Rows[i]) {
				return false
			}
		}
		return true
	case *Series:
		y := b.(*Series)
		if (x.Name == nil) != (y.Name == nil) || (x.Name != nil && *x.Name != *y.Name) {
			return false
		}
		return equalSlices(x.Index, y.Index) && equalSlices(x.Data, y.Data)
	default:
		return false
	}
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
