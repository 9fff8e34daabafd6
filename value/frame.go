package value

import (
	"fmt"
	"slices"

	"github.com/arloliu/tagframe/errs"
)

// Frame is tabular data: ordered columns, one index label per row and one
// cell per column in every row.
//
// Column order and row order are significant and preserved by every format.
type Frame struct {
	Columns []string
	Index   []Value
	Rows    [][]Value
}

// NewFrame validates the frame shape and returns it.
//
// A nil index is replaced by the default 0..n-1 range index.
func NewFrame(columns []string, index []Value, rows [][]Value) (*Frame, error) {
	if index == nil {
		index = RangeIndex(len(rows))
	}
	if len(index) != len(rows) {
		return nil, fmt.Errorf("%w: frame has %d index labels for %d rows", errs.ErrUnsupportedValue, len(index), len(rows))
	}

	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate frame column %q", errs.ErrUnsupportedValue, c)
		}
		seen[c] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: frame row %d has %d cells for %d columns", errs.ErrUnsupportedValue, i, len(row), len(columns))
		}
	}

	return &Frame{Columns: columns, Index: index, Rows: rows}, nil
}

// RangeIndex returns the labels 0..n-1.
func RangeIndex(n int) []Value {
	index := make([]Value, n)
	for i := range index {
		index[i] = Int(i)
	}

	return index
}

// Column returns the cells of the named column, or false if it does not exist.
func (f *Frame) Column(name string) ([]Value, bool) {
	col := slices.Index(f.Columns, name)
	if col < 0 {
		return nil, false
	}

	out := make([]Value, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[col]
	}

	return out, true
}

// Records returns one Map per row keyed by column name.
func (f *Frame) Records() []Map {
	out := make([]Map, len(f.Rows))
	for i, row := range f.Rows {
		rec := make(Map, len(f.Columns))
		for c, name := range f.Columns {
			rec[name] = row[c]
		}
		out[i] = rec
	}

	return out
}

// Series is a single named column with a row index.
type Series struct {
	// Name is nil for an unnamed series.
	Name  *string
	Index []Value
	Data  []Value
}

// NewSeries validates that index and data have equal length.
// A nil index is replaced by the default 0..n-1 range index.
func NewSeries(name *string, index, data []Value) (*Series, error) {
	if index == nil {
		index = RangeIndex(len(data))
	}
	if len(index) != len(data) {
		return nil, fmt.Errorf("%w: series has %d index labels for %d values", errs.ErrUnsupportedValue, len(index), len(data))
	}

	return &Series{Name: name, Index: index, Data: data}, nil
}
