package encoding

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/value"
)

// MarkerKey is the reserved map key that tags a marker map with its extended kind.
const MarkerKey = "__ext__"

// Marker kinds.
const (
	MarkerArray    = "array"
	MarkerFrame    = "frame"
	MarkerSeries   = "series"
	MarkerDatetime = "datetime"
	MarkerDate     = "date"
	MarkerBytes    = "bytes"
)

// Marker map fields.
const (
	fieldData    = "data"
	fieldDType   = "dtype"
	fieldIndex   = "index"
	fieldColumns = "columns"
	fieldName    = "name"
	fieldValue   = "value"
)

// Natives lists the extended kinds a format can carry without marker maps.
type Natives struct {
	// Bytes is set when the format has a native binary string type.
	Bytes bool
}

// EncodeExtended rewrites every extended value in v as a marker map.
//
// The result only contains Null, Bool, Int, Float, String, List and Map
// values, plus Bytes when native.Bytes is set. A nil v is treated as Null.
// A Date that does not exist returns errs.ErrUnsupportedValue.
func EncodeExtended(v value.Value, native Natives) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.Null{}, nil
	case value.List:
		return encodeExtendedSlice(x, native)
	case value.Map:
		out := make(value.Map, len(x))
		for k, item := range x {
			enc, err := EncodeExtended(item, native)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case *value.Array:
		return value.Map{
			MarkerKey:  value.String(MarkerArray),
			fieldData:  x.Nested(),
			fieldDType: value.String(x.DType().String()),
		}, nil
	case *value.Frame:
		records := make(value.List, len(x.Rows))
		for i, rec := range x.Records() {
			enc, err := EncodeExtended(rec, native)
			if err != nil {
				return nil, err
			}
			records[i] = enc
		}
		columns := make(value.List, len(x.Columns))
		for i, c := range x.Columns {
			columns[i] = value.String(c)
		}
		index, err := encodeExtendedSlice(x.Index, native)
		if err != nil {
			return nil, err
		}
		return value.Map{
			MarkerKey:    value.String(MarkerFrame),
			fieldData:    records,
			fieldIndex:   index,
			fieldColumns: columns,
		}, nil
	case *value.Series:
		var name value.Value = value.Null{}
		if x.Name != nil {
			name = value.String(*x.Name)
		}
		data, err := encodeExtendedSlice(x.Data, native)
		if err != nil {
			return nil, err
		}
		index, err := encodeExtendedSlice(x.Index, native)
		if err != nil {
			return nil, err
		}
		return value.Map{
			MarkerKey:  value.String(MarkerSeries),
			fieldData:  data,
			fieldIndex: index,
			fieldName:  name,
		}, nil
	case value.Time:
		return value.Map{
			MarkerKey:  value.String(MarkerDatetime),
			fieldValue: value.String(value.FormatTime(x.Time)),
		}, nil
	case value.Date:
		if err := x.Validate(); err != nil {
			return nil, err
		}
		return value.Map{
			MarkerKey:  value.String(MarkerDate),
			fieldValue: value.String(x.String()),
		}, nil
	case value.Bytes:
		if native.Bytes {
			return x, nil
		}
		return value.Map{
			MarkerKey:  value.String(MarkerBytes),
			fieldValue: value.String(base64.StdEncoding.EncodeToString(x)),
		}, nil
	default:
		return v, nil
	}
}

func encodeExtendedSlice(vals []value.Value, native Natives) (value.List, error) {
	out := make(value.List, len(vals))
	for i, item := range vals {
		enc, err := EncodeExtended(item, native)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}

	return out, nil
}

// DecodeExtended restores the extended values encoded as marker maps in v.
//
// Children are decoded before their parents, so frames and series may hold
// extended cells. Maps without MarkerKey, or whose marker names an unknown
// kind, are returned as plain maps. A known marker with a missing or invalid
// payload returns errs.ErrMalformedExtendedValue.
func DecodeExtended(v value.Value) (value.Value, error) {
	switch x := v.(type) {
	case nil:
		return value.Null{}, nil
	case value.List:
		return decodeExtendedSlice(x)
	case value.Map:
		out := make(value.Map, len(x))
		for k, item := range x {
			dec, err := DecodeExtended(item)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}

		marker, ok := out[MarkerKey].(value.String)
		if !ok {
			return out, nil
		}

		return decodeMarker(string(marker), out)
	default:
		return v, nil
	}
}

func decodeExtendedSlice(vals value.List) (value.List, error) {
	out := make(value.List, len(vals))
	for i, item := range vals {
		dec, err := DecodeExtended(item)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}

	return out, nil
}

func decodeMarker(marker string, m value.Map) (value.Value, error) {
	switch marker {
	case MarkerArray:
		return decodeArray(m)
	case MarkerFrame:
		return decodeFrame(m)
	case MarkerSeries:
		return decodeSeries(m)
	case MarkerDatetime:
		s, err := stringField(marker, m, fieldValue)
		if err != nil {
			return nil, err
		}
		t, err := value.ParseTime(s)
		if err != nil {
			return nil, malformed(marker, "%w", err)
		}
		return value.Time{Time: t}, nil
	case MarkerDate:
		s, err := stringField(marker, m, fieldValue)
		if err != nil {
			return nil, err
		}
		d, err := value.ParseDate(s)
		if err != nil {
			return nil, malformed(marker, "%w", err)
		}
		return d, nil
	case MarkerBytes:
		s, err := stringField(marker, m, fieldValue)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, malformed(marker, "%w", err)
		}
		return value.Bytes(b), nil
	default:
		return m, nil
	}
}

func decodeArray(m value.Map) (value.Value, error) {
	data, ok := m[fieldData]
	if !ok {
		return nil, malformed(MarkerArray, "missing %q", fieldData)
	}

	var dtype value.DType
	switch name := m[fieldDType].(type) {
	case nil, value.Null:
		dtype = inferDType(data)
	case value.String:
		var err error
		if dtype, err = value.ParseDType(string(name)); err != nil {
			return nil, malformed(MarkerArray, "%w", err)
		}
	default:
		return nil, malformed(MarkerArray, "%q must be a string, got %s", fieldDType, name.Kind())
	}

	arr, err := value.FromNested(dtype, data)
	if err != nil {
		return nil, malformed(MarkerArray, "%w", err)
	}

	return arr, nil
}

// inferDType picks the dtype of an array marker that carries no dtype:
// float64 if any element is a float or the array is empty, bool if every
// element is a bool, int64 otherwise.
func inferDType(data value.Value) value.DType {
	var floats, ints, bools int
	var walk func(v value.Value)
	walk = func(v value.Value) {
		switch x := v.(type) {
		case value.List:
			for _, item := range x {
				walk(item)
			}
		case value.Float:
			floats++
		case value.Bool:
			bools++
		default:
			ints++
		}
	}
	walk(data)

	switch {
	case floats > 0 || floats+ints+bools == 0:
		return value.DTypeFloat64
	case ints == 0:
		return value.DTypeBool
	default:
		return value.DTypeInt64
	}
}

func decodeFrame(m value.Map) (value.Value, error) {
	records, err := listField(MarkerFrame, m, fieldData, true)
	if err != nil {
		return nil, err
	}

	rows := make([]value.Map, len(records))
	for i, rec := range records {
		row, ok := rec.(value.Map)
		if !ok {
			return nil, malformed(MarkerFrame, "record %d is %s, not a map", i, rec.Kind())
		}
		rows[i] = row
	}

	var columns []string
	cols, err := listField(MarkerFrame, m, fieldColumns, false)
	if err != nil {
		return nil, err
	}
	if cols != nil {
		columns = make([]string, len(cols))
		for i, c := range cols {
			name, ok := c.(value.String)
			if !ok {
				return nil, malformed(MarkerFrame, "column %d is %s, not a string", i, c.Kind())
			}
			columns[i] = string(name)
		}
	} else {
		// without an explicit order, use the sorted union of the record keys
		seen := make(map[string]struct{})
		for _, row := range rows {
			for k := range row {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					columns = append(columns, k)
				}
			}
		}
		slices.Sort(columns)
	}

	index, err := listField(MarkerFrame, m, fieldIndex, false)
	if err != nil {
		return nil, err
	}

	cells := make([][]value.Value, len(rows))
	for i, row := range rows {
		cells[i] = make([]value.Value, len(columns))
		for c, name := range columns {
			cell, ok := row[name]
			if !ok {
				cell = value.Null{}
			}
			cells[i][c] = cell
		}
	}

	frame, err := value.NewFrame(columns, index, cells)
	if err != nil {
		return nil, malformed(MarkerFrame, "%w", err)
	}

	return frame, nil
}

func decodeSeries(m value.Map) (value.Value, error) {
	data, err := listField(MarkerSeries, m, fieldData, true)
	if err != nil {
		return nil, err
	}

	index, err := listField(MarkerSeries, m, fieldIndex, false)
	if err != nil {
		return nil, err
	}

	var name *string
	switch n := m[fieldName].(type) {
	case nil, value.Null:
	case value.String:
		s := string(n)
		name = &s
	default:
		return nil, malformed(MarkerSeries, "%q must be a string or null, got %s", fieldName, n.Kind())
	}

	series, err := value.NewSeries(name, index, data)
	if err != nil {
		return nil, malformed(MarkerSeries, "%w", err)
	}

	return series, nil
}

// listField returns the List stored under key. A missing or null optional
// field returns nil.
func listField(marker string, m value.Map, key string, required bool) (value.List, error) {
	v, ok := m[key]
	if !ok || v.Kind() == value.KindNull {
		if required {
			return nil, malformed(marker, "missing %q", key)
		}
		return nil, nil
	}

	list, ok := v.(value.List)
	if !ok {
		return nil, malformed(marker, "%q must be a list, got %s", key, v.Kind())
	}

	return list, nil
}

func stringField(marker string, m value.Map, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", malformed(marker, "missing %q", key)
	}

	s, ok := v.(value.String)
	if !ok {
		return "", malformed(marker, "%q must be a string, got %s", key, v.Kind())
	}

	return string(s), nil
}

func malformed(marker string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrMalformedExtendedValue, marker, fmt.Errorf(format, args...))
}
