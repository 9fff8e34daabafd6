package encoding

import (
	"testing"
	"time"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/value"
	"github.com/stretchr/testify/require"
)

func TestEncodeExtended_Markers(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 500, time.UTC)
	name := "s"

	tests := []struct {
		name     string
		in       value.Value
		native   Natives
		expected value.Value
	}{
		{
			name:     "scalar untouched",
			in:       value.Int(5),
			expected: value.Int(5),
		},
		{
			name:     "nil becomes null",
			in:       nil,
			expected: value.Null{},
		},
		{
			name: "datetime",
			in:   value.Time{Time: ts},
			expected: value.Map{
				MarkerKey: value.String(MarkerDatetime),
				"value":   value.String("2024-01-15T10:30:00.0000005Z"),
			},
		},
		{
			name: "date",
			in:   value.Date{Year: 2024, Month: 3, Day: 9},
			expected: value.Map{
				MarkerKey: value.String(MarkerDate),
				"value":   value.String("2024-03-09"),
			},
		},
		{
			name: "bytes as base64",
			in:   value.Bytes{0x00, 0x01, 0x02},
			expected: value.Map{
				MarkerKey: value.String(MarkerBytes),
				"value":   value.String("AAEC"),
			},
		},
		{
			name:     "native bytes",
			in:       value.Bytes{0x00, 0x01, 0x02},
			native:   Natives{Bytes: true},
			expected: value.Bytes{0x00, 0x01, 0x02},
		},
		{
			name: "array",
			in:   mustArray(t, []int{2, 2}, []float32{1.5, 2, 3, 4}),
			expected: value.Map{
				MarkerKey: value.String(MarkerArray),
				"dtype":   value.String("float32"),
				"data": value.List{
					value.List{value.Float(1.5), value.Float(2)},
					value.List{value.Float(3), value.Float(4)},
				},
			},
		},
		{
			name: "frame",
			in: mustFrame(t, []string{"b", "a"}, nil, [][]value.Value{
				{value.Int(1), value.String("x")},
			}),
			expected: value.Map{
				MarkerKey: value.String(MarkerFrame),
				"columns": value.List{value.String("b"), value.String("a")},
				"index":   value.List{value.Int(0)},
				"data": value.List{
					value.Map{"b": value.Int(1), "a": value.String("x")},
				},
			},
		},
		{
			name: "series",
			in:   mustSeries(t, &name, nil, []value.Value{value.Float(0.5)}),
			expected: value.Map{
				MarkerKey: value.String(MarkerSeries),
				"name":    value.String("s"),
				"index":   value.List{value.Int(0)},
				"data":    value.List{value.Float(0.5)},
			},
		},
		{
			name: "nested in containers",
			in:   value.List{value.Map{"d": value.Date{Year: 2000, Month: 1, Day: 1}}},
			expected: value.List{value.Map{"d": value.Map{
				MarkerKey: value.String(MarkerDate),
				"value":   value.String("2000-01-01"),
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeExtended(tt.in, tt.native)
			require.NoError(t, err)
			require.True(t, value.Equal(tt.expected, got), "got %#v", got)

			back, err := DecodeExtended(got)
			require.NoError(t, err)
			if tt.in != nil {
				require.True(t, value.Equal(tt.in, back), "got %#v", back)
			}
		})
	}
}

func TestEncodeExtended_RejectInvalidDate(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
	}{
		{"zero date", value.Date{}},
		{"day past month end", value.Date{Year: 2023, Month: 2, Day: 30}},
		{"month out of range", value.Date{Year: 2023, Month: 13, Day: 1}},
		{"nested in series", &value.Series{Data: []value.Value{value.Date{Year: 2024, Month: 4, Day: 31}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeExtended(tt.in, Natives{})
			require.ErrorIs(t, err, errs.ErrUnsupportedValue)
		})
	}
}

func TestDecodeExtended_PassThrough(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
	}{
		{"plain map", value.Map{"a": value.Int(1)}},
		{"unknown marker", value.Map{MarkerKey: value.String("decimal"), "value": value.String("1.10")}},
		{"non-string marker", value.Map{MarkerKey: value.Int(1), "data": value.List{}}},
		{"list of scalars", value.List{value.Int(1), value.Null{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeExtended(tt.in)
			require.NoError(t, err)
			require.True(t, value.Equal(tt.in, got))
		})
	}
}

func TestDecodeExtended_Malformed(t *testing.T) {
	marker := func(kind string, fields value.Map) value.Map {
		fields[MarkerKey] = value.String(kind)
		return fields
	}

	tests := []struct {
		name string
		in   value.Value
	}{
		{"array without data", marker(MarkerArray, value.Map{"dtype": value.String("int64")})},
		{"array with unknown dtype", marker(MarkerArray, value.Map{"data": value.List{}, "dtype": value.String("complex128")})},
		{"array with non-string dtype", marker(MarkerArray, value.Map{"data": value.List{}, "dtype": value.Int(3)})},
		{"ragged array", marker(MarkerArray, value.Map{
			"data":  value.List{value.List{value.Int(1), value.Int(2)}, value.List{value.Int(3)}},
			"dtype": value.String("int64"),
		})},
		{"array element overflow", marker(MarkerArray, value.Map{"data": value.List{value.Int(300)}, "dtype": value.String("uint8")})},
		{"array of strings", marker(MarkerArray, value.Map{"data": value.List{value.String("a")}, "dtype": value.String("int64")})},
		{"frame without data", marker(MarkerFrame, value.Map{"columns": value.List{}})},
		{"frame with scalar record", marker(MarkerFrame, value.Map{"data": value.List{value.Int(1)}})},
		{"frame with bad column", marker(MarkerFrame, value.Map{"data": value.List{}, "columns": value.List{value.Int(1)}})},
		{"frame index length", marker(MarkerFrame, value.Map{
			"data":  value.List{value.Map{"a": value.Int(1)}},
			"index": value.List{value.Int(0), value.Int(1)},
		})},
		{"series without data", marker(MarkerSeries, value.Map{"name": value.String("x")})},
		{"series data not list", marker(MarkerSeries, value.Map{"data": value.Int(1)})},
		{"series bad name", marker(MarkerSeries, value.Map{"data": value.List{}, "name": value.Int(1)})},
		{"datetime without value", marker(MarkerDatetime, value.Map{})},
		{"datetime not a time", marker(MarkerDatetime, value.Map{"value": value.String("yesterday")})},
		{"date wrong type", marker(MarkerDate, value.Map{"value": value.Int(20240101)})},
		{"date invalid", marker(MarkerDate, value.Map{"value": value.String("2024-02-30")})},
		{"bytes bad base64", marker(MarkerBytes, value.Map{"value": value.String("!!!")})},
		{"nested malformed", value.List{value.Map{"x": marker(MarkerDate, value.Map{})}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeExtended(tt.in)
			require.ErrorIs(t, err, errs.ErrMalformedExtendedValue)
		})
	}
}

func TestDecodeExtended_Defaults(t *testing.T) {
	t.Run("array dtype inferred", func(t *testing.T) {
		tests := []struct {
			name  string
			data  value.Value
			dtype value.DType
		}{
			{"ints", value.List{value.Int(1), value.Int(2)}, value.DTypeInt64},
			{"mixed numbers", value.List{value.Int(1), value.Float(2.5)}, value.DTypeFloat64},
			{"bools", value.List{value.Bool(true), value.Bool(false)}, value.DTypeBool},
			{"empty", value.List{}, value.DTypeFloat64},
			{"scalar", value.Int(3), value.DTypeInt64},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := DecodeExtended(value.Map{MarkerKey: value.String(MarkerArray), "data": tt.data})
				require.NoError(t, err)
				arr, ok := got.(*value.Array)
				require.True(t, ok)
				require.Equal(t, tt.dtype, arr.DType())
			})
		}
	})

	t.Run("frame columns from records", func(t *testing.T) {
		got, err := DecodeExtended(value.Map{
			MarkerKey: value.String(MarkerFrame),
			"data": value.List{
				value.Map{"b": value.Int(1), "a": value.Int(2)},
				value.Map{"c": value.Int(3)},
			},
		})
		require.NoError(t, err)

		frame, ok := got.(*value.Frame)
		require.True(t, ok)
		require.Equal(t, []string{"a", "b", "c"}, frame.Columns)
		require.True(t, value.Equal(value.List(value.RangeIndex(2)), value.List(frame.Index)))
		require.True(t, value.Equal(value.List{value.Int(2), value.Int(1), value.Null{}}, value.List(frame.Rows[0])))
		require.True(t, value.Equal(value.List{value.Null{}, value.Null{}, value.Int(3)}, value.List(frame.Rows[1])))
	})

	t.Run("unnamed series", func(t *testing.T) {
		got, err := DecodeExtended(value.Map{
			MarkerKey: value.String(MarkerSeries),
			"data":    value.List{value.Int(1)},
			"name":    value.Null{},
		})
		require.NoError(t, err)

		series, ok := got.(*value.Series)
		require.True(t, ok)
		require.Nil(t, series.Name)
		require.Len(t, series.Index, 1)
	})

	t.Run("naive datetime is UTC", func(t *testing.T) {
		got, err := DecodeExtended(value.Map{
			MarkerKey: value.String(MarkerDatetime),
			"value":   value.String("2024-01-15T10:30:00"),
		})
		require.NoError(t, err)
		require.True(t, got.(value.Time).Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))
	})
}

func TestDecodeExtended_MarkerCollision(t *testing.T) {
	// a user map shaped like a marker map reads back as the extended value
	user := value.Map{MarkerKey: value.String(MarkerDate), "value": value.String("2024-05-01")}

	got, err := DecodeExtended(user)
	require.NoError(t, err)
	require.Equal(t, value.Date{Year: 2024, Month: time.May, Day: 1}, got)
}
