package value

import (
	"math"
	"testing"
	"time"

	"github.com/arloliu/tagframe/errs"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		in       any
		expected Value
	}{
		{"nil", nil, Null{}},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int8", int8(-8), Int(-8)},
		{"uint32", uint32(7), Int(7)},
		{"float32 narrows", float32(1.5), Float(1.5)},
		{"string", "abc", String("abc")},
		{"bytes", []byte{1, 2}, Bytes{1, 2}},
		{"time", ts, Time{Time: ts}},
		{"value passthrough", Int(3), Int(3)},
		{"any slice", []any{1, "x", nil}, List{Int(1), String("x"), Null{}}},
		{"typed slice", []int{1, 2, 3}, List{Int(1), Int(2), Int(3)}},
		{"nested map", map[string]any{"a": 1, "b": []any{1.5}}, Map{"a": Int(1), "b": List{Float(1.5)}}},
		{"typed map", map[string]float64{"x": 2}, Map{"x": Float(2)}},
		{"nil pointer", (*int)(nil), Null{}},
		{"array", [2]string{"a", "b"}, List{String("a"), String("b")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := From(tt.in)
			require.NoError(t, err)
			require.True(t, Equal(tt.expected, got), "got %#v", got)
		})
	}
}

func TestFrom_Unsupported(t *testing.T) {
	_, err := From(uint64(math.MaxUint64))
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = From(map[int]string{1: "a"})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = From(make(chan int))
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = From(map[string]any{"nested": []any{struct{}{}}})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
}

func TestEqual(t *testing.T) {
	utc := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	plus2 := utc.In(time.FixedZone("UTC+2", 2*3600))
	name := "px"
	other := "qty"

	arrA, err := FromSlice(nil, []float32{1, 2})
	require.NoError(t, err)
	arrB, err := FromSlice(nil, []float64{1, 2})
	require.NoError(t, err)

	require.True(t, Equal(Float(math.NaN()), Float(math.NaN())))
	require.False(t, Equal(Int(1), Float(1)))
	require.True(t, Equal(Time{Time: utc}, Time{Time: plus2}))
	require.False(t, Equal(Time{Time: utc}, DateOf(utc)))
	require.False(t, Equal(arrA, arrB), "dtype is part of equality")
	require.True(t, Equal(Map{"a": List{}}, Map{"a": List{}}))
	require.False(t, Equal(Map{"a": Null{}}, Map{"b": Null{}}))
	require.True(t, Equal(&Series{Name: &name, Index: RangeIndex(1), Data: List{Int(1)}},
		&Series{Name: &name, Index: RangeIndex(1), Data: List{Int(1)}}))
	require.False(t, Equal(&Series{Name: &name}, &Series{Name: &other}))
	require.False(t, Equal(&Series{Name: &name}, &Series{}))
}

func TestFrame(t *testing.T) {
	f, err := NewFrame([]string{"b", "a"}, nil, [][]Value{
		{Int(1), String("x")},
		{Int(2), String("y")},
	})
	require.NoError(t, err)
	require.Equal(t, RangeIndex(2), f.Index)

	col, ok := f.Column("a")
	require.True(t, ok)
	require.Equal(t, []Value{String("x"), String("y")}, col)

	recs := f.Records()
	require.Equal(t, Map{"b": Int(2), "a": String("y")}, recs[1])

	reordered, err := NewFrame([]string{"a", "b"}, nil, [][]Value{
		{String("x"), Int(1)},
		{String("y"), Int(2)},
	})
	require.NoError(t, err)
	require.False(t, Equal(f, reordered), "column order is significant")

	_, err = NewFrame([]string{"a", "a"}, nil, nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = NewFrame([]string{"a"}, []Value{Int(0)}, [][]Value{{Int(1), Int(2)}})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)

	_, err = NewSeries(nil, []Value{Int(0)}, nil)
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
}

func TestDateAndTimeParsing(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	require.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d)
	require.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("2023-02-29")
	require.Error(t, err)

	ts := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("", -5*3600))
	parsed, err := ParseTime(FormatTime(ts))
	require.NoError(t, err)
	require.True(t, ts.Equal(parsed))

	naive, err := ParseTime("2024-05-06T07:08:09.5")
	require.NoError(t, err)
	require.True(t, time.Date(2024, 5, 6, 7, 8, 9, 500000000, time.UTC).Equal(naive))

	_, err = ParseTime("yesterday")
	require.Error(t, err)
}

func TestNewDate(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		valid bool
	}{
		{"leap day", 2024, time.February, 29, true},
		{"first representable", 1, time.January, 1, true},
		{"last representable", 9999, time.December, 31, true},
		{"zero value", 0, 0, 0, false},
		{"february 30", 2023, time.February, 30, false},
		{"non-leap february 29", 2023, time.February, 29, false},
		{"month 13", 2023, 13, 1, false},
		{"day 0", 2023, time.March, 0, false},
		{"year 0", 0, time.January, 1, false},
		{"five digit year", 10000, time.January, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDate(tt.year, tt.month, tt.day)
			if !tt.valid {
				require.ErrorIs(t, err, errs.ErrUnsupportedValue)
				require.ErrorIs(t, Date{Year: tt.year, Month: tt.month, Day: tt.day}.Validate(), errs.ErrUnsupportedValue)
				return
			}

			require.NoError(t, err)
			back, err := ParseDate(d.String())
			require.NoError(t, err)
			require.Equal(t, d, back)
		})
	}

	_, err := ParseDate("0000-01-01")
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
}

func TestKind(t *testing.T) {
	require.Equal(t, "datetime", KindTime.String())
	require.Equal(t, "kind(99)", Kind(99).String())
}
