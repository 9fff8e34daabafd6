// Package value defines the in-memory Value model serialized by tagframe.
//
// Value is a sealed interface: every kind has exactly one Go type and only
// this package can add new ones. Encoders dispatch with a type switch over
// the concrete types, so a new kind fails the exhaustive lint check until
// every format handles it.
//
//	v := value.Map{
//	    "symbol": value.String("BTCUSDT"),
//	    "prices": mustArray(value.FromSlice([]int{3}, []float32{1.5, 2.5, 3.5})),
//	    "at":     value.Time{Time: time.Now()},
//	}
//
// Native Go values are narrowed with From, which accepts every fixed-width
// integer and float type and maps them onto Int and Float.
package value

import (
	"strconv"
	"time"
)

// Kind identifies a Value variant.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindArray
	KindFrame
	KindSeries
	KindTime
	KindDate
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindBytes:  "bytes",
	KindList:   "list",
	KindMap:    "map",
	KindArray:  "array",
	KindFrame:  "frame",
	KindSeries: "series",
	KindTime:   "datetime",
	KindDate:   "date",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the universal unit of serialization.
type Value interface {
	Kind() Kind
	sealed()
}

type (
	// Null is the absent value.
	Null struct{}
	// Bool is a boolean.
	Bool bool
	// Int is a signed integer; every fixed-width integer narrows to it.
	Int int64
	// Float is a floating point number; float32 narrows to it.
	Float float64
	// String is UTF-8 text.
	String string
	// Bytes is a byte string or opaque binary blob.
	Bytes []byte
	// List is an ordered sequence.
	List []Value
	// Map maps string keys to values. Key order is not significant.
	Map map[string]Value
	// Time is a point in time with a time-of-day component.
	Time struct{ time.Time }
)

func (Null) Kind() Kind { return KindNull }
func (Bool) Kind() Kind { return KindBool }
func (Int) Kind() Kind { return KindInt }
func (Float) Kind() Kind { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Bytes) Kind() Kind { return KindBytes }
func (List) Kind() Kind { return KindList }
func (Map) Kind() Kind { return KindMap }
func (Time) Kind() Kind { return KindTime }
func (Date) Kind() Kind { return KindDate }

func (*Array) Kind() Kind { return KindArray }
func (*Frame) Kind() Kind { return KindFrame }
func (*Series) Kind() Kind { return KindSeries }

func (Null) sealed() {}
func (Bool) sealed() {}
func (Int) sealed() {}
func (Float) sealed() {}
func (String) sealed() {}
func (Bytes) sealed() {}
func (List) sealed() {}
func (Map) sealed() {}
func (Time) sealed() {}
func (Date) sealed() {}
func (*Array) sealed() {}
func (*Frame) sealed() {}
func (*Series) sealed() {}
