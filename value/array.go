package value

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/tagframe/endian"
	"github.com/arloliu/tagframe/errs"
	"github.com/x448/float16"
)

// engine is the byte order of Array element buffers.
var engine = endian.GetLittleEndianEngine()

// Element is the set of Go types that map onto a DType.
type Element interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 |
		float16.Float16 | float32 | float64
}

// Array is an N-dimensional numeric array with an explicit element type.
//
// Elements are stored row-major in a little-endian buffer, so an Array can be
// written to binary formats without conversion. A zero-dimensional array
// (empty shape) holds exactly one element.
type Array struct {
	dtype DType
	shape []int
	data  []byte
}

// NewArray creates an Array over a little-endian element buffer.
//
// The buffer is not copied. Its length must equal the product of shape times
// the dtype size.
func NewArray(dtype DType, shape []int, data []byte) (*Array, error) {
	if !dtype.IsValid() {
		return nil, fmt.Errorf("%w: invalid dtype %d", errs.ErrUnsupportedValue, dtype)
	}

	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}

	if n > math.MaxInt/dtype.Size() {
		return nil, fmt.Errorf("%w: %s array of shape %v overflows the byte length", errs.ErrUnsupportedValue, dtype, shape)
	}
	if want := n * dtype.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: %s array of shape %v needs %d bytes, got %d",
			errs.ErrUnsupportedValue, dtype, shape, want, len(data))
	}

	return &Array{dtype: dtype, shape: slices.Clone(shape), data: data}, nil
}

// FromSlice creates an Array from a flat slice of elements.
//
// A nil shape creates a one-dimensional array of len(vals) elements.
func FromSlice[T Element](shape []int, vals []T) (*Array, error) {
	if shape == nil {
		shape = []int{len(vals)}
	}

	dtype := dtypeOf[T]()
	buf := make([]byte, 0, len(vals)*dtype.Size())
	for _, v := range vals {
		buf = appendElement(buf, v)
	}

	return NewArray(dtype, shape, buf)
}

// ToSlice returns the elements of a as a flat slice.
// The element type must match the array dtype exactly.
func ToSlice[T Element](a *Array) ([]T, error) {
	if dtype := dtypeOf[T](); dtype != a.dtype {
		return nil, fmt.Errorf("%w: array dtype is %s, not %s", errs.ErrUnsupportedValue, a.dtype, dtype)
	}

	out := make([]T, a.Len())
	size := a.dtype.Size()
	for i := range out {
		b := a.data[i*size:]
		switch p := any(&out[i]).(type) {
		case *bool:
			*p = b[0] != 0
		case *int8:
			*p = int8(b[0])
		case *int16:
			*p = int16(engine.Uint16(b))
		case *int32:
			*p = int32(engine.Uint32(b))
		case *int64:
			*p = int64(engine.Uint64(b))
		case *uint8:
			*p = b[0]
		case *uint16:
			*p = engine.Uint16(b)
		case *uint32:
			*p = engine.Uint32(b)
		case *uint64:
			*p = engine.Uint64(b)
		case *float16.Float16:
			*p = float16.Frombits(engine.Uint16(b))
		case *float32:
			*p = math.Float32frombits(engine.Uint32(b))
		case *float64:
			*p = math.Float64frombits(engine.Uint64(b))
		}
	}

	return out, nil
}

func dtypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return DTypeBool
	case int8:
		return DTypeInt8
	case int16:
		return DTypeInt16
	case int32:
		return DTypeInt32
	case int64:
		return DTypeInt64
	case uint8:
		return DTypeUint8
	case uint16:
		return DTypeUint16
	case uint32:
		return DTypeUint32
	case uint64:
		return DTypeUint64
	case float16.Float16:
		return DTypeFloat16
	case float32:
		return DTypeFloat32
	default:
		return DTypeFloat64
	}
}

func appendElement[T Element](buf []byte, v T) []byte {
	switch x := any(v).(type) {
	case bool:
		if x {
			return append(buf, 1)
		}
		return append(buf, 0)
	case int8:
		return append(buf, byte(x))
	case int16:
		return engine.AppendUint16(buf, uint16(x))
	case int32:
		return engine.AppendUint32(buf, uint32(x))
	case int64:
		return engine.AppendUint64(buf, uint64(x))
	case uint8:
		return append(buf, x)
	case uint16:
		return engine.AppendUint16(buf, x)
	case uint32:
		return engine.AppendUint32(buf, x)
	case uint64:
		return engine.AppendUint64(buf, x)
	case float16.Float16:
		return engine.AppendUint16(buf, x.Bits())
	case float32:
		return engine.AppendUint32(buf, math.Float32bits(x))
	case float64:
		return engine.AppendUint64(buf, math.Float64bits(x))
	default:
		return buf
	}
}

func shapeLen(shape []int) (int, error) {
	for _, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("%w: negative dimension in shape %v", errs.ErrUnsupportedValue, shape)
		}
		if dim == 0 {
			return 0, nil
		}
	}

	n := 1
	for _, dim := range shape {
		if n > math.MaxInt/dim {
			return 0, fmt.Errorf("%w: shape %v overflows the element count", errs.ErrUnsupportedValue, shape)
		}
		n *= dim
	}

	return n, nil
}

// DType returns the element type.
func (a *Array) DType() DType { return a.dtype }

// Shape returns a copy of the array dimensions.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Ndim returns the number of dimensions.
func (a *Array) Ndim() int { return len(a.shape) }

// Len returns the total number of elements.
func (a *Array) Len() int {
	if a.dtype.Size() == 0 {
		return 0
	}

	return len(a.data) / a.dtype.Size()
}

// Bytes returns the little-endian element buffer. It must not be modified.
func (a *Array) Bytes() []byte { return a.data }

// Elem returns element i (row-major) as a scalar Value.
//
// Booleans become Bool, integers Int and floats Float. uint64 elements above
// math.MaxInt64 are returned with their two's complement bit pattern so that
// appending them back with the uint64 dtype restores the original element.
func (a *Array) Elem(i int) Value {
	size := a.dtype.Size()
	b := a.data[i*size : (i+1)*size]

	switch a.dtype {
	case DTypeBool:
		return Bool(b[0] != 0)
	case DTypeInt8:
		return Int(int8(b[0]))
	case DTypeInt16:
		return Int(int16(engine.Uint16(b)))
	case DTypeInt32:
		return Int(int32(engine.Uint32(b)))
	case DTypeInt64:
		return Int(int64(engine.Uint64(b)))
	case DTypeUint8:
		return Int(b[0])
	case DTypeUint16:
		return Int(engine.Uint16(b))
	case DTypeUint32:
		return Int(engine.Uint32(b))
	case DTypeUint64:
		return Int(int64(engine.Uint64(b))) //nolint:gosec
	case DTypeFloat16:
		return Float(float16.Frombits(engine.Uint16(b)).Float32())
	case DTypeFloat32:
		return Float(math.Float32frombits(engine.Uint32(b)))
	case DTypeFloat64:
		return Float(math.Float64frombits(engine.Uint64(b)))
	default:
		return Null{}
	}
}

// Nested returns the array as nested Lists following its shape.
// A zero-dimensional array returns its only element.
func (a *Array) Nested() Value {
	if len(a.shape) == 0 {
		return a.Elem(0)
	}

	next := 0
	var build func(dim int) Value
	build = func(dim int) Value {
		out := make(List, a.shape[dim])
		for i := range out {
			if dim == len(a.shape)-1 {
				out[i] = a.Elem(next)
				next++
			} else {
				out[i] = build(dim + 1)
			}
		}

		return out
	}

	return build(0)
}

// FromNested rebuilds an Array of the given dtype from nested Lists.
//
// The shape is inferred from the nesting; ragged lists and elements that
// do not fit the dtype are rejected.
func FromNested(dtype DType, v Value) (*Array, error) {
	if !dtype.IsValid() {
		return nil, fmt.Errorf("%w: invalid dtype %d", errs.ErrUnsupportedValue, dtype)
	}

	var shape []int
	for cur := v; ; {
		list, ok := cur.(List)
		if !ok {
			break
		}
		shape = append(shape, len(list))
		if len(list) == 0 {
			break
		}
		cur = list[0]
	}

	n, err := shapeLen(shape)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, n*dtype.Size())

	var flatten func(v Value, dim int) error
	flatten = func(v Value, dim int) error {
		if dim == len(shape) {
			if _, isList := v.(List); isList {
				return fmt.Errorf("%w: ragged nested array, expected scalar at depth %d", errs.ErrUnsupportedValue, dim)
			}
			buf, err = appendValue(buf, dtype, v)
			return err
		}

		list, ok := v.(List)
		if !ok || len(list) != shape[dim] {
			return fmt.Errorf("%w: ragged nested array at depth %d, expected %d elements",
				errs.ErrUnsupportedValue, dim, shape[dim])
		}
		for _, item := range list {
			if err := flatten(item, dim+1); err != nil {
				return err
			}
		}

		return nil
	}

	if err := flatten(v, 0); err != nil {
		return nil, err
	}

	return NewArray(dtype, shape, buf)
}

// appendValue appends scalar v converted to dtype.
func appendValue(buf []byte, dtype DType, v Value) ([]byte, error) {
	switch {
	case dtype == DTypeBool:
		switch x := v.(type) {
		case Bool:
			return appendElement(buf, bool(x)), nil
		case Int:
			if x == 0 || x == 1 {
				return appendElement(buf, x == 1), nil
			}
		}
	case dtype.IsFloat():
		var f float64
		switch x := v.(type) {
		case Float:
			f = float64(x)
		case Int:
			f = float64(x)
		default:
			return nil, elementError(dtype, v)
		}
		switch dtype { //nolint:exhaustive
		case DTypeFloat16:
			return appendElement(buf, float16.Fromfloat32(float32(f))), nil
		case DTypeFloat32:
			return appendElement(buf, float32(f)), nil
		default:
			return appendElement(buf, f), nil
		}
	default:
		i, ok := integerOf(v)
		if !ok {
			return nil, elementError(dtype, v)
		}

		return appendInteger(buf, dtype, i)
	}

	return nil, elementError(dtype, v)
}

func integerOf(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	case Float:
		f := float64(x)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), true
		}
	}

	return 0, false
}

func appendInteger(buf []byte, dtype DType, i int64) ([]byte, error) {
	switch dtype { //nolint:exhaustive
	case DTypeInt8:
		if i >= math.MinInt8 && i <= math.MaxInt8 {
			return appendElement(buf, int8(i)), nil
		}
	case DTypeInt16:
		if i >= math.MinInt16 && i <= math.MaxInt16 {
			return appendElement(buf, int16(i)), nil
		}
	case DTypeInt32:
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return appendElement(buf, int32(i)), nil
		}
	case DTypeInt64:
		return appendElement(buf, i), nil
	case DTypeUint8:
		if i >= 0 && i <= math.MaxUint8 {
			return appendElement(buf, uint8(i)), nil
		}
	case DTypeUint16:
		if i >= 0 && i <= math.MaxUint16 {
			return appendElement(buf, uint16(i)), nil
		}
	case DTypeUint32:
		if i >= 0 && i <= math.MaxUint32 {
			return appendElement(buf, uint32(i)), nil
		}
	case DTypeUint64:
		// two's complement, see Array.Elem
		return appendElement(buf, uint64(i)), nil //nolint:gosec
	}

	return nil, fmt.Errorf("%w: %d overflows %s", errs.ErrUnsupportedValue, i, dtype)
}

func elementError(dtype DType, v Value) error {
	return fmt.Errorf("%w: %s element cannot hold %s", errs.ErrUnsupportedValue, dtype, v.Kind())
}

func (a *Array) equal(b *Array) bool {
	return a.dtype == b.dtype && slices.Equal(a.shape, b.shape) && bytes.Equal(a.data, b.data)
}
