package value

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/arloliu/tagframe/errs"
)

// From converts a native Go value into a Value.
//
// Supported inputs:
//   - nil, Value (returned as-is)
//   - bool, string, []byte
//   - every int, uint and float width (narrowed to Int and Float)
//   - time.Time
//   - slices and arrays of any supported type
//   - maps with string keys
//
// uint and uint64 values above math.MaxInt64 return errs.ErrUnsupportedValue.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case time.Time:
		return Time{Time: x}, nil
	case []any:
		return fromSlice(len(x), func(i int) any { return x[i] })
	case map[string]any:
		out := make(Map, len(x))
		for k, item := range x {
			conv, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = conv
		}
		return out, nil
	}

	return fromReflect(reflect.ValueOf(v))
}

// MustFrom is like From but panics on error. It is intended for literals in
// tests and examples.
func MustFrom(v any) Value {
	out, err := From(v)
	if err != nil {
		panic(err)
	}

	return out
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", errs.ErrUnsupportedValue, u)
	}

	return Int(u), nil //nolint:gosec
}

func fromSlice(n int, at func(int) any) (Value, error) {
	out := make(List, n)
	for i := range out {
		conv, err := From(at(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = conv
	}

	return out, nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return From(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Array:
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", errs.ErrUnsupportedValue, rv.Type().Key())
		}
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			conv, err := From(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			out[iter.Key().String()] = conv
		}
		return out, nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	}

	if !rv.IsValid() {
		return Null{}, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedValue, rv.Type())
}
