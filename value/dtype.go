package value

import (
	"fmt"

	"github.com/arloliu/tagframe/errs"
)

// DType is the element type of an Array. Names follow numpy.
type DType uint8

const (
	DTypeBool DType = iota + 1
	DTypeInt8
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeUint8
	DTypeUint16
	DTypeUint32
	DTypeUint64
	DTypeFloat16
	DTypeFloat32
	DTypeFloat64
)

var dtypeInfo = [...]struct {
	name string
	size int
}{
	DTypeBool:    {"bool", 1},
	DTypeInt8:    {"int8", 1},
	DTypeInt16:   {"int16", 2},
	DTypeInt32:   {"int32", 4},
	DTypeInt64:   {"int64", 8},
	DTypeUint8:   {"uint8", 1},
	DTypeUint16:  {"uint16", 2},
	DTypeUint32:  {"uint32", 4},
	DTypeUint64:  {"uint64", 8},
	DTypeFloat16: {"float16", 2},
	DTypeFloat32: {"float32", 4},
	DTypeFloat64: {"float64", 8},
}

// ParseDType resolves a numpy dtype name.
func ParseDType(name string) (DType, error) {
	for i := DTypeBool; i <= DTypeFloat64; i++ {
		if dtypeInfo[i].name == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown dtype %q", errs.ErrUnsupportedValue, name)
}

// DTypes returns every element type.
func DTypes() []DType {
	out := make([]DType, 0, DTypeFloat64)
	for i := DTypeBool; i <= DTypeFloat64; i++ {
		out = append(out, i)
	}

	return out
}

func (d DType) IsValid() bool {
	return d >= DTypeBool && d <= DTypeFloat64
}

func (d DType) String() string {
	if !d.IsValid() {
		return "unknown"
	}

	return dtypeInfo[d].name
}

// Size returns the element width in bytes.
func (d DType) Size() int {
	if !d.IsValid() {
		return 0
	}

	return dtypeInfo[d].size
}

// IsFloat reports whether d is one of the floating point dtypes.
func (d DType) IsFloat() bool {
	return d == DTypeFloat16 || d == DTypeFloat32 || d == DTypeFloat64
}
