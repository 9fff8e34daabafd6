package encoding

import (
	"fmt"
	"reflect"
	"time"

	"github.com/arloliu/tagframe/endian"
	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/value"
	"github.com/fxamacker/cbor/v2"
)

// CBOR tag numbers for extended values.
const (
	cborTagDatetime = 0
	// CBORTagDate is the RFC 8943 full-date string tag.
	CBORTagDate = 1004
	// CBORTagMultiDimArray is the RFC 8746 row-major multi-dimensional array tag.
	CBORTagMultiDimArray = 40
	// CBORTagBoolArray is a private typed array tag for one byte per bool.
	CBORTagBoolArray = 60001
	// CBORTagFrame is a private tag wrapping [columns, index, rows].
	CBORTagFrame = 60002
	// CBORTagSeries is a private tag wrapping [name, index, data].
	CBORTagSeries = 60003
)

// cborTypedArrayTags maps dtypes to RFC 8746 little-endian typed array tags.
var cborTypedArrayTags = map[value.DType]uint64{
	value.DTypeBool:    CBORTagBoolArray,
	value.DTypeUint8:   64,
	value.DTypeUint16:  69,
	value.DTypeUint32:  70,
	value.DTypeUint64:  71,
	value.DTypeInt8:    72,
	value.DTypeInt16:   77,
	value.DTypeInt32:   78,
	value.DTypeInt64:   79,
	value.DTypeFloat16: 84,
	value.DTypeFloat32: 85,
	value.DTypeFloat64: 86,
}

var cborTypedArrayDTypes = func() map[uint64]value.DType {
	out := make(map[uint64]value.DType, len(cborTypedArrayTags))
	for dtype, tag := range cborTypedArrayTags {
		out[tag] = dtype
	}
	return out
}()

var (
	leEngine = endian.GetLittleEndianEngine()
	beEngine = endian.GetBigEndianEngine()
)

// cborBigEndianDTypes maps RFC 8746 big-endian typed array tags. They are
// accepted on decode and converted to little-endian storage.
var cborBigEndianDTypes = map[uint64]value.DType{
	65: value.DTypeUint16,
	66: value.DTypeUint32,
	67: value.DTypeUint64,
	68: value.DTypeUint8, // clamped
	73: value.DTypeInt16,
	74: value.DTypeInt32,
	75: value.DTypeInt64,
	80: value.DTypeFloat16,
	81: value.DTypeFloat32,
	82: value.DTypeFloat64,
}

// cborEncMode uses Core Deterministic Encoding so equal values always
// produce equal bytes.
var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: invalid encode options: %v", err))
	}
	return em
}()

// cborDecMode decodes maps with string keys only and rejects unsigned
// integers that do not fit an int64. Container limits are the largest the
// library accepts.
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		IntDec:           cbor.IntDecConvertSignedOrFail,
		TimeTagToAny:     cbor.TimeTagToTime,
		MaxNestedLevels:  65535,
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: invalid decode options: %v", err))
	}
	return dm
}()

func init() {
	register(CBORCodec{})
}

// CBORCodec encodes values as CBOR (RFC 8949).
//
// Every extended kind has a native tagged representation, so no marker maps
// are written. Decoding still honours marker maps found in the data.
type CBORCodec struct{}

var _ Codec = CBORCodec{}

// Format implements Codec.
func (CBORCodec) Format() format.Format { return format.FormatCBOR }

// Encode implements Encoder.
func (CBORCodec) Encode(v value.Value) ([]byte, error) {
	tree, err := toCBOR(v)
	if err != nil {
		return nil, encodeError(format.FormatCBOR, err)
	}
	data, err := cborEncMode.Marshal(tree)
	if err != nil {
		return nil, encodeError(format.FormatCBOR, err)
	}

	return data, nil
}

// Decode implements Decoder.
func (CBORCodec) Decode(data []byte) (value.Value, error) {
	var raw any
	if err := cborDecMode.Unmarshal(data, &raw); err != nil {
		return nil, decodeError(format.FormatCBOR, err)
	}

	v, err := fromCBOR(raw)
	if err != nil {
		return nil, extendedError(format.FormatCBOR, err)
	}
	out, err := DecodeExtended(v)
	if err != nil {
		return nil, extendedError(format.FormatCBOR, err)
	}

	return out, nil
}

// toCBOR converts v into values the CBOR encoder can marshal. Slices are
// always allocated because the encoder writes nil slices as null.
func toCBOR(v value.Value) (any, error) {
	switch x := v.(type) {
	case nil, value.Null:
		return nil, nil
	case value.Bool:
		return bool(x), nil
	case value.Int:
		return int64(x), nil
	case value.Float:
		return float64(x), nil
	case value.String:
		return string(x), nil
	case value.Bytes:
		return nonNilBytes(x), nil
	case value.List:
		return toCBORSlice(x)
	case value.Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			enc, err := toCBOR(item)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	case value.Time:
		// explicit tag 0, the encoder would write a zero time.Time as null
		return cbor.Tag{Number: cborTagDatetime, Content: value.FormatTime(x.Time)}, nil
	case value.Date:
		if err := x.Validate(); err != nil {
			return nil, err
		}
		return cbor.Tag{Number: CBORTagDate, Content: x.String()}, nil
	case *value.Array:
		shape := make([]any, 0, x.Ndim())
		for _, dim := range x.Shape() {
			shape = append(shape, int64(dim))
		}
		elems := cbor.Tag{Number: cborTypedArrayTags[x.DType()], Content: nonNilBytes(x.Bytes())}
		return cbor.Tag{Number: CBORTagMultiDimArray, Content: []any{shape, elems}}, nil
	case *value.Frame:
		columns := make([]any, len(x.Columns))
		for i, c := range x.Columns {
			columns[i] = c
		}
		index, err := toCBORSlice(x.Index)
		if err != nil {
			return nil, err
		}
		rows := make([]any, len(x.Rows))
		for i, row := range x.Rows {
			if rows[i], err = toCBORSlice(row); err != nil {
				return nil, err
			}
		}
		return cbor.Tag{Number: CBORTagFrame, Content: []any{columns, index, rows}}, nil
	case *value.Series:
		var name any
		if x.Name != nil {
			name = *x.Name
		}
		index, err := toCBORSlice(x.Index)
		if err != nil {
			return nil, err
		}
		data, err := toCBORSlice(x.Data)
		if err != nil {
			return nil, err
		}
		return cbor.Tag{Number: CBORTagSeries, Content: []any{name, index, data}}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled value %T", errs.ErrUnsupportedValue, v)
	}
}

func toCBORSlice(vals []value.Value) ([]any, error) {
	out := make([]any, len(vals))
	for i, item := range vals {
		enc, err := toCBOR(item)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}

	return out, nil
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}

	return b
}

func fromCBOR(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(x), nil
	case int64:
		return value.Int(x), nil
	case float64:
		return value.Float(x), nil
	case string:
		return value.String(x), nil
	case []byte:
		return value.Bytes(x), nil
	case time.Time:
		return value.Time{Time: x}, nil
	case []any:
		return fromCBORSlice(x)
	case map[string]any:
		out := make(value.Map, len(x))
		for k, item := range x {
			v, err := fromCBOR(item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case cbor.Tag:
		return fromCBORTag(x)
	default:
		return nil, fmt.Errorf("%w: unsupported CBOR item %T", errs.ErrDecodingFailed, raw)
	}
}

func fromCBORSlice(items []any) (value.List, error) {
	out := make(value.List, len(items))
	for i, item := range items {
		v, err := fromCBOR(item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// fromCBORTag decodes the tags written by toCBOR. Content of any other tag
// is decoded as if it were untagged.
func fromCBORTag(tag cbor.Tag) (value.Value, error) {
	switch tag.Number {
	case CBORTagDate:
		s, ok := tag.Content.(string)
		if !ok {
			return nil, malformed(MarkerDate, "tag %d content is %T, not a string", tag.Number, tag.Content)
		}
		d, err := value.ParseDate(s)
		if err != nil {
			return nil, malformed(MarkerDate, "%w", err)
		}
		return d, nil
	case CBORTagMultiDimArray:
		return fromCBORArray(tag)
	case CBORTagFrame:
		return fromCBORFrame(tag)
	case CBORTagSeries:
		return fromCBORSeries(tag)
	default:
		return fromCBOR(tag.Content)
	}
}

func fromCBORArray(tag cbor.Tag) (value.Value, error) {
	parts, ok := tag.Content.([]any)
	if !ok || len(parts) != 2 {
		return nil, malformed(MarkerArray, "tag %d content must be [shape, elements]", tag.Number)
	}

	dims, ok := parts[0].([]any)
	if !ok {
		return nil, malformed(MarkerArray, "shape is %T, not an array", parts[0])
	}
	shape := make([]int, len(dims))
	for i, d := range dims {
		n, ok := d.(int64)
		if !ok {
			return nil, malformed(MarkerArray, "dimension %d is %T, not an integer", i, d)
		}
		shape[i] = int(n)
	}

	elems, ok := parts[1].(cbor.Tag)
	if !ok {
		return nil, malformed(MarkerArray, "elements are %T, not a typed array", parts[1])
	}
	dtype, ok := cborTypedArrayDTypes[elems.Number]
	fromBigEndian := false
	if !ok {
		dtype, fromBigEndian = cborBigEndianDTypes[elems.Number]
		if !fromBigEndian {
			return nil, malformed(MarkerArray, "unsupported typed array tag %d", elems.Number)
		}
	}
	buf, ok := elems.Content.([]byte)
	if !ok {
		return nil, malformed(MarkerArray, "typed array content is %T, not a byte string", elems.Content)
	}
	if fromBigEndian {
		var err error
		if buf, err = swapToLittleEndian(buf, dtype.Size()); err != nil {
			return nil, malformed(MarkerArray, "%w", err)
		}
	}

	arr, err := value.NewArray(dtype, shape, buf)
	if err != nil {
		return nil, malformed(MarkerArray, "%w", err)
	}

	return arr, nil
}

func fromCBORFrame(tag cbor.Tag) (value.Value, error) {
	parts, ok := tag.Content.([]any)
	if !ok || len(parts) != 3 {
		return nil, malformed(MarkerFrame, "tag %d content must be [columns, index, rows]", tag.Number)
	}

	cols, ok := parts[0].([]any)
	if !ok {
		return nil, malformed(MarkerFrame, "columns are %T, not an array", parts[0])
	}
	columns := make([]string, len(cols))
	for i, c := range cols {
		if columns[i], ok = c.(string); !ok {
			return nil, malformed(MarkerFrame, "column %d is %T, not a string", i, c)
		}
	}

	index, err := cborList(MarkerFrame, "index", parts[1])
	if err != nil {
		return nil, err
	}

	rawRows, ok := parts[2].([]any)
	if !ok {
		return nil, malformed(MarkerFrame, "rows are %T, not an array", parts[2])
	}
	rows := make([][]value.Value, len(rawRows))
	for i, r := range rawRows {
		if rows[i], err = cborList(MarkerFrame, "row", r); err != nil {
			return nil, err
		}
	}

	frame, err := value.NewFrame(columns, index, rows)
	if err != nil {
		return nil, malformed(MarkerFrame, "%w", err)
	}

	return frame, nil
}

func fromCBORSeries(tag cbor.Tag) (value.Value, error) {
	parts, ok := tag.Content.([]any)
	if !ok || len(parts) != 3 {
		return nil, malformed(MarkerSeries, "tag %d content must be [name, index, data]", tag.Number)
	}

	var name *string
	switch n := parts[0].(type) {
	case nil:
	case string:
		name = &n
	default:
		return nil, malformed(MarkerSeries, "name is %T, not a string or null", parts[0])
	}

	index, err := cborList(MarkerSeries, "index", parts[1])
	if err != nil {
		return nil, err
	}
	data, err := cborList(MarkerSeries, "data", parts[2])
	if err != nil {
		return nil, err
	}

	series, err := value.NewSeries(name, index, data)
	if err != nil {
		return nil, malformed(MarkerSeries, "%w", err)
	}

	return series, nil
}

// cborList decodes an array item nested in an extended value and restores
// any marker maps inside it.
func cborList(marker, what string, raw any) ([]value.Value, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, malformed(marker, "%s is %T, not an array", what, raw)
	}

	list, err := fromCBORSlice(items)
	if err != nil {
		return nil, err
	}

	return decodeExtendedSlice(list)
}

// swapToLittleEndian returns a copy of big-endian elements of the given size
// in little-endian order.
func swapToLittleEndian(buf []byte, size int) ([]byte, error) {
	if len(buf)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a multiple of element size %d", len(buf), size)
	}

	out := make([]byte, len(buf))
	for i := 0; i < len(buf); i += size {
		src, dst := buf[i:i+size], out[i:i+size]
		switch size {
		case 1:
			dst[0] = src[0]
		case 2:
			leEngine.PutUint16(dst, beEngine.Uint16(src))
		case 4:
			leEngine.PutUint32(dst, beEngine.Uint32(src))
		case 8:
			leEngine.PutUint64(dst, beEngine.Uint64(src))
		}
	}

	return out, nil
}
