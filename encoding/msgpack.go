//go:build !nomsgpack

package encoding

import (
	"fmt"
	"reflect"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/value"
	"github.com/ugorji/go/codec"
)

// msgpackHandle writes the current MessagePack spec (str and bin families
// kept apart) with map keys sorted, and decodes maps as map[string]any.
var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{
		WriteExt: true,
	}
	h.Canonical = true
	h.SignedInteger = true
	h.MapType = reflect.TypeOf(map[string]any(nil))

	return h
}()

func init() {
	register(MsgPackCodec{})
}

// MsgPackCodec encodes values as MessagePack.
//
// Binary strings use the bin family, every other extended kind is written
// as a marker map. Build with the nomsgpack tag to leave the format out.
type MsgPackCodec struct{}

var _ Codec = MsgPackCodec{}

// Format implements Codec.
func (MsgPackCodec) Format() format.Format { return format.FormatMsgPack }

// Encode implements Encoder.
func (MsgPackCodec) Encode(v value.Value) ([]byte, error) {
	ext, err := EncodeExtended(v, Natives{Bytes: true})
	if err != nil {
		return nil, encodeError(format.FormatMsgPack, err)
	}
	tree, err := toMsgPack(ext)
	if err != nil {
		return nil, encodeError(format.FormatMsgPack, err)
	}

	var out []byte
	enc := codec.NewEncoderBytes(&out, msgpackHandle)
	if err := enc.Encode(tree); err != nil {
		return nil, encodeError(format.FormatMsgPack, err)
	}

	return out, nil
}

// Decode implements Decoder.
func (MsgPackCodec) Decode(data []byte) (value.Value, error) {
	dec := codec.NewDecoderBytes(data, msgpackHandle)

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, decodeError(format.FormatMsgPack, err)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return nil, decodeError(format.FormatMsgPack, fmt.Errorf("%d trailing bytes after top-level value", len(data)-n))
	}

	v, err := fromMsgPack(raw)
	if err != nil {
		return nil, decodeError(format.FormatMsgPack, err)
	}

	out, err := DecodeExtended(v)
	if err != nil {
		return nil, extendedError(format.FormatMsgPack, err)
	}

	return out, nil
}

// toMsgPack converts a marker-encoded tree into plain Go values. Byte
// slices are always allocated because the encoder writes nil slices as nil.
func toMsgPack(v value.Value) (any, error) {
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
		out := make([]any, len(x))
		for i, item := range x {
			enc, err := toMsgPack(item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case value.Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			enc, err := toMsgPack(item)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unhandled value %T", errs.ErrUnsupportedValue, v)
	}
}

func fromMsgPack(raw any) (value.Value, error) {
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
		return value.Bytes(append([]byte(nil), x...)), nil
	case []any:
		out := make(value.List, len(x))
		for i, item := range x {
			v, err := fromMsgPack(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(value.Map, len(x))
		for k, item := range x {
			v, err := fromMsgPack(item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported MessagePack item %T", raw)
	}
}
