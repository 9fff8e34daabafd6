package encoding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/internal/pool"
	"github.com/arloliu/tagframe/value"
)

func init() {
	register(JSONCodec{})
}

// JSONCodec encodes values as UTF-8 JSON text.
//
// Extended kinds and binary strings are written as marker maps. Floats are
// always written with a decimal point or an exponent so that they are read
// back as floats, and integers without a fraction are read back as integers.
// NaN and infinities have no JSON representation and fail to encode.
type JSONCodec struct{}

var _ Codec = JSONCodec{}

// Format implements Codec.
func (JSONCodec) Format() format.Format { return format.FormatJSON }

// Encode implements Encoder.
func (JSONCodec) Encode(v value.Value) ([]byte, error) {
	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	ext, err := EncodeExtended(v, Natives{})
	if err != nil {
		return nil, encodeError(format.FormatJSON, err)
	}
	tree, err := toJSON(ext)
	if err != nil {
		return nil, encodeError(format.FormatJSON, err)
	}

	enc := json.NewEncoder(bb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, encodeError(format.FormatJSON, err)
	}

	// json.Encoder terminates every value with a newline
	return bytes.TrimSuffix(bb.Clone(), []byte{'\n'}), nil
}

// Decode implements Decoder.
func (JSONCodec) Decode(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, decodeError(format.FormatJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, decodeError(format.FormatJSON, errors.New("trailing data after top-level value"))
	}

	v, err := fromJSON(raw)
	if err != nil {
		return nil, decodeError(format.FormatJSON, err)
	}

	out, err := DecodeExtended(v)
	if err != nil {
		return nil, extendedError(format.FormatJSON, err)
	}

	return out, nil
}

// jsonFloat marshals a float64 so that it never reads back as an integer.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, fmt.Errorf("float %v has no JSON representation", x)
	}

	b := strconv.AppendFloat(nil, x, 'g', -1, 64)
	if !bytes.ContainsAny(b, ".e") {
		b = append(b, '.', '0')
	}

	return b, nil
}

// toJSON converts a marker-encoded tree into values encoding/json can marshal.
func toJSON(v value.Value) (any, error) {
	switch x := v.(type) {
	case nil, value.Null:
		return nil, nil
	case value.Bool:
		return bool(x), nil
	case value.Int:
		return int64(x), nil
	case value.Float:
		return jsonFloat(x), nil
	case value.String:
		return string(x), nil
	case value.List:
		out := make([]any, len(x))
		for i, item := range x {
			enc, err := toJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case value.Map:
		out := make(map[string]any, len(x))
		for k, item := range x {
			enc, err := toJSON(item)
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

func fromJSON(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(x), nil
	case string:
		return value.String(x), nil
	case json.Number:
		return fromJSONNumber(x)
	case []any:
		out := make(value.List, len(x))
		for i, item := range x {
			v, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(value.Map, len(x))
		for k, item := range x {
			v, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value %T", raw)
	}
}

// fromJSONNumber reads numbers with a fraction or exponent as Float and the
// rest as Int. Integers outside the int64 range fall back to Float.
func fromJSONNumber(n json.Number) (value.Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("number %q: %w", s, err)
	}

	return value.Float(f), nil
}
