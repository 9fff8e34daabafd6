package encoding

import (
	"fmt"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/value"
)

// Encoder turns a Value into format-specific payload bytes.
type Encoder interface {
	// Encode serializes v. A nil v is encoded as Null.
	Encode(v value.Value) ([]byte, error)
}

// Decoder turns payload bytes back into a Value.
type Decoder interface {
	// Decode parses data, which must hold exactly one encoded value.
	Decode(data []byte) (value.Value, error)
}

// Codec combines an Encoder and a Decoder for one format.
//
// Implementations are stateless and safe for concurrent use.
type Codec interface {
	Encoder
	Decoder
	// Format returns the format the codec implements.
	Format() format.Format
}

// builtinCodecs holds the codecs compiled into this build, keyed by format.
// Each codec registers itself from its own file, so build tags can leave
// optional formats out.
var builtinCodecs = map[format.Format]Codec{}

func register(c Codec) {
	builtinCodecs[c.Format()] = c
}

// GetCodec returns the codec for f.
//
// Returns errs.ErrUnsupportedFormat if f is outside the enumeration and
// errs.ErrFormatUnavailable if f was left out of this build.
func GetCodec(f format.Format) (Codec, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedFormat, f)
	}

	codec, ok := builtinCodecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrFormatUnavailable, f.Tag())
	}

	return codec, nil
}

// Available reports whether f can be encoded and decoded by this build.
func Available(f format.Format) bool {
	_, ok := builtinCodecs[f]
	return ok
}

// Encode serializes v with the codec of f.
func Encode(v value.Value, f format.Format) ([]byte, error) {
	codec, err := GetCodec(f)
	if err != nil {
		return nil, err
	}

	return codec.Encode(v)
}

// Decode parses data with the codec of f.
func Decode(data []byte, f format.Format) (value.Value, error) {
	codec, err := GetCodec(f)
	if err != nil {
		return nil, err
	}

	return codec.Decode(data)
}

func encodeError(f format.Format, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrEncodingFailed, f.Tag(), err)
}

func decodeError(f format.Format, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrDecodingFailed, f.Tag(), err)
}

// extendedError prefixes an error raised while restoring extended values
// with the format tag. The wrapped sentinel is kept.
func extendedError(f format.Format, err error) error {
	return fmt.Errorf("%s: %w", f.Tag(), err)
}
