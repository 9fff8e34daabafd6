// Package tagframe serializes structured values into self-describing frames
// and back.
//
// A frame is a short ASCII header naming the format and compression of the
// payload, followed by the payload itself:
//
//	json:zlib::<zlib compressed JSON>
//
// Deserialize reads the header first, so callers never pass the format or
// compression back in. Input without a header is read as uncompressed JSON.
//
// # Core Features
//
//   - Formats: json (text), cbor (binary, native tags for extended values),
//     msgpack (binary, compact)
//   - Compression: none, zlib, lz4, snappy, plus zstd and s2
//   - Extended values: numeric arrays with dtype, frames, series, datetimes,
//     dates and binary strings survive every format
//   - Stateless after construction, safe for concurrent use
//
// # Basic Usage
//
//	s, err := tagframe.New(
//	    tagframe.WithFormat(format.FormatCBOR),
//	    tagframe.WithCompression(format.CompressionLZ4),
//	)
//	if err != nil {
//	    return err
//	}
//
//	data, err := s.Serialize(map[string]any{"a": 1, "b": []int{1, 2, 3}})
//	// data starts with "cbor:lz4::"
//
//	v, err := s.Deserialize(data)
//	// v is value.Map{"a": value.Int(1), "b": value.List{...}}
//
// Any native Go value accepted by value.From can be serialized; extended
// values are built with the value package:
//
//	arr, _ := value.FromSlice([]int{2, 2}, []float32{1, 2, 3, 4})
//	data, err := s.Serialize(value.Map{"weights": arr})
//
// # Errors
//
// Every error wraps one of the sentinels in the errs package, so callers can
// branch with errors.Is, e.g. to treat errs.ErrDecodingFailed as a cache miss.
package tagframe

import (
	"fmt"

	"github.com/arloliu/tagframe/compress"
	"github.com/arloliu/tagframe/encoding"
	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/frame"
	"github.com/arloliu/tagframe/internal/options"
	"github.com/arloliu/tagframe/value"
	"github.com/rs/zerolog"
)

// Serializer encodes values into frames with configured defaults and decodes
// frames of any supported format and compression.
//
// A Serializer is immutable after New and safe for concurrent use.
type Serializer struct {
	format      format.Format
	compression format.CompressionType
	level       int
	logger      zerolog.Logger
	// available is filled once in New.
	available map[format.Format]bool
}

// New creates a Serializer.
//
// Parameters:
//   - opts: WithFormat, WithCompression, WithCompressionLevel, WithLogger
//
// Returns:
//   - *Serializer: The configured serializer
//   - error: An invalid option, or errs.ErrFormatUnavailable when the default
//     format was left out of this build
func New(opts ...Option) (*Serializer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	available := make(map[format.Format]bool, len(format.Formats()))
	for _, f := range format.Formats() {
		available[f] = encoding.Available(f)
	}
	if !available[cfg.format] {
		return nil, fmt.Errorf("%w: %s", errs.ErrFormatUnavailable, cfg.format.Tag())
	}

	s := &Serializer{
		format:      cfg.format,
		compression: cfg.compression,
		level:       cfg.level,
		logger:      cfg.logger,
		available:   available,
	}
	s.logger.Debug().
		Str("format", s.format.Tag()).
		Str("compression", s.compression.Tag()).
		Int("level", s.level).
		Msg("serializer configured")

	return s, nil
}

// Format returns the default format.
func (s *Serializer) Format() format.Format { return s.format }

// Compression returns the default compression.
func (s *Serializer) Compression() format.CompressionType { return s.compression }

// Level returns the compression level hint.
func (s *Serializer) Level() int { return s.level }

// Available reports whether f can be used by this serializer.
func (s *Serializer) Available(f format.Format) bool { return s.available[f] }

// Serialize encodes v with the default format and compression.
//
// v is any value accepted by value.From, including value.Value trees.
func (s *Serializer) Serialize(v any) ([]byte, error) {
	return s.SerializeAs(v, s.format, s.compression)
}

// SerializeAs encodes v with an explicit format and compression.
//
// Returns:
//   - []byte: header followed by the (compressed) payload
//   - error: errs.ErrUnsupportedFormat, errs.ErrFormatUnavailable,
//     errs.ErrEncodingFailed, errs.ErrUnknownCompressionTag or
//     errs.ErrCompressionFailed
func (s *Serializer) SerializeAs(v any, f format.Format, c format.CompressionType) ([]byte, error) {
	h := frame.Header{Format: f, Compression: c}
	payload, err := s.encode(v, h)
	if err != nil {
		return nil, err
	}

	compressed, err := compress.Compress(payload, c, s.level)
	if err != nil {
		return nil, err
	}

	return frame.Append(make([]byte, 0, frame.Size(h, len(compressed))), h, compressed), nil
}

// Deserialize decodes a frame produced by any Serializer.
//
// Input without a header is decoded as uncompressed JSON.
//
// Returns:
//   - value.Value: The decoded value
//   - error: frame header errors (see frame.Parse), errs.ErrFormatUnavailable,
//     errs.ErrDecompressionFailed, errs.ErrDecodingFailed or
//     errs.ErrMalformedExtendedValue
func (s *Serializer) Deserialize(data []byte) (value.Value, error) {
	h, payload, err := frame.Parse(data)
	if err != nil {
		return nil, err
	}
	if h.Legacy {
		s.logger.Debug().Int("size", len(data)).Msg("no frame header, decoding as legacy json")
	}
	if !s.available[h.Format] {
		return nil, fmt.Errorf("%w: %s", errs.ErrFormatUnavailable, h.Format.Tag())
	}

	raw, err := compress.Decompress(payload, h.Compression)
	if err != nil {
		return nil, err
	}

	return encoding.Decode(raw, h.Format)
}

// DeserializeNative is like Deserialize but returns plain Go values, see value.ToNative.
func (s *Serializer) DeserializeNative(data []byte) (any, error) {
	v, err := s.Deserialize(data)
	if err != nil {
		return nil, err
	}

	return value.ToNative(v), nil
}

// Inspect parses the frame header without decoding the payload.
//
// Returns the header and the payload length in bytes.
func (s *Serializer) Inspect(data []byte) (frame.Header, int, error) {
	h, payload, err := frame.Parse(data)
	if err != nil {
		return frame.Header{}, 0, err
	}

	return h, len(payload), nil
}

// encode validates h, converts v and encodes it with h.Format. The payload
// is not compressed.
func (s *Serializer) encode(v any, h frame.Header) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	f := h.Format
	if !s.available[f] {
		return nil, fmt.Errorf("%w: %s", errs.ErrFormatUnavailable, f.Tag())
	}

	val, err := value.From(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrEncodingFailed, f.Tag(), err)
	}

	return encoding.Encode(val, f)
}
