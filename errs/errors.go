// Package errs defines the sentinel errors returned by tagframe.
//
// Every error surfaced by the library wraps exactly one of these sentinels
// together with the offending tag or operation, so callers can branch with
// errors.Is while still seeing the underlying cause:
//
//	v, err := s.Deserialize(data)
//	if errors.Is(err, errs.ErrDecodingFailed) {
//	    // treat as a cache miss
//	}
package errs

import "errors"

// Format and header errors.
var (
	// ErrUnsupportedFormat is returned for a well-formed format that has no implementation.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrFormatUnavailable is returned when an optional format was compiled out.
	ErrFormatUnavailable = errors.New("format unavailable")
	// ErrUnknownFormatTag is returned when a frame header names a format outside the enumeration.
	ErrUnknownFormatTag = errors.New("unknown format tag")
	// ErrUnknownCompressionTag is returned when a frame header names a compression outside the enumeration.
	ErrUnknownCompressionTag = errors.New("unknown compression tag")
	// ErrMalformedFrameHeader is returned when the header has fewer than two fields or is not ASCII text.
	ErrMalformedFrameHeader = errors.New("malformed frame header")
)

// Value errors.
var (
	// ErrMalformedExtendedValue is returned when a marker key is present but its payload is invalid.
	ErrMalformedExtendedValue = errors.New("malformed extended value")
	// ErrUnsupportedValue is returned when a native Go value has no Value representation.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// Codec errors. The underlying cause is always wrapped alongside them.
var (
	ErrEncodingFailed      = errors.New("encoding failed")
	ErrDecodingFailed      = errors.New("decoding failed")
	ErrCompressionFailed   = errors.New("compression failed")
	ErrDecompressionFailed = errors.New("decompression failed")
)

// Configuration errors.
var (
	ErrInvalidCompressionLevel = errors.New("invalid compression level")
	ErrInvalidConfig           = errors.New("invalid config")
)
