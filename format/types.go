// Package format defines the closed enumerations written into frame headers.
//
// A frame header names one Format and one CompressionType by their lowercase
// tag, e.g. "json:zlib::". Tags are validated against these enumerations
// before any decoder or decompressor is looked up.
package format

import (
	"fmt"

	"github.com/arloliu/tagframe/errs"
)

type (
	Format          uint8
	CompressionType uint8
)

const (
	FormatJSON    Format = 0x1 // FormatJSON is the text self-describing format.
	FormatCBOR    Format = 0x2 // FormatCBOR is the binary general-object format.
	FormatMsgPack Format = 0x3 // FormatMsgPack is the binary compact schema-free format.

	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.
	CompressionZlib   CompressionType = 0x5 // CompressionZlib represents zlib (deflate) compression.
	CompressionSnappy CompressionType = 0x6 // CompressionSnappy represents Snappy block compression.
)

// Frame header tags.
const (
	TagJSON    = "json"
	TagCBOR    = "cbor"
	TagMsgPack = "msgpack"

	TagNone   = "none"
	TagZlib   = "zlib"
	TagLZ4    = "lz4"
	TagSnappy = "snappy"
	TagZstd   = "zstd"
	TagS2     = "s2"
)

// foreignFormatTags are tags produced by other implementations of the frame
// layout that this package recognises but cannot decode.
var foreignFormatTags = map[string]struct{}{
	"pickle": {},
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatCBOR:
		return "CBOR"
	case FormatMsgPack:
		return "MsgPack"
	default:
		return "Unknown"
	}
}

// Tag returns the frame header tag of f, or an empty string for an invalid value.
func (f Format) Tag() string {
	switch f {
	case FormatJSON:
		return TagJSON
	case FormatCBOR:
		return TagCBOR
	case FormatMsgPack:
		return TagMsgPack
	default:
		return ""
	}
}

// IsValid reports whether f is a member of the enumeration.
func (f Format) IsValid() bool {
	return f.Tag() != ""
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedFormat, uint8(f))
	}

	return []byte(f.Tag()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed

	return nil
}

// ParseFormat resolves a frame header tag into a Format.
//
// Returns:
//   - errs.ErrUnsupportedFormat for a recognised tag without an implementation
//   - errs.ErrUnknownFormatTag for anything else outside the enumeration
func ParseFormat(tag string) (Format, error) {
	switch tag {
	case TagJSON:
		return FormatJSON, nil
	case TagCBOR:
		return FormatCBOR, nil
	case TagMsgPack:
		return FormatMsgPack, nil
	}

	if _, ok := foreignFormatTags[tag]; ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, tag)
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownFormatTag, tag)
}

// Formats returns every format in enumeration order.
func Formats() []Format {
	return []Format{FormatJSON, FormatCBOR, FormatMsgPack}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// Tag returns the frame header tag of c, or an empty string for an invalid value.
func (c CompressionType) Tag() string {
	switch c {
	case CompressionNone:
		return TagNone
	case CompressionZstd:
		return TagZstd
	case CompressionS2:
		return TagS2
	case CompressionLZ4:
		return TagLZ4
	case CompressionZlib:
		return TagZlib
	case CompressionSnappy:
		return TagSnappy
	default:
		return ""
	}
}

// IsValid reports whether c is a member of the enumeration.
func (c CompressionType) IsValid() bool {
	return c.Tag() != ""
}

// MarshalText implements encoding.TextMarshaler.
func (c CompressionType) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownCompressionTag, uint8(c))
	}

	return []byte(c.Tag()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompressionType) UnmarshalText(text []byte) error {
	parsed, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// ParseCompression resolves a frame header tag into a CompressionType.
func ParseCompression(tag string) (CompressionType, error) {
	switch tag {
	case TagNone:
		return CompressionNone, nil
	case TagZlib:
		return CompressionZlib, nil
	case TagLZ4:
		return CompressionLZ4, nil
	case TagSnappy:
		return CompressionSnappy, nil
	case TagZstd:
		return CompressionZstd, nil
	case TagS2:
		return CompressionS2, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownCompressionTag, tag)
	}
}

// Compressions returns every compression type in enumeration order,
// starting with CompressionNone.
func Compressions() []CompressionType {
	return []CompressionType{
		CompressionNone,
		CompressionZlib,
		CompressionLZ4,
		CompressionSnappy,
		CompressionZstd,
		CompressionS2,
	}
}
