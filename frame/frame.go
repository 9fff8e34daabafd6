// Package frame builds and parses the self-describing frame header.
//
// A frame is an ASCII header followed by the payload bytes:
//
//	<format_tag>:<compression_tag>::<payload>
//
// Fields are separated by ':' and the header ends at the first "::". Tags
// never contain ':', so the first sentinel always ends the header. Extra
// header fields after the compression tag are ignored, which leaves room for
// future metadata without breaking older readers.
//
// Input without a sentinel is a legacy frame: an uncompressed json payload
// written before headers existed.
package frame

import (
	"bytes"
	"fmt"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
)

const (
	// FieldSeparator separates header fields.
	FieldSeparator = ':'
	// Sentinel terminates the header.
	Sentinel = "::"
)

var sentinel = []byte(Sentinel)

// Header is the decoded frame header.
type Header struct {
	Format      format.Format
	Compression format.CompressionType
	// Legacy is set by Parse when the input had no header.
	Legacy bool
}

// LegacyHeader describes input without a header.
var LegacyHeader = Header{Format: format.FormatJSON, Compression: format.CompressionNone, Legacy: true}

// Prefix returns the encoded header including the sentinel, e.g. "json:zlib::".
func (h Header) Prefix() string {
	return h.Format.Tag() + string(FieldSeparator) + h.Compression.Tag() + Sentinel
}

// String implements fmt.Stringer.
func (h Header) String() string {
	if h.Legacy {
		return h.Prefix() + " (legacy)"
	}

	return h.Prefix()
}

// Validate reports whether both tags are members of their enumerations.
func (h Header) Validate() error {
	if !h.Format.IsValid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnsupportedFormat, uint8(h.Format))
	}
	if !h.Compression.IsValid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrUnknownCompressionTag, uint8(h.Compression))
	}

	return nil
}

// Size returns the length of a frame holding payloadLen payload bytes.
func Size(h Header, payloadLen int) int {
	return len(h.Format.Tag()) + 1 + len(h.Compression.Tag()) + len(Sentinel) + payloadLen
}

// Append appends the header and payload to dst and returns the extended slice.
//
// The header is always written, including for legacy headers.
func Append(dst []byte, h Header, payload []byte) []byte {
	dst = append(dst, h.Format.Tag()...)
	dst = append(dst, FieldSeparator)
	dst = append(dst, h.Compression.Tag()...)
	dst = append(dst, Sentinel...)

	return append(dst, payload...)
}

// Parse splits data into its header and payload.
//
// The returned payload aliases data; Parse never modifies its input.
//
// Input without a sentinel is returned whole with LegacyHeader, unless it
// starts like a header ("tag:tag:"): then the tags are validated and, if they
// are valid, the missing sentinel is reported as errs.ErrMalformedFrameHeader.
//
// Returns:
//   - errs.ErrMalformedFrameHeader if the header is not ASCII or has fewer than two fields
//   - errs.ErrUnknownFormatTag / errs.ErrUnsupportedFormat for a bad format tag
//   - errs.ErrUnknownCompressionTag for a bad compression tag
func Parse(data []byte) (Header, []byte, error) {
	end := bytes.Index(data, sentinel)
	if end < 0 {
		if fields, ok := headerLike(data); ok {
			if _, err := parseFields(fields); err != nil {
				return Header{}, nil, err
			}

			return Header{}, nil, fmt.Errorf("%w: missing %q terminator", errs.ErrMalformedFrameHeader, Sentinel)
		}

		return LegacyHeader, data, nil
	}

	raw := data[:end]
	for _, c := range raw {
		if c >= 0x80 {
			return Header{}, nil, fmt.Errorf("%w: header is not ASCII", errs.ErrMalformedFrameHeader)
		}
	}

	fields := bytes.Split(raw, []byte{FieldSeparator})
	if len(fields) < 2 {
		return Header{}, nil, fmt.Errorf("%w: header %q has %d field(s), want at least 2",
			errs.ErrMalformedFrameHeader, raw, len(fields))
	}

	h, err := parseFields(fields)
	if err != nil {
		return Header{}, nil, err
	}

	return h, data[end+len(Sentinel):], nil
}

func parseFields(fields [][]byte) (Header, error) {
	f, err := format.ParseFormat(string(fields[0]))
	if err != nil {
		return Header{}, err
	}

	c, err := format.ParseCompression(string(fields[1]))
	if err != nil {
		return Header{}, err
	}

	return Header{Format: f, Compression: c}, nil
}

// headerLike reports whether data starts with two tag-shaped fields each
// followed by a separator, and returns them.
func headerLike(data []byte) ([][]byte, bool) {
	fields := make([][]byte, 0, 2)
	start := 0
	for i, c := range data {
		if c == FieldSeparator {
			if i == start {
				return nil, false
			}
			fields = append(fields, data[start:i])
			if len(fields) == 2 {
				return fields, true
			}
			start = i + 1

			continue
		}
		if !isTagByte(c) {
			return nil, false
		}
	}

	return nil, false
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
