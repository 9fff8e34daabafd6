package compress

import (
	"bytes"
	"io"

	"github.com/arloliu/tagframe/endian"
	"github.com/pierrec/lz4/v4"
)

// LZ4 frame fields are little-endian.
var engine = endian.GetLittleEndianEngine()

// LZ4Compressor produces LZ4 frames (magic 0x184D2204) with content checksums.
//
// The frame format carries block sizes and an end mark, so decompression needs
// no size hint and detects truncated input.
type LZ4Compressor struct {
	level int
}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
//
// Parameters:
//   - level: Compression level hint. Levels 1 and 2 use the fast compressor,
//     levels 3-9 use the high compression (HC) compressor at that level.
//
// Returns:
//   - LZ4Compressor: New LZ4 compressor instance
func NewLZ4Compressor(level int) LZ4Compressor {
	return LZ4Compressor{level: level}
}

func (c LZ4Compressor) compressionLevel() lz4.CompressionLevel {
	if c.level <= 2 {
		return lz4.Fast
	}
	if c.level > MaxLevel {
		return lz4.Level9
	}

	// lz4.Level1 .. lz4.Level9 are 1<<9 .. 1<<17.
	return lz4.CompressionLevel(1 << (8 + c.level))
}

// Compress compresses the input data into a single LZ4 frame.
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(lz4.CompressBlockBound(len(data)) + 32)

	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(c.compressionLevel()), lz4.ChecksumOption(true)); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a complete LZ4 frame.
//
// Returns:
//   - []byte: Decompressed data (nil if input is empty)
//   - error: lz4.ErrInvalidFrame for foreign data, io.ErrUnexpectedEOF for truncated frames
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	// a frame cut at a block boundary reads as a clean EOF, so check that
	// the end mark is present before decoding
	if !hasLZ4EndMark(data) {
		return nil, io.ErrUnexpectedEOF
	}

	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// hasLZ4EndMark reports whether data ends with the zero end mark, followed
// by the 4 byte content checksum when the frame descriptor announces one.
func hasLZ4EndMark(data []byte) bool {
	const (
		headerLen           = 7 // magic, FLG, BD, header checksum
		flagContentChecksum = 0x04
	)

	if len(data) < headerLen+4 {
		return false
	}

	trailer := 4
	if data[4]&flagContentChecksum != 0 {
		trailer = 8
	}
	if len(data) < headerLen+trailer {
		return false
	}

	return engine.Uint32(data[len(data)-trailer:]) == 0
}
