package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriterPools holds one writer pool per compression level (index = level).
var zlibWriterPools [MaxLevel + 1]sync.Pool

// ZlibCompressor produces standard zlib (RFC 1950) streams.
//
// Output is readable by any zlib-compatible inflater.
type ZlibCompressor struct {
	level int
}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a zlib compressor with the given level (1-9).
// Out-of-range levels fall back to DefaultLevel.
func NewZlibCompressor(level int) ZlibCompressor {
	if level < MinLevel || level > MaxLevel {
		level = DefaultLevel
	}

	return ZlibCompressor{level: level}
}

func (c ZlibCompressor) getWriter(dst io.Writer) (*zlib.Writer, error) {
	if w, ok := zlibWriterPools[c.level].Get().(*zlib.Writer); ok {
		w.Reset(dst)
		return w, nil
	}

	return zlib.NewWriterLevel(dst, c.level)
}

// Compress compresses the input data using zlib.
//
// Returns:
//   - []byte: Compressed data (nil if input is empty)
//   - error: Compression error if any
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, err := c.getWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	zlibWriterPools[c.level].Put(w)

	return buf.Bytes(), nil
}

// Decompress inflates a complete zlib stream and verifies its Adler-32 checksum.
//
// Truncated streams fail with io.ErrUnexpectedEOF.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return out, nil
}
