package compress

import "github.com/klauspost/compress/s2"

// SnappyCompressor produces Snappy block format output.
//
// Encoding uses S2's Snappy-compatible mode, so the output is decodable by any
// Snappy implementation. There is no compression level.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a new Snappy compressor.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Compress compresses the input data as a Snappy block.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeSnappy(nil, data), nil
}

// Decompress decompresses a Snappy block.
func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
