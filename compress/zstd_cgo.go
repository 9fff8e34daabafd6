//go:build cgo && gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// zstdCLevels maps levels 1-9 onto libzstd levels 1-19.
var zstdCLevels = [MaxLevel + 1]int{0, 1, 2, 3, 5, 7, 9, 12, 16, 19}

// Compress compresses the input data using the cgo Zstandard binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, zstdCLevels[c.normalizedLevel()]), nil
}

// Decompress decompresses Zstd-compressed data using the cgo binding.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decompressed, err := gozstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}

func (c ZstdCompressor) normalizedLevel() int {
	if c.level < MinLevel || c.level > MaxLevel {
		return DefaultLevel
	}

	return c.level
}
