//go:build !cgo || !gozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools decoders; DecodeAll does not allocate after warmup.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPools holds one encoder pool per encoder speed.
var zstdEncoderPools = func() map[zstd.EncoderLevel]*sync.Pool {
	levels := []zstd.EncoderLevel{
		zstd.SpeedFastest,
		zstd.SpeedDefault,
		zstd.SpeedBetterCompression,
		zstd.SpeedBestCompression,
	}

	pools := make(map[zstd.EncoderLevel]*sync.Pool, len(levels))
	for _, level := range levels {
		level := level
		pools[level] = &sync.Pool{
			New: func() any {
				encoder, err := zstd.NewWriter(nil,
					zstd.WithEncoderLevel(level),
					zstd.WithEncoderCRC(true),
				)
				if err != nil {
					panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
				}

				return encoder
			},
		}
	}

	return pools
}()

// encoderLevel maps levels 1-9 onto the four encoder speeds.
func (c ZstdCompressor) encoderLevel() zstd.EncoderLevel {
	switch {
	case c.level <= 0:
		return zstd.SpeedDefault
	case c.level <= 2:
		return zstd.SpeedFastest
	case c.level <= 5:
		return zstd.SpeedDefault
	case c.level <= 8:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

// Compress compresses the input data using a pooled Zstandard encoder.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	pool := zstdEncoderPools[c.encoderLevel()]
	encoder, _ := pool.Get().(*zstd.Encoder)
	defer pool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstd-compressed data using a pooled decoder. The
// decoder stays reusable after a failed call.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
