package compress

// ZstdCompressor provides Zstandard compression.
//
// It trades compression speed for ratio and is the best choice for cold
// storage of large text frames. Levels 1-9 are mapped onto the encoder's own
// level range; decompression does not depend on the level.
//
// Two implementations exist: the pure Go klauspost/compress encoder (default)
// and the cgo gozstd binding, selected with the "gozstd" build tag.
type ZstdCompressor struct {
	level int
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd compressor. level is 1-9; out of range
// values fall back to DefaultLevel.
func NewZstdCompressor(level int) ZstdCompressor {
	if level < MinLevel || level > MaxLevel {
		level = DefaultLevel
	}

	return ZstdCompressor{level: level}
}
