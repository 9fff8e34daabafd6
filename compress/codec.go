package compress

import (
	"fmt"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
)

// Compression level bounds shared by every level-aware codec.
//
// A level of 0 selects DefaultLevel.
const (
	MinLevel     = 1
	MaxLevel     = 9
	DefaultLevel = 6
)

// Compressor compresses a fully materialized payload.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller (NoOp excepted)
//   - Input slice is not modified
//   - Empty input yields empty output
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Decompress validates the input and returns an error for corrupted or
// truncated data; it never returns a partially decoded prefix.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes a single compression pass.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
// Values greater than 1.0 indicate compression overhead.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Higher values indicate better compression; negative values indicate overhead.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec is a factory function that creates a Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression
//   - level: Compression level 1-9, or 0 for DefaultLevel. Ignored by codecs without levels.
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: errs.ErrInvalidCompressionLevel or errs.ErrUnknownCompressionTag
func CreateCodec(compressionType format.CompressionType, level int) (Codec, error) {
	if level == 0 {
		level = DefaultLevel
	}
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", errs.ErrInvalidCompressionLevel, level, MinLevel, MaxLevel)
	}

	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZlib:
		return NewZlibCompressor(level), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(level), nil
	case format.CompressionSnappy:
		return NewSnappyCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(level), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownCompressionTag, uint8(compressionType))
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZlib:   NewZlibCompressor(DefaultLevel),
	format.CompressionLZ4:    NewLZ4Compressor(DefaultLevel),
	format.CompressionSnappy: NewSnappyCompressor(),
	format.CompressionZstd:   NewZstdCompressor(DefaultLevel),
	format.CompressionS2:     NewS2Compressor(),
}

// GetCodec retrieves a built-in Codec with the default level for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownCompressionTag, uint8(compressionType))
}

// Compress compresses data with the given algorithm and level.
//
// Codec failures are wrapped with errs.ErrCompressionFailed and the algorithm tag;
// the original error is preserved.
func Compress(data []byte, compressionType format.CompressionType, level int) ([]byte, error) {
	codec, err := CreateCodec(compressionType, level)
	if err != nil {
		return nil, err
	}

	out, err := codec.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrCompressionFailed, compressionType.Tag(), err)
	}

	return out, nil
}

// Decompress decompresses data produced by Compress with the same algorithm.
//
// Codec failures are wrapped with errs.ErrDecompressionFailed and the algorithm tag;
// the original error is preserved.
func Decompress(data []byte, compressionType format.CompressionType) ([]byte, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	out, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrDecompressionFailed, compressionType.Tag(), err)
	}

	return out, nil
}
