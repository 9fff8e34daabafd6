// Package compress provides the compression stage of a tagframe frame.
//
// Compression is applied to the whole encoded payload after the format
// encoder has run, and is named in the frame header by its tag.
//
// # Overview
//
// Supported algorithms:
//   - None (tag "none"): identity, the payload is the encoded value
//   - Zlib (tag "zlib"): deflate in a zlib container, level 1-9 (default 6)
//   - LZ4 (tag "lz4"): LZ4 frame format, level used as a fast/HC hint
//   - Snappy (tag "snappy"): Snappy block format, no level
//   - Zstd (tag "zstd"): Zstandard, levels 1-9 mapped onto encoder speeds
//   - S2 (tag "s2"): S2 block format, no level
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Concrete codecs are obtained from CreateCodec (explicit level) or GetCodec
// (default level). The package level Compress and Decompress functions wrap
// codec failures into errs.ErrCompressionFailed and errs.ErrDecompressionFailed:
//
//	compressed, err := compress.Compress(payload, format.CompressionZlib, 9)
//	original, err := compress.Decompress(compressed, format.CompressionZlib)
//	if errors.Is(err, errs.ErrDecompressionFailed) {
//	    // corrupted or truncated input
//	}
//
// # Algorithm Selection Guide
//
// | Workload Type          | Recommended | Reason                              |
// |------------------------|-------------|-------------------------------------|
// | Storage-constrained    | Zstd, Zlib  | Best compression ratio              |
// | Cache values           | LZ4         | Fastest decompression               |
// | Interop with Snappy    | Snappy      | Readable by any Snappy decoder      |
// | CPU-constrained        | None        | No compression overhead             |
//
// # Empty Input
//
// Every codec maps empty input to empty output in both directions, so the
// round trip holds for zero-length payloads.
//
// # Thread Safety
//
// All codec implementations are stateless values and safe for concurrent use.
// Encoders that benefit from reuse (zlib writers, zstd encoders and decoders)
// are pooled internally.
package compress
