package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

// getAllCodecs returns all available codec implementations for testing
func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp":    NewNoOpCompressor(),
		"Zlib":    NewZlibCompressor(DefaultLevel),
		"LZ4":     NewLZ4Compressor(DefaultLevel),
		"LZ4Fast": NewLZ4Compressor(1),
		"Snappy":  NewSnappyCompressor(),
		"S2":      NewS2Compressor(),
		"Zstd":    NewZstdCompressor(DefaultLevel),
	}
}

func testPayloads() map[string][]byte {
	large := make([]byte, 64*1024)
	for i := range large {
		large[i] = byte(i % 251)
	}

	return map[string][]byte{
		"single byte":      {0x42},
		"small text":       []byte("hello world"),
		"binary":           {0x00, 0x01, 0x02, 0xFF, 0xFE, 0xFD},
		"repeated pattern": bytes.Repeat([]byte("abcabc"), 1000),
		"json records":     bytes.Repeat([]byte(`{"id":1,"name":"record","value":3.5},`), 500),
		"large pattern":    large,
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	for codecName, codec := range getAllCodecs() {
		for payloadName, payload := range testPayloads() {
			t.Run(codecName+"/"+payloadName, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				decompressed, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, payload, decompressed)
			})
		}
	}
}

// TestAllCodecs_EmptyData tests that all codecs handle empty data correctly
func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)
			require.Empty(t, compressed)
		})
	}
}

func TestAllCodecs_RejectCorruptInput(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xFF}, 32)

	for name, codec := range getAllCodecs() {
		if name == "NoOp" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			out, err := codec.Decompress(garbage)
			require.Error(t, err)
			require.Nil(t, out)
		})
	}
}

func TestZlib_RejectTruncatedInput(t *testing.T) {
	payload := testPayloads()["json records"]
	codec := NewZlibCompressor(9)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	out, err := codec.Decompress(compressed[:len(compressed)/2])
	require.Error(t, err)
	require.Nil(t, out)

	// A stream missing only its checksum is still rejected.
	out, err = codec.Decompress(compressed[:len(compressed)-2])
	require.Error(t, err)
	require.Nil(t, out)
}

func TestZlib_LevelsAffectOutput(t *testing.T) {
	payload := testPayloads()["json records"]

	fast, err := NewZlibCompressor(1).Compress(payload)
	require.NoError(t, err)
	best, err := NewZlibCompressor(9).Compress(payload)
	require.NoError(t, err)

	require.LessOrEqual(t, len(best), len(fast))

	// zlib header: CMF 0x78
	require.Equal(t, byte(0x78), best[0])
}

func TestLZ4_RejectTruncatedInput(t *testing.T) {
	payload := testPayloads()["json records"]
	codec := NewLZ4Compressor(DefaultLevel)

	compressed, err := codec.Compress(payload)
	require.NoError(t, err)

	tests := []struct {
		name string
		keep int
	}{
		{"header only", 7},
		{"half", len(compressed) / 2},
		{"missing end mark and checksum", len(compressed) - 8},
		{"missing checksum byte", len(compressed) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := codec.Decompress(compressed[:tt.keep])
			require.Error(t, err)
			require.Nil(t, out)
		})
	}
}

func TestBlockAndZstd_RejectTruncatedInput(t *testing.T) {
	payload := testPayloads()["json records"]
	codecs := map[string]Codec{
		"snappy": NewSnappyCompressor(),
		"s2":     NewS2Compressor(),
		"zstd":   NewZstdCompressor(DefaultLevel),
	}

	for name, codec := range codecs {
		compressed, err := codec.Compress(payload)
		require.NoError(t, err)

		cuts := map[string]int{
			"first byte":        1,
			"half":              len(compressed) / 2,
			"missing last byte": len(compressed) - 1,
		}
		for cut, keep := range cuts {
			t.Run(name+"/"+cut, func(t *testing.T) {
				out, err := codec.Decompress(compressed[:keep])
				require.Error(t, err)
				require.Nil(t, out)
			})
		}
	}
}

func TestLZ4_FrameMagic(t *testing.T) {
	compressed, err := NewLZ4Compressor(DefaultLevel).Compress([]byte("lz4 frame payload"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x04, 0x22, 0x4D, 0x18}, compressed[:4])
}

func TestLZ4_CompressionLevelHint(t *testing.T) {
	require.Equal(t, lz4.Fast, NewLZ4Compressor(1).compressionLevel())
	require.Equal(t, lz4.Fast, NewLZ4Compressor(2).compressionLevel())
	require.Equal(t, lz4.Level3, NewLZ4Compressor(3).compressionLevel())
	require.Equal(t, lz4.Level9, NewLZ4Compressor(9).compressionLevel())
}

func TestZstd_AllLevelsRoundTrip(t *testing.T) {
	payload := testPayloads()["json records"]

	for level := MinLevel; level <= MaxLevel; level++ {
		codec := NewZstdCompressor(level)
		compressed, err := codec.Compress(payload)
		require.NoError(t, err, "level %d", level)
		require.Less(t, len(compressed), len(payload), "level %d", level)

		// any level decodes with the default-level codec
		decompressed, err := NewZstdCompressor(DefaultLevel).Decompress(compressed)
		require.NoError(t, err, "level %d", level)
		require.Equal(t, payload, decompressed)
	}

	require.Equal(t, DefaultLevel, NewZstdCompressor(0).level)
	require.Equal(t, DefaultLevel, NewZstdCompressor(42).level)
}

func TestNoOpCompressor_RoundTrip(t *testing.T) {
	compressor := NewNoOpCompressor()
	data := []byte("hello world")

	compressed, err := compressor.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &compressed[0]) // Should be the same slice (no copy)

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	require.Same(t, &compressed[0], &decompressed[0])
}

func TestCreateCodec(t *testing.T) {
	for _, cType := range format.Compressions() {
		t.Run(cType.String(), func(t *testing.T) {
			codec, err := CreateCodec(cType, 0)
			require.NoError(t, err)
			require.NotNil(t, codec)

			builtin, err := GetCodec(cType)
			require.NoError(t, err)
			require.NotNil(t, builtin)
		})
	}

	_, err := CreateCodec(format.CompressionType(0xFF), DefaultLevel)
	require.ErrorIs(t, err, errs.ErrUnknownCompressionTag)

	_, err = GetCodec(format.CompressionType(0xFF))
	require.ErrorIs(t, err, errs.ErrUnknownCompressionTag)

	for _, level := range []int{-1, 10, 22} {
		_, err = CreateCodec(format.CompressionZlib, level)
		require.ErrorIs(t, err, errs.ErrInvalidCompressionLevel, "level %d", level)
	}
}

func TestCompressDecompress_WrapErrors(t *testing.T) {
	for _, cType := range format.Compressions() {
		if cType == format.CompressionNone {
			continue
		}
		t.Run(cType.String(), func(t *testing.T) {
			payload := testPayloads()["json records"]

			compressed, err := Compress(payload, cType, 0)
			require.NoError(t, err)

			out, err := Decompress(compressed, cType)
			require.NoError(t, err)
			require.Equal(t, payload, out)

			_, err = Decompress(bytes.Repeat([]byte{0xFF}, 32), cType)
			require.ErrorIs(t, err, errs.ErrDecompressionFailed)
			require.Contains(t, err.Error(), cType.Tag())
		})
	}
}

// Test CompressionStats calculation methods
func TestCompressionStats_Calculations(t *testing.T) {
	tests := []struct {
		name            string
		stats           CompressionStats
		expectedRatio   float64
		expectedSavings float64
	}{
		{
			name:            "good compression",
			stats:           CompressionStats{Algorithm: format.CompressionZlib, OriginalSize: 1000, CompressedSize: 300},
			expectedRatio:   0.3,
			expectedSavings: 70.0,
		},
		{
			name:            "no compression benefit",
			stats:           CompressionStats{Algorithm: format.CompressionNone, OriginalSize: 500, CompressedSize: 500},
			expectedRatio:   1.0,
			expectedSavings: 0.0,
		},
		{
			name:            "compression overhead",
			stats:           CompressionStats{Algorithm: format.CompressionSnappy, OriginalSize: 100, CompressedSize: 120},
			expectedRatio:   1.2,
			expectedSavings: -20.0,
		},
		{
			name:            "zero original size",
			stats:           CompressionStats{Algorithm: format.CompressionLZ4, OriginalSize: 0, CompressedSize: 100},
			expectedRatio:   0.0,
			expectedSavings: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expectedRatio, tt.stats.CompressionRatio(), 0.001)
			require.InDelta(t, tt.expectedSavings, tt.stats.SpaceSavings(), 0.001)
		})
	}
}

func TestAllCodecs_ConcurrentUse(t *testing.T) {
	payload := testPayloads()["json records"]

	for name, codec := range getAllCodecs() {
		codec := codec
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for i := 0; i < 8; i++ {
				t.Run(fmt.Sprintf("worker_%d", i), func(t *testing.T) {
					t.Parallel()
					compressed, err := codec.Compress(payload)
					require.NoError(t, err)
					out, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, payload, out)
				})
			}
		})
	}
}
