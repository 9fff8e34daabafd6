package tagframe

import (
	"math"

	"github.com/arloliu/tagframe/compress"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/frame"
)

// Stats describes how well one algorithm compresses one encoded value.
type Stats struct {
	Format    format.Format
	Algorithm format.CompressionType
	// OriginalSize is the encoded payload size before compression.
	OriginalSize int
	// CompressedSize equals OriginalSize for format.CompressionNone.
	CompressedSize int
	// RatioPercent is (1 - compressed/original) * 100, rounded to two
	// decimals. It is negative when compression adds overhead and exactly 0
	// for format.CompressionNone.
	RatioPercent float64
}

// CompressionRatio measures the default format and compression on v.
func (s *Serializer) CompressionRatio(v any) (Stats, error) {
	return s.CompressionRatioAs(v, s.format, s.compression)
}

// CompressionRatioAs encodes v once with f, compresses it once with c and
// reports the sizes. Nothing is framed.
func (s *Serializer) CompressionRatioAs(v any, f format.Format, c format.CompressionType) (Stats, error) {
	payload, err := s.encode(v, frame.Header{Format: f, Compression: c})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Format:         f,
		Algorithm:      c,
		OriginalSize:   len(payload),
		CompressedSize: len(payload),
	}
	if c == format.CompressionNone {
		return stats, nil
	}

	compressed, err := compress.Compress(payload, c, s.level)
	if err != nil {
		return Stats{}, err
	}
	stats.CompressedSize = len(compressed)

	cs := compress.CompressionStats{
		Algorithm:      c,
		OriginalSize:   int64(stats.OriginalSize),
		CompressedSize: int64(stats.CompressedSize),
	}
	if cs.OriginalSize > 0 {
		stats.RatioPercent = roundPercent(cs.SpaceSavings())
	}

	return stats, nil
}

// BestCompression measures every algorithm except none on v encoded as json
// and returns the one with the highest ratio. Ties go to the algorithm that
// comes first in format.Compressions. Algorithms that fail are logged and
// skipped; false is returned when all of them failed.
func (s *Serializer) BestCompression(v any) (Stats, bool) {
	var (
		best  Stats
		found bool
	)
	for _, c := range format.Compressions() {
		if c == format.CompressionNone {
			continue
		}

		stats, err := s.CompressionRatioAs(v, format.FormatJSON, c)
		if err != nil {
			s.logger.Warn().Err(err).Str("algorithm", c.Tag()).Msg("skipping algorithm in best compression search")
			continue
		}
		if !found || stats.RatioPercent > best.RatioPercent {
			best, found = stats, true
		}
	}

	return best, found
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
