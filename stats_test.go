package tagframe

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/arloliu/tagframe/errs"
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/value"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// repeatedRecords returns n copies of the same record.
func repeatedRecords(n int) []any {
	records := make([]any, n)
	for i := range records {
		records[i] = map[string]any{
			"service": "checkout",
			"status":  "ok",
			"latency": 12.5,
			"tags":    []any{"prod", "eu-west-1"},
		}
	}

	return records
}

func TestCompressionRatio_RepeatedRecords(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	records := repeatedRecords(1000)
	for _, c := range format.Compressions() {
		if c == format.CompressionNone {
			continue
		}

		t.Run(c.Tag(), func(t *testing.T) {
			stats, err := s.CompressionRatioAs(records, format.FormatJSON, c)
			require.NoError(t, err)
			require.Equal(t, format.FormatJSON, stats.Format)
			require.Equal(t, c, stats.Algorithm)
			require.Greater(t, stats.OriginalSize, stats.CompressedSize)
			require.Greater(t, stats.RatioPercent, 80.0)
			require.Equal(t, math.Round(stats.RatioPercent*100)/100, stats.RatioPercent, "ratio is rounded to 2 decimals")

			expected := (1 - float64(stats.CompressedSize)/float64(stats.OriginalSize)) * 100
			require.InDelta(t, expected, stats.RatioPercent, 0.006)
		})
	}
}

func TestCompressionRatio_None(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	stats, err := s.CompressionRatio(repeatedRecords(10))
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, stats.Algorithm)
	require.Equal(t, stats.OriginalSize, stats.CompressedSize)
	require.Zero(t, stats.RatioPercent)
}

func TestCompressionRatio_DefaultsAndErrors(t *testing.T) {
	s, err := New(WithFormat(format.FormatCBOR), WithCompression(format.CompressionZlib))
	require.NoError(t, err)

	stats, err := s.CompressionRatio(strings.Repeat("abc", 500))
	require.NoError(t, err)
	require.Equal(t, format.FormatCBOR, stats.Format)
	require.Equal(t, format.CompressionZlib, stats.Algorithm)

	_, err = s.CompressionRatio(make(chan int))
	require.ErrorIs(t, err, errs.ErrEncodingFailed)

	_, err = s.CompressionRatioAs(1, format.FormatJSON, format.CompressionType(0x42))
	require.ErrorIs(t, err, errs.ErrUnknownCompressionTag)
}

func TestCompressionRatio_Overhead(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	// a tiny payload grows under zlib framing
	stats, err := s.CompressionRatioAs(1, format.FormatJSON, format.CompressionZlib)
	require.NoError(t, err)
	require.Greater(t, stats.CompressedSize, stats.OriginalSize)
	require.Less(t, stats.RatioPercent, 0.0)
}

func TestBestCompression(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	records := repeatedRecords(200)
	best, ok := s.BestCompression(records)
	require.True(t, ok)
	require.NotEqual(t, format.CompressionNone, best.Algorithm)
	require.Equal(t, format.FormatJSON, best.Format)

	for _, c := range format.Compressions() {
		if c == format.CompressionNone {
			continue
		}
		stats, err := s.CompressionRatioAs(records, format.FormatJSON, c)
		require.NoError(t, err)
		require.GreaterOrEqual(t, best.RatioPercent, stats.RatioPercent, c.Tag())
	}
}

func TestBestCompression_TieGoesToFirst(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	// null encodes to 4 bytes that no algorithm shrinks; the first non-none
	// algorithm with the highest (negative) ratio wins
	best, ok := s.BestCompression(nil)
	require.True(t, ok)

	var want Stats
	found := false
	for _, c := range format.Compressions() {
		if c == format.CompressionNone {
			continue
		}
		stats, err := s.CompressionRatioAs(nil, format.FormatJSON, c)
		require.NoError(t, err)
		if !found || stats.RatioPercent > want.RatioPercent {
			want, found = stats, true
		}
	}
	require.Equal(t, want, best)
}

func TestBestCompression_AllFail(t *testing.T) {
	var logs bytes.Buffer
	s, err := New(WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)

	best, ok := s.BestCompression(make(chan int))
	require.False(t, ok)
	require.Equal(t, Stats{}, best)
	require.Equal(t, len(format.Compressions())-1, strings.Count(logs.String(), "skipping algorithm"))
}

func TestStorageHelpers(t *testing.T) {
	v := map[string]any{"id": 7, "name": "widget", "dims": []float64{1.5, 2.5}}
	want := value.MustFrom(v)

	plain, err := SerializeForStorage(v, false)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(plain, []byte("json:none::")))

	packed, err := SerializeForStorage(v, true)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(packed, []byte("json:lz4::")))

	for _, data := range [][]byte{plain, packed} {
		got, err := DeserializeFromStorage(data)
		require.NoError(t, err)
		require.True(t, value.Equal(want, got))
	}

	data, err := Serialize(v)
	require.NoError(t, err)
	got, err := Deserialize(data)
	require.NoError(t, err)
	require.True(t, value.Equal(want, got))

	best, ok := BestCompressionFor(repeatedRecords(100))
	require.True(t, ok)
	require.Greater(t, best.RatioPercent, 0.0)
}
