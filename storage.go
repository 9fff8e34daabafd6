package tagframe

import (
	"github.com/arloliu/tagframe/format"
	"github.com/arloliu/tagframe/frame"
	"github.com/arloliu/tagframe/value"
)

// defaultSerializer backs the package-level helpers: json, no compression,
// default level, no logging.
var defaultSerializer = func() *Serializer {
	s, err := New()
	if err != nil {
		panic("tagframe: default serializer: " + err.Error())
	}
	return s
}()

// SerializeForStorage encodes v as json, compressed with lz4 when compress is
// true and uncompressed otherwise.
func SerializeForStorage(v any, compress bool) ([]byte, error) {
	c := format.CompressionNone
	if compress {
		c = format.CompressionLZ4
	}

	return defaultSerializer.SerializeAs(v, format.FormatJSON, c)
}

// DeserializeFromStorage decodes a frame of any format and compression.
func DeserializeFromStorage(data []byte) (value.Value, error) {
	return defaultSerializer.Deserialize(data)
}

// BestCompressionFor is Serializer.BestCompression with default settings.
func BestCompressionFor(v any) (Stats, bool) {
	return defaultSerializer.BestCompression(v)
}

// Serialize encodes v with the package defaults (json, no compression).
func Serialize(v any) ([]byte, error) {
	return defaultSerializer.Serialize(v)
}

// Deserialize decodes a frame with the package defaults.
func Deserialize(data []byte) (value.Value, error) {
	return defaultSerializer.Deserialize(data)
}

// Inspect parses the frame header of data, see Serializer.Inspect.
func Inspect(data []byte) (frame.Header, int, error) {
	return defaultSerializer.Inspect(data)
}
