// Package endian fixes the byte order of binary numeric data.
//
// Array element storage and the CBOR typed-array tags both use little-endian
// order, independent of the host. Code that reads or writes raw element bytes
// should go through GetLittleEndianEngine rather than encoding/binary directly
// so the choice lives in one place:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(x))
package endian

import "encoding/binary"

// EndianEngine is a byte order that can both put and append.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the engine used for array elements and
// frame trailers.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine, used only to read the
// big-endian CBOR typed-array tags produced by other encoders.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
