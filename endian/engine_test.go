package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	buf := engine.AppendUint32(nil, math.Float32bits(1.5))
	require.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f}, buf)
	require.Equal(t, float32(1.5), math.Float32frombits(engine.Uint32(buf)))
}

func TestGetBigEndianEngine(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Equal(t, binary.BigEndian, engine)
	require.Equal(t, []byte{0x01, 0x02}, engine.AppendUint16(nil, 0x0102))
}

func TestEngines_Append(t *testing.T) {
	tests := []struct {
		name   string
		engine EndianEngine
		want16 []byte
		want64 []byte
	}{
		{"little", GetLittleEndianEngine(), []byte{0x34, 0x12}, []byte{8, 7, 6, 5, 4, 3, 2, 1}},
		{"big", GetBigEndianEngine(), []byte{0x12, 0x34}, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want16, tt.engine.AppendUint16(nil, 0x1234))
			require.Equal(t, tt.want64, tt.engine.AppendUint64(nil, 0x0102030405060708))

			buf := make([]byte, 8)
			tt.engine.PutUint64(buf, 0x0102030405060708)
			require.Equal(t, tt.want64, buf)
			require.Equal(t, uint64(0x0102030405060708), tt.engine.Uint64(buf))
		})
	}
}
