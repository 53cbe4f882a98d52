package oto

import (
	"encoding/binary"

	"github.com/vsariola/ambler"
)

// FloatBufferTo16BitLE converts a float buffer to 16-bit little-endian PCM,
// appending to dst. The samples are quantized exactly as in the .wav export,
// so what is previewed is what gets written.
func FloatBufferTo16BitLE(buff []float32, dst []byte) []byte {
	for _, v := range buff {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(ambler.Quantize(v)))
	}
	return dst
}
