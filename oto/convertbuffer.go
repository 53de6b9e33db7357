package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/multitrack"
)

// BufferTo16BitLE converts a stereo float buffer to interleaved 16-bit
// little-endian samples, appending them to out. Values outside [-1, 1] are
// clipped.
func BufferTo16BitLE(buff multitrack.AudioBuffer, out []byte) []byte {
	for _, frame := range buff {
		for _, v := range frame {
			var uv int16
			if v < -1.0 {
				uv = -math.MaxInt16
			} else if v > 1.0 {
				uv = math.MaxInt16
			} else {
				uv = int16(v * math.MaxInt16)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(uv))
		}
	}
	return out
}
