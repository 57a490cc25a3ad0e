package pixel

import (
	"encoding/binary"
	"math"
)

// AlphaBinary reports whether every alpha sample of m is exactly the minimum
// or exactly the maximum representable value, with no intermediate coverage
// anywhere. Images without an alpha channel are trivially binary.
func AlphaBinary(m *Image) bool {
	return alphaScan(m, true)
}

// AlphaOpaque reports whether every alpha sample of m is the maximum
// representable value. Images without an alpha channel are trivially opaque.
func AlphaOpaque(m *Image) bool {
	return alphaScan(m, false)
}

// alphaScan walks the alpha channel and short-circuits on the first sample
// that is neither the maximum nor, when allowMin is set, the minimum. Float
// alpha uses the normalized [0, 1] range.
func alphaScan(m *Image, allowMin bool) bool {
	info := m.Format.Info()
	if !info.HasAlpha {
		return true
	}
	stride := m.Format.BytesPerPixel()
	off := stride - info.BitsPerChannel/8
	switch {
	case info.Float:
		for o := off; o < len(m.Data); o += stride {
			v := math.Float32frombits(binary.BigEndian.Uint32(m.Data[o:]))
			if v != 1 && !(allowMin && v == 0) {
				return false
			}
		}
	case info.BitsPerChannel == 16:
		for o := off; o < len(m.Data); o += stride {
			v := binary.BigEndian.Uint16(m.Data[o:])
			if v != math.MaxUint16 && !(allowMin && v == 0) {
				return false
			}
		}
	default:
		for o := off; o < len(m.Data); o += stride {
			v := m.Data[o]
			if v != math.MaxUint8 && !(allowMin && v == 0) {
				return false
			}
		}
	}
	return true
}
