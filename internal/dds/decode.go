package dds

import (
	"encoding/binary"
	"fmt"

	"github.com/avitk/texweld/internal/pixel"
)

// decodeLevel expands the base mip payload described by h into RGBA8.
// Single and dual channel formats replicate into gray and fill the missing
// channels, so a BC4 height map round-trips as a grayscale image.
func decodeLevel(data []byte, h *header) (*pixel.Image, error) {
	out := pixel.NewImage(pixel.FormatRGBA8, h.width, h.height)

	if h.format == FormatRGBA8 {
		copy(out.Data, data)
		if h.bgra {
			for o := 0; o < len(out.Data); o += 4 {
				out.Data[o], out.Data[o+2] = out.Data[o+2], out.Data[o]
			}
		}
		return out, nil
	}

	bw := (h.width + 3) / 4
	bh := (h.height + 3) / 4
	bs := h.format.Info().BlockSize
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := data[(by*bw+bx)*bs:]
			var px [16][4]uint8
			switch h.format {
			case FormatBC1:
				decodeColorPart(block, &px, false)
			case FormatBC2:
				decodeBC2Block(block, &px)
			case FormatBC3:
				decodeBC3Block(block, &px)
			case FormatBC4:
				vals := decodeBC4Part(block)
				for i, v := range vals {
					px[i] = [4]uint8{v, v, v, 255}
				}
			case FormatBC5:
				rs := decodeBC4Part(block)
				gs := decodeBC4Part(block[8:])
				for i := range px {
					px[i] = [4]uint8{rs[i], gs[i], 0, 255}
				}
			case FormatBC7:
				if err := decodeBC7Block(block, &px); err != nil {
					return nil, fmt.Errorf("block (%d,%d): %w", bx, by, err)
				}
			}
			writeBlock(out, bx, by, &px)
		}
	}
	return out, nil
}

// writeBlock stores a decoded 4x4 block, clipping pixels that fall outside
// the image.
func writeBlock(out *pixel.Image, bx, by int, px *[16][4]uint8) {
	for j := 0; j < 4; j++ {
		y := by*4 + j
		if y >= out.Height {
			break
		}
		for i := 0; i < 4; i++ {
			x := bx*4 + i
			if x >= out.Width {
				break
			}
			o := out.PixOffset(x, y)
			p := px[j*4+i]
			out.Data[o] = p[0]
			out.Data[o+1] = p[1]
			out.Data[o+2] = p[2]
			out.Data[o+3] = p[3]
		}
	}
}

// decodeColorPart expands a 565 color block. BC2 and BC3 color data is
// always four-color; standalone BC1 selects the three-color transparent
// mode when c0 <= c1.
func decodeColorPart(b []byte, px *[16][4]uint8, alwaysFour bool) {
	c0 := binary.LittleEndian.Uint16(b[0:])
	c1 := binary.LittleEndian.Uint16(b[2:])
	bits := binary.LittleEndian.Uint32(b[4:])
	pal := bc1Palette(c0, c1, alwaysFour || c0 > c1)
	for i := 0; i < 16; i++ {
		px[i] = pal[bits>>(2*i)&3]
	}
}

// decodeBC4Part expands one 8-byte interpolated-alpha block into 16 values.
func decodeBC4Part(b []byte) (vals [16]uint8) {
	t := bc4Table(b[0], b[1])
	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(b[2+i]) << (8 * i)
	}
	for i := 0; i < 16; i++ {
		vals[i] = t[bits>>(3*i)&7]
	}
	return vals
}

func decodeBC2Block(b []byte, px *[16][4]uint8) {
	decodeColorPart(b[8:], px, true)
	alpha := binary.LittleEndian.Uint64(b[0:])
	for i := 0; i < 16; i++ {
		v := uint8(alpha >> (4 * i) & 0xF)
		px[i][3] = v<<4 | v
	}
}

func decodeBC3Block(b []byte, px *[16][4]uint8) {
	decodeColorPart(b[8:], px, true)
	vals := decodeBC4Part(b)
	for i := 0; i < 16; i++ {
		px[i][3] = vals[i]
	}
}

// --- BC7 ---

// bitReader reads values LSB-first from a 128-bit block.
type bitReader struct {
	data []byte
	pos  int
}

func (r *bitReader) read(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		if r.data[r.pos/8]&(byte(1)<<(r.pos%8)) != 0 {
			v |= 1 << i
		}
		r.pos++
	}
	return v
}

// readIndices reads 16 packed indices whose first (anchor) entry is stored
// with one bit less, its high bit implied zero.
func (r *bitReader) readIndices(bits int) (idx [16]uint8) {
	idx[0] = uint8(r.read(bits - 1))
	for i := 1; i < 16; i++ {
		idx[i] = uint8(r.read(bits))
	}
	return idx
}

func expandBits(v uint32, n int) uint8 {
	return uint8(v<<(8-n) | v>>(2*n-8))
}

// applyRotation swaps the alpha channel with one color channel, undoing the
// channel rotation modes 4 and 5 may select.
func applyRotation(px *[16][4]uint8, rot uint32) {
	if rot == 0 {
		return
	}
	c := int(rot) - 1
	for i := range px {
		px[i][c], px[i][3] = px[i][3], px[i][c]
	}
}

// decodeBC7Block expands the single-subset modes 4, 5, and 6. The
// partitioned modes (0-3 and 7) are not produced by this package's encoder
// and are reported as unsupported.
func decodeBC7Block(b []byte, px *[16][4]uint8) error {
	r := &bitReader{data: b}
	mode := 0
	for mode < 8 && r.read(1) == 0 {
		mode++
	}

	switch mode {
	case 4:
		rot := r.read(2)
		idxMode := r.read(1)
		var e [2][4]uint8
		for c := 0; c < 3; c++ {
			e[0][c] = expandBits(r.read(5), 5)
			e[1][c] = expandBits(r.read(5), 5)
		}
		e[0][3] = expandBits(r.read(6), 6)
		e[1][3] = expandBits(r.read(6), 6)
		idx2 := r.readIndices(2)
		idx3 := r.readIndices(3)
		colorIdx, alphaIdx := idx2, idx3
		colorW, alphaW := bc7Weights2[:], bc7Weights3[:]
		if idxMode == 1 {
			colorIdx, alphaIdx = idx3, idx2
			colorW, alphaW = bc7Weights3[:], bc7Weights2[:]
		}
		for i := 0; i < 16; i++ {
			for c := 0; c < 3; c++ {
				px[i][c] = bc7Interp(e[0][c], e[1][c], colorW[colorIdx[i]])
			}
			px[i][3] = bc7Interp(e[0][3], e[1][3], alphaW[alphaIdx[i]])
		}
		applyRotation(px, rot)
		return nil

	case 5:
		rot := r.read(2)
		var e [2][4]uint8
		for c := 0; c < 3; c++ {
			e[0][c] = expandBits(r.read(7), 7)
			e[1][c] = expandBits(r.read(7), 7)
		}
		e[0][3] = uint8(r.read(8))
		e[1][3] = uint8(r.read(8))
		colorIdx := r.readIndices(2)
		alphaIdx := r.readIndices(2)
		for i := 0; i < 16; i++ {
			for c := 0; c < 3; c++ {
				px[i][c] = bc7Interp(e[0][c], e[1][c], bc7Weights2[colorIdx[i]])
			}
			px[i][3] = bc7Interp(e[0][3], e[1][3], bc7Weights2[alphaIdx[i]])
		}
		applyRotation(px, rot)
		return nil

	case 6:
		var e [2][4]uint8
		for c := 0; c < 4; c++ {
			e[0][c] = uint8(r.read(7))
			e[1][c] = uint8(r.read(7))
		}
		p0 := uint8(r.read(1))
		p1 := uint8(r.read(1))
		pal := bc7Mode6Palette(e[0], p0, e[1], p1)
		idx := r.readIndices(4)
		for i := 0; i < 16; i++ {
			px[i] = pal[idx[i]]
		}
		return nil
	}

	if mode > 7 {
		return fmt.Errorf("invalid bc7 block")
	}
	return fmt.Errorf("bc7 mode %d (partitioned) not supported", mode)
}
