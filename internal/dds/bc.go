package dds

import (
	"encoding/binary"

	"github.com/avitk/texweld/internal/pixel"
)

// Block compression primitives shared by the encoders and decoders. All
// routines work on 4x4 pixel blocks; partial edge blocks are padded by
// clamping to the nearest image pixel.

// encodeLevel block-compresses (or passes through) one mip level. The image
// must be RGBA8.
func encodeLevel(img *pixel.Image, format Format, q Quality) []byte {
	if format == FormatRGBA8 {
		out := make([]byte, len(img.Data))
		copy(out, img.Data)
		return out
	}
	bw := (img.Width + 3) / 4
	bh := (img.Height + 3) / 4
	out := make([]byte, 0, bw*bh*format.Info().BlockSize)
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			px := blockAt(img, bx, by)
			switch format {
			case FormatBC1:
				b := encodeBC1Block(px, q)
				out = append(out, b[:]...)
			case FormatBC2:
				b := encodeBC2Block(px, q)
				out = append(out, b[:]...)
			case FormatBC3:
				b := encodeBC3Block(px, q)
				out = append(out, b[:]...)
			case FormatBC4:
				b := encodeBC4Block(blockChannel(px, 0))
				out = append(out, b[:]...)
			case FormatBC5:
				r := encodeBC4Block(blockChannel(px, 0))
				g := encodeBC4Block(blockChannel(px, 1))
				out = append(out, r[:]...)
				out = append(out, g[:]...)
			case FormatBC7:
				b := encodeBC7Block(px, q)
				out = append(out, b[:]...)
			}
		}
	}
	return out
}

// blockAt gathers the 4x4 block (bx, by), clamping reads at the image edge.
func blockAt(img *pixel.Image, bx, by int) (px [16][4]uint8) {
	for j := 0; j < 4; j++ {
		y := by*4 + j
		if y >= img.Height {
			y = img.Height - 1
		}
		for i := 0; i < 4; i++ {
			x := bx*4 + i
			if x >= img.Width {
				x = img.Width - 1
			}
			o := img.PixOffset(x, y)
			px[j*4+i] = [4]uint8{img.Data[o], img.Data[o+1], img.Data[o+2], img.Data[o+3]}
		}
	}
	return px
}

func blockChannel(px [16][4]uint8, ch int) (vals [16]uint8) {
	for i := range px {
		vals[i] = px[i][ch]
	}
	return vals
}

// --- 565 color endpoints (BC1/BC2/BC3) ---

func expand565(v uint16) (r, g, b uint8) {
	r5 := uint8(v >> 11 & 0x1F)
	g6 := uint8(v >> 5 & 0x3F)
	b5 := uint8(v & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

func quant565(c [3]float64) uint16 {
	r := uint16(clamp255(c[0]))
	g := uint16(clamp255(c[1]))
	b := uint16(clamp255(c[2]))
	return ((r*31+127)/255)<<11 | ((g*63+127)/255)<<5 | (b*31+127)/255
}

func clamp255(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return int(v + 0.5)
}

// bc1Palette derives the 4-entry palette for a color block. In the
// three-color mode entry 3 is fully transparent black.
func bc1Palette(c0, c1 uint16, fourColor bool) (pal [4][4]uint8) {
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)
	pal[0] = [4]uint8{r0, g0, b0, 255}
	pal[1] = [4]uint8{r1, g1, b1, 255}
	if fourColor {
		pal[2] = [4]uint8{lerp3(r0, r1), lerp3(g0, g1), lerp3(b0, b1), 255}
		pal[3] = [4]uint8{lerp3(r1, r0), lerp3(g1, g0), lerp3(b1, b0), 255}
	} else {
		pal[2] = [4]uint8{mid(r0, r1), mid(g0, g1), mid(b0, b1), 255}
		pal[3] = [4]uint8{0, 0, 0, 0}
	}
	return pal
}

// lerp3 returns the two-thirds point toward a.
func lerp3(a, b uint8) uint8 {
	return uint8((2*int(a) + int(b) + 1) / 3)
}

func mid(a, b uint8) uint8 {
	return uint8((int(a) + int(b) + 1) / 2)
}

func colorDist(p [4]uint8, q [4]uint8) int {
	dr := int(p[0]) - int(q[0])
	dg := int(p[1]) - int(q[1])
	db := int(p[2]) - int(q[2])
	return dr*dr + dg*dg + db*db
}

// colorEndpoints finds 565 endpoints and four-color palette indices for a
// block, refining the endpoints by least squares for the configured number
// of passes. The returned endpoints satisfy c0 >= c1.
func colorEndpoints(px [16][4]uint8, q Quality) (c0, c1 uint16, indices [16]uint8) {
	var e0, e1 [3]float64
	for c := 0; c < 3; c++ {
		lo, hi := px[0][c], px[0][c]
		for _, p := range px {
			if p[c] < lo {
				lo = p[c]
			}
			if p[c] > hi {
				hi = p[c]
			}
		}
		e0[c], e1[c] = float64(hi), float64(lo)
	}

	for pass := 0; ; pass++ {
		c0, c1 = quant565(e0), quant565(e1)
		pal := bc1Palette(c0, c1, true)
		for i, p := range px {
			indices[i] = nearest4(p, pal)
		}
		if pass >= q.refinePasses() {
			break
		}
		n0, n1, ok := refineColor(px, indices)
		if !ok {
			break
		}
		e0, e1 = n0, n1
	}

	if c0 < c1 {
		c0, c1 = c1, c0
		for i := range indices {
			indices[i] ^= 1 // swaps 0<->1 and 2<->3
		}
	} else if c0 == c1 {
		indices = [16]uint8{}
	}
	return c0, c1, indices
}

func nearest4(p [4]uint8, pal [4][4]uint8) uint8 {
	best, bestDist := uint8(0), colorDist(p, pal[0])
	for i := 1; i < 4; i++ {
		if d := colorDist(p, pal[i]); d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	return best
}

// refineColor solves the least-squares optimal endpoints for the current
// index assignment. Index i blends the endpoints with weight weightsBC1[i]
// toward e1. Reports false when the system is degenerate.
var weightsBC1 = [4]float64{0, 1, 1.0 / 3.0, 2.0 / 3.0}

func refineColor(px [16][4]uint8, indices [16]uint8) (e0, e1 [3]float64, ok bool) {
	var alpha, beta, gamma float64
	var xs, ys [3]float64
	for i, p := range px {
		w := weightsBC1[indices[i]]
		a := 1 - w
		alpha += a * a
		beta += a * w
		gamma += w * w
		for c := 0; c < 3; c++ {
			xs[c] += a * float64(p[c])
			ys[c] += w * float64(p[c])
		}
	}
	det := alpha*gamma - beta*beta
	if det > -1e-8 && det < 1e-8 {
		return e0, e1, false
	}
	for c := 0; c < 3; c++ {
		e0[c] = (gamma*xs[c] - beta*ys[c]) / det
		e1[c] = (alpha*ys[c] - beta*xs[c]) / det
	}
	return e0, e1, true
}

// transparentEndpoints builds a three-color block for cutout content:
// pixels below half coverage map to the transparent index.
func transparentEndpoints(px [16][4]uint8) (c0, c1 uint16, indices [16]uint8) {
	var e0, e1 [3]float64
	seen := false
	for _, p := range px {
		if p[3] < 128 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := float64(p[c])
			if !seen {
				e0[c], e1[c] = v, v
			} else {
				if v < e0[c] {
					e0[c] = v
				}
				if v > e1[c] {
					e1[c] = v
				}
			}
		}
		seen = true
	}
	if !seen {
		// Fully transparent block.
		for i := range indices {
			indices[i] = 3
		}
		return 0, 0, indices
	}

	c0, c1 = quant565(e0), quant565(e1)
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	pal := bc1Palette(c0, c1, false)
	for i, p := range px {
		if p[3] < 128 {
			indices[i] = 3
			continue
		}
		best, bestDist := uint8(0), colorDist(p, pal[0])
		for j := 1; j < 3; j++ {
			if d := colorDist(p, pal[j]); d < bestDist {
				best, bestDist = uint8(j), d
			}
		}
		indices[i] = best
	}
	return c0, c1, indices
}

func packColorBlock(c0, c1 uint16, indices [16]uint8) (b [8]byte) {
	binary.LittleEndian.PutUint16(b[0:], c0)
	binary.LittleEndian.PutUint16(b[2:], c1)
	var bits uint32
	for i, idx := range indices {
		bits |= uint32(idx) << (2 * i)
	}
	binary.LittleEndian.PutUint32(b[4:], bits)
	return b
}

// encodeBC1Block emits the four-color mode for opaque blocks and the
// three-color mode with a transparent index when any pixel is below half
// coverage.
func encodeBC1Block(px [16][4]uint8, q Quality) [8]byte {
	cutout := false
	for _, p := range px {
		if p[3] < 128 {
			cutout = true
			break
		}
	}
	if cutout {
		return packColorBlock(transparentEndpoints(px))
	}
	return packColorBlock(colorEndpoints(px, q))
}

// --- single-channel interpolated alpha (BC3/BC4/BC5) ---

// bc4Table derives the 8-entry value table for an alpha block.
func bc4Table(a0, a1 uint8) (t [8]uint8) {
	t[0], t[1] = a0, a1
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			t[i+1] = uint8(((7-i)*int(a0) + i*int(a1) + 3) / 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			t[i+1] = uint8(((5-i)*int(a0) + i*int(a1) + 2) / 5)
		}
		t[6] = 0
		t[7] = 255
	}
	return t
}

func encodeBC4Block(vals [16]uint8) (b [8]byte) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	a0, a1 := hi, lo
	b[0], b[1] = a0, a1
	t := bc4Table(a0, a1)
	var bits uint64
	for i, v := range vals {
		best, bestDist := 0, absInt(int(v)-int(t[0]))
		for j := 1; j < 8; j++ {
			if d := absInt(int(v) - int(t[j])); d < bestDist {
				best, bestDist = j, d
			}
		}
		bits |= uint64(best) << (3 * i)
	}
	for i := 0; i < 6; i++ {
		b[2+i] = byte(bits >> (8 * i))
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func encodeBC2Block(px [16][4]uint8, q Quality) (b [16]byte) {
	var alpha uint64
	for i, p := range px {
		alpha |= uint64((int(p[3])*15+127)/255) << (4 * i)
	}
	binary.LittleEndian.PutUint64(b[0:], alpha)
	color := packColorBlock(colorEndpoints(px, q))
	copy(b[8:], color[:])
	return b
}

func encodeBC3Block(px [16][4]uint8, q Quality) (b [16]byte) {
	alpha := encodeBC4Block(blockChannel(px, 3))
	copy(b[0:], alpha[:])
	color := packColorBlock(colorEndpoints(px, q))
	copy(b[8:], color[:])
	return b
}

// --- BC7 mode 6 ---

// BC7 interpolation weight tables.
var (
	bc7Weights2 = [4]uint8{0, 21, 43, 64}
	bc7Weights3 = [8]uint8{0, 9, 18, 27, 37, 46, 55, 64}
	bc7Weights4 = [16]uint8{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

func bc7Interp(e0, e1 uint8, w uint8) uint8 {
	return uint8((uint16(64-w)*uint16(e0) + uint16(w)*uint16(e1) + 32) >> 6)
}

// quantize777 maps an 8-bit RGBA endpoint onto mode 6 storage: 7 bits per
// channel plus one shared low bit, choosing the shared bit that minimizes
// total channel error.
func quantize777(e [4]float64) (out [4]uint8, pbit uint8) {
	var cand [2][4]uint8
	var err [2]int
	for p := 0; p < 2; p++ {
		for c := 0; c < 4; c++ {
			v := clamp255(e[c])
			q := (v - p + 1) / 2
			if q < 0 {
				q = 0
			}
			if q > 127 {
				q = 127
			}
			cand[p][c] = uint8(q)
			d := v - (q<<1 | p)
			err[p] += d * d
		}
	}
	if err[1] < err[0] {
		return cand[1], 1
	}
	return cand[0], 0
}

func bc7Mode6Palette(e0 [4]uint8, p0 uint8, e1 [4]uint8, p1 uint8) (pal [16][4]uint8) {
	for c := 0; c < 4; c++ {
		lo := e0[c]<<1 | p0
		hi := e1[c]<<1 | p1
		for i, w := range bc7Weights4 {
			pal[i][c] = bc7Interp(lo, hi, w)
		}
	}
	return pal
}

func rgbaDist(p, q [4]uint8) int {
	d := colorDist(p, q)
	da := int(p[3]) - int(q[3])
	return d + da*da
}

func refineRGBA(px [16][4]uint8, indices [16]uint8) (e0, e1 [4]float64, ok bool) {
	var alpha, beta, gamma float64
	var xs, ys [4]float64
	for i, p := range px {
		w := float64(bc7Weights4[indices[i]]) / 64
		a := 1 - w
		alpha += a * a
		beta += a * w
		gamma += w * w
		for c := 0; c < 4; c++ {
			xs[c] += a * float64(p[c])
			ys[c] += w * float64(p[c])
		}
	}
	det := alpha*gamma - beta*beta
	if det > -1e-8 && det < 1e-8 {
		return e0, e1, false
	}
	for c := 0; c < 4; c++ {
		e0[c] = (gamma*xs[c] - beta*ys[c]) / det
		e1[c] = (alpha*ys[c] - beta*xs[c]) / det
	}
	return e0, e1, true
}

// encodeBC7Block emits a single-subset mode 6 block: full 8-bit effective
// endpoint precision and 4-bit indices, the configuration that serves
// normal maps and gradient-heavy composites best.
func encodeBC7Block(px [16][4]uint8, q Quality) [16]byte {
	var f0, f1 [4]float64
	for c := 0; c < 4; c++ {
		lo, hi := px[0][c], px[0][c]
		for _, p := range px {
			if p[c] < lo {
				lo = p[c]
			}
			if p[c] > hi {
				hi = p[c]
			}
		}
		f0[c], f1[c] = float64(lo), float64(hi)
	}

	var e0, e1 [4]uint8
	var p0, p1 uint8
	var indices [16]uint8
	for pass := 0; ; pass++ {
		e0, p0 = quantize777(f0)
		e1, p1 = quantize777(f1)
		pal := bc7Mode6Palette(e0, p0, e1, p1)
		for i, p := range px {
			best, bestDist := uint8(0), rgbaDist(p, pal[0])
			for j := 1; j < 16; j++ {
				if d := rgbaDist(p, pal[j]); d < bestDist {
					best, bestDist = uint8(j), d
				}
			}
			indices[i] = best
		}
		if pass >= q.refinePasses() {
			break
		}
		n0, n1, ok := refineRGBA(px, indices)
		if !ok {
			break
		}
		f0, f1 = n0, n1
	}

	// The anchor index must not have its high bit set; swap the endpoints
	// and invert the indices when it does.
	if indices[0] >= 8 {
		e0, e1 = e1, e0
		p0, p1 = p1, p0
		for i := range indices {
			indices[i] = 15 - indices[i]
		}
	}

	var w bitWriter
	w.write(1<<6, 7) // mode 6 marker
	for c := 0; c < 4; c++ {
		w.write(uint32(e0[c]), 7)
		w.write(uint32(e1[c]), 7)
	}
	w.write(uint32(p0), 1)
	w.write(uint32(p1), 1)
	w.write(uint32(indices[0]), 3)
	for i := 1; i < 16; i++ {
		w.write(uint32(indices[i]), 4)
	}
	return w.data
}

// bitWriter packs values LSB-first into a 128-bit block.
type bitWriter struct {
	data [16]byte
	pos  int
}

func (w *bitWriter) write(v uint32, n int) {
	for i := 0; i < n; i++ {
		if v&(1<<i) != 0 {
			w.data[w.pos/8] |= byte(1) << (w.pos % 8)
		}
		w.pos++
	}
}
