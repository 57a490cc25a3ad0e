// Package pixel holds the in-memory image representation shared by the
// composition engine and the codecs: a flat sample buffer tagged with a
// pixel Format, plus decode/encode glue to the standard image packages.
package pixel

import (
	"encoding/binary"
	"math"
)

// Image is a decoded raster image: a row-major sample buffer described by
// Format. Multi-byte samples are stored big-endian, matching the standard
// library's 16-bit image types.
//
// Images are treated as immutable once decoded; a pipeline stage that needs
// different pixels allocates a fresh Image rather than writing in place.
type Image struct {
	Format Format
	Width  int
	Height int
	Data   []byte // len = Width * Height * Format.BytesPerPixel()
}

// NewImage allocates a zeroed image of the given format and size.
func NewImage(format Format, width, height int) *Image {
	return &Image{
		Format: format,
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*format.BytesPerPixel()),
	}
}

// PixOffset returns the byte index of the first sample of the pixel at (x, y).
func (m *Image) PixOffset(x, y int) int {
	return (y*m.Width + x) * m.Format.BytesPerPixel()
}

// RGBA8At returns the pixel at (x, y) converted to 8-bit RGBA. Grayscale
// formats replicate the gray sample into R, G, and B; formats without alpha
// report full opacity; 16-bit samples keep their high byte; float samples
// are clamped to [0, 1] and rescaled.
func (m *Image) RGBA8At(x, y int) (r, g, b, a uint8) {
	o := m.PixOffset(x, y)
	switch m.Format {
	case FormatL8:
		v := m.Data[o]
		return v, v, v, 255
	case FormatLA8:
		v := m.Data[o]
		return v, v, v, m.Data[o+1]
	case FormatL16:
		v := m.Data[o]
		return v, v, v, 255
	case FormatLA16:
		v := m.Data[o]
		return v, v, v, m.Data[o+2]
	case FormatRGB8:
		return m.Data[o], m.Data[o+1], m.Data[o+2], 255
	case FormatRGB16:
		return m.Data[o], m.Data[o+2], m.Data[o+4], 255
	case FormatRGBA8:
		return m.Data[o], m.Data[o+1], m.Data[o+2], m.Data[o+3]
	case FormatRGBA16:
		return m.Data[o], m.Data[o+2], m.Data[o+4], m.Data[o+6]
	case FormatRGB32F:
		return float8(m.Data[o:]), float8(m.Data[o+4:]), float8(m.Data[o+8:]), 255
	case FormatRGBA32F:
		return float8(m.Data[o:]), float8(m.Data[o+4:]), float8(m.Data[o+8:]), float8(m.Data[o+12:])
	}
	return 0, 0, 0, 0
}

// float8 converts one big-endian float32 sample to 8 bits.
func float8(b []byte) uint8 {
	v := math.Float32frombits(binary.BigEndian.Uint32(b))
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
