package pixel

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	// Register the common raster decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load reads and decodes the raster image at path into its native pixel
// format.
func Load(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromStdImage(src), nil
}

// FromStdImage converts a standard library image into an Image, preserving
// channel count and bit depth where the source type carries them. Opaque
// premultiplied truecolor (the decoders' alphaless types) maps to RGB rather
// than RGBA so that images authored without an alpha channel keep that
// distinction.
func FromStdImage(src image.Image) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := src.(type) {
	case *image.Gray:
		m := NewImage(FormatL8, w, h)
		for y := 0; y < h; y++ {
			o := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Data[y*w:(y+1)*w], src.Pix[o:o+w])
		}
		return m

	case *image.Gray16:
		m := NewImage(FormatL16, w, h)
		for y := 0; y < h; y++ {
			o := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Data[y*w*2:(y+1)*w*2], src.Pix[o:o+w*2])
		}
		return m

	case *image.NRGBA:
		m := NewImage(FormatRGBA8, w, h)
		for y := 0; y < h; y++ {
			o := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Data[y*w*4:(y+1)*w*4], src.Pix[o:o+w*4])
		}
		return m

	case *image.NRGBA64:
		m := NewImage(FormatRGBA16, w, h)
		for y := 0; y < h; y++ {
			o := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Data[y*w*8:(y+1)*w*8], src.Pix[o:o+w*8])
		}
		return m

	case *image.RGBA:
		if src.Opaque() {
			m := NewImage(FormatRGB8, w, h)
			for y := 0; y < h; y++ {
				o := src.PixOffset(b.Min.X, b.Min.Y+y)
				d := y * w * 3
				for x := 0; x < w; x++ {
					m.Data[d] = src.Pix[o]
					m.Data[d+1] = src.Pix[o+1]
					m.Data[d+2] = src.Pix[o+2]
					o += 4
					d += 3
				}
			}
			return m
		}
		m := NewImage(FormatRGBA8, w, h)
		for y := 0; y < h; y++ {
			d := y * w * 4
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(src.RGBAAt(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				m.Data[d] = c.R
				m.Data[d+1] = c.G
				m.Data[d+2] = c.B
				m.Data[d+3] = c.A
				d += 4
			}
		}
		return m

	case *image.RGBA64:
		if src.Opaque() {
			m := NewImage(FormatRGB16, w, h)
			for y := 0; y < h; y++ {
				o := src.PixOffset(b.Min.X, b.Min.Y+y)
				d := y * w * 6
				for x := 0; x < w; x++ {
					copy(m.Data[d:d+6], src.Pix[o:o+6])
					o += 8
					d += 6
				}
			}
			return m
		}
		m := NewImage(FormatRGBA16, w, h)
		for y := 0; y < h; y++ {
			d := y * w * 8
			for x := 0; x < w; x++ {
				c := color.NRGBA64Model.Convert(src.RGBA64At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
				binary.BigEndian.PutUint16(m.Data[d:], c.R)
				binary.BigEndian.PutUint16(m.Data[d+2:], c.G)
				binary.BigEndian.PutUint16(m.Data[d+4:], c.B)
				binary.BigEndian.PutUint16(m.Data[d+6:], c.A)
				d += 8
			}
		}
		return m

	case *image.Paletted:
		lookup := make([]color.NRGBA, len(src.Palette))
		opaque := true
		for i, c := range src.Palette {
			lookup[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
			if lookup[i].A != 255 {
				opaque = false
			}
		}
		if opaque {
			m := NewImage(FormatRGB8, w, h)
			for y := 0; y < h; y++ {
				d := y * w * 3
				for x := 0; x < w; x++ {
					c := lookup[src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)]
					m.Data[d] = c.R
					m.Data[d+1] = c.G
					m.Data[d+2] = c.B
					d += 3
				}
			}
			return m
		}
		m := NewImage(FormatRGBA8, w, h)
		for y := 0; y < h; y++ {
			d := y * w * 4
			for x := 0; x < w; x++ {
				c := lookup[src.ColorIndexAt(b.Min.X+x, b.Min.Y+y)]
				m.Data[d] = c.R
				m.Data[d+1] = c.G
				m.Data[d+2] = c.B
				m.Data[d+3] = c.A
				d += 4
			}
		}
		return m

	case *image.YCbCr:
		m := NewImage(FormatRGB8, w, h)
		for y := 0; y < h; y++ {
			d := y * w * 3
			for x := 0; x < w; x++ {
				c := src.YCbCrAt(b.Min.X+x, b.Min.Y+y)
				m.Data[d], m.Data[d+1], m.Data[d+2] = color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				d += 3
			}
		}
		return m

	case *image.CMYK:
		m := NewImage(FormatRGB8, w, h)
		for y := 0; y < h; y++ {
			d := y * w * 3
			for x := 0; x < w; x++ {
				c := src.CMYKAt(b.Min.X+x, b.Min.Y+y)
				m.Data[d], m.Data[d+1], m.Data[d+2] = color.CMYKToRGB(c.C, c.M, c.Y, c.K)
				d += 3
			}
		}
		return m
	}

	m := NewImage(FormatRGBA8, w, h)
	d := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			m.Data[d] = c.R
			m.Data[d+1] = c.G
			m.Data[d+2] = c.B
			m.Data[d+3] = c.A
			d += 4
		}
	}
	return m
}

// ToStdImage converts m to a standard library image for encoding or
// resampling. Grayscale maps to image.Gray/Gray16, everything else to
// image.NRGBA/NRGBA64. Float formats have no standard equivalent.
func (m *Image) ToStdImage() (image.Image, error) {
	r := image.Rect(0, 0, m.Width, m.Height)
	switch m.Format {
	case FormatL8:
		dst := image.NewGray(r)
		copy(dst.Pix, m.Data)
		return dst, nil
	case FormatL16:
		dst := image.NewGray16(r)
		copy(dst.Pix, m.Data)
		return dst, nil
	case FormatRGBA8:
		dst := image.NewNRGBA(r)
		copy(dst.Pix, m.Data)
		return dst, nil
	case FormatRGBA16:
		dst := image.NewNRGBA64(r)
		copy(dst.Pix, m.Data)
		return dst, nil
	case FormatLA8:
		dst := image.NewNRGBA(r)
		o, d := 0, 0
		for i := 0; i < m.Width*m.Height; i++ {
			v := m.Data[o]
			dst.Pix[d] = v
			dst.Pix[d+1] = v
			dst.Pix[d+2] = v
			dst.Pix[d+3] = m.Data[o+1]
			o += 2
			d += 4
		}
		return dst, nil
	case FormatLA16:
		dst := image.NewNRGBA64(r)
		o, d := 0, 0
		for i := 0; i < m.Width*m.Height; i++ {
			copy(dst.Pix[d:d+2], m.Data[o:o+2])
			copy(dst.Pix[d+2:d+4], m.Data[o:o+2])
			copy(dst.Pix[d+4:d+6], m.Data[o:o+2])
			copy(dst.Pix[d+6:d+8], m.Data[o+2:o+4])
			o += 4
			d += 8
		}
		return dst, nil
	case FormatRGB8:
		dst := image.NewNRGBA(r)
		o, d := 0, 0
		for i := 0; i < m.Width*m.Height; i++ {
			dst.Pix[d] = m.Data[o]
			dst.Pix[d+1] = m.Data[o+1]
			dst.Pix[d+2] = m.Data[o+2]
			dst.Pix[d+3] = 255
			o += 3
			d += 4
		}
		return dst, nil
	case FormatRGB16:
		dst := image.NewNRGBA64(r)
		o, d := 0, 0
		for i := 0; i < m.Width*m.Height; i++ {
			copy(dst.Pix[d:d+6], m.Data[o:o+6])
			dst.Pix[d+6] = 255
			dst.Pix[d+7] = 255
			o += 6
			d += 8
		}
		return dst, nil
	}
	return nil, fmt.Errorf("no standard image equivalent for %s", m.Format)
}

// SavePNG writes m to path as a PNG file. Opaque RGB images come out as
// truecolor PNGs and L8 images as grayscale PNGs.
func SavePNG(m *Image, path string) error {
	std, err := m.ToStdImage()
	if err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	if err := png.Encode(f, std); err != nil {
		f.Close()
		return fmt.Errorf("save png: %w", err)
	}
	return f.Close()
}
