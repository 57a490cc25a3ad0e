package pixel

import "fmt"

// Format identifies the channel layout and sample type of a decoded image.
type Format uint8

const (
	// FormatL8 is 8-bit grayscale.
	FormatL8 Format = iota

	// FormatLA8 is 8-bit grayscale with alpha.
	FormatLA8

	// FormatL16 is 16-bit grayscale.
	FormatL16

	// FormatLA16 is 16-bit grayscale with alpha.
	FormatLA16

	// FormatRGB8 is 8-bit RGB without alpha.
	FormatRGB8

	// FormatRGB16 is 16-bit RGB without alpha.
	FormatRGB16

	// FormatRGBA8 is 8-bit RGBA.
	FormatRGBA8

	// FormatRGBA16 is 16-bit RGBA.
	FormatRGBA16

	// FormatRGB32F is RGB with 32-bit float samples.
	FormatRGB32F

	// FormatRGBA32F is RGBA with 32-bit float samples.
	FormatRGBA32F

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Channels is the number of samples per pixel, 1 through 4.
	Channels int

	// BitsPerChannel is the width of one sample: 8, 16, or 32.
	BitsPerChannel int

	// Float indicates IEEE 754 samples instead of unsigned integers.
	Float bool

	// HasAlpha indicates that the last channel is alpha.
	HasAlpha bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatL8:      {Channels: 1, BitsPerChannel: 8},
	FormatLA8:     {Channels: 2, BitsPerChannel: 8, HasAlpha: true},
	FormatL16:     {Channels: 1, BitsPerChannel: 16},
	FormatLA16:    {Channels: 2, BitsPerChannel: 16, HasAlpha: true},
	FormatRGB8:    {Channels: 3, BitsPerChannel: 8},
	FormatRGB16:   {Channels: 3, BitsPerChannel: 16},
	FormatRGBA8:   {Channels: 4, BitsPerChannel: 8, HasAlpha: true},
	FormatRGBA16:  {Channels: 4, BitsPerChannel: 16, HasAlpha: true},
	FormatRGB32F:  {Channels: 3, BitsPerChannel: 32, Float: true},
	FormatRGBA32F: {Channels: 4, BitsPerChannel: 32, Float: true, HasAlpha: true},
}

// Info returns the FormatInfo for this format. Unknown formats return the
// zero FormatInfo, whose Channels field is 0.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// Channels returns the number of samples per pixel.
func (f Format) Channels() int {
	return f.Info().Channels
}

// BitsPerChannel returns the width of one sample in bits.
func (f Format) BitsPerChannel() int {
	return f.Info().BitsPerChannel
}

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsFloat reports whether samples are floating point.
func (f Format) IsFloat() bool {
	return f.Info().Float
}

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int {
	info := f.Info()
	return info.Channels * info.BitsPerChannel / 8
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a short name for the format.
func (f Format) String() string {
	switch f {
	case FormatL8:
		return "L8"
	case FormatLA8:
		return "LA8"
	case FormatL16:
		return "L16"
	case FormatLA16:
		return "LA16"
	case FormatRGB8:
		return "RGB8"
	case FormatRGB16:
		return "RGB16"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA16:
		return "RGBA16"
	case FormatRGB32F:
		return "RGB32F"
	case FormatRGBA32F:
		return "RGBA32F"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}
