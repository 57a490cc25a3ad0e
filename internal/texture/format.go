package texture

import "github.com/avitk/texweld/internal/dds"

// PickFormat selects the output pixel format for a composite. It is a pure
// lookup over the category and the two policy flags: legacy restricts the
// choice to formats older renderers decode (BC1, BC3, raw RGBA), high
// quality upgrades color content to BC7. Every category maps to a format
// under every flag combination.
func PickFormat(cat Category, legacy, highQuality bool) dds.Format {
	if legacy {
		switch cat {
		case CategoryRGBFullAlpha:
			return dds.FormatBC3
		case CategoryUncompressed:
			return dds.FormatRGBA8
		default:
			return dds.FormatBC1
		}
	}
	switch cat {
	case CategoryGrayscale:
		return dds.FormatBC4
	case CategoryRGB, CategoryRGBCutoutAlpha:
		if highQuality {
			return dds.FormatBC7
		}
		return dds.FormatBC1
	case CategoryRGBFullAlpha:
		return dds.FormatBC7
	default:
		return dds.FormatRGBA8
	}
}
