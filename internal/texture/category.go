// Package texture implements the composition engine: classification of
// decoded images into semantic categories, the category-to-format policy,
// the output slot catalog with its channel-packing rules, and the backward
// alpha split.
package texture

// Category is the semantic pixel class assigned by Classify and consumed
// by PickFormat.
type Category uint8

const (
	// CategoryGrayscale is single-channel content.
	CategoryGrayscale Category = iota

	// CategoryRGB is color content without meaningful alpha.
	CategoryRGB

	// CategoryRGBFullAlpha is color content with smooth alpha coverage.
	CategoryRGBFullAlpha

	// CategoryRGBCutoutAlpha is color content whose alpha is strictly
	// on/off at every pixel.
	CategoryRGBCutoutAlpha

	// CategoryUncompressed requests a raw payload regardless of content.
	CategoryUncompressed
)

// String returns a short name for the category.
func (c Category) String() string {
	switch c {
	case CategoryGrayscale:
		return "grayscale"
	case CategoryRGB:
		return "rgb"
	case CategoryRGBFullAlpha:
		return "rgb+alpha"
	case CategoryRGBCutoutAlpha:
		return "rgb+cutout"
	case CategoryUncompressed:
		return "uncompressed"
	default:
		return "unknown"
	}
}
