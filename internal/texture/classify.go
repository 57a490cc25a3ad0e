package texture

import (
	"errors"
	"fmt"

	"github.com/avitk/texweld/internal/pixel"
)

// ErrUnsupportedFormat reports a pixel format outside the classifiable set.
var ErrUnsupportedFormat = errors.New("unsupported pixel format")

// Classify assigns a semantic category from an image's own pixel format
// and, for integer formats carrying alpha, a scan of the alpha channel:
// strictly on/off coverage classifies as cutout, anything else as full
// alpha. Float alpha is always treated as full, since a sampled binary
// check on float data would be meaningless. The result depends only on
// the image itself, never on the rest of the input set.
func Classify(img *pixel.Image) (Category, error) {
	info := img.Format.Info()
	switch {
	case !info.Float && (info.Channels == 1 || info.Channels == 2):
		return CategoryGrayscale, nil
	case info.Channels == 3:
		return CategoryRGB, nil
	case info.Channels == 4 && info.Float:
		return CategoryRGBFullAlpha, nil
	case info.Channels == 4:
		if pixel.AlphaBinary(img) {
			return CategoryRGBCutoutAlpha, nil
		}
		return CategoryRGBFullAlpha, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, img.Format)
}
