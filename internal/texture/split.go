package texture

import (
	"fmt"

	"github.com/avitk/texweld/internal/pixel"
)

// Split separates a decoded RGBA8 composite into its color part and, when
// the alpha channel carries information, a grayscale alpha image. For
// uniformly opaque input the alpha result is nil.
//
// The extracted alpha is a plain channel dump. Whether it started life as
// specular, height or depth data in the forward direction is not
// recoverable from the composite alone.
func Split(img *pixel.Image) (rgb, alpha *pixel.Image, err error) {
	if img.Format != pixel.FormatRGBA8 {
		return nil, nil, fmt.Errorf("split: want %s input, got %s", pixel.FormatRGBA8, img.Format)
	}
	rgb = pixel.NewImage(pixel.FormatRGB8, img.Width, img.Height)
	for o, d := 0, 0; o < len(img.Data); o, d = o+4, d+3 {
		rgb.Data[d] = img.Data[o]
		rgb.Data[d+1] = img.Data[o+1]
		rgb.Data[d+2] = img.Data[o+2]
	}
	if pixel.AlphaOpaque(img) {
		return rgb, nil, nil
	}
	alpha = pixel.NewImage(pixel.FormatL8, img.Width, img.Height)
	for i := range alpha.Data {
		alpha.Data[i] = img.Data[i*4+3]
	}
	return rgb, alpha, nil
}
