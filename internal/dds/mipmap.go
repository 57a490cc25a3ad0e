package dds

import (
	"github.com/disintegration/imaging"

	"github.com/avitk/texweld/internal/pixel"
)

// mipChain returns img followed by successively halved levels down to 1x1,
// each resampled from the base level. With MipmapsNone only the base level
// is returned.
func mipChain(img *pixel.Image, mode MipmapMode) ([]*pixel.Image, error) {
	levels := []*pixel.Image{img}
	if mode != MipmapsGenerated {
		return levels, nil
	}
	base, err := img.ToStdImage()
	if err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		level := imaging.Resize(base, w, h, imaging.Lanczos)
		levels = append(levels, pixel.FromStdImage(level))
	}
	return levels, nil
}

// MipCount returns the number of levels in a full chain for the given
// dimensions.
func MipCount(width, height int) int {
	n := 1
	for width > 1 || height > 1 {
		width = max(1, width/2)
		height = max(1, height/2)
		n++
	}
	return n
}
