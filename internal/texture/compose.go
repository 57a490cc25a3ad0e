package texture

import (
	"errors"
	"fmt"

	"github.com/avitk/texweld/internal/dds"
	"github.com/avitk/texweld/internal/pixel"
)

// Sources maps each role present in an input set to its decoded image.
// Composition treats the images as read-only and packs into fresh buffers.
type Sources map[Role]*pixel.Image

// Composite is one composed output texture, ready for encoding.
type Composite struct {
	Name     string
	Suffix   string
	Image    *pixel.Image // always RGBA8
	Category Category
	Format   dds.Format
}

var (
	// ErrNoSource reports a required slot whose roles are all absent.
	ErrNoSource = errors.New("no source image for slot")

	// ErrDimensionMismatch reports contributing images of unequal size.
	ErrDimensionMismatch = errors.New("source dimensions differ")

	// ErrDepthMismatch reports contributing images of unequal bit depth.
	// Mixing depths within a slot has no defined promotion rule, so the
	// slot is refused rather than silently truncated.
	ErrDepthMismatch = errors.New("source bit depths differ")
)

// Compose builds every output slot whose sources are available. A slot
// that fails is reported through the package logger and skipped; one bad
// slot never aborts the rest of the set.
func Compose(src Sources, opts Options) []Composite {
	var out []Composite
	for _, spec := range slotTable(opts) {
		comp, err := composeSlot(spec, src, opts)
		if err != nil {
			Logger().Warn("skipping slot", "slot", spec.name, "err", err)
			continue
		}
		if comp != nil {
			out = append(out, *comp)
		}
	}
	return out
}

// composeSlot runs one slot descriptor. A nil, nil return means the
// slot's sources are absent and nothing is emitted for it.
func composeSlot(spec slotSpec, src Sources, opts Options) (*Composite, error) {
	var primary *pixel.Image
	for _, role := range spec.primary {
		if img, ok := src[role]; ok {
			primary = img
			break
		}
	}
	if primary == nil {
		if spec.required {
			return nil, fmt.Errorf("%w: need one of %v", ErrNoSource, spec.primary)
		}
		return nil, nil
	}

	if err := checkContributors(spec, src, primary); err != nil {
		return nil, err
	}

	out := pixel.NewImage(pixel.FormatRGBA8, primary.Width, primary.Height)
	if spec.seed {
		copyRGBA8(out, primary)
	} else {
		fillRGBA8(out, spec.fill)
	}
	for _, as := range spec.assigns {
		img, ok := src[as.src]
		if !ok {
			continue
		}
		assignChannel(out, img, as.dst)
	}

	cat, err := spec.category(src, primary)
	if err != nil {
		return nil, err
	}
	return &Composite{
		Name:     spec.name,
		Suffix:   spec.suffix,
		Image:    out,
		Category: cat,
		Format:   PickFormat(cat, opts.Legacy, opts.HighQuality || spec.forceHQ),
	}, nil
}

// checkContributors verifies that every image feeding the slot matches the
// primary's resolution and bit depth. The primary itself sets both.
func checkContributors(spec slotSpec, src Sources, primary *pixel.Image) error {
	for _, as := range spec.assigns {
		img, ok := src[as.src]
		if !ok || img == primary {
			continue
		}
		if img.Width != primary.Width || img.Height != primary.Height {
			return fmt.Errorf("%w: %s is %dx%d, slot is %dx%d",
				ErrDimensionMismatch, as.src, img.Width, img.Height, primary.Width, primary.Height)
		}
		pi, si := primary.Format.Info(), img.Format.Info()
		if si.BitsPerChannel != pi.BitsPerChannel || si.Float != pi.Float {
			return fmt.Errorf("%w: %s is %s, slot is %s",
				ErrDepthMismatch, as.src, img.Format, primary.Format)
		}
	}
	return nil
}

// copyRGBA8 expands src into the RGBA8 composite, replicating grayscale
// into the color channels and filling absent alpha with full opacity.
func copyRGBA8(dst, src *pixel.Image) {
	d := 0
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b, a := src.RGBA8At(x, y)
			dst.Data[d] = r
			dst.Data[d+1] = g
			dst.Data[d+2] = b
			dst.Data[d+3] = a
			d += 4
		}
	}
}

func fillRGBA8(dst *pixel.Image, p [4]uint8) {
	for o := 0; o < len(dst.Data); o += 4 {
		dst.Data[o] = p[0]
		dst.Data[o+1] = p[1]
		dst.Data[o+2] = p[2]
		dst.Data[o+3] = p[3]
	}
}

// assignChannel copies the first channel of src into one channel of dst
// at identical pixel coordinates.
func assignChannel(dst, src *pixel.Image, ch channel) {
	o := int(ch)
	d := 0
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v, _, _, _ := src.RGBA8At(x, y)
			dst.Data[d+o] = v
			d += 4
		}
	}
}
