package texture

import (
	"testing"

	"github.com/avitk/texweld/internal/pixel"
)

func TestSplit_AlphaChannel(t *testing.T) {
	m := pixel.NewImage(pixel.FormatRGBA8, 2, 2)
	px := [][4]uint8{
		{10, 20, 30, 255},
		{40, 50, 60, 128},
		{70, 80, 90, 0},
		{100, 110, 120, 200},
	}
	for i, p := range px {
		copy(m.Data[i*4:], p[:])
	}

	rgb, alpha, err := Split(m)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if rgb.Format != pixel.FormatRGB8 || rgb.Width != 2 || rgb.Height != 2 {
		t.Fatalf("rgb is %s %dx%d, want rgb8 2x2", rgb.Format, rgb.Width, rgb.Height)
	}
	for i, p := range px {
		o := i * 3
		if rgb.Data[o] != p[0] || rgb.Data[o+1] != p[1] || rgb.Data[o+2] != p[2] {
			t.Errorf("rgb pixel %d = %v, want %v", i, rgb.Data[o:o+3], p[:3])
		}
	}
	if alpha == nil {
		t.Fatal("alpha image missing")
	}
	if alpha.Format != pixel.FormatL8 {
		t.Fatalf("alpha format = %s, want %s", alpha.Format, pixel.FormatL8)
	}
	for i, p := range px {
		if alpha.Data[i] != p[3] {
			t.Errorf("alpha pixel %d = %d, want %d", i, alpha.Data[i], p[3])
		}
	}
}

func TestSplit_OpaqueDropsAlpha(t *testing.T) {
	rgb, alpha, err := Split(solidRGBA8(3, 3, 40, 80, 120, 255))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if alpha != nil {
		t.Errorf("opaque input produced an alpha image")
	}
	if rgb.Data[0] != 40 || rgb.Data[1] != 80 || rgb.Data[2] != 120 {
		t.Errorf("rgb pixel = %v, want [40 80 120]", rgb.Data[:3])
	}
}

func TestSplit_RejectsNonRGBA8(t *testing.T) {
	if _, _, err := Split(solidL8(2, 2, 10)); err == nil {
		t.Fatal("expected error for non-rgba8 input")
	}
}

// Splitting a terrain-parallax composite recovers the packed height
// channel exactly, as long as no lossy encoding sits in between.
func TestSplit_RecoversPackedHeight(t *testing.T) {
	height := pixel.NewImage(pixel.FormatL8, 4, 4)
	for i := range height.Data {
		height.Data[i] = uint8(i * 16)
	}
	src := Sources{
		RoleDiffuse: solidRGBA8(4, 4, 100, 150, 200, 255),
		RoleHeight:  height,
	}

	out := Compose(src, Options{TerrainParallax: true})
	d := bySuffix(t, out, "")

	_, alpha, err := Split(d.Image)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if alpha == nil {
		t.Fatal("packed height lost: no alpha image")
	}
	for i, v := range height.Data {
		if alpha.Data[i] != v {
			t.Errorf("alpha[%d] = %d, want %d", i, alpha.Data[i], v)
		}
	}
}
