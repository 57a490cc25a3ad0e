package texture

import (
	"testing"

	"github.com/avitk/texweld/internal/dds"
)

func TestPickFormat(t *testing.T) {
	tests := []struct {
		cat    Category
		legacy bool
		hq     bool
		want   dds.Format
	}{
		{CategoryGrayscale, false, false, dds.FormatBC4},
		{CategoryGrayscale, false, true, dds.FormatBC4},
		{CategoryRGB, false, false, dds.FormatBC1},
		{CategoryRGB, false, true, dds.FormatBC7},
		{CategoryRGBCutoutAlpha, false, false, dds.FormatBC1},
		{CategoryRGBCutoutAlpha, false, true, dds.FormatBC7},
		{CategoryRGBFullAlpha, false, false, dds.FormatBC7},
		{CategoryRGBFullAlpha, false, true, dds.FormatBC7},
		{CategoryUncompressed, false, false, dds.FormatRGBA8},
		{CategoryUncompressed, false, true, dds.FormatRGBA8},

		{CategoryGrayscale, true, false, dds.FormatBC1},
		{CategoryGrayscale, true, true, dds.FormatBC1},
		{CategoryRGB, true, false, dds.FormatBC1},
		{CategoryRGB, true, true, dds.FormatBC1},
		{CategoryRGBCutoutAlpha, true, false, dds.FormatBC1},
		{CategoryRGBCutoutAlpha, true, true, dds.FormatBC1},
		{CategoryRGBFullAlpha, true, false, dds.FormatBC3},
		{CategoryRGBFullAlpha, true, true, dds.FormatBC3},
		{CategoryUncompressed, true, false, dds.FormatRGBA8},
		{CategoryUncompressed, true, true, dds.FormatRGBA8},
	}
	for _, tt := range tests {
		got := PickFormat(tt.cat, tt.legacy, tt.hq)
		if got != tt.want {
			t.Errorf("PickFormat(%s, legacy=%v, hq=%v) = %s, want %s",
				tt.cat, tt.legacy, tt.hq, got, tt.want)
		}
	}
}

func TestPickFormat_LegacyIgnoresHighQuality(t *testing.T) {
	for _, cat := range []Category{
		CategoryGrayscale, CategoryRGB, CategoryRGBFullAlpha,
		CategoryRGBCutoutAlpha, CategoryUncompressed,
	} {
		lo := PickFormat(cat, true, false)
		hi := PickFormat(cat, true, true)
		if lo != hi {
			t.Errorf("%s: legacy format changed with high quality: %s vs %s", cat, lo, hi)
		}
	}
}
