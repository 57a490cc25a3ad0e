package pixel

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		format   Format
		channels int
		bits     int
		float    bool
		alpha    bool
		bpp      int
	}{
		{FormatL8, 1, 8, false, false, 1},
		{FormatLA8, 2, 8, false, true, 2},
		{FormatL16, 1, 16, false, false, 2},
		{FormatLA16, 2, 16, false, true, 4},
		{FormatRGB8, 3, 8, false, false, 3},
		{FormatRGB16, 3, 16, false, false, 6},
		{FormatRGBA8, 4, 8, false, true, 4},
		{FormatRGBA16, 4, 16, false, true, 8},
		{FormatRGB32F, 3, 32, true, false, 12},
		{FormatRGBA32F, 4, 32, true, true, 16},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.BitsPerChannel(); got != tt.bits {
				t.Errorf("BitsPerChannel() = %d, want %d", got, tt.bits)
			}
			if got := tt.format.IsFloat(); got != tt.float {
				t.Errorf("IsFloat() = %v, want %v", got, tt.float)
			}
			if got := tt.format.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if !tt.format.IsValid() {
				t.Error("IsValid() = false")
			}
		})
	}

	if Format(200).IsValid() {
		t.Error("Format(200).IsValid() = true")
	}
}

func TestNewImageAllocation(t *testing.T) {
	m := NewImage(FormatRGBA16, 5, 3)
	if len(m.Data) != 5*3*8 {
		t.Fatalf("Data length = %d, want %d", len(m.Data), 5*3*8)
	}
	if off := m.PixOffset(2, 1); off != (1*5+2)*8 {
		t.Errorf("PixOffset(2,1) = %d, want %d", off, (1*5+2)*8)
	}
}

func TestRGBA8At_GrayReplication(t *testing.T) {
	m := NewImage(FormatL8, 2, 1)
	m.Data[0] = 40
	m.Data[1] = 200

	r, g, b, a := m.RGBA8At(1, 0)
	if r != 200 || g != 200 || b != 200 || a != 255 {
		t.Errorf("RGBA8At(1,0) = (%d,%d,%d,%d), want (200,200,200,255)", r, g, b, a)
	}
}

func TestRGBA8At_HighByteFor16Bit(t *testing.T) {
	m := NewImage(FormatRGBA16, 1, 1)
	binary.BigEndian.PutUint16(m.Data[0:], 0xAB12)
	binary.BigEndian.PutUint16(m.Data[2:], 0x0034)
	binary.BigEndian.PutUint16(m.Data[4:], 0xFFFF)
	binary.BigEndian.PutUint16(m.Data[6:], 0x8000)

	r, g, b, a := m.RGBA8At(0, 0)
	if r != 0xAB || g != 0x00 || b != 0xFF || a != 0x80 {
		t.Errorf("RGBA8At = (%#x,%#x,%#x,%#x), want (0xab,0x00,0xff,0x80)", r, g, b, a)
	}
}

func TestRGBA8At_FloatClamping(t *testing.T) {
	m := NewImage(FormatRGBA32F, 1, 1)
	put := func(off int, v float32) {
		binary.BigEndian.PutUint32(m.Data[off:], math.Float32bits(v))
	}
	put(0, -0.5) // below range
	put(4, 0.5)  // mid
	put(8, 2.0)  // above range
	put(12, 1.0)

	r, g, b, a := m.RGBA8At(0, 0)
	if r != 0 || g != 128 || b != 255 || a != 255 {
		t.Errorf("RGBA8At = (%d,%d,%d,%d), want (0,128,255,255)", r, g, b, a)
	}
}
