package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/avitk/texweld/internal/pixel"
)

// solidRGBA builds a uniformly colored RGBA8 image.
func solidRGBA(w, h int, r, g, b, a uint8) *pixel.Image {
	m := pixel.NewImage(pixel.FormatRGBA8, w, h)
	for o := 0; o < len(m.Data); o += 4 {
		m.Data[o] = r
		m.Data[o+1] = g
		m.Data[o+2] = b
		m.Data[o+3] = a
	}
	return m
}

func TestEncodeDecode_UncompressedRoundtrip(t *testing.T) {
	img := pixel.NewImage(pixel.FormatRGBA8, 3, 2)
	for i := range img.Data {
		img.Data[i] = uint8(i * 7)
	}

	data, err := Encode(img, FormatRGBA8, EncodeOptions{Mipmaps: MipmapsNone})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != 128+3*2*4 {
		t.Fatalf("encoded size = %d, want %d", len(data), 128+3*2*4)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.Width != 3 || back.Height != 2 {
		t.Fatalf("decoded size %dx%d, want 3x2", back.Width, back.Height)
	}
	if !bytes.Equal(back.Data, img.Data) {
		t.Errorf("decoded data differs from source")
	}
}

func TestEncode_HeaderLayout(t *testing.T) {
	le := binary.LittleEndian
	img := solidRGBA(8, 4, 255, 255, 255, 255)

	tests := []struct {
		format    Format
		fourCC    uint32
		dxgi      uint32 // 0 when no DX10 header is expected
		headerLen int
	}{
		{FormatBC1, fourCCDXT1, 0, 128},
		{FormatBC2, fourCCDXT3, 0, 128},
		{FormatBC3, fourCCDXT5, 0, 128},
		{FormatBC4, fourCCDX10, dxgiBC4Unorm, 148},
		{FormatBC5, fourCCDX10, dxgiBC5Unorm, 148},
		{FormatBC7, fourCCDX10, dxgiBC7Unorm, 148},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			data, err := Encode(img, tt.format, EncodeOptions{Mipmaps: MipmapsNone})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if le.Uint32(data[0:]) != ddsMagic {
				t.Error("missing DDS magic")
			}
			if h := le.Uint32(data[12:]); h != 4 {
				t.Errorf("height field = %d, want 4", h)
			}
			if w := le.Uint32(data[16:]); w != 8 {
				t.Errorf("width field = %d, want 8", w)
			}
			if cc := le.Uint32(data[84:]); cc != tt.fourCC {
				t.Errorf("fourCC = %08x, want %08x", cc, tt.fourCC)
			}
			if tt.dxgi != 0 {
				if got := le.Uint32(data[128:]); got != tt.dxgi {
					t.Errorf("dxgi format = %d, want %d", got, tt.dxgi)
				}
			}
			wantLen := tt.headerLen + levelSize(8, 4, tt.format)
			if len(data) != wantLen {
				t.Errorf("total size = %d, want %d", len(data), wantLen)
			}
		})
	}
}

func TestEncode_MipmapChain(t *testing.T) {
	img := solidRGBA(8, 4, 100, 150, 200, 255)
	data, err := Encode(img, FormatBC1, EncodeOptions{Mipmaps: MipmapsGenerated})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	le := binary.LittleEndian
	wantMips := MipCount(8, 4)
	if got := int(le.Uint32(data[28:])); got != wantMips {
		t.Errorf("mip count field = %d, want %d", got, wantMips)
	}
	if flags := le.Uint32(data[8:]); flags&flagMipMapCount == 0 {
		t.Error("mipmap count flag not set")
	}
	if caps := le.Uint32(data[108:]); caps&capsMipMap == 0 {
		t.Error("mipmap caps bit not set")
	}

	// 8x4, 4x2, 2x1, 1x1 all at one block each except the base level.
	want := 128 + levelSize(8, 4, FormatBC1) + levelSize(4, 2, FormatBC1) +
		levelSize(2, 1, FormatBC1) + levelSize(1, 1, FormatBC1)
	if len(data) != want {
		t.Errorf("total size = %d, want %d", len(data), want)
	}
}

func TestMipCount(t *testing.T) {
	tests := []struct {
		w, h, want int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{4, 4, 3},
		{8, 4, 4},
		{5, 3, 3},
		{256, 256, 9},
		{1024, 512, 11},
	}
	for _, tt := range tests {
		if got := MipCount(tt.w, tt.h); got != tt.want {
			t.Errorf("MipCount(%d,%d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestDecode_DX10Uncompressed(t *testing.T) {
	// Hand-built 1x1 DX10 RGBA8 file.
	le := binary.LittleEndian
	data := make([]byte, 148+4)
	le.PutUint32(data[0:], ddsMagic)
	le.PutUint32(data[4:], headerSize)
	le.PutUint32(data[8:], flagCaps|flagHeight|flagWidth|flagPixelFormat)
	le.PutUint32(data[12:], 1)
	le.PutUint32(data[16:], 1)
	le.PutUint32(data[76:], pixelFormatSize)
	le.PutUint32(data[80:], pfFourCC)
	le.PutUint32(data[84:], fourCCDX10)
	le.PutUint32(data[108:], capsTexture)
	le.PutUint32(data[128:], dxgiRGBA8Unorm)
	le.PutUint32(data[132:], dx10Texture2D)
	le.PutUint32(data[140:], 1)
	copy(data[148:], []byte{10, 20, 30, 40})

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(img.Data, []byte{10, 20, 30, 40}) {
		t.Errorf("decoded pixel = %v, want [10 20 30 40]", img.Data)
	}
}

func TestDecode_BGRAMasks(t *testing.T) {
	img := pixel.NewImage(pixel.FormatRGBA8, 2, 1)
	copy(img.Data, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	data, err := Encode(img, FormatRGBA8, EncodeOptions{Mipmaps: MipmapsNone})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Rewrite the header masks as BGRA and swap the payload to match; the
	// decoder must swizzle back to RGBA.
	le := binary.LittleEndian
	le.PutUint32(data[92:], 0x00FF0000)
	le.PutUint32(data[100:], 0x000000FF)
	for o := 128; o < len(data); o += 4 {
		data[o], data[o+2] = data[o+2], data[o]
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(back.Data, img.Data) {
		t.Errorf("decoded data = %v, want %v", back.Data, img.Data)
	}
}

func TestDecode_ClassicFourCCAlias(t *testing.T) {
	img := solidRGBA(4, 4, 180, 180, 180, 255)
	dx10, err := Encode(img, FormatBC4, EncodeOptions{Mipmaps: MipmapsNone})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Same payload behind a classic ATI1 header.
	le := binary.LittleEndian
	classic := make([]byte, 128+len(dx10)-148)
	le.PutUint32(classic[0:], ddsMagic)
	le.PutUint32(classic[4:], headerSize)
	le.PutUint32(classic[8:], flagCaps|flagHeight|flagWidth|flagPixelFormat)
	le.PutUint32(classic[12:], 4)
	le.PutUint32(classic[16:], 4)
	le.PutUint32(classic[76:], pixelFormatSize)
	le.PutUint32(classic[80:], pfFourCC)
	le.PutUint32(classic[84:], fourCCATI1)
	le.PutUint32(classic[108:], capsTexture)
	copy(classic[128:], dx10[148:])

	a, err := Decode(dx10)
	if err != nil {
		t.Fatalf("Decode dx10: %v", err)
	}
	b, err := Decode(classic)
	if err != nil {
		t.Fatalf("Decode classic: %v", err)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Error("ATI1 header decodes differently from DX10 header")
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode([]byte("PNG rather than DDS")); !errors.Is(err, ErrNotDDS) {
		t.Errorf("bad magic: got %v, want ErrNotDDS", err)
	}

	img := solidRGBA(4, 4, 9, 9, 9, 255)
	data, err := Encode(img, FormatBC1, EncodeOptions{Mipmaps: MipmapsNone})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := Decode(data[:130]); err == nil {
		t.Error("truncated payload should fail to decode")
	}

	binary.LittleEndian.PutUint32(data[84:], 0x32435445) // "ETC2"
	if _, err := Decode(data); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown fourCC: got %v, want ErrUnsupportedFormat", err)
	}
}

// classicRGBAFile hand-builds a legacy masked RGBA8 file claiming w x h,
// followed by payload zero bytes.
func classicRGBAFile(w, h uint32, payload int) []byte {
	le := binary.LittleEndian
	data := make([]byte, 128+payload)
	le.PutUint32(data[0:], ddsMagic)
	le.PutUint32(data[4:], headerSize)
	le.PutUint32(data[8:], flagCaps|flagHeight|flagWidth|flagPixelFormat)
	le.PutUint32(data[12:], h)
	le.PutUint32(data[16:], w)
	le.PutUint32(data[76:], pixelFormatSize)
	le.PutUint32(data[80:], pfRGB|pfAlphaPixels)
	le.PutUint32(data[88:], 32)
	le.PutUint32(data[92:], 0x000000FF)
	le.PutUint32(data[96:], 0x0000FF00)
	le.PutUint32(data[100:], 0x00FF0000)
	le.PutUint32(data[104:], 0xFF000000)
	le.PutUint32(data[108:], capsTexture)
	return data
}

func TestDecode_RejectsOversizedDimensions(t *testing.T) {
	// 4294967295x4294967295 passes a plain lower bound, and every byte
	// size computed from it overflows; the header itself must be refused.
	data := classicRGBAFile(0xFFFFFFFF, 0xFFFFFFFF, 16)
	if _, err := Decode(data); !errors.Is(err, ErrNotDDS) {
		t.Fatalf("4294967295x4294967295: got %v, want ErrNotDDS", err)
	}

	// Dimensions that fit integer arithmetic but exceed any real texture
	// are refused the same way.
	data = classicRGBAFile(1, 1<<30, 16)
	if _, err := Decode(data); !errors.Is(err, ErrNotDDS) {
		t.Fatalf("1x%d: got %v, want ErrNotDDS", 1<<30, err)
	}
}

func TestDecode_MaxDimensionAccepted(t *testing.T) {
	data := classicRGBAFile(maxDimension, 1, maxDimension*4)
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != maxDimension || img.Height != 1 {
		t.Errorf("decoded %dx%d, want %dx1", img.Width, img.Height, maxDimension)
	}
}

func TestEncode_RejectsNonRGBA8(t *testing.T) {
	img := pixel.NewImage(pixel.FormatRGB8, 4, 4)
	if _, err := Encode(img, FormatBC1, EncodeOptions{}); err == nil {
		t.Fatal("Encode should reject non-RGBA8 input")
	}
}
