// Package dds reads and writes DirectDraw Surface (DDS) texture containers
// with block-compressed (BC1-BC5, BC7) or raw RGBA payloads.
//
// The writer emits classic FourCC headers for the DXT-era formats (BC1/BC2/
// BC3), legacy RGB mask headers for raw RGBA8, and DX10 extension headers
// for BC4, BC5, and BC7. The reader accepts either header convention for
// every supported format.
package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avitk/texweld/internal/pixel"
)

// Format identifies the pixel format of a DDS payload.
type Format uint8

const (
	// FormatBC1 is 4bpp color with optional 1-bit alpha (DXT1).
	FormatBC1 Format = iota

	// FormatBC2 is 8bpp color with explicit 4-bit alpha (DXT3).
	FormatBC2

	// FormatBC3 is 8bpp color with interpolated alpha (DXT5).
	FormatBC3

	// FormatBC4 is 4bpp single channel (ATI1).
	FormatBC4

	// FormatBC5 is 8bpp dual channel (ATI2).
	FormatBC5

	// FormatBC7 is 8bpp high-quality RGBA.
	FormatBC7

	// FormatRGBA8 is uncompressed 32-bit RGBA.
	FormatRGBA8

	formatCount
)

// FormatInfo contains metadata about a DDS payload format.
type FormatInfo struct {
	// BlockSize is the byte size of one 4x4 block, 0 for uncompressed.
	BlockSize int

	// DXGIFormat is the DXGI_FORMAT code used in DX10 extension headers.
	DXGIFormat uint32

	// FourCC is the classic header code, 0 when none is in common use.
	FourCC uint32
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatBC1:   {BlockSize: 8, DXGIFormat: dxgiBC1Unorm, FourCC: fourCCDXT1},
	FormatBC2:   {BlockSize: 16, DXGIFormat: dxgiBC2Unorm, FourCC: fourCCDXT3},
	FormatBC3:   {BlockSize: 16, DXGIFormat: dxgiBC3Unorm, FourCC: fourCCDXT5},
	FormatBC4:   {BlockSize: 8, DXGIFormat: dxgiBC4Unorm},
	FormatBC5:   {BlockSize: 16, DXGIFormat: dxgiBC5Unorm},
	FormatBC7:   {BlockSize: 16, DXGIFormat: dxgiBC7Unorm},
	FormatRGBA8: {DXGIFormat: dxgiRGBA8Unorm},
}

// Info returns the metadata for f.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// Compressed reports whether f is a block-compressed format.
func (f Format) Compressed() bool {
	return f.Info().BlockSize != 0
}

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatBC1:
		return "BC1"
	case FormatBC2:
		return "BC2"
	case FormatBC3:
		return "BC3"
	case FormatBC4:
		return "BC4"
	case FormatBC5:
		return "BC5"
	case FormatBC7:
		return "BC7"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// DXGI_FORMAT codes.
const (
	dxgiRGBA8Unorm uint32 = 28
	dxgiBC1Unorm   uint32 = 71
	dxgiBC2Unorm   uint32 = 74
	dxgiBC3Unorm   uint32 = 77
	dxgiBC4Unorm   uint32 = 80
	dxgiBC5Unorm   uint32 = 83
	dxgiBC7Unorm   uint32 = 98
)

// FourCC codes.
const (
	fourCCDXT1 uint32 = 0x31545844 // "DXT1"
	fourCCDXT2 uint32 = 0x32545844 // "DXT2"
	fourCCDXT3 uint32 = 0x33545844 // "DXT3"
	fourCCDXT4 uint32 = 0x34545844 // "DXT4"
	fourCCDXT5 uint32 = 0x35545844 // "DXT5"
	fourCCATI1 uint32 = 0x31495441 // "ATI1"
	fourCCBC4U uint32 = 0x55344342 // "BC4U"
	fourCCATI2 uint32 = 0x32495441 // "ATI2"
	fourCCBC5U uint32 = 0x55354342 // "BC5U"
	fourCCDX10 uint32 = 0x30315844 // "DX10"
)

// DDS header layout constants.
const (
	ddsMagic        uint32 = 0x20534444 // "DDS "
	headerSize             = 124
	pixelFormatSize        = 32

	flagCaps        uint32 = 0x1
	flagHeight      uint32 = 0x2
	flagWidth       uint32 = 0x4
	flagPitch       uint32 = 0x8
	flagPixelFormat uint32 = 0x1000
	flagMipMapCount uint32 = 0x20000
	flagLinearSize  uint32 = 0x80000

	pfAlphaPixels uint32 = 0x1
	pfFourCC      uint32 = 0x4
	pfRGB         uint32 = 0x40

	capsComplex uint32 = 0x8
	capsTexture uint32 = 0x1000
	capsMipMap  uint32 = 0x400000

	dx10Texture2D uint32 = 3
)

var (
	// ErrNotDDS is returned when the input is not a DDS container.
	ErrNotDDS = errors.New("not a dds file")

	// ErrUnsupportedFormat is returned for DDS payload formats outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported dds format")
)

// Quality selects the effort spent searching for block-compression
// endpoints.
type Quality uint8

const (
	QualityFast Quality = iota
	QualityNormal
	QualitySlow
)

// refinePasses is the number of least-squares endpoint refinement rounds
// applied per block at this quality.
func (q Quality) refinePasses() int {
	switch q {
	case QualityNormal:
		return 1
	case QualitySlow:
		return 3
	default:
		return 0
	}
}

// MipmapMode controls mipmap generation during encoding.
type MipmapMode uint8

const (
	// MipmapsNone stores only the base level.
	MipmapsNone MipmapMode = iota

	// MipmapsGenerated stores a full chain downscaled to 1x1.
	MipmapsGenerated
)

// EncodeOptions configure Encode.
type EncodeOptions struct {
	Quality Quality
	Mipmaps MipmapMode
}

// Encode compresses an RGBA8 image into a complete DDS file.
func Encode(img *pixel.Image, format Format, opts EncodeOptions) ([]byte, error) {
	if img.Format != pixel.FormatRGBA8 {
		return nil, fmt.Errorf("encode dds: source must be RGBA8, got %s", img.Format)
	}
	if img.Width < 1 || img.Height < 1 {
		return nil, fmt.Errorf("encode dds: empty image %dx%d", img.Width, img.Height)
	}
	if format >= formatCount {
		return nil, fmt.Errorf("encode dds: %w: %s", ErrUnsupportedFormat, format)
	}

	levels, err := mipChain(img, opts.Mipmaps)
	if err != nil {
		return nil, fmt.Errorf("encode dds: %w", err)
	}

	var payload bytes.Buffer
	for _, level := range levels {
		payload.Write(encodeLevel(level, format, opts.Quality))
	}

	header := buildHeader(img.Width, img.Height, len(levels), format)
	return append(header, payload.Bytes()...), nil
}

// levelSize returns the byte size of one mip level.
func levelSize(width, height int, format Format) int {
	info := format.Info()
	if info.BlockSize == 0 {
		return width * height * 4
	}
	return ((width + 3) / 4) * ((height + 3) / 4) * info.BlockSize
}

// buildHeader serializes the magic, the 124-byte header, and, for formats
// without a classic representation, the DX10 extension header.
func buildHeader(width, height, mips int, format Format) []byte {
	info := format.Info()
	useDX10 := info.FourCC == 0 && format != FormatRGBA8

	size := 4 + headerSize
	if useDX10 {
		size += 20
	}
	h := make([]byte, size)
	le := binary.LittleEndian

	le.PutUint32(h[0:], ddsMagic)
	le.PutUint32(h[4:], headerSize)

	flags := flagCaps | flagHeight | flagWidth | flagPixelFormat
	if format.Compressed() {
		flags |= flagLinearSize
	} else {
		flags |= flagPitch
	}
	if mips > 1 {
		flags |= flagMipMapCount
	}
	le.PutUint32(h[8:], flags)
	le.PutUint32(h[12:], uint32(height))
	le.PutUint32(h[16:], uint32(width))
	if format.Compressed() {
		le.PutUint32(h[20:], uint32(levelSize(width, height, format)))
	} else {
		le.PutUint32(h[20:], uint32(width*4))
	}
	le.PutUint32(h[28:], uint32(mips))

	// DDS_PIXELFORMAT at offset 76.
	le.PutUint32(h[76:], pixelFormatSize)
	switch {
	case useDX10:
		le.PutUint32(h[80:], pfFourCC)
		le.PutUint32(h[84:], fourCCDX10)
	case format == FormatRGBA8:
		le.PutUint32(h[80:], pfRGB|pfAlphaPixels)
		le.PutUint32(h[88:], 32)
		le.PutUint32(h[92:], 0x000000FF)
		le.PutUint32(h[96:], 0x0000FF00)
		le.PutUint32(h[100:], 0x00FF0000)
		le.PutUint32(h[104:], 0xFF000000)
	default:
		le.PutUint32(h[80:], pfFourCC)
		le.PutUint32(h[84:], info.FourCC)
	}

	caps := capsTexture
	if mips > 1 {
		caps |= capsComplex | capsMipMap
	}
	le.PutUint32(h[108:], caps)

	if useDX10 {
		le.PutUint32(h[128:], info.DXGIFormat)
		le.PutUint32(h[132:], dx10Texture2D)
		le.PutUint32(h[140:], 1) // arraySize
	}
	return h
}

// header holds the fields of a parsed DDS header needed for decoding.
type header struct {
	width      int
	height     int
	mips       int
	format     Format
	bgra       bool // uncompressed payload stores B first
	dataOffset int
}

// maxDimension is the largest width or height accepted from a header.
// Direct3D tops out at 16384 texels per side; larger claims are corrupt
// and their byte sizes overflow integer arithmetic.
const maxDimension = 16384

// parseHeader validates the magic and resolves the payload format from
// either the classic pixel format block or the DX10 extension header.
func parseHeader(data []byte) (*header, error) {
	if len(data) < 4+headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrNotDDS)
	}
	le := binary.LittleEndian
	if le.Uint32(data[0:]) != ddsMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrNotDDS)
	}
	if le.Uint32(data[4:]) != headerSize {
		return nil, fmt.Errorf("%w: bad header size", ErrNotDDS)
	}

	h := &header{
		height:     int(le.Uint32(data[12:])),
		width:      int(le.Uint32(data[16:])),
		mips:       int(le.Uint32(data[28:])),
		dataOffset: 4 + headerSize,
	}
	if h.mips < 1 {
		h.mips = 1
	}
	if h.width < 1 || h.height < 1 || h.width > maxDimension || h.height > maxDimension {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrNotDDS, h.width, h.height)
	}

	pfFlags := le.Uint32(data[80:])
	fourCC := le.Uint32(data[84:])

	switch {
	case pfFlags&pfFourCC != 0 && fourCC == fourCCDX10:
		if len(data) < 4+headerSize+20 {
			return nil, fmt.Errorf("%w: truncated dx10 header", ErrNotDDS)
		}
		h.dataOffset += 20
		dxgi := le.Uint32(data[128:])
		format, ok := formatFromDXGI(dxgi)
		if !ok {
			return nil, fmt.Errorf("%w: dxgi format %d", ErrUnsupportedFormat, dxgi)
		}
		h.format = format

	case pfFlags&pfFourCC != 0:
		format, ok := formatFromFourCC(fourCC)
		if !ok {
			return nil, fmt.Errorf("%w: fourcc %08x", ErrUnsupportedFormat, fourCC)
		}
		h.format = format

	case pfFlags&pfRGB != 0:
		bitCount := le.Uint32(data[88:])
		rMask := le.Uint32(data[92:])
		bMask := le.Uint32(data[100:])
		if bitCount != 32 {
			return nil, fmt.Errorf("%w: %d-bit uncompressed payload", ErrUnsupportedFormat, bitCount)
		}
		switch {
		case rMask == 0x000000FF && bMask == 0x00FF0000:
			h.format = FormatRGBA8
		case rMask == 0x00FF0000 && bMask == 0x000000FF:
			h.format = FormatRGBA8
			h.bgra = true
		default:
			return nil, fmt.Errorf("%w: channel masks %08x/%08x", ErrUnsupportedFormat, rMask, bMask)
		}

	default:
		return nil, fmt.Errorf("%w: pixel format flags %08x", ErrUnsupportedFormat, pfFlags)
	}
	return h, nil
}

func formatFromFourCC(fourCC uint32) (Format, bool) {
	switch fourCC {
	case fourCCDXT1:
		return FormatBC1, true
	case fourCCDXT2, fourCCDXT3:
		return FormatBC2, true
	case fourCCDXT4, fourCCDXT5:
		return FormatBC3, true
	case fourCCATI1, fourCCBC4U:
		return FormatBC4, true
	case fourCCATI2, fourCCBC5U:
		return FormatBC5, true
	}
	return 0, false
}

func formatFromDXGI(dxgi uint32) (Format, bool) {
	switch dxgi {
	case dxgiBC1Unorm:
		return FormatBC1, true
	case dxgiBC2Unorm:
		return FormatBC2, true
	case dxgiBC3Unorm:
		return FormatBC3, true
	case dxgiBC4Unorm:
		return FormatBC4, true
	case dxgiBC5Unorm:
		return FormatBC5, true
	case dxgiBC7Unorm:
		return FormatBC7, true
	case dxgiRGBA8Unorm:
		return FormatRGBA8, true
	}
	return 0, false
}

// Decode parses a DDS file and returns its base mip level as an RGBA8
// image.
func Decode(data []byte) (*pixel.Image, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	need := h.dataOffset + levelSize(h.width, h.height, h.format)
	if len(data) < need {
		return nil, fmt.Errorf("%w: payload is %d bytes, need %d", ErrNotDDS, len(data)-h.dataOffset, need-h.dataOffset)
	}
	return decodeLevel(data[h.dataOffset:need], h)
}

// DecodeFile reads and decodes the DDS container at path.
func DecodeFile(path string) (*pixel.Image, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read dds: %w", err)
	}
	return Decode(data)
}
