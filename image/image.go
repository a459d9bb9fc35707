package image

import (
	"errors"
	"fmt"
	"math/bits"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrDataSize is returned when provided data does not match the layout.
	ErrDataSize = errors.New("image: data size does not match layout")

	// ErrCompressed is returned by pixel operations on block-compressed data.
	ErrCompressed = errors.New("image: operation requires uncompressed data")

	// ErrNoDecoder is returned when a compressed format cannot be decoded on the CPU.
	ErrNoDecoder = errors.New("image: no decoder for compressed format")
)

// Color is a linear RGBA color with float channels.
type Color struct {
	R, G, B, A float32
}

// Image is a pixel buffer with an optional mipmap chain.
//
// Level n has size max(1, w>>n) x max(1, h>>n). The chain ends at 1x1.
type Image struct {
	width   int
	height  int
	format  Format
	mipmaps bool
	data    []byte
}

// New creates a zero-filled image.
func New(width, height int, mipmaps bool, format Format) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	return &Image{
		width:   width,
		height:  height,
		format:  format,
		mipmaps: mipmaps,
		data:    make([]byte, DataSize(width, height, format, mipmaps)),
	}, nil
}

// NewFromData creates an image that takes ownership of data.
// The data length must match the layout exactly.
func NewFromData(width, height int, mipmaps bool, format Format, data []byte) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if want := DataSize(width, height, format, mipmaps); len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), want)
	}
	return &Image{
		width:   width,
		height:  height,
		format:  format,
		mipmaps: mipmaps,
		data:    data,
	}, nil
}

// RequiredMipmaps returns the number of levels below the base level of a
// full chain for the given size.
func RequiredMipmaps(width, height int) int {
	m := max(width, height)
	if m <= 1 {
		return 0
	}
	return bits.Len(uint(m)) - 1
}

// DataSize returns the byte size of an image layout.
func DataSize(width, height int, format Format, mipmaps bool) int {
	levels := 1
	if mipmaps {
		levels += RequiredMipmaps(width, height)
	}
	size := 0
	w, h := width, height
	for range levels {
		size += format.LevelBytes(w, h)
		w = max(1, w>>1)
		h = max(1, h>>1)
	}
	return size
}

// Width returns the base level width.
func (img *Image) Width() int { return img.width }

// Height returns the base level height.
func (img *Image) Height() int { return img.height }

// Format returns the pixel format.
func (img *Image) Format() Format { return img.format }

// HasMipmaps reports whether the image carries a mipmap chain.
func (img *Image) HasMipmaps() bool { return img.mipmaps }

// IsCompressed reports whether the data is block-compressed.
func (img *Image) IsCompressed() bool { return img.format.IsCompressed() }

// Data returns the underlying bytes. The slice aliases the image.
func (img *Image) Data() []byte { return img.data }

// MipmapCount returns the number of levels below the base level.
func (img *Image) MipmapCount() int {
	if !img.mipmaps {
		return 0
	}
	return RequiredMipmaps(img.width, img.height)
}

// MipmapSize returns the size of a level.
func (img *Image) MipmapSize(level int) (width, height int) {
	w, h := img.width, img.height
	for range level {
		w = max(1, w>>1)
		h = max(1, h>>1)
	}
	return w, h
}

// MipmapOffsetAndSize returns the byte range of a level inside Data.
func (img *Image) MipmapOffsetAndSize(level int) (offset, size int) {
	w, h := img.width, img.height
	for range level {
		offset += img.format.LevelBytes(w, h)
		w = max(1, w>>1)
		h = max(1, h>>1)
	}
	return offset, img.format.LevelBytes(w, h)
}

// Level returns the bytes of one level. The slice aliases the image.
func (img *Image) Level(level int) []byte {
	ofs, size := img.MipmapOffsetAndSize(level)
	return img.data[ofs : ofs+size]
}

// Duplicate returns a deep copy.
func (img *Image) Duplicate() *Image {
	dup := *img
	dup.data = append([]byte(nil), img.data...)
	return &dup
}

// ClearMipmaps drops the mipmap chain, keeping the base level.
func (img *Image) ClearMipmaps() {
	if !img.mipmaps {
		return
	}
	n := img.format.LevelBytes(img.width, img.height)
	img.data = img.data[:n:n]
	img.mipmaps = false
}

// Pixel returns the color of a base level pixel.
func (img *Image) Pixel(x, y int) Color {
	if img.IsCompressed() || x < 0 || y < 0 || x >= img.width || y >= img.height {
		return Color{}
	}
	ps := img.format.PixelSize()
	return readPixel(img.format, img.data[(y*img.width+x)*ps:])
}

// SetPixel sets the color of a base level pixel.
func (img *Image) SetPixel(x, y int, c Color) {
	if img.IsCompressed() || x < 0 || y < 0 || x >= img.width || y >= img.height {
		return
	}
	ps := img.format.PixelSize()
	writePixel(img.format, img.data[(y*img.width+x)*ps:], c)
}

// Fill sets every pixel of every level to c.
func (img *Image) Fill(c Color) error {
	if img.IsCompressed() {
		return ErrCompressed
	}
	ps := img.format.PixelSize()
	px := make([]byte, ps)
	writePixel(img.format, px, c)
	for i := 0; i < len(img.data); i += ps {
		copy(img.data[i:], px)
	}
	return nil
}
