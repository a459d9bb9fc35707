package image

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// FromStd copies a standard library image into a new RGBA8 image without
// mipmaps. Colors are stored non-premultiplied.
func FromStd(src stdimage.Image) *Image {
	b := src.Bounds()
	w, h := max(1, b.Dx()), max(1, b.Dy())
	img := &Image{
		width:  w,
		height: h,
		format: FormatRGBA8,
		data:   make([]byte, w*h*4),
	}

	if nrgba, ok := src.(*stdimage.NRGBA); ok {
		for y := range b.Dy() {
			row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
			copy(img.data[y*w*4:], row)
		}
		return img
	}

	for y := range b.Dy() {
		for x := range b.Dx() {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 4
			img.data[i], img.data[i+1], img.data[i+2], img.data[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}

// ToNRGBA returns the base level as a standard library image. Compressed
// images are decoded first when a decoder exists.
func (img *Image) ToNRGBA() (*stdimage.NRGBA, error) {
	src := img
	if img.format != FormatRGBA8 {
		src = img.Duplicate()
		if err := src.Decompress(); err != nil {
			return nil, err
		}
		src.ClearMipmaps()
		if err := src.Convert(FormatRGBA8); err != nil {
			return nil, err
		}
	}
	out := stdimage.NewNRGBA(stdimage.Rect(0, 0, img.width, img.height))
	copy(out.Pix, src.data[:img.width*img.height*4])
	return out, nil
}

// DecodePNG decodes a PNG stream into an RGBA8 image.
func DecodePNG(r io.Reader) (*Image, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode png: %w", err)
	}
	return FromStd(img), nil
}

// LoadPNG loads a PNG image from the given file path.
func LoadPNG(path string) (*Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodePNG(f)
}

// EncodePNG writes the base level as PNG.
func (img *Image) EncodePNG(w io.Writer) error {
	nrgba, err := img.ToNRGBA()
	if err != nil {
		return err
	}
	if err := png.Encode(w, nrgba); err != nil {
		return fmt.Errorf("image: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the base level to a PNG file.
func (img *Image) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := img.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
