package image

import "fmt"

// Convert converts every level to format f. Both formats must be uncompressed.
func (img *Image) Convert(f Format) error {
	if !f.IsValid() {
		return ErrInvalidFormat
	}
	if f == img.format {
		return nil
	}
	if img.IsCompressed() || f.IsCompressed() {
		return fmt.Errorf("%w: convert %s to %s", ErrCompressed, img.format, f)
	}

	out := make([]byte, DataSize(img.width, img.height, f, img.mipmaps))
	srcPS, dstPS := img.format.PixelSize(), f.PixelSize()
	levels := img.MipmapCount() + 1
	dstOfs := 0
	for level := range levels {
		src := img.Level(level)
		n := len(src) / srcPS
		for i := range n {
			c := readPixel(img.format, src[i*srcPS:])
			writePixel(f, out[dstOfs+i*dstPS:], c)
		}
		dstOfs += n * dstPS
	}

	img.format = f
	img.data = out
	return nil
}
