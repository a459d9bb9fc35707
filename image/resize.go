package image

import (
	stdimage "image"

	"golang.org/x/image/draw"
)

func nextPowerOfTwo(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// ResizeToPowerOfTwo scales the base level up to the next power of two on
// each axis. The mipmap chain is regenerated when present.
//
// Formats with 8-bit channels are resampled bilinearly; float formats use
// nearest sampling to keep their range.
func (img *Image) ResizeToPowerOfTwo() error {
	if img.IsCompressed() {
		return ErrCompressed
	}
	w, h := nextPowerOfTwo(img.width), nextPowerOfTwo(img.height)
	if w == img.width && h == img.height {
		return nil
	}

	hadMipmaps := img.mipmaps
	img.ClearMipmaps()

	var resized *Image
	if isUnormFormat(img.format) {
		src, err := img.ToNRGBA()
		if err != nil {
			return err
		}
		dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		resized = FromStd(dst)
		if err := resized.Convert(img.format); err != nil {
			return err
		}
	} else {
		var err error
		resized, err = New(w, h, false, img.format)
		if err != nil {
			return err
		}
		for y := range h {
			for x := range w {
				resized.SetPixel(x, y, img.Pixel(x*img.width/w, y*img.height/h))
			}
		}
	}

	*img = *resized
	if hadMipmaps {
		return img.GenerateMipmaps()
	}
	return nil
}

func isUnormFormat(f Format) bool {
	switch f {
	case FormatL8, FormatLA8, FormatR8, FormatRG8, FormatRGB8, FormatRGBA8, FormatRGBA4444, FormatRGB565:
		return true
	}
	return false
}
