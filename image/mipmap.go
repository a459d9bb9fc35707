package image

// GenerateMipmaps (re)builds the full mipmap chain from the base level.
//
// Uses a box filter (2x2 average) to downsample each level, clamping at the
// edges for odd dimensions. Compressed images return ErrCompressed.
func (img *Image) GenerateMipmaps() error {
	if img.IsCompressed() {
		return ErrCompressed
	}

	base := img.format.LevelBytes(img.width, img.height)
	out := make([]byte, DataSize(img.width, img.height, img.format, true))
	copy(out, img.data[:base])

	ps := img.format.PixelSize()
	srcOfs, dstOfs := 0, base
	w, h := img.width, img.height
	for range RequiredMipmaps(img.width, img.height) {
		dw, dh := max(1, w>>1), max(1, h>>1)
		src := out[srcOfs:]
		dst := out[dstOfs:]
		at := func(x, y int) Color {
			return readPixel(img.format, src[(y*w+x)*ps:])
		}
		for dy := range dh {
			for dx := range dw {
				sx, sy := dx*2, dy*2
				x1, y1 := min(sx+1, w-1), min(sy+1, h-1)
				c0, c1, c2, c3 := at(sx, sy), at(x1, sy), at(sx, y1), at(x1, y1)
				writePixel(img.format, dst[(dy*dw+dx)*ps:], Color{
					R: (c0.R + c1.R + c2.R + c3.R) / 4,
					G: (c0.G + c1.G + c2.G + c3.G) / 4,
					B: (c0.B + c1.B + c2.B + c3.B) / 4,
					A: (c0.A + c1.A + c2.A + c3.A) / 4,
				})
			}
		}
		srcOfs = dstOfs
		dstOfs += dw * dh * ps
		w, h = dw, dh
	}

	img.data = out
	img.mipmaps = true
	return nil
}
