package image

import (
	"encoding/binary"
	"fmt"
)

// Decompress decodes block-compressed data in place. DXT formats decode to
// RGBA8, RGTC_R to R8 and RGTC_RG to RG8. Uncompressed images are left as is.
//
// The ETC, BPTC and ASTC families have no CPU decoder and return ErrNoDecoder.
func (img *Image) Decompress() error {
	if !img.IsCompressed() {
		return nil
	}

	var (
		target Format
		decode func(block []byte, out *[16]Color)
	)
	switch img.format {
	case FormatDXT1:
		target, decode = FormatRGBA8, decodeDXT1
	case FormatDXT3:
		target, decode = FormatRGBA8, decodeDXT3
	case FormatDXT5:
		target, decode = FormatRGBA8, decodeDXT5
	case FormatRGTCR:
		target, decode = FormatR8, decodeRGTC1
	case FormatRGTCRG:
		target, decode = FormatRG8, decodeRGTC2
	default:
		return fmt.Errorf("%w: %s", ErrNoDecoder, img.format)
	}

	info := img.format.Info()
	out := make([]byte, DataSize(img.width, img.height, target, img.mipmaps))
	ps := target.PixelSize()
	dstOfs := 0
	var texels [16]Color
	for level := range img.MipmapCount() + 1 {
		w, h := img.MipmapSize(level)
		src := img.Level(level)
		bw := (w + 3) / 4
		bh := (h + 3) / 4
		for by := range bh {
			for bx := range bw {
				ofs := (by*bw + bx) * info.BlockBytes
				decode(src[ofs:ofs+info.BlockBytes], &texels)
				for ty := range 4 {
					for tx := range 4 {
						x, y := bx*4+tx, by*4+ty
						if x >= w || y >= h {
							continue
						}
						writePixel(target, out[dstOfs+(y*w+x)*ps:], texels[ty*4+tx])
					}
				}
			}
		}
		dstOfs += w * h * ps
	}

	img.format = target
	img.data = out
	return nil
}

func rgb565(v uint16) [3]float32 {
	r := uint32(v>>11) & 0x1F
	g := uint32(v>>5) & 0x3F
	b := uint32(v) & 0x1F
	return [3]float32{
		float32(r<<3|r>>2) / 255,
		float32(g<<2|g>>4) / 255,
		float32(b<<3|b>>2) / 255,
	}
}

// decodeColorBlock decodes the 8-byte BC1 color block. Punch-through alpha is
// only honored when allowAlpha is set (BC1); BC2/BC3 always use four colors.
func decodeColorBlock(block []byte, out *[16]Color, allowAlpha bool) {
	le := binary.LittleEndian
	c0v, c1v := le.Uint16(block[0:]), le.Uint16(block[2:])
	c0, c1 := rgb565(c0v), rgb565(c1v)

	var palette [4]Color
	palette[0] = Color{c0[0], c0[1], c0[2], 1}
	palette[1] = Color{c1[0], c1[1], c1[2], 1}
	if c0v > c1v || !allowAlpha {
		for i := range 3 {
			setChannel(&palette[2], i, (2*c0[i]+c1[i])/3)
			setChannel(&palette[3], i, (c0[i]+2*c1[i])/3)
		}
		palette[2].A, palette[3].A = 1, 1
	} else {
		for i := range 3 {
			setChannel(&palette[2], i, (c0[i]+c1[i])/2)
		}
		palette[2].A = 1
		palette[3] = Color{}
	}

	indices := le.Uint32(block[4:])
	for i := range 16 {
		out[i] = palette[indices>>(2*i)&3]
	}
}

func setChannel(c *Color, i int, v float32) {
	switch i {
	case 0:
		c.R = v
	case 1:
		c.G = v
	case 2:
		c.B = v
	}
}

// decodeAlphaBlock decodes an 8-byte BC4 style interpolated channel block.
func decodeAlphaBlock(block []byte) [16]float32 {
	a0, a1 := float32(block[0]), float32(block[1])
	var palette [8]float32
	palette[0], palette[1] = a0, a1
	if block[0] > block[1] {
		for i := 1; i <= 6; i++ {
			palette[i+1] = (float32(7-i)*a0 + float32(i)*a1) / 7
		}
	} else {
		for i := 1; i <= 4; i++ {
			palette[i+1] = (float32(5-i)*a0 + float32(i)*a1) / 5
		}
		palette[6], palette[7] = 0, 255
	}

	var bitsv uint64
	for i := range 6 {
		bitsv |= uint64(block[2+i]) << (8 * i)
	}
	var out [16]float32
	for i := range 16 {
		out[i] = palette[bitsv>>(3*i)&7] / 255
	}
	return out
}

func decodeDXT1(block []byte, out *[16]Color) {
	decodeColorBlock(block, out, true)
}

func decodeDXT3(block []byte, out *[16]Color) {
	decodeColorBlock(block[8:], out, false)
	alpha := binary.LittleEndian.Uint64(block)
	for i := range 16 {
		out[i].A = float32(alpha>>(4*i)&0xF) / 15
	}
}

func decodeDXT5(block []byte, out *[16]Color) {
	decodeColorBlock(block[8:], out, false)
	alpha := decodeAlphaBlock(block)
	for i := range 16 {
		out[i].A = alpha[i]
	}
}

func decodeRGTC1(block []byte, out *[16]Color) {
	red := decodeAlphaBlock(block)
	for i := range 16 {
		out[i] = Color{R: red[i], A: 1}
	}
}

func decodeRGTC2(block []byte, out *[16]Color) {
	red := decodeAlphaBlock(block)
	green := decodeAlphaBlock(block[8:])
	for i := range 16 {
		out[i] = Color{R: red[i], G: green[i], A: 1}
	}
}
