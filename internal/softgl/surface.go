package softgl

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Surface is one level of a texture. Layers of array and 3D textures are
// stored one after the other. Row 0 is the bottom row in GL coordinates.
type Surface struct {
	Width, Height, Depth int

	Internal gles.Enum
	Format   gles.Enum
	Type     gles.Enum

	Compressed bool
	Data       []byte
}

// imageFormat returns the image format laid out like texels of the given
// transfer format and type.
func imageFormat(format, ty gles.Enum) (image.Format, bool) {
	switch ty {
	case gles.UnsignedByte:
		switch format {
		case gles.Red:
			return image.FormatR8, true
		case gles.RG:
			return image.FormatRG8, true
		case gles.RGB:
			return image.FormatRGB8, true
		case gles.RGBA:
			return image.FormatRGBA8, true
		case gles.Luminance:
			return image.FormatL8, true
		case gles.LuminanceAlpha:
			return image.FormatLA8, true
		}
	case gles.UnsignedShort4444:
		if format == gles.RGBA {
			return image.FormatRGBA4444, true
		}
	case gles.Float:
		switch format {
		case gles.Red:
			return image.FormatRF, true
		case gles.RG:
			return image.FormatRGF, true
		case gles.RGB:
			return image.FormatRGBF, true
		case gles.RGBA:
			return image.FormatRGBAF, true
		}
	case gles.HalfFloat:
		switch format {
		case gles.Red:
			return image.FormatRH, true
		case gles.RG:
			return image.FormatRGH, true
		case gles.RGB:
			return image.FormatRGBH, true
		case gles.RGBA:
			return image.FormatRGBAH, true
		}
	case gles.UnsignedInt5999Rev:
		if format == gles.RGB {
			return image.FormatRGBE9995, true
		}
	}
	return 0, false
}

func channelCount(format gles.Enum) int {
	switch format {
	case gles.RG, gles.RGInteger, gles.LuminanceAlpha:
		return 2
	case gles.RGB:
		return 3
	case gles.RGBA, gles.RGBAInteger:
		return 4
	}
	return 1
}

// TexelSize returns the byte size of one texel.
func TexelSize(format, ty gles.Enum) int {
	if f, ok := imageFormat(format, ty); ok {
		return f.PixelSize()
	}
	switch ty {
	case gles.UnsignedInt2101010Rev:
		return 4
	case gles.UnsignedInt, gles.Float:
		return 4 * channelCount(format)
	case gles.Short, gles.UnsignedShort, gles.HalfFloat:
		return 2 * channelCount(format)
	case gles.UnsignedByte:
		return channelCount(format)
	}
	return 4
}

func newSurface(width, height, depth int, internal, format, ty gles.Enum, data []byte) *Surface {
	s := &Surface{
		Width:    width,
		Height:   height,
		Depth:    max(1, depth),
		Internal: internal,
		Format:   format,
		Type:     ty,
	}
	s.Data = make([]byte, s.Width*s.Height*s.Depth*TexelSize(format, ty))
	copy(s.Data, data)
	return s
}

func newCompressedSurface(width, height, depth int, internal gles.Enum, data []byte) *Surface {
	return &Surface{
		Width:      width,
		Height:     height,
		Depth:      max(1, depth),
		Internal:   internal,
		Compressed: true,
		Data:       append([]byte(nil), data...),
	}
}

func (s *Surface) contains(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < s.Width && y < s.Height && z < s.Depth
}

func (s *Surface) offset(x, y, z int) int {
	return ((z*s.Height+y)*s.Width + x) * TexelSize(s.Format, s.Type)
}

// At returns the texel at x, y of layer z. Integer formats return the raw
// integer values. Out of range and compressed texels read as zero.
func (s *Surface) At(x, y, z int) image.Color {
	if s.Compressed || !s.contains(x, y, z) {
		return image.Color{}
	}
	o := s.offset(x, y, z)
	return decodeTexel(s.Format, s.Type, s.Data[o:])
}

// Set writes the texel at x, y of layer z.
func (s *Surface) Set(x, y, z int, c image.Color) {
	if s.Compressed || !s.contains(x, y, z) {
		return
	}
	o := s.offset(x, y, z)
	encodeTexel(s.Format, s.Type, s.Data[o:], c)
}

func decodeTexel(format, ty gles.Enum, p []byte) image.Color {
	le := binary.LittleEndian
	if f, ok := imageFormat(format, ty); ok {
		n := f.PixelSize()
		px, err := image.NewFromData(1, 1, false, f, p[:n:n])
		if err != nil {
			return image.Color{}
		}
		return px.Pixel(0, 0)
	}
	switch {
	case ty == gles.UnsignedInt2101010Rev:
		v := le.Uint32(p)
		return image.Color{
			R: float32(v&0x3FF) / 1023,
			G: float32(v>>10&0x3FF) / 1023,
			B: float32(v>>20&0x3FF) / 1023,
			A: float32(v>>30) / 3,
		}
	case format == gles.RGInteger && ty == gles.Short:
		return image.Color{R: float32(int16(le.Uint16(p))), G: float32(int16(le.Uint16(p[2:]))), A: 1}
	case format == gles.RGBAInteger && ty == gles.UnsignedByte:
		return image.Color{R: float32(p[0]), G: float32(p[1]), B: float32(p[2]), A: float32(p[3])}
	case format == gles.DepthComponent:
		var d float32
		switch ty {
		case gles.UnsignedShort:
			d = float32(le.Uint16(p)) / 0xFFFF
		case gles.UnsignedInt:
			d = float32(float64(le.Uint32(p)) / 0xFFFFFFFF)
		case gles.Float:
			d = math.Float32frombits(le.Uint32(p))
		}
		return image.Color{R: d, A: 1}
	}
	return image.Color{}
}

func encodeTexel(format, ty gles.Enum, p []byte, c image.Color) {
	le := binary.LittleEndian
	if f, ok := imageFormat(format, ty); ok {
		n := f.PixelSize()
		px, err := image.NewFromData(1, 1, false, f, p[:n:n])
		if err == nil {
			px.SetPixel(0, 0, c)
		}
		return
	}
	switch {
	case ty == gles.UnsignedInt2101010Rev:
		v := unorm(c.R, 1023) | unorm(c.G, 1023)<<10 | unorm(c.B, 1023)<<20 | unorm(c.A, 3)<<30
		le.PutUint32(p, v)
	case format == gles.RGInteger && ty == gles.Short:
		le.PutUint16(p, uint16(toInt16(c.R)))
		le.PutUint16(p[2:], uint16(toInt16(c.G)))
	case format == gles.RGBAInteger && ty == gles.UnsignedByte:
		p[0], p[1], p[2], p[3] = toUint8(c.R), toUint8(c.G), toUint8(c.B), toUint8(c.A)
	case format == gles.DepthComponent:
		switch ty {
		case gles.UnsignedShort:
			le.PutUint16(p, uint16(unorm(c.R, 0xFFFF)))
		case gles.UnsignedInt:
			le.PutUint32(p, unorm(c.R, 0xFFFFFFFF))
		case gles.Float:
			le.PutUint32(p, math.Float32bits(c.R))
		}
	}
}

func unorm(v float32, maxv uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return maxv
	}
	return uint32(float64(v)*float64(maxv) + 0.5)
}

func toInt16(v float32) int16 {
	return int16(max(-32768, min(32767, v)))
}

func toUint8(v float32) uint8 {
	return uint8(max(0, min(255, v)))
}

// colorRenderable reports whether a texture in internal can be a color
// attachment.
func colorRenderable(internal gles.Enum) bool {
	switch internal {
	case gles.R8, gles.RG8, gles.RGB8, gles.RGBA8, gles.RGB10A2, gles.RGBA4,
		gles.RG16I, gles.RGBA8UI, gles.SRGB8Alpha8, gles.RGBA, gles.RGB,
		gles.R16F, gles.R32F, gles.RG16F, gles.RG32F, gles.RGBA16F, gles.RGBA32F:
		return true
	}
	return false
}

func depthRenderable(internal gles.Enum) bool {
	switch internal {
	case gles.DepthComponent, gles.DepthComponent16, gles.DepthComponent24,
		gles.DepthComponent32F, gles.Depth24Stencil8, gles.Depth32FStencil8:
		return true
	}
	return false
}

func isCompressed(internal gles.Enum) bool {
	switch internal {
	case gles.CompressedRGBAS3TCDXT1, gles.CompressedRGBAS3TCDXT3, gles.CompressedRGBAS3TCDXT5,
		gles.CompressedRedRGTC1, gles.CompressedRGRGTC2,
		gles.CompressedRGBABPTCUnorm, gles.CompressedRGBBPTCSignedFloat, gles.CompressedRGBBPTCUnsignedFloat,
		gles.CompressedR11EAC, gles.CompressedSignedR11EAC, gles.CompressedRG11EAC, gles.CompressedSignedRG11EAC,
		gles.CompressedRGB8ETC2, gles.CompressedRGB8PunchthroughAlpha1ETC2, gles.CompressedRGBA8ETC2EAC:
		return true
	}
	return false
}
