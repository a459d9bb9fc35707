package image

import (
	"encoding/binary"
	"math"
)

func unorm8(b byte) float32 { return float32(b) / 255 }

func toUnorm8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func toUnorm(v float32, maxv uint32) uint32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return maxv
	}
	return uint32(v*float32(maxv) + 0.5)
}

// readPixel decodes one pixel of an uncompressed format.
func readPixel(f Format, p []byte) Color {
	le := binary.LittleEndian
	switch f {
	case FormatL8:
		l := unorm8(p[0])
		return Color{l, l, l, 1}
	case FormatLA8:
		l := unorm8(p[0])
		return Color{l, l, l, unorm8(p[1])}
	case FormatR8:
		return Color{unorm8(p[0]), 0, 0, 1}
	case FormatRG8:
		return Color{unorm8(p[0]), unorm8(p[1]), 0, 1}
	case FormatRGB8:
		return Color{unorm8(p[0]), unorm8(p[1]), unorm8(p[2]), 1}
	case FormatRGBA8:
		return Color{unorm8(p[0]), unorm8(p[1]), unorm8(p[2]), unorm8(p[3])}
	case FormatRGBA4444:
		v := le.Uint16(p)
		return Color{
			float32(v>>12&0xF) / 15,
			float32(v>>8&0xF) / 15,
			float32(v>>4&0xF) / 15,
			float32(v&0xF) / 15,
		}
	case FormatRGB565:
		v := le.Uint16(p)
		return Color{float32(v>>11&0x1F) / 31, float32(v>>5&0x3F) / 63, float32(v&0x1F) / 31, 1}
	case FormatRF, FormatRGF, FormatRGBF, FormatRGBAF:
		c := Color{A: 1}
		ch := f.Info().Channels
		dst := []*float32{&c.R, &c.G, &c.B, &c.A}
		for i := range ch {
			*dst[i] = math.Float32frombits(le.Uint32(p[i*4:]))
		}
		return c
	case FormatRH, FormatRGH, FormatRGBH, FormatRGBAH:
		c := Color{A: 1}
		ch := f.Info().Channels
		dst := []*float32{&c.R, &c.G, &c.B, &c.A}
		for i := range ch {
			*dst[i] = halfToFloat(le.Uint16(p[i*2:]))
		}
		return c
	case FormatRGBE9995:
		return rgbe9995ToColor(le.Uint32(p))
	}
	return Color{}
}

// writePixel encodes one pixel of an uncompressed format.
func writePixel(f Format, p []byte, c Color) {
	le := binary.LittleEndian
	switch f {
	case FormatL8:
		p[0] = toUnorm8((c.R + c.G + c.B) / 3)
	case FormatLA8:
		p[0] = toUnorm8((c.R + c.G + c.B) / 3)
		p[1] = toUnorm8(c.A)
	case FormatR8:
		p[0] = toUnorm8(c.R)
	case FormatRG8:
		p[0], p[1] = toUnorm8(c.R), toUnorm8(c.G)
	case FormatRGB8:
		p[0], p[1], p[2] = toUnorm8(c.R), toUnorm8(c.G), toUnorm8(c.B)
	case FormatRGBA8:
		p[0], p[1], p[2], p[3] = toUnorm8(c.R), toUnorm8(c.G), toUnorm8(c.B), toUnorm8(c.A)
	case FormatRGBA4444:
		v := toUnorm(c.R, 15)<<12 | toUnorm(c.G, 15)<<8 | toUnorm(c.B, 15)<<4 | toUnorm(c.A, 15)
		le.PutUint16(p, uint16(v))
	case FormatRGB565:
		v := toUnorm(c.R, 31)<<11 | toUnorm(c.G, 63)<<5 | toUnorm(c.B, 31)
		le.PutUint16(p, uint16(v))
	case FormatRF, FormatRGF, FormatRGBF, FormatRGBAF:
		src := [4]float32{c.R, c.G, c.B, c.A}
		for i := range f.Info().Channels {
			le.PutUint32(p[i*4:], math.Float32bits(src[i]))
		}
	case FormatRH, FormatRGH, FormatRGBH, FormatRGBAH:
		src := [4]float32{c.R, c.G, c.B, c.A}
		for i := range f.Info().Channels {
			le.PutUint16(p[i*2:], floatToHalf(src[i]))
		}
	case FormatRGBE9995:
		le.PutUint32(p, colorToRGBE9995(c))
	}
}

// halfToFloat expands an IEEE 754 binary16 value.
func halfToFloat(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h) & 0x3FF

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: renormalize.
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3FF
	case exp == 0x1F:
		return math.Float32frombits(sign | 0x7F800000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
}

// floatToHalf rounds a float to the nearest binary16 value.
func floatToHalf(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp := int32(b>>23&0xFF) - 127 + 15
	mant := b & 0x7FFFFF

	switch {
	case b&0x7FFFFFFF > 0x7F800000:
		return sign | 0x7E00
	case exp >= 0x1F:
		return sign | 0x7C00
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		if mant>>(shift-1)&1 != 0 {
			half++
		}
		return sign | half
	}
	half := sign | uint16(exp)<<10 | uint16(mant>>13)
	if mant&0x1000 != 0 {
		half++
	}
	return half
}

const (
	rgbeMantissaBits = 9
	rgbeExpBias      = 15
	rgbeMaxValue     = 65408.0
)

func colorToRGBE9995(c Color) uint32 {
	clamp := func(v float32) float64 {
		return math.Min(math.Max(float64(v), 0), rgbeMaxValue)
	}
	r, g, b := clamp(c.R), clamp(c.G), clamp(c.B)
	maxc := math.Max(r, math.Max(g, b))

	expp := math.Max(-rgbeExpBias-1, math.Floor(math.Log2(maxc))) + 1 + rgbeExpBias
	smax := math.Floor(maxc/math.Pow(2, expp-rgbeExpBias-rgbeMantissaBits) + 0.5)
	exps := expp + 1
	if smax >= 0 && smax < 512 {
		exps = expp
	}
	scale := math.Pow(2, exps-rgbeExpBias-rgbeMantissaBits)
	sr := uint32(math.Floor(r/scale + 0.5))
	sg := uint32(math.Floor(g/scale + 0.5))
	sb := uint32(math.Floor(b/scale + 0.5))
	return sr&0x1FF | (sg&0x1FF)<<9 | (sb&0x1FF)<<18 | (uint32(exps)&0x1F)<<27
}

func rgbe9995ToColor(v uint32) Color {
	exp := float64(v >> 27 & 0x1F)
	scale := math.Pow(2, exp-rgbeExpBias-rgbeMantissaBits)
	return Color{
		R: float32(float64(v&0x1FF) * scale),
		G: float32(float64(v>>9&0x1FF) * scale),
		B: float32(float64(v>>18&0x1FF) * scale),
		A: 1,
	}
}
