package glstore

import (
	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// GLFormat is the GL description of a pixel format: the transfer format and
// component type passed with pixel data, and the internal storage format.
type GLFormat struct {
	Format         gles.Enum
	InternalFormat gles.Enum
	Type           gles.Enum
	Compressed     bool
}

var (
	glFormatRGB8  = GLFormat{Format: gles.RGB, InternalFormat: gles.RGB, Type: gles.UnsignedByte}
	glFormatRGBA8 = GLFormat{Format: gles.RGBA, InternalFormat: gles.RGBA, Type: gles.UnsignedByte}
)

// TranslateFormat maps an image format to its GL description for a context
// with the given capabilities.
//
// When the context lacks the extension for a compressed format,
// needDecompress is true and the returned GLFormat is the RGBA8 upload the
// decompressed data will most likely use. PrepareImage computes the
// authoritative result. Formats without any GL mapping return an
// *UnsupportedFormatError.
func TranslateFormat(f image.Format, cfg Config) (gf GLFormat, needDecompress bool, err error) {
	ub := gles.UnsignedByte
	switch f {
	case image.FormatL8:
		if cfg.DesktopGL {
			return GLFormat{Format: gles.Red, InternalFormat: gles.R8, Type: ub}, false, nil
		}
		return GLFormat{Format: gles.Luminance, InternalFormat: gles.Luminance, Type: ub}, false, nil
	case image.FormatLA8:
		if cfg.DesktopGL {
			return GLFormat{Format: gles.RG, InternalFormat: gles.RG8, Type: ub}, false, nil
		}
		return GLFormat{Format: gles.LuminanceAlpha, InternalFormat: gles.LuminanceAlpha, Type: ub}, false, nil
	case image.FormatR8:
		return GLFormat{Format: gles.Red, InternalFormat: gles.R8, Type: ub}, false, nil
	case image.FormatRG8:
		return GLFormat{Format: gles.RG, InternalFormat: gles.RG8, Type: ub}, false, nil
	case image.FormatRGB8:
		return GLFormat{Format: gles.RGB, InternalFormat: gles.RGB8, Type: ub}, false, nil
	case image.FormatRGBA8:
		return GLFormat{Format: gles.RGBA, InternalFormat: gles.RGBA8, Type: ub}, false, nil
	case image.FormatRGBA4444:
		return GLFormat{Format: gles.RGBA, InternalFormat: gles.RGBA4, Type: gles.UnsignedShort4444}, false, nil
	case image.FormatRF:
		return GLFormat{Format: gles.Red, InternalFormat: gles.R32F, Type: gles.Float}, false, nil
	case image.FormatRGF:
		return GLFormat{Format: gles.RG, InternalFormat: gles.RG32F, Type: gles.Float}, false, nil
	case image.FormatRGBF:
		return GLFormat{Format: gles.RGB, InternalFormat: gles.RGB32F, Type: gles.Float}, false, nil
	case image.FormatRGBAF:
		return GLFormat{Format: gles.RGBA, InternalFormat: gles.RGBA32F, Type: gles.Float}, false, nil
	case image.FormatRH:
		return GLFormat{Format: gles.Red, InternalFormat: gles.R16F, Type: gles.HalfFloat}, false, nil
	case image.FormatRGH:
		return GLFormat{Format: gles.RG, InternalFormat: gles.RG16F, Type: gles.HalfFloat}, false, nil
	case image.FormatRGBH:
		return GLFormat{Format: gles.RGB, InternalFormat: gles.RGB16F, Type: gles.HalfFloat}, false, nil
	case image.FormatRGBAH:
		return GLFormat{Format: gles.RGBA, InternalFormat: gles.RGBA16F, Type: gles.HalfFloat}, false, nil
	case image.FormatRGBE9995:
		return GLFormat{Format: gles.RGB, InternalFormat: gles.RGB9E5, Type: gles.UnsignedInt5999Rev}, false, nil

	case image.FormatDXT1:
		return compressedFormat(cfg.S3TC, gles.RGBA, gles.CompressedRGBAS3TCDXT1, ub)
	case image.FormatDXT3:
		return compressedFormat(cfg.S3TC, gles.RGBA, gles.CompressedRGBAS3TCDXT3, ub)
	case image.FormatDXT5:
		return compressedFormat(cfg.S3TC, gles.RGBA, gles.CompressedRGBAS3TCDXT5, ub)
	case image.FormatRGTCR:
		return compressedFormat(cfg.RGTC, gles.RGBA, gles.CompressedRedRGTC1, ub)
	case image.FormatRGTCRG:
		return compressedFormat(cfg.RGTC, gles.RGBA, gles.CompressedRGRGTC2, ub)
	case image.FormatBPTCRGBA:
		return compressedFormat(cfg.BPTC, gles.RGBA, gles.CompressedRGBABPTCUnorm, ub)
	case image.FormatBPTCRGBF:
		return compressedFormat(cfg.BPTC, gles.RGB, gles.CompressedRGBBPTCSignedFloat, gles.Float)
	case image.FormatBPTCRGBFU:
		return compressedFormat(cfg.BPTC, gles.RGB, gles.CompressedRGBBPTCUnsignedFloat, gles.Float)
	case image.FormatETC2R11:
		return compressedFormat(cfg.ETC2, gles.Red, gles.CompressedR11EAC, ub)
	case image.FormatETC2R11S:
		return compressedFormat(cfg.ETC2, gles.Red, gles.CompressedSignedR11EAC, ub)
	case image.FormatETC2RG11:
		return compressedFormat(cfg.ETC2, gles.RG, gles.CompressedRG11EAC, ub)
	case image.FormatETC2RG11S:
		return compressedFormat(cfg.ETC2, gles.RG, gles.CompressedSignedRG11EAC, ub)
	case image.FormatETC, image.FormatETC2RGB8:
		return compressedFormat(cfg.ETC2, gles.RGB, gles.CompressedRGB8ETC2, ub)
	case image.FormatETC2RGBA8:
		return compressedFormat(cfg.ETC2, gles.RGBA, gles.CompressedRGBA8ETC2EAC, ub)
	case image.FormatETC2RGB8A1:
		return compressedFormat(cfg.ETC2, gles.RGBA, gles.CompressedRGB8PunchthroughAlpha1ETC2, ub)
	}
	return GLFormat{}, false, &UnsupportedFormatError{Format: f}
}

func compressedFormat(supported bool, format, internal, ty gles.Enum) (GLFormat, bool, error) {
	if !supported {
		return glFormatRGBA8, true, nil
	}
	return GLFormat{Format: format, InternalFormat: internal, Type: ty, Compressed: true}, false, nil
}

// PrepareImage returns the image to upload for img together with its GL
// description and the format the uploaded data is in.
//
// When the format needs decompression, or forceDecompress is set for a
// compressed img, the result is a decompressed duplicate in RGB8 or RGBA8
// and img is left untouched. Otherwise img itself is returned.
func PrepareImage(img *image.Image, cfg Config, forceDecompress bool) (*image.Image, GLFormat, image.Format, error) {
	gf, need, err := TranslateFormat(img.Format(), cfg)
	if err != nil {
		return nil, GLFormat{}, 0, err
	}
	if !need && !(forceDecompress && img.IsCompressed()) {
		return img, gf, img.Format(), nil
	}

	out := img.Duplicate()
	if err := out.Decompress(); err != nil {
		return nil, GLFormat{}, 0, &UnsupportedFormatError{Format: img.Format(), Err: err}
	}
	switch out.Format() {
	case image.FormatRGB8:
		return out, glFormatRGB8, image.FormatRGB8, nil
	case image.FormatRGBA8:
		return out, glFormatRGBA8, image.FormatRGBA8, nil
	}
	if err := out.Convert(image.FormatRGBA8); err != nil {
		return nil, GLFormat{}, 0, &UnsupportedFormatError{Format: img.Format(), Err: err}
	}
	return out, glFormatRGBA8, image.FormatRGBA8, nil
}
