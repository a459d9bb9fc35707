// Package gles defines the OpenGL ES 3 function table used by glstore and
// the enum values it passes through it.
//
// Enum values are the numeric values of the Khronos headers so that a binding
// can forward them unchanged.
package gles

import "fmt"

// Enum is a GL enumerant.
type Enum uint32

// Texture targets.
const (
	Texture2D      Enum = 0x0DE1
	Texture3D      Enum = 0x806F
	Texture2DArray Enum = 0x8C1A
	TextureCubeMap Enum = 0x8513

	TextureCubeMapPositiveX Enum = 0x8515
	TextureCubeMapNegativeX Enum = 0x8516
	TextureCubeMapPositiveY Enum = 0x8517
	TextureCubeMapNegativeY Enum = 0x8518
	TextureCubeMapPositiveZ Enum = 0x8519
	TextureCubeMapNegativeZ Enum = 0x851A

	Texture0 Enum = 0x84C0
)

// Pixel transfer formats.
const (
	DepthComponent Enum = 0x1902
	Red            Enum = 0x1903
	Green          Enum = 0x1904
	Blue           Enum = 0x1905
	Alpha          Enum = 0x1906
	RGB            Enum = 0x1907
	RGBA           Enum = 0x1908
	Luminance      Enum = 0x1909
	LuminanceAlpha Enum = 0x190A
	RG             Enum = 0x8227
	RGInteger      Enum = 0x8228
	RedInteger     Enum = 0x8D94
	RGBAInteger    Enum = 0x8D99
)

// Sized internal formats.
const (
	R8                Enum = 0x8229
	RG8               Enum = 0x822B
	RGB8              Enum = 0x8051
	RGBA4             Enum = 0x8056
	RGBA8             Enum = 0x8058
	RGB10A2           Enum = 0x8059
	R16F              Enum = 0x822D
	R32F              Enum = 0x822E
	RG16F             Enum = 0x822F
	RG32F             Enum = 0x8230
	RG16I             Enum = 0x8239
	RGBA32F           Enum = 0x8814
	RGB32F            Enum = 0x8815
	RGBA16F           Enum = 0x881A
	RGB16F            Enum = 0x881B
	RGB9E5            Enum = 0x8C3D
	SRGB8Alpha8       Enum = 0x8C43
	RGBA8UI           Enum = 0x8D7C
	DepthComponent16  Enum = 0x81A5
	DepthComponent24  Enum = 0x81A6
	DepthComponent32F Enum = 0x8CAC
	Depth24Stencil8   Enum = 0x88F0
	Depth32FStencil8  Enum = 0x8CAD
)

// Compressed internal formats. S3TC, RGTC and BPTC come from extensions;
// the ETC2/EAC family is core in ES 3.0.
const (
	CompressedRGBAS3TCDXT1 Enum = 0x83F1
	CompressedRGBAS3TCDXT3 Enum = 0x83F2
	CompressedRGBAS3TCDXT5 Enum = 0x83F3

	CompressedRedRGTC1 Enum = 0x8DBB
	CompressedRGRGTC2  Enum = 0x8DBD

	CompressedRGBABPTCUnorm        Enum = 0x8E8C
	CompressedRGBBPTCSignedFloat   Enum = 0x8E8E
	CompressedRGBBPTCUnsignedFloat Enum = 0x8E8F

	CompressedR11EAC                     Enum = 0x9270
	CompressedSignedR11EAC               Enum = 0x9271
	CompressedRG11EAC                    Enum = 0x9272
	CompressedSignedRG11EAC              Enum = 0x9273
	CompressedRGB8ETC2                   Enum = 0x9274
	CompressedRGB8PunchthroughAlpha1ETC2 Enum = 0x9276
	CompressedRGBA8ETC2EAC               Enum = 0x9278
)

// Component types.
const (
	UnsignedByte          Enum = 0x1401
	Short                 Enum = 0x1402
	UnsignedShort         Enum = 0x1403
	UnsignedInt           Enum = 0x1405
	Float                 Enum = 0x1406
	HalfFloat             Enum = 0x140B
	UnsignedShort4444     Enum = 0x8033
	UnsignedInt2101010Rev Enum = 0x8368
	UnsignedInt5999Rev    Enum = 0x8C3E
)

// Texture parameters and values.
const (
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	TextureWrapR     Enum = 0x8072
	TextureBaseLevel Enum = 0x813C
	TextureMaxLevel  Enum = 0x813D
	TextureSwizzleR  Enum = 0x8E42
	TextureSwizzleG  Enum = 0x8E43
	TextureSwizzleB  Enum = 0x8E44
	TextureSwizzleA  Enum = 0x8E45

	Nearest              Enum = 0x2600
	Linear               Enum = 0x2601
	NearestMipmapNearest Enum = 0x2700
	LinearMipmapNearest  Enum = 0x2701
	NearestMipmapLinear  Enum = 0x2702
	LinearMipmapLinear   Enum = 0x2703

	Repeat         Enum = 0x2901
	ClampToEdge    Enum = 0x812F
	MirroredRepeat Enum = 0x8370

	Zero Enum = 0
	One  Enum = 1
)

// Framebuffers.
const (
	Framebuffer      Enum = 0x8D40
	ReadFramebuffer  Enum = 0x8CA8
	DrawFramebuffer  Enum = 0x8CA9
	ColorAttachment0 Enum = 0x8CE0
	DepthAttachment  Enum = 0x8D00

	FramebufferComplete                    Enum = 0x8CD5
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferIncompleteDimensions        Enum = 0x8CD9
	FramebufferUnsupported                 Enum = 0x8CDD
	FramebufferIncompleteMultisample       Enum = 0x8D56
	FramebufferUndefined                   Enum = 0x8219
)

// Capabilities, buffers and pixel store parameters.
const (
	Blend       Enum = 0x0BE2
	CullFace    Enum = 0x0B44
	DepthTest   Enum = 0x0B71
	ScissorTest Enum = 0x0C11

	Color           Enum = 0x1800
	ColorBufferBit  Enum = 0x4000
	DepthBufferBit  Enum = 0x0100
	UnpackAlignment Enum = 0x0CF5
	PackAlignment   Enum = 0x0D05
)

// CubeFace returns the cube map face target for a face index. Faces are
// ordered -X, +X, -Y, +Y, -Z, +Z.
func CubeFace(layer int) Enum {
	switch layer {
	case 0:
		return TextureCubeMapNegativeX
	case 1:
		return TextureCubeMapPositiveX
	case 2:
		return TextureCubeMapNegativeY
	case 3:
		return TextureCubeMapPositiveY
	case 4:
		return TextureCubeMapNegativeZ
	default:
		return TextureCubeMapPositiveZ
	}
}

// FramebufferStatusString returns a readable name for a framebuffer status.
func FramebufferStatusString(status Enum) string {
	switch status {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferIncompleteMissingAttachment:
		return "missing attachment"
	case FramebufferIncompleteDimensions:
		return "incomplete dimensions"
	case FramebufferUnsupported:
		return "unsupported"
	case FramebufferIncompleteMultisample:
		return "incomplete multisample"
	case FramebufferUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("0x%04x", uint32(status))
	}
}
