package gles

// Functions is the subset of the GLES 3 API used by glstore. Object names are
// the raw uint32 names the driver hands out; zero is never a valid object.
//
// Data slices may be nil to allocate storage without an upload. Destination
// slices must be large enough for the requested read.
type Functions interface {
	GenTexture() uint32
	DeleteTexture(tex uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, tex uint32)
	TexParameteri(target, pname Enum, param int32)
	PixelStorei(pname Enum, param int32)

	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, ty Enum, data []byte)
	TexImage3D(target Enum, level int32, internalFormat Enum, width, height, depth int32, format, ty Enum, data []byte)
	TexSubImage3D(target Enum, level, x, y, z, width, height, depth int32, format, ty Enum, data []byte)
	CompressedTexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, data []byte)

	// GetTexImage and GetCompressedTexImage are only available on desktop
	// profiles. ES drivers may treat them as no-ops.
	GetTexImage(target Enum, level int32, format, ty Enum, dst []byte)
	GetCompressedTexImage(target Enum, level int32, dst []byte)

	GenFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(target Enum, fbo uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, tex uint32, level int32)
	FramebufferTextureMultiview(target, attachment Enum, tex uint32, level, baseView, numViews int32)
	CheckFramebufferStatus(target Enum) Enum

	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	Enable(capability Enum)
	Disable(capability Enum)
	ColorMask(r, g, b, a bool)
	DepthMask(flag bool)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	ClearBufferfv(buffer Enum, drawBuffer int32, value [4]float32)
	ReadPixels(x, y, width, height int32, format, ty Enum, dst []byte)
}
