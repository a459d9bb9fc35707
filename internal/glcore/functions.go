//go:build !nogpu

// Package glcore drives glstore through an OpenGL 3.2 core context using
// go-gl.
//
// The context must be current on the calling goroutine before Init is
// called. Core 3.2 has no OVR_multiview, so FramebufferTextureMultiview
// attaches only the base view; run Storage with Config.Multiview unset.
package glcore

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.2-core/gl"

	"github.com/gogpu/glstore/gles"
)

// ErrInit is returned when the GL entry points cannot be loaded.
var ErrInit = errors.New("glcore: init failed")

// Functions implements gles.Functions over the current GL context.
type Functions struct {
	version string
}

var _ gles.Functions = (*Functions)(nil)

// Init loads the GL entry points of the current context.
func Init() (*Functions, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	return &Functions{version: gl.GoStr(gl.GetString(gl.VERSION))}, nil
}

// Version returns the GL_VERSION string of the context.
func (f *Functions) Version() string { return f.version }

// ptr returns the address of the first byte of data, nil for an empty
// slice.
func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (f *Functions) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (f *Functions) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (f *Functions) ActiveTexture(unit gles.Enum) { gl.ActiveTexture(uint32(unit)) }

func (f *Functions) BindTexture(target gles.Enum, tex uint32) { gl.BindTexture(uint32(target), tex) }

func (f *Functions) TexParameteri(target, pname gles.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Functions) PixelStorei(pname gles.Enum, param int32) { gl.PixelStorei(uint32(pname), param) }

func (f *Functions) TexImage2D(target gles.Enum, level int32, internalFormat gles.Enum, width, height int32, format, ty gles.Enum, data []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexImage3D(target gles.Enum, level int32, internalFormat gles.Enum, width, height, depth int32, format, ty gles.Enum, data []byte) {
	gl.TexImage3D(uint32(target), level, int32(internalFormat), width, height, depth, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexSubImage3D(target gles.Enum, level, x, y, z, width, height, depth int32, format, ty gles.Enum, data []byte) {
	gl.TexSubImage3D(uint32(target), level, x, y, z, width, height, depth, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) CompressedTexImage2D(target gles.Enum, level int32, internalFormat gles.Enum, width, height int32, data []byte) {
	gl.CompressedTexImage2D(uint32(target), level, uint32(internalFormat), width, height, 0, int32(len(data)), ptr(data))
}

func (f *Functions) GetTexImage(target gles.Enum, level int32, format, ty gles.Enum, dst []byte) {
	gl.GetTexImage(uint32(target), level, uint32(format), uint32(ty), ptr(dst))
}

func (f *Functions) GetCompressedTexImage(target gles.Enum, level int32, dst []byte) {
	gl.GetCompressedTexImage(uint32(target), level, ptr(dst))
}

func (f *Functions) GenFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (f *Functions) DeleteFramebuffer(fbo uint32) { gl.DeleteFramebuffers(1, &fbo) }

func (f *Functions) BindFramebuffer(target gles.Enum, fbo uint32) {
	gl.BindFramebuffer(uint32(target), fbo)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget gles.Enum, tex uint32, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), tex, level)
}

func (f *Functions) FramebufferTextureMultiview(target, attachment gles.Enum, tex uint32, level, baseView, numViews int32) {
	gl.FramebufferTextureLayer(uint32(target), uint32(attachment), tex, level, baseView)
}

func (f *Functions) CheckFramebufferStatus(target gles.Enum) gles.Enum {
	return gles.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Functions) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (f *Functions) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (f *Functions) Enable(capability gles.Enum) { gl.Enable(uint32(capability)) }

func (f *Functions) Disable(capability gles.Enum) { gl.Disable(uint32(capability)) }

func (f *Functions) ColorMask(r, g, b, a bool) { gl.ColorMask(r, g, b, a) }

func (f *Functions) DepthMask(flag bool) { gl.DepthMask(flag) }

func (f *Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (f *Functions) Clear(mask gles.Enum) { gl.Clear(uint32(mask)) }

func (f *Functions) ClearBufferfv(buffer gles.Enum, drawBuffer int32, value [4]float32) {
	gl.ClearBufferfv(uint32(buffer), drawBuffer, &value[0])
}

func (f *Functions) ReadPixels(x, y, width, height int32, format, ty gles.Enum, dst []byte) {
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(ty), ptr(dst))
}
