package glstore

import (
	"fmt"
	stdimage "image"
	"math/bits"

	"github.com/gogpu/glstore/gles"
)

// SDFOversize is the margin added around a render target before its
// distance field is computed.
type SDFOversize uint8

const (
	SDFOversize100 SDFOversize = iota
	SDFOversize120
	SDFOversize150
	SDFOversize200
)

// Percent returns the expanded size as a percentage of the target size.
func (o SDFOversize) Percent() int {
	switch o {
	case SDFOversize120:
		return 120
	case SDFOversize150:
		return 150
	case SDFOversize200:
		return 200
	}
	return 100
}

// SDFScale is the resolution of the distance field relative to the
// expanded rectangle.
type SDFScale uint8

const (
	SDFScale100 SDFScale = iota
	SDFScale50
	SDFScale25
)

// Percent returns the scale as a percentage.
func (s SDFScale) Percent() int {
	switch s {
	case SDFScale50:
		return 50
	case SDFScale25:
		return 25
	}
	return 100
}

// shift returns the coordinate shift of the shrinking passes.
func (s SDFScale) shift() int {
	switch s {
	case SDFScale50:
		return 1
	case SDFScale25:
		return 2
	}
	return 0
}

// sdfMaxLength is the distance, in source pixels, stored as 1.
const sdfMaxLength = 16384

type sdfState struct {
	oversize SDFOversize
	scale    SDFScale
	enabled  bool

	write    uint32
	writeFBO uint32
	process  [2]uint32
	read     uint32

	processWidth, processHeight int
}

func newSDFState() sdfState {
	return sdfState{oversize: SDFOversize120, scale: SDFScale50}
}

// sdfRect returns the rectangle covered by the distance field, relative to
// the origin of the render target.
func (rt *renderTarget) sdfRect() stdimage.Rectangle {
	p := rt.sdf.oversize.Percent()
	mx := rt.width*p/100 - rt.width
	my := rt.height*p/100 - rt.height
	return stdimage.Rect(-mx, -my, rt.width+mx, rt.height+my)
}

func (s *Storage) allocateSDF(rt *renderTarget) error {
	if rt.sdf.writeFBO != 0 {
		return fmt.Errorf("%w: distance field already allocated", ErrInvalidOperation)
	}
	gl := s.gl
	size := rt.sdfRect().Size()

	st := &rt.sdf
	st.write = gl.GenTexture()
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, st.write)
	gl.TexImage2D(gles.Texture2D, 0, gles.R8, int32(size.X), int32(size.Y), gles.Red, gles.UnsignedByte, nil)
	gl.TexParameteri(gles.Texture2D, gles.TextureBaseLevel, 0)
	gl.TexParameteri(gles.Texture2D, gles.TextureMaxLevel, 1)
	setClampSampler(gl, gles.Nearest)

	st.writeFBO = gl.GenFramebuffer()
	gl.BindFramebuffer(gles.Framebuffer, st.writeFBO)
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, st.write, 0)

	scale := st.scale.Percent()
	st.processWidth = max(1, size.X*scale/100)
	st.processHeight = max(1, size.Y*scale/100)

	for i := range st.process {
		st.process[i] = gl.GenTexture()
		gl.BindTexture(gles.Texture2D, st.process[i])
		gl.TexImage2D(gles.Texture2D, 0, gles.RG16I, int32(st.processWidth), int32(st.processHeight), gles.RGInteger, gles.Short, nil)
		setClampSampler(gl, gles.Nearest)
	}

	st.read = gl.GenTexture()
	gl.BindTexture(gles.Texture2D, st.read)
	gl.TexImage2D(gles.Texture2D, 0, gles.RGBA8, int32(st.processWidth), int32(st.processHeight), gles.RGBA, gles.UnsignedByte, nil)
	setClampSampler(gl, gles.Linear)

	gl.BindTexture(gles.Texture2D, 0)
	s.bindSystemFramebuffer()
	return nil
}

func setClampSampler(gl gles.Functions, filter gles.Enum) {
	gl.TexParameteri(gles.Texture2D, gles.TextureMinFilter, int32(filter))
	gl.TexParameteri(gles.Texture2D, gles.TextureMagFilter, int32(filter))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapS, int32(gles.ClampToEdge))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapT, int32(gles.ClampToEdge))
}

// clearSDF releases the distance field surfaces of rt, if any.
func (s *Storage) clearSDF(rt *renderTarget) {
	st := &rt.sdf
	if st.writeFBO == 0 {
		return
	}
	gl := s.gl
	gl.DeleteTexture(st.write)
	gl.DeleteTexture(st.process[0])
	gl.DeleteTexture(st.process[1])
	gl.DeleteTexture(st.read)
	gl.DeleteFramebuffer(st.writeFBO)
	st.write, st.writeFBO, st.read = 0, 0, 0
	st.process = [2]uint32{}
	st.processWidth, st.processHeight = 0, 0
}

// SetRenderTargetSDFSizeAndScale changes the distance field margin and
// resolution. Existing surfaces are released when either changes.
func (s *Storage) SetRenderTargetSDFSizeAndScale(h Handle, oversize SDFOversize, scale SDFScale) error {
	rt := s.getRenderTarget(h, "SetRenderTargetSDFSizeAndScale")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	if rt.sdf.oversize == oversize && rt.sdf.scale == scale {
		return nil
	}
	rt.sdf.oversize, rt.sdf.scale = oversize, scale
	s.clearSDF(rt)
	return nil
}

// RenderTargetSDFRect returns the rectangle covered by the distance field
// in render target pixels. It extends past the target by the margin on
// every side.
func (s *Storage) RenderTargetSDFRect(h Handle) stdimage.Rectangle {
	if rt := s.getRenderTarget(h, "RenderTargetSDFRect"); rt != nil {
		return rt.sdfRect()
	}
	return stdimage.Rectangle{}
}

// MarkRenderTargetSDFEnabled records whether the target wants a distance
// field.
func (s *Storage) MarkRenderTargetSDFEnabled(h Handle, enabled bool) {
	if rt := s.getRenderTarget(h, "MarkRenderTargetSDFEnabled"); rt != nil {
		rt.sdf.enabled = enabled
	}
}

// RenderTargetIsSDFEnabled reports the flag set by MarkRenderTargetSDFEnabled.
func (s *Storage) RenderTargetIsSDFEnabled(h Handle) bool {
	if rt := s.getRenderTarget(h, "RenderTargetIsSDFEnabled"); rt != nil {
		return rt.sdf.enabled
	}
	return false
}

// RenderTargetSDFTexture returns the distance field surface, or the default
// black texture before it has been allocated.
func (s *Storage) RenderTargetSDFTexture(h Handle) uint32 {
	rt := s.getRenderTarget(h, "RenderTargetSDFTexture")
	if rt == nil {
		return 0
	}
	if rt.sdf.read == 0 {
		return s.TextureNativeHandle(s.defaults[DefaultBlack])
	}
	return rt.sdf.read
}

// RenderTargetSDFFramebuffer returns the framebuffer occluders are drawn
// into, allocating the distance field surfaces on first use.
func (s *Storage) RenderTargetSDFFramebuffer(h Handle) (uint32, error) {
	rt := s.getRenderTarget(h, "RenderTargetSDFFramebuffer")
	if rt == nil {
		return 0, invalidRenderTarget(h)
	}
	if rt.sdf.writeFBO == 0 {
		if err := s.allocateSDF(rt); err != nil {
			return 0, err
		}
	}
	return rt.sdf.writeFBO, nil
}

// RenderTargetSDFProcessSize returns the size of the process and read
// surfaces.
func (s *Storage) RenderTargetSDFProcessSize(h Handle) (width, height int) {
	if rt := s.getRenderTarget(h, "RenderTargetSDFProcessSize"); rt != nil {
		return rt.sdf.processWidth, rt.sdf.processHeight
	}
	return 0, 0
}

func nextPowerOfTwo(v int) int {
	if v <= 0 {
		return 0
	}
	return 1 << bits.Len(uint(v-1))
}

// RenderTargetSDFProcess turns the occluders drawn into the SDF framebuffer
// into a distance field with the jump flood algorithm.
func (s *Storage) RenderTargetSDFProcess(h Handle) error {
	rt := s.getRenderTarget(h, "RenderTargetSDFProcess")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	st := &rt.sdf
	if st.writeFBO == 0 {
		return fmt.Errorf("%w: distance field of render target %d is not allocated", ErrInvalidOperation, h)
	}
	if s.sdf == nil {
		return fmt.Errorf("%w: distance field program", ErrNotImplemented)
	}

	gl, prog := s.gl, s.sdf
	base := rt.sdfRect().Size()
	shift := st.scale.shift()
	pw, ph := max(1, base.X>>shift), max(1, base.Y>>shift)

	uniforms := func(stride int) {
		prog.SetUniformIVec2(gles.UniformBaseSize, int32(base.X), int32(base.Y))
		prog.SetUniformIVec2(gles.UniformSize, int32(pw), int32(ph))
		prog.SetUniformInt(gles.UniformStride, int32(stride))
		prog.SetUniformInt(gles.UniformShift, int32(shift))
	}

	fbo := gl.GenFramebuffer()
	gl.BindFramebuffer(gles.Framebuffer, fbo)

	if shift > 0 {
		prog.Bind(gles.SDFLoadShrink)
	} else {
		prog.Bind(gles.SDFLoad)
	}
	uniforms(0)
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, st.write)
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, st.process[0], 0)
	gl.Viewport(0, 0, int32(pw), int32(ph))
	gl.Enable(gles.ScissorTest)
	gl.Scissor(0, 0, int32(pw), int32(ph))
	prog.DrawScreenTriangle()

	stride := nextPowerOfTwo(max(pw, ph) / 2)
	prog.Bind(gles.SDFProcess)
	uniforms(stride)
	swap := false
	for stride > 0 {
		dst, src := st.process[1], st.process[0]
		if swap {
			dst, src = src, dst
		}
		gl.BindTexture(gles.Texture2D, 0)
		gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, dst, 0)
		gl.BindTexture(gles.Texture2D, src)
		prog.SetUniformInt(gles.UniformStride, int32(stride))
		prog.DrawScreenTriangle()
		stride /= 2
		swap = !swap
	}

	if shift > 0 {
		prog.Bind(gles.SDFStoreShrink)
	} else {
		prog.Bind(gles.SDFStore)
	}
	uniforms(stride)
	last := st.process[0]
	if swap {
		last = st.process[1]
	}
	gl.BindTexture(gles.Texture2D, 0)
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, st.read, 0)
	gl.BindTexture(gles.Texture2D, last)
	prog.DrawScreenTriangle()

	gl.BindTexture(gles.Texture2D, 0)
	s.bindSystemFramebuffer()
	gl.DeleteFramebuffer(fbo)
	gl.Disable(gles.ScissorTest)
	return nil
}

// DecodeSDF returns the signed distance, in source pixels, stored in the
// red and green channels of a distance field texel. Occupied texels are
// negative.
func DecodeSDF(r, g uint8) float32 {
	v := float32(uint16(g)<<8|uint16(r)) / 0xFFFF
	return (v*2 - 1) * sdfMaxLength
}
