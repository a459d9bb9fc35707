package glstore

import (
	"fmt"
	stdimage "image"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// MSAA is a 2D multisample mode. Multisampled 2D render targets are not
// supported; every mode renders without multisampling.
type MSAA uint8

const (
	MSAADisabled MSAA = iota
	MSAA2x
	MSAA4x
	MSAA8x
)

// String returns the mode name.
func (m MSAA) String() string {
	switch m {
	case MSAADisabled:
		return "disabled"
	case MSAA2x:
		return "2x"
	case MSAA4x:
		return "4x"
	case MSAA8x:
		return "8x"
	}
	return fmt.Sprintf("MSAA(%d)", uint8(m))
}

type renderTarget struct {
	handle Handle

	position      stdimage.Point
	width, height int
	viewCount     int

	fbo   uint32
	color uint32
	depth uint32

	// cached is set while fbo and the fill-in attachments belong to an
	// override cache entry.
	cached bool

	// texture is the wrapped texture presenting the color attachment.
	texture Handle

	target        gles.Enum
	colorInternal gles.Enum
	colorFormat   gles.Enum
	colorType     gles.Enum

	overrideColor    Handle
	overrideDepth    Handle
	overrideVelocity Handle
	overridden       bool
	overrideKeys     map[overrideKey]struct{}

	transparent    bool
	directToScreen bool
	msaa           MSAA
	usedInFrame    bool

	clearRequested bool
	clearColor     image.Color

	backbuffer    uint32
	backbufferFBO uint32
	mipmapCount   int

	sdf sdfState
}

func (s *Storage) getRenderTarget(h Handle, op string) *renderTarget {
	rt := s.renderTargets.Get(h)
	if rt == nil {
		slogger().Debug("glstore: render target lookup failed", "op", op, "handle", h)
	}
	return rt
}

func invalidRenderTarget(h Handle) error {
	return fmt.Errorf("%w: render target %d", ErrInvalidHandle, h)
}

// CreateRenderTarget creates an empty render target and its wrapped
// texture. The target holds no storage until it is given a size.
func (s *Storage) CreateRenderTarget() Handle {
	h := s.renderTargets.Make(renderTarget{
		viewCount: 1,
		sdf:       newSDFState(),
	})
	rt := s.renderTargets.Get(h)
	rt.handle = h
	rt.texture = s.textures.Make(texture{
		mode:         ModeRenderTarget,
		kind:         Kind2D,
		target:       gles.Texture2D,
		depth:        1,
		layers:       1,
		format:       image.FormatRGBA8,
		realFormat:   image.FormatRGBA8,
		mipmaps:      1,
		active:       true,
		renderTarget: h,
	})
	// a zero size never allocates
	_ = s.updateRenderTarget(h, rt)
	return h
}

// FreeRenderTarget releases the storage of a render target, its override
// cache references and its wrapped texture.
func (s *Storage) FreeRenderTarget(h Handle) error {
	rt := s.getRenderTarget(h, "FreeRenderTarget")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	s.clearRenderTarget(rt)
	s.releaseOverrideCache(h, rt)
	tex := rt.texture
	s.renderTargets.Free(h)
	if tex.IsValid() {
		_ = s.FreeTexture(tex)
	}
	return nil
}

// updateRenderTarget allocates the storage of rt for its current
// configuration. A failed framebuffer leaves rt with a zero size.
func (s *Storage) updateRenderTarget(h Handle, rt *renderTarget) error {
	if rt.directToScreen {
		rt.fbo = s.systemFBO
		return nil
	}

	var colorTex, depthTex *texture
	if rt.overrideColor.IsValid() {
		if colorTex = s.textures.Get(rt.overrideColor); colorTex == nil {
			return fmt.Errorf("%w: override color texture %d", ErrInvalidHandle, rt.overrideColor)
		}
		rt.width, rt.height = colorTex.allocWidth, colorTex.allocHeight
	}
	if rt.overrideDepth.IsValid() {
		if depthTex = s.textures.Get(rt.overrideDepth); depthTex == nil {
			return fmt.Errorf("%w: override depth texture %d", ErrInvalidHandle, rt.overrideDepth)
		}
	}
	if rt.width <= 0 || rt.height <= 0 {
		return nil
	}

	gl := s.gl
	rt.colorInternal, rt.colorFormat, rt.colorType = gles.RGBA8, gles.RGBA, gles.UnsignedByte
	if !rt.transparent {
		rt.colorInternal, rt.colorType = gles.RGB10A2, gles.UnsignedInt2101010Rev
	}
	multiview := rt.viewCount > 1 && s.config.Multiview
	rt.target = gles.Texture2D
	if multiview {
		rt.target = gles.Texture2DArray
	}

	gl.Disable(gles.ScissorTest)
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(false)

	rt.fbo = gl.GenFramebuffer()
	rt.cached = false
	gl.BindFramebuffer(gles.Framebuffer, rt.fbo)

	attach := func(attachment gles.Enum, tex uint32) {
		if multiview {
			gl.FramebufferTextureMultiview(gles.Framebuffer, attachment, tex, 0, 0, int32(rt.viewCount))
		} else {
			gl.FramebufferTexture2D(gles.Framebuffer, attachment, rt.target, tex, 0)
		}
	}
	allocate := func(internal, format, ty gles.Enum) uint32 {
		tex := gl.GenTexture()
		gl.ActiveTexture(gles.Texture0)
		gl.BindTexture(rt.target, tex)
		if multiview {
			gl.TexImage3D(rt.target, 0, internal, int32(rt.width), int32(rt.height), int32(rt.viewCount), format, ty, nil)
		} else {
			gl.TexImage2D(rt.target, 0, internal, int32(rt.width), int32(rt.height), format, ty, nil)
		}
		gl.TexParameteri(rt.target, gles.TextureMinFilter, int32(gles.Nearest))
		gl.TexParameteri(rt.target, gles.TextureMagFilter, int32(gles.Nearest))
		gl.TexParameteri(rt.target, gles.TextureWrapS, int32(gles.ClampToEdge))
		gl.TexParameteri(rt.target, gles.TextureWrapT, int32(gles.ClampToEdge))
		return tex
	}

	if colorTex != nil {
		rt.color = colorTex.backing.name()
	} else {
		rt.color = allocate(rt.colorInternal, rt.colorFormat, rt.colorType)
	}
	attach(gles.ColorAttachment0, rt.color)

	if depthTex != nil {
		rt.depth = depthTex.backing.name()
	} else {
		rt.depth = allocate(gles.DepthComponent24, gles.DepthComponent, gles.UnsignedInt)
	}
	attach(gles.DepthAttachment, rt.depth)

	status := gl.CheckFramebufferStatus(gles.Framebuffer)
	if status != gles.FramebufferComplete {
		gl.DeleteFramebuffer(rt.fbo)
		if colorTex == nil {
			gl.DeleteTexture(rt.color)
		}
		if depthTex == nil {
			gl.DeleteTexture(rt.depth)
		}
		rt.fbo, rt.color, rt.depth = 0, 0, 0
		rt.width, rt.height = 0, 0
		if colorTex == nil {
			if t := s.textures.Get(rt.texture); t != nil {
				t.active = false
			}
		}
		gl.BindTexture(rt.target, 0)
		s.bindSystemFramebuffer()
		slogger().Warn("glstore: could not create render target", "handle", h,
			"status", gles.FramebufferStatusString(status))
		return &FramebufferError{Op: "render target", Status: status}
	}

	if colorTex != nil {
		colorTex.renderTarget = h
	} else {
		s.wrapColor(rt)
	}

	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gles.ColorBufferBit)
	gl.BindTexture(rt.target, 0)
	s.bindSystemFramebuffer()
	return nil
}

// wrapColor points the wrapped texture at the color attachment of rt.
func (s *Storage) wrapColor(rt *renderTarget) {
	t := s.textures.Get(rt.texture)
	if t == nil {
		return
	}
	t.format, t.realFormat = image.FormatRGBA8, image.FormatRGBA8
	t.target = rt.target
	t.kind, t.layers = Kind2D, 1
	if rt.target == gles.Texture2DArray {
		t.kind, t.layeredType, t.layers = KindLayered, Layered2DArray, rt.viewCount
	}
	t.glFormat = GLFormat{Format: rt.colorFormat, InternalFormat: rt.colorInternal, Type: rt.colorType}
	t.backing = borrowed(rt.color)
	t.width, t.height = rt.width, rt.height
	t.allocWidth, t.allocHeight = rt.width, rt.height
	t.mipmaps = 1
	t.active = true
	s.refreshProxies(rt.texture, t)
}

// clearRenderTarget releases the storage owned by rt. Objects owned by an
// override cache entry are left to the cache.
func (s *Storage) clearRenderTarget(rt *renderTarget) {
	if rt.directToScreen {
		return
	}
	gl := s.gl
	if !rt.cached {
		if rt.fbo != 0 {
			gl.DeleteFramebuffer(rt.fbo)
		}
		if !rt.overrideColor.IsValid() && rt.color != 0 {
			gl.DeleteTexture(rt.color)
		}
		if !rt.overrideDepth.IsValid() && rt.depth != 0 {
			gl.DeleteTexture(rt.depth)
		}
	}
	rt.fbo, rt.color, rt.depth = 0, 0, 0
	rt.cached = false

	if t := s.textures.Get(rt.texture); t != nil {
		t.backing = backing{}
		t.width, t.height = 0, 0
		t.allocWidth, t.allocHeight = 0, 0
		t.active = false
		t.sampler = samplerState{}
		s.refreshProxies(rt.texture, t)
	}
	if ct := s.textures.Get(rt.overrideColor); ct != nil && ct.renderTarget == rt.handle {
		ct.renderTarget = 0
	}

	s.clearBackbuffer(rt)
	s.clearSDF(rt)
}

// SetRenderTargetPosition records where the target is composited.
func (s *Storage) SetRenderTargetPosition(h Handle, x, y int) {
	if rt := s.getRenderTarget(h, "SetRenderTargetPosition"); rt != nil {
		rt.position = stdimage.Pt(x, y)
	}
}

// RenderTargetPosition returns the compositing position of a target.
func (s *Storage) RenderTargetPosition(h Handle) stdimage.Point {
	if rt := s.getRenderTarget(h, "RenderTargetPosition"); rt != nil {
		return rt.position
	}
	return stdimage.Point{}
}

// SetRenderTargetSize resizes a render target and rebuilds its storage.
// A non-positive dimension releases the storage. The call is ignored while
// a color override is set, since the override dictates the size.
func (s *Storage) SetRenderTargetSize(h Handle, width, height, views int) error {
	rt := s.getRenderTarget(h, "SetRenderTargetSize")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	if views < 1 {
		return fmt.Errorf("%w: view count %d", ErrInvalidOperation, views)
	}
	if width == rt.width && height == rt.height && views == rt.viewCount {
		return nil
	}
	if rt.overrideColor.IsValid() {
		return nil
	}
	s.clearRenderTarget(rt)
	rt.width, rt.height, rt.viewCount = width, height, views
	return s.updateRenderTarget(h, rt)
}

// RenderTargetSize returns the size of the framebuffer, zero when the
// target holds no storage.
func (s *Storage) RenderTargetSize(h Handle) (width, height int) {
	if rt := s.getRenderTarget(h, "RenderTargetSize"); rt != nil {
		return rt.width, rt.height
	}
	return 0, 0
}

// RenderTargetViewCount returns the number of views of a render target.
func (s *Storage) RenderTargetViewCount(h Handle) int {
	if rt := s.getRenderTarget(h, "RenderTargetViewCount"); rt != nil {
		return rt.viewCount
	}
	return 0
}

// RenderTargetTexture returns the texture presenting the color of a render
// target: the override color when one is set, else the wrapped texture.
func (s *Storage) RenderTargetTexture(h Handle) Handle {
	rt := s.getRenderTarget(h, "RenderTargetTexture")
	if rt == nil {
		return 0
	}
	if rt.overrideColor.IsValid() {
		return rt.overrideColor
	}
	return rt.texture
}

// RenderTargetFramebuffer returns the framebuffer name, 0 when none.
func (s *Storage) RenderTargetFramebuffer(h Handle) uint32 {
	if rt := s.getRenderTarget(h, "RenderTargetFramebuffer"); rt != nil {
		return rt.fbo
	}
	return 0
}

// RenderTargetAttachments returns the GL names of the color and depth
// attachments.
func (s *Storage) RenderTargetAttachments(h Handle) (color, depth uint32) {
	if rt := s.getRenderTarget(h, "RenderTargetAttachments"); rt != nil {
		return rt.color, rt.depth
	}
	return 0, 0
}

// SetRenderTargetTransparent selects an RGBA8 color attachment instead of
// RGB10_A2. Targets with a color override are not rebuilt.
func (s *Storage) SetRenderTargetTransparent(h Handle, transparent bool) error {
	rt := s.getRenderTarget(h, "SetRenderTargetTransparent")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	rt.transparent = transparent
	if rt.overrideColor.IsValid() {
		return nil
	}
	s.clearRenderTarget(rt)
	return s.updateRenderTarget(h, rt)
}

// RenderTargetIsTransparent reports whether the color attachment keeps alpha.
func (s *Storage) RenderTargetIsTransparent(h Handle) bool {
	if rt := s.getRenderTarget(h, "RenderTargetIsTransparent"); rt != nil {
		return rt.transparent
	}
	return false
}

// SetRenderTargetDirectToScreen makes the target draw into the system
// framebuffer. Enabling it drops any override.
func (s *Storage) SetRenderTargetDirectToScreen(h Handle, direct bool) error {
	rt := s.getRenderTarget(h, "SetRenderTargetDirectToScreen")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	if rt.directToScreen == direct {
		return nil
	}
	s.clearRenderTarget(rt)
	rt.fbo = 0
	rt.directToScreen = direct
	if direct {
		if ct := s.textures.Get(rt.overrideColor); ct != nil && ct.renderTarget == h {
			ct.renderTarget = 0
		}
		s.releaseOverrideCache(h, rt)
		rt.overrideColor, rt.overrideDepth, rt.overrideVelocity = 0, 0, 0
		rt.overridden = false
	}
	return s.updateRenderTarget(h, rt)
}

// RenderTargetIsDirectToScreen reports whether the target aliases the
// system framebuffer.
func (s *Storage) RenderTargetIsDirectToScreen(h Handle) bool {
	if rt := s.getRenderTarget(h, "RenderTargetIsDirectToScreen"); rt != nil {
		return rt.directToScreen
	}
	return false
}

// RenderTargetWasUsed reports whether the target was drawn to since the
// last ClearRenderTargetUsed.
func (s *Storage) RenderTargetWasUsed(h Handle) bool {
	if rt := s.getRenderTarget(h, "RenderTargetWasUsed"); rt != nil {
		return rt.usedInFrame
	}
	return false
}

// MarkRenderTargetUsed flags the target as drawn in the current frame.
func (s *Storage) MarkRenderTargetUsed(h Handle) {
	if rt := s.getRenderTarget(h, "MarkRenderTargetUsed"); rt != nil {
		rt.usedInFrame = true
	}
}

// ClearRenderTargetUsed resets the per-frame usage flag.
func (s *Storage) ClearRenderTargetUsed(h Handle) {
	if rt := s.getRenderTarget(h, "ClearRenderTargetUsed"); rt != nil {
		rt.usedInFrame = false
	}
}

// SetRenderTargetMSAA records the requested mode and rebuilds the target.
// 2D MSAA is not supported, so the target stays single sampled.
func (s *Storage) SetRenderTargetMSAA(h Handle, m MSAA) error {
	rt := s.getRenderTarget(h, "SetRenderTargetMSAA")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	if rt.msaa == m {
		return nil
	}
	slogger().Warn("glstore: 2D MSAA is not yet supported", "handle", h, "msaa", m)
	s.clearRenderTarget(rt)
	rt.msaa = m
	return s.updateRenderTarget(h, rt)
}

// RenderTargetMSAA returns the requested multisample mode.
func (s *Storage) RenderTargetMSAA(h Handle) MSAA {
	if rt := s.getRenderTarget(h, "RenderTargetMSAA"); rt != nil {
		return rt.msaa
	}
	return MSAADisabled
}

// RequestClear schedules a clear to c for the next DoClearRequest.
func (s *Storage) RequestClear(h Handle, c image.Color) {
	if rt := s.getRenderTarget(h, "RequestClear"); rt != nil {
		rt.clearRequested = true
		rt.clearColor = c
	}
}

// IsClearRequested reports whether a clear is pending for the target.
func (s *Storage) IsClearRequested(h Handle) bool {
	if rt := s.getRenderTarget(h, "IsClearRequested"); rt != nil {
		return rt.clearRequested
	}
	return false
}

// ClearRequestColor returns the color of the pending clear.
func (s *Storage) ClearRequestColor(h Handle) image.Color {
	if rt := s.getRenderTarget(h, "ClearRequestColor"); rt != nil {
		return rt.clearColor
	}
	return image.Color{}
}

// DisableClearRequest drops a pending clear.
func (s *Storage) DisableClearRequest(h Handle) {
	if rt := s.getRenderTarget(h, "DisableClearRequest"); rt != nil {
		rt.clearRequested = false
	}
}

// DoClearRequest clears the color attachment if a clear is pending.
func (s *Storage) DoClearRequest(h Handle) {
	rt := s.getRenderTarget(h, "DoClearRequest")
	if rt == nil || !rt.clearRequested {
		return
	}
	c := rt.clearColor
	s.gl.BindFramebuffer(gles.Framebuffer, rt.fbo)
	s.gl.ClearBufferfv(gles.Color, 0, [4]float32{c.R, c.G, c.B, c.A})
	rt.clearRequested = false
	s.bindSystemFramebuffer()
}
