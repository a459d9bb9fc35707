package glstore

import (
	"fmt"
	stdimage "image"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Targets at or below this size in either dimension get no backbuffer.
const backbufferMinSize = 40

// backbufferMipmaps returns the length of the backbuffer chain. The four
// smallest levels are skipped so the last one stays around 32 pixels.
func backbufferMipmaps(width, height int) int {
	return max(1, image.RequiredMipmaps(width, height)-4)
}

// createBackbuffer allocates the blur chain of rt. Small targets are left
// without one.
func (s *Storage) createBackbuffer(rt *renderTarget) error {
	if rt.backbufferFBO != 0 {
		return fmt.Errorf("%w: backbuffer already allocated", ErrInvalidOperation)
	}
	if rt.directToScreen {
		return fmt.Errorf("%w: render target draws to the screen", ErrInvalidOperation)
	}
	if rt.width <= backbufferMinSize || rt.height <= backbufferMinSize {
		return nil
	}

	gl := s.gl
	count := backbufferMipmaps(rt.width, rt.height)
	rt.mipmapCount = count

	rt.backbuffer = gl.GenTexture()
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, rt.backbuffer)
	w, h := rt.width, rt.height
	for level := range count {
		gl.TexImage2D(gles.Texture2D, int32(level), rt.colorInternal, int32(w), int32(h), rt.colorFormat, rt.colorType, nil)
		w, h = max(1, w/2), max(1, h/2)
	}
	gl.TexParameteri(gles.Texture2D, gles.TextureBaseLevel, 0)
	gl.TexParameteri(gles.Texture2D, gles.TextureMaxLevel, int32(count-1))

	rt.backbufferFBO = gl.GenFramebuffer()
	gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, rt.backbuffer, 0)
	if status := gl.CheckFramebufferStatus(gles.Framebuffer); status != gles.FramebufferComplete {
		s.clearBackbuffer(rt)
		s.bindSystemFramebuffer()
		slogger().Warn("glstore: cannot allocate mipmaps for canvas screen blur",
			"status", gles.FramebufferStatusString(status))
		return &FramebufferError{Op: "backbuffer", Status: status}
	}

	// magenta marks levels nothing was copied into
	for level := range count {
		gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, rt.backbuffer, int32(level))
		gl.ClearColor(1, 0, 1, 1)
		gl.Clear(gles.ColorBufferBit)
	}
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, rt.backbuffer, 0)

	gl.TexParameteri(gles.Texture2D, gles.TextureMagFilter, int32(gles.Linear))
	gl.TexParameteri(gles.Texture2D, gles.TextureMinFilter, int32(gles.LinearMipmapLinear))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapS, int32(gles.ClampToEdge))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapT, int32(gles.ClampToEdge))

	slogger().Info("glstore: render target backbuffer created", "handle", rt.handle,
		"width", rt.width, "height", rt.height, "mipmaps", count)
	return nil
}

func (s *Storage) clearBackbuffer(rt *renderTarget) {
	if rt.backbufferFBO != 0 {
		s.gl.DeleteFramebuffer(rt.backbufferFBO)
		rt.backbufferFBO = 0
	}
	if rt.backbuffer != 0 {
		s.gl.DeleteTexture(rt.backbuffer)
		rt.backbuffer = 0
	}
	rt.mipmapCount = 0
}

// backbufferFor returns rt with its backbuffer, creating it on first use.
// It returns nil when the target has no backbuffer.
func (s *Storage) backbufferFor(h Handle, op string) (*renderTarget, error) {
	rt := s.getRenderTarget(h, op)
	if rt == nil {
		return nil, invalidRenderTarget(h)
	}
	if rt.directToScreen {
		return nil, fmt.Errorf("%w: render target %d draws to the screen", ErrInvalidOperation, h)
	}
	if rt.backbufferFBO == 0 {
		if err := s.createBackbuffer(rt); err != nil {
			return nil, err
		}
	}
	if rt.backbufferFBO == 0 {
		return nil, nil
	}
	return rt, nil
}

// clipRegion intersects region with the bounds of rt. An empty region
// selects the whole target.
func (rt *renderTarget) clipRegion(region stdimage.Rectangle) stdimage.Rectangle {
	bounds := stdimage.Rect(0, 0, rt.width, rt.height)
	if region.Empty() {
		return bounds
	}
	return bounds.Intersect(region)
}

// RenderTargetCopyToBackBuffer copies the color of a render target into
// its backbuffer and optionally blurs the region down the mip chain. An
// empty region copies the whole target.
func (s *Storage) RenderTargetCopyToBackBuffer(h Handle, region stdimage.Rectangle, genMipmaps bool) error {
	rt, err := s.backbufferFor(h, "RenderTargetCopyToBackBuffer")
	if rt == nil {
		return err
	}
	r := rt.clipRegion(region)
	if r.Empty() {
		return nil
	}

	gl := s.gl
	gl.Disable(gles.Blend)
	gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, rt.color)
	s.effects.CopyScreen()
	if genMipmaps {
		s.effects.BilinearBlur(rt.backbuffer, rt.mipmapCount, r)
		gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
	}
	gl.Enable(gles.Blend)
	return nil
}

// RenderTargetClearBackBuffer fills a region of the backbuffer with c. An
// empty region clears the whole level.
func (s *Storage) RenderTargetClearBackBuffer(h Handle, region stdimage.Rectangle, c image.Color) error {
	rt, err := s.backbufferFor(h, "RenderTargetClearBackBuffer")
	if rt == nil {
		return err
	}
	gl := s.gl
	if region.Empty() {
		gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
		gl.ClearColor(c.R, c.G, c.B, c.A)
		gl.Clear(gles.ColorBufferBit)
		return nil
	}
	r := rt.clipRegion(region)
	if r.Empty() {
		return nil
	}
	gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
	s.effects.SetColor(c, r)
	return nil
}

// RenderTargetGenBackBufferMipmaps blurs a region of the backbuffer down
// its mip chain.
func (s *Storage) RenderTargetGenBackBufferMipmaps(h Handle, region stdimage.Rectangle) error {
	rt, err := s.backbufferFor(h, "RenderTargetGenBackBufferMipmaps")
	if rt == nil {
		return err
	}
	r := rt.clipRegion(region)
	if r.Empty() {
		return nil
	}
	gl := s.gl
	gl.Disable(gles.Blend)
	s.effects.BilinearBlur(rt.backbuffer, rt.mipmapCount, r)
	gl.Enable(gles.Blend)
	gl.BindFramebuffer(gles.Framebuffer, rt.backbufferFBO)
	return nil
}

// RenderTargetBackbuffer returns the backbuffer texture, its framebuffer
// and its level count. All are zero until a backbuffer operation ran.
func (s *Storage) RenderTargetBackbuffer(h Handle) (tex, fbo uint32, mipmaps int) {
	if rt := s.getRenderTarget(h, "RenderTargetBackbuffer"); rt != nil {
		return rt.backbuffer, rt.backbufferFBO, rt.mipmapCount
	}
	return 0, 0, 0
}
