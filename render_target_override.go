package glstore

import (
	"fmt"

	"github.com/gogpu/glstore/gles"
)

// overrideKey identifies a framebuffer built around an override pair.
// Pairs with an allocated half belong to one render target, named by
// owner. Fully overridden pairs have no owner and are shared.
type overrideKey struct {
	color, depth Handle
	owner        Handle
}

// overrideEntry is a framebuffer built for an override pair. It is
// destroyed when the last render target using it tears its cache down.
type overrideEntry struct {
	fbo           uint32
	color, depth  uint32
	width, height int

	target                               gles.Enum
	colorInternal, colorFormat, colorType gles.Enum

	// allocated holds the attachments created to fill the half of the
	// pair that was not overridden.
	allocated []uint32
	users     map[Handle]struct{}
}

func (s *Storage) destroyOverrideEntry(e *overrideEntry) {
	for _, tex := range e.allocated {
		s.gl.DeleteTexture(tex)
	}
	if e.fbo != 0 {
		s.gl.DeleteFramebuffer(e.fbo)
	}
	e.allocated = nil
	e.fbo = 0
}

// releaseOverrideCache drops every cache reference held by rt.
func (s *Storage) releaseOverrideCache(h Handle, rt *renderTarget) {
	for key := range rt.overrideKeys {
		e, ok := s.overrideCache[key]
		if !ok {
			continue
		}
		delete(e.users, h)
		if len(e.users) == 0 {
			s.destroyOverrideEntry(e)
			delete(s.overrideCache, key)
		}
	}
	rt.overrideKeys = nil
}

func (rt *renderTarget) useOverrideEntry(key overrideKey, e *overrideEntry) {
	if e.users == nil {
		e.users = make(map[Handle]struct{})
	}
	e.users[rt.handle] = struct{}{}
	if rt.overrideKeys == nil {
		rt.overrideKeys = make(map[overrideKey]struct{})
	}
	rt.overrideKeys[key] = struct{}{}
}

// SetRenderTargetOverride makes a render target draw into caller supplied
// textures. Either half of the pair may be 0, in which case an attachment
// is allocated for it. Setting both to 0 removes the override and leaves
// the target without storage until it is resized.
//
// Framebuffers are cached per pair, so switching back to a pair seen
// before reuses its framebuffer without GL calls. A pair of two caller
// supplied textures is shared with other render targets. A pair with an
// allocated half is cached for this render target only.
func (s *Storage) SetRenderTargetOverride(h Handle, color, depth, velocity Handle) error {
	rt := s.getRenderTarget(h, "SetRenderTargetOverride")
	if rt == nil {
		return invalidRenderTarget(h)
	}
	if rt.directToScreen {
		return fmt.Errorf("%w: render target %d draws to the screen", ErrInvalidOperation, h)
	}
	rt.overrideVelocity = velocity

	if color == rt.overrideColor && depth == rt.overrideDepth {
		return nil
	}

	if !color.IsValid() && !depth.IsValid() {
		s.clearRenderTarget(rt)
		rt.overridden = false
		rt.overrideColor, rt.overrideDepth = 0, 0
		rt.width, rt.height = 0, 0
		s.releaseOverrideCache(h, rt)
		return nil
	}

	if color.IsValid() && s.textures.Get(color) == nil {
		return fmt.Errorf("%w: override color texture %d", ErrInvalidHandle, color)
	}
	if depth.IsValid() && s.textures.Get(depth) == nil {
		return fmt.Errorf("%w: override depth texture %d", ErrInvalidHandle, depth)
	}

	// the previous pair's framebuffer stays in the cache
	s.clearRenderTarget(rt)
	rt.overrideColor, rt.overrideDepth = color, depth
	rt.overridden = true

	key := overrideKey{color: color, depth: depth}
	if !color.IsValid() || !depth.IsValid() {
		key.owner = h
	}
	if e, ok := s.overrideCache[key]; ok {
		rt.fbo, rt.color, rt.depth = e.fbo, e.color, e.depth
		rt.width, rt.height = e.width, e.height
		rt.target, rt.colorInternal, rt.colorFormat, rt.colorType = e.target, e.colorInternal, e.colorFormat, e.colorType
		rt.cached = true
		rt.useOverrideEntry(key, e)
		if ct := s.textures.Get(color); ct != nil {
			ct.renderTarget = h
		} else {
			s.wrapColor(rt)
		}
		slogger().Debug("glstore: render target override cache hit", "handle", h, "fbo", e.fbo)
		return nil
	}

	if err := s.updateRenderTarget(h, rt); err != nil {
		return err
	}
	if rt.fbo == 0 {
		return nil
	}
	e := &overrideEntry{
		fbo:           rt.fbo,
		color:         rt.color,
		depth:         rt.depth,
		width:         rt.width,
		height:        rt.height,
		target:        rt.target,
		colorInternal: rt.colorInternal,
		colorFormat:   rt.colorFormat,
		colorType:     rt.colorType,
	}
	if !color.IsValid() {
		e.allocated = append(e.allocated, rt.color)
	}
	if !depth.IsValid() {
		e.allocated = append(e.allocated, rt.depth)
	}
	s.overrideCache[key] = e
	rt.cached = true
	rt.useOverrideEntry(key, e)
	return nil
}

// RenderTargetOverride returns the override color, depth and velocity
// textures of a render target.
func (s *Storage) RenderTargetOverride(h Handle) (color, depth, velocity Handle) {
	if rt := s.getRenderTarget(h, "RenderTargetOverride"); rt != nil {
		return rt.overrideColor, rt.overrideDepth, rt.overrideVelocity
	}
	return 0, 0, 0
}

// RenderTargetIsOverridden reports whether an override pair is set.
func (s *Storage) RenderTargetIsOverridden(h Handle) bool {
	if rt := s.getRenderTarget(h, "RenderTargetIsOverridden"); rt != nil {
		return rt.overridden
	}
	return false
}
