package glstore

import (
	"errors"
	"fmt"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/internal/owner"
)

// Handle identifies a texture, canvas texture or render target. The zero
// Handle is never valid. Handles of freed resources do not resolve.
type Handle = owner.ID

// Registry tags. They keep handles of one kind from resolving in another
// registry.
const (
	tagTexture uint8 = iota + 1
	tagCanvasTexture
	tagRenderTarget
)

// Storage owns the textures and render targets of one GL context.
//
// Storage is not safe for concurrent use. All methods must be called from
// the goroutine that owns the GL context.
type Storage struct {
	gl      gles.Functions
	effects Effects
	sdf     SDFProgram
	config  Config

	// systemFBO is bound after offscreen passes.
	systemFBO uint32

	textures       *owner.Owner[texture]
	canvasTextures *owner.Owner[canvasTexture]
	renderTargets  *owner.Owner[renderTarget]

	atlas         textureAtlas
	overrideCache map[overrideKey]*overrideEntry
	defaults      [defaultTextureCount]Handle
}

// New creates a Storage driving gl.
//
// effects is required. sdf may be nil, in which case distance field
// processing reports ErrNotImplemented.
func New(gl gles.Functions, effects Effects, sdf SDFProgram, opts ...Option) (*Storage, error) {
	if gl == nil {
		return nil, errors.New("glstore: nil GL functions")
	}
	if effects == nil {
		return nil, errors.New("glstore: nil effects")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	s := &Storage{
		gl:             gl,
		effects:        effects,
		sdf:            sdf,
		config:         o.config,
		systemFBO:      o.systemFBO,
		textures:       owner.New[texture](tagTexture),
		canvasTextures: owner.New[canvasTexture](tagCanvasTexture),
		renderTargets:  owner.New[renderTarget](tagRenderTarget),
		atlas:          newTextureAtlas(),
		overrideCache:  make(map[overrideKey]*overrideEntry),
	}

	s.createAtlasPlaceholder()
	if o.defaultTextures {
		if err := s.createDefaultTextures(); err != nil {
			s.Close()
			return nil, fmt.Errorf("glstore: default textures: %w", err)
		}
	}
	return s, nil
}

// Config returns the capabilities the Storage was created with.
func (s *Storage) Config() Config { return s.config }

// SystemFramebuffer returns the framebuffer name of the window surface.
func (s *Storage) SystemFramebuffer() uint32 { return s.systemFBO }

// Close releases every GL object owned by the Storage. Handles become
// invalid.
func (s *Storage) Close() {
	for _, rt := range s.renderTargets.IDs() {
		s.FreeRenderTarget(rt)
	}
	for key, entry := range s.overrideCache {
		s.destroyOverrideEntry(entry)
		delete(s.overrideCache, key)
	}
	for _, h := range s.textures.IDs() {
		_ = s.FreeTexture(h)
	}
	for _, h := range s.canvasTextures.IDs() {
		s.canvasTextures.Free(h)
	}
	s.atlas.release(s.gl)
	s.defaults = [defaultTextureCount]Handle{}
}

func (s *Storage) bindSystemFramebuffer() {
	s.gl.BindFramebuffer(gles.Framebuffer, s.systemFBO)
}
