package glstore

import (
	"fmt"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/internal/atlaspack"
)

// Rect2 is a rectangle in normalized texture coordinates.
type Rect2 struct {
	X, Y, Width, Height float32
}

type atlasMember struct {
	users  int
	uvRect Rect2
}

// textureAtlas packs member textures into one shared texture.
type textureAtlas struct {
	members map[Handle]*atlasMember
	dirty   bool

	texture       uint32
	framebuffer   uint32
	width, height int
}

func newTextureAtlas() textureAtlas {
	return textureAtlas{members: make(map[Handle]*atlasMember)}
}

func (a *textureAtlas) removeTexture(h Handle) {
	if _, ok := a.members[h]; ok {
		delete(a.members, h)
	}
}

func (a *textureAtlas) markDirtyOnTexture(h Handle) {
	if _, ok := a.members[h]; ok {
		a.dirty = true
	}
}

func (a *textureAtlas) release(gl gles.Functions) {
	if a.texture != 0 {
		gl.DeleteTexture(a.texture)
		a.texture = 0
	}
	if a.framebuffer != 0 {
		gl.DeleteFramebuffer(a.framebuffer)
		a.framebuffer = 0
	}
}

// createAtlasPlaceholder allocates the opaque black 4x4 texture used before
// the first rebuild.
func (s *Storage) createAtlasPlaceholder() {
	gl := s.gl
	const n = atlaspack.EmptySize
	data := make([]byte, n*n*4)
	for i := 3; i < len(data); i += 4 {
		data[i] = 255
	}
	s.atlas.texture = gl.GenTexture()
	gl.BindTexture(gles.Texture2D, s.atlas.texture)
	gl.TexImage2D(gles.Texture2D, 0, gles.RGBA8, n, n, gles.RGBA, gles.UnsignedByte, data)
	gl.BindTexture(gles.Texture2D, 0)
	s.atlas.width, s.atlas.height = n, n
}

// AtlasAdd adds a reference to h in the atlas.
func (s *Storage) AtlasAdd(h Handle) {
	if m, ok := s.atlas.members[h]; ok {
		m.users++
		return
	}
	s.atlas.members[h] = &atlasMember{users: 1}
	s.atlas.dirty = true
}

// AtlasRemove drops a reference to h. The member is erased when its last
// reference goes; this does not force a rebuild.
func (s *Storage) AtlasRemove(h Handle) error {
	m, ok := s.atlas.members[h]
	if !ok {
		return fmt.Errorf("%w: texture %d is not in the atlas", ErrInvalidOperation, h)
	}
	m.users--
	if m.users == 0 {
		delete(s.atlas.members, h)
	}
	return nil
}

// AtlasMarkDirtyOnTexture schedules a rebuild if h is a member.
func (s *Storage) AtlasMarkDirtyOnTexture(h Handle) { s.atlas.markDirtyOnTexture(h) }

// AtlasRemoveTexture erases h from the atlas regardless of its references.
func (s *Storage) AtlasRemoveTexture(h Handle) { s.atlas.removeTexture(h) }

// AtlasTexture returns the GL texture of the atlas, or 0 after a failed
// rebuild.
func (s *Storage) AtlasTexture() uint32 { return s.atlas.texture }

// AtlasFramebuffer returns the framebuffer of the atlas texture.
func (s *Storage) AtlasFramebuffer() uint32 { return s.atlas.framebuffer }

// AtlasSize returns the atlas size in pixels.
func (s *Storage) AtlasSize() (width, height int) { return s.atlas.width, s.atlas.height }

// AtlasUVRect returns the normalized rectangle of h in the atlas as of the
// last rebuild.
func (s *Storage) AtlasUVRect(h Handle) (Rect2, bool) {
	m, ok := s.atlas.members[h]
	if !ok {
		return Rect2{}, false
	}
	return m.uvRect, true
}

// AtlasUsers returns the reference count of h.
func (s *Storage) AtlasUsers(h Handle) int {
	if m, ok := s.atlas.members[h]; ok {
		return m.users
	}
	return 0
}

// AtlasDirty reports whether the next UpdateTextureAtlas rebuilds.
func (s *Storage) AtlasDirty() bool { return s.atlas.dirty }

// UpdateTextureAtlas rebuilds the atlas if it is dirty.
//
// If the new framebuffer is incomplete the atlas is left without a texture
// until a member changes again.
func (s *Storage) UpdateTextureAtlas() error {
	a := &s.atlas
	if !a.dirty {
		return nil
	}
	a.dirty = false
	gl := s.gl
	a.release(gl)

	items := make([]atlaspack.Item, 0, len(a.members))
	for h := range a.members {
		t := s.textures.Get(h)
		if t == nil {
			slogger().Warn("glstore: atlas member no longer exists", "handle", h)
			continue
		}
		items = append(items, atlaspack.Item{Key: uint64(h), Width: t.width, Height: t.height})
	}

	layout := atlaspack.Pack(items)
	a.width, a.height = layout.Width, layout.Height
	aw, ah := float32(layout.Width), float32(layout.Height)
	for _, p := range layout.Placements {
		a.members[Handle(p.Key)].uvRect = Rect2{
			X:      float32(p.PixelX()) / aw,
			Y:      float32(p.PixelY()) / ah,
			Width:  float32(p.Width) / aw,
			Height: float32(p.Height) / ah,
		}
	}

	a.texture = gl.GenTexture()
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, a.texture)
	gl.TexImage2D(gles.Texture2D, 0, gles.RGBA8, int32(a.width), int32(a.height), gles.RGBA, gles.UnsignedByte, nil)
	gl.TexParameteri(gles.Texture2D, gles.TextureMagFilter, int32(gles.Linear))
	gl.TexParameteri(gles.Texture2D, gles.TextureMinFilter, int32(gles.Linear))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapS, int32(gles.ClampToEdge))
	gl.TexParameteri(gles.Texture2D, gles.TextureWrapT, int32(gles.ClampToEdge))
	gl.TexParameteri(gles.Texture2D, gles.TextureBaseLevel, 0)
	gl.TexParameteri(gles.Texture2D, gles.TextureMaxLevel, 1)

	a.framebuffer = gl.GenFramebuffer()
	gl.BindFramebuffer(gles.Framebuffer, a.framebuffer)
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, a.texture, 0)
	if status := gl.CheckFramebufferStatus(gles.Framebuffer); status != gles.FramebufferComplete {
		a.release(gl)
		s.bindSystemFramebuffer()
		slogger().Warn("glstore: could not create texture atlas", "status", gles.FramebufferStatusString(status))
		return &FramebufferError{Op: "atlas", Status: status}
	}
	gl.Viewport(0, 0, int32(a.width), int32(a.height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gles.ColorBufferBit)
	gl.BindTexture(gles.Texture2D, 0)

	gl.Disable(gles.Blend)
	for _, p := range layout.Placements {
		t := s.textures.Get(Handle(p.Key))
		uv := a.members[Handle(p.Key)].uvRect
		gl.ActiveTexture(gles.Texture0)
		gl.BindTexture(gles.Texture2D, t.backing.name())
		s.effects.CopyToRect(uv.X, uv.Y, uv.Width, uv.Height)
	}
	s.bindSystemFramebuffer()

	slogger().Info("glstore: texture atlas rebuilt", "members", len(layout.Placements), "width", a.width, "height", a.height)
	return nil
}
