package glstore

import (
	"errors"
	"testing"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

func TestAtlasPlaceholder(t *testing.T) {
	s, dev := newTestStorage(t)

	if w, h := s.AtlasSize(); w != 4 || h != 4 {
		t.Fatalf("AtlasSize() = %dx%d, want 4x4", w, h)
	}
	surf := dev.Texture(s.AtlasTexture()).Level(gles.Texture2D, 0)
	if got := surf.At(2, 2, 0); got != (image.Color{A: 1}) {
		t.Errorf("placeholder texel = %+v, want opaque black", got)
	}
	if s.AtlasDirty() {
		t.Error("empty atlas is dirty")
	}
}

func TestAtlasReferenceCounting(t *testing.T) {
	s, _ := newTestStorage(t)
	tex := newTexture2D(t, s, filledImage(t, 4, 4, image.FormatRGBA8, red, false))

	s.AtlasAdd(tex)
	s.AtlasAdd(tex)
	if s.AtlasUsers(tex) != 2 || !s.AtlasDirty() {
		t.Fatalf("users = %d, dirty = %v", s.AtlasUsers(tex), s.AtlasDirty())
	}
	if err := s.AtlasRemove(tex); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.AtlasUVRect(tex); !ok {
		t.Error("member erased while still referenced")
	}
	if err := s.AtlasRemove(tex); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.AtlasUVRect(tex); ok {
		t.Error("member kept after its last reference")
	}
	if err := s.AtlasRemove(tex); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("AtlasRemove(non-member) = %v, want ErrInvalidOperation", err)
	}

	s.AtlasAdd(tex)
	s.AtlasAdd(tex)
	s.AtlasRemoveTexture(tex)
	if s.AtlasUsers(tex) != 0 {
		t.Error("AtlasRemoveTexture() kept references")
	}
}

func TestUpdateTextureAtlas(t *testing.T) {
	s, dev := newTestStorage(t)
	a := newTexture2D(t, s, filledImage(t, 8, 8, image.FormatRGBA8, red, false))
	b := newTexture2D(t, s, filledImage(t, 4, 4, image.FormatRGBA8, green, false))
	s.AtlasAdd(a)
	s.AtlasAdd(b)

	if err := s.UpdateTextureAtlas(); err != nil {
		t.Fatalf("UpdateTextureAtlas() = %v", err)
	}
	if s.AtlasDirty() {
		t.Error("atlas still dirty after rebuild")
	}
	w, h := s.AtlasSize()
	surf := dev.Texture(s.AtlasTexture()).Level(gles.Texture2D, 0)
	if surf == nil || surf.Width != w || surf.Height != h {
		t.Fatalf("atlas surface = %+v, want %dx%d", surf, w, h)
	}
	if !dev.IsFramebuffer(s.AtlasFramebuffer()) {
		t.Error("atlas has no framebuffer")
	}

	for _, m := range []struct {
		h    Handle
		want image.Color
		size int
	}{{a, red, 8}, {b, green, 4}} {
		uv, ok := s.AtlasUVRect(m.h)
		if !ok {
			t.Fatalf("texture %d missing from the atlas", m.h)
		}
		px, py := int(uv.X*float32(w)), int(uv.Y*float32(h))
		if got := int(uv.Width * float32(w)); got != m.size {
			t.Errorf("texture %d packed %d wide, want %d", m.h, got, m.size)
		}
		if got := surf.At(px+1, py+1, 0); got != m.want {
			t.Errorf("atlas texel of texture %d = %+v, want %+v", m.h, got, m.want)
		}
	}
	if dev.BoundFramebuffer() != s.SystemFramebuffer() {
		t.Error("rebuild left the atlas framebuffer bound")
	}

	textures := dev.LiveTextures()
	if err := s.UpdateTextureAtlas(); err != nil || dev.LiveTextures() != textures {
		t.Errorf("clean atlas rebuilt: %v", err)
	}
	if err := s.FreeTexture(b); err != nil {
		t.Fatal(err)
	}
	if s.AtlasUsers(b) != 0 {
		t.Error("freed texture still an atlas member")
	}
}

func TestUpdateTextureAtlasFailure(t *testing.T) {
	s, dev := newTestStorage(t)
	tex := newTexture2D(t, s, filledImage(t, 8, 8, image.FormatRGBA8, red, false))
	s.AtlasAdd(tex)
	textures := dev.LiveTextures()

	dev.ForceIncomplete = 1
	err := s.UpdateTextureAtlas()
	var fe *FramebufferError
	if !errors.As(err, &fe) || fe.Op != "atlas" {
		t.Fatalf("UpdateTextureAtlas() = %v, want an atlas FramebufferError", err)
	}
	if s.AtlasTexture() != 0 || s.AtlasFramebuffer() != 0 {
		t.Error("failed atlas kept its objects")
	}
	// the placeholder is gone as well
	if dev.LiveTextures() != textures-1 {
		t.Errorf("live textures = %d, want %d", dev.LiveTextures(), textures-1)
	}

	s.AtlasMarkDirtyOnTexture(tex)
	if err := s.UpdateTextureAtlas(); err != nil {
		t.Fatalf("retry UpdateTextureAtlas() = %v", err)
	}
	if s.AtlasTexture() == 0 {
		t.Error("retry left the atlas without a texture")
	}
}
