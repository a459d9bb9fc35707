package glstore

import (
	"testing"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

func TestDefaultTextures(t *testing.T) {
	s, dev := newTestStorage(t)

	for kind := DefaultWhite; kind < defaultTextureCount; kind++ {
		h := s.DefaultTexture(kind)
		if !h.IsValid() || !s.TextureIsActive(h) {
			t.Errorf("DefaultTexture(%d) = %d is not a live texture", kind, h)
		}
		if s.TextureWidth(h) != 4 || s.TextureHeight(h) != 4 {
			t.Errorf("DefaultTexture(%d) is %dx%d, want 4x4", kind, s.TextureWidth(h), s.TextureHeight(h))
		}
	}
	if s.DefaultTexture(defaultTextureCount) != 0 {
		t.Error("out of range default kind resolved")
	}

	white := dev.Texture(s.TextureNativeHandle(s.DefaultTexture(DefaultWhite)))
	if got := white.Levels(gles.Texture2D); got != 3 {
		t.Errorf("white default has %d levels, want 3", got)
	}
	if got := white.Level(gles.Texture2D, 0).At(1, 1, 0); got != (image.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("white default texel = %+v", got)
	}

	for _, kind := range []DefaultTexture{DefaultCubemapWhite, DefaultCubemapBlack} {
		h := s.DefaultTexture(kind)
		if got := s.TextureStoredCubeSides(h); got != 0x3F {
			t.Errorf("DefaultTexture(%d) stored sides = %#x, want 0x3f", kind, got)
		}
		if got := dev.Texture(s.TextureNativeHandle(h)).Target(); got != gles.TextureCubeMap {
			t.Errorf("DefaultTexture(%d) target = %#x", kind, got)
		}
	}

	if got := s.TextureDepth(s.DefaultTexture(Default3DBlack)); got != 4 {
		t.Errorf("3D default depth = %d, want 4", got)
	}

	depth := dev.Texture(s.TextureNativeHandle(s.DefaultTexture(DefaultDepth))).Level(gles.Texture2D, 0)
	if depth.Internal != gles.DepthComponent16 || len(depth.Data) != 32 {
		t.Fatalf("depth default = %#x with %d bytes", depth.Internal, len(depth.Data))
	}
	for i, b := range depth.Data {
		if b != 0xFF {
			t.Fatalf("depth byte %d = %#x, want 0xff", i, b)
		}
	}
	if got := dev.Texture(s.TextureNativeHandle(s.DefaultTexture(Default2DUint))).Level(gles.Texture2D, 0).Internal; got != gles.RGBA8UI {
		t.Errorf("uint default internal format = %#x", got)
	}
}

func TestPlaceholders(t *testing.T) {
	s, dev := newTestStorage(t, WithDefaultTextures(false))
	magenta := image.Color{R: 1, B: 1, A: 1}

	flat := s.AllocateTexture()
	if err := s.Initialize2DPlaceholder(flat); err != nil {
		t.Fatal(err)
	}
	if got := dev.Texture(s.TextureNativeHandle(flat)).Level(gles.Texture2D, 0).At(0, 0, 0); got != magenta {
		t.Errorf("2D placeholder texel = %+v", got)
	}

	cube := s.AllocateTexture()
	if err := s.Initialize2DLayeredPlaceholder(cube, LayeredCubemap); err != nil {
		t.Fatal(err)
	}
	if s.TextureStoredCubeSides(cube) != 0x3F {
		t.Error("cube placeholder is missing sides")
	}

	array := s.AllocateTexture()
	if err := s.Initialize2DLayeredPlaceholder(array, Layered2DArray); err != nil {
		t.Fatal(err)
	}
	if got := dev.Texture(s.TextureNativeHandle(array)).Level(gles.Texture2DArray, 0).Depth; got != 1 {
		t.Errorf("array placeholder has %d layers, want 1", got)
	}

	volume := s.AllocateTexture()
	if err := s.Initialize3DPlaceholder(volume); err != nil {
		t.Fatal(err)
	}
	if got := dev.Texture(s.TextureNativeHandle(volume)).Level(gles.Texture3D, 0).At(3, 3, 3); got != magenta {
		t.Errorf("3D placeholder texel = %+v", got)
	}
}
