package glstore

import (
	"fmt"

	"github.com/gogpu/glstore/image"
)

// CanvasChannel selects a texture of a canvas texture bundle.
type CanvasChannel uint8

const (
	CanvasDiffuse CanvasChannel = iota
	CanvasNormal
	CanvasSpecular
)

// canvasTexture groups the textures and shading parameters used to draw a
// 2D item.
type canvasTexture struct {
	diffuse  Handle
	normal   Handle
	specular Handle

	specularColor image.Color
	shininess     float32

	filter TextureFilter
	repeat TextureRepeat
}

func newCanvasTexture() canvasTexture {
	return canvasTexture{
		specularColor: image.Color{R: 1, G: 1, B: 1, A: 1},
		shininess:     1,
	}
}

// AllocateCanvasTexture reserves a canvas texture handle.
func (s *Storage) AllocateCanvasTexture() Handle {
	return s.canvasTextures.Reserve()
}

// InitializeCanvasTexture creates an empty canvas texture bundle.
func (s *Storage) InitializeCanvasTexture(h Handle) error {
	return s.canvasTextures.Initialize(h, newCanvasTexture())
}

// FreeCanvasTexture destroys a canvas texture bundle. The referenced
// textures are not freed.
func (s *Storage) FreeCanvasTexture(h Handle) error {
	if !s.canvasTextures.Free(h) {
		return fmt.Errorf("%w: canvas texture %d", ErrInvalidHandle, h)
	}
	return nil
}

func (s *Storage) getCanvasTexture(h Handle, op string) *canvasTexture {
	ct := s.canvasTextures.Get(h)
	if ct == nil {
		slogger().Debug("glstore: canvas texture lookup failed", "op", op, "handle", h)
	}
	return ct
}

// SetCanvasTextureChannel sets one texture of the bundle. A zero texture
// clears the channel.
func (s *Storage) SetCanvasTextureChannel(h Handle, ch CanvasChannel, tex Handle) error {
	ct := s.getCanvasTexture(h, "SetCanvasTextureChannel")
	if ct == nil {
		return fmt.Errorf("%w: canvas texture %d", ErrInvalidHandle, h)
	}
	switch ch {
	case CanvasDiffuse:
		ct.diffuse = tex
	case CanvasNormal:
		ct.normal = tex
	case CanvasSpecular:
		ct.specular = tex
	default:
		return fmt.Errorf("%w: canvas channel %d", ErrInvalidOperation, ch)
	}
	return nil
}

// CanvasTextureChannel returns one texture of the bundle.
func (s *Storage) CanvasTextureChannel(h Handle, ch CanvasChannel) Handle {
	ct := s.getCanvasTexture(h, "CanvasTextureChannel")
	if ct == nil {
		return 0
	}
	switch ch {
	case CanvasDiffuse:
		return ct.diffuse
	case CanvasNormal:
		return ct.normal
	case CanvasSpecular:
		return ct.specular
	}
	return 0
}

// SetCanvasTextureShadingParameters sets the specular color and shininess.
func (s *Storage) SetCanvasTextureShadingParameters(h Handle, specular image.Color, shininess float32) {
	if ct := s.getCanvasTexture(h, "SetCanvasTextureShadingParameters"); ct != nil {
		ct.specularColor = specular
		ct.shininess = shininess
	}
}

// CanvasTextureShadingParameters returns the specular color and shininess.
func (s *Storage) CanvasTextureShadingParameters(h Handle) (specular image.Color, shininess float32) {
	if ct := s.getCanvasTexture(h, "CanvasTextureShadingParameters"); ct != nil {
		return ct.specularColor, ct.shininess
	}
	return image.Color{}, 0
}

// SetCanvasTextureFilter sets the sampling filter of a canvas texture.
func (s *Storage) SetCanvasTextureFilter(h Handle, f TextureFilter) {
	if ct := s.getCanvasTexture(h, "SetCanvasTextureFilter"); ct != nil {
		ct.filter = f
	}
}

// SetCanvasTextureRepeat sets the repeat mode of a canvas texture.
func (s *Storage) SetCanvasTextureRepeat(h Handle, r TextureRepeat) {
	if ct := s.getCanvasTexture(h, "SetCanvasTextureRepeat"); ct != nil {
		ct.repeat = r
	}
}

// CanvasTextureSampler returns the filter and wrap mode of the bundle.
func (s *Storage) CanvasTextureSampler(h Handle) (TextureFilter, TextureRepeat) {
	if ct := s.getCanvasTexture(h, "CanvasTextureSampler"); ct != nil {
		return ct.filter, ct.repeat
	}
	return FilterDefault, RepeatDefault
}

// TextureCanvasTexture returns the canvas bundle owned by texture h,
// creating one with h as its diffuse channel on first use. The bundle is
// freed with the texture.
func (s *Storage) TextureCanvasTexture(h Handle) Handle {
	t := s.getTexture(h, "TextureCanvasTexture")
	if t == nil {
		return 0
	}
	if !s.canvasTextures.Owns(t.canvasTexture) {
		ct := newCanvasTexture()
		ct.diffuse = h
		t.canvasTexture = s.canvasTextures.Make(ct)
	}
	return t.canvasTexture
}
