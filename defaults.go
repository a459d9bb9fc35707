package glstore

import (
	"fmt"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// DefaultTexture names a texture of the default set built by New.
type DefaultTexture uint8

const (
	DefaultWhite DefaultTexture = iota
	DefaultBlack
	DefaultTransparent
	DefaultNormal
	DefaultAniso
	Default2DArrayWhite
	DefaultCubemapWhite
	DefaultCubemapBlack
	Default3DWhite
	Default3DBlack
	Default2DUint
	DefaultDepth

	defaultTextureCount
)

const defaultTextureSize = 4

// DefaultTexture returns a texture of the default set, or 0 when the set
// was not built.
func (s *Storage) DefaultTexture(kind DefaultTexture) Handle {
	if kind >= defaultTextureCount {
		return 0
	}
	return s.defaults[kind]
}

func solidImage(c image.Color, mipmaps bool) (*image.Image, error) {
	img, err := image.New(defaultTextureSize, defaultTextureSize, mipmaps, image.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	if err := img.Fill(c); err != nil {
		return nil, err
	}
	return img, nil
}

func repeatImage(img *image.Image, n int) []*image.Image {
	out := make([]*image.Image, n)
	for i := range out {
		out[i] = img
	}
	return out
}

func (s *Storage) createDefaultTextures() error {
	colors := []struct {
		kind  DefaultTexture
		color image.Color
	}{
		{DefaultWhite, image.Color{R: 1, G: 1, B: 1, A: 1}},
		{DefaultBlack, image.Color{A: 1}},
		{DefaultTransparent, image.Color{}},
		{DefaultNormal, image.Color{R: 0.5, G: 0.5, B: 1, A: 1}},
		{DefaultAniso, image.Color{R: 1, G: 0.5, B: 1, A: 1}},
	}
	for _, c := range colors {
		img, err := solidImage(c.color, true)
		if err != nil {
			return err
		}
		h := s.AllocateTexture()
		if err := s.Initialize2D(h, img); err != nil {
			return fmt.Errorf("default texture %d: %w", c.kind, err)
		}
		s.defaults[c.kind] = h
	}

	white, err := solidImage(image.Color{R: 1, G: 1, B: 1, A: 1}, true)
	if err != nil {
		return err
	}
	black, err := solidImage(image.Color{A: 1}, true)
	if err != nil {
		return err
	}

	layered := []struct {
		kind   DefaultTexture
		layers []*image.Image
		lt     LayeredType
	}{
		{Default2DArrayWhite, repeatImage(white, 1), Layered2DArray},
		{DefaultCubemapWhite, repeatImage(white, 6), LayeredCubemap},
		{DefaultCubemapBlack, repeatImage(black, 6), LayeredCubemap},
	}
	for _, l := range layered {
		h := s.AllocateTexture()
		if err := s.Initialize2DLayered(h, l.layers, l.lt); err != nil {
			return fmt.Errorf("default texture %d: %w", l.kind, err)
		}
		s.defaults[l.kind] = h
	}

	volumes := []struct {
		kind DefaultTexture
		img  *image.Image
	}{
		{Default3DWhite, white},
		{Default3DBlack, black},
	}
	for _, v := range volumes {
		h := s.AllocateTexture()
		n := defaultTextureSize
		if err := s.Initialize3D(h, image.FormatRGBA8, n, n, n, false, repeatImage(v.img, n)); err != nil {
			return fmt.Errorf("default texture %d: %w", v.kind, err)
		}
		s.defaults[v.kind] = h
	}

	s.defaults[Default2DUint] = s.createRawDefault(gles.RGBA8UI, gles.RGBAInteger, gles.UnsignedByte,
		make([]byte, defaultTextureSize*defaultTextureSize*4))

	depth := make([]byte, defaultTextureSize*defaultTextureSize*2)
	for i := 0; i < len(depth); i += 2 {
		depth[i], depth[i+1] = 0xFF, 0xFF
	}
	s.defaults[DefaultDepth] = s.createRawDefault(gles.DepthComponent16, gles.DepthComponent, gles.UnsignedShort, depth)

	s.gl.BindTexture(gles.Texture2D, 0)
	return nil
}

// createRawDefault uploads a 4x4 texture in a format images cannot describe.
func (s *Storage) createRawDefault(internal, format, ty gles.Enum, data []byte) Handle {
	n := defaultTextureSize
	t := texture{
		backing:     owned(s.gl.GenTexture()),
		kind:        Kind2D,
		target:      gles.Texture2D,
		width:       n,
		height:      n,
		allocWidth:  n,
		allocHeight: n,
		depth:       1,
		layers:      1,
		format:      image.FormatRGBA8,
		realFormat:  image.FormatRGBA8,
		glFormat:    GLFormat{Format: format, InternalFormat: internal, Type: ty},
		mipmaps:     1,
		active:      true,
	}
	s.gl.BindTexture(gles.Texture2D, t.backing.id)
	s.gl.TexImage2D(gles.Texture2D, 0, internal, int32(n), int32(n), format, ty, data)
	t.setFilter(s.gl, FilterNearest)
	return s.textures.Make(t)
}

var placeholderColor = image.Color{R: 1, G: 0, B: 1, A: 1}

// Initialize2DPlaceholder fills h with a 4x4 magenta texture.
func (s *Storage) Initialize2DPlaceholder(h Handle) error {
	img, err := solidImage(placeholderColor, false)
	if err != nil {
		return err
	}
	return s.Initialize2D(h, img)
}

// Initialize2DLayeredPlaceholder fills h with a magenta 2D array of one
// layer or a magenta cubemap.
func (s *Storage) Initialize2DLayeredPlaceholder(h Handle, lt LayeredType) error {
	img, err := solidImage(placeholderColor, false)
	if err != nil {
		return err
	}
	n := 1
	if lt == LayeredCubemap {
		n = 6
	}
	return s.Initialize2DLayered(h, repeatImage(img, n), lt)
}

// Initialize3DPlaceholder fills h with a 4x4x4 magenta volume.
func (s *Storage) Initialize3DPlaceholder(h Handle) error {
	img, err := solidImage(placeholderColor, false)
	if err != nil {
		return err
	}
	n := defaultTextureSize
	return s.Initialize3D(h, image.FormatRGBA8, n, n, n, false, repeatImage(img, n))
}
