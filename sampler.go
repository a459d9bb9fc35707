package glstore

import "github.com/gogpu/glstore/gles"

// TextureFilter is a canvas sampling filter.
type TextureFilter uint8

const (
	FilterDefault TextureFilter = iota
	FilterNearest
	FilterLinear
	FilterNearestWithMipmaps
	FilterLinearWithMipmaps
	FilterNearestWithMipmapsAnisotropic
	FilterLinearWithMipmapsAnisotropic
)

// TextureRepeat is a canvas wrap mode.
type TextureRepeat uint8

const (
	RepeatDefault TextureRepeat = iota
	RepeatDisabled
	RepeatEnabled
	RepeatMirror
)

// samplerState caches the filter and wrap parameters last set on a texture.
// The zero value forces the next set to reach GL.
type samplerState struct {
	filter TextureFilter
	repeat TextureRepeat
}

func filterParams(f TextureFilter) (minFilter, magFilter gles.Enum) {
	switch f {
	case FilterLinear:
		return gles.Linear, gles.Linear
	case FilterNearestWithMipmaps:
		return gles.NearestMipmapNearest, gles.Nearest
	case FilterLinearWithMipmaps:
		return gles.LinearMipmapLinear, gles.Linear
	case FilterNearestWithMipmapsAnisotropic:
		return gles.NearestMipmapLinear, gles.Nearest
	case FilterLinearWithMipmapsAnisotropic:
		return gles.LinearMipmapLinear, gles.Linear
	}
	return gles.Nearest, gles.Nearest
}

func repeatParam(r TextureRepeat) gles.Enum {
	switch r {
	case RepeatEnabled:
		return gles.Repeat
	case RepeatMirror:
		return gles.MirroredRepeat
	}
	return gles.ClampToEdge
}

// setFilter sets the filter of the bound texture when it changed.
func (t *texture) setFilter(gl gles.Functions, f TextureFilter) {
	if t.sampler.filter == f {
		return
	}
	t.sampler.filter = f
	minFilter, magFilter := filterParams(f)
	gl.TexParameteri(t.target, gles.TextureMinFilter, int32(minFilter))
	gl.TexParameteri(t.target, gles.TextureMagFilter, int32(magFilter))
}

// setRepeat sets the wrap mode of the bound texture when it changed.
func (t *texture) setRepeat(gl gles.Functions, r TextureRepeat) {
	if t.sampler.repeat == r {
		return
	}
	t.sampler.repeat = r
	p := int32(repeatParam(r))
	gl.TexParameteri(t.target, gles.TextureWrapT, p)
	gl.TexParameteri(t.target, gles.TextureWrapR, p)
	gl.TexParameteri(t.target, gles.TextureWrapS, p)
}

// SetTextureSampler binds h and applies a filter and wrap mode. Unchanged
// state is not sent again.
func (s *Storage) SetTextureSampler(h Handle, f TextureFilter, r TextureRepeat) error {
	if err := s.BindTexture(h, 0); err != nil {
		return err
	}
	t := s.textures.Get(h)
	t.setFilter(s.gl, f)
	t.setRepeat(s.gl, r)
	return nil
}
