package glstore

import (
	"fmt"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// upload is an image ready to be sent to a texture.
type upload struct {
	img        *image.Image
	glFormat   GLFormat
	realFormat image.Format
	layer      int
	blitTarget gles.Enum
}

// prepareUpload validates img against t and returns the data to upload.
func (s *Storage) prepareUpload(t *texture, img *image.Image, layer int) (*upload, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidOperation)
	}
	if img.Format() != t.format {
		return nil, fmt.Errorf("%w: image format %s does not match texture format %s", ErrInvalidOperation, img.Format(), t.format)
	}
	if img.Width() <= 0 || img.Height() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidOperation)
	}
	if layer < 0 || layer >= max(1, t.layers) {
		return nil, fmt.Errorf("%w: layer %d out of range", ErrInvalidOperation, layer)
	}

	prepared, gf, real, err := PrepareImage(img, s.config, t.resizeToPO2)
	if err != nil {
		return nil, err
	}
	if t.resizeToPO2 {
		if img.IsCompressed() {
			slogger().Warn("glstore: power of two texture was decompressed, this hurts performance and memory usage",
				"path", t.path, "format", img.Format())
		}
		if prepared == img {
			prepared = img.Duplicate()
		}
		if err := prepared.ResizeToPowerOfTwo(); err != nil {
			return nil, fmt.Errorf("glstore: resize to power of two: %w", err)
		}
	}

	blit := t.target
	if t.target == gles.TextureCubeMap {
		blit = gles.CubeFace(layer)
	}
	return &upload{img: prepared, glFormat: gf, realFormat: real, layer: layer, blitTarget: blit}, nil
}

// upload sends every level of up to the storage of t.
func (s *Storage) upload(t *texture, up *upload) {
	gl := s.gl
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(t.target, t.backing.name())

	t.setFilter(gl, FilterNearest)
	t.setRepeat(gl, RepeatEnabled)

	if s.config.DesktopGL {
		swizzle := [4]gles.Enum{gles.Red, gles.Green, gles.Blue, gles.Alpha}
		switch t.format {
		case image.FormatL8:
			swizzle = [4]gles.Enum{gles.Red, gles.Red, gles.Red, gles.One}
		case image.FormatLA8:
			swizzle = [4]gles.Enum{gles.Red, gles.Red, gles.Red, gles.Green}
		}
		gl.TexParameteri(t.target, gles.TextureSwizzleR, int32(swizzle[0]))
		gl.TexParameteri(t.target, gles.TextureSwizzleG, int32(swizzle[1]))
		gl.TexParameteri(t.target, gles.TextureSwizzleB, int32(swizzle[2]))
		gl.TexParameteri(t.target, gles.TextureSwizzleA, int32(swizzle[3]))
	}

	img := up.img
	gf := up.glFormat
	mipmaps := 1
	if img.HasMipmaps() {
		mipmaps = img.MipmapCount() + 1
	}

	w, h := img.Width(), img.Height()
	total := 0
	for level := range mipmaps {
		data := img.Level(level)
		if gf.Compressed {
			gl.PixelStorei(gles.UnpackAlignment, 4)
			gl.CompressedTexImage2D(up.blitTarget, int32(level), gf.InternalFormat, int32(w), int32(h), data)
		} else {
			gl.PixelStorei(gles.UnpackAlignment, 1)
			if t.target == gles.Texture2DArray {
				gl.TexSubImage3D(gles.Texture2DArray, int32(level), 0, 0, int32(up.layer), int32(w), int32(h), 1, gf.Format, gf.Type, data)
			} else {
				gl.TexImage2D(up.blitTarget, int32(level), gf.InternalFormat, int32(w), int32(h), gf.Format, gf.Type, data)
			}
		}
		total += len(data)
		w = max(1, w>>1)
		h = max(1, h>>1)
	}

	slogger().Debug("glstore: texture upload", "format", t.format, "real_format", up.realFormat,
		"width", img.Width(), "height", img.Height(), "levels", mipmaps, "bytes", total)

	t.totalDataSize = total
	t.storedCubeSides |= 1 << up.layer
	t.mipmaps = mipmaps
	t.realFormat = up.realFormat
	t.glFormat = gf
	t.allocWidth, t.allocHeight = img.Width(), img.Height()
}

// SetData re-uploads the contents of a texture layer. Cubemap layers are
// faces in the order -X, +X, -Y, +Y, -Z, +Z.
//
// Uploads to 3D textures are ignored.
func (s *Storage) SetData(h Handle, img *image.Image, layer int) error {
	t := s.getTexture(h, "SetData")
	if t == nil {
		return fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	if t.target == gles.Texture3D {
		// TODO: upload 3D slices once TexSubImage3D slice uploads are wired here.
		slogger().Debug("glstore: SetData on a 3D texture is ignored", "handle", h)
		return nil
	}
	if !t.active {
		return fmt.Errorf("%w: texture %d is not active", ErrInvalidOperation, h)
	}
	if t.mode == ModeRenderTarget {
		return fmt.Errorf("%w: texture %d belongs to a render target", ErrInvalidOperation, h)
	}
	if t.mode == ModeProxy || t.mode == ModeExternal {
		return fmt.Errorf("%w: texture %d does not own its storage", ErrInvalidOperation, h)
	}

	up, err := s.prepareUpload(t, img, layer)
	if err != nil {
		return err
	}
	s.upload(t, up)
	if !t.sizeOverride {
		t.width, t.height = img.Width(), img.Height()
	}
	s.atlas.markDirtyOnTexture(h)
	return nil
}

// SetDataPartial would update a region of one level. It is not implemented.
func (s *Storage) SetDataPartial(h Handle, img *image.Image, srcX, srcY, srcW, srcH, dstX, dstY, dstMip, layer int) error {
	return fmt.Errorf("%w: partial texture update", ErrNotImplemented)
}

// Texture2DGet reads a 2D texture back from the GPU.
//
// On desktop profiles every level is read in the stored format and
// converted to the logical format. Otherwise the base level is drawn into
// a temporary RGBA8 framebuffer, read, converted to the logical format and
// its mipmaps regenerated on the CPU. The call stalls the pipeline.
func (s *Storage) Texture2DGet(h Handle) (*image.Image, error) {
	t := s.getTexture(h, "Texture2DGet")
	if t == nil {
		return nil, fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	if t.target != gles.Texture2D {
		return nil, fmt.Errorf("%w: readback of %s textures", ErrNotImplemented, t.kindName())
	}
	if !t.active || t.backing.name() == 0 || t.allocWidth <= 0 || t.allocHeight <= 0 {
		return nil, fmt.Errorf("%w: texture %d has no storage", ErrInvalidOperation, h)
	}
	if s.config.DesktopGL {
		return s.readbackLevels(t)
	}
	return s.readbackFramebuffer(t)
}

func (s *Storage) readbackLevels(t *texture) (*image.Image, error) {
	gl := s.gl
	hasMipmaps := t.mipmaps > 1
	data := make([]byte, image.DataSize(t.allocWidth, t.allocHeight, t.realFormat, hasMipmaps))

	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(t.target, t.backing.name())

	w, h := t.allocWidth, t.allocHeight
	ofs := 0
	for level := range t.mipmaps {
		size := t.realFormat.LevelBytes(w, h)
		if ofs+size > len(data) {
			break
		}
		dst := data[ofs : ofs+size]
		if t.glFormat.Compressed {
			gl.PixelStorei(gles.PackAlignment, 4)
			gl.GetCompressedTexImage(t.target, int32(level), dst)
		} else {
			gl.PixelStorei(gles.PackAlignment, 1)
			gl.GetTexImage(t.target, int32(level), t.glFormat.Format, t.glFormat.Type, dst)
		}
		ofs += size
		w = max(1, w>>1)
		h = max(1, h>>1)
	}

	img, err := image.NewFromData(t.allocWidth, t.allocHeight, hasMipmaps, t.realFormat, data)
	if err != nil {
		return nil, fmt.Errorf("glstore: readback: %w", err)
	}
	if t.format != t.realFormat && !t.format.IsCompressed() {
		if err := img.Convert(t.format); err != nil {
			return nil, fmt.Errorf("glstore: readback: %w", err)
		}
	}
	return img, nil
}

func (s *Storage) readbackFramebuffer(t *texture) (*image.Image, error) {
	gl := s.gl
	w, h := t.allocWidth, t.allocHeight

	fbo := gl.GenFramebuffer()
	color := gl.GenTexture()
	defer func() {
		s.bindSystemFramebuffer()
		gl.DeleteTexture(color)
		gl.DeleteFramebuffer(fbo)
	}()

	gl.BindFramebuffer(gles.Framebuffer, fbo)
	gl.BindTexture(gles.Texture2D, color)
	gl.TexImage2D(gles.Texture2D, 0, gles.RGBA, int32(w), int32(h), gles.RGBA, gles.UnsignedByte, nil)
	gl.TexParameteri(gles.Texture2D, gles.TextureMinFilter, int32(gles.Linear))
	gl.TexParameteri(gles.Texture2D, gles.TextureMagFilter, int32(gles.Linear))
	gl.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, color, 0)
	if status := gl.CheckFramebufferStatus(gles.Framebuffer); status != gles.FramebufferComplete {
		return nil, &FramebufferError{Op: "readback", Status: status}
	}

	gl.DepthMask(false)
	gl.Disable(gles.DepthTest)
	gl.Disable(gles.CullFace)
	gl.Disable(gles.Blend)
	gl.ColorMask(true, true, true, true)
	gl.ActiveTexture(gles.Texture0)
	gl.BindTexture(gles.Texture2D, t.backing.name())

	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gles.ColorBufferBit)

	s.effects.CopyToRect(0, 0, 1, 1)

	data := make([]byte, w*h*4)
	gl.PixelStorei(gles.PackAlignment, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gles.RGBA, gles.UnsignedByte, data)

	img, err := image.NewFromData(w, h, false, image.FormatRGBA8, data)
	if err != nil {
		return nil, fmt.Errorf("glstore: readback: %w", err)
	}
	if t.format != image.FormatRGBA8 && !t.format.IsCompressed() {
		if err := img.Convert(t.format); err != nil {
			return nil, fmt.Errorf("glstore: readback: %w", err)
		}
	}
	if t.mipmaps > 1 {
		if err := img.GenerateMipmaps(); err != nil {
			return nil, fmt.Errorf("glstore: readback: %w", err)
		}
	}
	return img, nil
}

func (t *texture) kindName() string {
	switch t.kind {
	case Kind3D:
		return "3D"
	case KindLayered:
		if t.layeredType == LayeredCubemap {
			return "cubemap"
		}
		return "2D array"
	}
	return "2D"
}
