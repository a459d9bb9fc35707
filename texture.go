package glstore

import (
	"fmt"
	"slices"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
	"github.com/gogpu/glstore/internal/owner"
)

// Kind is the shape of a texture.
type Kind uint8

const (
	Kind2D Kind = iota
	Kind3D
	KindLayered
)

// LayeredType selects the layout of a KindLayered texture.
type LayeredType uint8

const (
	Layered2DArray LayeredType = iota
	LayeredCubemap
)

// Mode describes who owns the GL storage of a texture.
type Mode uint8

const (
	// ModePlain textures own their storage.
	ModePlain Mode = iota
	// ModeExternal textures wrap storage owned by someone else.
	ModeExternal
	// ModeProxy textures mirror another texture.
	ModeProxy
	// ModeRenderTarget textures wrap the color attachment of a render target.
	ModeRenderTarget
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeExternal:
		return "external"
	case ModeProxy:
		return "proxy"
	case ModeRenderTarget:
		return "render_target"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

type backingKind uint8

const (
	backingNone backingKind = iota
	backingOwned
	backingBorrowed
)

// backing is the GL texture behind a record. Only owned storage is deleted
// when the record goes away.
type backing struct {
	kind backingKind
	id   uint32
}

func owned(id uint32) backing    { return backing{kind: backingOwned, id: id} }
func borrowed(id uint32) backing { return backing{kind: backingBorrowed, id: id} }

// name returns the GL texture name, or 0 without storage.
func (b backing) name() uint32 {
	if b.kind == backingNone {
		return 0
	}
	return b.id
}

// release deletes owned storage and resets b.
func (b *backing) release(gl gles.Functions) {
	switch b.kind {
	case backingOwned:
		if b.id != 0 {
			gl.DeleteTexture(b.id)
		}
	case backingBorrowed, backingNone:
	}
	*b = backing{}
}

type texture struct {
	mode    Mode
	backing backing

	kind        Kind
	layeredType LayeredType
	target      gles.Enum

	// width and height are the logical size reported to users. allocWidth
	// and allocHeight are the size of the GL storage.
	width, height           int
	allocWidth, allocHeight int
	depth, layers           int
	sizeOverride            bool

	format     image.Format
	realFormat image.Format
	glFormat   GLFormat
	mipmaps    int
	active     bool

	// renderTarget is the render target using this texture, if any.
	renderTarget Handle

	proxyTo Handle
	proxies []Handle

	canvasTexture Handle

	resizeToPO2     bool
	forceRedraw     bool
	totalDataSize   int
	storedCubeSides uint8
	path            string

	listeners map[DetectEvent][]DetectListener

	sampler samplerState
}

// copyFrom copies the metadata and storage name of src. Ownership, proxy
// links and listeners are left alone.
func (t *texture) copyFrom(src *texture) {
	t.kind = src.kind
	t.layeredType = src.layeredType
	t.target = src.target
	t.width, t.height = src.width, src.height
	t.allocWidth, t.allocHeight = src.allocWidth, src.allocHeight
	t.depth, t.layers = src.depth, src.layers
	t.sizeOverride = src.sizeOverride
	t.format = src.format
	t.realFormat = src.realFormat
	t.glFormat = src.glFormat
	t.mipmaps = src.mipmaps
	t.active = src.active
	t.resizeToPO2 = src.resizeToPO2
	t.forceRedraw = src.forceRedraw
	t.totalDataSize = src.totalDataSize
	t.storedCubeSides = src.storedCubeSides
	t.path = src.path
	t.sampler = samplerState{}
}

// getTexture resolves h, logging a miss.
func (s *Storage) getTexture(h Handle, op string) *texture {
	t := s.textures.Get(h)
	if t == nil {
		slogger().Debug("glstore: texture lookup failed", "op", op, "handle", h)
	}
	return t
}

// AllocateTexture reserves a texture handle. The handle does not resolve
// until one of the Initialize methods succeeds.
func (s *Storage) AllocateTexture() Handle {
	return s.textures.Reserve()
}

func (s *Storage) checkReserved(h Handle) error {
	if s.textures.State(h) != owner.StateReserved {
		return fmt.Errorf("%w: texture %d is not reserved", ErrInvalidHandle, h)
	}
	return nil
}

// Initialize2D creates a 2D texture from img and uploads its levels.
//
// On failure the handle stays reserved and no GL object is left behind.
func (s *Storage) Initialize2D(h Handle, img *image.Image) error {
	if err := s.checkReserved(h); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidOperation)
	}
	if img.Width() <= 0 || img.Height() <= 0 {
		return fmt.Errorf("%w: empty image", ErrInvalidOperation)
	}
	gf, _, err := TranslateFormat(img.Format(), s.config)
	if err != nil {
		return err
	}

	t := texture{
		kind:        Kind2D,
		target:      gles.Texture2D,
		width:       img.Width(),
		height:      img.Height(),
		allocWidth:  img.Width(),
		allocHeight: img.Height(),
		depth:       1,
		layers:      1,
		format:      img.Format(),
		realFormat:  img.Format(),
		glFormat:    gf,
		mipmaps:     img.MipmapCount() + 1,
		active:      true,
	}
	up, err := s.prepareUpload(&t, img, 0)
	if err != nil {
		return err
	}
	t.backing = owned(s.gl.GenTexture())
	s.upload(&t, up)
	return s.textures.Initialize(h, t)
}

// Initialize2DLayered creates a 2D array or cubemap texture from layers.
// Cubemaps take exactly six layers in the order -X, +X, -Y, +Y, -Z, +Z.
// Every layer must share the size, format and mipmap chain of the first.
func (s *Storage) Initialize2DLayered(h Handle, layers []*image.Image, lt LayeredType) error {
	if err := s.checkReserved(h); err != nil {
		return err
	}
	if len(layers) == 0 || layers[0] == nil {
		return fmt.Errorf("%w: no layers", ErrInvalidOperation)
	}
	if lt == LayeredCubemap && len(layers) != 6 {
		return fmt.Errorf("%w: cubemap needs 6 layers, got %d", ErrInvalidOperation, len(layers))
	}
	first := layers[0]
	for i, l := range layers {
		if l == nil {
			return fmt.Errorf("%w: layer %d is nil", ErrInvalidOperation, i)
		}
		if l.Width() != first.Width() || l.Height() != first.Height() ||
			l.Format() != first.Format() || l.MipmapCount() != first.MipmapCount() {
			return fmt.Errorf("%w: layer %d does not match layer 0", ErrInvalidOperation, i)
		}
	}
	gf, _, err := TranslateFormat(first.Format(), s.config)
	if err != nil {
		return err
	}

	t := texture{
		kind:        KindLayered,
		layeredType: lt,
		target:      gles.Texture2DArray,
		width:       first.Width(),
		height:      first.Height(),
		allocWidth:  first.Width(),
		allocHeight: first.Height(),
		depth:       1,
		layers:      len(layers),
		format:      first.Format(),
		realFormat:  first.Format(),
		glFormat:    gf,
		mipmaps:     first.MipmapCount() + 1,
		active:      true,
	}
	if lt == LayeredCubemap {
		t.target = gles.TextureCubeMap
	}

	uploads := make([]*upload, len(layers))
	for i, l := range layers {
		if uploads[i], err = s.prepareUpload(&t, l, i); err != nil {
			return err
		}
	}

	t.backing = owned(s.gl.GenTexture())
	if t.target == gles.Texture2DArray {
		// allocate every level before the per-layer uploads
		up := uploads[0]
		s.gl.ActiveTexture(gles.Texture0)
		s.gl.BindTexture(t.target, t.backing.id)
		lw, lh := up.img.Width(), up.img.Height()
		for level := range up.img.MipmapCount() + 1 {
			if !up.glFormat.Compressed {
				s.gl.TexImage3D(t.target, int32(level), up.glFormat.InternalFormat, int32(lw), int32(lh), int32(len(layers)),
					up.glFormat.Format, up.glFormat.Type, nil)
			}
			lw, lh = max(1, lw>>1), max(1, lh>>1)
		}
	}
	for _, up := range uploads {
		s.upload(&t, up)
	}
	return s.textures.Initialize(h, t)
}

// Initialize3D creates a 3D texture from depth slices. Only level 0 is
// uploaded; mipmaps records whether the caller supplied a chain.
func (s *Storage) Initialize3D(h Handle, format image.Format, width, height, depth int, mipmaps bool, slices []*image.Image) error {
	if err := s.checkReserved(h); err != nil {
		return err
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return fmt.Errorf("%w: 3D size %dx%dx%d", ErrInvalidOperation, width, height, depth)
	}
	if len(slices) < depth {
		return fmt.Errorf("%w: 3D texture needs %d slices, got %d", ErrInvalidOperation, depth, len(slices))
	}
	gf, need, err := TranslateFormat(format, s.config)
	if err != nil {
		return err
	}

	realFormat := format
	data := make([]byte, 0, format.LevelBytes(width, height)*depth)
	for i, sl := range slices[:depth] {
		if sl == nil || sl.Width() != width || sl.Height() != height || sl.Format() != format {
			return fmt.Errorf("%w: slice %d does not match the 3D texture", ErrInvalidOperation, i)
		}
		up := sl
		if need {
			var perr error
			up, gf, realFormat, perr = PrepareImage(sl, s.config, true)
			if perr != nil {
				return perr
			}
		}
		data = append(data, up.Level(0)...)
	}

	levels := 1
	if mipmaps {
		levels += image.RequiredMipmaps(width, height)
	}
	t := texture{
		kind:          Kind3D,
		target:        gles.Texture3D,
		width:         width,
		height:        height,
		allocWidth:    width,
		allocHeight:   height,
		depth:         depth,
		layers:        1,
		format:        format,
		realFormat:    realFormat,
		glFormat:      gf,
		mipmaps:       levels,
		active:        true,
		totalDataSize: len(data),
		backing:       owned(s.gl.GenTexture()),
	}

	s.gl.ActiveTexture(gles.Texture0)
	s.gl.BindTexture(t.target, t.backing.id)
	if gf.Compressed {
		s.gl.PixelStorei(gles.UnpackAlignment, 4)
	} else {
		s.gl.PixelStorei(gles.UnpackAlignment, 1)
	}
	s.gl.TexImage3D(t.target, 0, gf.InternalFormat, int32(width), int32(height), int32(depth), gf.Format, gf.Type, data)
	s.gl.TexParameteri(t.target, gles.TextureBaseLevel, 0)
	s.gl.TexParameteri(t.target, gles.TextureMaxLevel, 0)
	t.setFilter(s.gl, FilterNearest)
	t.setRepeat(s.gl, RepeatEnabled)
	return s.textures.Initialize(h, t)
}

// InitializeExternal wraps a GL texture owned by someone else. Freeing the
// returned handle never deletes nativeID.
func (s *Storage) InitializeExternal(kind Kind, format image.Format, nativeID uint32, width, height, depth, layers int, lt LayeredType) Handle {
	t := texture{
		mode:        ModeExternal,
		backing:     borrowed(nativeID),
		kind:        kind,
		layeredType: lt,
		width:       width,
		height:      height,
		allocWidth:  width,
		allocHeight: height,
		depth:       depth,
		layers:      layers,
		format:      format,
		realFormat:  format,
		mipmaps:     1,
		active:      true,
	}
	switch kind {
	case Kind3D:
		t.target = gles.Texture3D
	case KindLayered:
		t.target = gles.Texture2DArray
		if lt == LayeredCubemap {
			t.target = gles.TextureCubeMap
		}
	default:
		t.target = gles.Texture2D
	}
	if gf, _, err := TranslateFormat(format, s.config); err == nil {
		t.glFormat = gf
	}
	return s.textures.Make(t)
}

// InitializeProxy makes h mirror base. The proxy shares the base's storage
// until the base is freed or replaced.
func (s *Storage) InitializeProxy(h Handle, base Handle) error {
	if err := s.checkReserved(h); err != nil {
		return err
	}
	b := s.getTexture(base, "InitializeProxy")
	if b == nil {
		return fmt.Errorf("%w: proxy base %d", ErrInvalidHandle, base)
	}
	if b.mode == ModeProxy {
		return fmt.Errorf("%w: cannot proxy a proxy", ErrInvalidOperation)
	}
	var t texture
	t.linkProxy(base, b)
	if err := s.textures.Initialize(h, t); err != nil {
		return err
	}
	b.proxies = append(b.proxies, h)
	return nil
}

// refreshProxies relinks every proxy of base after its storage changed.
func (s *Storage) refreshProxies(h Handle, base *texture) {
	for _, ph := range base.proxies {
		if p := s.textures.Get(ph); p != nil {
			p.linkProxy(h, base)
		}
	}
}

func (t *texture) linkProxy(baseHandle Handle, base *texture) {
	t.copyFrom(base)
	t.mode = ModeProxy
	t.backing = borrowed(base.backing.name())
	t.proxyTo = baseHandle
	t.renderTarget = 0
	t.proxies = nil
}

// UpdateProxy points an existing proxy at a new base.
func (s *Storage) UpdateProxy(proxy, base Handle) error {
	p := s.getTexture(proxy, "UpdateProxy")
	if p == nil {
		return fmt.Errorf("%w: proxy %d", ErrInvalidHandle, proxy)
	}
	if p.mode != ModeProxy {
		return fmt.Errorf("%w: texture %d is not a proxy", ErrInvalidOperation, proxy)
	}
	b := s.getTexture(base, "UpdateProxy")
	if b == nil {
		return fmt.Errorf("%w: proxy base %d", ErrInvalidHandle, base)
	}
	if b.mode == ModeProxy {
		return fmt.Errorf("%w: cannot proxy a proxy", ErrInvalidOperation)
	}
	if prev := s.textures.Get(p.proxyTo); prev != nil {
		prev.proxies = slices.DeleteFunc(prev.proxies, func(x Handle) bool { return x == proxy })
	}
	p.linkProxy(base, b)
	b.proxies = append(b.proxies, proxy)
	return nil
}

// FreeTexture destroys a texture. Textures in use by a live render target
// must be released through the render target instead.
func (s *Storage) FreeTexture(h Handle) error {
	switch s.textures.State(h) {
	case owner.StateReserved:
		s.textures.Free(h)
		return nil
	case owner.StateFree:
		return fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	t := s.textures.Get(h)
	if t.renderTarget.IsValid() && s.renderTargets.Owns(t.renderTarget) {
		return fmt.Errorf("%w: texture %d belongs to render target %d", ErrInvalidOperation, h, t.renderTarget)
	}

	if t.canvasTexture.IsValid() {
		s.canvasTextures.Free(t.canvasTexture)
		t.canvasTexture = 0
	}
	t.backing.release(s.gl)

	if t.mode == ModeProxy {
		if base := s.textures.Get(t.proxyTo); base != nil {
			base.proxies = slices.DeleteFunc(base.proxies, func(x Handle) bool { return x == h })
		}
	}

	s.atlas.removeTexture(h)

	for _, ph := range t.proxies {
		p := s.textures.Get(ph)
		if p == nil {
			continue
		}
		p.proxyTo = 0
		p.backing = backing{}
	}

	s.textures.Free(h)
	return nil
}

// Replace moves the contents of src into dst and frees src. Proxies of
// both textures end up mirroring dst.
func (s *Storage) Replace(dst, src Handle) error {
	to := s.getTexture(dst, "Replace")
	if to == nil {
		return fmt.Errorf("%w: replace target %d", ErrInvalidHandle, dst)
	}
	if to.mode == ModeProxy {
		return fmt.Errorf("%w: cannot replace a proxy", ErrInvalidOperation)
	}
	from := s.getTexture(src, "Replace")
	if from == nil {
		return fmt.Errorf("%w: replace source %d", ErrInvalidHandle, src)
	}
	if from.mode == ModeProxy {
		return fmt.Errorf("%w: cannot replace with a proxy", ErrInvalidOperation)
	}
	if dst == src {
		return nil
	}
	if to.mode == ModeRenderTarget || from.mode == ModeRenderTarget {
		return fmt.Errorf("%w: cannot replace render target textures", ErrInvalidOperation)
	}

	if to.canvasTexture.IsValid() {
		s.canvasTextures.Free(to.canvasTexture)
		to.canvasTexture = 0
	}
	to.backing.release(s.gl)

	update := to.proxies
	redirect := from.proxies

	to.copyFrom(from)
	to.mode = from.mode
	to.backing = from.backing
	to.canvasTexture = from.canvasTexture
	to.proxies = nil
	if ct := s.canvasTextures.Get(to.canvasTexture); ct != nil {
		ct.diffuse = dst
	}

	from.backing = backing{}
	from.canvasTexture = 0
	from.proxies = nil

	for _, p := range slices.Concat(update, redirect) {
		if err := s.UpdateProxy(p, dst); err != nil {
			slogger().Debug("glstore: proxy not redirected", "op", "Replace", "proxy", p, "err", err)
		}
	}

	s.atlas.removeTexture(src)
	s.textures.Free(src)

	s.atlas.markDirtyOnTexture(dst)
	return nil
}

// SetSizeOverride changes the logical size of a texture without touching
// its storage. Each dimension must be in 1..Config.MaxTextureSize.
func (s *Storage) SetSizeOverride(h Handle, width, height int) error {
	t := s.getTexture(h, "SetSizeOverride")
	if t == nil {
		return fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	if t.mode == ModeRenderTarget {
		return fmt.Errorf("%w: cannot override the size of a render target texture", ErrInvalidOperation)
	}
	limit := s.config.maxTextureSize()
	if width <= 0 || width > limit || height <= 0 || height > limit {
		return fmt.Errorf("%w: size override %dx%d out of range [1, %d]", ErrInvalidOperation, width, height, limit)
	}
	t.width, t.height = width, height
	t.sizeOverride = true
	return nil
}

// TextureSizeWithProxy returns the logical size of h, or of its base when
// h is a proxy.
func (s *Storage) TextureSizeWithProxy(h Handle) (width, height int) {
	t := s.getTexture(h, "TextureSizeWithProxy")
	if t == nil {
		return 0, 0
	}
	if t.mode == ModeProxy {
		if base := s.textures.Get(t.proxyTo); base != nil {
			return base.width, base.height
		}
	}
	return t.width, t.height
}

// SetTexturePath records a diagnostic path for h.
func (s *Storage) SetTexturePath(h Handle, path string) {
	if t := s.getTexture(h, "SetTexturePath"); t != nil {
		t.path = path
	}
}

// TexturePath returns the diagnostic path of h.
func (s *Storage) TexturePath(h Handle) string {
	if t := s.getTexture(h, "TexturePath"); t != nil {
		return t.path
	}
	return ""
}

// SetForceRedrawIfVisible flags h for a redraw whenever it is on screen.
func (s *Storage) SetForceRedrawIfVisible(h Handle, enable bool) {
	if t := s.getTexture(h, "SetForceRedrawIfVisible"); t != nil {
		t.forceRedraw = enable
	}
}

// ForceRedrawIfVisible reports the redraw flag of h.
func (s *Storage) ForceRedrawIfVisible(h Handle) bool {
	if t := s.getTexture(h, "ForceRedrawIfVisible"); t != nil {
		return t.forceRedraw
	}
	return false
}

// SetResizeToPowerOfTwo makes subsequent uploads to h scale images up to
// power-of-two sizes.
func (s *Storage) SetResizeToPowerOfTwo(h Handle, enable bool) {
	if t := s.getTexture(h, "SetResizeToPowerOfTwo"); t != nil {
		t.resizeToPO2 = enable
	}
}

// TextureFormat returns the logical format of h.
func (s *Storage) TextureFormat(h Handle) image.Format {
	if t := s.getTexture(h, "TextureFormat"); t != nil {
		return t.format
	}
	return 0
}

// TextureNativeHandle returns the GL texture name of h, or 0.
func (s *Storage) TextureNativeHandle(h Handle) uint32 {
	if t := s.getTexture(h, "TextureNativeHandle"); t != nil {
		return t.backing.name()
	}
	return 0
}

// TextureWidth returns the logical width of h, or 0.
func (s *Storage) TextureWidth(h Handle) int {
	if t := s.getTexture(h, "TextureWidth"); t != nil {
		return t.width
	}
	return 0
}

// TextureHeight returns the logical height of h, or 0.
func (s *Storage) TextureHeight(h Handle) int {
	if t := s.getTexture(h, "TextureHeight"); t != nil {
		return t.height
	}
	return 0
}

// TextureDepth returns the depth of h, or 0.
func (s *Storage) TextureDepth(h Handle) int {
	if t := s.getTexture(h, "TextureDepth"); t != nil {
		return t.depth
	}
	return 0
}

// TextureIsActive reports whether h has usable storage.
func (s *Storage) TextureIsActive(h Handle) bool {
	if t := s.getTexture(h, "TextureIsActive"); t != nil {
		return t.active
	}
	return false
}

// TextureMode reports who owns the storage of h.
func (s *Storage) TextureMode(h Handle) Mode {
	if t := s.getTexture(h, "TextureMode"); t != nil {
		return t.mode
	}
	return ModePlain
}

// TextureProxyBase returns the base of a proxy, or 0.
func (s *Storage) TextureProxyBase(h Handle) Handle {
	if t := s.getTexture(h, "TextureProxyBase"); t != nil {
		return t.proxyTo
	}
	return 0
}

// TextureProxies returns the proxies currently mirroring h.
func (s *Storage) TextureProxies(h Handle) []Handle {
	if t := s.getTexture(h, "TextureProxies"); t != nil {
		return slices.Clone(t.proxies)
	}
	return nil
}

// TextureMipmaps returns the number of levels of h, base level included.
func (s *Storage) TextureMipmaps(h Handle) int {
	if t := s.getTexture(h, "TextureMipmaps"); t != nil {
		return t.mipmaps
	}
	return 0
}

// TextureStoredCubeSides returns the bitmask of uploaded cubemap faces.
func (s *Storage) TextureStoredCubeSides(h Handle) uint8 {
	if t := s.getTexture(h, "TextureStoredCubeSides"); t != nil {
		return t.storedCubeSides
	}
	return 0
}

// BindTexture binds h to a texture unit.
func (s *Storage) BindTexture(h Handle, unit int) error {
	t := s.getTexture(h, "BindTexture")
	if t == nil {
		return fmt.Errorf("%w: texture %d", ErrInvalidHandle, h)
	}
	s.gl.ActiveTexture(gles.Texture0 + gles.Enum(unit))
	s.gl.BindTexture(t.target, t.backing.name())
	return nil
}
