// Package softgl implements the gles function table on the CPU.
//
// A Device keeps textures and framebuffers in memory and executes uploads,
// readbacks, clears and completeness checks the way a GLES 3 driver does.
// Together with Effects and SDFProgram it runs glstore without a GPU, which
// the tests and the -soft mode of glprobe rely on.
package softgl

import (
	stdimage "image"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Texture is a texture object of a Device.
type Texture struct {
	target gles.Enum
	levels map[levelKey]*Surface
	params map[gles.Enum]int32
}

type levelKey struct {
	face  gles.Enum
	level int32
}

// Target returns the target the texture was first bound to.
func (t *Texture) Target() gles.Enum { return t.target }

// Level returns the surface of a level. face is the texture target for 2D,
// array and 3D textures, and the face target for cube map sides.
func (t *Texture) Level(face gles.Enum, level int) *Surface {
	return t.levels[levelKey{face: face, level: int32(level)}]
}

// Levels returns the number of levels defined for face.
func (t *Texture) Levels(face gles.Enum) int {
	n := 0
	for k := range t.levels {
		if k.face == face {
			n++
		}
	}
	return n
}

// Param returns a texture parameter, 0 when it was never set.
func (t *Texture) Param(pname gles.Enum) int32 { return t.params[pname] }

// Attachment is a texture attached to a framebuffer.
type Attachment struct {
	Texture  uint32
	Face     gles.Enum
	Level    int32
	BaseView int32
	NumViews int32
}

type framebuffer struct {
	attachments map[gles.Enum]Attachment
}

type binding struct {
	unit   gles.Enum
	target gles.Enum
}

// Device is an in-memory GL context. The zero value is not usable; call
// NewDevice.
type Device struct {
	// ForceIncomplete makes the next n framebuffer checks report an
	// incomplete attachment.
	ForceIncomplete int

	// FramebuffersCreated counts GenFramebuffer calls.
	FramebuffersCreated int
	// CallCount counts every call into the function table.
	CallCount int
	// Errors counts calls the device rejected, such as uploads without a
	// bound texture.
	Errors int

	next         uint32
	textures     map[uint32]*Texture
	framebuffers map[uint32]*framebuffer

	unit        gles.Enum
	bindings    map[binding]uint32
	framebuffer uint32

	viewport   stdimage.Rectangle
	scissor    stdimage.Rectangle
	caps       map[gles.Enum]bool
	colorMask  [4]bool
	depthMask  bool
	clearColor image.Color

	packAlignment   int32
	unpackAlignment int32
}

var _ gles.Functions = (*Device)(nil)

// NewDevice returns a Device in the default GL state.
func NewDevice() *Device {
	return &Device{
		textures:        make(map[uint32]*Texture),
		framebuffers:    make(map[uint32]*framebuffer),
		unit:            gles.Texture0,
		bindings:        make(map[binding]uint32),
		caps:            make(map[gles.Enum]bool),
		colorMask:       [4]bool{true, true, true, true},
		depthMask:       true,
		packAlignment:   4,
		unpackAlignment: 4,
	}
}

// Texture returns a texture object, nil when tex is not a live name.
func (d *Device) Texture(tex uint32) *Texture { return d.textures[tex] }

// LiveTextures returns the number of texture objects not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LiveFramebuffers returns the number of framebuffer objects not yet
// deleted.
func (d *Device) LiveFramebuffers() int { return len(d.framebuffers) }

// IsFramebuffer reports whether fbo is a live framebuffer name.
func (d *Device) IsFramebuffer(fbo uint32) bool {
	_, ok := d.framebuffers[fbo]
	return ok
}

// FramebufferAttachment returns what is attached to an attachment point of
// fbo.
func (d *Device) FramebufferAttachment(fbo uint32, attachment gles.Enum) (Attachment, bool) {
	fb := d.framebuffers[fbo]
	if fb == nil {
		return Attachment{}, false
	}
	a, ok := fb.attachments[attachment]
	return a, ok
}

// IsEnabled reports whether a capability is enabled.
func (d *Device) IsEnabled(capability gles.Enum) bool { return d.caps[capability] }

// BoundFramebuffer returns the bound framebuffer name.
func (d *Device) BoundFramebuffer() uint32 { return d.framebuffer }

// ViewportRect returns the viewport rectangle.
func (d *Device) ViewportRect() stdimage.Rectangle { return d.viewport }

// PixelStore returns the pack or unpack alignment.
func (d *Device) PixelStore(pname gles.Enum) int32 {
	if pname == gles.PackAlignment {
		return d.packAlignment
	}
	return d.unpackAlignment
}

// BoundTexture returns the texture bound to target on unit.
func (d *Device) BoundTexture(unit, target gles.Enum) uint32 {
	return d.bindings[binding{unit: unit, target: target}]
}

func bindingTarget(target gles.Enum) gles.Enum {
	switch target {
	case gles.TextureCubeMapPositiveX, gles.TextureCubeMapNegativeX,
		gles.TextureCubeMapPositiveY, gles.TextureCubeMapNegativeY,
		gles.TextureCubeMapPositiveZ, gles.TextureCubeMapNegativeZ:
		return gles.TextureCubeMap
	}
	return target
}

func (d *Device) bound(target gles.Enum) *Texture {
	return d.textures[d.bindings[binding{unit: d.unit, target: bindingTarget(target)}]]
}

func (d *Device) GenTexture() uint32 {
	d.CallCount++
	d.next++
	d.textures[d.next] = &Texture{
		levels: make(map[levelKey]*Surface),
		params: make(map[gles.Enum]int32),
	}
	return d.next
}

func (d *Device) DeleteTexture(tex uint32) {
	d.CallCount++
	if tex == 0 {
		return
	}
	if _, ok := d.textures[tex]; !ok {
		d.Errors++
		return
	}
	delete(d.textures, tex)
	for b, name := range d.bindings {
		if name == tex {
			delete(d.bindings, b)
		}
	}
	if fb := d.framebuffers[d.framebuffer]; fb != nil {
		for point, a := range fb.attachments {
			if a.Texture == tex {
				delete(fb.attachments, point)
			}
		}
	}
}

func (d *Device) ActiveTexture(unit gles.Enum) {
	d.CallCount++
	d.unit = unit
}

func (d *Device) BindTexture(target gles.Enum, tex uint32) {
	d.CallCount++
	b := binding{unit: d.unit, target: target}
	if tex == 0 {
		delete(d.bindings, b)
		return
	}
	t := d.textures[tex]
	if t == nil {
		d.Errors++
		return
	}
	if t.target == 0 {
		t.target = target
	}
	d.bindings[b] = tex
}

func (d *Device) TexParameteri(target, pname gles.Enum, param int32) {
	d.CallCount++
	t := d.bound(target)
	if t == nil {
		d.Errors++
		return
	}
	t.params[pname] = param
}

func (d *Device) PixelStorei(pname gles.Enum, param int32) {
	d.CallCount++
	switch pname {
	case gles.PackAlignment:
		d.packAlignment = param
	case gles.UnpackAlignment:
		d.unpackAlignment = param
	}
}

func (d *Device) TexImage2D(target gles.Enum, level int32, internalFormat gles.Enum, width, height int32, format, ty gles.Enum, data []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil || width <= 0 || height <= 0 {
		d.Errors++
		return
	}
	t.levels[levelKey{face: target, level: level}] = newSurface(int(width), int(height), 1, internalFormat, format, ty, data)
}

func (d *Device) TexImage3D(target gles.Enum, level int32, internalFormat gles.Enum, width, height, depth int32, format, ty gles.Enum, data []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil || width <= 0 || height <= 0 || depth <= 0 {
		d.Errors++
		return
	}
	key := levelKey{face: target, level: level}
	if isCompressed(internalFormat) {
		t.levels[key] = newCompressedSurface(int(width), int(height), int(depth), internalFormat, data)
		return
	}
	t.levels[key] = newSurface(int(width), int(height), int(depth), internalFormat, format, ty, data)
}

func (d *Device) TexSubImage3D(target gles.Enum, level, x, y, z, width, height, depth int32, format, ty gles.Enum, data []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil {
		d.Errors++
		return
	}
	dst := t.levels[levelKey{face: target, level: level}]
	if dst == nil || dst.Compressed {
		d.Errors++
		return
	}
	src := &Surface{Width: int(width), Height: int(height), Depth: int(depth), Format: format, Type: ty, Data: data}
	if len(data) < src.Width*src.Height*src.Depth*TexelSize(format, ty) {
		d.Errors++
		return
	}
	same := format == dst.Format && ty == dst.Type
	ts := TexelSize(format, ty)
	for k := range src.Depth {
		for j := range src.Height {
			for i := range src.Width {
				dx, dy, dz := int(x)+i, int(y)+j, int(z)+k
				if !dst.contains(dx, dy, dz) {
					continue
				}
				if same {
					o := src.offset(i, j, k)
					copy(dst.Data[dst.offset(dx, dy, dz):], src.Data[o:o+ts])
					continue
				}
				dst.Set(dx, dy, dz, src.At(i, j, k))
			}
		}
	}
}

func (d *Device) CompressedTexImage2D(target gles.Enum, level int32, internalFormat gles.Enum, width, height int32, data []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil || width <= 0 || height <= 0 {
		d.Errors++
		return
	}
	t.levels[levelKey{face: target, level: level}] = newCompressedSurface(int(width), int(height), 1, internalFormat, data)
}

func (d *Device) GetTexImage(target gles.Enum, level int32, format, ty gles.Enum, dst []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil {
		d.Errors++
		return
	}
	src := t.levels[levelKey{face: target, level: level}]
	if src == nil || src.Compressed {
		d.Errors++
		return
	}
	if format == src.Format && ty == src.Type {
		copy(dst, src.Data)
		return
	}
	out := &Surface{Width: src.Width, Height: src.Height, Depth: src.Depth, Format: format, Type: ty, Data: dst}
	for z := range src.Depth {
		for y := range src.Height {
			for x := range src.Width {
				if out.offset(x, y, z)+TexelSize(format, ty) > len(dst) {
					return
				}
				out.Set(x, y, z, src.At(x, y, z))
			}
		}
	}
}

func (d *Device) GetCompressedTexImage(target gles.Enum, level int32, dst []byte) {
	d.CallCount++
	t := d.bound(target)
	if t == nil {
		d.Errors++
		return
	}
	src := t.levels[levelKey{face: target, level: level}]
	if src == nil || !src.Compressed {
		d.Errors++
		return
	}
	copy(dst, src.Data)
}

func (d *Device) GenFramebuffer() uint32 {
	d.CallCount++
	d.FramebuffersCreated++
	d.next++
	d.framebuffers[d.next] = &framebuffer{attachments: make(map[gles.Enum]Attachment)}
	return d.next
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	d.CallCount++
	if fbo == 0 {
		return
	}
	if _, ok := d.framebuffers[fbo]; !ok {
		d.Errors++
		return
	}
	delete(d.framebuffers, fbo)
	if d.framebuffer == fbo {
		d.framebuffer = 0
	}
}

// BindFramebuffer binds fbo for both drawing and reading. Names the device
// did not create stand for window surfaces and have no attachments.
func (d *Device) BindFramebuffer(target gles.Enum, fbo uint32) {
	d.CallCount++
	d.framebuffer = fbo
}

func (d *Device) attach(attachment gles.Enum, a Attachment) {
	fb := d.framebuffers[d.framebuffer]
	if fb == nil {
		d.Errors++
		return
	}
	if a.Texture == 0 {
		delete(fb.attachments, attachment)
		return
	}
	if d.textures[a.Texture] == nil {
		d.Errors++
		return
	}
	fb.attachments[attachment] = a
}

func (d *Device) FramebufferTexture2D(target, attachment, texTarget gles.Enum, tex uint32, level int32) {
	d.CallCount++
	d.attach(attachment, Attachment{Texture: tex, Face: texTarget, Level: level})
}

func (d *Device) FramebufferTextureMultiview(target, attachment gles.Enum, tex uint32, level, baseView, numViews int32) {
	d.CallCount++
	face := gles.Texture2DArray
	if t := d.textures[tex]; t != nil && t.target != 0 {
		face = t.target
	}
	d.attach(attachment, Attachment{Texture: tex, Face: face, Level: level, BaseView: baseView, NumViews: numViews})
}

func (d *Device) attachmentSurface(a Attachment) *Surface {
	t := d.textures[a.Texture]
	if t == nil {
		return nil
	}
	return t.levels[levelKey{face: a.Face, level: a.Level}]
}

func (d *Device) CheckFramebufferStatus(target gles.Enum) gles.Enum {
	d.CallCount++
	if d.ForceIncomplete > 0 {
		d.ForceIncomplete--
		return gles.FramebufferIncompleteAttachment
	}
	if d.framebuffer == 0 {
		return gles.FramebufferComplete
	}
	fb := d.framebuffers[d.framebuffer]
	if fb == nil {
		return gles.FramebufferUndefined
	}
	if len(fb.attachments) == 0 {
		return gles.FramebufferIncompleteMissingAttachment
	}
	for point, a := range fb.attachments {
		s := d.attachmentSurface(a)
		if s == nil || s.Compressed {
			return gles.FramebufferIncompleteAttachment
		}
		if point == gles.DepthAttachment {
			if !depthRenderable(s.Internal) {
				return gles.FramebufferIncompleteAttachment
			}
		} else if !colorRenderable(s.Internal) {
			return gles.FramebufferIncompleteAttachment
		}
	}
	return gles.FramebufferComplete
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.CallCount++
	d.viewport = stdimage.Rect(int(x), int(y), int(x+width), int(y+height))
}

func (d *Device) Scissor(x, y, width, height int32) {
	d.CallCount++
	d.scissor = stdimage.Rect(int(x), int(y), int(x+width), int(y+height))
}

func (d *Device) Enable(capability gles.Enum) {
	d.CallCount++
	d.caps[capability] = true
}

func (d *Device) Disable(capability gles.Enum) {
	d.CallCount++
	d.caps[capability] = false
}

func (d *Device) ColorMask(r, g, b, a bool) {
	d.CallCount++
	d.colorMask = [4]bool{r, g, b, a}
}

func (d *Device) DepthMask(flag bool) {
	d.CallCount++
	d.depthMask = flag
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.CallCount++
	d.clearColor = image.Color{R: r, G: g, B: b, A: a}
}

// drawTarget returns the color surface of the bound framebuffer and the
// layer drawn to.
func (d *Device) drawTarget() (*Surface, int) {
	return d.attachmentTarget(gles.ColorAttachment0)
}

func (d *Device) attachmentTarget(point gles.Enum) (*Surface, int) {
	fb := d.framebuffers[d.framebuffer]
	if fb == nil {
		return nil, 0
	}
	a, ok := fb.attachments[point]
	if !ok {
		return nil, 0
	}
	return d.attachmentSurface(a), int(a.BaseView)
}

// clip returns the pixels of s a draw or clear may touch.
func (d *Device) clip(s *Surface, r stdimage.Rectangle) stdimage.Rectangle {
	r = r.Intersect(stdimage.Rect(0, 0, s.Width, s.Height))
	if d.caps[gles.ScissorTest] {
		r = r.Intersect(d.scissor)
	}
	return r
}

// write stores c at a pixel of s, keeping the channels the color mask
// disables.
func (d *Device) write(s *Surface, x, y, z int, c image.Color) {
	if d.colorMask != [4]bool{true, true, true, true} {
		old := s.At(x, y, z)
		if !d.colorMask[0] {
			c.R = old.R
		}
		if !d.colorMask[1] {
			c.G = old.G
		}
		if !d.colorMask[2] {
			c.B = old.B
		}
		if !d.colorMask[3] {
			c.A = old.A
		}
	}
	s.Set(x, y, z, c)
}

func (d *Device) fill(c image.Color) {
	s, z := d.drawTarget()
	if s == nil {
		return
	}
	r := d.clip(s, stdimage.Rect(0, 0, s.Width, s.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.write(s, x, y, z, c)
		}
	}
}

func (d *Device) Clear(mask gles.Enum) {
	d.CallCount++
	if mask&gles.ColorBufferBit != 0 {
		d.fill(d.clearColor)
	}
	if mask&gles.DepthBufferBit != 0 && d.depthMask {
		if s, z := d.attachmentTarget(gles.DepthAttachment); s != nil {
			r := d.clip(s, stdimage.Rect(0, 0, s.Width, s.Height))
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					s.Set(x, y, z, image.Color{R: 1})
				}
			}
		}
	}
}

func (d *Device) ClearBufferfv(buffer gles.Enum, drawBuffer int32, value [4]float32) {
	d.CallCount++
	if buffer != gles.Color || drawBuffer != 0 {
		d.Errors++
		return
	}
	d.fill(image.Color{R: value[0], G: value[1], B: value[2], A: value[3]})
}

func (d *Device) ReadPixels(x, y, width, height int32, format, ty gles.Enum, dst []byte) {
	d.CallCount++
	src, z := d.drawTarget()
	if src == nil {
		d.Errors++
		return
	}
	out := &Surface{Width: int(width), Height: int(height), Depth: 1, Format: format, Type: ty, Data: dst}
	if len(dst) < out.Width*out.Height*TexelSize(format, ty) {
		d.Errors++
		return
	}
	for j := range out.Height {
		for i := range out.Width {
			out.Set(i, j, 0, src.At(int(x)+i, int(y)+j, z))
		}
	}
}

// source returns the level 0 surface bound to Texture2D on unit 0 and its
// texture.
func (d *Device) source() (*Texture, *Surface) {
	t := d.textures[d.bindings[binding{unit: gles.Texture0, target: gles.Texture2D}]]
	if t == nil {
		return nil, nil
	}
	return t, t.levels[levelKey{face: gles.Texture2D, level: 0}]
}

// sample reads a texel of the source surface, clamped to its edges, with
// the swizzle of the texture applied.
func (d *Device) sample(x, y int) image.Color {
	t, s := d.source()
	if s == nil {
		return image.Color{}
	}
	c := s.At(min(max(x, 0), s.Width-1), min(max(y, 0), s.Height-1), 0)
	return swizzle(t, c)
}

func swizzle(t *Texture, c image.Color) image.Color {
	pick := func(pname, def gles.Enum) float32 {
		sel := def
		if v, ok := t.params[pname]; ok {
			sel = gles.Enum(v)
		}
		switch sel {
		case gles.Red:
			return c.R
		case gles.Green:
			return c.G
		case gles.Blue:
			return c.B
		case gles.Alpha:
			return c.A
		case gles.One:
			return 1
		}
		return 0
	}
	return image.Color{
		R: pick(gles.TextureSwizzleR, gles.Red),
		G: pick(gles.TextureSwizzleG, gles.Green),
		B: pick(gles.TextureSwizzleB, gles.Blue),
		A: pick(gles.TextureSwizzleA, gles.Alpha),
	}
}
