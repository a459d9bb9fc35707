//go:build !nogpu

package glcore

import (
	stdimage "image"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v3.2-core/gl"

	"github.com/gogpu/glstore/image"
)

// Effects implements the glstore copy passes with framebuffer blits, so it
// needs no shaders.
type Effects struct {
	read, draw uint32
}

// NewEffects creates the scratch framebuffers used by the blits.
func NewEffects() *Effects {
	e := &Effects{}
	gl.GenFramebuffers(1, &e.read)
	gl.GenFramebuffers(1, &e.draw)
	return e
}

// Release deletes the scratch framebuffers.
func (e *Effects) Release() {
	if e.read != 0 {
		gl.DeleteFramebuffers(1, &e.read)
		e.read = 0
	}
	if e.draw != 0 {
		gl.DeleteFramebuffers(1, &e.draw)
		e.draw = 0
	}
}

func integer(pname uint32) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

func textureSize(tex uint32, level int32) (width, height int32) {
	prev := uint32(integer(gl.TEXTURE_BINDING_2D))
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, level, gl.TEXTURE_WIDTH, &width)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, level, gl.TEXTURE_HEIGHT, &height)
	gl.BindTexture(gl.TEXTURE_2D, prev)
	return width, height
}

// blitFrom copies the rectangle src of the texture bound to unit 0 into dst
// of the framebuffer bound for drawing, then restores that framebuffer for
// both reading and drawing.
func (e *Effects) blitFrom(src, dst stdimage.Rectangle) {
	target := uint32(integer(gl.DRAW_FRAMEBUFFER_BINDING))
	gl.ActiveTexture(gl.TEXTURE0)
	tex := uint32(integer(gl.TEXTURE_BINDING_2D))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, e.read)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	gl.BlitFramebuffer(int32(src.Min.X), int32(src.Min.Y), int32(src.Max.X), int32(src.Max.Y),
		int32(dst.Min.X), int32(dst.Min.Y), int32(dst.Max.X), int32(dst.Max.Y),
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, target)
}

// normalizedRect maps a rectangle in normalized viewport coordinates to
// pixels.
func normalizedRect(viewport stdimage.Rectangle, x, y, width, height float32) stdimage.Rectangle {
	vw, vh := float32(viewport.Dx()), float32(viewport.Dy())
	px := func(v, size float32) int { return int(math32.Round(v * size)) }
	return stdimage.Rect(
		viewport.Min.X+px(x, vw), viewport.Min.Y+px(y, vh),
		viewport.Min.X+px(x+width, vw), viewport.Min.Y+px(y+height, vh))
}

// levelRegion scales region down to a mip level, rounding outward.
func levelRegion(region stdimage.Rectangle, level int) stdimage.Rectangle {
	n := 1 << level
	return stdimage.Rect(region.Min.X/n, region.Min.Y/n, (region.Max.X+n-1)/n, (region.Max.Y+n-1)/n)
}

func (e *Effects) CopyToRect(x, y, width, height float32) {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	viewport := stdimage.Rect(int(vp[0]), int(vp[1]), int(vp[0]+vp[2]), int(vp[1]+vp[3]))
	tw, th := textureSize(uint32(integer(gl.TEXTURE_BINDING_2D)), 0)
	e.blitFrom(stdimage.Rect(0, 0, int(tw), int(th)), normalizedRect(viewport, x, y, width, height))
}

func (e *Effects) CopyScreen() {
	var name, level int32
	gl.GetFramebufferAttachmentParameteriv(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_NAME, &name)
	gl.GetFramebufferAttachmentParameteriv(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.FRAMEBUFFER_ATTACHMENT_TEXTURE_LEVEL, &level)
	dw, dh := textureSize(uint32(name), level)
	sw, sh := textureSize(uint32(integer(gl.TEXTURE_BINDING_2D)), 0)
	e.blitFrom(stdimage.Rect(0, 0, int(sw), int(sh)), stdimage.Rect(0, 0, int(dw), int(dh)))
}

func (e *Effects) BilinearBlur(tex uint32, mipmaps int, region stdimage.Rectangle) {
	target := uint32(integer(gl.DRAW_FRAMEBUFFER_BINDING))
	for level := 1; level < mipmaps; level++ {
		src, dst := levelRegion(region, level-1), levelRegion(region, level)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, e.read)
		gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, int32(level-1))
		gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, e.draw)
		gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, int32(level))
		gl.BlitFramebuffer(int32(src.Min.X), int32(src.Min.Y), int32(src.Max.X), int32(src.Max.Y),
			int32(dst.Min.X), int32(dst.Min.Y), int32(dst.Max.X), int32(dst.Max.Y),
			gl.COLOR_BUFFER_BIT, gl.LINEAR)
	}
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, target)
}

func (e *Effects) SetColor(c image.Color, region stdimage.Rectangle) {
	scissor := gl.IsEnabled(gl.SCISSOR_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(region.Min.X), int32(region.Min.Y), int32(region.Dx()), int32(region.Dy()))
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if !scissor {
		gl.Disable(gl.SCISSOR_TEST)
	}
}
