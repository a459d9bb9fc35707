package softgl

import (
	stdimage "image"
	"math"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Effects runs the copy passes of glstore on a Device.
type Effects struct {
	d *Device
}

func NewEffects(d *Device) *Effects {
	return &Effects{d: d}
}

// CopyToRect draws the source texture into a rectangle of the viewport given
// in normalized coordinates. Pixels whose centers fall inside the rectangle
// are written with the nearest source texel.
func (e *Effects) CopyToRect(x, y, width, height float32) {
	d := e.d
	vp := d.viewport
	x0 := float64(vp.Min.X) + float64(x)*float64(vp.Dx())
	y0 := float64(vp.Min.Y) + float64(y)*float64(vp.Dy())
	x1 := x0 + float64(width)*float64(vp.Dx())
	y1 := y0 + float64(height)*float64(vp.Dy())
	e.copy(x0, y0, x1, y1)
}

// CopyScreen draws the source texture over the whole color attachment.
func (e *Effects) CopyScreen() {
	dst, _ := e.d.drawTarget()
	if dst == nil {
		return
	}
	e.copy(0, 0, float64(dst.Width), float64(dst.Height))
}

func (e *Effects) copy(x0, y0, x1, y1 float64) {
	d := e.d
	dst, z := d.drawTarget()
	_, src := d.source()
	if dst == nil || src == nil || x1 <= x0 || y1 <= y0 {
		return
	}
	r := d.clip(dst, stdimage.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	))
	for py := r.Min.Y; py < r.Max.Y; py++ {
		cy := float64(py) + 0.5
		if cy < y0 || cy >= y1 {
			continue
		}
		sy := int((cy - y0) / (y1 - y0) * float64(src.Height))
		for px := r.Min.X; px < r.Max.X; px++ {
			cx := float64(px) + 0.5
			if cx < x0 || cx >= x1 {
				continue
			}
			sx := int((cx - x0) / (x1 - x0) * float64(src.Width))
			d.write(dst, px, py, z, d.sample(sx, sy))
		}
	}
}

// BilinearBlur fills levels 1 to mipmaps-1 of tex with a 2x2 box filter of
// the level above, limited to region scaled to each level.
func (e *Effects) BilinearBlur(tex uint32, mipmaps int, region stdimage.Rectangle) {
	t := e.d.textures[tex]
	if t == nil {
		e.d.Errors++
		return
	}
	for level := 1; level < mipmaps; level++ {
		src := t.Level(gles.Texture2D, level-1)
		dst := t.Level(gles.Texture2D, level)
		if src == nil || dst == nil {
			return
		}
		r := stdimage.Rect(region.Min.X>>level, region.Min.Y>>level,
			(region.Max.X+(1<<level)-1)>>level, (region.Max.Y+(1<<level)-1)>>level)
		r = r.Intersect(stdimage.Rect(0, 0, dst.Width, dst.Height))
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				sx, sy := x*2, y*2
				x1, y1 := min(sx+1, src.Width-1), min(sy+1, src.Height-1)
				c0, c1, c2, c3 := src.At(sx, sy, 0), src.At(x1, sy, 0), src.At(sx, y1, 0), src.At(x1, y1, 0)
				dst.Set(x, y, 0, image.Color{
					R: (c0.R + c1.R + c2.R + c3.R) / 4,
					G: (c0.G + c1.G + c2.G + c3.G) / 4,
					B: (c0.B + c1.B + c2.B + c3.B) / 4,
					A: (c0.A + c1.A + c2.A + c3.A) / 4,
				})
			}
		}
	}
}

// SetColor fills region of the color attachment with c.
func (e *Effects) SetColor(c image.Color, region stdimage.Rectangle) {
	d := e.d
	dst, z := d.drawTarget()
	if dst == nil {
		return
	}
	r := d.clip(dst, region)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.write(dst, x, y, z, c)
		}
	}
}
