package softgl

import (
	stdimage "image"

	"github.com/chewxy/math32"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

const (
	sdfFar       = 32767
	sdfMaxLength = 16384
)

// SDFProgram runs the jump flood distance field passes on a Device. Process
// surfaces hold the position of the nearest seed. Occupied texels store it
// as -pos-1.
type SDFProgram struct {
	d        *Device
	mode     gles.SDFMode
	uniforms map[string][2]int32
}

func NewSDFProgram(d *Device) *SDFProgram {
	return &SDFProgram{d: d, uniforms: make(map[string][2]int32)}
}

func (p *SDFProgram) Bind(mode gles.SDFMode) {
	p.d.CallCount++
	p.mode = mode
}

func (p *SDFProgram) SetUniformInt(name string, v int32) {
	p.d.CallCount++
	p.uniforms[name] = [2]int32{v, 0}
}

func (p *SDFProgram) SetUniformIVec2(name string, x, y int32) {
	p.d.CallCount++
	p.uniforms[name] = [2]int32{x, y}
}

func (p *SDFProgram) ivec2(name string) stdimage.Point {
	v := p.uniforms[name]
	return stdimage.Pt(int(v[0]), int(v[1]))
}

func (p *SDFProgram) scalar(name string) int {
	return int(p.uniforms[name][0])
}

// DrawScreenTriangle runs the bound pass for every pixel of the viewport.
func (p *SDFProgram) DrawScreenTriangle() {
	d := p.d
	d.CallCount++
	dst, z := d.drawTarget()
	_, src := d.source()
	if dst == nil || src == nil {
		d.Errors++
		return
	}

	r := d.clip(dst, d.viewport)
	shift := p.scalar(gles.UniformShift)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pos := stdimage.Pt(x, y)
			var out image.Color
			switch p.mode {
			case gles.SDFLoad:
				out = p.load(src, pos)
			case gles.SDFLoadShrink:
				out = p.loadShrink(src, pos, shift)
			case gles.SDFProcess:
				out = p.process(src, pos, shift)
			case gles.SDFStore:
				out = p.store(src, pos, pos)
			case gles.SDFStoreShrink:
				out = p.store(src, pos, pos.Mul(1<<shift).Add(stdimage.Pt(shift, shift)))
			}
			dst.Set(x, y, z, out)
		}
	}
}

func solid(c image.Color) bool { return c.R > 0.5 }

func encodeRel(rel stdimage.Point) image.Color {
	return image.Color{R: float32(rel.X), G: float32(rel.Y), A: 1}
}

// readRel decodes a process texel into the seed position and whether the
// texel is occupied.
func readRel(s *Surface, pos stdimage.Point) (stdimage.Point, bool) {
	c := s.At(pos.X, pos.Y, 0)
	rel := stdimage.Pt(int(c.R), int(c.G))
	if rel.X < 0 {
		return stdimage.Pt(-rel.X-1, -rel.Y-1), true
	}
	return rel, false
}

func length(v stdimage.Point) float32 {
	return math32.Sqrt(float32(v.X*v.X + v.Y*v.Y))
}

func (p *SDFProgram) load(src *Surface, pos stdimage.Point) image.Color {
	if solid(src.At(pos.X, pos.Y, 0)) {
		return encodeRel(stdimage.Pt(-sdfFar, -sdfFar))
	}
	return encodeRel(stdimage.Pt(sdfFar, sdfFar))
}

func (p *SDFProgram) loadShrink(src *Surface, pos stdimage.Point, shift int) image.Color {
	baseSize := p.ivec2(gles.UniformBaseSize)
	n := 1 << shift
	base := pos.Mul(n)
	center := base.Add(stdimage.Pt(shift, shift))

	rel := stdimage.Pt(sdfFar, sdfFar)
	best := float32(1e20)
	found, solidFound := 0, 0
	for i := range n {
		for j := range n {
			sp := base.Add(stdimage.Pt(i, j))
			if sp.X >= baseSize.X || sp.Y >= baseSize.Y {
				continue
			}
			if solid(src.At(sp.X, sp.Y, 0)) {
				if dist := length(sp.Sub(center)); dist < best {
					best = dist
					rel = sp
				}
				solidFound++
			}
			found++
		}
	}
	if solidFound == found {
		rel = stdimage.Pt(-sdfFar, -sdfFar)
	}
	return encodeRel(rel)
}

var neighbours = [8]stdimage.Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func (p *SDFProgram) process(src *Surface, pos stdimage.Point, shift int) image.Color {
	size := p.ivec2(gles.UniformSize)
	stride := p.scalar(gles.UniformStride)
	center := pos.Mul(1 << shift).Add(stdimage.Pt(shift, shift))

	rel, isSolid := readRel(src, pos)
	if center != rel {
		dist := length(rel.Sub(center))
		for _, o := range neighbours {
			sp := pos.Add(o.Mul(stride))
			if sp.X < 0 || sp.Y < 0 || sp.X >= size.X || sp.Y >= size.Y {
				continue
			}
			srcRel, srcSolid := readRel(src, sp)
			if srcSolid != isSolid {
				srcRel = sp.Mul(1 << shift)
			}
			if d := length(srcRel.Sub(center)); d < dist {
				dist = d
				rel = srcRel
			}
		}
	}
	if isSolid {
		rel = stdimage.Pt(-rel.X-1, -rel.Y-1)
	}
	return encodeRel(rel)
}

// store encodes the distance from center to the seed of pos as a 16-bit
// value split over red and green.
func (p *SDFProgram) store(src *Surface, pos, center stdimage.Point) image.Color {
	rel, isSolid := readRel(src, pos)
	d := length(rel.Sub(center))
	if isSolid {
		d = -d
	}
	d = math32.Max(-1, math32.Min(1, d/sdfMaxLength))
	d16 := uint32(math32.Max(0, math32.Min(65535, (d*0.5+0.5)*65535)))
	return image.Color{R: float32(d16&0xFF) / 255, G: float32(d16>>8) / 255, A: 1}
}
