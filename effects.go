package glstore

import (
	stdimage "image"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Effects are the fixed-function copy passes Storage issues. Each pass reads
// the texture bound to Texture0 with the Texture2D target and draws into the
// bound framebuffer.
type Effects interface {
	// CopyToRect draws the bound texture into the rectangle of the viewport
	// given in normalized coordinates.
	CopyToRect(x, y, width, height float32)

	// CopyScreen draws the bound texture over the whole framebuffer.
	CopyScreen()

	// BilinearBlur fills levels 1..mipmaps-1 of tex by downsampling the
	// previous level inside region, scaled per level.
	BilinearBlur(tex uint32, mipmaps int, region stdimage.Rectangle)

	// SetColor fills region of the bound framebuffer with c.
	SetColor(c image.Color, region stdimage.Rectangle)
}

// SDFProgram is the distance field program. Draws read the texture bound
// to Texture0 and write the bound framebuffer.
type SDFProgram interface {
	Bind(mode gles.SDFMode)
	SetUniformInt(name string, v int32)
	SetUniformIVec2(name string, x, y int32)
	DrawScreenTriangle()
}
