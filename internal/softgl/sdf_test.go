package softgl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

func distance16(s *Surface, x int) uint16 {
	o := x * 4
	return uint16(s.Data[o+1])<<8 | uint16(s.Data[o])
}

func TestSDFSingleSeedRow(t *testing.T) {
	d := NewDevice()
	prog := NewSDFProgram(d)

	write := newTexture(d, gles.R8, gles.Red, gles.UnsignedByte, 3, 1, []byte{0, 255, 0})
	ping := newTexture(d, gles.RG16I, gles.RGInteger, gles.Short, 3, 1, nil)
	pong := newTexture(d, gles.RG16I, gles.RGInteger, gles.Short, 3, 1, nil)
	read := newTexture(d, gles.RGBA8, gles.RGBA, gles.UnsignedByte, 3, 1, nil)

	newFramebuffer(d, ping)
	d.Viewport(0, 0, 3, 1)
	prog.SetUniformIVec2(gles.UniformBaseSize, 3, 1)
	prog.SetUniformIVec2(gles.UniformSize, 3, 1)
	prog.SetUniformInt(gles.UniformShift, 0)

	d.BindTexture(gles.Texture2D, write)
	prog.Bind(gles.SDFLoad)
	prog.DrawScreenTriangle()

	seeded := d.Texture(ping).Level(gles.Texture2D, 0)
	assert.Equal(t, image.Color{R: -sdfFar, G: -sdfFar, A: 1}, seeded.At(1, 0, 0))
	assert.Equal(t, image.Color{R: sdfFar, G: sdfFar, A: 1}, seeded.At(0, 0, 0))

	d.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, pong, 0)
	d.BindTexture(gles.Texture2D, ping)
	prog.Bind(gles.SDFProcess)
	prog.SetUniformInt(gles.UniformStride, 1)
	prog.DrawScreenTriangle()

	flooded := d.Texture(pong).Level(gles.Texture2D, 0)
	assert.Equal(t, image.Color{R: 1, A: 1}, flooded.At(0, 0, 0))
	assert.Equal(t, image.Color{R: -1, G: -1, A: 1}, flooded.At(1, 0, 0))
	assert.Equal(t, image.Color{R: 1, A: 1}, flooded.At(2, 0, 0))

	d.FramebufferTexture2D(gles.Framebuffer, gles.ColorAttachment0, gles.Texture2D, read, 0)
	d.BindTexture(gles.Texture2D, pong)
	prog.Bind(gles.SDFStore)
	prog.DrawScreenTriangle()

	out := d.Texture(read).Level(gles.Texture2D, 0)
	require.NotNil(t, out)
	assert.Greater(t, distance16(out, 0), uint16(0x7FFF))
	assert.Less(t, distance16(out, 1), uint16(0x8000))
	assert.Greater(t, distance16(out, 2), uint16(0x7FFF))
	assert.Equal(t, byte(255), out.Data[3])
	assert.Zero(t, d.Errors)
}

func TestSDFLoadShrinkPicksNearestSeed(t *testing.T) {
	d := NewDevice()
	prog := NewSDFProgram(d)

	// 4x2 occluders shrunk by 2: the left block is half solid, the right
	// block is fully solid
	write := newTexture(d, gles.R8, gles.Red, gles.UnsignedByte, 4, 2, []byte{
		0, 255, 255, 255,
		0, 0, 255, 255,
	})
	dst := newTexture(d, gles.RG16I, gles.RGInteger, gles.Short, 2, 1, nil)
	newFramebuffer(d, dst)
	d.Viewport(0, 0, 2, 1)
	d.BindTexture(gles.Texture2D, write)

	prog.SetUniformIVec2(gles.UniformBaseSize, 4, 2)
	prog.SetUniformInt(gles.UniformShift, 1)
	prog.Bind(gles.SDFLoadShrink)
	prog.DrawScreenTriangle()

	s := d.Texture(dst).Level(gles.Texture2D, 0)
	assert.Equal(t, image.Color{R: 1, A: 1}, s.At(0, 0, 0))
	assert.Equal(t, image.Color{R: -sdfFar, G: -sdfFar, A: 1}, s.At(1, 0, 0))
}
