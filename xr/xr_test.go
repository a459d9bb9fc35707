package xr

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glstore"
	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/internal/softgl"
)

type fakeSession struct {
	images map[uint64][]uint32
	err    error
}

func (f *fakeSession) EnumerateSwapchainImages(swapchain uint64) ([]uint32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.images[swapchain], nil
}

func newTestExtension(t *testing.T, session *fakeSession) (*Extension, *glstore.Storage, *softgl.Device) {
	t.Helper()
	dev := softgl.NewDevice()
	s, err := glstore.New(dev, softgl.NewEffects(dev), softgl.NewSDFProgram(dev))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return New(s, session), s, dev
}

func swapchainImages(dev *softgl.Device, n int) []uint32 {
	names := make([]uint32, n)
	for i := range names {
		names[i] = dev.GenTexture()
		dev.BindTexture(gles.Texture2D, names[i])
		dev.TexImage2D(gles.Texture2D, 0, gles.RGBA8, 4, 4, gles.RGBA, gles.UnsignedByte, nil)
	}
	return names
}

func TestVersion(t *testing.T) {
	v := MakeVersion(3, 3, 0)
	assert.Equal(t, Version(3<<48|3<<32), v)
	assert.Equal(t, "3.3.0", v.String())
	assert.Equal(t, "4.6.12", MakeVersion(4, 6, 12).String())
	assert.Equal(t, DesiredVersion, v)
}

func TestCheckGraphicsAPISupport(t *testing.T) {
	tests := []struct {
		name     string
		min, max Version
		wantErr  bool
	}{
		{"in range", MakeVersion(3, 0, 0), MakeVersion(4, 6, 0), false},
		{"at minimum", MakeVersion(3, 3, 0), MakeVersion(4, 6, 0), false},
		{"above maximum", MakeVersion(3, 0, 0), MakeVersion(3, 2, 0), false},
		{"below minimum", MakeVersion(4, 0, 0), MakeVersion(4, 6, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckGraphicsAPISupport(DesiredVersion, GraphicsRequirements{tt.min, tt.max})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrVersionUnsupported)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetSwapchainImageData(t *testing.T) {
	session := &fakeSession{images: map[uint64][]uint32{}}
	ext, s, dev := newTestExtension(t, session)
	session.images[1] = swapchainImages(dev, 3)
	live := dev.LiveTextures()

	data, err := ext.GetSwapchainImageData(1, int64(gles.SRGB8Alpha8), 4, 4, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, data.Len())
	assert.False(t, data.Multiview)

	for i, native := range session.images[1] {
		h, err := data.Texture(i)
		require.NoError(t, err)
		assert.Equal(t, native, s.TextureNativeHandle(h))
		assert.Equal(t, glstore.ModeExternal, s.TextureMode(h))
		assert.Equal(t, 4, s.TextureWidth(h))
	}
	_, err = data.Texture(3)
	assert.ErrorIs(t, err, ErrImageIndex)
	_, err = data.Texture(-1)
	assert.ErrorIs(t, err, ErrImageIndex)

	h, _ := data.Texture(0)
	data.Cleanup()
	data.Cleanup()
	assert.Equal(t, 0, data.Len())
	assert.Equal(t, live, dev.LiveTextures(), "cleanup deleted runtime images")
	assert.False(t, s.TextureIsActive(h))
}

func TestGetSwapchainImageDataMultiview(t *testing.T) {
	session := &fakeSession{images: map[uint64][]uint32{7: {11, 12}}}
	ext, s, _ := newTestExtension(t, session)

	data, err := ext.GetSwapchainImageData(7, int64(gles.RGBA8), 16, 8, 1, 2)
	require.NoError(t, err)
	defer data.Cleanup()
	assert.True(t, data.Multiview)

	h, err := data.Texture(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), s.TextureNativeHandle(h))
	assert.Equal(t, 16, s.TextureWidth(h))
	assert.Equal(t, 8, s.TextureHeight(h))
}

func TestGetSwapchainImageDataErrors(t *testing.T) {
	boom := errors.New("session lost")
	ext, _, _ := newTestExtension(t, &fakeSession{err: boom})

	_, err := ext.GetSwapchainImageData(1, int64(gles.RGBA8), 4, 4, 1, 1)
	assert.ErrorIs(t, err, boom)

	_, err = ext.GetSwapchainImageData(1, int64(gles.RGBA8), 4, 4, 1, 0)
	assert.Error(t, err)
}

func TestUsableFormats(t *testing.T) {
	assert.Equal(t, []int64{0x8C43, 0x8058}, UsableSwapchainFormats())
	assert.Equal(t, []int64{0x8CAC, 0x88F0, 0x8CAD}, UsableDepthFormats())
	for _, f := range append(UsableSwapchainFormats(), UsableDepthFormats()...) {
		assert.NotContains(t, SwapchainFormatName(f), "Swapchain format")
	}
}

func TestSwapchainFormatName(t *testing.T) {
	assert.Equal(t, "GL_SRGB8_ALPHA8", SwapchainFormatName(int64(gles.SRGB8Alpha8)))
	assert.Equal(t, "GL_DEPTH24_STENCIL8", SwapchainFormatName(0x88F0))
	assert.Equal(t, "Swapchain format 0x1234", SwapchainFormatName(0x1234))
}

func TestProjectionFov(t *testing.T) {
	quarter := math32.Pi / 4
	fov := Fov{AngleLeft: -quarter, AngleRight: quarter, AngleUp: quarter, AngleDown: -quarter}

	m := ProjectionFov(fov, 0.1, 100)
	assert.InDelta(t, 1, m[0], 1e-5)
	assert.InDelta(t, 1, m[5], 1e-5)
	assert.InDelta(t, 0, m[8], 1e-5)
	assert.InDelta(t, 0, m[9], 1e-5)
	assert.Equal(t, float32(-1), m[11])
	assert.InDelta(t, -100.1/99.9, m[10], 1e-5)
	assert.InDelta(t, -20/99.9, m[14], 1e-5)
	assert.Zero(t, m[15])

	inf := ProjectionFov(fov, 0.1, 0)
	assert.Equal(t, float32(-1), inf[10])
	assert.InDelta(t, -0.2, inf[14], 1e-6)

	skewed := ProjectionFov(Fov{AngleLeft: -quarter, AngleRight: 0, AngleUp: quarter, AngleDown: -quarter}, 0.1, 100)
	assert.InDelta(t, 2, skewed[0], 1e-5)
	assert.InDelta(t, -1, skewed[8], 1e-5)
}
