package glstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
	"github.com/gogpu/glstore/internal/softgl"
)

var (
	_ Effects    = (*softgl.Effects)(nil)
	_ SDFProgram = (*softgl.SDFProgram)(nil)
)

func newTestStorage(t *testing.T, opts ...Option) (*Storage, *softgl.Device) {
	t.Helper()
	dev := softgl.NewDevice()
	s, err := New(dev, softgl.NewEffects(dev), softgl.NewSDFProgram(dev), opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, dev
}

func filledImage(t *testing.T, w, h int, f image.Format, c image.Color, mipmaps bool) *image.Image {
	t.Helper()
	img, err := image.New(w, h, mipmaps, f)
	require.NoError(t, err)
	require.NoError(t, img.Fill(c))
	return img
}

// newTexture2D allocates and initializes a 2D texture from img.
func newTexture2D(t *testing.T, s *Storage, img *image.Image) Handle {
	t.Helper()
	h := s.AllocateTexture()
	require.NoError(t, s.Initialize2D(h, img))
	return h
}

var (
	red   = image.Color{R: 1, A: 1}
	green = image.Color{G: 1, A: 1}
	blue  = image.Color{B: 1, A: 1}
)

func TestStorageHandlesDoNotCrossRegistries(t *testing.T) {
	s, _ := newTestStorage(t)
	tex := newTexture2D(t, s, filledImage(t, 4, 4, image.FormatRGBA8, red, false))
	rt := s.CreateRenderTarget()
	ct := s.AllocateCanvasTexture()
	if err := s.InitializeCanvasTexture(ct); err != nil {
		t.Fatalf("InitializeCanvasTexture() = %v", err)
	}

	if err := s.FreeRenderTarget(tex); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("FreeRenderTarget(texture) = %v, want ErrInvalidHandle", err)
	}
	if err := s.FreeTexture(rt); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("FreeTexture(render target) = %v, want ErrInvalidHandle", err)
	}
	if err := s.FreeCanvasTexture(tex); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("FreeCanvasTexture(texture) = %v, want ErrInvalidHandle", err)
	}
	if s.TextureWidth(ct) != 0 {
		t.Error("canvas texture handle resolved as a texture")
	}
}

func TestStorageRebindsSystemFramebuffer(t *testing.T) {
	s, dev := newTestStorage(t, WithSystemFramebuffer(3))
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 8, 8, 1); err != nil {
		t.Fatalf("SetRenderTargetSize() = %v", err)
	}
	if got := dev.BoundFramebuffer(); got != 3 {
		t.Errorf("BoundFramebuffer() = %d, want the system framebuffer 3", got)
	}
	if dev.IsEnabled(gles.ScissorTest) {
		t.Error("scissor test left enabled after building a render target")
	}
}
