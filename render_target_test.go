package glstore

import (
	"errors"
	stdimage "image"
	"testing"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
	"github.com/gogpu/glstore/internal/softgl"
)

// newDepthTexture wraps a depth texture created directly on the device.
func newDepthTexture(t *testing.T, s *Storage, dev *softgl.Device, w, h int) Handle {
	t.Helper()
	native := dev.GenTexture()
	dev.ActiveTexture(gles.Texture0)
	dev.BindTexture(gles.Texture2D, native)
	dev.TexImage2D(gles.Texture2D, 0, gles.DepthComponent24, int32(w), int32(h), gles.DepthComponent, gles.UnsignedInt, nil)
	dev.BindTexture(gles.Texture2D, 0)
	t.Cleanup(func() { dev.DeleteTexture(native) })
	return s.InitializeExternal(Kind2D, image.FormatRGBA8, native, w, h, 1, 1, Layered2DArray)
}

func colorAt(dev *softgl.Device, tex uint32, level, x, y int) image.Color {
	surf := dev.Texture(tex).Level(gles.Texture2D, level)
	if surf == nil {
		return image.Color{}
	}
	return surf.At(x, y, 0)
}

func TestRenderTargetLifecycle(t *testing.T) {
	s, dev := newTestStorage(t)
	textures, fbos := dev.LiveTextures(), dev.LiveFramebuffers()

	rt := s.CreateRenderTarget()
	tex := s.RenderTargetTexture(rt)
	if !tex.IsValid() || s.TextureMode(tex) != ModeRenderTarget {
		t.Fatalf("wrapped texture %d has mode %v", tex, s.TextureMode(tex))
	}
	if w, h := s.RenderTargetSize(rt); w != 0 || h != 0 || s.RenderTargetFramebuffer(rt) != 0 {
		t.Errorf("new target has size %dx%d and fbo %d", w, h, s.RenderTargetFramebuffer(rt))
	}

	if err := s.SetRenderTargetSize(rt, 32, 16, 1); err != nil {
		t.Fatalf("SetRenderTargetSize() = %v", err)
	}
	fbo := s.RenderTargetFramebuffer(rt)
	color, depth := s.RenderTargetAttachments(rt)
	if !dev.IsFramebuffer(fbo) || color == 0 || depth == 0 {
		t.Fatalf("fbo %d color %d depth %d", fbo, color, depth)
	}
	if a, ok := dev.FramebufferAttachment(fbo, gles.ColorAttachment0); !ok || a.Texture != color {
		t.Errorf("color attachment = %+v, want texture %d", a, color)
	}
	if got := dev.Texture(color).Level(gles.Texture2D, 0).Internal; got != gles.RGB10A2 {
		t.Errorf("opaque color format = %#x, want RGB10_A2", got)
	}
	if s.TextureNativeHandle(tex) != color || s.TextureWidth(tex) != 32 || s.TextureHeight(tex) != 16 {
		t.Errorf("wrapped texture = %d %dx%d, want %d 32x16",
			s.TextureNativeHandle(tex), s.TextureWidth(tex), s.TextureHeight(tex), color)
	}

	if err := s.SetRenderTargetTransparent(rt, true); err != nil {
		t.Fatalf("SetRenderTargetTransparent() = %v", err)
	}
	color, _ = s.RenderTargetAttachments(rt)
	if got := dev.Texture(color).Level(gles.Texture2D, 0).Internal; got != gles.RGBA8 {
		t.Errorf("transparent color format = %#x, want RGBA8", got)
	}
	if !s.RenderTargetIsTransparent(rt) {
		t.Error("RenderTargetIsTransparent() = false")
	}

	if err := s.SetRenderTargetSize(rt, 0, 0, 1); err != nil {
		t.Fatalf("SetRenderTargetSize(0, 0) = %v", err)
	}
	if s.RenderTargetFramebuffer(rt) != 0 || s.TextureIsActive(tex) {
		t.Error("zero size kept storage or left the wrapped texture active")
	}
	if err := s.SetRenderTargetSize(rt, 8, 8, 0); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetRenderTargetSize(views 0) = %v, want ErrInvalidOperation", err)
	}

	if err := s.FreeRenderTarget(rt); err != nil {
		t.Fatalf("FreeRenderTarget() = %v", err)
	}
	if err := s.FreeTexture(tex); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("wrapped texture survived its render target: %v", err)
	}
	if err := s.FreeRenderTarget(rt); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("second FreeRenderTarget() = %v, want ErrInvalidHandle", err)
	}
	if dev.LiveTextures() != textures || dev.LiveFramebuffers() != fbos {
		t.Errorf("leaked %d textures and %d framebuffers",
			dev.LiveTextures()-textures, dev.LiveFramebuffers()-fbos)
	}
}

func TestRenderTargetFailureRollsBack(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	textures, fbos := dev.LiveTextures(), dev.LiveFramebuffers()

	dev.ForceIncomplete = 1
	err := s.SetRenderTargetSize(rt, 16, 16, 1)
	if !errors.Is(err, ErrGPUAllocation) {
		t.Fatalf("SetRenderTargetSize() = %v, want ErrGPUAllocation", err)
	}
	var fe *FramebufferError
	if !errors.As(err, &fe) || fe.Op != "render target" || fe.Status != gles.FramebufferIncompleteAttachment {
		t.Errorf("error = %#v, want an incomplete render target framebuffer", err)
	}
	if w, h := s.RenderTargetSize(rt); w != 0 || h != 0 {
		t.Errorf("failed target has size %dx%d", w, h)
	}
	if s.TextureIsActive(s.RenderTargetTexture(rt)) {
		t.Error("wrapped texture active after failure")
	}
	if dev.LiveTextures() != textures || dev.LiveFramebuffers() != fbos {
		t.Errorf("failure leaked %d textures and %d framebuffers",
			dev.LiveTextures()-textures, dev.LiveFramebuffers()-fbos)
	}

	if err := s.SetRenderTargetSize(rt, 16, 16, 1); err != nil {
		t.Fatalf("retry SetRenderTargetSize() = %v", err)
	}
	if !s.TextureIsActive(s.RenderTargetTexture(rt)) {
		t.Error("wrapped texture inactive after a successful retry")
	}
}

func TestRenderTargetMultiview(t *testing.T) {
	tests := []struct {
		name      string
		multiview bool
		target    gles.Enum
	}{
		{"layered", true, gles.Texture2DArray},
		{"without extension", false, gles.Texture2D},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dev := newTestStorage(t, WithConfig(Config{Multiview: tt.multiview}))
			rt := s.CreateRenderTarget()
			if err := s.SetRenderTargetSize(rt, 16, 16, 2); err != nil {
				t.Fatalf("SetRenderTargetSize() = %v", err)
			}
			if s.RenderTargetViewCount(rt) != 2 {
				t.Errorf("RenderTargetViewCount() = %d, want 2", s.RenderTargetViewCount(rt))
			}
			color, _ := s.RenderTargetAttachments(rt)
			if got := dev.Texture(color).Target(); got != tt.target {
				t.Errorf("color target = %#x, want %#x", got, tt.target)
			}
			a, _ := dev.FramebufferAttachment(s.RenderTargetFramebuffer(rt), gles.ColorAttachment0)
			if tt.multiview {
				if a.NumViews != 2 || dev.Texture(color).Level(gles.Texture2DArray, 0).Depth != 2 {
					t.Errorf("attachment %+v does not cover two views", a)
				}
				if s.TextureMode(s.RenderTargetTexture(rt)) != ModeRenderTarget {
					t.Error("wrapped texture lost its mode")
				}
			}
		})
	}
}

func TestRenderTargetDirectToScreen(t *testing.T) {
	s, dev := newTestStorage(t, WithSystemFramebuffer(5))
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 8, 8, 1); err != nil {
		t.Fatal(err)
	}
	fbos := dev.LiveFramebuffers()

	if err := s.SetRenderTargetDirectToScreen(rt, true); err != nil {
		t.Fatalf("SetRenderTargetDirectToScreen() = %v", err)
	}
	if got := s.RenderTargetFramebuffer(rt); got != 5 {
		t.Errorf("RenderTargetFramebuffer() = %d, want the system framebuffer", got)
	}
	if dev.LiveFramebuffers() != fbos-1 {
		t.Errorf("offscreen framebuffer kept while drawing to the screen")
	}
	if !s.RenderTargetIsDirectToScreen(rt) {
		t.Error("RenderTargetIsDirectToScreen() = false")
	}

	color := newTexture2D(t, s, filledImage(t, 8, 8, image.FormatRGBA8, red, false))
	if err := s.SetRenderTargetOverride(rt, color, 0, 0); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetRenderTargetOverride() on screen = %v, want ErrInvalidOperation", err)
	}
	if err := s.RenderTargetCopyToBackBuffer(rt, stdimage.Rectangle{}, false); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("RenderTargetCopyToBackBuffer() on screen = %v, want ErrInvalidOperation", err)
	}
	if err := s.SetRenderTargetSize(rt, 16, 16, 1); err != nil || s.RenderTargetFramebuffer(rt) != 5 {
		t.Errorf("resize on screen = %v, fbo %d", err, s.RenderTargetFramebuffer(rt))
	}

	if err := s.SetRenderTargetDirectToScreen(rt, false); err != nil {
		t.Fatal(err)
	}
	if fbo := s.RenderTargetFramebuffer(rt); fbo == 5 || !dev.IsFramebuffer(fbo) {
		t.Errorf("offscreen framebuffer = %d after leaving the screen", fbo)
	}
	if w, h := s.RenderTargetSize(rt); w != 16 || h != 16 {
		t.Errorf("size = %dx%d, want 16x16", w, h)
	}
}

func TestRenderTargetClearRequest(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 4, 4, 1); err != nil {
		t.Fatal(err)
	}

	s.RequestClear(rt, red)
	if !s.IsClearRequested(rt) || s.ClearRequestColor(rt) != red {
		t.Fatalf("clear request = %v %+v", s.IsClearRequested(rt), s.ClearRequestColor(rt))
	}
	s.DoClearRequest(rt)
	if s.IsClearRequested(rt) {
		t.Error("clear still pending after DoClearRequest")
	}
	color, _ := s.RenderTargetAttachments(rt)
	if got := colorAt(dev, color, 0, 3, 3); got != red {
		t.Errorf("cleared texel = %+v, want %+v", got, red)
	}
	if dev.BoundFramebuffer() != s.SystemFramebuffer() {
		t.Error("DoClearRequest left the target bound")
	}

	s.RequestClear(rt, green)
	s.DisableClearRequest(rt)
	s.DoClearRequest(rt)
	if got := colorAt(dev, color, 0, 0, 0); got != red {
		t.Errorf("disabled clear ran: texel %+v", got)
	}
}

func TestRenderTargetFlags(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 8, 8, 1); err != nil {
		t.Fatal(err)
	}

	s.SetRenderTargetPosition(rt, 3, -2)
	if got := s.RenderTargetPosition(rt); got != stdimage.Pt(3, -2) {
		t.Errorf("RenderTargetPosition() = %v", got)
	}

	s.MarkRenderTargetUsed(rt)
	if !s.RenderTargetWasUsed(rt) {
		t.Error("RenderTargetWasUsed() = false after mark")
	}
	s.ClearRenderTargetUsed(rt)
	if s.RenderTargetWasUsed(rt) {
		t.Error("RenderTargetWasUsed() = true after clear")
	}

	fbos := dev.LiveFramebuffers()
	if err := s.SetRenderTargetMSAA(rt, MSAA4x); err != nil {
		t.Fatalf("SetRenderTargetMSAA() = %v", err)
	}
	if s.RenderTargetMSAA(rt) != MSAA4x {
		t.Errorf("RenderTargetMSAA() = %v, want 4x", s.RenderTargetMSAA(rt))
	}
	if dev.LiveFramebuffers() != fbos || !dev.IsFramebuffer(s.RenderTargetFramebuffer(rt)) {
		t.Error("MSAA rebuild did not leave exactly one framebuffer")
	}
	if MSAA8x.String() != "8x" || MSAA(9).String() != "MSAA(9)" {
		t.Errorf("MSAA names = %q %q", MSAA8x.String(), MSAA(9).String())
	}
}

func TestRenderTargetBackbuffer(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 100, 100, 1); err != nil {
		t.Fatal(err)
	}
	s.RequestClear(rt, red)
	s.DoClearRequest(rt)

	if err := s.RenderTargetCopyToBackBuffer(rt, stdimage.Rectangle{}, true); err != nil {
		t.Fatalf("RenderTargetCopyToBackBuffer() = %v", err)
	}
	tex, fbo, mipmaps := s.RenderTargetBackbuffer(rt)
	if tex == 0 || !dev.IsFramebuffer(fbo) || mipmaps != 2 {
		t.Fatalf("backbuffer = %d/%d with %d levels, want 2 levels", tex, fbo, mipmaps)
	}
	if got := colorAt(dev, tex, 0, 50, 50); got != red {
		t.Errorf("copied texel = %+v, want %+v", got, red)
	}
	if got := colorAt(dev, tex, 1, 25, 25); got != red {
		t.Errorf("blurred texel = %+v, want %+v", got, red)
	}

	if err := s.RenderTargetClearBackBuffer(rt, stdimage.Rect(0, 0, 10, 10), blue); err != nil {
		t.Fatal(err)
	}
	if got := colorAt(dev, tex, 0, 5, 5); got != blue {
		t.Errorf("cleared region texel = %+v, want %+v", got, blue)
	}
	if got := colorAt(dev, tex, 0, 50, 50); got != red {
		t.Errorf("texel outside the region = %+v, want %+v", got, red)
	}
	if err := s.RenderTargetGenBackBufferMipmaps(rt, stdimage.Rect(0, 0, 10, 10)); err != nil {
		t.Fatal(err)
	}
	if got := colorAt(dev, tex, 1, 2, 2); got != blue {
		t.Errorf("regenerated level texel = %+v, want %+v", got, blue)
	}

	if err := s.RenderTargetClearBackBuffer(rt, stdimage.Rectangle{}, green); err != nil {
		t.Fatal(err)
	}
	if got := colorAt(dev, tex, 0, 99, 99); got != green {
		t.Errorf("full clear texel = %+v, want %+v", got, green)
	}

	if err := s.SetRenderTargetSize(rt, 64, 64, 1); err != nil {
		t.Fatal(err)
	}
	if tex, _, _ := s.RenderTargetBackbuffer(rt); tex != 0 {
		t.Error("backbuffer survived a resize")
	}
}

func TestRenderTargetBackbufferSkipsSmallTargets(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 40, 200, 1); err != nil {
		t.Fatal(err)
	}
	created := dev.FramebuffersCreated
	if err := s.RenderTargetCopyToBackBuffer(rt, stdimage.Rectangle{}, true); err != nil {
		t.Fatalf("RenderTargetCopyToBackBuffer() = %v", err)
	}
	if tex, fbo, _ := s.RenderTargetBackbuffer(rt); tex != 0 || fbo != 0 {
		t.Errorf("small target got backbuffer %d/%d", tex, fbo)
	}
	if dev.FramebuffersCreated != created {
		t.Error("small target created a framebuffer")
	}
	if err := s.RenderTargetGenBackBufferMipmaps(s.AllocateTexture(), stdimage.Rectangle{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("RenderTargetGenBackBufferMipmaps(texture handle) = %v, want ErrInvalidHandle", err)
	}
}

func TestRenderTargetBackbufferFailure(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 64, 64, 1); err != nil {
		t.Fatal(err)
	}
	textures := dev.LiveTextures()

	dev.ForceIncomplete = 1
	err := s.RenderTargetCopyToBackBuffer(rt, stdimage.Rectangle{}, false)
	var fe *FramebufferError
	if !errors.As(err, &fe) || fe.Op != "backbuffer" {
		t.Fatalf("RenderTargetCopyToBackBuffer() = %v, want a backbuffer FramebufferError", err)
	}
	if tex, fbo, n := s.RenderTargetBackbuffer(rt); tex != 0 || fbo != 0 || n != 0 {
		t.Errorf("failed backbuffer left %d/%d/%d", tex, fbo, n)
	}
	if dev.LiveTextures() != textures {
		t.Errorf("failed backbuffer leaked %d textures", dev.LiveTextures()-textures)
	}
}

func TestRenderTargetOverride(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	x := newTexture2D(t, s, filledImage(t, 16, 8, image.FormatRGBA8, red, false))

	if err := s.SetRenderTargetOverride(rt, x, 0, 7); err != nil {
		t.Fatalf("SetRenderTargetOverride() = %v", err)
	}
	if w, h := s.RenderTargetSize(rt); w != 16 || h != 8 {
		t.Errorf("size = %dx%d, want the override size 16x8", w, h)
	}
	if !s.RenderTargetIsOverridden(rt) || s.RenderTargetTexture(rt) != x {
		t.Error("override color is not the render target texture")
	}
	if c, d, v := s.RenderTargetOverride(rt); c != x || d != 0 || v != 7 {
		t.Errorf("RenderTargetOverride() = %d %d %d", c, d, v)
	}
	color, depth := s.RenderTargetAttachments(rt)
	if color != s.TextureNativeHandle(x) || depth == 0 {
		t.Errorf("attachments = %d/%d, want %d and an allocated depth", color, depth, s.TextureNativeHandle(x))
	}

	if err := s.FreeTexture(x); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("FreeTexture(override color) = %v, want ErrInvalidOperation", err)
	}
	if err := s.SetRenderTargetSize(rt, 4, 4, 1); err != nil {
		t.Fatal(err)
	}
	if w, _ := s.RenderTargetSize(rt); w != 16 {
		t.Errorf("resize changed an overridden target to width %d", w)
	}
	if err := s.SetRenderTargetOverride(rt, s.AllocateTexture(), 0, 0); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("SetRenderTargetOverride(reserved) = %v, want ErrInvalidHandle", err)
	}

	fbos := dev.LiveFramebuffers()
	if err := s.SetRenderTargetOverride(rt, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if s.RenderTargetIsOverridden(rt) || s.RenderTargetFramebuffer(rt) != 0 {
		t.Error("removing the override kept its framebuffer")
	}
	if dev.LiveFramebuffers() != fbos-1 {
		t.Error("unused override framebuffer was not destroyed")
	}
	if err := s.FreeTexture(x); err != nil {
		t.Errorf("FreeTexture() after removing the override = %v", err)
	}
}

func TestRenderTargetOverrideCache(t *testing.T) {
	s, dev := newTestStorage(t)
	x := newTexture2D(t, s, filledImage(t, 8, 8, image.FormatRGBA8, red, false))
	y := newDepthTexture(t, s, dev, 8, 8)
	z := newTexture2D(t, s, filledImage(t, 4, 4, image.FormatRGBA8, green, false))
	w := newDepthTexture(t, s, dev, 4, 4)

	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetOverride(rt, x, y, 0); err != nil {
		t.Fatal(err)
	}
	first := s.RenderTargetFramebuffer(rt)
	if err := s.SetRenderTargetOverride(rt, z, w, 0); err != nil {
		t.Fatal(err)
	}
	if sz, _ := s.RenderTargetSize(rt); sz != 4 {
		t.Errorf("width = %d after switching pairs, want 4", sz)
	}

	created := dev.FramebuffersCreated
	calls := dev.CallCount
	if err := s.SetRenderTargetOverride(rt, x, y, 0); err != nil {
		t.Fatal(err)
	}
	if dev.FramebuffersCreated != created || dev.CallCount != calls {
		t.Errorf("returning to a cached pair made %d GL calls", dev.CallCount-calls)
	}
	if got := s.RenderTargetFramebuffer(rt); got != first {
		t.Errorf("cached framebuffer = %d, want %d", got, first)
	}
	if sz, _ := s.RenderTargetSize(rt); sz != 8 {
		t.Errorf("width = %d, want 8", sz)
	}

	other := s.CreateRenderTarget()
	if err := s.SetRenderTargetOverride(other, x, y, 0); err != nil {
		t.Fatal(err)
	}
	if dev.FramebuffersCreated != created || s.RenderTargetFramebuffer(other) != first {
		t.Error("a second render target did not share the cached framebuffer")
	}

	if err := s.FreeRenderTarget(rt); err != nil {
		t.Fatal(err)
	}
	if !dev.IsFramebuffer(first) {
		t.Error("shared framebuffer destroyed while still in use")
	}
	if err := s.FreeRenderTarget(other); err != nil {
		t.Fatal(err)
	}
	if dev.IsFramebuffer(first) {
		t.Error("shared framebuffer outlived its last user")
	}
	if dev.Errors != 0 {
		t.Errorf("device rejected %d calls", dev.Errors)
	}
}

func TestRenderTargetOverrideWrapsWhenColorIsAllocated(t *testing.T) {
	s, dev := newTestStorage(t)
	depth := newDepthTexture(t, s, dev, 8, 4)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 8, 4, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRenderTargetOverride(rt, 0, depth, 0); err != nil {
		t.Fatalf("SetRenderTargetOverride(depth only) = %v", err)
	}
	tex := s.RenderTargetTexture(rt)
	color, d := s.RenderTargetAttachments(rt)
	if s.TextureMode(tex) != ModeRenderTarget || s.TextureNativeHandle(tex) != color {
		t.Errorf("wrapped texture = %v/%d, want the allocated color %d", s.TextureMode(tex), s.TextureNativeHandle(tex), color)
	}
	if d != s.TextureNativeHandle(depth) {
		t.Errorf("depth attachment = %d, want %d", d, s.TextureNativeHandle(depth))
	}
}

func TestRenderTargetResizeToZero(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 16},
		{"zero height", 16, 0},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dev := newTestStorage(t)
			rt := s.CreateRenderTarget()
			textures, fbos := dev.LiveTextures(), dev.LiveFramebuffers()
			if err := s.SetRenderTargetSize(rt, 32, 32, 1); err != nil {
				t.Fatal(err)
			}

			if err := s.SetRenderTargetSize(rt, tt.width, tt.height, 1); err != nil {
				t.Fatalf("SetRenderTargetSize(%d, %d) = %v", tt.width, tt.height, err)
			}
			if s.RenderTargetFramebuffer(rt) != 0 || s.TextureIsActive(s.RenderTargetTexture(rt)) {
				t.Error("degenerate size kept storage")
			}
			if dev.LiveTextures() != textures || dev.LiveFramebuffers() != fbos {
				t.Errorf("leaked %d textures and %d framebuffers",
					dev.LiveTextures()-textures, dev.LiveFramebuffers()-fbos)
			}
		})
	}
}

func TestRenderTargetProxyFollowsResize(t *testing.T) {
	s, dev := newTestStorage(t)
	rt := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(rt, 64, 64, 1); err != nil {
		t.Fatal(err)
	}
	base := s.RenderTargetTexture(rt)
	proxy := s.AllocateTexture()
	if err := s.InitializeProxy(proxy, base); err != nil {
		t.Fatalf("InitializeProxy() = %v", err)
	}

	if err := s.SetRenderTargetSize(rt, 128, 128, 1); err != nil {
		t.Fatal(err)
	}
	name := s.TextureNativeHandle(proxy)
	if name != s.TextureNativeHandle(base) || dev.Texture(name) == nil {
		t.Errorf("proxy name = %d, want the live base name %d", name, s.TextureNativeHandle(base))
	}
	if s.TextureWidth(proxy) != 128 || s.TextureHeight(proxy) != 128 {
		t.Errorf("proxy size = %dx%d, want 128x128", s.TextureWidth(proxy), s.TextureHeight(proxy))
	}

	if err := s.SetRenderTargetSize(rt, 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if s.TextureNativeHandle(proxy) != 0 || s.TextureIsActive(proxy) {
		t.Error("proxy kept the released storage")
	}
}

func TestRenderTargetOverrideFillInIsPerTarget(t *testing.T) {
	s, dev := newTestStorage(t)
	depth := newDepthTexture(t, s, dev, 100, 100)

	a := s.CreateRenderTarget()
	b := s.CreateRenderTarget()
	if err := s.SetRenderTargetSize(a, 100, 100, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRenderTargetSize(b, 50, 50, 1); err != nil {
		t.Fatal(err)
	}
	for _, rt := range []Handle{a, b} {
		if err := s.SetRenderTargetOverride(rt, 0, depth, 0); err != nil {
			t.Fatalf("SetRenderTargetOverride(%d) = %v", rt, err)
		}
	}

	colorA, _ := s.RenderTargetAttachments(a)
	colorB, _ := s.RenderTargetAttachments(b)
	if colorA == colorB {
		t.Errorf("both render targets draw into color %d", colorA)
	}
	if s.RenderTargetFramebuffer(a) == s.RenderTargetFramebuffer(b) {
		t.Error("render targets share a framebuffer with an allocated attachment")
	}
	if w, h := s.RenderTargetSize(b); w != 50 || h != 50 {
		t.Errorf("second target size = %dx%d, want 50x50", w, h)
	}

	fbo := s.RenderTargetFramebuffer(b)
	if err := s.FreeRenderTarget(a); err != nil {
		t.Fatal(err)
	}
	if !dev.IsFramebuffer(fbo) || dev.Texture(colorB) == nil {
		t.Error("freeing one render target released the other's storage")
	}
	if dev.Texture(colorA) != nil {
		t.Error("allocated color of the freed render target survived")
	}
}
