package xr

import (
	"errors"
	"fmt"

	"github.com/gogpu/glstore"
	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// SwapchainSource enumerates the native GL textures of a swapchain. It is
// implemented by the XR session.
type SwapchainSource interface {
	EnumerateSwapchainImages(swapchain uint64) ([]uint32, error)
}

// ErrImageIndex is returned for a swapchain image index out of range.
var ErrImageIndex = errors.New("xr: swapchain image index out of range")

// Extension connects a Storage to the swapchains of one XR session.
type Extension struct {
	storage *glstore.Storage
	source  SwapchainSource
}

func New(storage *glstore.Storage, source SwapchainSource) *Extension {
	return &Extension{storage: storage, source: source}
}

// UsableSwapchainFormats returns the color formats the renderer can draw
// into, in order of preference.
func UsableSwapchainFormats() []int64 {
	return []int64{int64(gles.SRGB8Alpha8), int64(gles.RGBA8)}
}

// UsableDepthFormats returns the depth formats the renderer can use, in
// order of preference.
func UsableDepthFormats() []int64 {
	return []int64{int64(gles.DepthComponent32F), int64(gles.Depth24Stencil8), int64(gles.Depth32FStencil8)}
}

// SwapchainGraphicsData holds the textures wrapping the images of one
// swapchain.
type SwapchainGraphicsData struct {
	storage  *glstore.Storage
	textures []glstore.Handle

	// Multiview is set when the swapchain has more than one array layer.
	Multiview bool
}

// GetSwapchainImageData wraps every image of swapchain as an external
// texture. Swapchains with one layer become 2D textures, others 2D arrays
// with arraySize layers. The images are always described as RGBA8.
func (e *Extension) GetSwapchainImageData(swapchain uint64, format int64, width, height, sampleCount, arraySize uint32) (*SwapchainGraphicsData, error) {
	if arraySize == 0 {
		return nil, fmt.Errorf("xr: swapchain %d has no array layers", swapchain)
	}
	images, err := e.source.EnumerateSwapchainImages(swapchain)
	if err != nil {
		return nil, fmt.Errorf("xr: enumerate swapchain images: %w", err)
	}

	kind := glstore.Kind2D
	if arraySize > 1 {
		kind = glstore.KindLayered
	}
	data := &SwapchainGraphicsData{
		storage:   e.storage,
		textures:  make([]glstore.Handle, 0, len(images)),
		Multiview: arraySize > 1,
	}
	for _, native := range images {
		h := e.storage.InitializeExternal(kind, image.FormatRGBA8, native,
			int(width), int(height), 1, int(arraySize), glstore.Layered2DArray)
		data.textures = append(data.textures, h)
	}

	glstore.Logger().Debug("xr: swapchain images wrapped", "swapchain", swapchain,
		"format", SwapchainFormatName(format), "images", len(images), "samples", sampleCount)
	return data, nil
}

// Len returns the number of swapchain images.
func (d *SwapchainGraphicsData) Len() int { return len(d.textures) }

// Texture returns the texture wrapping image index.
func (d *SwapchainGraphicsData) Texture(index int) (glstore.Handle, error) {
	if index < 0 || index >= len(d.textures) {
		return 0, fmt.Errorf("%w: %d of %d", ErrImageIndex, index, len(d.textures))
	}
	return d.textures[index], nil
}

// Cleanup frees the wrapping textures. The swapchain images stay with the
// runtime. Cleanup may be called more than once.
func (d *SwapchainGraphicsData) Cleanup() {
	if d == nil {
		return
	}
	for _, h := range d.textures {
		if err := d.storage.FreeTexture(h); err != nil {
			glstore.Logger().Warn("xr: free swapchain texture", "handle", h, "err", err)
		}
	}
	d.textures = nil
}
