// Package xr exposes glstore textures to an OpenXR compositor.
//
// The XR runtime owns the swapchain images. This package only enumerates
// them through a SwapchainSource and wraps each native texture as an
// external glstore texture, so freeing the wrappers never deletes the
// runtime's storage.
//
//	ext := xr.New(storage, session)
//	data, err := ext.GetSwapchainImageData(swapchain, int64(gles.SRGB8Alpha8), 1832, 1920, 1, 2)
//	if err != nil {
//		return err
//	}
//	defer data.Cleanup()
//	tex, _ := data.Texture(imageIndex)
package xr
