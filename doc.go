// Package glstore manages textures and render targets for an OpenGL ES 3
// class renderer.
//
// # Overview
//
// A Storage owns every GPU texture, canvas texture and render target of one
// GL context. Resources are addressed by Handle values that encode their
// registry, so a texture handle never resolves as a render target. All GL
// calls go through the gles.Functions interface, which lets the same code
// run against a real context (internal/glcore) or the software device used
// by the tests (internal/softgl).
//
// # Quick Start
//
//	st, err := glstore.New(fns, effects, sdf)
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	img, _ := image.LoadPNG("sprite.png")
//	tex := st.AllocateTexture()
//	if err := st.Initialize2D(tex, img); err != nil {
//		return err
//	}
//
//	rt := st.CreateRenderTarget()
//	st.SetRenderTargetSize(rt, 1280, 720, 1)
//
// # Textures
//
// Textures are plain (owned storage), proxies of another texture, or
// external wrappers around GL names owned elsewhere. Formats the context
// cannot sample natively are converted or decompressed on upload, see
// TranslateFormat.
//
// # Render Targets
//
// A render target composes a color texture, a depth texture and an
// optional framebuffer. It can render into externally supplied override
// textures, keep a mipmapped backbuffer for blurs and generate a signed
// distance field for 2D lighting.
//
// # Atlas
//
// Textures added with AtlasAdd are packed into one shared texture by
// UpdateTextureAtlas. The atlas is rebuilt only when dirty.
//
// # Coordinate System
//
// Texel and framebuffer coordinates follow GL: origin at the bottom-left
// of the surface, X right and Y up. Atlas UV rectangles are normalized to
// the atlas size.
package glstore

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)
