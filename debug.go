package glstore

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/gogpu/gputypes"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/glstore/image"
)

// TextureInfo describes a texture for memory tooling.
type TextureInfo struct {
	Handle Handle
	Path   string
	Mode   Mode
	Kind   Kind

	Format     image.Format
	RealFormat image.Format

	// Size is the allocated size; layers are reported as
	// DepthOrArrayLayers.
	Size      gputypes.Extent3D
	Dimension gputypes.TextureDimension

	// WebGPUFormat is the closest WebGPU format of the stored data, or
	// TextureFormatUndefined when there is none.
	WebGPUFormat gputypes.TextureFormat

	Mipmaps int
	Bytes   int
}

func webGPUFormat(f image.Format) gputypes.TextureFormat {
	switch f {
	case image.FormatL8, image.FormatR8:
		return gputypes.TextureFormatR8Unorm
	case image.FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatUndefined
}

// DebugUsage returns a description of every texture, largest first.
func (s *Storage) DebugUsage() []TextureInfo {
	ids := s.textures.IDs()
	infos := make([]TextureInfo, 0, len(ids))
	for _, h := range ids {
		t := s.textures.Get(h)
		layers := max(1, t.layers)
		dim := gputypes.TextureDimension2D
		if t.kind == Kind3D {
			dim = gputypes.TextureDimension3D
			layers = max(1, t.depth)
		}
		bytes := image.DataSize(max(1, t.allocWidth), max(1, t.allocHeight), t.realFormat, t.mipmaps > 1) * layers
		if t.allocWidth <= 0 || t.allocHeight <= 0 || t.mode == ModeProxy {
			bytes = 0
		}
		infos = append(infos, TextureInfo{
			Handle:       h,
			Path:         t.path,
			Mode:         t.mode,
			Kind:         t.kind,
			Format:       t.format,
			RealFormat:   t.realFormat,
			Size:         gputypes.Extent3D{Width: uint32(max(0, t.allocWidth)), Height: uint32(max(0, t.allocHeight)), DepthOrArrayLayers: uint32(layers)},
			Dimension:    dim,
			WebGPUFormat: webGPUFormat(t.realFormat),
			Mipmaps:      t.mipmaps,
			Bytes:        bytes,
		})
	}
	slices.SortStableFunc(infos, func(a, b TextureInfo) int {
		if a.Bytes != b.Bytes {
			return cmp.Compare(b.Bytes, a.Bytes)
		}
		return cmp.Compare(a.Handle, b.Handle)
	})
	return infos
}

// UsageReport writes DebugUsage as a table followed by the total.
func (s *Storage) UsageReport(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PATH\tMODE\tFORMAT\tSIZE\tMIPS\tBYTES")
	total := 0
	infos := s.DebugUsage()
	for _, info := range infos {
		path := info.Path
		if path == "" {
			path = fmt.Sprintf("<%d>", info.Handle)
		}
		p.Fprintf(tw, "%s\t%s\t%s\t%dx%dx%d\t%d\t%d\n", path, info.Mode, info.RealFormat,
			info.Size.Width, info.Size.Height, info.Size.DepthOrArrayLayers, info.Mipmaps, info.Bytes)
		total += info.Bytes
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := p.Fprintf(w, "%d textures, %d bytes\n", len(infos), total)
	return err
}
