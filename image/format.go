// Package image provides the CPU-side pixel buffers uploaded to and read
// back from GPU textures.
//
// An Image holds a base level and, optionally, a full mipmap chain stored
// contiguously after it. Block-compressed formats are stored as raw blocks.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatL8 is 8-bit luminance.
	FormatL8 Format = iota
	// FormatLA8 is 8-bit luminance plus 8-bit alpha.
	FormatLA8
	FormatR8
	FormatRG8
	FormatRGB8
	FormatRGBA8
	FormatRGBA4444
	FormatRGB565

	// FormatRF to FormatRGBAF are 32-bit float channels.
	FormatRF
	FormatRGF
	FormatRGBF
	FormatRGBAF

	// FormatRH to FormatRGBAH are 16-bit half float channels.
	FormatRH
	FormatRGH
	FormatRGBH
	FormatRGBAH

	// FormatRGBE9995 is a shared-exponent HDR format.
	FormatRGBE9995

	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatRGTCR
	FormatRGTCRG
	FormatBPTCRGBA
	FormatBPTCRGBF
	FormatBPTCRGBFU
	FormatETC
	FormatETC2R11
	FormatETC2R11S
	FormatETC2RG11
	FormatETC2RG11S
	FormatETC2RGB8
	FormatETC2RGBA8
	FormatETC2RGB8A1
	FormatETC2RAAsRG
	FormatDXT5RAAsRG
	FormatASTC4x4
	FormatASTC8x8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Name is the display name.
	Name string

	// PixelSize is the number of bytes per pixel of an uncompressed format.
	PixelSize int

	// BlockSize is the edge length of a compressed block in pixels.
	BlockSize int

	// BlockBytes is the number of bytes of one compressed block.
	BlockBytes int

	// Channels is the number of color channels.
	Channels int
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatL8:         {Name: "L8", PixelSize: 1, Channels: 1},
	FormatLA8:        {Name: "LA8", PixelSize: 2, Channels: 2},
	FormatR8:         {Name: "R8", PixelSize: 1, Channels: 1},
	FormatRG8:        {Name: "RG8", PixelSize: 2, Channels: 2},
	FormatRGB8:       {Name: "RGB8", PixelSize: 3, Channels: 3},
	FormatRGBA8:      {Name: "RGBA8", PixelSize: 4, Channels: 4},
	FormatRGBA4444:   {Name: "RGBA4444", PixelSize: 2, Channels: 4},
	FormatRGB565:     {Name: "RGB565", PixelSize: 2, Channels: 3},
	FormatRF:         {Name: "RFloat", PixelSize: 4, Channels: 1},
	FormatRGF:        {Name: "RGFloat", PixelSize: 8, Channels: 2},
	FormatRGBF:       {Name: "RGBFloat", PixelSize: 12, Channels: 3},
	FormatRGBAF:      {Name: "RGBAFloat", PixelSize: 16, Channels: 4},
	FormatRH:         {Name: "RHalf", PixelSize: 2, Channels: 1},
	FormatRGH:        {Name: "RGHalf", PixelSize: 4, Channels: 2},
	FormatRGBH:       {Name: "RGBHalf", PixelSize: 6, Channels: 3},
	FormatRGBAH:      {Name: "RGBAHalf", PixelSize: 8, Channels: 4},
	FormatRGBE9995:   {Name: "RGBE9995", PixelSize: 4, Channels: 3},
	FormatDXT1:       {Name: "DXT1", BlockSize: 4, BlockBytes: 8, Channels: 4},
	FormatDXT3:       {Name: "DXT3", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatDXT5:       {Name: "DXT5", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatRGTCR:      {Name: "RGTC_R", BlockSize: 4, BlockBytes: 8, Channels: 1},
	FormatRGTCRG:     {Name: "RGTC_RG", BlockSize: 4, BlockBytes: 16, Channels: 2},
	FormatBPTCRGBA:   {Name: "BPTC_RGBA", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatBPTCRGBF:   {Name: "BPTC_RGBF", BlockSize: 4, BlockBytes: 16, Channels: 3},
	FormatBPTCRGBFU:  {Name: "BPTC_RGBFU", BlockSize: 4, BlockBytes: 16, Channels: 3},
	FormatETC:        {Name: "ETC", BlockSize: 4, BlockBytes: 8, Channels: 3},
	FormatETC2R11:    {Name: "ETC2_R11", BlockSize: 4, BlockBytes: 8, Channels: 1},
	FormatETC2R11S:   {Name: "ETC2_R11S", BlockSize: 4, BlockBytes: 8, Channels: 1},
	FormatETC2RG11:   {Name: "ETC2_RG11", BlockSize: 4, BlockBytes: 16, Channels: 2},
	FormatETC2RG11S:  {Name: "ETC2_RG11S", BlockSize: 4, BlockBytes: 16, Channels: 2},
	FormatETC2RGB8:   {Name: "ETC2_RGB8", BlockSize: 4, BlockBytes: 8, Channels: 3},
	FormatETC2RGBA8:  {Name: "ETC2_RGBA8", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatETC2RGB8A1: {Name: "ETC2_RGB8A1", BlockSize: 4, BlockBytes: 8, Channels: 4},
	FormatETC2RAAsRG: {Name: "ETC2_RA_AS_RG", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatDXT5RAAsRG: {Name: "DXT5_RA_AS_RG", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatASTC4x4:    {Name: "ASTC_4x4", BlockSize: 4, BlockBytes: 16, Channels: 4},
	FormatASTC8x8:    {Name: "ASTC_8x8", BlockSize: 8, BlockBytes: 16, Channels: 4},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// IsCompressed reports whether the format stores blocks instead of pixels.
func (f Format) IsCompressed() bool {
	return f.Info().BlockSize > 0
}

// PixelSize returns the number of bytes per pixel, or 0 for compressed formats.
func (f Format) PixelSize() int {
	return f.Info().PixelSize
}

// String returns a string representation of the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return formatInfoTable[f].Name
}

// LevelBytes returns the number of bytes of a single level of the given size.
func (f Format) LevelBytes(width, height int) int {
	info := f.Info()
	if info.BlockSize > 0 {
		bw := (width + info.BlockSize - 1) / info.BlockSize
		bh := (height + info.BlockSize - 1) / info.BlockSize
		return bw * bh * info.BlockBytes
	}
	return width * height * info.PixelSize
}
