package gles

// SDFMode selects a variant of the distance field program.
type SDFMode uint8

const (
	// SDFLoad seeds the process buffer from the occluder surface.
	SDFLoad SDFMode = iota
	// SDFLoadShrink seeds a downscaled process buffer.
	SDFLoadShrink
	// SDFProcess runs one jump-flood step.
	SDFProcess
	// SDFStore writes the encoded distance to the read surface.
	SDFStore
	// SDFStoreShrink is SDFStore for a downscaled process buffer.
	SDFStoreShrink
)

// String returns the variant name.
func (m SDFMode) String() string {
	switch m {
	case SDFLoad:
		return "load"
	case SDFLoadShrink:
		return "load_shrink"
	case SDFProcess:
		return "process"
	case SDFStore:
		return "store"
	case SDFStoreShrink:
		return "store_shrink"
	}
	return "unknown"
}

// Uniform names of the distance field program.
const (
	UniformBaseSize = "base_size"
	UniformSize     = "size"
	UniformStride   = "stride"
	UniformShift    = "shift"
)
