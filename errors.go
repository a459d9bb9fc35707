package glstore

import (
	"errors"
	"fmt"

	"github.com/gogpu/glstore/gles"
	"github.com/gogpu/glstore/image"
)

// Errors returned by Storage operations.
var (
	// ErrInvalidHandle is returned when a handle does not resolve to a live record.
	ErrInvalidHandle = errors.New("glstore: invalid handle")

	// ErrUnsupportedFormat is returned when a pixel format has no GL mapping.
	ErrUnsupportedFormat = errors.New("glstore: unsupported format")

	// ErrInvalidOperation is returned when an operation is not allowed on a
	// resource in its current state.
	ErrInvalidOperation = errors.New("glstore: invalid operation")

	// ErrGPUAllocation is returned when a framebuffer fails its completeness check.
	ErrGPUAllocation = errors.New("glstore: GPU allocation failed")

	// ErrNotImplemented is returned by operations that have no implementation.
	ErrNotImplemented = errors.New("glstore: not implemented")
)

// UnsupportedFormatError reports the format that could not be translated.
type UnsupportedFormatError struct {
	Format image.Format
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("glstore: unsupported format %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("glstore: unsupported format %s", e.Format)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// FramebufferError reports an incomplete framebuffer.
type FramebufferError struct {
	// Op names the surface being built ("render target", "atlas", ...).
	Op     string
	Status gles.Enum
}

func (e *FramebufferError) Error() string {
	return fmt.Sprintf("glstore: %s framebuffer incomplete: %s", e.Op, gles.FramebufferStatusString(e.Status))
}

func (e *FramebufferError) Unwrap() error { return ErrGPUAllocation }
