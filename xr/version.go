package xr

import (
	"errors"
	"fmt"

	"github.com/gogpu/glstore"
)

// Version is a packed OpenXR version: 16 bits major, 16 bits minor and 32
// bits patch.
type Version uint64

// MakeVersion packs a version the way XR_MAKE_VERSION does.
func MakeVersion(major, minor uint16, patch uint32) Version {
	return Version(uint64(major)<<48 | uint64(minor)<<32 | uint64(patch))
}

func (v Version) Major() uint16 { return uint16(v >> 48) }
func (v Version) Minor() uint16 { return uint16(v >> 32) }
func (v Version) Patch() uint32 { return uint32(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// DesiredVersion is the GL version requested when creating a session.
var DesiredVersion = MakeVersion(3, 3, 0)

// GraphicsRequirements is the GL version range a runtime supports.
type GraphicsRequirements struct {
	MinAPIVersion Version
	MaxAPIVersion Version
}

// ErrVersionUnsupported is returned when the desired GL version is below
// what the runtime supports.
var ErrVersionUnsupported = errors.New("xr: graphics API version unsupported")

// CheckGraphicsAPISupport reports whether desired is usable with a runtime
// having the given requirements. A version above the tested maximum is
// accepted with a warning.
func CheckGraphicsAPISupport(desired Version, req GraphicsRequirements) error {
	if desired < req.MinAPIVersion {
		return fmt.Errorf("%w: desired %s, minimum %s, maximum %s",
			ErrVersionUnsupported, desired, req.MinAPIVersion, req.MaxAPIVersion)
	}
	if desired > req.MaxAPIVersion {
		glstore.Logger().Warn("xr: requested GL version exceeds the maximum the runtime is known to support",
			"desired", desired.String(), "min", req.MinAPIVersion.String(), "max", req.MaxAPIVersion.String())
	}
	return nil
}
