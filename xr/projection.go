package xr

import "github.com/chewxy/math32"

// Fov is the field of view of one eye as four half angles in radians.
// AngleLeft and AngleDown are negative for a symmetric view.
type Fov struct {
	AngleLeft, AngleRight float32
	AngleUp, AngleDown    float32
}

// ProjectionFov returns the column major GL projection matrix for fov.
// A far plane at or before the near plane gives an infinite projection.
func ProjectionFov(fov Fov, near, far float32) [16]float32 {
	tanLeft := math32.Tan(fov.AngleLeft)
	tanRight := math32.Tan(fov.AngleRight)
	tanDown := math32.Tan(fov.AngleDown)
	tanUp := math32.Tan(fov.AngleUp)

	width := tanRight - tanLeft
	height := tanUp - tanDown

	var m [16]float32
	m[0] = 2 / width
	m[5] = 2 / height
	m[8] = (tanRight + tanLeft) / width
	m[9] = (tanUp + tanDown) / height
	m[11] = -1

	if far <= near {
		m[10] = -1
		m[14] = -2 * near
		return m
	}
	m[10] = -(far + near) / (far - near)
	m[14] = -(far * (near + near)) / (far - near)
	return m
}
