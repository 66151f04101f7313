package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// Camera is a fixed-orientation pinhole camera looking down +Z.
// Only its position moves (zoom changes Z); the model rotates instead.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Horizontal field of view in radians
	FOV float64
}

// ScreenPoint is a projected vertex: pixel coordinates plus the camera-space
// depth used by the depth test.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// DefaultCameraZ is the starting camera distance on the -Z side.
const DefaultCameraZ = -8.0

// NewCamera creates a camera at (0, 0, DefaultCameraZ) with a 60 degree FOV.
func NewCamera() *Camera {
	return &Camera{
		Position: math3d.V3(0, 0, DefaultCameraZ),
		FOV:      math.Pi / 3,
	}
}

// SetZ moves the camera along the view axis.
func (c *Camera) SetZ(z float64) {
	c.Position.Z = z
}

// Project maps a point to screen coordinates for a width x height target.
//
// inFront is false when the point is not strictly in front of the camera.
// The coordinates are still computed for such points unless the relative
// depth is exactly zero, so callers must check inFront before using them.
func (c *Camera) Project(p math3d.Vec3, width, height int) (sp ScreenPoint, inFront bool) {
	rel := p.Sub(c.Position)
	if rel.Z == 0 {
		return ScreenPoint{}, false
	}

	scale := math.Tan(c.FOV / 2)
	halfW := float64(width) / 2
	halfH := float64(height) / 2
	aspect := float64(width) / float64(height)

	sp.X = (rel.X/(rel.Z*scale))*halfW + halfW
	sp.Y = (rel.Y/(rel.Z*scale))*halfH*aspect + halfH
	sp.Depth = rel.Z
	return sp, rel.Z > 0
}

// Unproject inverts Project for a point with non-zero depth.
func (c *Camera) Unproject(sp ScreenPoint, width, height int) math3d.Vec3 {
	scale := math.Tan(c.FOV / 2)
	halfW := float64(width) / 2
	halfH := float64(height) / 2
	aspect := float64(width) / float64(height)

	rel := math3d.V3(
		(sp.X-halfW)/halfW*sp.Depth*scale,
		(sp.Y-halfH)/(halfH*aspect)*sp.Depth*scale,
		sp.Depth,
	)
	return rel.Add(c.Position)
}
