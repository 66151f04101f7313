// Package control turns held-direction input into the model's orientation
// and the camera's zoom distance.
package control

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
)

// Motion constants. Velocities are in degrees per second.
const (
	MaxAngularVelocity = 10.0
	Acceleration       = 5.0  // per second while a direction is held
	DecayRate          = 3.0  // exponential decay per second when released
	SnapThreshold      = 0.05 // |v| at or below this snaps to zero

	ZoomInRate  = 3.0 // camera units per second while zoom is held
	ZoomOutRate = 5.0 // camera units per second otherwise
	MinCameraZ  = -10.0
	MaxCameraZ  = -6.0
)

// Reset spring tuning: critically damped, no overshoot.
const (
	resetFrequency = 6.0
	resetDamping   = 1.0
	resetEpsilon   = 1e-3
)

// Input is the per-frame snapshot of held directions.
type Input struct {
	Left, Right bool // rotate about Y
	Up, Down    bool // rotate about X
	ZoomHeld    bool
}

// AngularVelocity is the spin rate about the world X and Y axes.
type AngularVelocity struct {
	X, Y float64
}

// Controller integrates input into a world-space orientation.
type Controller struct {
	Velocity AngularVelocity

	orientation math3d.Quat
	dirty       bool
	last        time.Time

	fps       int
	resetting bool
	resetFrom math3d.Quat
	resetPos  float64
	resetVel  float64
	spring    harmonica.Spring
}

// NewController creates a controller at rest with the identity orientation.
// fps sets the time step of the reset spring.
func NewController(fps int) *Controller {
	if fps <= 0 {
		fps = 60
	}
	return &Controller{
		orientation: math3d.QuatIdentity(),
		dirty:       true,
		fps:         fps,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), resetFrequency, resetDamping),
	}
}

// Orientation returns the current orientation and whether it changed since
// the last ClearDirty.
func (c *Controller) Orientation() (math3d.Quat, bool) {
	return c.orientation, c.dirty
}

// ClearDirty marks the orientation as consumed.
func (c *Controller) ClearDirty() {
	c.dirty = false
}

// Resetting reports whether a reset animation is in progress.
func (c *Controller) Resetting() bool {
	return c.resetting
}

// Reset stops the spin and eases the orientation back to identity over the
// following steps.
func (c *Controller) Reset() {
	c.Velocity = AngularVelocity{}
	c.resetting = true
	c.resetFrom = c.orientation
	c.resetPos, c.resetVel = 0, 0
}

// Step advances the controller to now. The first call only records the
// timestamp. cam may be nil when zoom is not wanted.
func (c *Controller) Step(now time.Time, in Input, cam *render.Camera) {
	if c.last.IsZero() {
		c.last = now
		return
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt <= 0 {
		return
	}

	if c.resetting {
		c.stepReset()
	} else {
		c.Velocity.Y = stepAxis(c.Velocity.Y, in.Left, in.Right, dt)
		c.Velocity.X = stepAxis(c.Velocity.X, in.Up, in.Down, dt)
		c.rotate(c.Velocity.X*dt, c.Velocity.Y*dt, 0)
	}

	if cam != nil {
		z := cam.Position.Z
		if in.ZoomHeld {
			z += ZoomInRate * dt
		} else {
			z -= ZoomOutRate * dt
		}
		cam.SetZ(math.Max(MinCameraZ, math.Min(MaxCameraZ, z)))
	}
}

// stepAxis accelerates toward a held direction or decays when neither
// direction is held.
func stepAxis(v float64, pos, neg bool, dt float64) float64 {
	switch {
	case pos && !neg:
		v += Acceleration * dt
	case neg && !pos:
		v -= Acceleration * dt
	case !pos && !neg && v != 0:
		v *= math.Exp(-DecayRate * dt)
		if math.Abs(v) <= SnapThreshold {
			v = 0
		}
	}
	return math.Max(-MaxAngularVelocity, math.Min(MaxAngularVelocity, v))
}

// rotate composes per-axis degree amounts into the orientation in world
// space.
func (c *Controller) rotate(dx, dy, dz float64) {
	if dx == 0 && dy == 0 && dz == 0 {
		return
	}

	delta := math3d.QuatIdentity()
	delta = math3d.QuatFromAxisAngle(math3d.V3(1, 0, 0), math3d.Deg2Rad(dx)).Mul(delta)
	delta = math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math3d.Deg2Rad(dy)).Mul(delta)
	delta = math3d.QuatFromAxisAngle(math3d.V3(0, 0, 1), math3d.Deg2Rad(dz)).Mul(delta)

	c.orientation = delta.Mul(c.orientation).Normalize()
	c.dirty = true
}

func (c *Controller) stepReset() {
	c.resetPos, c.resetVel = c.spring.Update(c.resetPos, c.resetVel, 1)
	if math.Abs(1-c.resetPos) < resetEpsilon && math.Abs(c.resetVel) < resetEpsilon {
		c.orientation = math3d.QuatIdentity()
		c.resetting = false
	} else {
		c.orientation = c.resetFrom.Slerp(math3d.QuatIdentity(), c.resetPos).Normalize()
	}
	c.dirty = true
}
