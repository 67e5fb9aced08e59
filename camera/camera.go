// Package camera provides an orbiting perspective camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/config"
)

// maxElevation keeps the camera off the poles where the up vector degenerates.
const maxElevation = math.Pi/2 - 0.01

var up = mgl32.Vec3{0, 1, 0}

// Orbit circles a target point at a given distance.
// Auto-rotation eases in and out through the damping factor.
type Orbit struct {
	// Target is the point the camera looks at
	Target mgl32.Vec3

	// Spherical coordinates around Target (radians)
	Distance  float32
	Azimuth   float32
	Elevation float32

	// Projection parameters (FovY in degrees)
	FovY, Near, Far float32

	// Viewport dimensions in pixels
	ViewportW, ViewportH float32

	AutoRotate      bool
	AutoRotateSpeed float32 // rad/s

	// Damping is the fraction of the gap to the goal velocity/distance closed per update
	Damping float32

	// Distance constraints
	MinDistance, MaxDistance float32

	spin         float32 // current azimuth velocity, rad/s
	goalDistance float32
	projection   mgl32.Mat4
}

// New creates an orbit camera from its configured start position, looking at the origin.
func New(cfg config.CameraConfig, viewportW, viewportH float32) *Orbit {
	pos := mgl32.Vec3{float32(cfg.Position[0]), float32(cfg.Position[1]), float32(cfg.Position[2])}
	dist := pos.Len()

	c := &Orbit{
		FovY:            float32(cfg.FovY),
		Near:            float32(cfg.Near),
		Far:             float32(cfg.Far),
		AutoRotate:      true,
		AutoRotateSpeed: float32(cfg.AutoRotateSpeed),
		Damping:         float32(cfg.Damping),
		MinDistance:     float32(cfg.MinDistance),
		MaxDistance:     float32(cfg.MaxDistance),
	}
	if dist > 0 {
		c.Azimuth = float32(math.Atan2(float64(pos[0]), float64(pos[2])))
		c.Elevation = float32(math.Asin(float64(pos[1] / dist)))
	}
	c.Distance = clamp(dist, c.MinDistance, c.MaxDistance)
	c.goalDistance = c.Distance
	c.ViewportW, c.ViewportH = 1, 1
	c.Resize(viewportW, viewportH)
	c.updateProjection()
	return c
}

// Update advances rotation and zoom easing by dt seconds.
func (c *Orbit) Update(dt float32) {
	goal := float32(0)
	if c.AutoRotate {
		goal = c.AutoRotateSpeed
	}
	c.spin += (goal - c.spin) * c.ease()
	c.Azimuth = wrapAngle(c.Azimuth + c.spin*dt)

	c.Distance += (c.goalDistance - c.Distance) * c.ease()
	c.Elevation = clamp(c.Elevation, -maxElevation, maxElevation)
}

func (c *Orbit) ease() float32 {
	if c.Damping <= 0 || c.Damping > 1 {
		return 1
	}
	return c.Damping
}

// SetAutoRotate toggles auto-rotation. The change eases in over the next updates.
func (c *Orbit) SetAutoRotate(on bool) {
	c.AutoRotate = on
}

// Spin returns the current azimuth velocity in rad/s.
func (c *Orbit) Spin() float32 { return c.spin }

// Zoom moves the goal distance by delta world units, clamped to the distance range.
func (c *Orbit) Zoom(delta float32) {
	c.goalDistance = clamp(c.goalDistance+delta, c.MinDistance, c.MaxDistance)
}

// Position returns the camera position in world coordinates.
func (c *Orbit) Position() mgl32.Vec3 {
	ce := float32(math.Cos(float64(c.Elevation)))
	offset := mgl32.Vec3{
		c.Distance * ce * float32(math.Sin(float64(c.Azimuth))),
		c.Distance * float32(math.Sin(float64(c.Elevation))),
		c.Distance * ce * float32(math.Cos(float64(c.Azimuth))),
	}
	return c.Target.Add(offset)
}

// Up returns the camera up vector.
func (c *Orbit) Up() mgl32.Vec3 { return up }

// View returns the world-to-camera matrix.
func (c *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, up)
}

// Projection returns the perspective matrix for the current viewport.
func (c *Orbit) Projection() mgl32.Mat4 { return c.projection }

// Aspect returns the viewport aspect ratio.
func (c *Orbit) Aspect() float32 {
	return c.ViewportW / c.ViewportH
}

// Resize updates viewport dimensions and the projection matrix.
// Non-positive sizes (minimised windows) are ignored.
func (c *Orbit) Resize(viewportW, viewportH float32) {
	if viewportW <= 0 || viewportH <= 0 {
		return
	}
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateProjection()
}

func (c *Orbit) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect(), c.Near, c.Far)
}

// IsVisible returns true if a sphere at p with the given radius could be on screen
// (conservative check for culling).
func (c *Orbit) IsVisible(p mgl32.Vec3, radius float32) bool {
	clip := c.projection.Mul4(c.View()).Mul4x1(p.Vec4(1))
	w := clip[3]
	if w+radius <= c.Near {
		return false
	}
	// Scale the world-space radius into clip space at this depth.
	return absf(clip[0]) <= w+radius*c.projection[0] && absf(clip[1]) <= w+radius*c.projection[5]
}

// wrapAngle keeps an angle within [-pi, pi).
func wrapAngle(a float32) float32 {
	r := float32(math.Mod(float64(a)+math.Pi, 2*math.Pi))
	if r < 0 {
		r += 2 * math.Pi
	}
	return r - math.Pi
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
