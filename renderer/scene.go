// Package renderer owns every raylib draw call and GPU resource.
package renderer

import (
	"errors"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
)

// ErrNoWindow is returned when initialisation runs before the window exists.
var ErrNoWindow = errors.New("renderer: raylib window not initialised")

// Scene composes starfield, particles and bloom into one frame.
type Scene struct {
	clear     color.RGBA
	bloom     *Bloom
	stars     *StarfieldRenderer
	particles *ParticleRenderer

	cam3d         rl.Camera3D
	width, height int32

	ready    bool
	unloaded bool
}

// NewScene creates a scene with nothing loaded yet.
func NewScene(cfg *config.Config) *Scene {
	cc := cfg.Screen.ClearColor
	return &Scene{
		clear:     color.RGBA{R: uint8(cc[0]), G: uint8(cc[1]), B: uint8(cc[2]), A: 255},
		bloom:     NewBloom(cfg.Bloom),
		stars:     NewStarfieldRenderer(cfg.Stars, cfg.Fog),
		particles: NewParticleRenderer(cfg.Particles),
	}
}

// InitRenderer checks the window and sets up the 3D camera.
func (s *Scene) InitRenderer(width, height int) error {
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	s.width, s.height = int32(width), int32(height)
	s.cam3d = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Projection: rl.CameraPerspective,
	}
	s.ready = true
	return nil
}

// InitPostProcessing compiles bloom shaders and allocates its render targets.
func (s *Scene) InitPostProcessing() error {
	return s.bloom.Init(s.width, s.height)
}

// InitStarfield bakes the static starfield.
func (s *Scene) InitStarfield(cloud shapes.StarCloud) error {
	s.stars.Init(cloud)
	return nil
}

// InitParticles allocates particle buffers and performs the first full upload.
func (s *Scene) InitParticles(set *components.ParticleSet) error {
	s.particles.Init(set)
	return nil
}

// Upload pushes dirty particle buffers and clears their flags.
func (s *Scene) Upload(set *components.ParticleSet) {
	s.particles.Upload(set)
}

// Render draws one frame: scene into the bloom target, then the composite
// and overlay to the screen.
func (s *Scene) Render(orbit *camera.Orbit, overlay func()) {
	if !s.ready || s.unloaded {
		return
	}
	s.syncCamera(orbit)

	s.bloom.BeginScene()
	rl.ClearBackground(s.clear)
	rl.BeginMode3D(s.cam3d)
	s.stars.Draw(s.cam3d, orbit)
	s.particles.Draw(s.cam3d)
	rl.EndMode3D()
	s.bloom.EndScene()

	rl.BeginDrawing()
	rl.ClearBackground(s.clear)
	s.bloom.Composite()
	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
}

func (s *Scene) syncCamera(orbit *camera.Orbit) {
	pos := orbit.Position()
	s.cam3d.Position = rl.Vector3{X: pos[0], Y: pos[1], Z: pos[2]}
	s.cam3d.Target = rl.Vector3{X: orbit.Target[0], Y: orbit.Target[1], Z: orbit.Target[2]}
	s.cam3d.Fovy = orbit.FovY
}

// Resize reallocates the post-processing targets for the new viewport.
func (s *Scene) Resize(width, height int) error {
	if !s.ready || s.unloaded || width <= 0 || height <= 0 {
		return nil
	}
	s.width, s.height = int32(width), int32(height)
	return s.bloom.Resize(s.width, s.height)
}

// ClearColor returns the background colour.
func (s *Scene) ClearColor() color.RGBA { return s.clear }

// Uploads returns how many frames pushed particle data.
func (s *Scene) Uploads() int { return s.particles.Uploads() }

// VisibleStars returns the number of stars drawn last frame.
func (s *Scene) VisibleStars() int { return s.stars.Visible() }

// Unload releases every GPU resource. Safe to call before any Init and more than once.
func (s *Scene) Unload() {
	if s.unloaded {
		return
	}
	s.particles.Unload()
	s.stars.Unload()
	s.bloom.Unload()
	s.unloaded = true
	s.ready = false
}
