package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
)

// StarfieldRenderer draws the static background stars.
// Fog is baked into the tints once since stars never move.
type StarfieldRenderer struct {
	glow rl.Texture2D

	points    []mgl32.Vec3
	positions []rl.Vector3
	sizes     []float32
	tints     []color.RGBA

	fogDensity  float64
	fogScale    float64
	pointScale  float32
	visible     int
	initialized bool
}

// NewStarfieldRenderer creates a new starfield renderer.
func NewStarfieldRenderer(stars config.StarsConfig, fog config.FogConfig) *StarfieldRenderer {
	return &StarfieldRenderer{
		fogDensity: fog.Density,
		fogScale:   fog.StarScale,
		pointScale: float32(stars.PointScale),
	}
}

// Init bakes the cloud into draw buffers (must be called after raylib window is created).
func (s *StarfieldRenderer) Init(cloud shapes.StarCloud) {
	if s.initialized {
		return
	}
	s.glow = NewGlowTexture()

	n := len(cloud.Positions)
	s.points = cloud.Positions
	s.positions = make([]rl.Vector3, n)
	s.sizes = make([]float32, n)
	s.tints = make([]color.RGBA, n)

	for i, p := range cloud.Positions {
		s.positions[i] = rl.Vector3{X: p[0], Y: p[1], Z: p[2]}
		s.sizes[i] = cloud.Sizes[i] * s.pointScale

		f := float32(FogFactor(s.fogDensity, float64(p.Len())*s.fogScale))
		c := cloud.Colors[i]
		s.tints[i] = color.RGBA{
			R: channel(c[0] * f),
			G: channel(c[1] * f),
			B: channel(c[2] * f),
			A: 255,
		}
	}
	s.initialized = true
}

// FogFactor returns the exponential-squared fog transmittance at distance d.
func FogFactor(density, d float64) float64 {
	x := density * d
	return math.Exp(-x * x)
}

// Draw renders stars the orbit camera can see. Call inside BeginMode3D.
func (s *StarfieldRenderer) Draw(cam rl.Camera3D, orbit *camera.Orbit) {
	if !s.initialized {
		return
	}
	s.visible = 0
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()
	for i, p := range s.points {
		if !orbit.IsVisible(p, s.sizes[i]) {
			continue
		}
		rl.DrawBillboard(cam, s.glow, s.positions[i], s.sizes[i], s.tints[i])
		s.visible++
	}
	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// Visible returns the number of stars drawn last frame.
func (s *StarfieldRenderer) Visible() int { return s.visible }

// Unload releases the sprite texture. Safe to call before Init.
func (s *StarfieldRenderer) Unload() {
	if s.initialized {
		rl.UnloadTexture(s.glow)
		s.initialized = false
	}
}
