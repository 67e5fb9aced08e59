package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
)

// glowSize is the edge length of the generated sprite texture in pixels.
const glowSize = 64

// NewGlowTexture builds a soft radial sprite: white core fading to transparent.
func NewGlowTexture() rl.Texture2D {
	img := rl.GenImageGradientRadial(glowSize, glowSize, 0.0, rl.White, rl.Blank)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	return tex
}

// ParticleRenderer draws the morphing point cloud as additive billboards.
// Vertex data is cached on the renderer and refreshed only for dirty buffers.
type ParticleRenderer struct {
	glow rl.Texture2D

	positions []rl.Vector3
	tints     []color.RGBA
	sizes     []float32

	pointScale  float32
	shrink      float32 // sprite shrink at peak effect
	brighten    float32 // colour boost at peak effect
	uploads     int
	initialized bool
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(cfg config.ParticlesConfig) *ParticleRenderer {
	return &ParticleRenderer{
		pointScale: float32(cfg.PointScale),
		shrink:     float32(cfg.MorphSizeFactor),
		brighten:   float32(cfg.MorphBrightnessFactor),
	}
}

// Init loads the sprite and uploads every buffer of set
// (must be called after raylib window is created).
func (r *ParticleRenderer) Init(set *components.ParticleSet) {
	if r.initialized {
		return
	}
	r.glow = NewGlowTexture()
	r.positions = make([]rl.Vector3, set.Count)
	r.tints = make([]color.RGBA, set.Count)
	r.sizes = make([]float32, set.Count)
	r.initialized = true

	set.Dirty = components.DirtyFlags{Position: true, Color: true, Effect: true}
	r.Upload(set)
}

// Upload refreshes the cached buffers flagged dirty and clears the flags.
func (r *ParticleRenderer) Upload(set *components.ParticleSet) {
	if !r.initialized {
		return
	}
	d := set.Dirty
	if d.Position {
		for i, p := range set.Current {
			r.positions[i] = rl.Vector3{X: p[0], Y: p[1], Z: p[2]}
		}
	}
	if d.Color || d.Effect {
		for i, c := range set.Color {
			boost := 1 + set.Effect[i]*r.brighten
			r.tints[i] = color.RGBA{
				R: channel(c[0] * boost),
				G: channel(c[1] * boost),
				B: channel(c[2] * boost),
				A: channel(set.Opacity[i]),
			}
		}
	}
	if d.Effect {
		for i, s := range set.Size {
			r.sizes[i] = s * r.pointScale * (1 - set.Effect[i]*r.shrink)
		}
	}
	if d != (components.DirtyFlags{}) {
		r.uploads++
	}
	set.ClearDirty()
}

// Uploads returns how many frames refreshed at least one buffer.
func (r *ParticleRenderer) Uploads() int { return r.uploads }

// Draw renders the cached particles. Call inside BeginMode3D.
func (r *ParticleRenderer) Draw(cam rl.Camera3D) {
	if !r.initialized {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()
	for i := range r.positions {
		rl.DrawBillboard(cam, r.glow, r.positions[i], r.sizes[i], r.tints[i])
	}
	rl.EnableDepthMask()
	rl.EndBlendMode()
}

// Unload releases the sprite texture. Safe to call before Init.
func (r *ParticleRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.glow)
		r.initialized = false
	}
}

// channel converts a [0,1] intensity to a clamped byte.
func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
