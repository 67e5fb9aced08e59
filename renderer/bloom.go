package renderer

import (
	_ "embed"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
)

var (
	//go:embed shaders/bright.fs
	brightFS string
	//go:embed shaders/blur.fs
	blurFS string
	//go:embed shaders/composite.fs
	compositeFS string
)

// blurPasses is the number of horizontal+vertical blur pairs.
const blurPasses = 2

// Bloom renders the scene offscreen, extracts bright pixels at half resolution,
// blurs them and composites the result over the scene with tone mapping.
type Bloom struct {
	cfg config.BloomConfig

	scene rl.RenderTexture2D // full resolution
	ping  rl.RenderTexture2D // half resolution
	pong  rl.RenderTexture2D // half resolution

	bright    rl.Shader
	blur      rl.Shader
	composite rl.Shader

	thresholdLoc int32
	directionLoc int32
	radiusLoc    int32
	bloomTexLoc  int32
	strengthLoc  int32
	exposureLoc  int32

	width, height int32

	shadersLoaded bool
	targetsLoaded bool
}

// NewBloom creates an unloaded bloom chain.
func NewBloom(cfg config.BloomConfig) *Bloom {
	return &Bloom{cfg: cfg}
}

// Init compiles the shaders and allocates render targets.
// Must be called after the raylib window is created.
func (b *Bloom) Init(width, height int32) error {
	if !b.shadersLoaded {
		if err := b.loadShaders(); err != nil {
			return err
		}
	}
	return b.allocTargets(width, height)
}

func (b *Bloom) loadShaders() error {
	b.bright = rl.LoadShaderFromMemory("", brightFS)
	b.blur = rl.LoadShaderFromMemory("", blurFS)
	b.composite = rl.LoadShaderFromMemory("", compositeFS)
	b.shadersLoaded = true

	for name, sh := range map[string]rl.Shader{"bright": b.bright, "blur": b.blur, "composite": b.composite} {
		if !rl.IsShaderValid(sh) {
			return fmt.Errorf("bloom: %s shader failed to compile", name)
		}
	}

	b.thresholdLoc = rl.GetShaderLocation(b.bright, "threshold")
	b.directionLoc = rl.GetShaderLocation(b.blur, "direction")
	b.radiusLoc = rl.GetShaderLocation(b.blur, "radius")
	b.bloomTexLoc = rl.GetShaderLocation(b.composite, "bloomTexture")
	b.strengthLoc = rl.GetShaderLocation(b.composite, "strength")
	b.exposureLoc = rl.GetShaderLocation(b.composite, "exposure")

	rl.SetShaderValue(b.bright, b.thresholdLoc, []float32{float32(b.cfg.Threshold)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(b.blur, b.radiusLoc, []float32{float32(b.cfg.Radius)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(b.composite, b.strengthLoc, []float32{float32(b.cfg.Strength)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(b.composite, b.exposureLoc, []float32{float32(b.cfg.Exposure)}, rl.ShaderUniformFloat)
	return nil
}

func (b *Bloom) allocTargets(width, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bloom: invalid target size %dx%d", width, height)
	}
	halfW, halfH := max(width/2, 1), max(height/2, 1)

	b.scene = rl.LoadRenderTexture(width, height)
	b.ping = rl.LoadRenderTexture(halfW, halfH)
	b.pong = rl.LoadRenderTexture(halfW, halfH)
	b.width, b.height = width, height
	b.targetsLoaded = true

	if !rl.IsRenderTextureValid(b.scene) || !rl.IsRenderTextureValid(b.ping) || !rl.IsRenderTextureValid(b.pong) {
		return errors.New("bloom: render target allocation failed")
	}
	for _, rt := range []rl.RenderTexture2D{b.scene, b.ping, b.pong} {
		rl.SetTextureFilter(rt.Texture, rl.FilterBilinear)
	}
	return nil
}

func (b *Bloom) unloadTargets() {
	if !b.targetsLoaded {
		return
	}
	rl.UnloadRenderTexture(b.scene)
	rl.UnloadRenderTexture(b.ping)
	rl.UnloadRenderTexture(b.pong)
	b.targetsLoaded = false
}

// Resize replaces the render targets with ones of the new size.
// The old set is released first so only one set is ever live.
func (b *Bloom) Resize(width, height int32) error {
	if !b.targetsLoaded || (width == b.width && height == b.height) {
		return nil
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	b.unloadTargets()
	return b.allocTargets(width, height)
}

// BeginScene redirects drawing into the offscreen scene target.
func (b *Bloom) BeginScene() {
	rl.BeginTextureMode(b.scene)
}

// EndScene stops drawing into the scene target.
func (b *Bloom) EndScene() {
	rl.EndTextureMode()
}

// Composite runs the bright pass and blur chain, then draws the tone-mapped
// result to the current framebuffer. Call between BeginDrawing and EndDrawing.
func (b *Bloom) Composite() {
	if !b.targetsLoaded {
		return
	}
	halfW, halfH := float32(b.ping.Texture.Width), float32(b.ping.Texture.Height)

	// Bright pass: scene -> ping (downsampled)
	rl.BeginTextureMode(b.ping)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(b.bright)
	drawTarget(b.scene, halfW, halfH)
	rl.EndShaderMode()
	rl.EndTextureMode()

	// Separable blur: ping -> pong (horizontal), pong -> ping (vertical)
	texel := make([]float32, 2)
	for i := 0; i < blurPasses; i++ {
		texel[0], texel[1] = 1/halfW, 0
		b.blurInto(b.ping, b.pong, texel, halfW, halfH)
		texel[0], texel[1] = 0, 1/halfH
		b.blurInto(b.pong, b.ping, texel, halfW, halfH)
	}

	// Composite: scene + bloom -> screen
	rl.BeginShaderMode(b.composite)
	rl.SetShaderValueTexture(b.composite, b.bloomTexLoc, b.ping.Texture)
	drawTarget(b.scene, float32(b.width), float32(b.height))
	rl.EndShaderMode()
}

func (b *Bloom) blurInto(src, dst rl.RenderTexture2D, direction []float32, w, h float32) {
	rl.BeginTextureMode(dst)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(b.blur)
	rl.SetShaderValue(b.blur, b.directionLoc, direction, rl.ShaderUniformVec2)
	drawTarget(src, w, h)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

// drawTarget draws a render texture stretched to w x h.
// Render textures are stored upside down, so the source height is negated.
func drawTarget(rt rl.RenderTexture2D, w, h float32) {
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(rt.Texture.Width), Height: -float32(rt.Texture.Height)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: w, Height: h}
	rl.DrawTexturePro(rt.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload releases GPU resources. Safe to call before Init and more than once.
func (b *Bloom) Unload() {
	b.unloadTargets()
	if b.shadersLoaded {
		rl.UnloadShader(b.bright)
		rl.UnloadShader(b.blur)
		rl.UnloadShader(b.composite)
		b.shadersLoaded = false
	}
}
