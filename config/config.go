// Package config provides configuration loading and access for the particle engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all engine configuration parameters.
type Config struct {
	Screen      ScreenConfig    `yaml:"screen"`
	Particles   ParticlesConfig `yaml:"particles"`
	Morph       MorphConfig     `yaml:"morph"`
	IdleFlow    IdleFlowConfig  `yaml:"idle_flow"`
	ColorScheme string          `yaml:"color_scheme"`
	Shapes      []string        `yaml:"shapes"`
	Bloom       BloomConfig     `yaml:"bloom"`
	Camera      CameraConfig    `yaml:"camera"`
	Stars       StarsConfig     `yaml:"stars"`
	Lights      LightsConfig    `yaml:"lights"`
	Fog         FogConfig       `yaml:"fog"`
	Loading     LoadingConfig   `yaml:"loading"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	ClearColor [3]int `yaml:"clear_color"` // RGB 0-255
}

// ParticlesConfig holds the morphing point cloud parameters.
type ParticlesConfig struct {
	Count                 int     `yaml:"count"`
	ShapeSize             float64 `yaml:"shape_size"`
	SizeMin               float64 `yaml:"size_min"`
	SizeMax               float64 `yaml:"size_max"`
	OpacityMin            float64 `yaml:"opacity_min"`             // 1.0 = every particle fully opaque
	PointScale            float64 `yaml:"point_scale"`             // world units per size unit for billboards
	MorphSizeFactor       float64 `yaml:"morph_size_factor"`       // sprite shrink at peak effect
	MorphBrightnessFactor float64 `yaml:"morph_brightness_factor"` // colour boost at peak effect
}

// MorphConfig holds shape transition parameters.
// The swarm and swirl constants are tuned by eye, not derived.
type MorphConfig struct {
	DurationMS          int     `yaml:"duration_ms"`
	IntervalMS          int     `yaml:"interval_ms"` // auto-morph period (0 = manual only)
	SwarmDistanceFactor float64 `yaml:"swarm_distance_factor"`
	SwarmSpread         float64 `yaml:"swarm_spread"` // fraction of source-target distance added to the detour
	JitterMin           float64 `yaml:"jitter_min"`
	JitterRange         float64 `yaml:"jitter_range"`
	SwirlFactor         float64 `yaml:"swirl_factor"`
	SwirlRate           float64 `yaml:"swirl_rate"` // rad/s of accumulated swirl per unit of swirl factor at peak effect
	EffectThreshold     float64 `yaml:"effect_threshold"`
	NoiseFrequency      float64 `yaml:"noise_frequency"`
	NoiseTimeScale      float64 `yaml:"noise_time_scale"`
	NoiseMaxStrength    float64 `yaml:"noise_max_strength"`
}

// IdleFlowConfig holds the resting drift parameters.
type IdleFlowConfig struct {
	Strength        float64 `yaml:"strength"`
	Speed           float64 `yaml:"speed"`
	Frequency       float64 `yaml:"frequency"`
	BreathAmplitude float64 `yaml:"breath_amplitude"`
	BreathSpeed     float64 `yaml:"breath_speed"` // rad/s, 0.5 gives a ~12.5s period
	Follow          float64 `yaml:"follow"`       // fraction of the gap closed per frame
}

// BloomConfig holds post-processing glow parameters.
type BloomConfig struct {
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
	Exposure  float64 `yaml:"exposure"`
}

// CameraConfig holds the orbit camera parameters.
type CameraConfig struct {
	FovY            float64    `yaml:"fov_y"`
	Near            float64    `yaml:"near"`
	Far             float64    `yaml:"far"`
	Position        [3]float64 `yaml:"position"`
	AutoRotateSpeed float64    `yaml:"auto_rotate_speed"` // rad/s
	Damping         float64    `yaml:"damping"`
	MinDistance     float64    `yaml:"min_distance"`
	MaxDistance     float64    `yaml:"max_distance"`
}

// StarsConfig holds the static background starfield parameters.
type StarsConfig struct {
	Count            int     `yaml:"count"`
	Spread           float64 `yaml:"spread"`     // cube edge the stars are sampled in
	MinRadius        float64 `yaml:"min_radius"` // hollow centre radius
	MaxExtra         float64 `yaml:"max_extra"`  // pushed-out stars land in [min, min+extra)
	SizeMin          float64 `yaml:"size_min"`
	SizeMax          float64 `yaml:"size_max"`
	PointScale       float64 `yaml:"point_scale"` // billboard world units per size unit
	ColorfulFraction float64 `yaml:"colorful_fraction"`
}

// LightConfig describes a single light.
type LightConfig struct {
	Color     [3]int     `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
	Position  [3]float64 `yaml:"position"`
}

// LightsConfig holds the fixed light rig.
type LightsConfig struct {
	Ambient     LightConfig   `yaml:"ambient"`
	Directional []LightConfig `yaml:"directional"`
	Influence   float64       `yaml:"influence"` // 0 = lights ignored, 1 = full lambert shading
}

// FogConfig holds exponential-squared fog parameters.
type FogConfig struct {
	Density   float64 `yaml:"density"`
	StarScale float64 `yaml:"star_scale"` // star distances are scaled by this before fogging
}

// LoadingConfig holds loading indicator timings.
type LoadingConfig struct {
	FadeDelayMS int `yaml:"fade_delay_ms"`
	FadeMS      int `yaml:"fade_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`
	LogInterval float64 `yaml:"log_interval"` // seconds between perf log lines (0 = off)
}

// ColorScheme describes the hue ramp used to colour settled particles.
type ColorScheme struct {
	Name       string
	StartHue   float64
	EndHue     float64
	Saturation float64
	Lightness  float64
}

// ColorSchemes lists the supported schemes by name.
var ColorSchemes = map[string]ColorScheme{
	"fire":    {Name: "fire", StartHue: 0, EndHue: 45, Saturation: 0.95, Lightness: 0.6},
	"neon":    {Name: "neon", StartHue: 300, EndHue: 180, Saturation: 1.0, Lightness: 0.65},
	"nature":  {Name: "nature", StartHue: 90, EndHue: 160, Saturation: 0.85, Lightness: 0.55},
	"rainbow": {Name: "rainbow", StartHue: 0, EndHue: 360, Saturation: 0.9, Lightness: 0.6},
}

// KnownShapes lists the shape names accepted in the shapes list.
var KnownShapes = []string{"sphere", "cube", "pyramid", "torus", "galaxy", "wave"}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MorphDuration time.Duration
	MorphInterval time.Duration
	FadeDelay     time.Duration
	FadeDuration  time.Duration
	Scheme        ColorScheme
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it again after mutating fields in code.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate reports every problem that would otherwise produce degenerate geometry.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Particles.Count <= 0 {
		bad("particles.count must be > 0, got %d", c.Particles.Count)
	}
	if c.Particles.ShapeSize <= 0 {
		bad("particles.shape_size must be > 0, got %g", c.Particles.ShapeSize)
	}
	if c.Particles.SizeMin > c.Particles.SizeMax {
		bad("particles.size_min %g exceeds size_max %g", c.Particles.SizeMin, c.Particles.SizeMax)
	}
	if c.Particles.OpacityMin < 0 || c.Particles.OpacityMin > 1 {
		bad("particles.opacity_min must be in [0,1], got %g", c.Particles.OpacityMin)
	}
	if c.Morph.DurationMS <= 0 {
		bad("morph.duration_ms must be > 0, got %d", c.Morph.DurationMS)
	}
	if c.Morph.IntervalMS < 0 {
		bad("morph.interval_ms must be >= 0, got %d", c.Morph.IntervalMS)
	}
	if c.IdleFlow.Follow <= 0 || c.IdleFlow.Follow > 1 {
		bad("idle_flow.follow must be in (0,1], got %g", c.IdleFlow.Follow)
	}
	if _, ok := ColorSchemes[strings.ToLower(c.ColorScheme)]; !ok {
		bad("unknown color_scheme %q", c.ColorScheme)
	}
	if len(c.Shapes) == 0 {
		bad("shapes must list at least one shape")
	}
	for _, name := range c.Shapes {
		if !isKnownShape(name) {
			bad("unknown shape %q", name)
		}
	}
	if c.Stars.Count < 0 {
		bad("stars.count must be >= 0, got %d", c.Stars.Count)
	}
	if c.Stars.SizeMin > c.Stars.SizeMax {
		bad("stars.size_min %g exceeds size_max %g", c.Stars.SizeMin, c.Stars.SizeMax)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera near/far must satisfy 0 < near < far, got %g/%g", c.Camera.Near, c.Camera.Far)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func isKnownShape(name string) bool {
	name = strings.ToLower(name)
	for _, known := range KnownShapes {
		if known == name {
			return true
		}
	}
	return false
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MorphDuration = time.Duration(c.Morph.DurationMS) * time.Millisecond
	c.Derived.MorphInterval = time.Duration(c.Morph.IntervalMS) * time.Millisecond
	c.Derived.FadeDelay = time.Duration(c.Loading.FadeDelayMS) * time.Millisecond
	c.Derived.FadeDuration = time.Duration(c.Loading.FadeMS) * time.Millisecond
	c.Derived.Scheme = ColorSchemes[strings.ToLower(c.ColorScheme)]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
