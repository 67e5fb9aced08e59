// Package game owns the engine lifecycle: boot, the per-frame loop,
// the auto-morph timer and teardown. It never calls raylib directly;
// drawing goes through a Backend so the loop also runs headless.
package game

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// Backend owns every GPU resource. renderer.Scene is the windowed implementation.
type Backend interface {
	InitRenderer(width, height int) error
	InitPostProcessing() error
	InitStarfield(cloud shapes.StarCloud) error
	InitParticles(set *components.ParticleSet) error
	Upload(set *components.ParticleSet)
	Render(orbit *camera.Orbit, overlay func())
	Resize(width, height int) error
	Unload()
}

// RenderStats is implemented by backends that count their per-frame work.
type RenderStats interface {
	Uploads() int
	VisibleStars() int
}

// precomputed carries the shape targets from the generator goroutine.
type precomputed struct {
	targets [][]mgl32.Vec3
	err     error
}

// Game holds the complete engine state.
type Game struct {
	cfg     *config.Config
	opts    Options
	backend Backend
	labels  systems.LabelSink

	rng      *rand.Rand
	clock    Clock
	progress *Progress

	// Scene
	catalog  *shapes.Catalog
	shapesCh chan precomputed
	set      *components.ParticleSet
	lights   *systems.LightRig
	colors   systems.ColorMapper
	animator *systems.Animator
	orbit    *camera.Orbit
	stars    shapes.StarCloud

	// Controls
	requests  chan struct{}
	timer     *MorphTimer
	nextAuto  float64 // headless auto-morph schedule, seconds
	autoEvery float64

	// Telemetry
	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	lastPerfLog float64

	// State
	frame         int64
	now           float64
	width, height int
	booted        bool
	failed        bool
	unloaded      bool
}

// NewGame creates an unbooted engine. A nil backend runs headless,
// a nil labels sink logs labels, and a nil progress sink discards progress.
func NewGame(cfg *config.Config, opts Options, backend Backend, labels systems.LabelSink, progress ProgressSink) *Game {
	opts = opts.withDefaults(cfg)
	if backend == nil {
		backend = &nullBackend{}
	}
	if labels == nil {
		labels = slogLabels{}
	}
	return &Game{
		cfg:      cfg,
		opts:     opts,
		backend:  backend,
		labels:   labels,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		clock:    opts.Clock,
		progress: NewProgress(progress),
		width:    opts.Width,
		height:   opts.Height,
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		requests: make(chan struct{}, 1),
	}
}

// Ready reports whether boot completed and the frame loop may run.
func (g *Game) Ready() bool { return g.booted && !g.unloaded }

// Failed reports whether boot aborted.
func (g *Game) Failed() bool { return g.failed }

// Progress returns boot progress in percent.
func (g *Game) Progress() int { return g.progress.Value() }

// Frame returns the number of frames updated since boot.
func (g *Game) Frame() int64 { return g.frame }

// Now returns the clock time of the last update, in seconds.
func (g *Game) Now() float64 { return g.now }

// Animator returns the morph state machine (nil before boot).
func (g *Game) Animator() *systems.Animator { return g.animator }

// Orbit returns the camera (nil before boot).
func (g *Game) Orbit() *camera.Orbit { return g.orbit }

// Particles returns the particle set (nil before boot).
func (g *Game) Particles() *components.ParticleSet { return g.set }

// Size returns the current viewport in pixels.
func (g *Game) Size() (int, int) { return g.width, g.height }
