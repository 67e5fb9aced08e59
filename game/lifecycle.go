package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/shapes"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// ErrBootFailed wraps any error or panic raised by a boot step.
var ErrBootFailed = errors.New("boot failed")

// ErrUnloaded is returned when Boot runs after Unload.
var ErrUnloaded = errors.New("game unloaded")

// bootStep is one stage of startup and its share of the progress bar.
type bootStep struct {
	name   string
	weight int
	run    func(ctx context.Context) error
}

// steps lists the boot sequence. Weights sum to 100.
func (g *Game) steps() []bootStep {
	return []bootStep{
		{"scene", 5, g.initScene},
		{"camera", 5, g.initCamera},
		{"renderer", 10, g.initRenderer},
		{"controls", 5, g.initControls},
		{"lighting", 10, g.initLighting},
		{"post_processing", 15, g.initPostProcessing},
		{"starfield", 20, g.initStarfield},
		{"particles", 30, g.initParticles},
	}
}

// Boot runs every startup step in order. The first failing step aborts boot
// and is returned wrapped in ErrBootFailed; nothing started so far is torn
// down until Unload. Calling Boot again after success is a no-op.
func (g *Game) Boot(ctx context.Context) error {
	if g.unloaded {
		return ErrUnloaded
	}
	if g.booted {
		return nil
	}
	if g.failed {
		return fmt.Errorf("%w: previous attempt failed", ErrBootFailed)
	}

	for _, step := range g.steps() {
		if err := ctx.Err(); err != nil {
			return g.fail(step.name, err)
		}
		if err := runStep(ctx, step); err != nil {
			return g.fail(step.name, err)
		}
		g.progress.Add(step.weight)
		slog.Debug("boot step", "step", step.name, "progress", g.progress.Value())
	}

	g.booted = true
	g.startTimer()
	slog.Info("boot complete",
		"particles", g.set.Count,
		"stars", len(g.stars.Positions),
		"shapes", g.catalog.Len(),
		"lights", g.lights.Len(),
		"headless", g.opts.Headless,
	)
	return nil
}

func (g *Game) fail(step string, err error) error {
	g.failed = true
	slog.Error("boot failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrBootFailed, step, err)
}

// runStep converts a panic inside a step into an error.
func runStep(ctx context.Context, step bootStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.run(ctx)
}

func (g *Game) initScene(context.Context) error {
	catalog, err := shapes.NewCatalog(g.cfg.Shapes)
	if err != nil {
		return err
	}
	g.catalog = catalog

	output, err := telemetry.NewOutputManager(g.opts.OutputDir)
	if err != nil {
		return err
	}
	g.output = output
	if err := g.output.WriteConfig(g.cfg); err != nil {
		return err
	}

	// Shape generation runs off the main thread while the GPU steps proceed.
	// The channel is buffered so the goroutine never blocks if boot aborts.
	count, size, seed := g.cfg.Particles.Count, float32(g.cfg.Particles.ShapeSize), g.rng.Int63()
	g.shapesCh = make(chan precomputed, 1)
	go func() {
		targets, err := catalog.Precompute(count, size, seed)
		g.shapesCh <- precomputed{targets: targets, err: err}
	}()
	return nil
}

func (g *Game) initCamera(context.Context) error {
	g.orbit = camera.New(g.cfg.Camera, float32(g.width), float32(g.height))
	return nil
}

func (g *Game) initRenderer(context.Context) error {
	return g.backend.InitRenderer(g.width, g.height)
}

// initControls drops requests posted before boot.
func (g *Game) initControls(context.Context) error {
	select {
	case <-g.requests:
	default:
	}
	return nil
}

func (g *Game) initLighting(context.Context) error {
	g.lights = systems.NewLightRig(g.cfg.Lights)
	g.colors = systems.NewColorMapper(g.cfg.Derived.Scheme, g.cfg.Particles.ShapeSize, g.lights)
	return nil
}

func (g *Game) initPostProcessing(context.Context) error {
	return g.backend.InitPostProcessing()
}

func (g *Game) initStarfield(context.Context) error {
	s := g.cfg.Stars
	g.stars = shapes.Starfield(g.rng, shapes.StarParams{
		Count:            s.Count,
		Spread:           float32(s.Spread),
		MinRadius:        float32(s.MinRadius),
		MaxExtra:         float32(s.MaxExtra),
		SizeMin:          float32(s.SizeMin),
		SizeMax:          float32(s.SizeMax),
		ColorfulFraction: s.ColorfulFraction,
	})
	return g.backend.InitStarfield(g.stars)
}

func (g *Game) initParticles(ctx context.Context) error {
	var res precomputed
	select {
	case res = <-g.shapesCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.err != nil {
		return res.err
	}

	p := g.cfg.Particles
	set, err := components.NewParticleSet(p.Count, g.rng, float32(p.SizeMin), float32(p.SizeMax), float32(p.OpacityMin))
	if err != nil {
		return err
	}
	g.set = set

	anim, err := systems.NewAnimator(set, g.catalog, res.targets, systems.MorphParamsFromConfig(g.cfg), g.colors, g.rng, g.labels)
	if err != nil {
		return err
	}
	anim.SetObserver(g.onTransition)
	g.animator = anim

	return g.backend.InitParticles(set)
}

// startTimer begins auto-morphing. Headless runs schedule on the virtual
// clock so results stay reproducible; windowed runs use a real ticker.
func (g *Game) startTimer() {
	interval := g.cfg.Derived.MorphInterval
	if interval <= 0 {
		return
	}
	if g.opts.Headless {
		g.autoEvery = interval.Seconds()
		g.nextAuto = g.autoEvery
		return
	}
	g.timer = StartMorphTimer(interval, g.requests)
}

// RequestMorph asks for a morph on the next frame. Ignored while one is in flight,
// before boot, and after Unload. Safe to call from any goroutine.
func (g *Game) RequestMorph() {
	post(g.requests)
}

// Resize propagates a new viewport to the camera and render targets.
// It is a no-op after Unload or for non-positive sizes.
func (g *Game) Resize(width, height int) error {
	if g.unloaded || width <= 0 || height <= 0 {
		return nil
	}
	if width == g.width && height == g.height {
		return nil
	}
	g.width, g.height = width, height
	if g.orbit != nil {
		g.orbit.Resize(float32(width), float32(height))
	}
	if !g.booted {
		return nil
	}
	if err := g.backend.Resize(width, height); err != nil {
		return fmt.Errorf("resize %dx%d: %w", width, height, err)
	}
	slog.Debug("resized", "width", width, "height", height)
	return nil
}

// Unload stops the timer and the frame loop and releases every GPU resource.
// Safe before boot, after a failed boot, and more than once.
func (g *Game) Unload() {
	if g.unloaded {
		return
	}
	g.unloaded = true
	g.timer.Stop()
	g.backend.Unload()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Debug("unloaded", "frames", g.frame)
}
