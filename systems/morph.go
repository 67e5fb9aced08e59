package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
)

// Mode is the animator state.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeMorphing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeMorphing:
		return "morphing"
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

// Overlay labels.
const (
	MorphingLabel = "Morphing..."
	settledFormat = "Shape: %s (click to morph)"
)

// SettledLabel is the label shown while a shape is at rest.
func SettledLabel(name string) string {
	return fmt.Sprintf(settledFormat, name)
}

// LabelSink receives overlay text on every state transition.
type LabelSink interface {
	SetLabel(text string)
}

// LabelFunc adapts a function to LabelSink.
type LabelFunc func(text string)

func (f LabelFunc) SetLabel(text string) { f(text) }

// TransitionKind distinguishes the two animator transitions.
type TransitionKind string

const (
	TransitionMorphStart TransitionKind = "morph_start"
	TransitionMorphEnd   TransitionKind = "morph_end"
)

// Transition describes a mode change.
type Transition struct {
	Kind  TransitionKind
	At    float64 // clock seconds
	From  int     // shape index before
	To    int     // shape index after
	Shape string  // name of the shape being morphed to or settled on
}

// MorphParams holds every tunable of the idle and morph motion.
type MorphParams struct {
	Duration float64 // seconds

	ShapeSize           float32
	SwarmDistanceFactor float32 // detour offset as a multiple of shape size
	SwarmSpread         float32 // detour offset per unit of source-target distance
	JitterMin           float32
	JitterRange         float32

	SwirlFactor     float32
	SwirlRate       float32
	EffectThreshold float32

	NoiseFrequency   float64
	NoiseTimeScale   float64
	NoiseMaxStrength float32
	NoiseSpacing     float64

	FlowStrength    float32
	FlowSpeed       float64
	FlowFrequency   float64
	FlowSpacing     float64
	BreathAmplitude float64
	BreathSpeed     float64
	Follow          float32

	// SettleEpsilon snaps an idle particle onto its target once closer than this.
	SettleEpsilon float32
}

// MorphParamsFromConfig reads motion parameters from cfg.
func MorphParamsFromConfig(cfg *config.Config) MorphParams {
	return MorphParams{
		Duration:            cfg.Derived.MorphDuration.Seconds(),
		ShapeSize:           float32(cfg.Particles.ShapeSize),
		SwarmDistanceFactor: float32(cfg.Morph.SwarmDistanceFactor),
		SwarmSpread:         float32(cfg.Morph.SwarmSpread),
		JitterMin:           float32(cfg.Morph.JitterMin),
		JitterRange:         float32(cfg.Morph.JitterRange),
		SwirlFactor:         float32(cfg.Morph.SwirlFactor),
		SwirlRate:           float32(cfg.Morph.SwirlRate),
		EffectThreshold:     float32(cfg.Morph.EffectThreshold),
		NoiseFrequency:      cfg.Morph.NoiseFrequency,
		NoiseTimeScale:      cfg.Morph.NoiseTimeScale,
		NoiseMaxStrength:    float32(cfg.Morph.NoiseMaxStrength),
		NoiseSpacing:        100,
		FlowStrength:        float32(cfg.IdleFlow.Strength),
		FlowSpeed:           cfg.IdleFlow.Speed,
		FlowFrequency:       cfg.IdleFlow.Frequency,
		FlowSpacing:         10,
		BreathAmplitude:     cfg.IdleFlow.BreathAmplitude,
		BreathSpeed:         cfg.IdleFlow.BreathSpeed,
		Follow:              float32(cfg.IdleFlow.Follow),
		SettleEpsilon:       1e-4,
	}
}

// Animator drives the particle set between idle drift and shape morphs.
// It is the only writer of the set's positions, effects and colours.
type Animator struct {
	set     *components.ParticleSet
	catalog *shapes.Catalog
	targets [][]mgl32.Vec3
	params  MorphParams
	colors  ColorMapper
	rng     *rand.Rand
	labels  LabelSink

	observer func(Transition)

	mode     Mode
	shape    int
	progress float64
	start    float64
	label    string

	// per-particle detour directions, fixed for the lifetime of the set
	dirs []mgl32.Vec3

	// per-morph swirl state: a fixed rate jitter and the angle accumulated so far
	swirlJitter []float32
	swirlAngle  []float32
}

// NewAnimator seeds set with the first shape and returns an idle animator.
// targets must hold one point set per catalog entry, each of set.Count points.
func NewAnimator(
	set *components.ParticleSet,
	catalog *shapes.Catalog,
	targets [][]mgl32.Vec3,
	params MorphParams,
	colors ColorMapper,
	rng *rand.Rand,
	labels LabelSink,
) (*Animator, error) {
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("animator: empty shape catalog")
	}
	if len(targets) != catalog.Len() {
		return nil, fmt.Errorf("animator: %d target sets for %d shapes", len(targets), catalog.Len())
	}
	for s, pts := range targets {
		if len(pts) != set.Count {
			return nil, fmt.Errorf("animator: shape %s has %d points, expected %d",
				catalog.Name(s), len(pts), set.Count)
		}
	}
	if params.Duration <= 0 {
		return nil, fmt.Errorf("animator: morph duration must be > 0, got %g", params.Duration)
	}

	a := &Animator{
		set:     set,
		catalog: catalog,
		targets: targets,
		params:  params,
		colors:  colors,
		rng:     rng,
		labels:  labels,
		dirs:    make([]mgl32.Vec3, set.Count),

		swirlJitter: make([]float32, set.Count),
		swirlAngle:  make([]float32, set.Count),
	}
	for i := range a.dirs {
		a.dirs[i] = NoiseDirection(i)
	}

	if err := set.Seed(targets[0]); err != nil {
		return nil, fmt.Errorf("animator: %w", err)
	}
	a.recolor()
	a.setLabel(SettledLabel(catalog.Name(0)))
	return a, nil
}

// SetObserver registers fn to be called on every transition.
func (a *Animator) SetObserver(fn func(Transition)) { a.observer = fn }

// Mode returns the current state.
func (a *Animator) Mode() Mode { return a.mode }

// ShapeIndex returns the catalog index of the current (or incoming) shape.
func (a *Animator) ShapeIndex() int { return a.shape }

// Progress returns morph progress in [0, 1]. It is 0 at morph start and
// holds 1 after the last morph settled.
func (a *Animator) Progress() float64 { return a.progress }

// MorphStart returns the clock time the current morph began.
func (a *Animator) MorphStart() float64 { return a.start }

// Label returns the last overlay label emitted.
func (a *Animator) Label() string { return a.label }

// Targets returns the precomputed points for shape s.
func (a *Animator) Targets(s int) []mgl32.Vec3 { return a.targets[s] }

// Trigger starts a morph to the next shape in the ring.
// It returns false and does nothing while a morph is already in flight.
func (a *Animator) Trigger(now float64) bool {
	if a.mode == ModeMorphing {
		return false
	}

	set := a.set
	set.SnapshotSource()

	from := a.shape
	next := a.catalog.Next(from)
	target := a.targets[next]
	base := a.params.ShapeSize * a.params.SwarmDistanceFactor

	for i := 0; i < set.Count; i++ {
		src := set.Source[i]
		dst := target[i]
		mid := src.Add(dst).Mul(0.5)
		dist := dst.Sub(src).Len()
		offset := dist*a.params.SwarmSpread + base
		jitter := a.params.JitterMin + a.rng.Float32()*a.params.JitterRange
		set.Swarm[i] = mid.Add(a.dirs[i].Mul(offset * jitter))
		a.swirlJitter[i] = 0.5 + a.rng.Float32()*0.5
		a.swirlAngle[i] = 0
	}

	a.shape = next
	a.mode = ModeMorphing
	a.progress = 0
	a.start = now

	a.setLabel(MorphingLabel)
	a.notify(Transition{Kind: TransitionMorphStart, At: now, From: from, To: next, Shape: a.catalog.Name(next)})
	return true
}

// Update advances the animation to clock time now; dt is the frame delta in seconds.
func (a *Animator) Update(now, dt float64) {
	if a.mode == ModeMorphing {
		a.updateMorph(now, dt)
		return
	}
	a.updateIdle(now)
}

func (a *Animator) updateMorph(now, dt float64) {
	p := clamp01((now - a.start) / a.params.Duration)
	if p < a.progress {
		p = a.progress
	}
	a.progress = p
	if p >= 1 {
		a.finish(now)
		return
	}

	set := a.set
	target := a.targets[a.shape]
	t := float32(p)
	effect := float32(math.Sin(p * math.Pi))
	swirl := effect * a.params.SwirlFactor * float32(dt) * a.params.SwirlRate
	noiseStrength := effect * a.params.NoiseMaxStrength
	active := effect > a.params.EffectThreshold
	noiseTime := now * a.params.NoiseTimeScale

	inv := 1 - t
	ws := inv * inv
	wm := 2 * inv * t
	wt := t * t

	for i := 0; i < set.Count; i++ {
		src := set.Source[i]
		pos := src.Mul(ws).Add(set.Swarm[i].Mul(wm)).Add(target[i].Mul(wt))

		if active {
			if axis, ok := SwirlAxis(i, now); ok {
				a.swirlAngle[i] += swirl * a.swirlJitter[i]
				if a.swirlAngle[i] != 0 {
					offset := mgl32.QuatRotate(a.swirlAngle[i], axis).Rotate(pos.Sub(src))
					pos = src.Add(offset)
				}
			}
			flow := FlowOffset(pos, a.params.NoiseFrequency, noiseTime, a.params.NoiseSpacing)
			pos = pos.Add(flow.Mul(noiseStrength))
		}

		set.Current[i] = pos
		set.Effect[i] = effect
	}
	set.MarkPosition()
	set.MarkEffect()
}

// finish settles the set exactly on the incoming shape.
func (a *Animator) finish(now float64) {
	target := a.targets[a.shape]
	a.set.Settle(target)
	a.recolor()
	a.mode = ModeIdle
	a.progress = 1

	name := a.catalog.Name(a.shape)
	a.setLabel(SettledLabel(name))
	a.notify(Transition{Kind: TransitionMorphEnd, At: now, From: a.shape, To: a.shape, Shape: name})
}

func (a *Animator) updateIdle(now float64) {
	set := a.set
	breath := float32(1 + math.Sin(now*a.params.BreathSpeed)*a.params.BreathAmplitude)
	flowTime := now * a.params.FlowSpeed
	follow := a.params.Follow
	eps := a.params.SettleEpsilon
	flowing := a.params.FlowStrength != 0

	moved := false
	for i := 0; i < set.Count; i++ {
		goal := set.Source[i].Mul(breath)
		if flowing {
			flow := FlowOffset(goal, a.params.FlowFrequency, flowTime, a.params.FlowSpacing)
			goal = goal.Add(flow.Mul(a.params.FlowStrength))
		}

		cur := set.Current[i]
		if cur == goal {
			continue
		}
		gap := goal.Sub(cur)
		if gap.Len() < eps {
			set.Current[i] = goal
		} else {
			set.Current[i] = cur.Add(gap.Mul(follow))
		}
		moved = true
	}
	if moved {
		set.MarkPosition()
	}

	reset := false
	for i, e := range set.Effect {
		if e != 0 {
			set.Effect[i] = 0
			reset = true
		}
	}
	if reset {
		set.MarkEffect()
	}
}

func (a *Animator) recolor() {
	a.colors.Apply(a.set.Current, a.set.Color)
	a.set.MarkColor()
}

func (a *Animator) setLabel(text string) {
	a.label = text
	if a.labels != nil {
		a.labels.SetLabel(text)
	}
}

func (a *Animator) notify(tr Transition) {
	if a.observer != nil {
		a.observer(tr)
	}
}
