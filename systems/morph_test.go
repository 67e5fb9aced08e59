package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
)

type labelRecorder struct {
	labels []string
}

func (r *labelRecorder) SetLabel(text string) { r.labels = append(r.labels, text) }

// newTestAnimator builds an animator over count particles cycling through names.
func newTestAnimator(t *testing.T, count int, names []string, durationMS int) (*Animator, *components.ParticleSet, *labelRecorder) {
	t.Helper()

	cfg := config.Defaults()
	cfg.Particles.Count = count
	cfg.Shapes = names
	cfg.Morph.DurationMS = durationMS
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}

	catalog, err := shapes.NewCatalog(cfg.Shapes)
	if err != nil {
		t.Fatal(err)
	}
	size := float32(cfg.Particles.ShapeSize)
	targets, err := catalog.Precompute(count, size, 7)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	set, err := components.NewParticleSet(count, rng, 0.1, 0.2, 1)
	if err != nil {
		t.Fatal(err)
	}

	rec := &labelRecorder{}
	colors := NewColorMapper(cfg.Derived.Scheme, cfg.Particles.ShapeSize, NewLightRig(cfg.Lights))
	a, err := NewAnimator(set, catalog, targets, MorphParamsFromConfig(cfg), colors, rng, rec)
	if err != nil {
		t.Fatal(err)
	}
	return a, set, rec
}

func TestNewAnimatorSeedsFirstShape(t *testing.T) {
	a, set, rec := newTestAnimator(t, 50, []string{"sphere", "cube"}, 1000)

	if a.Mode() != ModeIdle {
		t.Errorf("expected idle, got %s", a.Mode())
	}
	if a.ShapeIndex() != 0 {
		t.Errorf("expected shape 0, got %d", a.ShapeIndex())
	}
	for i, p := range set.Current {
		if p != a.Targets(0)[i] {
			t.Fatalf("particle %d not seeded on first shape", i)
		}
	}
	if len(rec.labels) != 1 || rec.labels[0] != "Shape: Sphere (click to morph)" {
		t.Errorf("expected settled sphere label, got %v", rec.labels)
	}
	if !set.Dirty.Color {
		t.Error("expected colours marked dirty after seeding")
	}
}

func TestNewAnimatorRejectsMismatchedTargets(t *testing.T) {
	catalog, _ := shapes.NewCatalog([]string{"sphere", "cube"})
	rng := rand.New(rand.NewSource(1))
	set, _ := components.NewParticleSet(10, rng, 0.1, 0.2, 1)
	params := MorphParamsFromConfig(config.Defaults())
	colors := NewColorMapper(config.ColorSchemes["fire"], 14, nil)

	short := make([]mgl32.Vec3, 9)
	full := make([]mgl32.Vec3, 10)

	tests := []struct {
		name    string
		targets [][]mgl32.Vec3
	}{
		{"missing shape", [][]mgl32.Vec3{full}},
		{"short target set", [][]mgl32.Vec3{full, short}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnimator(set, catalog, tt.targets, params, colors, rng, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTriggerIdempotentUnderSpam(t *testing.T) {
	a, _, rec := newTestAnimator(t, 100, []string{"sphere", "cube", "torus"}, 4000)

	var starts int
	a.SetObserver(func(tr Transition) {
		if tr.Kind == TransitionMorphStart {
			starts++
		}
	})

	if !a.Trigger(0) {
		t.Fatal("expected first trigger to start a morph")
	}
	now := 0.0
	for i := 0; i < 50; i++ {
		now += 0.05
		if a.Trigger(now) {
			t.Fatalf("trigger %d started a second morph", i)
		}
		a.Update(now, 0.05)
	}

	if starts != 1 {
		t.Errorf("expected 1 morph start, got %d", starts)
	}
	if a.ShapeIndex() != 1 {
		t.Errorf("expected shape index 1, got %d", a.ShapeIndex())
	}
	if a.Mode() != ModeMorphing {
		t.Errorf("expected morphing, got %s", a.Mode())
	}
	if a.MorphStart() != 0 {
		t.Errorf("expected morph start 0, got %g", a.MorphStart())
	}
	if got := rec.labels[len(rec.labels)-1]; got != MorphingLabel {
		t.Errorf("expected %q, got %q", MorphingLabel, got)
	}
}

func TestProgressMonotonic(t *testing.T) {
	a, _, _ := newTestAnimator(t, 64, []string{"sphere", "wave"}, 1000)

	a.Trigger(10)
	if a.Progress() != 0 {
		t.Fatalf("expected progress 0 at morph start, got %g", a.Progress())
	}

	prev := 0.0
	for now := 10.0; now <= 11.2; now += 1.0 / 60 {
		a.Update(now, 1.0/60)
		p := a.Progress()
		if p < prev {
			t.Fatalf("progress decreased at %g: %g -> %g", now, prev, p)
		}
		if p < 0 || p > 1 {
			t.Fatalf("progress out of range at %g: %g", now, p)
		}
		prev = p
	}
	if prev != 1 {
		t.Errorf("expected progress 1 after duration, got %g", prev)
	}
	if a.Mode() != ModeIdle {
		t.Errorf("expected idle after duration, got %s", a.Mode())
	}
}

func TestProgressIgnoresClockGoingBackwards(t *testing.T) {
	a, _, _ := newTestAnimator(t, 16, []string{"sphere", "cube"}, 1000)
	a.Trigger(0)
	a.Update(0.6, 0.6)
	a.Update(0.4, 0)
	if a.Progress() < 0.6 {
		t.Errorf("expected progress to hold at 0.6, got %g", a.Progress())
	}
}

func TestBoundaryCompletion(t *testing.T) {
	a, set, _ := newTestAnimator(t, 200, []string{"galaxy", "torus"}, 2000)

	a.Trigger(0)
	for now := 0.0; now < 1.99; now += 0.1 {
		a.Update(now, 0.1)
	}
	set.ClearDirty()
	a.Update(2.0, 0.01)

	target := a.Targets(1)
	for i := range target {
		if set.Current[i] != target[i] {
			t.Fatalf("particle %d: expected %v, got %v", i, target[i], set.Current[i])
		}
		if set.Source[i] != target[i] {
			t.Fatalf("particle %d: source not reset to target", i)
		}
		if set.Effect[i] != 0 {
			t.Fatalf("particle %d: expected zero effect, got %f", i, set.Effect[i])
		}
	}
	if !set.Dirty.Position || !set.Dirty.Effect || !set.Dirty.Color {
		t.Errorf("expected all buffers dirty on settle, got %+v", set.Dirty)
	}
}

func TestEndToEndSphereToCube(t *testing.T) {
	a, set, rec := newTestAnimator(t, 100, []string{"sphere", "cube"}, 1000)

	if a.ShapeIndex() != 0 || a.Mode() != ModeIdle {
		t.Fatalf("expected idle sphere at start, got %s shape %d", a.Mode(), a.ShapeIndex())
	}

	a.Trigger(0)
	a.Update(0.5, 1.0/60)
	if a.Mode() != ModeMorphing {
		t.Fatalf("expected morphing at 500ms, got %s", a.Mode())
	}
	for i, e := range set.Effect {
		if math.Abs(float64(e)-1) > 1e-6 {
			t.Fatalf("particle %d: expected effect ~1 at 500ms, got %f", i, e)
		}
	}

	a.Update(1.0, 1.0/60)
	if a.Mode() != ModeIdle {
		t.Fatalf("expected idle at 1000ms, got %s", a.Mode())
	}
	if a.ShapeIndex() != 1 {
		t.Fatalf("expected cube index 1, got %d", a.ShapeIndex())
	}

	// Precompute seeds shape i with seed+i.
	cube, err := shapes.Generate(shapes.IDCube, rand.New(rand.NewSource(7+1)), 100, 14)
	if err != nil {
		t.Fatal(err)
	}
	for i := range cube {
		if set.Current[i] != cube[i] {
			t.Fatalf("particle %d: expected cube point %v, got %v", i, cube[i], set.Current[i])
		}
	}

	want := []string{"Shape: Sphere (click to morph)", MorphingLabel, "Shape: Cube (click to morph)"}
	if len(rec.labels) != len(want) {
		t.Fatalf("expected labels %v, got %v", want, rec.labels)
	}
	for i := range want {
		if rec.labels[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], rec.labels[i])
		}
	}
}

func TestRingCyclesThroughEveryShape(t *testing.T) {
	names := []string{"sphere", "cube", "pyramid"}
	a, _, _ := newTestAnimator(t, 30, names, 100)

	now := 0.0
	var visited []int
	for i := 0; i < len(names); i++ {
		a.Trigger(now)
		now += 0.2
		a.Update(now, 0.2)
		visited = append(visited, a.ShapeIndex())
	}
	want := []int{1, 2, 0}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("step %d: expected shape %d, got %d", i, want[i], visited[i])
		}
	}
}

// bezier evaluates the quadratic curve the same way the animator does.
func bezier(set *components.ParticleSet, target []mgl32.Vec3, i int, p float64) mgl32.Vec3 {
	t := float32(p)
	inv := 1 - t
	return set.Source[i].Mul(inv * inv).Add(set.Swarm[i].Mul(2 * inv * t)).Add(target[i].Mul(t * t))
}

func TestMorphBelowEffectThresholdFollowsBezier(t *testing.T) {
	a, set, _ := newTestAnimator(t, 100, []string{"sphere", "cube"}, 1000)
	a.Trigger(0)
	// sin(0.002 * pi) is below the 0.01 threshold
	a.Update(0.002, 0.002)

	target := a.Targets(1)
	for i := range target {
		if want := bezier(set, target, i, a.Progress()); set.Current[i] != want {
			t.Fatalf("particle %d: expected pure curve %v, got %v", i, want, set.Current[i])
		}
	}
}

func TestMorphAboveEffectThresholdAddsSwirlAndNoise(t *testing.T) {
	tests := []struct {
		name      string
		swirl     float32
		noise     float32
		wantCurve bool
	}{
		{"defaults", -1, -1, false},
		{"swirl only", -1, 0, false},
		{"noise only", 0, -1, false},
		{"both disabled", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, set, _ := newTestAnimator(t, 100, []string{"sphere", "cube"}, 1000)
			if tt.swirl >= 0 {
				a.params.SwirlFactor = tt.swirl
			}
			if tt.noise >= 0 {
				a.params.NoiseMaxStrength = tt.noise
			}
			a.Trigger(0)
			for now := 1.0 / 60; now < 0.5; now += 1.0 / 60 {
				a.Update(now, 1.0/60)
			}
			a.Update(0.5, 1.0/60)

			target := a.Targets(1)
			off := 0
			for i := range target {
				if set.Current[i] != bezier(set, target, i, a.Progress()) {
					off++
				}
			}
			if tt.wantCurve && off != 0 {
				t.Errorf("expected every particle on the curve, %d were not", off)
			}
			if !tt.wantCurve && off < len(target)/2 {
				t.Errorf("expected most particles off the curve, got %d of %d", off, len(target))
			}
		})
	}
}

func TestMorphMotionIsSmooth(t *testing.T) {
	a, set, _ := newTestAnimator(t, 2000, []string{"sphere", "cube"}, 4000)
	const dt = 1.0 / 60
	a.Trigger(0)

	now := 0.0
	prev := make([]mgl32.Vec3, set.Count)
	for frame := 0; frame < 120; frame++ {
		now += dt
		copy(prev, set.Current)
		a.Update(now, dt)
	}
	if a.Mode() != ModeMorphing {
		t.Fatalf("expected to still be morphing, got %s", a.Mode())
	}

	var sum, peak float32
	for i := range prev {
		d := set.Current[i].Sub(prev[i]).Len()
		sum += d
		peak = max(peak, d)
	}
	mean := sum / float32(len(prev))
	if mean > 0.5 {
		t.Errorf("expected mean per-frame displacement below 0.5, got %f", mean)
	}
	if peak > 1.5 {
		t.Errorf("expected peak per-frame displacement below 1.5, got %f", peak)
	}
}

func TestIdleConvergesWithoutFlow(t *testing.T) {
	a, set, _ := newTestAnimator(t, 80, []string{"torus"}, 1000)
	a.params.FlowStrength = 0
	a.params.BreathAmplitude = 0

	for i := range set.Current {
		set.Current[i] = set.Current[i].Add(mgl32.Vec3{1, -2, 0.5})
	}

	now := 0.0
	for frame := 0; frame < 2000; frame++ {
		now += 1.0 / 60
		a.Update(now, 1.0/60)
	}
	for i := range set.Current {
		if set.Current[i] != set.Source[i] {
			t.Fatalf("particle %d did not converge: %v vs %v", i, set.Current[i], set.Source[i])
		}
	}

	set.ClearDirty()
	before := append([]mgl32.Vec3(nil), set.Current...)
	a.Update(now+1, 1.0/60)
	for i := range before {
		if set.Current[i] != before[i] {
			t.Fatalf("particle %d moved after converging", i)
		}
	}
	if set.Dirty.Position {
		t.Error("expected no position upload for a static frame")
	}
}

func TestIdleResetsEffectOnce(t *testing.T) {
	a, set, _ := newTestAnimator(t, 10, []string{"sphere"}, 1000)
	set.Effect[3] = 0.4
	set.ClearDirty()

	a.Update(1, 1.0/60)
	if set.Effect[3] != 0 || !set.Dirty.Effect {
		t.Fatalf("expected effect reset and flagged, got %f %+v", set.Effect[3], set.Dirty)
	}

	set.ClearDirty()
	a.Update(2, 1.0/60)
	if set.Dirty.Effect {
		t.Error("expected effect buffer untouched once already zero")
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeIdle, "idle"},
		{ModeMorphing, "morphing"},
		{Mode(9), "mode(9)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestLabelsArePlainASCII(t *testing.T) {
	for _, label := range []string{MorphingLabel, SettledLabel("Galaxy")} {
		for i := 0; i < len(label); i++ {
			if label[i] >= 0x80 {
				t.Errorf("label %q has non-ASCII byte at %d", label, i)
				break
			}
		}
	}
	if MorphingLabel != "Morphing..." {
		t.Errorf("expected %q, got %q", "Morphing...", MorphingLabel)
	}
}
