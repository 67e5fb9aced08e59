package game

import (
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// Update advances one frame: clock, controls, animation, then buffer upload.
// Draw completes the frame. Both are no-ops until boot succeeds.
func (g *Game) Update() {
	if !g.Ready() {
		return
	}
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseClock)
	now, dt := g.clock.Tick()
	g.now = now
	g.frame++

	g.perf.StartPhase(telemetry.PhaseControls)
	g.scheduleAuto(now)
	g.drainRequests(now)
	g.orbit.SetAutoRotate(g.animator.Mode() != systems.ModeMorphing)
	g.orbit.Update(float32(dt))

	g.perf.StartPhase(telemetry.PhaseAnimate)
	g.animator.Update(now, dt)

	g.perf.StartPhase(telemetry.PhaseUpload)
	g.backend.Upload(g.set)
}

// scheduleAuto posts requests on the virtual clock in headless runs.
func (g *Game) scheduleAuto(now float64) {
	if g.autoEvery <= 0 {
		return
	}
	for now >= g.nextAuto {
		post(g.requests)
		g.nextAuto += g.autoEvery
	}
}

// drainRequests applies any pending morph request.
func (g *Game) drainRequests(now float64) {
	select {
	case <-g.requests:
		g.animator.Trigger(now)
	default:
	}
}
