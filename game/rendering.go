package game

import "github.com/pthm-cable/nebula/telemetry"

// Draw renders the frame prepared by Update. overlay runs after the
// composite pass, in screen space, and may be nil.
func (g *Game) Draw(overlay func()) {
	if !g.Ready() {
		return
	}
	g.perf.StartPhase(telemetry.PhaseRender)
	g.backend.Render(g.orbit, overlay)
	g.perf.EndTick()
	g.perf.RecordFrame()

	g.flushTelemetry()
}
