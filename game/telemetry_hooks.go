package game

import (
	"log/slog"

	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// flushTelemetry writes a perf row at the end of every window and logs
// stats at the configured interval.
func (g *Game) flushTelemetry() {
	window := int64(g.cfg.Telemetry.PerfWindow)
	if window <= 0 || g.frame%window != 0 {
		return
	}
	stats := g.perf.Stats()

	if err := g.output.WritePerf(stats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	interval := g.cfg.Telemetry.LogInterval
	if interval > 0 && g.now-g.lastPerfLog >= interval {
		g.lastPerfLog = g.now
		slog.Info("perf", g.perfAttrs(stats)...)
	}
}

// perfAttrs builds the perf log line, adding render counters when the
// backend reports them.
func (g *Game) perfAttrs(stats telemetry.PerfStats) []any {
	attrs := []any{"frame", g.frame, "stats", stats}
	if rs, ok := g.backend.(RenderStats); ok {
		attrs = append(attrs, "uploads", rs.Uploads(), "visible_stars", rs.VisibleStars())
	}
	return attrs
}

// onTransition logs a morph start or end and records it in morphs.csv.
func (g *Game) onTransition(tr systems.Transition) {
	slog.Info("morph",
		"kind", string(tr.Kind),
		"from", tr.From,
		"to", tr.To,
		"shape", tr.Shape,
		"t", tr.At,
	)
	e := telemetry.MorphEvent{
		Frame: g.frame,
		Time:  tr.At,
		Kind:  string(tr.Kind),
		From:  tr.From,
		To:    tr.To,
		Shape: tr.Shape,
	}
	if err := g.output.WriteMorph(e); err != nil {
		slog.Error("failed to write morph event", "error", err)
	}
}
