// Package telemetry provides frame timing, morph event logging, and CSV output.
package telemetry

import "log/slog"

// MorphEvent records one animator transition.
type MorphEvent struct {
	Frame int64   `csv:"frame"`
	Time  float64 `csv:"time_s"`
	Kind  string  `csv:"kind"`
	From  int     `csv:"from"`
	To    int     `csv:"to"`
	Shape string  `csv:"shape"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e MorphEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", e.Frame),
		slog.Float64("time_s", e.Time),
		slog.String("kind", e.Kind),
		slog.Int("from", e.From),
		slog.Int("to", e.To),
		slog.String("shape", e.Shape),
	)
}
