package game

import (
	"github.com/pthm-cable/nebula/config"
)

// Options holds configuration for game initialization.
type Options struct {
	Seed      int64
	Headless  bool   // run on a fixed-step clock, no window
	OutputDir string // CSV logs and config snapshot (empty = disabled)

	// Width and Height are the initial viewport in pixels (0 = use config).
	Width, Height int

	// Clock overrides the frame clock. Nil picks a StepClock when headless
	// and a RealClock otherwise.
	Clock Clock
}

// DefaultOptions returns options for a windowed run sized from cfg.
func DefaultOptions(cfg *config.Config) Options {
	return Options{
		Seed:   42,
		Width:  cfg.Screen.Width,
		Height: cfg.Screen.Height,
	}
}

func (o Options) withDefaults(cfg *config.Config) Options {
	if o.Width <= 0 {
		o.Width = cfg.Screen.Width
	}
	if o.Height <= 0 {
		o.Height = cfg.Screen.Height
	}
	if o.Clock == nil {
		if o.Headless {
			o.Clock = NewStepClock(1.0 / 60.0)
		} else {
			o.Clock = NewRealClock()
		}
	}
	return o
}
