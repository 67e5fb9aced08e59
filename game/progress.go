package game

import "time"

// ProgressSink receives boot progress in percent.
type ProgressSink interface {
	SetProgress(pct int)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(pct int)

// SetProgress implements ProgressSink.
func (f ProgressFunc) SetProgress(pct int) { f(pct) }

// Progress accumulates boot step weights. Emitted values only increase,
// never exceed 100, and 100 is emitted exactly once.
type Progress struct {
	value int
	done  bool
	sink  ProgressSink
}

// NewProgress creates a tracker reporting to sink (may be nil).
func NewProgress(sink ProgressSink) *Progress {
	return &Progress{sink: sink}
}

// Add advances progress by n and reports the new value.
func (p *Progress) Add(n int) {
	if p.done || n <= 0 {
		return
	}
	p.value += n
	if p.value >= 100 {
		p.value = 100
		p.done = true
	}
	if p.sink != nil {
		p.sink.SetProgress(p.value)
	}
}

// Value returns the current percentage.
func (p *Progress) Value() int { return p.value }

// Done reports whether 100 has been reached.
func (p *Progress) Done() bool { return p.done }

// Fade schedules the loading indicator's exit: fully visible until Delay
// after Start, then a linear fade to zero over Duration.
type Fade struct {
	Delay    time.Duration
	Duration time.Duration

	start   float64
	started bool
}

// Start records when progress completed. Later calls are ignored.
func (f *Fade) Start(now float64) {
	if f.started {
		return
	}
	f.start = now
	f.started = true
}

// Started reports whether Start has been called.
func (f *Fade) Started() bool { return f.started }

// Alpha returns the indicator opacity at now, in [0,1].
func (f *Fade) Alpha(now float64) float64 {
	if !f.started {
		return 1
	}
	t := now - f.start - f.Delay.Seconds()
	if t <= 0 {
		return 1
	}
	d := f.Duration.Seconds()
	if d <= 0 || t >= d {
		return 0
	}
	return 1 - t/d
}

// Visible reports whether the indicator should still be drawn at now.
func (f *Fade) Visible(now float64) bool {
	return f.Alpha(now) > 0
}
