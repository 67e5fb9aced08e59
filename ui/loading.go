package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/game"
)

// Loading is the boot progress indicator. It satisfies game.ProgressSink.
// Once progress reaches 100 it waits, fades out and stops drawing.
type Loading struct {
	theme         Theme
	value         int
	fade          game.Fade
	width, height int32
}

// NewLoading creates an indicator with the given fade schedule.
func NewLoading(theme Theme, delay, duration time.Duration, width, height int32) *Loading {
	return &Loading{
		theme:  theme,
		fade:   game.Fade{Delay: delay, Duration: duration},
		width:  width,
		height: height,
	}
}

// SetProgress records boot progress. Lower values than already shown are ignored.
func (l *Loading) SetProgress(pct int) {
	if pct > l.value {
		l.value = min(pct, 100)
	}
}

// Value returns the progress being shown.
func (l *Loading) Value() int { return l.value }

// Visible reports whether the indicator still draws at now (seconds).
func (l *Loading) Visible(now float64) bool { return l.fade.Visible(now) }

// Resize records the new screen size.
func (l *Loading) Resize(width, height int32) {
	if width > 0 && height > 0 {
		l.width, l.height = width, height
	}
}

// Draw renders the bar at now (seconds, e.g. rl.GetTime()).
// Call between BeginDrawing and EndDrawing.
func (l *Loading) Draw(now float64) {
	if l.value >= 100 {
		l.fade.Start(now)
	}
	alpha := float32(l.fade.Alpha(now))
	if alpha <= 0 {
		return
	}
	t := l.theme
	x := (l.width - t.BarWidth) / 2
	y := l.height/2 + 60

	title := "Loading"
	tw := rl.MeasureText(title, t.FontSize)
	rl.DrawText(title, (l.width-tw)/2, y-t.FontSize-t.Padding, t.FontSize, fadeColor(t.LabelColor, alpha))

	gui.SetAlpha(alpha)
	gui.ProgressBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(t.BarWidth), Height: float32(t.BarHeight)},
		"", fmt.Sprintf("%d%%", l.value),
		float32(l.value), 0, 100,
	)
	gui.SetAlpha(1)
}
