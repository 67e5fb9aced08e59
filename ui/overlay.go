package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/systems"
)

// Overlay shows the current shape label centred near the bottom of the screen.
// It satisfies systems.LabelSink.
type Overlay struct {
	theme         Theme
	text          string
	morphing      bool
	width, height int32
}

// NewOverlay creates an overlay for a screen of the given size.
func NewOverlay(theme Theme, width, height int32) *Overlay {
	return &Overlay{theme: theme, width: width, height: height}
}

// SetLabel replaces the label text. The morphing label switches the glow to orange.
func (o *Overlay) SetLabel(text string) {
	o.text = text
	o.morphing = strings.HasPrefix(text, systems.MorphingLabel)
}

// Text returns the label being shown.
func (o *Overlay) Text() string { return o.text }

// Resize records the new screen size.
func (o *Overlay) Resize(width, height int32) {
	if width > 0 && height > 0 {
		o.width, o.height = width, height
	}
}

// Draw renders the label panel. Call between BeginDrawing and EndDrawing.
func (o *Overlay) Draw() {
	if o.text == "" {
		return
	}
	t := o.theme
	textW := rl.MeasureText(o.text, t.FontSize)
	panelW := textW + t.Padding*2
	panelH := t.FontSize + t.Padding*2
	x := (o.width - panelW) / 2
	y := o.height - panelH - 40

	glow := t.SettledGlow
	if o.morphing {
		glow = t.MorphGlow
	}

	panel := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(panelW), Height: float32(panelH)}
	rl.DrawRectangleRounded(panel, t.CornerRadius, 8, t.PanelBg)
	rl.DrawRectangleRoundedLines(panel, t.CornerRadius, 8, t.PanelBorder)

	// Glow: the text drawn offset in the accent colour under the main pass
	tx, ty := x+t.Padding, y+t.Padding
	if s := t.GlowSpread; s > 0 {
		for _, d := range [][2]int32{{-s, 0}, {s, 0}, {0, -s}, {0, s}} {
			rl.DrawText(o.text, tx+d[0], ty+d[1], t.FontSize, glow)
		}
	}
	rl.DrawText(o.text, tx, ty, t.FontSize, t.LabelColor)
}
