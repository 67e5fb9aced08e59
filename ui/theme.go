// Package ui draws the 2D overlays that sit on top of the composited scene:
// the shape label and the loading indicator.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg      rl.Color
	PanelBorder  rl.Color
	LabelColor   rl.Color
	MorphGlow    rl.Color // label glow while a morph is in flight
	SettledGlow  rl.Color // label glow once a shape has settled
	Padding      int32
	FontSize     int32
	GlowSpread   int32
	BarWidth     int32
	BarHeight    int32
	CornerRadius float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:      rl.Color{R: 0, G: 0, B: 0, A: 128},
		PanelBorder:  rl.Color{R: 255, G: 255, B: 255, A: 40},
		LabelColor:   rl.Color{R: 235, G: 235, B: 245, A: 255},
		MorphGlow:    rl.Color{R: 255, G: 150, B: 50, A: 120},
		SettledGlow:  rl.Color{R: 80, G: 160, B: 255, A: 120},
		Padding:      12,
		FontSize:     20,
		GlowSpread:   2,
		BarWidth:     320,
		BarHeight:    10,
		CornerRadius: 0.5,
	}
}

// fadeColor scales a colour's alpha by a in [0,1].
func fadeColor(c rl.Color, a float32) rl.Color {
	c.A = uint8(float32(c.A) * clamp01(a))
	return c
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
