package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/nebula/config"
)

// ColorMapper assigns a colour to each particle from its resting position.
type ColorMapper struct {
	Scheme    config.ColorScheme
	MaxRadius float64   // distance mapped to EndHue, 1.1 * shape size
	Lights    *LightRig // optional
}

// NewColorMapper builds a mapper for shapes of the given size.
func NewColorMapper(scheme config.ColorScheme, shapeSize float64, lights *LightRig) ColorMapper {
	return ColorMapper{Scheme: scheme, MaxRadius: shapeSize * 1.1, Lights: lights}
}

// Color returns the RGB colour for a single position.
func (m ColorMapper) Color(p mgl32.Vec3) mgl32.Vec3 {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])

	var hue float64
	if m.Scheme.Name == "rainbow" {
		nx := (x/m.MaxRadius + 1) / 2
		ny := (y/m.MaxRadius + 1) / 2
		nz := (z/m.MaxRadius + 1) / 2
		hue = nx*120 + ny*120 + nz*120
	} else {
		dist := float64(p.Len())
		hue = mapLinear(dist, 0, m.MaxRadius, m.Scheme.StartHue, m.Scheme.EndHue)
	}

	n := (Noise3(x*0.2, y*0.2, z*0.2) + 1) * 0.5
	sat := clamp01(m.Scheme.Saturation * (0.9 + n*0.2))
	light := m.Scheme.Lightness * (0.85 + n*0.3)
	if light < 0.1 {
		light = 0.1
	} else if light > 0.9 {
		light = 0.9
	}

	c := colorful.Hsl(wrapHue(hue), sat, light).Clamped()
	rgb := mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
	if m.Lights != nil {
		rgb = m.Lights.Shade(rgb, normalizeOr(p, up))
	}
	return rgb
}

// Apply recolours every particle from positions into colors.
func (m ColorMapper) Apply(positions, colors []mgl32.Vec3) {
	for i := range positions {
		colors[i] = m.Color(positions[i])
	}
}
