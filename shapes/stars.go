package shapes

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// StarParams controls background starfield generation.
type StarParams struct {
	Count            int
	Spread           float32 // edge of the sampling cube
	MinRadius        float32 // nothing closer than this to the origin
	MaxExtra         float32 // pushed-out stars land in [MinRadius, MinRadius+MaxExtra)
	SizeMin, SizeMax float32
	ColorfulFraction float64 // share of stars with a saturated random hue
}

// StarCloud is a static point cloud with per-star size and colour.
type StarCloud struct {
	Positions []mgl32.Vec3
	Sizes     []float32
	Colors    []mgl32.Vec3
	Saturated int // stars that took the saturated hue branch
}

// coolStarHue is the blue-white hue used for neutral stars, in degrees.
const coolStarHue = 216.0

// Starfield samples stars in a cube and pushes any that land inside MinRadius
// back out, leaving a hollow centre around the morphing shape.
func Starfield(rng *rand.Rand, p StarParams) StarCloud {
	cloud := StarCloud{
		Positions: make([]mgl32.Vec3, p.Count),
		Sizes:     make([]float32, p.Count),
		Colors:    make([]mgl32.Vec3, p.Count),
	}

	for i := 0; i < p.Count; i++ {
		pos := mgl32.Vec3{
			(rng.Float32() - 0.5) * p.Spread,
			(rng.Float32() - 0.5) * p.Spread,
			(rng.Float32() - 0.5) * p.Spread,
		}
		if pos.Len() < p.MinRadius {
			dir := pos
			if dir.Len() == 0 {
				dir = mgl32.Vec3{0, 1, 0}
			}
			pos = dir.Normalize().Mul(p.MinRadius + rng.Float32()*p.MaxExtra)
		}
		cloud.Positions[i] = pos
		cloud.Sizes[i] = p.SizeMin + rng.Float32()*(p.SizeMax-p.SizeMin)

		var c colorful.Color
		if rng.Float64() < p.ColorfulFraction {
			c = colorful.Hsl(rng.Float64()*360, 0.7, 0.65)
			cloud.Saturated++
		} else {
			c = colorful.Hsl(coolStarHue, rng.Float64()*0.1, 0.8+rng.Float64()*0.2)
		}
		c = c.Clamped()
		cloud.Colors[i] = mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
	}
	return cloud
}
