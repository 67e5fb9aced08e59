package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Layered trig noise. It is not Perlin noise: it only needs to be continuous
// and bounded so particle motion stays smooth.
const (
	noiseScale     = 0.02
	noiseTimeScale = 0.1
	noiseAmplitude = 0.5
)

// Noise3 returns a smooth value in [-0.5, 0.5].
func Noise3(x, y, z float64) float64 {
	return math.Sin(x*noiseScale) * math.Cos(y*noiseScale) * math.Sin(z*noiseScale) * noiseAmplitude
}

// Noise4 is Noise3 with every axis phase-shifted by time w.
func Noise4(x, y, z, w float64) float64 {
	tw := w * noiseTimeScale
	return math.Sin(x*noiseScale+tw) * math.Cos(y*noiseScale+tw) * math.Sin(z*noiseScale+tw) * noiseAmplitude
}

var up = mgl32.Vec3{0, 1, 0}

// normalizeOr returns v normalised, or fallback when v is too short to have a direction.
func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return fallback
	}
	return v.Mul(1 / l)
}

// NoiseDirection is a unit vector keyed by particle index, stable for the whole morph.
func NoiseDirection(i int) mgl32.Vec3 {
	k := float64(i) * 0.05
	v := mgl32.Vec3{
		float32(Noise3(k, 10, 10)),
		float32(Noise3(20, k, 20)),
		float32(Noise3(30, 30, k)),
	}
	return normalizeOr(v, up)
}

// SwirlAxis is a unit rotation axis keyed by particle index and time.
// ok is false when the noise sample has no usable direction.
func SwirlAxis(i int, t float64) (axis mgl32.Vec3, ok bool) {
	k := float64(i) * 0.02
	tt := t * 0.1
	v := mgl32.Vec3{
		float32(Noise3(k, tt, 0)),
		float32(Noise3(0, k, tt+5)),
		float32(Noise3(tt+10, 0, k)),
	}
	l := v.Len()
	if l < 1e-9 {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// FlowOffset samples three decorrelated Noise4 channels around p.
// spacing shifts each channel's sample point so the axes move independently.
func FlowOffset(p mgl32.Vec3, freq, t, spacing float64) mgl32.Vec3 {
	x := float64(p[0]) * freq
	y := float64(p[1]) * freq
	z := float64(p[2]) * freq
	return mgl32.Vec3{
		float32(Noise4(x, y, z, t)),
		float32(Noise4(x+spacing, y+spacing, z+spacing, t)),
		float32(Noise4(x+2*spacing, y+2*spacing, z+2*spacing, t)),
	}
}
