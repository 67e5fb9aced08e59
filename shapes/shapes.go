// Package shapes generates point sets approximating 3D forms.
//
// Every generator returns exactly count points and draws all of its randomness
// from the supplied source, so a seeded source gives a repeatable shape.
package shapes

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Generator produces count points for a shape of the given size.
type Generator func(rng *rand.Rand, count int, size float32) []mgl32.Vec3

// Sphere places points on a Fibonacci lattice of radius size.
// The golden-angle spiral avoids the pole clustering of naive angle sampling.
func Sphere(_ *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	phi := math.Pi * (math.Sqrt(5) - 1)
	for i := 0; i < count; i++ {
		y := 1.0
		if count > 1 {
			y = 1 - float64(i)/float64(count-1)*2
		}
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := phi * float64(i)
		x := math.Cos(theta) * radius
		z := math.Sin(theta) * radius
		s := float64(size)
		points[i] = mgl32.Vec3{float32(x * s), float32(y * s), float32(z * s)}
	}
	return points
}

// Cube samples the six faces of an axis-aligned cube with edge length size.
func Cube(rng *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	half := size / 2
	for i := 0; i < count; i++ {
		face := rng.Intn(6)
		u := rng.Float32()*size - half
		v := rng.Float32()*size - half
		switch face {
		case 0:
			points[i] = mgl32.Vec3{half, u, v}
		case 1:
			points[i] = mgl32.Vec3{-half, u, v}
		case 2:
			points[i] = mgl32.Vec3{u, half, v}
		case 3:
			points[i] = mgl32.Vec3{u, -half, v}
		case 4:
			points[i] = mgl32.Vec3{u, v, half}
		default:
			points[i] = mgl32.Vec3{u, v, -half}
		}
	}
	return points
}

// Pyramid samples a square pyramid (base edge size, height 1.2*size) with
// area-weighted face selection so density is uniform across faces.
func Pyramid(rng *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	halfBase := size / 2
	height := size * 1.2
	apex := mgl32.Vec3{0, height / 2, 0}
	base := [4]mgl32.Vec3{
		{-halfBase, -height / 2, -halfBase},
		{halfBase, -height / 2, -halfBase},
		{halfBase, -height / 2, halfBase},
		{-halfBase, -height / 2, halfBase},
	}

	baseArea := float64(size * size)
	slant := math.Sqrt(float64(height*height + halfBase*halfBase))
	sideArea := 0.5 * float64(size) * slant
	total := baseArea + 4*sideArea
	baseWeight := baseArea / total
	sideWeight := sideArea / total

	for i := 0; i < count; i++ {
		r := rng.Float64()
		if r < baseWeight {
			u := rng.Float32()
			v := rng.Float32()
			near := lerp(base[0], base[1], u)
			far := lerp(base[3], base[2], u)
			points[i] = lerp(near, far, v)
			continue
		}

		face := int((r - baseWeight) / sideWeight)
		if face > 3 {
			face = 3
		}
		v1 := base[face]
		v2 := base[(face+1)%4]
		u := rng.Float32()
		v := rng.Float32()
		// Fold samples from the far half of the parallelogram back into the triangle
		if u+v > 1 {
			u = 1 - u
			v = 1 - v
		}
		points[i] = v1.Add(v2.Sub(v1).Mul(u)).Add(apex.Sub(v1).Mul(v))
	}
	return points
}

// Torus samples a ring of major radius 0.7*size and tube radius 0.3*size.
func Torus(rng *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	major := float64(size) * 0.7
	minor := float64(size) * 0.3
	for i := 0; i < count; i++ {
		theta := rng.Float64() * 2 * math.Pi
		phi := rng.Float64() * 2 * math.Pi
		ring := major + minor*math.Cos(phi)
		points[i] = mgl32.Vec3{
			float32(ring * math.Cos(theta)),
			float32(minor * math.Sin(phi)),
			float32(ring * math.Sin(theta)),
		}
	}
	return points
}

// Galaxy parameters.
const (
	galaxyArms      = 4
	galaxyArmWidth  = 0.6
	galaxyBulge     = 0.3
	galaxyTwist     = 6.0
	galaxyThickness = 0.1
)

// Galaxy samples a four-armed spiral, denser toward the core.
func Galaxy(rng *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	s := float64(size)
	for i := 0; i < count; i++ {
		t := math.Pow(rng.Float64(), 1.5)
		radius := t * s
		arm := rng.Intn(galaxyArms)
		armOffset := float64(arm) / galaxyArms * 2 * math.Pi
		angle := armOffset + radius/s*galaxyTwist
		spread := (rng.Float64() - 0.5) * galaxyArmWidth * (1 - radius/s)
		theta := angle + spread
		y := (rng.Float64() - 0.5) * s * galaxyThickness * (1 - radius/s*galaxyBulge)
		points[i] = mgl32.Vec3{
			float32(radius * math.Cos(theta)),
			float32(y),
			float32(radius * math.Sin(theta)),
		}
	}
	return points
}

// Wave parameters.
const (
	waveHeight    = 0.4
	waveFrequency = 3.0
)

// Wave samples a square sheet rippled by a radial sine and angular cosine,
// damped to flat at the unit radius.
func Wave(rng *rand.Rand, count int, size float32) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, count)
	s := float64(size)
	for i := 0; i < count; i++ {
		u := rng.Float64()*2 - 1
		v := rng.Float64()*2 - 1
		dist := math.Sqrt(u*u + v*v)
		angle := math.Atan2(v, u)
		y := math.Sin(dist*math.Pi*waveFrequency) * math.Cos(angle*2) * s * waveHeight * (1 - dist)
		points[i] = mgl32.Vec3{float32(u * s), float32(y), float32(v * s)}
	}
	return points
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
