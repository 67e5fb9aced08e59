package components

import "github.com/go-gl/mathgl/mgl32"

// Light is the colour and strength shared by every light kind.
type Light struct {
	Color     mgl32.Vec3 // linear RGB 0-1
	Intensity float32
}

// Direction points from the origin toward a directional light.
type Direction struct {
	mgl32.Vec3
}

// Ambient tags a light that contributes uniformly from all directions.
type Ambient struct{}
