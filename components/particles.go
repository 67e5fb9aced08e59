// Package components defines the data owned by the particle engine.
package components

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// DirtyFlags marks which per-particle attribute buffers changed since the
// renderer last uploaded them. Writers set, the renderer clears.
type DirtyFlags struct {
	Position bool
	Color    bool
	Effect   bool
}

// ParticleSet holds all per-particle attributes as parallel slices.
// Every slice has exactly Count elements for the lifetime of the set.
type ParticleSet struct {
	Count int

	Current []mgl32.Vec3 // drawn positions, rewritten every frame
	Source  []mgl32.Vec3 // interpolation start, snapshotted when a morph begins
	Swarm   []mgl32.Vec3 // Bezier control points, recomputed per morph

	Size    []float32 // constant after construction
	Opacity []float32 // constant after construction
	Effect  []float32 // 0 at rest, sin curve during a morph
	Color   []mgl32.Vec3

	Dirty DirtyFlags
}

// NewParticleSet allocates a set of count particles with randomised sizes
// in [sizeMin, sizeMax] and opacities in [opacityMin, 1].
func NewParticleSet(count int, rng *rand.Rand, sizeMin, sizeMax, opacityMin float32) (*ParticleSet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("particle set: count must be > 0, got %d", count)
	}

	s := &ParticleSet{
		Count:   count,
		Current: make([]mgl32.Vec3, count),
		Source:  make([]mgl32.Vec3, count),
		Swarm:   make([]mgl32.Vec3, count),
		Size:    make([]float32, count),
		Opacity: make([]float32, count),
		Effect:  make([]float32, count),
		Color:   make([]mgl32.Vec3, count),
	}
	for i := 0; i < count; i++ {
		s.Size[i] = sizeMin + rng.Float32()*(sizeMax-sizeMin)
		s.Opacity[i] = opacityMin + rng.Float32()*(1-opacityMin)
	}
	return s, nil
}

// Seed places every particle at rest on the given points.
func (s *ParticleSet) Seed(points []mgl32.Vec3) error {
	if len(points) != s.Count {
		return fmt.Errorf("particle set: seed has %d points, expected %d", len(points), s.Count)
	}
	copy(s.Current, points)
	copy(s.Source, points)
	for i := range s.Effect {
		s.Effect[i] = 0
	}
	s.Dirty = DirtyFlags{Position: true, Color: true, Effect: true}
	return nil
}

// SnapshotSource freezes the current positions as the interpolation start.
func (s *ParticleSet) SnapshotSource() {
	copy(s.Source, s.Current)
}

// Settle snaps current and source positions to points and clears all effect strength.
func (s *ParticleSet) Settle(points []mgl32.Vec3) {
	copy(s.Current, points)
	copy(s.Source, points)
	for i := range s.Effect {
		s.Effect[i] = 0
	}
	s.Dirty.Position = true
	s.Dirty.Effect = true
}

// MarkPosition flags the position buffer for upload.
func (s *ParticleSet) MarkPosition() { s.Dirty.Position = true }

// MarkColor flags the colour buffer for upload.
func (s *ParticleSet) MarkColor() { s.Dirty.Color = true }

// MarkEffect flags the effect-strength buffer for upload.
func (s *ParticleSet) MarkEffect() { s.Dirty.Effect = true }

// ClearDirty resets all flags after an upload.
func (s *ParticleSet) ClearDirty() { s.Dirty = DirtyFlags{} }
