package game

import (
	"log/slog"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/shapes"
)

// nullBackend stands in for the GPU in headless runs. It consumes dirty
// flags the way the renderer would so the upload contract still holds.
type nullBackend struct {
	uploads int
	stars   int
}

func (b *nullBackend) InitRenderer(int, int) error  { return nil }
func (b *nullBackend) InitPostProcessing() error    { return nil }
func (b *nullBackend) Render(*camera.Orbit, func()) {}
func (b *nullBackend) Resize(int, int) error        { return nil }
func (b *nullBackend) Unload()                      {}

func (b *nullBackend) InitStarfield(cloud shapes.StarCloud) error {
	b.stars = len(cloud.Positions)
	return nil
}

// Uploads returns how many frames had dirty particle data.
func (b *nullBackend) Uploads() int { return b.uploads }

// VisibleStars returns every star; nothing is culled without a camera frustum.
func (b *nullBackend) VisibleStars() int { return b.stars }

func (b *nullBackend) InitParticles(set *components.ParticleSet) error {
	set.ClearDirty()
	return nil
}

func (b *nullBackend) Upload(set *components.ParticleSet) {
	if set.Dirty != (components.DirtyFlags{}) {
		b.uploads++
	}
	set.ClearDirty()
}

// slogLabels logs label changes when no overlay is attached.
type slogLabels struct{}

func (slogLabels) SetLabel(text string) {
	slog.Info("label", "text", text)
}
