package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
)

// LightRig holds the scene's fixed lights as entities.
// Particles are unlit sprites, so the rig only tints colours when a shape settles.
type LightRig struct {
	world *ecs.World

	directionalMap *ecs.Map2[components.Light, components.Direction]
	ambientMap     *ecs.Map2[components.Light, components.Ambient]

	directional *ecs.Filter2[components.Light, components.Direction]
	ambient     *ecs.Filter2[components.Light, components.Ambient]

	count     int
	influence float32
}

// NewLightRig creates one entity per configured light.
func NewLightRig(cfg config.LightsConfig) *LightRig {
	world := ecs.NewWorld()
	r := &LightRig{
		world:          world,
		directionalMap: ecs.NewMap2[components.Light, components.Direction](world),
		ambientMap:     ecs.NewMap2[components.Light, components.Ambient](world),
		directional:    ecs.NewFilter2[components.Light, components.Direction](world),
		ambient:        ecs.NewFilter2[components.Light, components.Ambient](world),
		influence:      clampFloat(float32(cfg.Influence), 0, 1),
	}

	amb := components.Light{Color: rgb255(cfg.Ambient.Color), Intensity: float32(cfg.Ambient.Intensity)}
	r.ambientMap.NewEntity(&amb, &components.Ambient{})
	r.count++

	for _, lc := range cfg.Directional {
		light := components.Light{Color: rgb255(lc.Color), Intensity: float32(lc.Intensity)}
		pos := mgl32.Vec3{float32(lc.Position[0]), float32(lc.Position[1]), float32(lc.Position[2])}
		dir := components.Direction{Vec3: normalizeOr(pos, up)}
		r.directionalMap.NewEntity(&light, &dir)
		r.count++
	}
	return r
}

// Len returns the number of lights in the rig.
func (r *LightRig) Len() int { return r.count }

// Irradiance sums ambient and lambert contributions for a surface normal.
func (r *LightRig) Irradiance(normal mgl32.Vec3) mgl32.Vec3 {
	var sum mgl32.Vec3

	query := r.ambient.Query()
	for query.Next() {
		light, _ := query.Get()
		sum = sum.Add(light.Color.Mul(light.Intensity))
	}

	dirQuery := r.directional.Query()
	for dirQuery.Next() {
		light, dir := dirQuery.Get()
		lambert := normal.Dot(dir.Vec3)
		if lambert <= 0 {
			continue
		}
		sum = sum.Add(light.Color.Mul(light.Intensity * lambert))
	}
	return sum
}

// Shade blends c toward its lit value by the rig's influence.
func (r *LightRig) Shade(c, normal mgl32.Vec3) mgl32.Vec3 {
	if r.influence == 0 {
		return c
	}
	irr := r.Irradiance(normal)
	k := r.influence
	out := mgl32.Vec3{
		c[0] * ((1 - k) + k*irr[0]),
		c[1] * ((1 - k) + k*irr[1]),
		c[2] * ((1 - k) + k*irr[2]),
	}
	for ch := range out {
		out[ch] = clampFloat(out[ch], 0, 1)
	}
	return out
}

func rgb255(c [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}
