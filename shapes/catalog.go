package shapes

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownShape is returned for shape names outside the catalog.
var ErrUnknownShape = errors.New("unknown shape")

// ID identifies a shape generator.
type ID uint8

const (
	IDSphere ID = iota
	IDCube
	IDPyramid
	IDTorus
	IDGalaxy
	IDWave
)

// Descriptor pairs a display name with its generator.
type Descriptor struct {
	ID        ID
	Name      string
	Generator Generator
}

var registry = map[ID]Descriptor{
	IDSphere:  {ID: IDSphere, Name: "Sphere", Generator: Sphere},
	IDCube:    {ID: IDCube, Name: "Cube", Generator: Cube},
	IDPyramid: {ID: IDPyramid, Name: "Pyramid", Generator: Pyramid},
	IDTorus:   {ID: IDTorus, Name: "Torus", Generator: Torus},
	IDGalaxy:  {ID: IDGalaxy, Name: "Galaxy", Generator: Galaxy},
	IDWave:    {ID: IDWave, Name: "Wave", Generator: Wave},
}

// Lookup returns the descriptor for a config name such as "torus".
func Lookup(name string) (Descriptor, error) {
	for _, d := range registry {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Generate runs the generator for id after checking its arguments.
func Generate(id ID, rng *rand.Rand, count int, size float32) ([]mgl32.Vec3, error) {
	d, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownShape, id)
	}
	if count <= 0 {
		return nil, fmt.Errorf("shape %s: count must be > 0, got %d", d.Name, count)
	}
	if size <= 0 {
		return nil, fmt.Errorf("shape %s: size must be > 0, got %g", d.Name, size)
	}
	return d.Generator(rng, count, size), nil
}

// Catalog is the fixed, ordered list of shapes the morph cycles through.
type Catalog struct {
	shapes []Descriptor
}

// NewCatalog builds a catalog from config names, keeping their order.
func NewCatalog(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, errors.New("catalog needs at least one shape")
	}
	c := &Catalog{shapes: make([]Descriptor, 0, len(names))}
	for _, name := range names {
		d, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		c.shapes = append(c.shapes, d)
	}
	return c, nil
}

// DefaultCatalog returns every shape in declaration order.
func DefaultCatalog() *Catalog {
	c := &Catalog{}
	for id := IDSphere; id <= IDWave; id++ {
		c.shapes = append(c.shapes, registry[id])
	}
	return c
}

// Len returns the number of shapes.
func (c *Catalog) Len() int { return len(c.shapes) }

// At returns the descriptor at index i.
func (c *Catalog) At(i int) Descriptor { return c.shapes[i] }

// Name returns the display name at index i.
func (c *Catalog) Name(i int) string { return c.shapes[i].Name }

// Next advances around the ring. It never skips or picks at random.
func (c *Catalog) Next(i int) int {
	return (i + 1) % len(c.shapes)
}

// Precompute generates the target set for every shape.
// Shapes are generated concurrently, each from its own source derived from seed.
func (c *Catalog) Precompute(count int, size float32, seed int64) ([][]mgl32.Vec3, error) {
	if count <= 0 {
		return nil, fmt.Errorf("precompute: count must be > 0, got %d", count)
	}
	if size <= 0 {
		return nil, fmt.Errorf("precompute: size must be > 0, got %g", size)
	}

	targets := make([][]mgl32.Vec3, len(c.shapes))
	var wg sync.WaitGroup
	for i, d := range c.shapes {
		wg.Add(1)
		go func(i int, d Descriptor) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(i)))
			targets[i] = d.Generator(rng, count, size)
		}(i, d)
	}
	wg.Wait()
	return targets, nil
}
