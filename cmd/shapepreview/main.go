// Shape preview tool - browse the shape generators in 3D with sliders
// and export the current point set as CSV.
//
// Usage: go run ./cmd/shapepreview [-out points.csv]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/shapes"
	"github.com/pthm-cable/nebula/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	panelWidth   = 300
)

// PreviewParams holds the generator inputs.
type PreviewParams struct {
	Shape int
	Count int
	Size  float32
	Seed  int64
}

func main() {
	out := flag.String("out", "points.csv", "CSV export path")
	flag.Parse()

	cfg := config.Defaults()
	catalog := shapes.DefaultCatalog()
	lights := systems.NewLightRig(cfg.Lights)

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := PreviewParams{Count: 3000, Size: float32(cfg.Particles.ShapeSize), Seed: 1}
	orbit := camera.New(cfg.Camera, windowWidth-panelWidth, windowHeight)
	orbit.SetAutoRotate(true)
	orbit.AutoRotateSpeed = 0.3

	var points []mgl32.Vec3
	var tints []color.RGBA
	status := ""
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			points, tints = generate(catalog, cfg, lights, params)
			needsRegen = false
		}

		orbit.Update(rl.GetFrameTime())
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			orbit.Zoom(-wheel * 2)
		}
		if rl.IsKeyPressed(rl.KeyRight) {
			params.Shape = catalog.Next(params.Shape)
			needsRegen = true
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		pos := orbit.Position()
		cam := rl.Camera3D{
			Position:   rl.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
			Target:     rl.Vector3{X: orbit.Target[0], Y: orbit.Target[1], Z: orbit.Target[2]},
			Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
			Fovy:       orbit.FovY,
			Projection: rl.CameraPerspective,
		}
		rl.BeginScissorMode(0, 0, windowWidth-panelWidth, windowHeight)
		rl.BeginMode3D(cam)
		for i, p := range points {
			rl.DrawPoint3D(rl.Vector3{X: p[0], Y: p[1], Z: p[2]}, tints[i])
		}
		rl.DrawGrid(20, 2)
		rl.EndMode3D()
		rl.EndScissorMode()

		// Control panel
		panelX := float32(windowWidth - panelWidth + 10)
		panelY := float32(10)
		rl.DrawRectangle(windowWidth-panelWidth, 0, panelWidth, windowHeight, rl.Color{R: 24, G: 24, B: 28, A: 255})

		rl.DrawText(catalog.Name(params.Shape), int32(panelX), int32(panelY), 24, rl.RayWhite)
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 130, Height: 30}, "Prev") {
			params.Shape = (params.Shape + catalog.Len() - 1) % catalog.Len()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 140, Y: panelY, Width: 130, Height: 30}, "Next") {
			params.Shape = catalog.Next(params.Shape)
			needsRegen = true
		}
		panelY += 50

		// Count slider
		rl.DrawText("Particle count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 110, Height: 20},
			"100", "20k",
			float32(params.Count), 100, 20000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.LightGray)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			needsRegen = true
		}
		panelY += 35

		// Size slider
		rl.DrawText("Shape size", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSize := gui.SliderBar(
			rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 110, Height: 20},
			"1", "30",
			params.Size, 1, 30,
		)
		rl.DrawText(fmt.Sprintf("%.1f", params.Size), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.LightGray)
		if newSize != params.Size {
			params.Size = newSize
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 130, Height: 30}, "Random Seed") {
			params.Seed = rand.Int63()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 140, Y: panelY, Width: 130, Height: 30}, "Export CSV") {
			if err := export(*out, catalog.Name(params.Shape), points); err != nil {
				status = err.Error()
				slog.Error("export failed", "error", err)
			} else {
				status = fmt.Sprintf("wrote %d points to %s", len(points), *out)
				slog.Info("exported", "shape", catalog.Name(params.Shape), "points", len(points), "path", *out)
			}
		}
		panelY += 50

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 20
		rl.DrawText(fmt.Sprintf("Extent: %.2f", extent(points)), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 20
		rl.DrawText(fmt.Sprintf("Colours: %s (%d lights)", cfg.Derived.Scheme.Name, lights.Len()), int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 30
		if status != "" {
			rl.DrawText(status, int32(panelX), int32(panelY), 12, rl.LightGray)
		}

		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
}

// generate builds the points for params and colours them like the engine does.
func generate(catalog *shapes.Catalog, cfg *config.Config, lights *systems.LightRig, params PreviewParams) ([]mgl32.Vec3, []color.RGBA) {
	d := catalog.At(params.Shape)
	rng := rand.New(rand.NewSource(params.Seed))
	points, err := shapes.Generate(d.ID, rng, params.Count, params.Size)
	if err != nil {
		slog.Error("generate failed", "shape", d.Name, "error", err)
		return nil, nil
	}

	colors := make([]mgl32.Vec3, len(points))
	mapper := systems.NewColorMapper(cfg.Derived.Scheme, float64(params.Size), lights)
	mapper.Apply(points, colors)

	tints := make([]color.RGBA, len(points))
	for i, c := range colors {
		tints[i] = color.RGBA{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
	}
	return points, tints
}

func extent(points []mgl32.Vec3) float32 {
	var m float32
	for _, p := range points {
		if l := p.Len(); l > m {
			m = l
		}
	}
	return m
}

func export(path, shape string, points []mgl32.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := shapes.WriteCSV(f, shape, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
