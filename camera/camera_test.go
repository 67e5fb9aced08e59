package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/config"
)

func testConfig() config.CameraConfig {
	return config.CameraConfig{
		FovY:            70,
		Near:            0.1,
		Far:             1000,
		Position:        [3]float64{0, 8, 28},
		AutoRotateSpeed: 0.5,
		Damping:         0.05,
		MinDistance:     5,
		MaxDistance:     80,
	}
}

func TestNewRecoversStartPosition(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	pos := cam.Position()
	want := mgl32.Vec3{0, 8, 28}
	if pos.Sub(want).Len() > 1e-3 {
		t.Errorf("expected position %v, got %v", want, pos)
	}
	if math.Abs(float64(cam.Aspect())-1280.0/720.0) > 1e-6 {
		t.Errorf("expected aspect 16:9, got %f", cam.Aspect())
	}
}

func TestNewClampsDistance(t *testing.T) {
	cfg := testConfig()
	cfg.Position = [3]float64{0, 0, 200}
	cam := New(cfg, 800, 600)
	if cam.Distance != 80 {
		t.Errorf("expected distance clamped to 80, got %f", cam.Distance)
	}
}

func TestResizeUpdatesProjection(t *testing.T) {
	cam := New(testConfig(), 1280, 720)
	before := cam.Projection()

	cam.Resize(720, 720)
	if cam.Aspect() != 1 {
		t.Errorf("expected aspect 1, got %f", cam.Aspect())
	}
	after := cam.Projection()
	if before == after {
		t.Error("expected projection to change on resize")
	}
	// With a square viewport x and y scale match.
	if math.Abs(float64(after[0]-after[5])) > 1e-6 {
		t.Errorf("expected equal x/y scale, got %f and %f", after[0], after[5])
	}
}

func TestResizeIgnoresDegenerateSizes(t *testing.T) {
	cam := New(testConfig(), 1280, 720)
	proj := cam.Projection()

	tests := []struct{ w, h float32 }{
		{0, 720},
		{1280, 0},
		{-5, -5},
	}
	for _, tt := range tests {
		cam.Resize(tt.w, tt.h)
		if cam.ViewportW != 1280 || cam.ViewportH != 720 {
			t.Errorf("resize(%f,%f) changed viewport to %fx%f", tt.w, tt.h, cam.ViewportW, cam.ViewportH)
		}
		if cam.Projection() != proj {
			t.Errorf("resize(%f,%f) changed projection", tt.w, tt.h)
		}
	}
}

func TestAutoRotateEasesInAndOut(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	for i := 0; i < 600; i++ {
		cam.Update(1.0 / 60)
	}
	if math.Abs(float64(cam.Spin()-0.5)) > 1e-3 {
		t.Fatalf("expected spin to reach 0.5, got %f", cam.Spin())
	}

	cam.SetAutoRotate(false)
	cam.Update(1.0 / 60)
	if cam.Spin() <= 0 || cam.Spin() >= 0.5 {
		t.Errorf("expected spin to ease down, got %f", cam.Spin())
	}
	for i := 0; i < 600; i++ {
		cam.Update(1.0 / 60)
	}
	if cam.Spin() > 1e-3 {
		t.Errorf("expected spin near zero, got %f", cam.Spin())
	}

	az := cam.Azimuth
	dist := cam.Distance
	cam.Update(1.0 / 60)
	if math.Abs(float64(cam.Azimuth-az)) > 1e-4 || cam.Distance != dist {
		t.Error("expected a stopped camera to stay put")
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	cam.Zoom(-1000)
	for i := 0; i < 1000; i++ {
		cam.Update(1.0 / 60)
	}
	if math.Abs(float64(cam.Distance-5)) > 1e-2 {
		t.Errorf("expected distance near 5, got %f", cam.Distance)
	}

	cam.Zoom(1000)
	for i := 0; i < 1000; i++ {
		cam.Update(1.0 / 60)
	}
	if math.Abs(float64(cam.Distance-80)) > 1e-2 {
		t.Errorf("expected distance near 80, got %f", cam.Distance)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(testConfig(), 1280, 720)

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"origin", mgl32.Vec3{0, 0, 0}, true},
		{"behind camera", mgl32.Vec3{0, 8, 60}, false},
		{"far off to the side", mgl32.Vec3{500, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.IsVisible(tt.p, 0.5); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("wrapAngle(%f): expected %f, got %f", tt.in, tt.want, got)
		}
	}
}
