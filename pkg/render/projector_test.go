package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

// newTestCamera returns a camera at (0,0,10) looking down -Z whose view
// spans x,y in [-2, 2] at the origin plane.
func newTestCamera() *Camera {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 10))
	cam.SetFocalLength(35)
	cam.SetFilmAperture(14, 14)
	cam.SetClipPlanes(1, 1000)
	return cam
}

func TestProjectCenter(t *testing.T) {
	cam := newTestCamera()
	rv := WorldToRaster(cam, Vertex{Position: math3d.Zero3()}, 100, 100)

	if rv.X != 50 || rv.Y != 50 {
		t.Errorf("raster position = (%v, %v), want (50, 50)", rv.X, rv.Y)
	}
	if rv.Z != 10 {
		t.Errorf("depth = %v, want 10", rv.Z)
	}
}

func TestProjectPoints(t *testing.T) {
	cam := newTestCamera()
	p := NewProjector(cam, 100, 100)

	tests := []struct {
		name    string
		world   math3d.Vec3
		x, y, z float64
	}{
		{"bottom left", math3d.V3(-1, -1, 0), 25, 75, 10},
		{"bottom right", math3d.V3(1, -1, 0), 75, 75, 10},
		{"top", math3d.V3(0, 1, 0), 50, 25, 10},
		{"farther shrinks", math3d.V3(2, 2, -10), 75, 25, 20},
		{"off image", math3d.V3(4, 0, 0), 150, 50, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rv := p.Project(Vertex{Position: tc.world})
			if math.Abs(rv.X-tc.x) > 1e-9 || math.Abs(rv.Y-tc.y) > 1e-9 || math.Abs(rv.Z-tc.z) > 1e-9 {
				t.Errorf("Project(%v) = (%v, %v, %v), want (%v, %v, %v)", tc.world, rv.X, rv.Y, rv.Z, tc.x, tc.y, tc.z)
			}
		})
	}
}

func TestProjectNonSquareImage(t *testing.T) {
	cam := newTestCamera()
	rv := WorldToRaster(cam, Vertex{Position: math3d.V3(1, 1, 0)}, 200, 100)

	if math.Abs(rv.X-150) > 1e-9 || math.Abs(rv.Y-25) > 1e-9 {
		t.Errorf("raster position = (%v, %v), want (150, 25)", rv.X, rv.Y)
	}
}

func TestProjectCarriesColor(t *testing.T) {
	cam := newTestCamera()
	c := math3d.V3(12, 300, -4)
	rv := WorldToRaster(cam, Vertex{Position: math3d.V3(0.3, 0.2, 1), Color: c}, 64, 48)
	if rv.Color != c {
		t.Errorf("color = %v, want %v unchanged", rv.Color, c)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := newTestCamera()
	rv := WorldToRaster(cam, Vertex{Position: math3d.V3(1, 1, 20)}, 100, 100)

	// Not clipped: depth goes negative and the point mirrors through the eye.
	if rv.Z != -10 {
		t.Errorf("depth = %v, want -10", rv.Z)
	}
	if !(rv.X < 50 && rv.Y > 50) {
		t.Errorf("raster position = (%v, %v), want mirrored into lower left", rv.X, rv.Y)
	}
}

func TestProjectRotatedCamera(t *testing.T) {
	// Camera at origin yawed 90 degrees looks down world -X.
	cam := newTestCamera()
	cam.SetPosition(math3d.Zero3())
	cam.SetRotation(math3d.V3(0, 90, 0))

	rv := WorldToRaster(cam, Vertex{Position: math3d.V3(-10, 0, 0)}, 100, 100)
	if math.Abs(rv.X-50) > 1e-9 || math.Abs(rv.Y-50) > 1e-9 || math.Abs(rv.Z-10) > 1e-9 {
		t.Errorf("Project = (%v, %v, %v), want (50, 50, 10)", rv.X, rv.Y, rv.Z)
	}
}
