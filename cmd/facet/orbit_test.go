package main

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

// settle steps the springs until they are at rest.
func settle(o *orbit) {
	for range 600 {
		o.Step()
	}
}

func TestOrbitLooksAtCenter(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
	}{
		{"front", 0, 0},
		{"side", 90, 0},
		{"above", 30, -45},
		{"below", -120, 60},
	}

	center := math3d.V3(1, 2, 3)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := newOrbit(60, center, tc.yaw, tc.pitch, 5)
			cam := render.NewCamera()
			o.Apply(cam)

			if d := cam.Position.Sub(center).Len(); math.Abs(d-5) > 1e-9 {
				t.Errorf("distance from centre = %v, want 5", d)
			}

			// The centre projects to the middle of the image.
			rv := render.WorldToRaster(cam, render.Vertex{Position: center}, 100, 100)
			if math.Abs(rv.X-50) > 1e-6 || math.Abs(rv.Y-50) > 1e-6 {
				t.Errorf("centre projects to (%v, %v), want (50, 50)", rv.X, rv.Y)
			}
			if math.Abs(rv.Z-5) > 1e-9 {
				t.Errorf("centre depth = %v, want 5", rv.Z)
			}
		})
	}
}

func TestOrbitSpringsReachTargets(t *testing.T) {
	o := newOrbit(60, math3d.Zero3(), 0, 0, 10)
	o.Turn(2, 1)
	o.Zoom(1)

	o.Step()
	if o.yaw.Position == 0 || o.yaw.Position >= 30 {
		t.Errorf("after one step yaw = %v, want between 0 and 30", o.yaw.Position)
	}

	settle(o)
	if math.Abs(o.yaw.Position-30) > 1e-3 {
		t.Errorf("yaw = %v, want 30", o.yaw.Position)
	}
	if math.Abs(o.pitch.Position-15) > 1e-3 {
		t.Errorf("pitch = %v, want 15", o.pitch.Position)
	}
	if want := 10 / zoomFactor; math.Abs(o.distance.Position-want) > 1e-3 {
		t.Errorf("distance = %v, want %v", o.distance.Position, want)
	}

	o.Reset()
	settle(o)
	if math.Abs(o.yaw.Position) > 1e-3 || math.Abs(o.distance.Position-10) > 1e-3 {
		t.Errorf("after reset yaw = %v, distance = %v", o.yaw.Position, o.distance.Position)
	}
}

func TestOrbitClampsPitchAndDistance(t *testing.T) {
	o := newOrbit(60, math3d.Zero3(), 0, 0, 1)
	o.Turn(0, 100)
	if o.pitch.Target != maxPitch {
		t.Errorf("pitch target = %v, want %v", o.pitch.Target, maxPitch)
	}
	o.Turn(0, -100)
	if o.pitch.Target != -maxPitch {
		t.Errorf("pitch target = %v, want %v", o.pitch.Target, -maxPitch)
	}

	o.Zoom(1000)
	if o.distance.Target != minDistance {
		t.Errorf("distance target = %v, want %v", o.distance.Target, minDistance)
	}
}

func TestOrbitFor(t *testing.T) {
	empty := orbitFor(60, math3d.EmptyAABB())
	if empty.center != math3d.Zero3() || empty.distance.Target != 10 {
		t.Errorf("empty bounds gave centre %v distance %v", empty.center, empty.distance.Target)
	}

	box := math3d.EmptyAABB().Extend(math3d.V3(-1, -1, -1)).Extend(math3d.V3(3, 1, 1))
	o := orbitFor(60, box)
	if o.center != math3d.V3(1, 0, 0) {
		t.Errorf("centre = %v, want (1, 0, 0)", o.center)
	}
	if want := 3 * math.Sqrt(24) / 2; math.Abs(o.distance.Target-want) > 1e-12 {
		t.Errorf("distance = %v, want %v", o.distance.Target, want)
	}
	if o.pitch.Target >= 0 {
		t.Errorf("pitch = %v, want looking down", o.pitch.Target)
	}
}
