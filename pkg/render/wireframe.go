package render

import (
	"math"
)

// Wireframe draws triangle edges over a framebuffer using the same
// projection as the rasterizer. It ignores depth.
type Wireframe struct {
	projector Projector
	fb        *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		projector: NewProjector(camera, fb.Width, fb.Height),
		fb:        fb,
	}
}

// DrawTriangle draws the three edges of tri.
func (w *Wireframe) DrawTriangle(tri Triangle, color Color) {
	var rv [3]RasterVertex
	for i := range 3 {
		rv[i] = w.projector.Project(tri.V[i])
	}
	for i := range 3 {
		a, b := rv[i], rv[(i+1)%3]
		// Edges reaching behind the camera have no meaningful projection.
		if a.Z <= 0 || b.Z <= 0 {
			continue
		}
		w.drawSegment(a.X, a.Y, b.X, b.Y, color)
	}
}

// DrawObject draws the edges of every triangle of obj.
func (w *Wireframe) DrawObject(obj Object, color Color) {
	for _, tri := range obj.Triangles() {
		w.DrawTriangle(tri, color)
	}
}

// drawSegment clips the segment to the framebuffer and draws what is left.
func (w *Wireframe) drawSegment(ax, ay, bx, by float64, color Color) {
	ax, ay, bx, by, ok := clipSegment(ax, ay, bx, by, float64(w.fb.Width-1), float64(w.fb.Height-1))
	if !ok {
		return
	}
	w.fb.DrawLine(int(math.Floor(ax)), int(math.Floor(ay)), int(math.Floor(bx)), int(math.Floor(by)), color)
}

// clipSegment clips a segment to [0, maxX] x [0, maxY] (Liang-Barsky).
// ok is false when nothing of the segment is inside.
func clipSegment(ax, ay, bx, by, maxX, maxY float64) (cax, cay, cbx, cby float64, ok bool) {
	dx, dy := bx-ax, by-ay
	t0, t1 := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = math.Min(t1, t)
		}
		return true
	}

	if !clip(-dx, ax) || !clip(dx, maxX-ax) || !clip(-dy, ay) || !clip(dy, maxY-ay) {
		return 0, 0, 0, 0, false
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		return 0, 0, 0, 0, false
	}

	return ax + t0*dx, ay + t0*dy, ax + t1*dx, ay + t1*dy, true
}
