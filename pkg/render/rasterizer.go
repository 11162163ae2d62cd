package render

import (
	"math"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
)

// Vertex is a world-space position with a colour attribute. Colour channels
// are in [0, 255] and stay unclamped until written to the frame buffer.
type Vertex struct {
	Position math3d.Vec3
	Color    math3d.Vec3
}

// Triangle is three vertices in drawing order. Either winding is filled.
type Triangle struct {
	V [3]Vertex
}

// Object is anything the rasterizer can draw: a name and its triangles.
type Object interface {
	Name() string
	Triangles() []Triangle
}

// Stats counts what happened during a render.
type Stats struct {
	Triangles      int // Triangles submitted
	Rejected       int // Bounding box entirely outside the image
	Degenerate     int // Zero or undefined raster-space area
	PixelsCovered  int // Pixel centers inside a triangle
	PixelsWritten  int // Covered pixels that passed the depth test
	PixelsOccluded int // Covered pixels that failed the depth test
}

// Rasterizer fills triangles into a Framebuffer, resolving visibility with
// a DepthBuffer. It owns both buffers exclusively for the duration of a
// render and is not safe for concurrent use.
type Rasterizer struct {
	camera    *Camera
	fb        *Framebuffer
	depth     *DepthBuffer
	projector Projector
	Stats     Stats
}

// NewRasterizer creates a rasterizer drawing into fb as seen from camera.
// The depth buffer starts at the camera's far clipping plane.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
		depth:  NewDepthBuffer(fb.Width, fb.Height, camera.FarClippingPlane),
	}
	r.projector = NewProjector(camera, fb.Width, fb.Height)
	return r
}

// Reset prepares for a new render: it re-derives the projection from the
// camera's current parameters, clears the depth buffer to the far plane and
// zeroes the statistics. The frame buffer is left alone.
func (r *Rasterizer) Reset() {
	r.projector = NewProjector(r.camera, r.fb.Width, r.fb.Height)
	r.depth.Clear(r.camera.FarClippingPlane)
	r.Stats = Stats{}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	return r.fb.Height
}

// Framebuffer returns the colour target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Depth returns the depth buffer.
func (r *Rasterizer) Depth() *DepthBuffer {
	return r.depth
}

// edgeFunction returns the signed area of the parallelogram spanned by
// (a->p) and (a->b). Its sign tells which side of edge a->b the point p is on.
func edgeFunction(ax, ay, bx, by, px, py float64) float64 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

// signedArea is the edge function of v2 against edge v0->v1, twice the
// triangle's signed area in raster space.
func signedArea(v0, v1, v2 RasterVertex) float64 {
	return edgeFunction(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
}

// pixelWeights returns the barycentric weights of (px, py) in the triangle
// v0, v1, v2 whose signed area is area. Each weight is the edge function of
// the edge opposite that vertex divided by area, so the weights sum to 1 for
// either winding. inside reports whether the point is covered (points on an
// edge are); it is false for a zero-area triangle.
func pixelWeights(v0, v1, v2 RasterVertex, area, px, py float64) (bc math3d.Vec3, inside bool) {
	if area == 0 || math.IsNaN(area) {
		return math3d.Vec3{}, false
	}

	e0 := edgeFunction(v1.X, v1.Y, v2.X, v2.Y, px, py)
	e1 := edgeFunction(v2.X, v2.Y, v0.X, v0.Y, px, py)
	e2 := edgeFunction(v0.X, v0.Y, v1.X, v1.Y, px, py)
	if !covers(area, e0, e1, e2) {
		return math3d.Vec3{}, false
	}

	return math3d.V3(e0/area, e1/area, e2/area), true
}

// covers applies one orientation to all three edges at once: the point is
// covered when every edge value has the sign of the area, or is zero.
func covers(area, e0, e1, e2 float64) bool {
	if area < 0 {
		return e0 <= 0 && e1 <= 0 && e2 <= 0
	}
	return e0 >= 0 && e1 >= 0 && e2 >= 0
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// DrawTriangle projects and rasterizes a single triangle.
//
// Every pixel whose center lies inside the triangle is depth tested against
// the perspective-correct interpolated distance; if nearer than the stored
// depth, the depth is replaced and the colour, interpolated linearly in
// screen space, is written.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	r.Stats.Triangles++

	v0 := r.projector.Project(tri.V[0])
	v1 := r.projector.Project(tri.V[1])
	v2 := r.projector.Project(tri.V[2])

	xmin := min3(v0.X, v1.X, v2.X)
	ymin := min3(v0.Y, v1.Y, v2.Y)
	xmax := max3(v0.X, v1.X, v2.X)
	ymax := max3(v0.Y, v1.Y, v2.Y)

	// A vertex on the camera plane leaves NaN coordinates behind.
	if math.IsNaN(xmin) || math.IsNaN(ymin) || math.IsNaN(xmax) || math.IsNaN(ymax) {
		r.Stats.Degenerate++
		return
	}

	width, height := r.Width(), r.Height()
	if xmin > float64(width-1) || xmax < 0 || ymin > float64(height-1) || ymax < 0 {
		r.Stats.Rejected++
		return
	}

	// Clip to the image before converting so infinities never reach int.
	x0 := int(math.Max(0, math.Floor(xmin)))
	x1 := int(math.Min(float64(width-1), math.Floor(xmax)))
	y0 := int(math.Max(0, math.Floor(ymin)))
	y1 := int(math.Min(float64(height-1), math.Floor(ymax)))

	area := signedArea(v0, v1, v2)
	if area == 0 || math.IsNaN(area) {
		r.Stats.Degenerate++
		return
	}

	zbuffer := r.depth.Depth
	pixels := r.fb.Pixels

	for y := y0; y <= y1; y++ {
		rowOffset := y * width
		py := float64(y) + 0.5

		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5

			bc, inside := pixelWeights(v0, v1, v2, area, px, py)
			if !inside {
				continue
			}
			r.Stats.PixelsCovered++

			w0, w1, w2 := bc.X, bc.Y, bc.Z

			// Depth is hyperbolic in screen space: interpolate 1/z.
			oneOverZ := w0/v0.Z + w1/v1.Z + w2/v2.Z
			z := 1 / oneOverZ

			idx := rowOffset + x
			if !(z < zbuffer[idx]) {
				r.Stats.PixelsOccluded++
				continue
			}

			c := v0.Color.Scale(w0).Add(v1.Color.Scale(w1)).Add(v2.Color.Scale(w2))

			zbuffer[idx] = z
			pixels[idx] = ClampColor(c)
			r.Stats.PixelsWritten++
		}
	}
}

// DrawObject rasterizes every triangle of obj in order.
func (r *Rasterizer) DrawObject(obj Object) {
	for _, tri := range obj.Triangles() {
		r.DrawTriangle(tri)
	}
}

// DrawScene rasterizes objects in order, each fully before the next.
func (r *Rasterizer) DrawScene(objects ...Object) {
	for _, obj := range objects {
		r.DrawObject(obj)
	}
}

// Render draws objects as seen from camera into a new width x height frame
// buffer cleared to background. The depth buffer lives only for the call.
// width and height must not be negative; Render panics otherwise, and a zero
// dimension yields an empty frame buffer.
func Render(camera *Camera, width, height int, background Color, objects ...Object) (*Framebuffer, Stats) {
	fb := NewFramebuffer(width, height)
	fb.Clear(background)

	r := NewRasterizer(camera, fb)
	r.DrawScene(objects...)

	logging.Logger().Debug("render complete",
		"width", width,
		"height", height,
		"objects", len(objects),
		"triangles", r.Stats.Triangles,
		"rejected", r.Stats.Rejected,
		"degenerate", r.Stats.Degenerate,
		"pixels_written", r.Stats.PixelsWritten,
		"pixels_occluded", r.Stats.PixelsOccluded,
	)

	return fb, r.Stats
}
