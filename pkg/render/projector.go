package render

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// RasterVertex is a vertex projected into raster space.
type RasterVertex struct {
	X, Y  float64     // Pixel coordinates; fractional and possibly off-image
	Z     float64     // Positive distance in front of the camera
	Color math3d.Vec3 // Carried unchanged from the source vertex
}

// Projector maps world-space vertices to raster space for one camera and
// image size. Build it once per render.
type Projector struct {
	worldToCamera math3d.Mat4
	near          float64
	bounds        ScreenBounds
	width         float64
	height        float64
}

// NewProjector precomputes the world-to-camera transform and screen bounds.
func NewProjector(camera *Camera, width, height int) Projector {
	return Projector{
		worldToCamera: camera.WorldToCamera(),
		near:          camera.NearClippingPlane,
		bounds:        camera.ScreenBounds(),
		width:         float64(width),
		height:        float64(height),
	}
}

// Project converts a world-space vertex to raster space.
//
// Points on the camera's Z=0 plane divide by zero and points behind the
// camera mirror through it; neither is clipped.
func (p Projector) Project(v Vertex) RasterVertex {
	pCamera := p.worldToCamera.MulPoint(v.Position)

	// Perspective divide onto the near plane; the camera looks down -Z.
	screenX := pCamera.X / -pCamera.Z * p.near
	screenY := pCamera.Y / -pCamera.Z * p.near

	b := p.bounds
	ndcX := 2*screenX/(b.Right-b.Left) - (b.Right+b.Left)/(b.Right-b.Left)
	ndcY := 2*screenY/(b.Top-b.Bottom) - (b.Top+b.Bottom)/(b.Top-b.Bottom)

	// Raster Y grows downward while NDC Y grows upward.
	return RasterVertex{
		X:     (ndcX + 1) / 2 * p.width,
		Y:     (1 - ndcY) / 2 * p.height,
		Z:     -pCamera.Z,
		Color: v.Color,
	}
}

// WorldToRaster is a one-off convenience around NewProjector and Project.
func WorldToRaster(camera *Camera, v Vertex, width, height int) RasterVertex {
	return NewProjector(camera, width, height).Project(v)
}
