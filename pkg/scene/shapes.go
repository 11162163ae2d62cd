package scene

import (
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

// cubeFaces lists two triangles per side over the corner order used by
// NewCube.
var cubeFaces = [12][3]int{
	{0, 1, 2}, {0, 2, 3}, // -Z
	{4, 6, 5}, {4, 7, 6}, // +Z
	{0, 4, 5}, {0, 5, 1}, // -Y
	{3, 2, 6}, {3, 6, 7}, // +Y
	{0, 3, 7}, {0, 7, 4}, // -X
	{1, 5, 6}, {1, 6, 2}, // +X
}

// NewCube creates an axis-aligned cube of edge length size centred on the
// origin: 8 shared vertices and 12 triangles, every vertex set to color.
func NewCube(name string, size float64, color render.Color) *Object {
	h := size / 2
	o := New(name)
	// Corners 0-3 are the back face (z = -h), 4-7 the front, same XY order.
	for _, z := range []float64{-h, h} {
		o.AddVertex(math3d.V3(-h, -h, z))
		o.AddVertex(math3d.V3(-h, h, z))
		o.AddVertex(math3d.V3(h, h, z))
		o.AddVertex(math3d.V3(h, -h, z))
	}
	o.faces = append(o.faces, cubeFaces[:]...)
	o.SetColor(color)
	return o
}

// NewQuad creates a width x height rectangle in the XY plane centred on the
// origin, facing +Z, as two triangles sharing a diagonal.
func NewQuad(name string, width, height float64, color render.Color) *Object {
	w, h := width/2, height/2
	o := New(name)
	o.AddVertex(math3d.V3(-w, -h, 0))
	o.AddVertex(math3d.V3(w, -h, 0))
	o.AddVertex(math3d.V3(w, h, 0))
	o.AddVertex(math3d.V3(-w, h, 0))
	o.faces = append(o.faces, [3]int{0, 1, 2}, [3]int{0, 2, 3})
	o.SetColor(color)
	return o
}
