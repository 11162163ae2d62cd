// Package scene provides the named, triangulated objects the facet
// renderer draws, and loaders that build them from OBJ and glTF files.
package scene

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

var (
	// ErrIndexOutOfRange is returned when a vertex index does not exist in
	// an object's vertex set.
	ErrIndexOutOfRange = errors.New("vertex index out of range")

	// ErrObjectNotFound is returned when a named object is not in a file.
	ErrObjectNotFound = errors.New("object not found")
)

// Object is a named set of vertices plus triangles that refer to them by
// index. A vertex is stored once however many triangles share it, so a
// colour edit is seen by all of them.
type Object struct {
	name     string
	vertices []render.Vertex
	faces    [][3]int
}

// New creates an empty object.
func New(name string) *Object {
	return &Object{name: name}
}

// Name returns the object's name.
func (o *Object) Name() string {
	return o.name
}

// AddVertex appends a black vertex at pos and returns its index.
func (o *Object) AddVertex(pos math3d.Vec3) int {
	o.vertices = append(o.vertices, render.Vertex{Position: pos})
	return len(o.vertices) - 1
}

// AddColoredVertex appends a vertex with colour channels in [0, 255] and
// returns its index.
func (o *Object) AddColoredVertex(pos, color math3d.Vec3) int {
	o.vertices = append(o.vertices, render.Vertex{Position: pos, Color: color})
	return len(o.vertices) - 1
}

// AddTriangle appends a triangle referring to three existing vertices.
func (o *Object) AddTriangle(a, b, c int) error {
	for _, i := range [3]int{a, b, c} {
		if i < 0 || i >= len(o.vertices) {
			return fmt.Errorf("triangle %d of %q: index %d: %w", len(o.faces), o.name, i, ErrIndexOutOfRange)
		}
	}
	o.faces = append(o.faces, [3]int{a, b, c})
	return nil
}

// VertexCount returns the number of vertices.
func (o *Object) VertexCount() int {
	return len(o.vertices)
}

// TriangleCount returns the number of triangles.
func (o *Object) TriangleCount() int {
	return len(o.faces)
}

// Vertex returns vertex i.
func (o *Object) Vertex(i int) (render.Vertex, error) {
	if i < 0 || i >= len(o.vertices) {
		return render.Vertex{}, fmt.Errorf("vertex %d of %q: %w", i, o.name, ErrIndexOutOfRange)
	}
	return o.vertices[i], nil
}

// Face returns the vertex indices of triangle i. It panics if i is out of
// range.
func (o *Object) Face(i int) [3]int {
	return o.faces[i]
}

// Triangles resolves every face into its three vertices. A face referring
// to a vertex that does not exist is a programming error and panics.
func (o *Object) Triangles() []render.Triangle {
	tris := make([]render.Triangle, len(o.faces))
	for i, f := range o.faces {
		for k, vi := range f {
			if vi < 0 || vi >= len(o.vertices) {
				panic(fmt.Sprintf("scene: object %q triangle %d refers to vertex %d of %d", o.name, i, vi, len(o.vertices)))
			}
			tris[i].V[k] = o.vertices[vi]
		}
	}
	return tris
}

// Clone returns a deep copy. The copy's triangles refer to its own vertex
// storage, so edits to one never show in the other.
func (o *Object) Clone() *Object {
	c := &Object{
		name:     o.name,
		vertices: make([]render.Vertex, len(o.vertices)),
		faces:    make([][3]int, len(o.faces)),
	}
	copy(c.vertices, o.vertices)
	copy(c.faces, o.faces)
	return c
}

// SetName renames the object.
func (o *Object) SetName(name string) {
	o.name = name
}

// SetColor sets every vertex to c.
func (o *Object) SetColor(c render.Color) {
	v := render.ColorVec(c)
	for i := range o.vertices {
		o.vertices[i].Color = v
	}
}

// SetVertexColor sets the colour of vertex i.
func (o *Object) SetVertexColor(i int, c render.Color) error {
	if i < 0 || i >= len(o.vertices) {
		return fmt.Errorf("set colour of vertex %d of %q: %w", i, o.name, ErrIndexOutOfRange)
	}
	o.vertices[i].Color = render.ColorVec(c)
	return nil
}

// VertexColor returns the colour of vertex i, clamped to 8-bit channels.
func (o *Object) VertexColor(i int) (render.Color, error) {
	if i < 0 || i >= len(o.vertices) {
		return render.Color{}, fmt.Errorf("colour of vertex %d of %q: %w", i, o.name, ErrIndexOutOfRange)
	}
	return render.ClampColor(o.vertices[i].Color), nil
}

// Bounds returns the world-space box around every vertex. It is empty for
// an object with no vertices.
func (o *Object) Bounds() math3d.AABB {
	b := math3d.EmptyAABB()
	for _, v := range o.vertices {
		b = b.Extend(v.Position)
	}
	return b
}

// Transform moves every vertex by m.
func (o *Object) Transform(m math3d.Mat4) {
	for i := range o.vertices {
		o.vertices[i].Position = m.MulPoint(o.vertices[i].Position)
	}
}

// Describe writes one line per vertex with its position and colour.
func (o *Object) Describe(w io.Writer) error {
	for _, v := range o.vertices {
		c := render.ClampColor(v.Color)
		if _, err := fmt.Fprintf(w, "Vertex: %v\tColour: (%d, %d, %d)\n", v.Position, c.R, c.G, c.B); err != nil {
			return err
		}
	}
	return nil
}

// String returns the Describe output.
func (o *Object) String() string {
	var sb strings.Builder
	_ = o.Describe(&sb)
	return sb.String()
}
