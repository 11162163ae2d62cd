package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
)

// objDecoder holds the state of one pass over a Wavefront OBJ stream.
// Vertex positions are global to the file; each object gets its own arena
// and a map from global to local indices.
type objDecoder struct {
	positions []math3d.Vec3
	colors    []math3d.Vec3
	objects   []*objObject
	current   *objObject
	line      int
}

type objObject struct {
	obj   *Object
	local map[int]int
}

func newOBJObject(name string) *objObject {
	return &objObject{obj: New(name), local: make(map[int]int)}
}

// DecodeOBJ parses a Wavefront OBJ stream into one Object per "o" block,
// in file order. Supported statements are "o", "v" (with optional r g b
// in [0, 1]) and "f" (i, i/t, i//n or i/t/n, negative indices relative to
// the last vertex, polygons fan-triangulated). Other statements are
// ignored. Faces before the first "o" go to an object named "default".
func DecodeOBJ(r io.Reader) ([]*Object, error) {
	dec := &objDecoder{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		dec.line++
		if err := dec.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("obj line %d: %w", dec.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	objects := make([]*Object, len(dec.objects))
	for i, o := range dec.objects {
		objects[i] = o.obj
	}
	return objects, nil
}

func (dec *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "o":
		return dec.parseObject(fields[1:])
	case "v":
		return dec.parseVertex(fields[1:])
	case "f":
		return dec.parseFace(fields[1:])
	case "vn", "vt", "g", "s", "usemtl", "mtllib":
		// Normals, texture coordinates, groups and materials play no part
		// in flat colour rendering.
		return nil
	}
	logging.Logger().Warn("unsupported obj statement", "line", dec.line, "statement", fields[0])
	return nil
}

// parseObject handles "o <name>".
func (dec *objDecoder) parseObject(fields []string) error {
	if len(fields) < 1 {
		return errors.New("object statement with no name")
	}
	dec.current = newOBJObject(strings.Join(fields, " "))
	dec.objects = append(dec.objects, dec.current)
	return nil
}

// parseVertex handles "v x y z [w]" and "v x y z r g b".
func (dec *objDecoder) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("vertex with %d coordinates", len(fields))
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return err
	}

	pos := math3d.V3(vals[0], vals[1], vals[2])
	var color math3d.Vec3
	if len(vals) >= 6 {
		color = math3d.V3(vals[3], vals[4], vals[5]).Scale(255)
	}
	dec.positions = append(dec.positions, pos)
	dec.colors = append(dec.colors, color)

	if dec.current != nil {
		dec.current.use(len(dec.positions)-1, dec)
	}
	return nil
}

// parseFace handles "f v1[/vt1][/vn1] v2... v3...".
func (dec *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face with %d vertices", len(fields))
	}
	if dec.current == nil {
		dec.current = newOBJObject("default")
		dec.objects = append(dec.objects, dec.current)
	}

	idx := make([]int, len(fields))
	for i, f := range fields {
		g, err := dec.resolveIndex(f)
		if err != nil {
			return err
		}
		idx[i] = dec.current.use(g, dec)
	}

	for k := 2; k < len(idx); k++ {
		if err := dec.current.obj.AddTriangle(idx[0], idx[k-1], idx[k]); err != nil {
			return err
		}
	}
	return nil
}

// resolveIndex turns the position part of a face field into a zero-based
// global vertex index.
func (dec *objDecoder) resolveIndex(field string) (int, error) {
	head, _, _ := strings.Cut(field, "/")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", field, err)
	}

	var g int
	switch {
	case n > 0:
		g = n - 1
	case n < 0:
		g = len(dec.positions) + n
	default:
		return 0, fmt.Errorf("face index 0: %w", ErrIndexOutOfRange)
	}
	if g < 0 || g >= len(dec.positions) {
		return 0, fmt.Errorf("face index %d with %d vertices: %w", n, len(dec.positions), ErrIndexOutOfRange)
	}
	return g, nil
}

// use returns the object's local index for global vertex g, copying the
// vertex into the object's arena on first use.
func (o *objObject) use(g int, dec *objDecoder) int {
	if i, ok := o.local[g]; ok {
		return i
	}
	i := o.obj.AddColoredVertex(dec.positions[g], dec.colors[g])
	o.local[g] = i
	return i
}

func parseFloats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// LoadOBJAll reads every object from an OBJ file.
func LoadOBJAll(path string) ([]*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	objects, err := DecodeOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for _, o := range objects {
		logging.Logger().Debug("loaded object",
			"path", path,
			"name", o.Name(),
			"vertices", o.VertexCount(),
			"triangles", o.TriangleCount(),
		)
	}
	return objects, nil
}

// LoadOBJ reads the object called name from an OBJ file.
func LoadOBJ(path, name string) (*Object, error) {
	objects, err := LoadOBJAll(path)
	if err != nil {
		return nil, err
	}
	o, err := Find(objects, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// Find returns the first object called name.
func Find(objects []*Object, name string) (*Object, error) {
	for _, o := range objects {
		if o.Name() == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrObjectNotFound)
}
