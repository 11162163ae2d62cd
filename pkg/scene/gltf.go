package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
)

// LoadGLTF loads a glTF or GLB file and returns one Object per mesh.
// Node transforms are not applied.
func LoadGLTF(path string) ([]*Object, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	objects, err := DecodeGLTF(doc)
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

// DecodeGLTF converts the triangle primitives of every mesh in doc. Vertex
// colours come from COLOR_0 when present and are black otherwise.
func DecodeGLTF(doc *gltf.Document) ([]*Object, error) {
	objects := make([]*Object, 0, len(doc.Meshes))
	for i, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", i)
		}
		o := New(name)
		if err := processMesh(doc, m, o); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", name, err)
		}
		objects = append(objects, o)
	}
	return objects, nil
}

// processMesh appends the geometry of every triangle primitive of m to o.
func processMesh(doc *gltf.Document, m *gltf.Mesh, o *Object) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			logging.Logger().Warn("skipping non-triangle primitive", "mesh", o.Name(), "mode", prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			logging.Logger().Warn("skipping primitive without positions", "mesh", o.Name())
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var colors []math3d.Vec3
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColorAccessor(doc, colIdx)
			if err != nil {
				return fmt.Errorf("read colours: %w", err)
			}
		}

		base := o.VertexCount()
		for i, p := range positions {
			var c math3d.Vec3
			if i < len(colors) {
				c = colors[i]
			}
			o.AddColoredVertex(p, c)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				if err := o.AddTriangle(base+indices[i], base+indices[i+1], base+indices[i+2]); err != nil {
					return err
				}
			}
		} else {
			// No indices: consecutive vertex triples.
			for i := 0; i+2 < len(positions); i += 3 {
				if err := o.AddTriangle(base+i, base+i+1, base+i+2); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// accessorView locates an accessor's elements in its buffer.
type accessorView struct {
	data   []byte
	start  int
	stride int
	count  int
	ctype  gltf.ComponentType
	norm   bool
}

func (v accessorView) component(i, j int) float64 {
	size := componentSize(v.ctype)
	b := v.data[v.start+i*v.stride+j*size:]
	switch v.ctype {
	case gltf.ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case gltf.ComponentUbyte:
		x := float64(b[0])
		if v.norm {
			x /= math.MaxUint8
		}
		return x
	case gltf.ComponentUshort:
		x := float64(binary.LittleEndian.Uint16(b))
		if v.norm {
			x /= math.MaxUint16
		}
		return x
	case gltf.ComponentUint:
		return float64(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentUbyte, gltf.ComponentByte:
		return 1
	case gltf.ComponentUshort, gltf.ComponentShort:
		return 2
	default:
		return 4
	}
}

func componentsOf(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	}
	return 0
}

// readAccessor resolves an accessor to its buffer bytes and checks that
// every element lies inside the buffer.
func readAccessor(doc *gltf.Document, accessorIdx int) (accessorView, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return accessorView{}, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexOutOfRange)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return accessorView{}, errors.New("accessor has no buffer view")
	}

	viewIdx := int(*accessor.BufferView)
	if viewIdx < 0 || viewIdx >= len(doc.BufferViews) || doc.BufferViews[viewIdx] == nil {
		return accessorView{}, fmt.Errorf("buffer view %d: %w", viewIdx, ErrIndexOutOfRange)
	}
	bufferView := doc.BufferViews[viewIdx]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) || doc.Buffers[bufferView.Buffer] == nil {
		return accessorView{}, fmt.Errorf("buffer %d: %w", bufferView.Buffer, ErrIndexOutOfRange)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return accessorView{}, errors.New("buffer has no data")
	}

	comps := componentsOf(accessor.Type)
	if comps == 0 {
		return accessorView{}, fmt.Errorf("unsupported accessor type %v", accessor.Type)
	}
	elemSize := comps * componentSize(accessor.ComponentType)

	v := accessorView{
		data:   buffer.Data,
		start:  bufferView.ByteOffset + accessor.ByteOffset,
		stride: bufferView.ByteStride,
		count:  accessor.Count,
		ctype:  accessor.ComponentType,
		norm:   accessor.Normalized,
	}
	if v.stride == 0 {
		v.stride = elemSize
	}
	if v.start < 0 || v.stride < 0 || v.count < 0 {
		return accessorView{}, fmt.Errorf("accessor %d has a negative layout", accessorIdx)
	}
	if v.count > 0 {
		if end := v.start + (v.count-1)*v.stride + elemSize; end > len(v.data) {
			return accessorView{}, fmt.Errorf("accessor %d reads past end of buffer (%d > %d)", accessorIdx, end, len(v.data))
		}
	}
	return v, nil
}

// readVec3Accessor reads float VEC3 data.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	v, err := readAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	result := make([]math3d.Vec3, v.count)
	for i := range v.count {
		result[i] = math3d.V3(v.component(i, 0), v.component(i, 1), v.component(i, 2))
	}
	return result, nil
}

// readColorAccessor reads COLOR_0 as 0-255 channels. Alpha is dropped.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	v, err := readAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 && accessor.Type != gltf.AccessorVec4 {
		return nil, fmt.Errorf("expected VEC3 or VEC4, got %v", accessor.Type)
	}
	switch accessor.ComponentType {
	case gltf.ComponentFloat:
	case gltf.ComponentUbyte, gltf.ComponentUshort:
		if !accessor.Normalized {
			return nil, errors.New("integer colours must be normalized")
		}
	default:
		return nil, fmt.Errorf("unsupported colour component type %v", accessor.ComponentType)
	}

	result := make([]math3d.Vec3, v.count)
	for i := range v.count {
		result[i] = math3d.V3(v.component(i, 0), v.component(i, 1), v.component(i, 2)).Scale(255)
	}
	return result, nil
}

// readIndices reads scalar ubyte, ushort or uint index data.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	v, err := readAccessor(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	if doc.Accessors[accessorIdx].Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", doc.Accessors[accessorIdx].Type)
	}

	switch v.ctype {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("unexpected index type %v", v.ctype)
	}

	result := make([]int, v.count)
	for i := range v.count {
		result[i] = int(v.component(i, 0))
	}
	return result, nil
}
