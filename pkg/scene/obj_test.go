package scene

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

var blocksPath = filepath.Join("testdata", "blocks.obj")

func TestLoadOBJ(t *testing.T) {
	o, err := LoadOBJ(blocksPath, "Block_1")
	require.NoError(t, err)

	assert.Equal(t, "Block_1", o.Name())
	assert.Equal(t, 8, o.VertexCount())
	// Six quads, each split into two triangles.
	assert.Equal(t, 12, o.TriangleCount())
	assert.Equal(t, [3]int{0, 1, 2}, o.Face(0))
	assert.Equal(t, [3]int{0, 2, 3}, o.Face(1))

	b := o.Bounds()
	assert.Equal(t, math3d.V3(-1, -1, -1), b.Min)
	assert.Equal(t, math3d.V3(1, 1, 1), b.Max)

	c, err := o.VertexColor(0)
	require.NoError(t, err)
	assert.Equal(t, render.ColorBlack, c)
}

func TestLoadOBJRemapsIndices(t *testing.T) {
	o, err := LoadOBJ(blocksPath, "Block_2")
	require.NoError(t, err)

	// Global vertices 9-12 become the object's 0-3.
	assert.Equal(t, 4, o.VertexCount())
	require.Equal(t, 2, o.TriangleCount())
	assert.Equal(t, [3]int{0, 1, 2}, o.Face(0))
	// Negative indices count back from the last vertex read.
	assert.Equal(t, [3]int{0, 2, 3}, o.Face(1))

	v, err := o.Vertex(0)
	require.NoError(t, err)
	assert.Equal(t, math3d.V3(2, -1, -1), v.Position)

	for i, want := range []render.Color{render.ColorRed, render.ColorGreen, render.ColorBlue, render.ColorWhite} {
		c, err := o.VertexColor(i)
		require.NoError(t, err)
		assert.Equal(t, want, c, "vertex %d", i)
	}
}

func TestLoadOBJNotFound(t *testing.T) {
	_, err := LoadOBJ(blocksPath, "Block_9")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJAll(filepath.Join("testdata", "missing.obj"))
	assert.Error(t, err)
}

func TestLoadOBJAll(t *testing.T) {
	objects, err := LoadOBJAll(blocksPath)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "Block_1", objects[0].Name())
	assert.Equal(t, "Block_2", objects[1].Name())
}

func TestDecodeOBJ(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		objects   []string
		vertices  []int
		triangles []int
	}{
		{
			name:      "faces without object",
			src:       "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n",
			objects:   []string{"default"},
			vertices:  []int{3},
			triangles: []int{1},
		},
		{
			name:      "pentagon fan",
			src:       "o P\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv -1 0.5 0\nf 1/1/1 2/2/2 3/3/3 4/4/4 5/5/5\n",
			objects:   []string{"P"},
			vertices:  []int{5},
			triangles: []int{3},
		},
		{
			name:      "object sharing earlier vertices",
			src:       "o A\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\no B\nf 1 3 2\n",
			objects:   []string{"A", "B"},
			vertices:  []int{3, 3},
			triangles: []int{1, 1},
		},
		{
			name:      "comments and unknown statements",
			src:       "# header\n\ng group\nvn 0 0 1\no A\nv 0 0 0 1\n",
			objects:   []string{"A"},
			vertices:  []int{1},
			triangles: []int{0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			objects, err := DecodeOBJ(strings.NewReader(tc.src))
			require.NoError(t, err)
			require.Len(t, objects, len(tc.objects))
			for i, o := range objects {
				assert.Equal(t, tc.objects[i], o.Name())
				assert.Equal(t, tc.vertices[i], o.VertexCount())
				assert.Equal(t, tc.triangles[i], o.TriangleCount())
			}
		})
	}
}

func TestDecodeOBJErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		index bool
	}{
		{"short vertex", "v 1 2\n", false},
		{"bad number", "v 1 x 2\n", false},
		{"short face", "v 0 0 0\nf 1 1\n", false},
		{"zero index", "v 0 0 0\nf 0 1 1\n", true},
		{"index past end", "v 0 0 0\nf 1 1 2\n", true},
		{"negative past start", "v 0 0 0\nf 1 1 -2\n", true},
		{"bad index", "v 0 0 0\nf 1 a 1\n", false},
		{"nameless object", "o\n", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeOBJ(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "obj line")
			if tc.index {
				assert.ErrorIs(t, err, ErrIndexOutOfRange)
			}
		})
	}
}

func TestFind(t *testing.T) {
	objects := []*Object{New("a"), New("b")}
	o, err := Find(objects, "b")
	require.NoError(t, err)
	assert.Same(t, objects[1], o)

	_, err = Find(objects, "c")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
