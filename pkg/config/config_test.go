package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/scene"
)

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "scene.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Image.Width)
	assert.Equal(t, 100, cfg.Image.Height)
	assert.Equal(t, render.RGB(0x1e, 0x1e, 0x28), cfg.Image.Background.RGB())
	assert.Equal(t, "out.ppm", cfg.Output)
	assert.Equal(t, "testdata", cfg.Dir)

	cam, err := cfg.BuildCamera()
	require.NoError(t, err)
	assert.Equal(t, math3d.V3(0, 0, 10), cam.Position)
	assert.Equal(t, 14.0, cam.FilmApertureWidth)
	assert.Equal(t, 7.0, cam.FilmApertureHeight)
	assert.Equal(t, 100.0, cam.FarClippingPlane)

	objects, err := cfg.BuildObjects()
	require.NoError(t, err)
	require.Len(t, objects, 2)

	block := objects[0]
	assert.Equal(t, "Block_1", block.Name())
	c, err := block.VertexColor(0)
	require.NoError(t, err)
	assert.Equal(t, render.ColorRed, c)
	c, err = block.VertexColor(1)
	require.NoError(t, err)
	assert.Equal(t, render.ColorBlue, c)

	floor := objects[1]
	assert.Equal(t, "floor", floor.Name())
	b := floor.Bounds()
	assert.Equal(t, math3d.V3(-2, -4, -3), b.Min)
	assert.Equal(t, math3d.V3(2, 0, -3), b.Max)
	c, err = floor.VertexColor(0)
	require.NoError(t, err)
	assert.Equal(t, render.RGB(0, 100, 0), c)
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "scene.toml"))
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Image.Width)
	assert.Equal(t, render.RGB(30, 30, 40), cfg.Image.Background.RGB())
	assert.Equal(t, 50.0, cfg.Camera.FocalLength)
	assert.Equal(t, 0.5, cfg.Camera.Near)
	// Unset keys keep their defaults.
	assert.Equal(t, [3]float64{}, cfg.Camera.Rotation)

	objects, err := cfg.BuildObjects()
	require.NoError(t, err)
	// Both blocks from the file, then the cube.
	require.Len(t, objects, 3)
	assert.Equal(t, "Block_1", objects[0].Name())
	assert.Equal(t, "Block_2", objects[1].Name())
	assert.Equal(t, "cube", objects[2].Name())

	c, err := objects[1].VertexColor(3)
	require.NoError(t, err)
	assert.Equal(t, render.RGB(0xff, 0x88, 0x00), c)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "scene.json"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, YAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cam, err := cfg.BuildCamera()
	require.NoError(t, err)
	assert.Equal(t, render.NewCamera(), cam)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("image:\n  depth: 3\n"), YAML)
	assert.Error(t, err)

	_, err = Parse([]byte("[image]\ndepth = 3\n"), TOML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"zero width", "image: {width: 0}"},
		{"negative height", "image: {height: -1}"},
		{"zero focal length", "camera: {focal_length: 0}"},
		{"zero aperture", "camera: {film_aperture: [0, 24]}"},
		{"near beyond far", "camera: {near: 10, far: 5}"},
		{"zero near", "camera: {near: 0}"},
		{"NaN camera position", "camera: {position: [.nan, 0, 0]}"},
		{"infinite camera rotation", "camera: {rotation: [0, .inf, 0]}"},
		{"empty object", "objects: [{}]"},
		{"source and shape", "objects: [{source: a.obj, shape: cube, size: 1}]"},
		{"unknown shape", "objects: [{shape: sphere, size: 1}]"},
		{"shape without size", "objects: [{shape: cube}]"},
		{"bad vertex key", "objects: [{shape: cube, size: 1, vertex_colors: {x: red}}]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), YAML)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("camera errors are wrapped", func(t *testing.T) {
		_, err := Parse([]byte("camera: {focal_length: -1}"), YAML)
		assert.ErrorIs(t, err, render.ErrInvalidCamera)
	})
}

func TestBuildObjectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Dir = "testdata"

	cfg.Objects = []ObjectConfig{{Source: "blocks.obj", Name: "Nope"}}
	_, err := cfg.BuildObjects()
	assert.ErrorIs(t, err, scene.ErrObjectNotFound)

	cfg.Objects = []ObjectConfig{{Shape: "cube", Size: 1, VertexColors: map[string]Color{"8": Color(render.ColorRed)}}}
	_, err = cfg.BuildObjects()
	assert.ErrorIs(t, err, scene.ErrIndexOutOfRange)

	cfg.Objects = []ObjectConfig{{Source: "blocks.stl"}}
	_, err = cfg.BuildObjects()
	assert.Error(t, err)
}

func TestBuildObjectsCopiesSharedFiles(t *testing.T) {
	cfg := Default()
	cfg.Dir = "testdata"
	red, blue := Color(render.ColorRed), Color(render.ColorBlue)
	cfg.Objects = []ObjectConfig{
		{Source: "blocks.obj", Name: "Block_1", Color: &red},
		{Source: "blocks.obj", Name: "Block_1", Color: &blue, Translate: [3]float64{5, 0, 0}},
	}

	objects, err := cfg.BuildObjects()
	require.NoError(t, err)
	require.Len(t, objects, 2)

	c, err := objects[0].VertexColor(0)
	require.NoError(t, err)
	assert.Equal(t, render.ColorRed, c)
	assert.Equal(t, -1.0, objects[0].Bounds().Min.X)
	assert.Equal(t, 4.0, objects[1].Bounds().Min.X)
}

func TestFormatFromExt(t *testing.T) {
	for ext, want := range map[string]Format{".yaml": YAML, ".YML": YAML, "toml": TOML} {
		got, err := FormatFromExt(ext)
		require.NoError(t, err, ext)
		assert.Equal(t, want, got, ext)
	}
	_, err := FormatFromExt(".ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExampleScenes(t *testing.T) {
	t.Run("blocks.yaml", func(t *testing.T) {
		cfg, err := Load(filepath.Join("..", "..", "examples", "blocks.yaml"))
		require.NoError(t, err)

		cam, err := cfg.BuildCamera()
		require.NoError(t, err)
		assert.Equal(t, math3d.V3(8.49, 15.41, 6.46), cam.Position)
		assert.Equal(t, math3d.V3(79, 0, 154.4), cam.Rotation)

		objects, err := cfg.BuildObjects()
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "Block_1", objects[0].Name())
		assert.Equal(t, 12, objects[0].TriangleCount())
		c, err := objects[0].VertexColor(7)
		require.NoError(t, err)
		assert.Equal(t, render.ColorBlue, c)
		assert.Equal(t, "Block_2", objects[1].Name())
	})

	t.Run("cube.toml", func(t *testing.T) {
		cfg, err := Load(filepath.Join("..", "..", "examples", "cube.toml"))
		require.NoError(t, err)
		assert.Equal(t, "cube.png", cfg.Output)

		objects, err := cfg.BuildObjects()
		require.NoError(t, err)
		require.Len(t, objects, 1)

		cube := objects[0]
		assert.Equal(t, 12, cube.TriangleCount())
		c, err := cube.VertexColor(0)
		require.NoError(t, err)
		assert.Equal(t, render.ColorRed, c)
		c, err = cube.VertexColor(6)
		require.NoError(t, err)
		assert.Equal(t, render.RGB(0, 255, 0), c)
		c, err = cube.VertexColor(1)
		require.NoError(t, err)
		assert.Equal(t, render.RGB(255, 165, 0), c)
	})
}
