// Package config reads facet scene descriptions: image size, background,
// camera, and the objects to draw. Files are YAML or TOML, chosen by
// extension.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/scene"
)

var (
	// ErrInvalidConfig is returned when a scene description fails validation.
	ErrInvalidConfig = errors.New("invalid scene config")

	// ErrUnknownFormat is returned for a config file extension that is
	// neither YAML nor TOML.
	ErrUnknownFormat = errors.New("unknown config format")
)

// Format is a scene file encoding.
type Format int

const (
	YAML Format = iota
	TOML
)

// Config is a complete scene description.
type Config struct {
	Image   ImageConfig    `yaml:"image" toml:"image"`
	Camera  CameraConfig   `yaml:"camera" toml:"camera"`
	Objects []ObjectConfig `yaml:"objects" toml:"objects"`
	Output  string         `yaml:"output,omitempty" toml:"output,omitempty"`

	// Dir resolves relative object sources. Load sets it to the config
	// file's directory.
	Dir string `yaml:"-" toml:"-"`
}

// ImageConfig sizes the output image.
type ImageConfig struct {
	Width      int   `yaml:"width" toml:"width"`
	Height     int   `yaml:"height" toml:"height"`
	Background Color `yaml:"background" toml:"background"`
}

// CameraConfig holds the camera's placement and lens. Rotation is Euler
// angles in degrees; lengths are in millimetres.
type CameraConfig struct {
	Position     [3]float64 `yaml:"position" toml:"position"`
	Rotation     [3]float64 `yaml:"rotation" toml:"rotation"`
	FocalLength  float64    `yaml:"focal_length" toml:"focal_length"`
	FilmAperture [2]float64 `yaml:"film_aperture" toml:"film_aperture"`
	Near         float64    `yaml:"near" toml:"near"`
	Far          float64    `yaml:"far" toml:"far"`
}

// ObjectConfig names one thing to draw: objects from a mesh file (all of
// them, or the one called Name), or a built-in Shape.
type ObjectConfig struct {
	Source       string           `yaml:"source,omitempty" toml:"source,omitempty"`
	Name         string           `yaml:"name,omitempty" toml:"name,omitempty"`
	Shape        string           `yaml:"shape,omitempty" toml:"shape,omitempty"`
	Size         float64          `yaml:"size,omitempty" toml:"size,omitempty"`
	Color        *Color           `yaml:"color,omitempty" toml:"color,omitempty"`
	VertexColors map[string]Color `yaml:"vertex_colors,omitempty" toml:"vertex_colors,omitempty"`
	Translate    [3]float64       `yaml:"translate,omitempty" toml:"translate,omitempty"`
}

// Default returns a 640x480 scene with a black background and the default
// camera at the origin.
func Default() *Config {
	cam := render.NewCamera()
	return &Config{
		Image: ImageConfig{
			Width:      640,
			Height:     480,
			Background: Color(render.ColorBlack),
		},
		Camera: CameraConfig{
			FocalLength:  cam.FocalLength,
			FilmAperture: [2]float64{cam.FilmApertureWidth, cam.FilmApertureHeight},
			Near:         cam.NearClippingPlane,
			Far:          cam.FarClippingPlane,
		},
	}
}

// FormatFromExt returns the Format for a file extension.
func FormatFromExt(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("extension %q: %w", ext, ErrUnknownFormat)
}

// Load reads and validates the scene file at path.
func Load(path string) (*Config, error) {
	format, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)

	logging.Logger().Debug("config loaded", "path", path, "objects", len(cfg.Objects))
	return cfg, nil
}

// Parse decodes a scene description over the defaults and validates it.
// Unknown keys are rejected.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %d: %w", format, ErrUnknownFormat)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the image size, the camera, and every object entry.
func (c *Config) Validate() error {
	var errs []error
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		errs = append(errs, fmt.Errorf("image size %dx%d must be positive", c.Image.Width, c.Image.Height))
	}
	if err := c.camera().Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, o := range c.Objects {
		if err := o.validate(); err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (o ObjectConfig) validate() error {
	switch {
	case o.Source == "" && o.Shape == "":
		return errors.New("needs a source or a shape")
	case o.Source != "" && o.Shape != "":
		return errors.New("has both a source and a shape")
	case o.Shape != "":
		if o.Shape != "cube" && o.Shape != "quad" {
			return fmt.Errorf("unknown shape %q", o.Shape)
		}
		if !(o.Size > 0) {
			return fmt.Errorf("shape size %v must be positive", o.Size)
		}
	}
	for k := range o.VertexColors {
		if i, err := strconv.Atoi(k); err != nil || i < 0 {
			return fmt.Errorf("vertex colour key %q is not a vertex index", k)
		}
	}
	return nil
}

func (c *Config) camera() *render.Camera {
	cc := c.Camera
	return &render.Camera{
		Position:           math3d.V3(cc.Position[0], cc.Position[1], cc.Position[2]),
		Rotation:           math3d.V3(cc.Rotation[0], cc.Rotation[1], cc.Rotation[2]),
		FocalLength:        cc.FocalLength,
		FilmApertureWidth:  cc.FilmAperture[0],
		FilmApertureHeight: cc.FilmAperture[1],
		NearClippingPlane:  cc.Near,
		FarClippingPlane:   cc.Far,
	}
}

// BuildCamera returns the configured camera.
func (c *Config) BuildCamera() (*render.Camera, error) {
	cam := c.camera()
	if err := cam.Validate(); err != nil {
		return nil, err
	}
	return cam, nil
}

// BuildObjects loads or generates every configured object and applies its
// colour edits and translation. Each mesh file is read once.
func (c *Config) BuildObjects() ([]*scene.Object, error) {
	cache := make(map[string][]*scene.Object)
	var out []*scene.Object

	for i, oc := range c.Objects {
		objs, err := c.buildObject(oc, cache)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		for _, o := range objs {
			if err := oc.apply(o); err != nil {
				return nil, fmt.Errorf("object %d (%s): %w", i, o.Name(), err)
			}
		}
		out = append(out, objs...)
	}
	return out, nil
}

func (c *Config) buildObject(oc ObjectConfig, cache map[string][]*scene.Object) ([]*scene.Object, error) {
	if oc.Shape != "" {
		name := oc.Name
		if name == "" {
			name = oc.Shape
		}
		switch oc.Shape {
		case "cube":
			return []*scene.Object{scene.NewCube(name, oc.Size, render.ColorBlack)}, nil
		case "quad":
			return []*scene.Object{scene.NewQuad(name, oc.Size, oc.Size, render.ColorBlack)}, nil
		}
		return nil, fmt.Errorf("unknown shape %q", oc.Shape)
	}

	path := oc.Source
	if !filepath.IsAbs(path) && c.Dir != "" {
		path = filepath.Join(c.Dir, path)
	}

	all, ok := cache[path]
	if !ok {
		var err error
		all, err = LoadMesh(path)
		if err != nil {
			return nil, err
		}
		cache[path] = all
	}

	// Entries sharing a file each get their own copies.
	if oc.Name != "" {
		o, err := scene.Find(all, oc.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", oc.Source, err)
		}
		return []*scene.Object{o.Clone()}, nil
	}
	out := make([]*scene.Object, len(all))
	for i, o := range all {
		out[i] = o.Clone()
	}
	return out, nil
}

func (oc ObjectConfig) apply(o *scene.Object) error {
	if oc.Color != nil {
		o.SetColor(oc.Color.RGB())
	}
	for k, c := range oc.VertexColors {
		i, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("vertex colour key %q: %w", k, err)
		}
		if err := o.SetVertexColor(i, c.RGB()); err != nil {
			return err
		}
	}
	if t := oc.Translate; t != [3]float64{} {
		o.Transform(math3d.Translate(math3d.V3(t[0], t[1], t[2])))
	}
	return nil
}

// LoadMesh reads every object from an OBJ, glTF or GLB file.
func LoadMesh(path string) ([]*scene.Object, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return scene.LoadOBJAll(path)
	case ".gltf", ".glb":
		return scene.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("mesh %s: unsupported extension %q", path, ext)
	}
}
