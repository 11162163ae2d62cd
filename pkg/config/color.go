package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/facet/pkg/render"
)

// Color is an opaque RGB colour read from a scene file. It accepts a CSS
// colour name ("steelblue"), hex ("#4682b4" or "#48b"), a comma separated
// "r, g, b" string, or in YAML a [r, g, b] sequence. Channels are 0-255.
type Color render.Color

// ParseColor parses the string forms accepted by Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty colour")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return Color(render.RGB(r, g, b)), nil
	}

	if strings.Contains(s, ",") {
		return parseTriple(strings.Split(s, ","))
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Color(render.RGB(c.R, c.G, c.B)), nil
	}
	return Color{}, fmt.Errorf("unknown colour %q", s)
}

func parseTriple(parts []string) (Color, error) {
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("colour needs 3 channels, got %d", len(parts))
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Color{}, fmt.Errorf("colour channel %q: %w", p, err)
		}
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("colour channel %d outside [0, 255]", v)
		}
		ch[i] = uint8(v)
	}
	return Color(render.RGB(ch[0], ch[1], ch[2])), nil
}

// RGB returns the colour as a frame buffer colour.
func (c Color) RGB() render.Color {
	return render.Color(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// UnmarshalText implements encoding.TextUnmarshaler, used for TOML strings
// and command line flags.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalYAML accepts a scalar string or a three element sequence.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return c.UnmarshalText([]byte(value.Value))
	case yaml.SequenceNode:
		parts := make([]string, len(value.Content))
		for i, n := range value.Content {
			parts[i] = n.Value
		}
		parsed, err := parseTriple(parts)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = parsed
		return nil
	}
	return fmt.Errorf("line %d: colour must be a string or [r, g, b]", value.Line)
}

// Set implements pflag.Value so a Color can be a command line flag.
func (c *Color) Set(s string) error {
	return c.UnmarshalText([]byte(s))
}

// Type implements pflag.Value.
func (c *Color) Type() string {
	return "color"
}
