package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/facet/pkg/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want render.Color
	}{
		{"red", render.ColorRed},
		{"SteelBlue", render.RGB(70, 130, 180)},
		{"#1e1e28", render.RGB(0x1e, 0x1e, 0x28)},
		{"#fff", render.ColorWhite},
		{"30, 30, 40", render.RGB(30, 30, 40)},
		{" 0,255,0 ", render.ColorGreen},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseColor(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.RGB())
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "notacolour", "#zzzzzz", "1, 2", "1, 2, 300", "1, -2, 3", "a, b, c"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestColorYAML(t *testing.T) {
	var v struct {
		A Color `yaml:"a"`
		B Color `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: [10, 20, 30]\nb: navy\n"), &v))
	assert.Equal(t, render.RGB(10, 20, 30), v.A.RGB())
	assert.Equal(t, render.RGB(0, 0, 128), v.B.RGB())

	assert.Error(t, yaml.Unmarshal([]byte("a: [1, 2]\n"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("a: {r: 1}\n"), &v))
}

func TestColorText(t *testing.T) {
	c := Color(render.RGB(0x12, 0xab, 0x00))
	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#12ab00", string(text))

	var back Color
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, c, back)
}

func TestColorFlag(t *testing.T) {
	var c Color
	require.NoError(t, c.Set("blue"))
	assert.Equal(t, render.ColorBlue, c.RGB())
	assert.Equal(t, "color", c.Type())
	assert.Equal(t, "#0000ff", c.String())
}
