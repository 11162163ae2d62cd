package render

import (
	"image/color"
	"math"

	"github.com/taigrr/facet/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience. Frame buffer pixels are
// always opaque.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// ColorVec returns c as an unclamped colour vector with channels in [0, 255].
func ColorVec(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R), float64(c.G), float64(c.B))
}

// ClampColor converts a colour vector to an 8-bit color. Each channel is
// clamped to [0, 255] and rounded to the nearest integer; NaN maps to 0.
// Interpolation stays in floating point and this is applied once, at the
// frame buffer write.
func ClampColor(v math3d.Vec3) Color {
	return RGB(clampChannel(v.X), clampChannel(v.Y), clampChannel(v.Z))
}

func clampChannel(x float64) uint8 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return uint8(math.Round(x))
}
