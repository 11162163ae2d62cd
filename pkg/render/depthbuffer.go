package render

import "fmt"

// DepthBuffer records, per pixel, the distance of the nearest surface drawn
// so far. It is one-to-one with a Framebuffer of the same size.
type DepthBuffer struct {
	Width  int
	Height int
	Depth  []float64 // Row-major camera distances
}

// NewDepthBuffer creates a depth buffer with every pixel set to far. It
// panics if either dimension is negative.
func NewDepthBuffer(width, height int, far float64) *DepthBuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("render: negative depth buffer size %dx%d", width, height))
	}
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	d.Clear(far)
	return d
}

// Clear resets every pixel to far.
func (d *DepthBuffer) Clear(far float64) {
	n := len(d.Depth)
	if n == 0 {
		return
	}
	d.Depth[0] = far
	for i := 1; i < n; i *= 2 {
		copy(d.Depth[i:], d.Depth[:i])
	}
}

// At returns the depth at (x, y). Coordinates must be in range.
func (d *DepthBuffer) At(x, y int) float64 {
	return d.Depth[y*d.Width+x]
}
