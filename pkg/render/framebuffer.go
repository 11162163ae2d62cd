// Package render implements the facet rendering pipeline: a lens-based
// camera, world-to-raster projection, and a depth-buffered triangle
// rasterizer writing into an RGB frame buffer.
package render

import (
	"fmt"
	"image"
)

// Framebuffer is a row-major grid of RGB pixels with the origin at the top
// left.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions, filled
// with opaque black. It panics if either dimension is negative.
func NewFramebuffer(width, height int) *Framebuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("render: negative framebuffer size %dx%d", width, height))
	}
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
	fb.Clear(ColorBlack)
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// RGB returns the pixels as a flat sequence of width*height RGB triples,
// row-major, 8 bits per channel.
func (fb *Framebuffer) RGB() []byte {
	out := make([]byte, 0, len(fb.Pixels)*3)
	for _, p := range fb.Pixels {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}
