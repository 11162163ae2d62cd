package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalFramebufferSize returns the framebuffer dimensions that fill a
// terminal of cols x rows cells: each cell shows two pixel rows.
func TerminalFramebufferSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw paints the framebuffer into area of a terminal screen using upper
// half-block cells: the foreground is the top pixel and the background the
// pixel below it.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// cellColor maps transparent (out-of-range) pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
