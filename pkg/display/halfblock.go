package display

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, so each cell shows two vertically stacked pixels.
const upperHalf = "▀"

// DrawHalfBlocks paints an RGBA frame of width x height pixels onto scr
// inside area. Terminal row r shows pixel rows 2r and 2r+1.
func DrawHalfBlocks(scr uv.Screen, area uv.Rectangle, pix []byte, width, height int) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= height {
			break
		}
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= width {
				break
			}

			cell := &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style: uv.Style{
					Fg: pixelAt(pix, width, height, x, topY),
					Bg: pixelAt(pix, width, height, x, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// pixelAt returns the pixel as a color, or nil (terminal default) when it
// is outside the frame or fully transparent.
func pixelAt(pix []byte, width, height, x, y int) color.Color {
	if y >= height {
		return nil
	}
	i := (y*width + x) * 4
	if i+3 >= len(pix) || pix[i+3] == 0 {
		return nil
	}
	return color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
}

// drawText writes s starting at (x, y) with a dark background, clipped to
// the screen bounds.
func drawText(scr uv.Screen, x, y int, s string, fg color.Color) {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	style := uv.Style{Fg: fg, Bg: color.RGBA{A: 255}, Attrs: uv.AttrBold}
	for _, r := range s {
		if x >= bounds.Max.X {
			return
		}
		if x >= bounds.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
}
