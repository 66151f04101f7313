// Package render implements the CPU rasterization pipeline for turntable:
// projection, culling, barycentric triangle filling with a depth buffer,
// texture sampling and Lambert shading into a raw RGBA frame buffer.
package render

import (
	"image"
	"math"
)

// Sink accepts a full RGBA frame in one call.
type Sink interface {
	Commit(pix []byte) error
}

// FrameBuffer owns the working color and depth buffers plus the templates
// they are reset from each frame.
//
// Color holds 4 bytes (RGBA) per pixel and Depth one float64 per pixel, both
// row-major with pixel (x, y) at index y*Width+x.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []byte
	Depth  []float64

	background    Color
	templateColor []byte
	templateDepth []float64
}

// NewFrameBuffer creates a frame buffer cleared to the given background.
func NewFrameBuffer(width, height int, background Color) *FrameBuffer {
	fb := &FrameBuffer{background: background}
	fb.allocate(width, height)
	return fb
}

// Resize reallocates all four buffers. It is a no-op when the size is
// unchanged.
func (fb *FrameBuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.allocate(width, height)
}

// SetBackground changes the clear color used by the next Reset.
func (fb *FrameBuffer) SetBackground(c Color) {
	fb.background = c
	fillColor(fb.templateColor, c)
}

// Background returns the clear color.
func (fb *FrameBuffer) Background() Color {
	return fb.background
}

func (fb *FrameBuffer) allocate(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	n := width * height

	fb.Width = width
	fb.Height = height
	fb.Color = make([]byte, n*4)
	fb.Depth = make([]float64, n)
	fb.templateColor = make([]byte, n*4)
	fb.templateDepth = make([]float64, n)

	fillColor(fb.templateColor, fb.background)
	fillDepth(fb.templateDepth, math.Inf(1))
	fb.Reset()
}

// Reset copies the templates over the working buffers.
func (fb *FrameBuffer) Reset() {
	copy(fb.Color, fb.templateColor)
	copy(fb.Depth, fb.templateDepth)
}

// Commit pushes the working color buffer to dst.
func (fb *FrameBuffer) Commit(dst Sink) error {
	return dst.Commit(fb.Color)
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *FrameBuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := (y*fb.Width + x) * 4
	fb.Color[i] = c.R
	fb.Color[i+1] = c.G
	fb.Color[i+2] = c.B
	fb.Color[i+3] = c.A
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *FrameBuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	i := (y*fb.Width + x) * 4
	return Color{R: fb.Color[i], G: fb.Color[i+1], B: fb.Color[i+2], A: fb.Color[i+3]}
}

// DepthAt returns the stored depth at (x, y), +Inf if out of bounds.
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.Depth[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// It ignores the depth buffer.
func (fb *FrameBuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
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

// ToImage copies the working color buffer into a standard Go image.
func (fb *FrameBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// fillColor fills an RGBA byte buffer by copy-doubling one pixel.
func fillColor(buf []byte, c Color) {
	if len(buf) < 4 {
		return
	}
	buf[0], buf[1], buf[2], buf[3] = c.R, c.G, c.B, c.A
	for i := 4; i < len(buf); i *= 2 {
		copy(buf[i:], buf[:i])
	}
}

// fillDepth fills a depth buffer by copy-doubling one value.
func fillDepth(buf []float64, v float64) {
	if len(buf) == 0 {
		return
	}
	buf[0] = v
	for i := 1; i < len(buf); i *= 2 {
		copy(buf[i:], buf[:i])
	}
}
