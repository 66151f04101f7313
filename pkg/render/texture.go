package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrEmptyTexture is returned for images with no pixels.
var ErrEmptyTexture = errors.New("texture has no pixels")

// Texture holds an immutable RGBA image for nearest-neighbour sampling.
type Texture struct {
	Width  int
	Height int
	Pix    []byte // Row-major RGBA, 4 bytes per texel
}

// NewTexture creates a transparent texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// LoadTexture decodes an image file. The decoder is chosen by extension
// (PNG, JPEG, GIF, BMP, TIFF, WebP and TGA). Images larger than maxSize on
// either side are downscaled to fit; maxSize <= 0 disables scaling.
func LoadTexture(path string, maxSize int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, err := DecodeImage(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}

	return TextureFromImage(img, maxSize)
}

// DecodeTexture decodes in-memory image data, for example an image embedded
// in a model file. hint is a file extension or MIME type.
func DecodeTexture(data []byte, hint string, maxSize int) (*Texture, error) {
	img, err := DecodeImage(bytes.NewReader(data), hint)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return TextureFromImage(img, maxSize)
}

// DecodeImage decodes r with the decoder named by hint, a file extension
// (".png") or MIME type ("image/png"). Unknown hints fall back to
// image.Decode.
//
// TGA has no magic number, so it can only be selected by hint.
func DecodeImage(r io.Reader, hint string) (image.Image, error) {
	switch strings.ToLower(hint) {
	case ".png", "image/png":
		return png.Decode(r)
	case ".jpg", ".jpeg", "image/jpeg":
		return jpeg.Decode(r)
	case ".gif", "image/gif":
		return gif.Decode(r)
	case ".bmp", "image/bmp":
		return bmp.Decode(r)
	case ".tif", ".tiff", "image/tiff":
		return tiff.Decode(r)
	case ".webp", "image/webp":
		return webp.Decode(r)
	case ".tga", "image/x-tga":
		return tga.Decode(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// TextureFromImage converts an image to a Texture, downscaling it with
// Catmull-Rom filtering when either side exceeds maxSize.
func TextureFromImage(img image.Image, maxSize int) (*Texture, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyTexture
	}

	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}

	// Straight (non-premultiplied) alpha; the shader ignores alpha anyway.
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}

	return &Texture{Width: w, Height: h, Pix: dst.Pix}, nil
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.SetPixel(0, 0, c)
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a texel. Out of range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	i := (y*t.Width + x) * 4
	t.Pix[i] = c.R
	t.Pix[i+1] = c.G
	t.Pix[i+2] = c.B
	t.Pix[i+3] = c.A
}

// Sample returns the texel nearest to (u, v). u and v map [0,1] across the
// image with v=0 on the first row; values outside that range are clamped to
// the edge texels.
func (t *Texture) Sample(u, v float64) Color {
	x := clampIndex(math.Floor(u*float64(t.Width)), t.Width)
	y := clampIndex(math.Floor(v*float64(t.Height)), t.Height)

	i := (y*t.Width + x) * 4
	return Color{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: t.Pix[i+3]}
}

// clampIndex clamps a floored coordinate to [0, n-1]. NaN maps to 0.
func clampIndex(f float64, n int) int {
	if !(f > 0) {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}
