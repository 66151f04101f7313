package display

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// ErrUnsupportedFormat is returned by Save for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// ErrNoFrame is returned by Save before the first Commit.
var ErrNoFrame = errors.New("no frame committed")

// Snapshot is a headless Surface of fixed size that keeps the last
// committed frame.
type Snapshot struct {
	width, height int
	frame         []byte
	frames        int
}

// NewSnapshot creates a width x height snapshot surface.
func NewSnapshot(width, height int) *Snapshot {
	return &Snapshot{
		width:  width,
		height: height,
		frame:  make([]byte, width*height*4),
	}
}

// Size returns the fixed frame size.
func (s *Snapshot) Size() (width, height int) {
	return s.width, s.height
}

// Commit copies the frame.
func (s *Snapshot) Commit(pix []byte) error {
	if len(pix) != len(s.frame) {
		return fmt.Errorf("snapshot commit: got %d bytes, want %d", len(pix), len(s.frame))
	}
	copy(s.frame, pix)
	s.frames++
	return nil
}

// Frames returns the number of frames committed.
func (s *Snapshot) Frames() int {
	return s.frames
}

// Image returns a copy of the last frame.
func (s *Snapshot) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.frame)
	return img
}

// Save writes the last frame to path as lossless WebP or PNG, chosen by
// extension.
func (s *Snapshot) Save(path string) error {
	if s.frames == 0 {
		return ErrNoFrame
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".webp" && ext != ".png" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	img := s.Image()
	switch ext {
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", path, err)
	}
	return f.Close()
}
