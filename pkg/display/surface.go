// Package display holds the presentation surfaces the frame buffer is
// committed to: a terminal drawn with half-block cells and a headless
// snapshot writer. The desktop window lives in the window subpackage.
package display

// Surface is an addressable RGBA pixel target.
//
// Size reports the current frame size in pixels; it may change between
// frames when the surface is resized. Commit receives exactly Size's
// width*height*4 bytes of row-major RGBA and must not retain pix.
type Surface interface {
	Size() (width, height int)
	Commit(pix []byte) error
}

// Annotator is implemented by surfaces that can draw a text overlay on top
// of the frame.
type Annotator interface {
	// Annotate sets the overlay lines shown with the next frame. Empty
	// strings clear a line.
	Annotate(top, bottom string)

	// Refresh redraws the overlay without committing a new frame.
	Refresh() error
}
