package viewer

import (
	"fmt"
	"time"

	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/render"
)

// hud tracks the frame rate shown in the overlay.
type hud struct {
	fps     float64
	frames  int
	started time.Time
}

// tick counts a frame and updates the rate once per second.
func (h *hud) tick(now time.Time) {
	if h.started.IsZero() {
		h.started = now
		return
	}
	h.frames++
	if elapsed := now.Sub(h.started); elapsed >= time.Second {
		h.fps = float64(h.frames) / elapsed.Seconds()
		h.frames = 0
		h.started = now
	}
}

func (h *hud) top(sw *assets.Switcher, p *render.Pipeline) string {
	name := sw.Entry().DisplayName()
	if sw.State() == assets.StateLoading {
		return fmt.Sprintf(" %.0f FPS  %s (loading) ", h.fps, name)
	}
	return fmt.Sprintf(" %.0f FPS  %s  %d tris ", h.fps, name, p.TriangleCount())
}

func (h *hud) bottom(wireframe, checker bool) string {
	return fmt.Sprintf(" %s X-ray  %s checker  N next  R reset  ? hud ", box(wireframe), box(checker))
}

func box(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
