package display

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/turntable/pkg/control"
)

// KeyTimeout releases a held key when the terminal sent no repeat for it.
// Most terminals only report presses, with auto-repeat while held.
const KeyTimeout = 600 * time.Millisecond

var (
	hudTopColor    = color.RGBA{R: 0, G: 255, B: 128, A: 255}
	hudBottomColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Terminal is a Surface that renders into the terminal with half-block
// cells, giving two pixels per cell vertically.
type Terminal struct {
	term *uv.Terminal

	mu         sync.Mutex
	cols, rows int
	top        string
	bottom     string
}

// NewTerminal creates a surface on stdin/stdout. Call Start before use.
func NewTerminal() *Terminal {
	return &Terminal{term: uv.DefaultTerminal()}
}

// Start switches to the alternate screen, hides the cursor and enables
// mouse reporting.
func (t *Terminal) Start() error {
	cols, rows, err := t.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	t.term.EnterAltScreen()
	t.term.HideCursor()
	t.resize(cols, rows)

	fmt.Fprint(os.Stdout, "\x1b[?1002h") // button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	fmt.Fprint(os.Stdout, "\x1b[?1002l")
	fmt.Fprint(os.Stdout, "\x1b[?1006l")
	t.term.ExitAltScreen()
	t.term.ShowCursor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return t.term.Shutdown(ctx)
}

func (t *Terminal) resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cols, t.rows = cols, rows
	t.term.Erase()
	_ = t.term.Resize(cols, rows)
}

// Size returns the frame size: one pixel per column, two per row.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows * 2
}

// Commit draws the frame and the overlay, then flushes the changes.
func (t *Terminal) Commit(pix []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.cols, t.rows*2
	if len(pix) < width*height*4 {
		// A resize raced with this frame; the next one will match.
		return nil
	}
	DrawHalfBlocks(t.term, uv.Rect(0, 0, t.cols, t.rows), pix, width, height)
	t.drawOverlay()
	return t.term.Display()
}

// Annotate sets the HUD lines.
func (t *Terminal) Annotate(top, bottom string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.top, t.bottom = top, bottom
}

// Refresh redraws only the HUD lines.
func (t *Terminal) Refresh() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drawOverlay()
	return t.term.Display()
}

func (t *Terminal) drawOverlay() {
	if t.top != "" {
		drawText(t.term, 0, 0, t.top, hudTopColor)
	}
	if t.bottom != "" && t.rows > 1 {
		drawText(t.term, 0, t.rows-1, t.bottom, hudBottomColor)
	}
}

// Run forwards terminal input to sink until ctx is done or the event
// stream ends. Key releases are forwarded when the terminal reports them;
// otherwise the sink's key timeout ends a hold.
func (t *Terminal) Run(ctx context.Context, sink control.Sink) {
	events := t.term.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.handle(ev, sink)
		}
	}
}

func (t *Terminal) handle(ev uv.Event, sink control.Sink) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		t.resize(ev.Width, ev.Height)
	case uv.KeyPressEvent:
		if a, ok := KeyAction(uv.Key(ev)); ok {
			sink.Press(a, time.Now())
		}
	case uv.KeyReleaseEvent:
		if a, ok := KeyAction(uv.Key(ev)); ok {
			sink.Release(a)
		}
	case uv.MouseClickEvent:
		sink.Press(control.ActionZoom, time.Now())
	case uv.MouseReleaseEvent:
		sink.Release(control.ActionZoom)
	case uv.MouseMotionEvent:
		// Motion with a button down keeps the zoom hold alive.
		if ev.Button != uv.MouseNone {
			sink.Press(control.ActionZoom, time.Now())
		}
	}
}

// KeyAction maps a terminal key to an action.
func KeyAction(k uv.Key) (control.Action, bool) {
	switch {
	case k.MatchString("ctrl+c", "esc", "q"):
		return control.ActionQuit, true
	case k.MatchString("left", "a", "h"):
		return control.ActionLeft, true
	case k.MatchString("right", "d", "l"):
		return control.ActionRight, true
	case k.MatchString("up", "w", "k"):
		return control.ActionUp, true
	case k.MatchString("down", "s", "j"):
		return control.ActionDown, true
	case k.MatchString("z"):
		return control.ActionZoom, true
	case k.MatchString("x"):
		return control.ActionToggleWireframe, true
	case k.MatchString("c"):
		return control.ActionToggleChecker, true
	case k.MatchString("n", "space"):
		return control.ActionNextModel, true
	case k.MatchString("r"):
		return control.ActionReset, true
	case k.MatchString("?", "shift+/"):
		return control.ActionToggleHUD, true
	}
	return 0, false
}
