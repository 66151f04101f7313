// Package window presents frames in a desktop window through ebiten and
// forwards keyboard and mouse input. It is kept apart from the display
// package because ebiten needs cgo on most platforms.
package window

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/turntable/pkg/control"
)

// Config describes the window.
type Config struct {
	Title  string
	Width  int // frame width in pixels
	Height int // frame height in pixels
	Scale  int // window pixels per frame pixel
	TPS    int // ticks per second
}

type binding struct {
	key    ebiten.Key
	action control.Action
}

var bindings = []binding{
	{ebiten.KeyArrowLeft, control.ActionLeft},
	{ebiten.KeyA, control.ActionLeft},
	{ebiten.KeyArrowRight, control.ActionRight},
	{ebiten.KeyD, control.ActionRight},
	{ebiten.KeyArrowUp, control.ActionUp},
	{ebiten.KeyW, control.ActionUp},
	{ebiten.KeyArrowDown, control.ActionDown},
	{ebiten.KeyS, control.ActionDown},
	{ebiten.KeyZ, control.ActionZoom},
	{ebiten.KeyX, control.ActionToggleWireframe},
	{ebiten.KeyC, control.ActionToggleChecker},
	{ebiten.KeyN, control.ActionNextModel},
	{ebiten.KeySpace, control.ActionNextModel},
	{ebiten.KeyR, control.ActionReset},
	{ebiten.KeySlash, control.ActionToggleHUD},
	{ebiten.KeyEscape, control.ActionQuit},
	{ebiten.KeyQ, control.ActionQuit},
}

// Window is a Surface backed by an ebiten window. Frames committed from
// the step callback are uploaded on the next Draw.
type Window struct {
	cfg Config

	mu             sync.Mutex
	width, height  int
	frame          []byte
	frameW, frameH int
	top, bottom    string
}

// New creates a window surface. Nothing is shown until Run.
func New(cfg Config) *Window {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	return &Window{cfg: cfg, width: cfg.Width, height: cfg.Height}
}

// Size returns the current frame size.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Commit copies the frame for the next Draw. A frame whose size no longer
// matches the window is dropped.
func (w *Window) Commit(pix []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(pix) != w.width*w.height*4 {
		return nil
	}
	if cap(w.frame) < len(pix) {
		w.frame = make([]byte, len(pix))
	}
	w.frame = w.frame[:len(pix)]
	copy(w.frame, pix)
	w.frameW, w.frameH = w.width, w.height
	return nil
}

// Annotate sets the overlay lines.
func (w *Window) Annotate(top, bottom string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.top, w.bottom = top, bottom
}

// Refresh is a no-op: the overlay is redrawn every Draw.
func (w *Window) Refresh() error { return nil }

// Run opens the window and blocks until it is closed, ctx is done, or step
// fails. step runs once per tick after input has been forwarded to sink.
func (w *Window) Run(ctx context.Context, sink control.Sink, step func(now time.Time) error) error {
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowSize(w.cfg.Width*w.cfg.Scale, w.cfg.Height*w.cfg.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.cfg.TPS)

	g := &game{w: w, ctx: ctx, sink: sink, step: step}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	w    *Window
	ctx  context.Context
	sink control.Sink
	step func(now time.Time) error
	img  *ebiten.Image
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	now := time.Now()
	for _, b := range bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.sink.Press(b.action, now)
		}
		if inpututil.IsKeyJustReleased(b.key) {
			g.sink.Release(b.action)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.sink.Press(control.ActionZoom, now)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.sink.Release(control.ActionZoom)
	}

	return g.step(now)
}

func (g *game) Draw(screen *ebiten.Image) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.frame == nil {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != w.frameW || g.img.Bounds().Dy() != w.frameH {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w.frameW, w.frameH)
	}
	g.img.WritePixels(w.frame)
	screen.DrawImage(g.img, nil)

	if w.top != "" {
		ebitenutil.DebugPrintAt(screen, w.top, 2, 0)
	}
	if w.bottom != "" {
		ebitenutil.DebugPrintAt(screen, w.bottom, 2, w.frameH-16)
	}
}

// Layout makes the frame follow the window size at the configured scale.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()

	w.width = max(1, outsideWidth/w.cfg.Scale)
	w.height = max(1, outsideHeight/w.cfg.Scale)
	return w.width, w.height
}
