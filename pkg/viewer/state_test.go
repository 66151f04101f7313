package viewer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/control"
	"github.com/taigrr/turntable/pkg/display"
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/render"
)

const frame = 16 * time.Millisecond

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// clock hands out frame timestamps.
type clock struct{ now time.Time }

func (c *clock) next() time.Time {
	if c.now.IsZero() {
		c.now = epoch
	}
	c.now = c.now.Add(frame)
	return c.now
}

// tickUntil ticks s until cond holds, giving async loads real time to land.
func tickUntil(t *testing.T, s *State, c *clock, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before deadline")
		}
		if err := s.Tick(c.next()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
}

func newBuiltinViewer(t *testing.T, surface display.Surface, opts Options) *State {
	t.Helper()
	l := assets.NewLoader(0)
	sw := assets.NewSwitcher(nil, l.LoadGeometry, l.LoadTexture, nil)
	s := New(surface, sw, opts, nil)
	t.Cleanup(s.Close)
	s.Start(context.Background())
	return s
}

func failingTextures(ctx context.Context, path string) (*render.Texture, error) {
	return nil, errors.New("no texture")
}

func TestTickRendersLoadedModel(t *testing.T) {
	snap := display.NewSnapshot(64, 48)
	s := newBuiltinViewer(t, snap, DefaultOptions())
	c := &clock{}

	tickUntil(t, s, c, func() bool { return snap.Frames() > 0 })

	stats := s.Stats()
	if stats.Triangles != 12 || stats.Culled != 10 || stats.Drawn != 2 {
		t.Errorf("stats = %+v, want 12 submitted, 10 culled, 2 drawn", stats)
	}

	img := snap.Image()
	if center := img.RGBAAt(32, 24); center == render.ColorBlack {
		t.Error("center pixel still background")
	}
	if corner := img.RGBAAt(0, 0); corner != render.ColorBlack {
		t.Errorf("corner pixel = %v, want background", corner)
	}
	if s.Committed() != snap.Frames() {
		t.Errorf("Committed() = %d, surface saw %d", s.Committed(), snap.Frames())
	}
}

func TestTickSkipsCommitWithoutTexture(t *testing.T) {
	snap := display.NewSnapshot(32, 32)
	l := assets.NewLoader(0)
	sw := assets.NewSwitcher(nil, l.LoadGeometry, failingTextures, nil)
	s := New(snap, sw, DefaultOptions(), nil)
	defer s.Close()
	s.Start(context.Background())

	c := &clock{}
	tickUntil(t, s, c, func() bool { return sw.State() == assets.StateIdle && sw.Mesh() != nil })
	for range 5 {
		if err := s.Tick(c.next()); err != nil {
			t.Fatal(err)
		}
	}
	if snap.Frames() != 0 {
		t.Errorf("committed %d frames without a texture", snap.Frames())
	}
	if s.LoadErr() == nil {
		t.Error("LoadErr() = nil after the texture load failed")
	}

	// The checker toggle supplies a texture.
	s.Press(control.ActionToggleChecker, c.now)
	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}
	if snap.Frames() != 1 {
		t.Errorf("checker mode committed %d frames, want 1", snap.Frames())
	}
}

func TestNextModel(t *testing.T) {
	snap := display.NewSnapshot(64, 48)
	s := newBuiltinViewer(t, snap, DefaultOptions())
	c := &clock{}
	tickUntil(t, s, c, func() bool { return snap.Frames() > 0 })

	s.Press(control.ActionNextModel, c.now)
	committed := s.Committed()
	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}

	tickUntil(t, s, c, func() bool { return s.Committed() > committed })
	if got := s.Stats().Triangles; got != 4 {
		t.Errorf("after switch Triangles = %d, want 4 (tetrahedron)", got)
	}

	// Wraps back to the cube.
	s.Press(control.ActionNextModel, c.now)
	committed = s.Committed()
	tickUntil(t, s, c, func() bool { return s.Committed() > committed })
	if got := s.Stats().Triangles; got != 12 {
		t.Errorf("after wrap Triangles = %d, want 12", got)
	}
}

func TestWireframeToggle(t *testing.T) {
	snap := display.NewSnapshot(64, 48)
	s := newBuiltinViewer(t, snap, DefaultOptions())
	c := &clock{}
	tickUntil(t, s, c, func() bool { return snap.Frames() > 0 })

	s.Press(control.ActionToggleWireframe, c.now)
	if wf, _, _ := s.Modes(); !wf {
		t.Fatal("wireframe not enabled")
	}
	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}
	if got := s.Stats().Drawn; got != 12 {
		t.Errorf("wireframe drew %d triangles, want 12", got)
	}

	img := snap.Image()
	green := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == render.ColorGreen.R && img.Pix[i+1] == render.ColorGreen.G && img.Pix[i+2] == render.ColorGreen.B {
			green++
		}
	}
	if green == 0 {
		t.Error("no wireframe pixels drawn")
	}
}

func TestHeldKeyRotatesModel(t *testing.T) {
	snap := display.NewSnapshot(32, 32)
	s := newBuiltinViewer(t, snap, DefaultOptions())
	c := &clock{}
	tickUntil(t, s, c, func() bool { return snap.Frames() > 0 })

	if s.Orientation() != math3d.QuatIdentity() {
		t.Fatal("model rotated without input")
	}

	s.Press(control.ActionLeft, c.now)
	for range 30 {
		if err := s.Tick(c.next()); err != nil {
			t.Fatal(err)
		}
	}
	s.Release(control.ActionLeft)

	q := s.Orientation()
	if q == math3d.QuatIdentity() || q.Y <= 0 {
		t.Errorf("orientation after holding left = %+v, want positive Y rotation", q)
	}

	s.Press(control.ActionReset, c.now)
	for range 600 {
		if err := s.Tick(c.next()); err != nil {
			t.Fatal(err)
		}
	}
	if s.Orientation() != math3d.QuatIdentity() {
		t.Errorf("orientation after reset = %+v", s.Orientation())
	}
}

func TestZoomHold(t *testing.T) {
	snap := display.NewSnapshot(16, 16)
	s := newBuiltinViewer(t, snap, DefaultOptions())
	c := &clock{}

	s.Press(control.ActionZoom, c.now)
	for range 120 {
		if err := s.Tick(c.next()); err != nil {
			t.Fatal(err)
		}
	}
	if z := s.Camera().Position.Z; z != control.MaxCameraZ {
		t.Errorf("camera Z while zooming = %v, want %v", z, control.MaxCameraZ)
	}

	s.Release(control.ActionZoom)
	for range 120 {
		if err := s.Tick(c.next()); err != nil {
			t.Fatal(err)
		}
	}
	if z := s.Camera().Position.Z; z != control.MinCameraZ {
		t.Errorf("camera Z after release = %v, want %v", z, control.MinCameraZ)
	}
}

func TestQuitAction(t *testing.T) {
	called := false
	opts := DefaultOptions()
	opts.OnQuit = func() { called = true }
	s := newBuiltinViewer(t, display.NewSnapshot(8, 8), opts)

	s.Press(control.ActionQuit, epoch)
	if !called {
		t.Error("OnQuit not called")
	}
}

// resizable is a surface whose size the test changes between frames. It
// also records the overlay.
type resizable struct {
	w, h     int
	lastLen  int
	top, bot string
	refresh  int
}

func (r *resizable) Size() (int, int)         { return r.w, r.h }
func (r *resizable) Commit(pix []byte) error  { r.lastLen = len(pix); return nil }
func (r *resizable) Annotate(top, bot string) { r.top, r.bot = top, bot }
func (r *resizable) Refresh() error           { r.refresh++; return nil }

func TestResizeAndHUD(t *testing.T) {
	surf := &resizable{w: 20, h: 10}
	opts := DefaultOptions()
	opts.ShowHUD = true
	s := newBuiltinViewer(t, surf, opts)
	c := &clock{}

	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}
	tickUntil(t, s, c, func() bool { return surf.lastLen > 0 })
	if surf.lastLen != 20*10*4 {
		t.Errorf("committed %d bytes, want %d", surf.lastLen, 20*10*4)
	}
	if !strings.Contains(surf.top, "cube") || !strings.Contains(surf.top, "12 tris") {
		t.Errorf("HUD top = %q", surf.top)
	}
	if !strings.Contains(surf.bot, "[ ] X-ray") {
		t.Errorf("HUD bottom = %q", surf.bot)
	}

	surf.w, surf.h = 30, 16
	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}
	if surf.lastLen != 30*16*4 {
		t.Errorf("after resize committed %d bytes, want %d", surf.lastLen, 30*16*4)
	}

	s.Press(control.ActionToggleHUD, c.now)
	if err := s.Tick(c.next()); err != nil {
		t.Fatal(err)
	}
	if surf.top != "" || surf.bot != "" {
		t.Errorf("HUD not cleared: %q / %q", surf.top, surf.bot)
	}
}

func TestOverlayRefreshedWhileLoading(t *testing.T) {
	surf := &resizable{w: 8, h: 8}
	block := make(chan struct{})
	defer close(block)
	geometry := func(ctx context.Context, path string) (*models.Mesh, error) {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil, ctx.Err()
	}
	sw := assets.NewSwitcher(nil, geometry, failingTextures, nil)
	opts := DefaultOptions()
	opts.ShowHUD = true
	s := New(surf, sw, opts, nil)
	defer s.Close()
	s.Start(context.Background())

	if err := s.Tick(epoch); err != nil {
		t.Fatal(err)
	}
	if surf.refresh != 1 || surf.lastLen != 0 {
		t.Errorf("refresh = %d, committed = %d; want overlay only", surf.refresh, surf.lastLen)
	}
	if !strings.Contains(surf.top, "loading") {
		t.Errorf("HUD top = %q, want loading marker", surf.top)
	}
}

func BenchmarkTick(b *testing.B) {
	snap := display.NewSnapshot(160, 100)
	l := assets.NewLoader(0)
	sw := assets.NewSwitcher(nil, l.LoadGeometry, l.LoadTexture, nil)
	s := New(snap, sw, DefaultOptions(), nil)
	defer s.Close()
	s.Start(context.Background())

	now := epoch
	deadline := time.Now().Add(2 * time.Second)
	for snap.Frames() == 0 && time.Now().Before(deadline) {
		now = now.Add(frame)
		_ = s.Tick(now)
		time.Sleep(time.Millisecond)
	}

	s.Press(control.ActionLeft, now)
	for b.Loop() {
		now = now.Add(frame)
		_ = s.Tick(now)
	}
}
