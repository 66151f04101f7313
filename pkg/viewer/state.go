// Package viewer owns the renderer state and runs one frame per Tick:
// load completions, rotation, transform, rasterization and commit.
package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/control"
	"github.com/taigrr/turntable/pkg/display"
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
)

// Options configures a State.
type Options struct {
	Background render.Color
	LightDir   math3d.Vec3
	LightColor [3]float64
	Ambient    render.Color

	FPS        int           // reset spring step
	KeyTimeout time.Duration // see control.HeldKeys

	ShowHUD   bool
	Wireframe bool

	// OnQuit runs when the quit action is pressed.
	OnQuit func()
}

// DefaultOptions returns black background, white light from the upper
// right front and no ambient term.
func DefaultOptions() Options {
	return Options{
		Background: render.ColorBlack,
		LightDir:   math3d.V3(1, -1, -1),
		LightColor: [3]float64{1, 1, 1},
		FPS:        60,
	}
}

// State is everything one viewer renders from. Input events and Tick are
// serialized by a single mutex, so a frame never sees a half-applied
// switch or toggle.
type State struct {
	mu sync.Mutex

	surface  display.Surface
	switcher *assets.Switcher
	log      *zap.Logger
	opts     Options
	loadCtx  context.Context

	camera     *render.Camera
	pipeline   *render.Pipeline
	fb         *render.FrameBuffer
	raster     *render.Rasterizer
	shader     *render.Shader
	controller *control.Controller
	keys       control.HeldKeys
	checker    *render.Texture

	wireframe  bool
	useChecker bool
	showHUD    bool

	hud       hud
	committed int
}

// New creates a viewer drawing to surface. Call Start to begin loading.
func New(surface display.Surface, switcher *assets.Switcher, opts Options, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.LightDir.Len() == 0 {
		opts.LightDir = defaults.LightDir
	}
	if opts.LightColor == ([3]float64{}) {
		opts.LightColor = defaults.LightColor
	}

	w, h := surface.Size()
	fb := render.NewFrameBuffer(w, h, opts.Background)
	sh := render.NewShader(nil, opts.LightDir)
	sh.LightColor = opts.LightColor
	sh.Ambient = opts.Ambient

	return &State{
		surface:    surface,
		switcher:   switcher,
		log:        log,
		opts:       opts,
		loadCtx:    context.Background(),
		camera:     render.NewCamera(),
		pipeline:   render.NewPipeline(),
		fb:         fb,
		raster:     render.NewRasterizer(fb),
		shader:     sh,
		controller: control.NewController(opts.FPS),
		keys:       control.HeldKeys{Timeout: opts.KeyTimeout},
		checker:    assets.CheckerTexture(),
		wireframe:  opts.Wireframe,
		showHUD:    opts.ShowHUD,
	}
}

// Start loads the first library entry. Loads issued later by the
// next-model action also derive from ctx.
func (s *State) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCtx = ctx
	s.switchTo(0)
}

// switchTo drops the current mesh and asks the switcher for entry i.
func (s *State) switchTo(i int) {
	s.pipeline.Reset()
	s.switcher.Load(s.loadCtx, i)
}

// Press handles a pressed action.
func (s *State) Press(a control.Action, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.Held() {
		s.keys.Press(a, now)
		return
	}

	s.log.Debug("action", zap.Stringer("action", a))
	switch a {
	case control.ActionToggleWireframe:
		s.wireframe = !s.wireframe
	case control.ActionToggleChecker:
		s.useChecker = !s.useChecker
	case control.ActionNextModel:
		s.switchTo(s.switcher.Index() + 1)
	case control.ActionReset:
		s.controller.Reset()
	case control.ActionToggleHUD:
		s.showHUD = !s.showHUD
	case control.ActionQuit:
		if s.opts.OnQuit != nil {
			s.opts.OnQuit()
		}
	}
}

// Release handles a released action.
func (s *State) Release(a control.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys.Release(a)
}

// Tick renders one frame at now.
//
// Order: collect finished loads, step the controller, transform, cull and
// rasterize, then commit. The commit is skipped while the mesh or the
// texture is missing.
func (s *State) Tick(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if changes := s.switcher.Poll(); changes.Mesh {
		s.pipeline.SetMesh(s.switcher.Mesh())
	}

	w, h := s.surface.Size()
	s.fb.Resize(w, h)

	s.controller.Step(now, s.keys.Input(now), s.camera)
	q, dirty := s.controller.Orientation()
	s.pipeline.Update(q, dirty, s.camera, w, h)
	s.controller.ClearDirty()

	s.hud.tick(now)
	tex := s.texture()
	if s.pipeline.Mesh() == nil || tex == nil {
		return s.refreshOverlay()
	}

	s.fb.Reset()
	s.raster.ResetStats()
	if s.wireframe {
		s.raster.DrawMeshWireframe(s.pipeline, render.ColorGreen)
	} else {
		s.shader.Texture = tex
		s.raster.DrawMesh(s.pipeline, s.camera, s.shader)
	}

	s.annotate()
	if err := s.fb.Commit(s.surface); err != nil {
		return fmt.Errorf("commit frame: %w", err)
	}
	s.committed++
	return nil
}

func (s *State) texture() *render.Texture {
	if s.useChecker {
		return s.checker
	}
	return s.switcher.Texture()
}

func (s *State) annotate() {
	a, ok := s.surface.(display.Annotator)
	if !ok {
		return
	}
	if !s.showHUD {
		a.Annotate("", "")
		return
	}
	a.Annotate(s.hud.top(s.switcher, s.pipeline), s.hud.bottom(s.wireframe, s.useChecker))
}

func (s *State) refreshOverlay() error {
	a, ok := s.surface.(display.Annotator)
	if !ok {
		return nil
	}
	s.annotate()
	return a.Refresh()
}

// Stats returns the rasterizer statistics of the last drawn frame.
func (s *State) Stats() render.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raster.Stats
}

// LoadErr returns the load failure of the current model, or nil. The
// model stays blank until the next switch.
func (s *State) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switcher.Err()
}

// Committed returns the number of frames committed so far.
func (s *State) Committed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Camera returns a copy of the camera.
func (s *State) Camera() render.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.camera
}

// Orientation returns the model orientation.
func (s *State) Orientation() math3d.Quat {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, _ := s.controller.Orientation()
	return q
}

// Modes reports the wireframe, checker and HUD toggles.
func (s *State) Modes() (wireframe, checker, hud bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wireframe, s.useChecker, s.showHUD
}

// Close cancels pending loads.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switcher.Close()
}
