package assets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/render"
)

// ErrEmptyResult is recorded when a loader returns neither a value nor an
// error.
var ErrEmptyResult = errors.New("loader returned no result")

// State of the switch state machine.
type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Changes reports which slots Poll replaced.
type Changes struct {
	Mesh    bool
	Texture bool
}

type resultKind int

const (
	kindGeometry resultKind = iota
	kindTexture
)

// result is one async completion, tagged with the generation that issued it.
type result struct {
	gen     uint64
	kind    resultKind
	path    string
	mesh    *models.Mesh
	texture *render.Texture
	err     error
}

// Switcher cycles through a library of entries. Loads run on goroutines
// and their results are collected by Poll, so the frame loop never blocks.
// Every switch bumps a generation counter and completions from older
// generations are discarded.
//
// Switcher is not safe for concurrent use; the viewer serializes calls.
type Switcher struct {
	library      []Entry
	loadGeometry GeometryLoader
	loadTexture  TextureLoader
	log          *zap.Logger

	index   int
	state   State
	gen     uint64
	cancel  context.CancelFunc
	results chan result

	mesh    *models.Mesh
	texture *render.Texture
	err     error // first load failure of the current generation
}

// NewSwitcher creates an idle switcher. Nothing is loaded until Load or
// Next is called. A nil logger discards output.
func NewSwitcher(library []Entry, geometry GeometryLoader, texture TextureLoader, log *zap.Logger) *Switcher {
	if len(library) == 0 {
		library = DefaultLibrary()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Switcher{
		library:      library,
		loadGeometry: geometry,
		loadTexture:  texture,
		log:          log,
		index:        -1,
		// Two completions per generation; stale senders give up on cancel.
		results: make(chan result, 8),
	}
}

// Len returns the library size.
func (s *Switcher) Len() int { return len(s.library) }

// Index returns the current library index, -1 before the first load.
func (s *Switcher) Index() int { return s.index }

// State returns the current state.
func (s *Switcher) State() State { return s.state }

// Generation returns the current load generation.
func (s *Switcher) Generation() uint64 { return s.gen }

// Mesh returns the loaded mesh, or nil.
func (s *Switcher) Mesh() *models.Mesh { return s.mesh }

// Texture returns the loaded texture, or nil.
func (s *Switcher) Texture() *render.Texture { return s.texture }

// Err returns the first load failure of the current entry, or nil. A
// failed slot stays unset until the next switch.
func (s *Switcher) Err() error { return s.err }

// Entry returns the current library entry.
func (s *Switcher) Entry() Entry {
	if s.index < 0 {
		return Entry{}
	}
	return s.library[s.index]
}

// Next switches to the following entry, wrapping at the end.
func (s *Switcher) Next(ctx context.Context) {
	s.Load(ctx, s.index+1)
}

// Load switches to entry i (taken modulo the library size): the in-flight
// load is cancelled, both slots are cleared and new loads are dispatched.
func (s *Switcher) Load(ctx context.Context, i int) {
	n := len(s.library)
	s.index = ((i % n) + n) % n

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.mesh = nil
	s.texture = nil
	s.err = nil
	s.state = StateLoading

	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	entry := s.library[s.index]
	gen := s.gen
	s.log.Debug("loading entry",
		zap.String("name", entry.DisplayName()),
		zap.Int("index", s.index),
		zap.Uint64("generation", gen))

	go func() {
		mesh, err := s.loadGeometry(loadCtx, entry.Model)
		s.deliver(loadCtx, result{gen: gen, kind: kindGeometry, path: entry.Model, mesh: mesh, err: err})
	}()
	texPath := entry.TexturePath()
	go func() {
		tex, err := s.loadTexture(loadCtx, texPath)
		s.deliver(loadCtx, result{gen: gen, kind: kindTexture, path: texPath, texture: tex, err: err})
	}()
}

func (s *Switcher) deliver(ctx context.Context, r result) {
	select {
	case s.results <- r:
	case <-ctx.Done():
	}
}

// Poll drains finished loads without blocking and installs those that
// belong to the current generation.
func (s *Switcher) Poll() Changes {
	var changes Changes
	for {
		select {
		case r := <-s.results:
			s.apply(r, &changes)
		default:
			return changes
		}
	}
}

func (s *Switcher) apply(r result, changes *Changes) {
	if r.gen != s.gen {
		s.log.Debug("dropping stale load",
			zap.String("path", r.path),
			zap.Uint64("generation", r.gen),
			zap.Uint64("current", s.gen))
		return
	}

	switch r.kind {
	case kindGeometry:
		s.state = StateIdle
		if r.err == nil && r.mesh == nil {
			r.err = ErrEmptyResult
		}
		if r.err != nil {
			s.fail(r, "geometry")
			return
		}
		s.mesh = r.mesh
		changes.Mesh = true
		s.log.Info("model loaded",
			zap.String("path", r.path),
			zap.Int("triangles", r.mesh.TriangleCount()))
	case kindTexture:
		if r.err == nil && r.texture == nil {
			r.err = ErrEmptyResult
		}
		if r.err != nil {
			s.fail(r, "texture")
			return
		}
		s.texture = r.texture
		changes.Texture = true
		s.log.Info("texture loaded",
			zap.String("path", r.path),
			zap.Int("width", r.texture.Width),
			zap.Int("height", r.texture.Height))
	}
}

func (s *Switcher) fail(r result, what string) {
	s.log.Warn(what+" load failed",
		zap.String("path", r.path),
		zap.Uint64("generation", r.gen),
		zap.Error(r.err))
	if s.err == nil {
		s.err = fmt.Errorf("load %s %s: %w", what, r.path, r.err)
	}
}

// Close cancels any in-flight load.
func (s *Switcher) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
