package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"go.uber.org/zap"

	"github.com/taigrr/turntable/internal/config"
	"github.com/taigrr/turntable/internal/logger"
	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/control"
	"github.com/taigrr/turntable/pkg/display"
	"github.com/taigrr/turntable/pkg/display/window"
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/viewer"
)

func run(ctx context.Context, cfg *config.Config) error {
	// The terminal surface owns stdout.
	console := cfg.Display.Mode != config.ModeTerminal
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, console); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.String("display", cfg.Display.Mode),
		zap.Int("models", len(cfg.Library)),
		zap.Int("fps", cfg.Display.FPS))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loader := assets.NewLoader(cfg.Render.MaxTextureSize)
	sw := assets.NewSwitcher(cfg.Library, loader.LoadGeometry, loader.LoadTexture, logger.Named("assets"))
	opts := viewerOptions(cfg)
	opts.OnQuit = cancel

	switch cfg.Display.Mode {
	case config.ModeWindow:
		return runWindow(ctx, cfg, sw, opts)
	case config.ModeSnapshot:
		opts.KeyTimeout = 0
		return runSnapshot(ctx, cfg, sw, opts)
	default:
		return runTerminal(ctx, cfg, sw, opts)
	}
}

func viewerOptions(cfg *config.Config) viewer.Options {
	r := cfg.Render
	return viewer.Options{
		Background: cfg.Background(),
		LightDir:   math3d.V3(r.LightDir[0], r.LightDir[1], r.LightDir[2]),
		LightColor: r.LightColor,
		Ambient:    render.RGB(r.Ambient[0], r.Ambient[1], r.Ambient[2]),
		FPS:        cfg.Display.FPS,
		KeyTimeout: cfg.Controls.KeyTimeout,
		ShowHUD:    r.ShowHUD,
		Wireframe:  r.Wireframe,
	}
}

func runTerminal(ctx context.Context, cfg *config.Config, sw *assets.Switcher, opts viewer.Options) error {
	term := display.NewTerminal()
	if err := term.Start(); err != nil {
		return err
	}
	defer func() {
		if err := term.Close(); err != nil {
			logger.Warn("restore terminal", zap.Error(err))
		}
	}()

	v := viewer.New(term, sw, opts, logger.Named("viewer"))
	defer v.Close()
	v.Start(ctx)

	go term.Run(ctx, v)

	targetDuration := time.Second / time.Duration(cfg.Display.FPS)
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping", zap.Int("frames", v.Committed()))
			return nil
		default:
		}

		now := time.Now()
		if err := v.Tick(now); err != nil {
			return err
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func runWindow(ctx context.Context, cfg *config.Config, sw *assets.Switcher, opts viewer.Options) error {
	win := window.New(window.Config{
		Title:  "turntable",
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
		Scale:  cfg.Display.Scale,
		TPS:    cfg.Display.FPS,
	})

	v := viewer.New(win, sw, opts, logger.Named("viewer"))
	defer v.Close()
	v.Start(ctx)

	return win.Run(ctx, v, v.Tick)
}

// runSnapshot renders offscreen on a fixed clock. With more than one frame
// the model spins about Y as if the left key were held.
func runSnapshot(ctx context.Context, cfg *config.Config, sw *assets.Switcher, opts viewer.Options) error {
	snap := display.NewSnapshot(cfg.Display.Width, cfg.Display.Height)
	v := viewer.New(snap, sw, opts, logger.Named("viewer"))
	defer v.Close()
	v.Start(ctx)

	step := time.Duration(harmonica.FPS(cfg.Display.FPS) * float64(time.Second))
	now := time.Now()
	frames := cfg.Display.Frames
	if frames > 1 {
		v.Press(control.ActionLeft, now)
	}

	out := cfg.Display.Output
	perFrame := strings.Contains(out, "%")
	for v.Committed() < frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		before := v.Committed()
		if err := v.Tick(now); err != nil {
			return err
		}
		if v.Committed() == before {
			if err := v.LoadErr(); err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			// Still loading; wait without advancing the clock.
			time.Sleep(time.Millisecond)
			continue
		}
		now = now.Add(step)

		if perFrame {
			if err := snap.Save(fmt.Sprintf(out, before)); err != nil {
				return err
			}
		}
	}

	if !perFrame {
		if err := snap.Save(out); err != nil {
			return err
		}
	}
	logger.Info("snapshot written", zap.String("out", out), zap.Int("frames", frames))
	return nil
}
