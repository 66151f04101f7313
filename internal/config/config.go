// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/render"
)

// Display modes.
const (
	ModeTerminal = "terminal"
	ModeWindow   = "window"
	ModeSnapshot = "snapshot"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Render   RenderConfig   `yaml:"render"`
	Controls ControlsConfig `yaml:"controls"`
	Library  []assets.Entry `yaml:"library"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DisplayConfig selects the output surface.
type DisplayConfig struct {
	Mode       string `yaml:"mode"`   // terminal, window or snapshot
	Width      int    `yaml:"width"`  // window and snapshot pixels
	Height     int    `yaml:"height"` // window and snapshot pixels
	Scale      int    `yaml:"scale"`  // window pixels per framebuffer pixel
	FPS        int    `yaml:"fps"`
	Background string `yaml:"background"` // "R,G,B"
	Frames     int    `yaml:"frames"`     // snapshot mode only
	Output     string `yaml:"output"`     // snapshot mode only, .png or .webp
}

// RenderConfig holds shading settings.
type RenderConfig struct {
	LightDir       [3]float64 `yaml:"light_dir"`
	LightColor     [3]float64 `yaml:"light_color"`
	Ambient        [3]uint8   `yaml:"ambient"`
	MaxTextureSize int        `yaml:"max_texture_size"`
	Wireframe      bool       `yaml:"wireframe"`
	ShowHUD        bool       `yaml:"show_hud"`
}

// ControlsConfig holds input settings.
type ControlsConfig struct {
	KeyTimeout time.Duration `yaml:"key_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the built-in library.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Mode:       ModeTerminal,
			Width:      320,
			Height:     200,
			Scale:      3,
			FPS:        60,
			Background: "0,0,0",
			Frames:     1,
			Output:     "turntable.png",
		},
		Render: RenderConfig{
			LightDir:       [3]float64{1, -1, -1},
			LightColor:     [3]float64{1, 1, 1},
			MaxTextureSize: 1024,
		},
		Controls: ControlsConfig{
			KeyTimeout: 600 * time.Millisecond,
		},
		Library: assets.DefaultLibrary(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	switch c.Display.Mode {
	case ModeTerminal, ModeWindow, ModeSnapshot:
	default:
		return fmt.Errorf("%w: display mode %q", ErrInvalid, c.Display.Mode)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, c.Display.FPS)
	}
	if c.Display.Mode != ModeTerminal && (c.Display.Width <= 0 || c.Display.Height <= 0) {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Display.Width, c.Display.Height)
	}
	if c.Display.Mode == ModeSnapshot && c.Display.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalid, c.Display.Frames)
	}
	if _, err := ParseColor(c.Display.Background); err != nil {
		return err
	}
	if c.Render.LightDir == ([3]float64{}) {
		return fmt.Errorf("%w: light direction is zero", ErrInvalid)
	}
	if c.Render.MaxTextureSize < 0 {
		return fmt.Errorf("%w: max texture size %d", ErrInvalid, c.Render.MaxTextureSize)
	}
	if len(c.Library) == 0 {
		return fmt.Errorf("%w: empty library", ErrInvalid)
	}
	for i, e := range c.Library {
		if e.Model == "" {
			return fmt.Errorf("%w: library entry %d has no model", ErrInvalid, i)
		}
	}
	return nil
}

// Background returns the parsed background color.
func (c *Config) Background() render.Color {
	bg, err := ParseColor(c.Display.Background)
	if err != nil {
		return render.ColorBlack
	}
	return bg
}

// ParseColor parses "R,G,B" with components in [0, 255].
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("%w: color %q is not R,G,B", ErrInvalid, s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("%w: color %q: %v", ErrInvalid, s, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}
