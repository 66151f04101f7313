package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/turntable/internal/config"
	"github.com/taigrr/turntable/pkg/assets"
)

// loadConfig applies defaults < config file < set flags < model arguments.
func loadConfig(cmd *cobra.Command, f flags, args []string) (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, f, cmd.Flags().Changed)
	if len(args) > 0 {
		cfg.Library = libraryFromArgs(args, f.texture)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, f flags, changed func(string) bool) {
	if changed("display") {
		cfg.Display.Mode = f.display
	}
	if changed("fps") {
		cfg.Display.FPS = f.fps
	}
	if changed("bg") {
		cfg.Display.Background = f.bg
	}
	if changed("width") {
		cfg.Display.Width = f.width
	}
	if changed("height") {
		cfg.Display.Height = f.height
	}
	if changed("frames") {
		cfg.Display.Frames = f.frames
	}
	if changed("out") {
		cfg.Display.Output = f.out
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-file") {
		cfg.Logging.LogFile = f.logFile
	}
}

func libraryFromArgs(models []string, texture string) []assets.Entry {
	lib := make([]assets.Entry, 0, len(models))
	for _, m := range models {
		lib = append(lib, assets.Entry{Model: m, Texture: texture})
	}
	return lib
}
