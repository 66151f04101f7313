// turntable - software 3D model viewer
// Spin textured GLB models in the terminal, a window, or into image files.
//
// Controls:
//
//	Arrows/WASD - Rotate (hold to accelerate)
//	Z / mouse   - Hold to zoom in
//	X           - Toggle wireframe (x-ray)
//	C           - Toggle checker texture
//	N/Space     - Next model
//	R           - Reset orientation
//	?           - Toggle HUD overlay
//	Esc/Q       - Quit
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

// flags holds the command line; only flags the user set override the
// config file.
type flags struct {
	config   string
	texture  string
	display  string
	fps      int
	bg       string
	width    int
	height   int
	frames   int
	out      string
	logLevel string
	logFile  string
}

func main() {
	var f flags

	cmd := &cobra.Command{
		Use:   "turntable [model.glb ...]",
		Short: "Software 3D model viewer",
		Long: `turntable - Software 3D model viewer

Renders textured GLB models with a CPU rasterizer. Without arguments the
built-in cube and tetrahedron are shown.

Controls:
  Arrows/WASD - Rotate (hold to accelerate)
  Z / mouse   - Hold to zoom in
  X           - Toggle wireframe
  C           - Toggle checker texture
  N/Space     - Next model
  R           - Reset orientation
  ?           - Toggle HUD overlay
  Esc/Q       - Quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "Path to config file (YAML)")
	fl.StringVar(&f.texture, "texture", "", "Texture for the models given as arguments")
	fl.StringVar(&f.display, "display", "terminal", "Output: terminal, window or snapshot")
	fl.IntVar(&f.fps, "fps", 60, "Target FPS")
	fl.StringVar(&f.bg, "bg", "0,0,0", "Background color (R,G,B)")
	fl.IntVar(&f.width, "width", 320, "Frame width for window and snapshot output")
	fl.IntVar(&f.height, "height", 200, "Frame height for window and snapshot output")
	fl.IntVar(&f.frames, "frames", 1, "Frames to render in snapshot mode")
	fl.StringVar(&f.out, "out", "turntable.png", "Snapshot file (.png or .webp, may contain a %d frame verb)")
	fl.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fl.StringVar(&f.logFile, "log-file", "", "Rotating log file")

	infoCmd := &cobra.Command{
		Use:   "info <model.glb>",
		Short: "Display model information",
		Long:  "Display triangle count, bounds and embedded texture of a model, after loading it the way the viewer does.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
	cmd.AddCommand(infoCmd)

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
