package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/taigrr/turntable/pkg/assets"
	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/render"
)

func runInfo(ctx context.Context, w io.Writer, modelPath string) error {
	loader := assets.NewLoader(0)
	mesh, err := loader.LoadGeometry(ctx, modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	mesh.CalculateBounds()
	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(modelPath))
	if st, err := os.Stat(modelPath); err == nil {
		fmt.Fprintf(w, "Size:       %.2f KB\n", float64(st.Size())/1024)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds:     %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)

	data, hint, err := models.EmbeddedImage(modelPath)
	switch {
	case err != nil || data == nil:
		fmt.Fprintf(w, "Texture:    none\n")
	default:
		tex, err := render.DecodeTexture(data, hint, 0)
		if err != nil {
			fmt.Fprintf(w, "Texture:    %s (undecodable: %v)\n", hint, err)
			return nil
		}
		fmt.Fprintf(w, "Texture:    %dx%d %s\n", tex.Width, tex.Height, hint)
	}
	return nil
}
