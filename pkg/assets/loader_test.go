package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestEntry(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry
		wantName    string
		wantTexture string
	}{
		{"explicit", Entry{Name: "Duck", Model: "duck.glb", Texture: "duck.png"}, "Duck", "duck.png"},
		{"gltf embedded", Entry{Model: "/models/Duck.GLB"}, "Duck.GLB", "embedded:/models/Duck.GLB"},
		{"builtin", Entry{Model: BuiltinCube}, "cube", BuiltinChecker},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.DisplayName(); got != tc.wantName {
				t.Errorf("DisplayName() = %q, want %q", got, tc.wantName)
			}
			if got := tc.entry.TexturePath(); got != tc.wantTexture {
				t.Errorf("TexturePath() = %q, want %q", got, tc.wantTexture)
			}
		})
	}
}

func TestLoadGeometry(t *testing.T) {
	l := NewLoader(0)
	ctx := context.Background()

	tests := []struct {
		path      string
		triangles int
		wantErr   error
	}{
		{BuiltinCube, 12, nil},
		{BuiltinTetra, 4, nil},
		{"model.obj", 0, ErrUnsupportedModel},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			m, err := l.LoadGeometry(ctx, tc.path)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadGeometry: %v", err)
			}
			if m.TriangleCount() != tc.triangles {
				t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), tc.triangles)
			}
		})
	}
}

func TestLoadGeometryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoader(0).LoadGeometry(ctx, BuiltinCube); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadTextureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := NewLoader(16).LoadTexture(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("size = %dx%d, want 16x8", tex.Width, tex.Height)
	}
}

func TestLoadTextureBuiltinAndMissing(t *testing.T) {
	l := NewLoader(0)
	tex, err := l.LoadTexture(context.Background(), BuiltinChecker)
	if err != nil || tex.Width != 64 {
		t.Fatalf("checker: %v, %+v", err, tex)
	}
	if _, err := l.LoadTexture(context.Background(), "/nonexistent.png"); err == nil {
		t.Error("expected error for missing texture")
	}
}

func TestLoadTextureEmbedded(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range 4 {
		src.SetNRGBA(i%2, i/2, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	}
	pngPath := filepath.Join(dir, "albedo.png")
	f, err := os.Create(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}

	withImage := gltf.NewDocument()
	if _, err := modeler.WriteImage(withImage, "albedo", "image/png", bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}
	textured := filepath.Join(dir, "textured.glb")
	if err := gltf.SaveBinary(withImage, textured); err != nil {
		t.Fatal(err)
	}

	plain := filepath.Join(dir, "plain.glb")
	if err := gltf.SaveBinary(gltf.NewDocument(), plain); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(0)
	tex, err := l.LoadTexture(context.Background(), Entry{Model: textured}.TexturePath())
	if err != nil {
		t.Fatalf("embedded texture: %v", err)
	}
	if tex.Width != 2 || tex.Sample(0, 0).R != 9 {
		t.Errorf("embedded texture = %dx%d %v", tex.Width, tex.Height, tex.Sample(0, 0))
	}

	tex, err = l.LoadTexture(context.Background(), Entry{Model: plain}.TexturePath())
	if err != nil {
		t.Fatalf("fallback texture: %v", err)
	}
	if tex.Width != 64 {
		t.Errorf("model without image should fall back to the checker, got %dx%d", tex.Width, tex.Height)
	}
}
