package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/render"
)

// ErrUnsupportedModel is returned for model paths no loader understands.
var ErrUnsupportedModel = errors.New("unsupported model format")

// GeometryLoader yields a validated, triangle-expanded mesh for a path.
type GeometryLoader func(ctx context.Context, path string) (*models.Mesh, error)

// TextureLoader yields a decoded texture for a path.
type TextureLoader func(ctx context.Context, path string) (*render.Texture, error)

// Loader resolves built-in names and files into meshes and textures.
type Loader struct {
	GLTF *models.GLTFLoader

	// MaxTextureSize bounds the longer texture side; larger images are
	// downscaled on load. Zero keeps the original size.
	MaxTextureSize int
}

// NewLoader creates a loader with the default glTF options.
func NewLoader(maxTextureSize int) *Loader {
	return &Loader{
		GLTF:           models.NewGLTFLoader(),
		MaxTextureSize: maxTextureSize,
	}
}

// CheckerTexture is the procedural fallback texture.
func CheckerTexture() *render.Texture {
	return render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
}

// LoadGeometry implements GeometryLoader.
func (l *Loader) LoadGeometry(ctx context.Context, path string) (*models.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var mesh *models.Mesh
	switch {
	case path == BuiltinCube:
		mesh = models.Cube(2)
	case path == BuiltinTetra:
		mesh = models.Tetrahedron(1.5)
	case isGLTF(path):
		m, err := l.GLTF.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", path, err)
		}
		mesh = m
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, path)
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return mesh, nil
}

// LoadTexture implements TextureLoader.
func (l *Loader) LoadTexture(ctx context.Context, path string) (*render.Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch {
	case path == BuiltinChecker:
		return CheckerTexture(), nil
	case strings.HasPrefix(path, embeddedPrefix):
		return l.loadEmbedded(strings.TrimPrefix(path, embeddedPrefix))
	}

	tex, err := render.LoadTexture(path, l.MaxTextureSize)
	if err != nil {
		return nil, err
	}
	return tex, ctx.Err()
}

// loadEmbedded decodes a model's embedded image, falling back to the
// checker when the model has none.
func (l *Loader) loadEmbedded(modelPath string) (*render.Texture, error) {
	data, hint, err := models.EmbeddedImage(modelPath)
	if err != nil {
		return nil, fmt.Errorf("embedded texture: %w", err)
	}
	if data == nil {
		return CheckerTexture(), nil
	}
	return render.DecodeTexture(data, hint, l.MaxTextureSize)
}
