// Package assets resolves library entries into meshes and textures and
// drives model switching with asynchronous, generation-guarded loads.
package assets

import (
	"path/filepath"
	"strings"
)

// Built-in asset names. They resolve without touching the filesystem.
const (
	BuiltinCube    = "builtin:cube"
	BuiltinTetra   = "builtin:tetra"
	BuiltinChecker = "builtin:checker"

	// embeddedPrefix addresses the image stored inside a model file.
	embeddedPrefix = "embedded:"
)

// Entry is one (mesh, texture) pair of the library.
type Entry struct {
	Name    string `yaml:"name"`
	Model   string `yaml:"model"`
	Texture string `yaml:"texture,omitempty"`
}

// DefaultLibrary returns the procedural entries used when no model is
// configured.
func DefaultLibrary() []Entry {
	return []Entry{
		{Name: "cube", Model: BuiltinCube, Texture: BuiltinChecker},
		{Name: "tetrahedron", Model: BuiltinTetra, Texture: BuiltinChecker},
	}
}

// DisplayName returns Name, or the model's file name when Name is empty.
func (e Entry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if strings.HasPrefix(e.Model, "builtin:") {
		return strings.TrimPrefix(e.Model, "builtin:")
	}
	return filepath.Base(e.Model)
}

// TexturePath returns the texture to load for the entry. Without an explicit
// texture, glTF models use their embedded image and everything else gets the
// procedural checker.
func (e Entry) TexturePath() string {
	if e.Texture != "" {
		return e.Texture
	}
	if isGLTF(e.Model) {
		return embeddedPrefix + e.Model
	}
	return BuiltinChecker
}

func isGLTF(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return true
	}
	return false
}
