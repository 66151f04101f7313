package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// Shader computes Lambertian reflectance for one directional light.
type Shader struct {
	Texture *Texture

	// LightDir points from the surface toward the light. Normalized by
	// NewShader.
	LightDir math3d.Vec3

	// LightColor scales each channel of the diffuse term, 1 = full.
	LightColor [3]float64

	// Ambient is added to every lit pixel.
	Ambient Color
}

// NewShader creates a white-light shader with no ambient term.
func NewShader(tex *Texture, lightDir math3d.Vec3) *Shader {
	return &Shader{
		Texture:    tex,
		LightDir:   lightDir.Normalize(),
		LightColor: [3]float64{1, 1, 1},
	}
}

// Diffuse returns max(dot(normalize(n), LightDir), 0).
func (s *Shader) Diffuse(n math3d.Vec3) float64 {
	return math.Max(n.Normalize().Dot(s.LightDir), 0)
}

// Shade samples the texture at uv and lights it with normal n.
// The result is always fully opaque.
func (s *Shader) Shade(uv math3d.Vec2, n math3d.Vec3) Color {
	tex := s.Texture.Sample(uv.X, uv.Y)
	d := s.Diffuse(n)
	return Color{
		R: clamp8(float64(s.Ambient.R) + float64(tex.R)*s.LightColor[0]*d),
		G: clamp8(float64(s.Ambient.G) + float64(tex.G)*s.LightColor[1]*d),
		B: clamp8(float64(s.Ambient.B) + float64(tex.B)*s.LightColor[2]*d),
		A: 255,
	}
}
