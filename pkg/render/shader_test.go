package render

import (
	"testing"

	"github.com/taigrr/turntable/pkg/math3d"
)

func TestShadeLambert(t *testing.T) {
	tex := NewSolidTexture(RGBA(200, 100, 50, 10))
	sh := NewShader(tex, math3d.V3(0, 0, -2))

	tests := []struct {
		name string
		n    math3d.Vec3
		want Color
	}{
		{"facing light", math3d.V3(0, 0, -1), RGBA(200, 100, 50, 255)},
		{"unnormalized normal", math3d.V3(0, 0, -5), RGBA(200, 100, 50, 255)},
		{"half angle", math3d.V3(0, 1, -1), RGBA(141, 71, 35, 255)},
		{"perpendicular", math3d.V3(1, 0, 0), RGBA(0, 0, 0, 255)},
		{"facing away", math3d.V3(0, 0, 1), RGBA(0, 0, 0, 255)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sh.Shade(math3d.V2(0.5, 0.5), tc.n); got != tc.want {
				t.Errorf("Shade(n=%v) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestShadeAmbientAndClamp(t *testing.T) {
	sh := NewShader(NewSolidTexture(RGB(200, 20, 0)), math3d.V3(0, 0, -1))
	sh.Ambient = RGB(100, 10, 5)

	got := sh.Shade(math3d.V2(0, 0), math3d.V3(0, 0, -1))
	if want := RGBA(255, 30, 5, 255); got != want {
		t.Errorf("lit = %v, want %v", got, want)
	}

	got = sh.Shade(math3d.V2(0, 0), math3d.V3(0, 0, 1))
	if want := RGBA(100, 10, 5, 255); got != want {
		t.Errorf("unlit = %v, want ambient %v", got, want)
	}
}

func TestShadeLightColor(t *testing.T) {
	sh := NewShader(NewSolidTexture(ColorWhite), math3d.V3(0, 0, -1))
	sh.LightColor = [3]float64{1, 0.5, 0}

	got := sh.Shade(math3d.V2(0, 0), math3d.V3(0, 0, -1))
	if want := RGBA(255, 128, 0, 255); got != want {
		t.Errorf("Shade = %v, want %v", got, want)
	}
}
