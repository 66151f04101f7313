package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// Triangle is a projected triangle with the attributes interpolated across it.
type Triangle struct {
	P  [3]ScreenPoint
	UV [3]math3d.Vec2
	N  [3]math3d.Vec3
}

// Stats counts what happened to the triangles of the last frame.
type Stats struct {
	Triangles int // triangles submitted
	Culled    int // rejected as back-facing
	Behind    int // skipped because a vertex was not in front of the camera
	Drawn     int // passed to the rasterizer
	Pixels    int // pixels that won the depth test
}

// Rasterizer fills triangles into a FrameBuffer with a depth test.
type Rasterizer struct {
	fb    *FrameBuffer
	Stats Stats // Statistics for the HUD and tests
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *FrameBuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// ResetStats clears the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// DrawMesh culls, then rasterizes every triangle of the pipeline's current
// mesh. The pipeline must already be transformed for this frame.
func (r *Rasterizer) DrawMesh(p *Pipeline, cam *Camera, sh *Shader) {
	var tri Triangle
	for t := range p.TriangleCount() {
		i0 := t * 3
		r.Stats.Triangles++

		if IsBackFace(math3d.Vec3At(p.Positions, i0), math3d.Vec3At(p.Normals, i0), cam.Position) {
			r.Stats.Culled++
			continue
		}
		if !p.InFront[i0] || !p.InFront[i0+1] || !p.InFront[i0+2] {
			r.Stats.Behind++
			continue
		}

		m := p.mesh
		for k := range 3 {
			tri.P[k] = p.Screen[i0+k]
			tri.UV[k] = m.UV(i0 + k)
			tri.N[k] = math3d.Vec3At(p.Normals, i0+k)
		}
		r.DrawTriangle(&tri, sh)
	}
}

// DrawTriangle rasterizes one triangle.
//
// Every integer pixel in the triangle's bounding box is tested with
// barycentric weights; edges are inclusive. Pixels that pass the depth test
// get the shaded texel at the interpolated texture coordinate, with V
// flipped so that v=0 addresses the last image row.
func (r *Rasterizer) DrawTriangle(tri *Triangle, sh *Shader) {
	fb := r.fb
	p0, p1, p2 := tri.P[0], tri.P[1], tri.P[2]
	if !finite(p0) || !finite(p1) || !finite(p2) {
		return
	}

	setup, ok := newBarySetup(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	if !ok {
		// Degenerate: no pixel is inside a zero-area triangle.
		return
	}
	r.Stats.Drawn++

	loX, hiX := math.Floor(min3(p0.X, p1.X, p2.X)), math.Ceil(max3(p0.X, p1.X, p2.X))
	loY, hiY := math.Floor(min3(p0.Y, p1.Y, p2.Y)), math.Ceil(max3(p0.Y, p1.Y, p2.Y))
	if hiX < 0 || hiY < 0 || loX > float64(fb.Width-1) || loY > float64(fb.Height-1) {
		return
	}
	minX := int(math.Max(0, loX))
	maxX := int(math.Min(float64(fb.Width-1), hiX))
	minY := int(math.Max(0, loY))
	maxY := int(math.Min(float64(fb.Height-1), hiY))

	for y := minY; y <= maxY; y++ {
		row := y * fb.Width
		for x := minX; x <= maxX; x++ {
			u, v, w := setup.weights(float64(x), float64(y))
			if u < 0 || v < 0 || w < 0 {
				continue
			}

			z := u*p0.Depth + v*p1.Depth + w*p2.Depth
			if !(z < fb.Depth[row+x]) {
				continue
			}
			fb.Depth[row+x] = z

			uv := math3d.Weighted2(tri.UV[0], tri.UV[1], tri.UV[2], u, v, w)
			uv.Y = 1 - uv.Y
			n := math3d.Weighted3(tri.N[0], tri.N[1], tri.N[2], u, v, w)
			c := sh.Shade(uv, n)

			i := (row + x) * 4
			fb.Color[i] = c.R
			fb.Color[i+1] = c.G
			fb.Color[i+2] = c.B
			fb.Color[i+3] = c.A
			r.Stats.Pixels++
		}
	}
}

// barySetup caches the per-triangle terms of the dot-product barycentric
// solution so only the point-dependent part runs per pixel.
type barySetup struct {
	x0, y0   float64
	v0x, v0y float64 // p2 - p0
	v1x, v1y float64 // p1 - p0
	dot00    float64
	dot01    float64
	dot11    float64
	invDenom float64
}

func newBarySetup(x0, y0, x1, y1, x2, y2 float64) (barySetup, bool) {
	s := barySetup{
		x0: x0, y0: y0,
		v0x: x2 - x0, v0y: y2 - y0,
		v1x: x1 - x0, v1y: y1 - y0,
	}
	s.dot00 = s.v0x*s.v0x + s.v0y*s.v0y
	s.dot01 = s.v0x*s.v1x + s.v0y*s.v1y
	s.dot11 = s.v1x*s.v1x + s.v1y*s.v1y

	denom := s.dot00*s.dot11 - s.dot01*s.dot01
	if denom == 0 {
		return s, false
	}
	s.invDenom = 1 / denom
	return s, true
}

// weights returns the barycentric weights of (px, py) for p0, p1 and p2.
func (s *barySetup) weights(px, py float64) (w0, w1, w2 float64) {
	v2x, v2y := px-s.x0, py-s.y0
	dot02 := s.v0x*v2x + s.v0y*v2y
	dot12 := s.v1x*v2x + s.v1y*v2y

	u := (s.dot11*dot02 - s.dot01*dot12) * s.invDenom
	v := (s.dot00*dot12 - s.dot01*dot02) * s.invDenom
	return 1 - u - v, v, u
}

// barycentric returns the weights of (px, py) with respect to the triangle.
// ok is false for a degenerate triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) (bc math3d.Vec3, ok bool) {
	s, ok := newBarySetup(x0, y0, x1, y1, x2, y2)
	if !ok {
		return math3d.Vec3{}, false
	}
	bc.X, bc.Y, bc.Z = s.weights(px, py)
	return bc, true
}

func finite(p ScreenPoint) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
