package models

import "github.com/taigrr/turntable/pkg/math3d"

// Cube builds an axis-aligned cube of the given edge length centered on the
// origin. Each face maps the full [0,1] texture square.
func Cube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube", 12)

	// Each face: outward normal plus its four corners, counter-clockwise as
	// seen from outside.
	faces := []struct {
		n       math3d.Vec3
		corners [4]math3d.Vec3
	}{
		{math3d.V3(0, 0, -1), [4]math3d.Vec3{{X: h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h}}},
		{math3d.V3(0, 0, 1), [4]math3d.Vec3{{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}}},
		{math3d.V3(-1, 0, 0), [4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: -h, Y: -h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: h, Z: -h}}},
		{math3d.V3(1, 0, 0), [4]math3d.Vec3{{X: h, Y: -h, Z: h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: h, Y: h, Z: h}}},
		{math3d.V3(0, -1, 0), [4]math3d.Vec3{{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: -h, Z: h}, {X: -h, Y: -h, Z: h}}},
		{math3d.V3(0, 1, 0), [4]math3d.Vec3{{X: -h, Y: h, Z: h}, {X: h, Y: h, Z: h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}}},
	}
	uv := [4]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	for _, f := range faces {
		n := [3]math3d.Vec3{f.n, f.n, f.n}
		c := f.corners
		m.AddTriangle([3]math3d.Vec3{c[0], c[1], c[2]}, [3]math3d.Vec2{uv[0], uv[1], uv[2]}, n)
		m.AddTriangle([3]math3d.Vec3{c[0], c[2], c[3]}, [3]math3d.Vec2{uv[0], uv[2], uv[3]}, n)
	}

	m.CalculateBounds()
	return m
}

// Tetrahedron builds a regular tetrahedron inscribed in a sphere of the given
// radius, with flat per-face normals.
func Tetrahedron(radius float64) *Mesh {
	s := radius / 1.7320508075688772 // 1/sqrt(3) puts the corners on the sphere
	p := [4]math3d.Vec3{
		{X: s, Y: s, Z: s},
		{X: -s, Y: -s, Z: s},
		{X: -s, Y: s, Z: -s},
		{X: s, Y: -s, Z: -s},
	}
	tris := [4][3]int{{0, 1, 3}, {0, 2, 1}, {0, 3, 2}, {1, 2, 3}}
	uv := [3]math3d.Vec2{{X: 0.5, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}

	m := NewMesh("tetrahedron", len(tris))
	for _, t := range tris {
		a, b, c := p[t[0]], p[t[1]], p[t[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		// Orient outward regardless of the listed winding.
		if n.Dot(a.Add(b).Add(c)) < 0 {
			n = n.Negate()
		}
		m.AddTriangle([3]math3d.Vec3{a, b, c}, uv, [3]math3d.Vec3{n, n, n})
	}

	m.CalculateBounds()
	return m
}
