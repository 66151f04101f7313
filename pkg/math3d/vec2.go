package math3d

// Vec2 represents a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Vec2At reads the i-th Vec2 from a flat array of pairs.
func Vec2At(flat []float64, i int) Vec2 {
	return Vec2{flat[i*2], flat[i*2+1]}
}

// Weighted2 returns u*a + v*b + w*c.
func Weighted2(a, b, c Vec2, u, v, w float64) Vec2 {
	return Vec2{
		u*a.X + v*b.X + w*c.X,
		u*a.Y + v*b.Y + w*c.Y,
	}
}
