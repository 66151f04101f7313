package render

// DrawMeshWireframe draws the three edges of every triangle that lies fully
// in front of the camera, ignoring both culling and the depth buffer
// (x-ray view).
func (r *Rasterizer) DrawMeshWireframe(p *Pipeline, color Color) {
	for t := range p.TriangleCount() {
		i0 := t * 3
		r.Stats.Triangles++
		if !p.InFront[i0] || !p.InFront[i0+1] || !p.InFront[i0+2] {
			r.Stats.Behind++
			continue
		}

		a, b, c := p.Screen[i0], p.Screen[i0+1], p.Screen[i0+2]
		if !finite(a) || !finite(b) || !finite(c) {
			continue
		}
		r.Stats.Drawn++
		r.drawEdge(a, b, color)
		r.drawEdge(b, c, color)
		r.drawEdge(c, a, color)
	}
}

// drawEdge draws one projected edge. Edges with an endpoint far outside the
// frame are skipped rather than walked pixel by pixel.
func (r *Rasterizer) drawEdge(a, b ScreenPoint, color Color) {
	limit := float64(4 * max(r.fb.Width, r.fb.Height))
	if abs64(a.X) > limit || abs64(a.Y) > limit || abs64(b.X) > limit || abs64(b.Y) > limit {
		return
	}
	r.fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), color)
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
