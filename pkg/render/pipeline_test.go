package render

import (
	"math"
	"testing"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
)

func singleTriangleMesh() *models.Mesh {
	m := models.NewMesh("tri", 1)
	m.AddTriangle(
		[3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		[3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1)},
		[3]math3d.Vec3{math3d.V3(0, 0, 1), math3d.V3(0, 0, 1), math3d.V3(0, 0, 1)},
	)
	return m
}

func TestPipelineSetMesh(t *testing.T) {
	p := NewPipeline()
	if p.TriangleCount() != 0 {
		t.Errorf("empty pipeline has %d triangles", p.TriangleCount())
	}

	cube := models.Cube(2)
	p.SetMesh(cube)
	n := cube.VertexCount()
	if len(p.Positions) != n*3 || len(p.Normals) != n*3 || len(p.Screen) != n || len(p.InFront) != n {
		t.Errorf("arrays sized %d/%d/%d/%d for %d vertices",
			len(p.Positions), len(p.Normals), len(p.Screen), len(p.InFront), n)
	}
	if p.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", p.TriangleCount())
	}

	p.Reset()
	if p.Mesh() != nil || p.Positions != nil || p.Screen != nil {
		t.Error("Reset left state behind")
	}
	p.Transform(NewCamera(), 10, 10) // no mesh: must not panic
}

func TestPipelineTransformIdentity(t *testing.T) {
	m := singleTriangleMesh()
	p := NewPipeline()
	p.SetMesh(m)

	cam := NewCamera()
	p.Transform(cam, 80, 40)

	for i := range 3 {
		if got := math3d.Vec3At(p.Positions, i); got != m.Position(i) {
			t.Errorf("position %d = %v, want %v", i, got, m.Position(i))
		}
		want, _ := cam.Project(m.Position(i), 80, 40)
		if p.Screen[i] != want || !p.InFront[i] {
			t.Errorf("screen %d = %+v (%v), want %+v", i, p.Screen[i], p.InFront[i], want)
		}
	}
}

func TestPipelineTransformRotation(t *testing.T) {
	m := singleTriangleMesh()
	p := NewPipeline()
	p.SetMesh(m)
	p.SetRotation(math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math.Pi/2))
	p.Transform(NewCamera(), 80, 40)

	// +Z turns into +X about the Y axis
	near := func(a, b math3d.Vec3) bool { return a.Sub(b).Len() < 1e-9 }
	if got := math3d.Vec3At(p.Positions, 0); !near(got, math3d.V3(1, 0, 0)) {
		t.Errorf("rotated position 0 = %v, want (1,0,0)", got)
	}
	if got := math3d.Vec3At(p.Normals, 0); !near(got, math3d.V3(1, 0, 0)) {
		t.Errorf("rotated normal 0 = %v, want (1,0,0)", got)
	}
	if got := math3d.Vec3At(p.Positions, 1); !near(got, math3d.V3(0, 0, -1)) {
		t.Errorf("rotated position 1 = %v, want (0,0,-1)", got)
	}
	// The source mesh is untouched.
	if m.Position(0) != math3d.V3(0, 0, 1) {
		t.Errorf("mesh was modified: %v", m.Position(0))
	}
}

func TestPipelineInFront(t *testing.T) {
	p := NewPipeline()
	p.SetMesh(singleTriangleMesh())

	cam := NewCamera()
	cam.SetZ(0.5)
	p.Transform(cam, 80, 40)

	// vertex 0 at z=1 is ahead of z=0.5; vertices 1 and 2 at z=0 are behind
	if !p.InFront[0] || p.InFront[1] || p.InFront[2] {
		t.Errorf("InFront = %v, want [true false false]", p.InFront)
	}
}

func TestPipelineUpdateOnlyRebuildsWhenDirty(t *testing.T) {
	p := NewPipeline()
	p.SetMesh(singleTriangleMesh())
	cam := NewCamera()
	q := math3d.QuatFromAxisAngle(math3d.V3(0, 1, 0), math.Pi/2)

	p.Update(q, false, cam, 80, 40)
	if p.Rotation() != math3d.Identity() {
		t.Error("clean update rebuilt the rotation matrix")
	}

	p.Update(q, true, cam, 80, 40)
	if p.Rotation() != q.ToMat4() {
		t.Error("dirty update did not rebuild the rotation matrix")
	}
}
