package render

import (
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
)

// Pipeline holds the per-vertex results of the transform stage for the
// current mesh. The arrays are parallel to the mesh's vertex arrays and are
// allocated once per mesh, then overwritten every frame.
type Pipeline struct {
	mesh     *models.Mesh
	rotation math3d.Mat4

	Positions []float64     // rotated positions, 3 per vertex
	Normals   []float64     // rotated normals, 3 per vertex
	Screen    []ScreenPoint // projected positions
	InFront   []bool        // projection validity per vertex
}

// NewPipeline creates an empty pipeline with an identity rotation.
func NewPipeline() *Pipeline {
	return &Pipeline{rotation: math3d.Identity()}
}

// SetMesh switches to a new mesh and sizes the derived arrays for it.
func (p *Pipeline) SetMesh(m *models.Mesh) {
	p.mesh = m
	if m == nil {
		p.Positions, p.Normals, p.Screen, p.InFront = nil, nil, nil, nil
		return
	}

	n := m.VertexCount()
	p.Positions = make([]float64, n*3)
	p.Normals = make([]float64, n*3)
	p.Screen = make([]ScreenPoint, n)
	p.InFront = make([]bool, n)
}

// Reset drops the mesh reference and every derived array.
func (p *Pipeline) Reset() {
	p.SetMesh(nil)
}

// Mesh returns the current mesh, or nil.
func (p *Pipeline) Mesh() *models.Mesh {
	return p.mesh
}

// SetRotation rebuilds the cached rotation matrix from an orientation.
// Call it only when the orientation has changed.
func (p *Pipeline) SetRotation(q math3d.Quat) {
	p.rotation = q.ToMat4()
}

// Rotation returns the cached rotation matrix.
func (p *Pipeline) Rotation() math3d.Mat4 {
	return p.rotation
}

// Update runs the transform stage for one frame. The rotation matrix is
// rebuilt from orientation only when dirty is set.
func (p *Pipeline) Update(orientation math3d.Quat, dirty bool, cam *Camera, width, height int) {
	if dirty {
		p.SetRotation(orientation)
	}
	p.Transform(cam, width, height)
}

// Transform rotates every vertex position and normal with the cached matrix
// and projects the rotated positions through cam.
func (p *Pipeline) Transform(cam *Camera, width, height int) {
	if p.mesh == nil {
		return
	}

	m := p.rotation
	for i := range p.mesh.VertexCount() {
		pos := m.MulDir(p.mesh.Position(i))
		pos.Put(p.Positions, i)
		m.MulDir(p.mesh.Normal(i)).Put(p.Normals, i)
		p.Screen[i], p.InFront[i] = cam.Project(pos, width, height)
	}
}

// TriangleCount returns the number of triangles of the current mesh.
func (p *Pipeline) TriangleCount() int {
	if p.mesh == nil {
		return 0
	}
	return p.mesh.TriangleCount()
}
