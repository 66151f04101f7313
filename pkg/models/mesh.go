// Package models provides mesh representation and loading for turntable.
//
// Meshes are stored non-indexed: every triangle owns its three vertices, and
// attributes live in flat parallel arrays so the renderer can walk them
// without per-vertex allocation.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/turntable/pkg/math3d"
)

var (
	// ErrInvalidMesh is returned when attribute arrays disagree in length.
	ErrInvalidMesh = errors.New("invalid mesh")
	// ErrMultipleMeshes is returned when a file holds more than one mesh.
	ErrMultipleMeshes = errors.New("file contains more than one mesh")
	// ErrNoGeometry is returned when a file holds no triangles.
	ErrNoGeometry = errors.New("file contains no triangle geometry")
)

// Mesh is a triangle-expanded mesh with flat attribute arrays.
//
// Positions and Normals hold 3 floats per vertex, UVs hold 2. Vertex 3t,
// 3t+1 and 3t+2 form triangle t.
type Mesh struct {
	Name      string
	Positions []float64
	UVs       []float64
	Normals   []float64

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh with room for the given triangle count.
func NewMesh(name string, triangles int) *Mesh {
	return &Mesh{
		Name:      name,
		Positions: make([]float64, 0, triangles*9),
		UVs:       make([]float64, 0, triangles*6),
		Normals:   make([]float64, 0, triangles*9),
	}
}

// AddTriangle appends one triangle with its per-vertex attributes.
func (m *Mesh) AddTriangle(p [3]math3d.Vec3, uv [3]math3d.Vec2, n [3]math3d.Vec3) {
	for i := range 3 {
		m.Positions = append(m.Positions, p[i].X, p[i].Y, p[i].Z)
		m.UVs = append(m.UVs, uv[i].X, uv[i].Y)
		m.Normals = append(m.Normals, n[i].X, n[i].Y, n[i].Z)
	}
}

// Validate checks the array length invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%9 != 0 {
		return fmt.Errorf("%w: %d position floats is not a whole number of triangles", ErrInvalidMesh, len(m.Positions))
	}
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normal floats for %d position floats", ErrInvalidMesh, len(m.Normals), len(m.Positions))
	}
	if len(m.UVs) != len(m.Positions)/3*2 {
		return fmt.Errorf("%w: %d uv floats for %d vertices", ErrInvalidMesh, len(m.UVs), len(m.Positions)/3)
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 9
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math3d.Vec3 {
	return math3d.Vec3At(m.Positions, i)
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) math3d.Vec3 {
	return math3d.Vec3At(m.Normals, i)
}

// UV returns the texture coordinate of vertex i.
func (m *Mesh) UV(i int) math3d.Vec2 {
	return math3d.Vec2At(m.UVs, i)
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	n := m.VertexCount()
	if n == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Position(0)
	m.BoundsMax = m.BoundsMin
	for i := 1; i < n; i++ {
		p := m.Position(i)
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// FitToUnitBox centers the mesh on the origin and scales it uniformly so the
// longest bounding box side equals 2. Normals are unaffected by a uniform
// scale and translation.
func (m *Mesh) FitToUnitBox() {
	m.CalculateBounds()
	center := m.Center()
	maxDim := m.Size().MaxComponent()
	if maxDim <= 0 {
		return
	}

	scale := 2.0 / maxDim
	for i := range m.VertexCount() {
		m.Position(i).Sub(center).Scale(scale).Put(m.Positions, i)
	}
	m.CalculateBounds()
}

// FillFlatNormals assigns the face normal to every vertex whose normal is
// zero length.
func (m *Mesh) FillFlatNormals() {
	for t := range m.TriangleCount() {
		v0 := m.Position(t * 3)
		v1 := m.Position(t*3 + 1)
		v2 := m.Position(t*3 + 2)
		face := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		for k := range 3 {
			if m.Normal(t*3+k).Len() < 1e-6 {
				face.Put(m.Normals, t*3+k)
			}
		}
	}
}
