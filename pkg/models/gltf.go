package models

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/turntable/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a triangle-expanded Mesh.
type GLTFLoader struct {
	// SmoothNormals averages face normals per shared vertex when the file has
	// no NORMAL attribute. Otherwise flat face normals are used.
	SmoothNormals bool
	// FitToUnitBox centers and rescales the loaded mesh.
	FitToUnitBox bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SmoothNormals: true,
		FitToUnitBox:  true,
	}
}

// LoadGLB loads a GLTF or GLB file with the default options.
func LoadGLB(ctx context.Context, path string) (*Mesh, error) {
	return NewGLTFLoader().Load(ctx, path)
}

// Load reads a GLTF or GLB file holding exactly one mesh. All triangle
// primitives of that mesh are merged.
func (l *GLTFLoader) Load(ctx context.Context, path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch len(doc.Meshes) {
	case 0:
		return nil, ErrNoGeometry
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s has %d", ErrMultipleMeshes, filepath.Base(path), len(doc.Meshes))
	}

	mesh := NewMesh(filepath.Base(path), 0)
	src := doc.Meshes[0]
	for i, prim := range src.Primitives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.appendPrimitive(doc, prim, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q primitive %d: %w", src.Name, i, err)
		}
	}

	if mesh.TriangleCount() == 0 {
		return nil, ErrNoGeometry
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.FitToUnitBox {
		mesh.FitToUnitBox()
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// appendPrimitive expands one indexed primitive into the flat arrays.
//
// GLTF is Y-up with the front of a model facing +Z. The renderer's camera
// space has Y growing down the screen and the viewer on the -Z side, so
// positions and normals are rotated 180 degrees about X on the way in.
func (l *GLTFLoader) appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		// Lines and points carry no surface.
		return nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	pos := make([]math3d.Vec3, len(positions))
	for i, p := range positions {
		pos[i] = math3d.V3(float64(p[0]), -float64(p[1]), -float64(p[2]))
	}

	var norm []math3d.Vec3
	switch {
	case len(normals) == len(positions):
		norm = make([]math3d.Vec3, len(normals))
		for i, n := range normals {
			norm[i] = math3d.V3(float64(n[0]), -float64(n[1]), -float64(n[2]))
		}
	case l.SmoothNormals:
		norm = smoothNormals(pos, indices)
	}

	tris := len(indices) / 3
	for t := range tris {
		var (
			p  [3]math3d.Vec3
			uv [3]math3d.Vec2
			n  [3]math3d.Vec3
		)
		for k := range 3 {
			vi := int(indices[t*3+k])
			if vi >= len(pos) {
				return fmt.Errorf("index %d out of range for %d vertices", vi, len(pos))
			}
			p[k] = pos[vi]
			if vi < len(uvs) {
				uv[k] = math3d.V2(float64(uvs[vi][0]), float64(uvs[vi][1]))
			}
			if norm != nil {
				n[k] = norm[vi]
			}
		}
		mesh.AddTriangle(p, uv, n)
	}

	// Flat normals for anything still missing one.
	mesh.FillFlatNormals()
	return nil
}

// smoothNormals accumulates unnormalized face normals per shared vertex.
func smoothNormals(pos []math3d.Vec3, indices []uint32) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(pos))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if a >= len(pos) || b >= len(pos) || c >= len(pos) {
			continue
		}
		face := pos[b].Sub(pos[a]).Cross(pos[c].Sub(pos[a]))
		out[a] = out[a].Add(face)
		out[b] = out[b].Add(face)
		out[c] = out[c].Add(face)
	}
	for i := range out {
		out[i] = out[i].Normalize()
	}
	return out
}

// EmbeddedImage returns the encoded bytes of the first image referenced by
// a GLTF/GLB file, either embedded in a buffer view or stored next to the
// file. hint is the image's MIME type, or its file extension when the file
// does not declare one. It returns nil data without error when the file has
// no usable image.
func EmbeddedImage(path string) (data []byte, hint string, err error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open gltf: %w", err)
	}

	for _, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
				continue
			}
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			data, err = os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
			if err != nil {
				continue
			}
		default:
			continue
		}

		hint = img.MimeType
		if hint == "" {
			hint = filepath.Ext(img.URI)
		}
		return data, hint, nil
	}
	return nil, "", nil
}
