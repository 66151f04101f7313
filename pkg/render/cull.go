package render

import "github.com/taigrr/turntable/pkg/math3d"

// CullThreshold is the view/normal dot product at or above which a triangle
// is treated as back-facing. The product is not normalized by distance.
const CullThreshold = 1.0

// IsBackFace reports whether a triangle with the given vertex position and
// normal faces away from a camera at camPos.
func IsBackFace(pos, normal, camPos math3d.Vec3) bool {
	return pos.Sub(camPos).Dot(normal.Normalize()) >= CullThreshold
}
