package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

var (
	Vec3Zero  = mgl32.Vec3{0, 0, 0}
	Vec3One   = mgl32.Vec3{1, 1, 1}
	Vec3Up    = mgl32.Vec3{0, 1, 0}
	Vec3Front = mgl32.Vec3{0, 0, 1}
)

// Vec3FromSlice reads the first three components of s.
func Vec3FromSlice(s []float32) mgl32.Vec3 {
	return mgl32.Vec3{s[0], s[1], s[2]}
}

// FaceNormal returns the unit normal of the triangle a, b, c using the
// right-hand rule on (b-a) x (c-a). Degenerate triangles yield zero.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return Vec3Zero
	}
	return n.Normalize()
}
