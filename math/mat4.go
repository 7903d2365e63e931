package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Translation returns the translation column of m.
func Translation(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// StripTranslation returns m with its translation column zeroed. The
// result transforms directions (normals, light vectors) the way m does.
func StripTranslation(m mgl32.Mat4) mgl32.Mat4 {
	m[12], m[13], m[14] = 0, 0, 0
	return m
}

// Inverse returns the inverse of m. A singular matrix inverts to the
// identity and ok is false.
func Inverse(m mgl32.Mat4) (inv mgl32.Mat4, ok bool) {
	if m.Det() == 0 {
		return mgl32.Ident4(), false
	}
	return m.Inv(), true
}

// ApproxEqual reports whether every component of a and b differ by at
// most eps.
func ApproxEqual(a, b mgl32.Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// DegToRad converts degrees to radians.
func DegToRad(d float32) float32 {
	return d * math32.Pi / 180
}

// TransformPoint applies m to the point p (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// TransformDirection applies the rotation/scale part of m to d (w = 0).
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(d, m)
}
