package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/math"
)

// Perspective describes a perspective projection. FovY is in degrees.
type Perspective struct {
	FovY float32
	Near float32
	Far  float32
}

// Matrix returns the projection for a width x height surface.
func (p Perspective) Matrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(math.DegToRad(p.FovY), aspect, p.Near, p.Far)
}

// Camera looks from Position at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

func NewCamera(position, target mgl32.Vec3) *Camera {
	return &Camera{Position: position, Target: target, Up: math.Vec3Up}
}

// View returns the look-at view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// LookAt points the camera at the world position of m.
func (c *Camera) LookAt(m *Model) {
	c.Target = m.Position()
}

// Orbit rotates the camera around its target by yaw about the up axis and
// pitch toward it, both in radians. Pitch stops short of the poles.
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Position.Sub(c.Target)
	r := offset.Len()
	if r == 0 {
		return
	}
	theta := math32.Atan2(offset.X(), offset.Z()) + yaw
	phi := math32.Asin(mgl32.Clamp(offset.Y()/r, -1, 1)) + pitch
	const limit = math32.Pi/2 - 0.01
	phi = mgl32.Clamp(phi, -limit, limit)
	c.Position = c.Target.Add(mgl32.Vec3{
		r * math32.Cos(phi) * math32.Sin(theta),
		r * math32.Sin(phi),
		r * math32.Cos(phi) * math32.Cos(theta),
	})
}

// Zoom scales the distance to the target by factor.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Position = c.Target.Add(c.Position.Sub(c.Target).Mul(factor))
}

// Pan moves camera and target together.
func (c *Camera) Pan(delta mgl32.Vec3) {
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
}
