package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BoxOptions configures NewBox. Zero dimensions default to 100.
type BoxOptions struct {
	X, Y, Z float32
	// Color is nil for no color buffer.
	Color   Coloring
	Reverse bool
}

type boxKey struct {
	X, Y, Z float32
	Reverse bool
}

// NewBox returns a box spanning the origin to (X, Y, Z): six faces in
// front, back, right, left, top, bottom order with flat normals. Boxes
// with equal dimensions and winding share geometry through cache.
func NewBox(cache *GeometryCache, opts BoxOptions) (*Model, error) {
	if opts.X == 0 {
		opts.X = 100
	}
	if opts.Y == 0 {
		opts.Y = 100
	}
	if opts.Z == 0 {
		opts.Z = 100
	}
	key := ShapeKey("box", boxKey{opts.X, opts.Y, opts.Z, opts.Reverse})
	g, err := cache.Get(key, func() (*Geometry, error) {
		return boxGeometry(opts.X, opts.Y, opts.Z, opts.Reverse)
	})
	if err != nil {
		return nil, err
	}

	m := NewModel(g)
	m.Type = "Box"
	m.Size = mgl32.Vec3{opts.X, opts.Y, opts.Z}
	if opts.Color != nil {
		m.FillColor(opts.Color)
	}
	return m, nil
}

func boxGeometry(x, y, z float32, reverse bool) (*Geometry, error) {
	v := func(a, b, c float32) mgl32.Vec3 { return mgl32.Vec3{a, b, c} }
	faces := [][]float32{
		// front
		Quad(v(x, y, z), v(0, y, z), v(0, 0, z), v(x, 0, z), reverse),
		// back
		Quad(v(x, y, 0), v(x, 0, 0), v(0, 0, 0), v(0, y, 0), reverse),
		// right
		Quad(v(x, y, z), v(x, 0, z), v(x, 0, 0), v(x, y, 0), reverse),
		// left
		Quad(v(0, y, z), v(0, y, 0), v(0, 0, 0), v(0, 0, z), reverse),
		// top
		Quad(v(x, y, 0), v(0, y, 0), v(0, y, z), v(x, y, z), reverse),
		// bottom
		Quad(v(0, 0, 0), v(x, 0, 0), v(x, 0, z), v(0, 0, z), reverse),
	}
	g, err := FromFaces(faces)
	if err != nil {
		return nil, err
	}
	g.UV = make([]float32, 0, len(faces)*6*2)
	for range faces {
		g.UV = append(g.UV, quadUV(reverse)...)
	}
	return g, nil
}

func quadUV(reverse bool) []float32 {
	a, b, c, d := [2]float32{1, 1}, [2]float32{0, 1}, [2]float32{0, 0}, [2]float32{1, 0}
	tri := [6][2]float32{a, b, c, a, c, d}
	if reverse {
		tri = [6][2]float32{c, b, a, d, c, a}
	}
	out := make([]float32, 0, 12)
	for _, uv := range tri {
		out = append(out, uv[:]...)
	}
	return out
}
