package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/math"
)

// NewAssembly merges parts into one model. Each part's local transform
// is baked into its positions and normals; parts with an identity
// transform are copied as they are. Children of the parts are ignored.
// When any part is colored, parts without a full color buffer are padded
// with black so colors stay aligned with positions.
func NewAssembly(parts ...*Model) *Model {
	g := &Geometry{}
	colored := false
	for _, p := range parts {
		colored = colored || len(p.Color) > 0
	}
	var color []float32
	for _, p := range parts {
		if p.Geometry == nil {
			continue
		}
		if colored {
			n := len(p.Geometry.Position)
			c := p.Color
			if len(c) != n {
				c = make([]float32, n)
				copy(c, p.Color)
			}
			color = append(color, c...)
		}
		g.Faces += p.Geometry.Faces
		local := p.Local()
		if local == mgl32.Ident4() {
			g.Position = append(g.Position, p.Geometry.Position...)
			g.Normal = append(g.Normal, p.Geometry.Normal...)
			continue
		}
		for i := 0; i+2 < len(p.Geometry.Position); i += 3 {
			pos := math.TransformPoint(local, math.Vec3FromSlice(p.Geometry.Position[i:]))
			g.Position = append(g.Position, pos[:]...)
		}
		for i := 0; i+2 < len(p.Geometry.Normal); i += 3 {
			n := math.TransformDirection(local, math.Vec3FromSlice(p.Geometry.Normal[i:]))
			if n.Len() > 0 {
				n = n.Normalize()
			}
			g.Normal = append(g.Normal, n[:]...)
		}
	}

	m := NewModel(g)
	m.Type = "Assembly"
	m.Color = color
	return m
}
