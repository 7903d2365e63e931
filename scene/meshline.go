package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"toy-engine/gpu"
	"toy-engine/shader"
)

// MeshLineOptions configures NewMeshLine. Zero values take the defaults:
// a 1500 unit square split into 10 cells, drawn white when Color is nil.
type MeshLineOptions struct {
	Range     float32
	Divisions int
	Color     *mgl32.Vec3
}

// MeshLine is a reference grid in the XZ plane centered on the origin,
// drawn as lines with its own unlit material.
type MeshLine struct {
	ID       uuid.UUID
	Position []float32
	Color    mgl32.Vec3

	surface    gpu.Surface
	material   *shader.Material
	view       mgl32.Mat4
	projection mgl32.Mat4
}

func NewMeshLine(surface gpu.Surface, opts MeshLineOptions) (*MeshLine, error) {
	if opts.Range == 0 {
		opts.Range = 1500
	}
	if opts.Divisions <= 0 {
		opts.Divisions = 10
	}
	color := mgl32.Vec3{1, 1, 1}
	if opts.Color != nil {
		color = *opts.Color
	}
	m, err := shader.NewMaterial(surface, meshLineSource(), shader.Option{})
	if err != nil {
		return nil, err
	}
	return &MeshLine{
		ID:         uuid.New(),
		Position:   gridLines(opts.Range, opts.Divisions),
		Color:      color,
		surface:    surface,
		material:   m,
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}, nil
}

// gridLines returns line segment endpoints: for every division one line
// along X and one along Z.
func gridLines(size float32, n int) []float32 {
	out := make([]float32, 0, (n+1)*4*3)
	point := func(x, z float32) {
		out = append(out, (x-0.5)*size, 0, (z-0.5)*size)
	}
	for i := 0; i <= n; i++ {
		f := float32(i) / float32(n)
		point(0, f)
		point(1, f)
		point(f, 1)
		point(f, 0)
	}
	return out
}

func meshLineSource() *shader.Source {
	s := shader.NewSource()
	s.AddVariable(shader.Variable{Target: shader.Vertex, Qualifier: shader.Uniform, Type: "mat4", Name: UniformProjection})
	s.AddVariable(shader.Variable{Target: shader.Vertex, Qualifier: shader.Uniform, Type: "mat4", Name: UniformView})
	s.AddVariable(shader.Variable{Target: shader.Fragment, Qualifier: shader.Uniform, Type: "vec3", Name: "u_color"})
	s.AddVariable(shader.Variable{Target: shader.Vertex, Qualifier: shader.Attribute, Type: "vec3", Name: AttrPosition})
	s.VertexMain = `void main() {
    gl_Position = u_proj * u_view * vec4(a_pos, 1.0);
}`
	s.FragmentMain = `out vec4 fragColor;
void main() {
    fragColor = vec4(u_color, 1.0);
}`
	return s
}

func (l *MeshLine) Material() *shader.Material { return l.material }

func (l *MeshLine) SetCamera(view, projection mgl32.Mat4) {
	l.view = view
	l.projection = projection
}

func (l *MeshLine) Render() error {
	m := l.material
	if err := m.SetUniform(UniformProjection, l.projection); err != nil {
		return err
	}
	if err := m.SetUniform(UniformView, l.view); err != nil {
		return err
	}
	if err := m.SetUniform("u_color", l.Color); err != nil {
		return err
	}
	if err := m.SetAttribute(AttrPosition, l.Position, l.ID); err != nil {
		return err
	}
	l.surface.DrawArrays(gpu.Lines, 0, len(l.Position)/3)
	return nil
}
