package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"toy-engine/gpu"
	"toy-engine/math"
	"toy-engine/shader"
)

const uniformSkyboxInverse = "u_viewDirectionProjectionInverse"

// skyQuad covers the whole viewport in clip space.
var skyQuad = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	-1, 1,
	1, -1,
	1, 1,
}

// SkyBox draws a cube texture behind everything else. The quad sits on
// the far plane and each fragment samples along its view ray, so camera
// translation has no effect.
type SkyBox struct {
	ID      uuid.UUID
	Texture *CubeTexture

	surface    gpu.Surface
	material   *shader.Material
	view       mgl32.Mat4
	projection mgl32.Mat4
}

func NewSkyBox(surface gpu.Surface, tex *CubeTexture) (*SkyBox, error) {
	m, err := shader.NewMaterial(surface, skyBoxSource(), shader.NewOption(shader.SamplerCube))
	if err != nil {
		return nil, err
	}
	return &SkyBox{
		ID:         uuid.New(),
		Texture:    tex,
		surface:    surface,
		material:   m,
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}, nil
}

func skyBoxSource() *shader.Source {
	s := shader.NewSource()
	s.AddVariable(shader.Variable{Target: shader.Vertex, Qualifier: shader.Attribute, Type: "vec2", Name: AttrPosition})
	s.AddVariable(shader.Variable{Target: shader.All, Qualifier: shader.Varying, Type: "vec4", Name: "v_pos"})
	s.AddVariable(shader.Variable{Target: shader.Fragment, Qualifier: shader.Uniform, Type: "samplerCube", Name: "u_skybox"})
	s.AddVariable(shader.Variable{Target: shader.Fragment, Qualifier: shader.Uniform, Type: "mat4", Name: uniformSkyboxInverse})
	s.VertexMain = `void main() {
    v_pos = vec4(a_pos, 1.0, 1.0);
    gl_Position = v_pos;
}`
	s.FragmentMain = `out vec4 fragColor;
void main() {
    vec4 t = u_viewDirectionProjectionInverse * v_pos;
    fragColor = texture(u_skybox, normalize(t.xyz / t.w));
}`
	return s
}

func (b *SkyBox) Material() *shader.Material { return b.material }

func (b *SkyBox) SetCamera(view, projection mgl32.Mat4) {
	b.view = view
	b.projection = projection
}

// Render draws nothing until the cube texture has loaded.
func (b *SkyBox) Render() error {
	if b.Texture == nil || !b.Texture.Bind(b.surface, 0) {
		return nil
	}
	m := b.material
	if err := m.SetAttribute(AttrPosition, skyQuad, b.ID); err != nil {
		return err
	}
	inv, _ := math.Inverse(b.projection.Mul4(math.StripTranslation(b.view)))
	if err := m.SetUniform(uniformSkyboxInverse, inv); err != nil {
		return err
	}
	if err := m.SetUniform("u_skybox", 0); err != nil {
		return err
	}
	b.surface.DepthFunc(gpu.DepthLessEqual)
	b.surface.DrawArrays(gpu.Triangles, 0, len(skyQuad)/2)
	b.surface.DepthFunc(gpu.DepthLess)
	return nil
}
