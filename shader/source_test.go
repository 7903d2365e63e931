package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionEquality(t *testing.T) {
	a := NewOption(DirectionalLight)
	a.Define("A", 1)
	a.Define("B", 2)

	b := NewOption()
	b.Set(DirectionalLight)
	b.Define("B", 2)
	b.Define("A", 1)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())

	b.Define("B", 3)
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Key(), b.Key())

	assert.False(t, NewOption(SamplerCube).Equal(NewOption(Sampler2D)))
}

func TestOptionDefineCopyOnWrite(t *testing.T) {
	a := NewOption()
	a.Define("A", 1)
	b := a
	b.Define("A", 2)

	v, _ := a.Lookup("A")
	assert.Equal(t, 1, v)
	v, _ = b.Lookup("A")
	assert.Equal(t, 2, v)
}

func TestOptionHas(t *testing.T) {
	o := NewOption(DirectionalLight, SamplerCube)
	assert.True(t, o.Has(DirectionalLight))
	assert.True(t, o.Has(DirectionalLight|SamplerCube))
	assert.False(t, o.Has(DirectionalLight|Sampler2D))
	assert.Equal(t, "DIRECTIONAL_LIGHT|SAMPLER_CUBE", o.Features().String())
}

func TestOutputDeterministic(t *testing.T) {
	opt := NewOption(DirectionalLight)
	opt.Define(NumDirectionalLight, 3)

	s1, err := Build(opt)
	require.NoError(t, err)
	s2, err := Build(opt)
	require.NoError(t, err)

	v1, f1, err := s1.Output()
	require.NoError(t, err)
	v2, f2, err := s2.Output()
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, f1, f2)

	assert.True(t, strings.HasPrefix(v1, GLSLVersion+"\n"))
	assert.Contains(t, f1, "#define NUM_DIRECTIONAL_LIGHT 3")
	assert.Contains(t, f1, "uniform vec3 u_directionalLights[NUM_DIRECTIONAL_LIGHT];")
	assert.Contains(t, f1, "float lightFactor(")
	assert.Contains(t, f1, "color.rgb *= directionalLight(normal);")
}

func TestDeclarationsOrderedByQualifier(t *testing.T) {
	s := NewSource()
	s.AddVariable(Variable{Target: Vertex, Qualifier: Attribute, Type: "vec3", Name: "a_pos"})
	s.AddVariable(Variable{Target: All, Qualifier: Varying, Type: "vec3", Name: "v_normal"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_model"})
	s.VertexMain = "void main() {}"
	s.FragmentMain = "void main() {}"

	vertex, fragment, err := s.Output()
	require.NoError(t, err)

	attr := strings.Index(vertex, "in vec3 a_pos;")
	varying := strings.Index(vertex, "out vec3 v_normal;")
	uniform := strings.Index(vertex, "uniform mat4 u_model;")
	require.True(t, attr >= 0 && varying >= 0 && uniform >= 0, vertex)
	// varying and uniform share a keyword length and keep insertion order
	assert.Less(t, varying, uniform)
	assert.Less(t, uniform, attr)

	assert.Contains(t, fragment, "in vec3 v_normal;")
	assert.NotContains(t, fragment, "a_pos")
	assert.NotContains(t, fragment, "u_model")
}

func TestDuplicateVariableKeptOnce(t *testing.T) {
	s := NewSource()
	v := Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_model"}
	s.AddVariable(v)
	s.AddVariable(v)
	assert.Len(t, s.Variables(), 1)

	s.RemoveVariable("u_model")
	assert.False(t, s.HasVariable("u_model"))
}

func TestIncludeExpansion(t *testing.T) {
	s := NewSource()
	s.RegisterChunk(Chunk{Name: "outer", Body: "// outer\n#include <inner>"})
	s.RegisterChunk(Chunk{Name: "inner", Body: "// inner"})
	s.RegisterChunk(Chunk{Name: "guarded", Guard: "WANT_GUARDED", Body: "// guarded\n#include <does_not_exist>"})
	s.VertexMain = "#include <outer>\n#include <guarded>"
	s.FragmentMain = ""

	vertex, _, err := s.Output()
	require.NoError(t, err)
	assert.Contains(t, vertex, "// outer\n// inner\n")
	assert.NotContains(t, vertex, "guarded")
	assert.NotContains(t, vertex, "#include")
}

func TestMissingChunk(t *testing.T) {
	s := NewSource()
	s.FragmentMain = "#include <nope>"

	_, _, err := s.Output()
	require.ErrorIs(t, err, ErrMissingChunk)
	assert.Contains(t, err.Error(), "nope")
}

func TestCircularInclude(t *testing.T) {
	s := NewSource()
	s.RegisterChunk(Chunk{Name: "a", Body: "#include <b>"})
	s.RegisterChunk(Chunk{Name: "b", Body: "#include <a>"})
	s.VertexMain = "#include <a>"

	_, _, err := s.Output()
	assert.ErrorIs(t, err, ErrCircularInclude)
}

func TestIncludeDepthLimit(t *testing.T) {
	s := NewSource()
	names := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8"}
	for i, name := range names {
		body := "// " + name
		if i+1 < len(names) {
			body += "\n#include <" + names[i+1] + ">"
		}
		s.RegisterChunk(Chunk{Name: name, Body: body})
	}

	s.VertexMain = "#include <c1>"
	_, _, err := s.Output()
	require.NoError(t, err)

	s.VertexMain = "#include <c0>"
	_, _, err = s.Output()
	assert.ErrorIs(t, err, ErrCircularInclude)
}

func TestBuildSamplerCubeDropsVertexColor(t *testing.T) {
	src, err := Build(NewOption(SamplerCube))
	require.NoError(t, err)
	assert.False(t, src.HasVariable("a_color"))
	assert.False(t, src.HasVariable("v_color"))
	assert.True(t, src.HasVariable("u_cube"))
	assert.True(t, src.Defined("SAMPLER_CUBE"))
	assert.False(t, src.Defined("VERTEX_COLOR"))

	vertex, fragment, err := src.Output()
	require.NoError(t, err)
	assert.Contains(t, vertex, "v_cubeUv = cubeUv(a_pos);")
	assert.Contains(t, fragment, "texture(u_cube, normalize(v_cubeUv))")
	assert.NotContains(t, vertex, "a_color")
}

func TestBuildSampler2DWithCubeNotImplemented(t *testing.T) {
	_, err := Build(NewOption(Sampler2D, SamplerCube))
	assert.ErrorIs(t, err, ErrNotImplemented)
}
