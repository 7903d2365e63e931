package shader

import (
	"fmt"

	"toy-engine/core"
	"toy-engine/gpu"
)

// Library memoizes materials by option. Equal options always yield the
// same *Material.
type Library struct {
	surface   gpu.Surface
	log       core.Logger
	materials map[string]*Material
}

// NewLibrary returns an empty library compiling on surface. A nil logger
// discards output.
func NewLibrary(surface gpu.Surface, log core.Logger) *Library {
	return &Library{
		surface:   surface,
		log:       core.OrNop(log),
		materials: make(map[string]*Material),
	}
}

// Get returns the material for opt, building it on first request. Failed
// builds are not cached.
func (l *Library) Get(opt Option) (*Material, error) {
	key := opt.Key()
	if m, ok := l.materials[key]; ok {
		return m, nil
	}
	src, err := Build(opt)
	if err != nil {
		return nil, err
	}
	m, err := NewMaterial(l.surface, src, opt)
	if err != nil {
		l.log.Errorf("material %s: %v", opt, err)
		return nil, err
	}
	if l.log.DebugEnabled() {
		l.log.Debugf("material %s\n--- vertex\n%s\n--- fragment\n%s", opt, m.vertex, m.fragment)
	}
	l.materials[key] = m
	return m, nil
}

// Len reports how many materials have been built.
func (l *Library) Len() int { return len(l.materials) }

// Build derives the shader source for opt: base declarations plus the
// defines, declarations and chunks each feature needs. Every numeric
// define on opt is emitted as well.
func Build(opt Option) (*Source, error) {
	if opt.Has(Sampler2D | SamplerCube) {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, opt.Features())
	}
	s := NewSource()
	s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_proj"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_view"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_model"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "mat4", Name: "u_world"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Attribute, Type: "vec3", Name: "a_pos"})
	s.AddVariable(Variable{Target: Vertex, Qualifier: Attribute, Type: "vec3", Name: "a_normal"})
	s.AddVariable(Variable{Target: All, Qualifier: Varying, Type: "vec3", Name: "v_normal"})
	s.AddDefine("VERTEX_COLOR")
	s.AddVariable(Variable{Target: Vertex, Qualifier: Attribute, Type: "vec3", Name: "a_color"})
	s.AddVariable(Variable{Target: All, Qualifier: Varying, Type: "vec3", Name: "v_color"})

	for _, name := range opt.DefineNames() {
		v, _ := opt.Lookup(name)
		s.AddDefineValue(name, v)
	}

	if opt.Has(DirectionalLight) {
		if _, ok := opt.Lookup(NumDirectionalLight); !ok {
			s.AddDefineValue(NumDirectionalLight, 1)
		}
		s.AddDefine("LIGHT")
		s.AddDefine("DIRECTIONAL_LIGHT")
		s.AddVariable(Variable{Target: Fragment, Qualifier: Uniform, Type: "vec3", Name: "u_directionalLights", Length: NumDirectionalLight})
	}
	if opt.Has(SpotLight) {
		s.AddDefine("SPOT_LIGHT")
	}
	if opt.Has(Sampler2D) {
		s.AddDefine("SAMPLER_2D")
		s.AddVariable(Variable{Target: Vertex, Qualifier: Attribute, Type: "vec2", Name: "a_uv"})
		s.AddVariable(Variable{Target: All, Qualifier: Varying, Type: "vec2", Name: "v_uv"})
		s.AddVariable(Variable{Target: Fragment, Qualifier: Uniform, Type: "sampler2D", Name: "u_texture"})
		removeVertexColor(s)
	}
	if opt.Has(SamplerCube) {
		s.AddDefine("SAMPLER_CUBE")
		s.AddVariable(Variable{Target: Vertex, Qualifier: Uniform, Type: "vec3", Name: "u_cubeSize"})
		s.AddVariable(Variable{Target: All, Qualifier: Varying, Type: "vec3", Name: "v_cubeUv"})
		s.AddVariable(Variable{Target: Fragment, Qualifier: Uniform, Type: "samplerCube", Name: "u_cube"})
		removeVertexColor(s)
	}
	return s, nil
}

func removeVertexColor(s *Source) {
	s.RemoveVariable("a_color")
	s.RemoveVariable("v_color")
	s.removeDefine("VERTEX_COLOR")
}
