package scene

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/shader"
)

// DirectionalLightUniform is the array uniform directional lights are
// written to.
const DirectionalLightUniform = "u_directionalLights"

// DirectionalLight is a light infinitely far away. Direction points from
// the scene toward the light.
type DirectionalLight struct {
	Direction mgl32.Vec3
}

// NewDirectionalLight returns a light in direction dir, or straight
// overhead when dir is zero.
func NewDirectionalLight(dir mgl32.Vec3) *DirectionalLight {
	if dir == (mgl32.Vec3{}) {
		dir = mgl32.Vec3{0, 1, 0}
	}
	return &DirectionalLight{Direction: dir}
}

// Lights is the set of lights injected into a material each frame.
type Lights struct {
	directional []*DirectionalLight
}

// AddDirectional appends lights. Adding the same light twice keeps one.
func (l *Lights) AddDirectional(lights ...*DirectionalLight) {
	for _, d := range lights {
		if d == nil {
			continue
		}
		dup := false
		for _, e := range l.directional {
			if e == d {
				dup = true
				break
			}
		}
		if !dup {
			l.directional = append(l.directional, d)
		}
	}
}

func (l *Lights) Directional() []*DirectionalLight { return l.directional }

// Option returns the shader features the registered lights need, sized
// by light count. Merge it into a model option before asking the library
// for a material.
func (l *Lights) Option(base shader.Option) shader.Option {
	if len(l.directional) > 0 {
		base.Set(shader.DirectionalLight)
		base.Define(shader.NumDirectionalLight, len(l.directional))
	}
	return base
}

// Apply writes every light into m. Materials built without light
// support are left alone.
func (l *Lights) Apply(m *shader.Material) error {
	if !m.Option().Has(shader.DirectionalLight) {
		return nil
	}
	for i, d := range l.directional {
		name := DirectionalLightUniform + "[" + strconv.Itoa(i) + "]"
		if !m.HasUniform(name) {
			break
		}
		if err := m.SetUniform(name, d.Direction); err != nil {
			return err
		}
	}
	return nil
}
