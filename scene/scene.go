package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/gpu"
	"toy-engine/math"
	"toy-engine/shader"
)

// Attribute and uniform names the walker feeds.
const (
	AttrPosition = "a_pos"
	AttrNormal   = "a_normal"
	AttrColor    = "a_color"
	AttrUV       = "a_uv"

	UniformProjection = "u_proj"
	UniformView       = "u_view"
	UniformModel      = "u_model"
	UniformWorld      = "u_world"
	UniformCube       = "u_cube"
	UniformCubeSize   = "u_cubeSize"
	UniformTexture    = "u_texture"
)

// Scene draws a list of root models, and their children, through one
// material.
type Scene struct {
	surface  gpu.Surface
	material *shader.Material
	models   []*Model

	// Lights, when set, are written into the material before each draw
	// pass.
	Lights *Lights

	projection mgl32.Mat4
	view       mgl32.Mat4
}

func NewScene(surface gpu.Surface, material *shader.Material, models ...*Model) *Scene {
	return &Scene{
		surface:    surface,
		material:   material,
		models:     models,
		projection: mgl32.Ident4(),
		view:       mgl32.Ident4(),
	}
}

// AddModel appends root models. They are drawn as siblings.
func (s *Scene) AddModel(models ...*Model) {
	s.models = append(s.models, models...)
}

func (s *Scene) Models() []*Model { return s.models }

func (s *Scene) Material() *shader.Material { return s.material }

// SetMaterial swaps the material used for the next Render.
func (s *Scene) SetMaterial(m *shader.Material) { s.material = m }

func (s *Scene) SetCamera(view, projection mgl32.Mat4) {
	s.view = view
	s.projection = projection
}

// Render binds the camera once, then draws every root model and its
// descendants depth first, parents before children. Each child's world
// transform is its parent's composed transform times its own local one.
func (s *Scene) Render() error {
	m := s.material
	if m == nil {
		return fmt.Errorf("scene has no material")
	}
	if err := m.SetUniform(UniformProjection, s.projection); err != nil {
		return err
	}
	if err := m.SetUniform(UniformView, s.view); err != nil {
		return err
	}
	if s.Lights != nil {
		if err := s.Lights.Apply(m); err != nil {
			return err
		}
	}
	for _, x := range s.models {
		if err := s.draw(x, x.Local()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) draw(x *Model, world mgl32.Mat4) error {
	m := s.material
	if m.HasUniform(UniformModel) {
		if err := m.SetUniform(UniformModel, world); err != nil {
			return err
		}
	}
	if m.HasUniform(UniformWorld) {
		if err := m.SetUniform(UniformWorld, math.StripTranslation(world)); err != nil {
			return err
		}
	}
	if err := s.bindVertexData(x); err != nil {
		return fmt.Errorf("%s %s: %w", x.Type, x.ID, err)
	}
	x.Render(s.surface)

	for _, c := range x.children {
		if err := s.draw(c, world.Mul4(c.local)); err != nil {
			return err
		}
	}
	return nil
}

// bindVertexData feeds only the attributes the material declares. A
// ready texture the material can sample replaces the color buffer.
// Declared attributes the node has no data for are disabled.
func (s *Scene) bindVertexData(x *Model) error {
	m := s.material
	g := x.Geometry
	if g == nil {
		g = &Geometry{}
	}

	textured, err := s.bindTexture(x)
	if err != nil {
		return err
	}
	if m.HasAttribute(AttrColor) {
		if err := s.bindOptional(AttrColor, x.Color, !textured && len(x.Color) > 0, x); err != nil {
			return err
		}
	}
	if m.HasAttribute(AttrUV) {
		if err := s.bindOptional(AttrUV, g.UV, textured && len(g.UV) > 0, x); err != nil {
			return err
		}
	}
	if m.HasAttribute(AttrNormal) {
		if err := m.SetAttribute(AttrNormal, g.Normal, x.ID); err != nil {
			return err
		}
	}
	return m.SetAttribute(AttrPosition, g.Position, x.ID)
}

func (s *Scene) bindOptional(name string, data []float32, use bool, x *Model) error {
	if !use {
		return s.material.DisableAttribute(name)
	}
	return s.material.SetAttribute(name, data, x.ID)
}

func (s *Scene) bindTexture(x *Model) (bool, error) {
	m := s.material
	t := x.Texture
	if t == nil || !m.Option().Has(t.Feature()) || !t.Bind(s.surface, 0) {
		return false, nil
	}
	switch t.Feature() {
	case shader.SamplerCube:
		if err := m.SetUniform(UniformCube, 0); err != nil {
			return false, err
		}
		if err := m.SetUniform(UniformCubeSize, x.Size); err != nil {
			return false, err
		}
	case shader.Sampler2D:
		if err := m.SetUniform(UniformTexture, 0); err != nil {
			return false, err
		}
	}
	return true, nil
}
