package scene

import (
	"errors"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"toy-engine/gpu"
	"toy-engine/math"
)

// ErrCycle is returned by AddChild when the child is the model itself or
// one of its ancestors.
var ErrCycle = errors.New("scene graph cycle")

// Model is a drawable scene-graph node. A model owns its children; the
// parent link is only used to resolve the world transform.
type Model struct {
	ID        uuid.UUID
	Type      string
	Primitive gpu.Primitive
	Geometry  *Geometry
	// Color holds three components per vertex. It may be replaced at any
	// time; the walker uploads a new slice on the next frame.
	Color []float32
	Size  mgl32.Vec3
	// Texture replaces the color attribute once it is ready.
	Texture Texture

	local    mgl32.Mat4
	stack    []mgl32.Mat4
	parent   *Model
	children []*Model
}

// NewModel returns a triangle model over g with an identity transform.
func NewModel(g *Geometry) *Model {
	return &Model{
		ID:        uuid.New(),
		Type:      "Model",
		Primitive: gpu.Triangles,
		Geometry:  g,
		local:     mgl32.Ident4(),
	}
}

// Local returns the local transform.
func (m *Model) Local() mgl32.Mat4 { return m.local }

// SetLocal replaces the local transform and returns it.
func (m *Model) SetLocal(t mgl32.Mat4) mgl32.Mat4 {
	m.local = t
	return m.local
}

// SetLocalFunc replaces the local transform with whatever build leaves in
// a fresh identity matrix.
func (m *Model) SetLocalFunc(build func(t *mgl32.Mat4)) mgl32.Mat4 {
	return m.SetLocal(buildMat(build))
}

// Push right-multiplies the local transform by t and records t so Pop
// can undo it.
func (m *Model) Push(t mgl32.Mat4) {
	m.stack = append(m.stack, t)
	m.local = m.local.Mul4(t)
}

// PushFunc pushes the matrix build leaves in a fresh identity matrix.
func (m *Model) PushFunc(build func(t *mgl32.Mat4)) {
	m.Push(buildMat(build))
}

// PushIdentity records an identity placeholder. It balances a later Pop
// when the caller changed the transform through SetLocal instead.
func (m *Model) PushIdentity() {
	m.stack = append(m.stack, mgl32.Ident4())
}

// Pop undoes the last Push by right-multiplying with its inverse. Popping
// an empty stack does nothing.
func (m *Model) Pop() {
	if len(m.stack) == 0 {
		return
	}
	t := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	inv, _ := math.Inverse(t)
	m.local = m.local.Mul4(inv)
}

// StackDepth is the number of pushed matrices.
func (m *Model) StackDepth() int { return len(m.stack) }

func buildMat(build func(t *mgl32.Mat4)) mgl32.Mat4 {
	t := mgl32.Ident4()
	if build != nil {
		build(&t)
	}
	return t
}

// World composes the local transforms from the root down to m. It is
// computed on every call.
func (m *Model) World() mgl32.Mat4 {
	if m.parent == nil {
		return m.local
	}
	return m.parent.World().Mul4(m.local)
}

// Position is the world-space origin of the model.
func (m *Model) Position() mgl32.Vec3 {
	return math.Translation(m.World())
}

func (m *Model) Parent() *Model { return m.parent }

// Children returns the children in insertion order.
func (m *Model) Children() []*Model { return slices.Clone(m.children) }

// AddChild attaches children to m, detaching each from its previous
// parent first. Nothing is attached if any child would form a cycle.
func (m *Model) AddChild(children ...*Model) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		for a := m; a != nil; a = a.parent {
			if a == c {
				return ErrCycle
			}
		}
	}
	for _, c := range children {
		if c == nil || c.parent == m {
			continue
		}
		if c.parent != nil {
			c.parent.RemoveChild(c)
		}
		c.parent = m
		m.children = append(m.children, c)
	}
	return nil
}

// RemoveChild detaches child and reports whether it was attached to m.
func (m *Model) RemoveChild(child *Model) bool {
	i := slices.Index(m.children, child)
	if i < 0 {
		return false
	}
	m.children = slices.Delete(m.children, i, i+1)
	child.parent = nil
	return true
}

// Traverse visits m and its descendants depth first, parents before
// children.
func (m *Model) Traverse(fn func(*Model)) {
	fn(m)
	for _, c := range m.children {
		c.Traverse(fn)
	}
}

// Faces is the number of six-vertex faces in the geometry.
func (m *Model) Faces() int {
	if m.Geometry == nil {
		return 0
	}
	return m.Geometry.Faces
}

// FillColor replaces the color buffer using c.
func (m *Model) FillColor(c Coloring) {
	m.Color = c.Colors(m.Faces())
}

// FillRandomColor gives every face a random color scaled by factor.
func (m *Model) FillRandomColor(factor float32) {
	m.FillColor(RandomColors{Factor: factor})
}

// VertexCount is the number of vertices drawn by Render.
func (m *Model) VertexCount() int {
	return m.Geometry.VertexCount()
}

// Render issues one draw call covering the whole geometry.
func (m *Model) Render(s gpu.Surface) {
	if n := m.VertexCount(); n > 0 {
		s.DrawArrays(m.Primitive, 0, n)
	}
}
