package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-engine/math"
)

func TestRootWorldIsLocal(t *testing.T) {
	root := NewModel(nil)
	root.SetLocal(mgl32.Translate3D(10, 0, 0))

	assert.Equal(t, root.Local(), root.World())
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, math.Translation(root.World()))
}

func TestChildWorldComposesParent(t *testing.T) {
	root := NewModel(nil)
	root.SetLocal(mgl32.Translate3D(10, 0, 0))
	child := NewModel(nil)
	child.SetLocal(mgl32.Translate3D(0, 5, 0))
	require.NoError(t, root.AddChild(child))

	assert.Equal(t, mgl32.Vec3{10, 5, 0}, child.Position())

	grandchild := NewModel(nil)
	grandchild.SetLocalFunc(func(m *mgl32.Mat4) {
		*m = m.Mul4(mgl32.HomogRotate3DY(1))
	})
	require.NoError(t, child.AddChild(grandchild))
	assert.True(t, math.ApproxEqual(child.World().Mul4(grandchild.Local()), grandchild.World(), 1e-6))

	// ancestors are read on every call
	root.SetLocal(mgl32.Translate3D(-1, 0, 0))
	assert.Equal(t, mgl32.Vec3{-1, 5, 0}, child.Position())
}

func TestPushPopRestores(t *testing.T) {
	m := NewModel(nil)
	m.Push(mgl32.Translate3D(1, 1, 1))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, math.Translation(m.Local()))
	m.Pop()
	assert.True(t, math.ApproxEqual(mgl32.Ident4(), m.Local(), 1e-6))
	assert.Equal(t, 0, m.StackDepth())
}

func TestPushPopNested(t *testing.T) {
	m := NewModel(nil)
	start := mgl32.Translate3D(3, -2, 7).Mul4(mgl32.HomogRotate3DX(0.3))
	m.SetLocal(start)

	m.Push(mgl32.HomogRotate3DZ(1.2))
	m.PushFunc(func(t *mgl32.Mat4) {
		*t = mgl32.Translate3D(4, 0, 0).Mul4(mgl32.Scale3D(2, 2, 2))
	})
	afterA := start.Mul4(mgl32.HomogRotate3DZ(1.2))
	assert.Equal(t, 2, m.StackDepth())

	m.Pop()
	assert.True(t, math.ApproxEqual(afterA, m.Local(), 1e-5))
	m.Pop()
	assert.True(t, math.ApproxEqual(start, m.Local(), 1e-5))
}

func TestPopEmptyIsNoop(t *testing.T) {
	m := NewModel(nil)
	m.SetLocal(mgl32.Translate3D(1, 2, 3))
	m.Pop()
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), m.Local())
}

func TestPushIdentityBalancesPop(t *testing.T) {
	m := NewModel(nil)
	m.PushIdentity()
	m.SetLocal(mgl32.Translate3D(5, 0, 0))
	m.Pop()
	assert.Equal(t, mgl32.Translate3D(5, 0, 0), m.Local())
}

func TestSetLocalFuncStartsFromIdentity(t *testing.T) {
	m := NewModel(nil)
	m.SetLocal(mgl32.Translate3D(9, 9, 9))
	got := m.SetLocalFunc(func(t *mgl32.Mat4) {
		t[12] = 1
	})
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), got)
	assert.Equal(t, got, m.Local())

	assert.Equal(t, mgl32.Ident4(), m.SetLocalFunc(nil))
}

func TestAddChildRejectsCycles(t *testing.T) {
	a := NewModel(nil)
	b := NewModel(nil)
	c := NewModel(nil)
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	assert.ErrorIs(t, c.AddChild(a), ErrCycle)
	assert.ErrorIs(t, a.AddChild(a), ErrCycle)
	assert.Nil(t, a.Parent())

	// nothing from a rejected batch is attached
	d := NewModel(nil)
	assert.ErrorIs(t, c.AddChild(d, a), ErrCycle)
	assert.Nil(t, d.Parent())
}

func TestAddChildReparents(t *testing.T) {
	oldParent := NewModel(nil)
	newParent := NewModel(nil)
	child := NewModel(nil)
	require.NoError(t, oldParent.AddChild(child))
	require.NoError(t, newParent.AddChild(child))

	assert.Same(t, newParent, child.Parent())
	assert.Empty(t, oldParent.Children())
	assert.Equal(t, []*Model{child}, newParent.Children())

	// adding again is a no-op
	require.NoError(t, newParent.AddChild(child))
	assert.Len(t, newParent.Children(), 1)
}

func TestTraversePreOrder(t *testing.T) {
	a, b, c, d := NewModel(nil), NewModel(nil), NewModel(nil), NewModel(nil)
	a.Type, b.Type, c.Type, d.Type = "a", "b", "c", "d"
	require.NoError(t, a.AddChild(b, d))
	require.NoError(t, b.AddChild(c))

	var order []string
	a.Traverse(func(m *Model) { order = append(order, m.Type) })
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}
