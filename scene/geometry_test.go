package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toy-engine/gpu"
	"toy-engine/math"
)

func TestFromFaces(t *testing.T) {
	face := Quad(mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, false)
	g, err := FromFaces([][]float32{face})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Faces)
	assert.Equal(t, 6, g.VertexCount())
	require.Len(t, g.Normal, FloatsPerFace)
	for i := 0; i < len(g.Normal); i += 3 {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, math.Vec3FromSlice(g.Normal[i:]))
	}

	_, err = FromFaces([][]float32{{1, 2, 3}})
	assert.Error(t, err)
}

func TestQuadReverseFlipsNormal(t *testing.T) {
	a, b, c, d := mgl32.Vec3{1, 1, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}
	g, err := FromFaces([][]float32{Quad(a, b, c, d, true)})
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, math.Vec3FromSlice(g.Normal))
}

func TestBoxGeometryPooled(t *testing.T) {
	cache := NewGeometryCache()
	a, err := NewBox(cache, BoxOptions{})
	require.NoError(t, err)
	b, err := NewBox(cache, BoxOptions{X: 100, Y: 100, Z: 100})
	require.NoError(t, err)
	c, err := NewBox(cache, BoxOptions{Reverse: true})
	require.NoError(t, err)

	assert.Same(t, a.Geometry, b.Geometry)
	assert.NotSame(t, a.Geometry, c.Geometry)
	assert.Equal(t, 2, cache.Len())
	assert.NotEqual(t, a.ID, b.ID)

	assert.Equal(t, "Box", a.Type)
	assert.Equal(t, gpu.Triangles, a.Primitive)
	assert.Equal(t, 36, a.VertexCount())
	assert.Equal(t, mgl32.Vec3{100, 100, 100}, a.Size)
	assert.Len(t, a.Geometry.UV, 36*2)
	assert.Nil(t, a.Color)
}

func TestBoxNormalsPointOutward(t *testing.T) {
	box, err := NewBox(nil, BoxOptions{X: 2, Y: 4, Z: 6})
	require.NoError(t, err)
	want := []mgl32.Vec3{{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}
	for face, n := range want {
		got := math.Vec3FromSlice(box.Geometry.Normal[face*FloatsPerFace:])
		assert.True(t, got.ApproxEqual(n), "face %d: %v", face, got)
	}
}

func TestBoxColors(t *testing.T) {
	packed, err := NewBox(nil, BoxOptions{Color: PackedColor(0xff0000)})
	require.NoError(t, err)
	require.Len(t, packed.Color, 36*3)
	assert.Equal(t, []float32{1, 0, 0}, packed.Color[:3])
	assert.Equal(t, []float32{1, 0, 0}, packed.Color[len(packed.Color)-3:])

	faces, err := NewBox(nil, BoxOptions{Color: PackedFaceColors(0xff0000, 0x00ff00, 0x0000ff, 0, 0xffffff, 0)})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, faces.Color[FloatsPerFace:FloatsPerFace+3])
	assert.Equal(t, []float32{1, 1, 1}, faces.Color[4*FloatsPerFace:4*FloatsPerFace+3])

	random, err := NewBox(nil, BoxOptions{Color: RandomColors{Factor: 0.5, Rand: rand.New(rand.NewPCG(1, 2))}})
	require.NoError(t, err)
	require.Len(t, random.Color, 36*3)
	for _, c := range random.Color {
		assert.GreaterOrEqual(t, c, float32(0))
		assert.Less(t, c, float32(0.5))
	}
	// one color per face
	assert.Equal(t, random.Color[:3], random.Color[15:18])
}

func TestFillRandomColorReplacesSlice(t *testing.T) {
	box, err := NewBox(nil, BoxOptions{Color: SolidColor{255, 255, 255}})
	require.NoError(t, err)
	before := box.Color
	box.FillRandomColor(1)
	assert.Len(t, box.Color, len(before))
	assert.NotSame(t, &before[0], &box.Color[0])
}

func TestSphere(t *testing.T) {
	cache := NewGeometryCache()
	s, err := NewSphere(cache, SphereOptions{Radius: 2, Latitude: Arc{Sub: 4}, Longitude: Arc{Sub: 6}})
	require.NoError(t, err)

	assert.Equal(t, "Sphere", s.Type)
	assert.Equal(t, 24, s.Faces())
	assert.Equal(t, 24*6, s.VertexCount())
	assert.Equal(t, mgl32.Vec3{4, 4, 4}, s.Size)

	for i := 0; i < len(s.Geometry.Position); i += 3 {
		p := math.Vec3FromSlice(s.Geometry.Position[i:])
		n := math.Vec3FromSlice(s.Geometry.Normal[i:])
		assert.InDelta(t, 2, p.Len(), 1e-4)
		assert.InDelta(t, 1, n.Len(), 1e-4)
		// smooth normals point away from the center
		assert.Greater(t, p.Dot(n), float32(0))
	}

	again, err := NewSphere(cache, SphereOptions{Radius: 2, Latitude: Arc{Sub: 4}, Longitude: Arc{Sub: 6}})
	require.NoError(t, err)
	assert.Same(t, s.Geometry, again.Geometry)

	inside, err := NewSphere(cache, SphereOptions{Radius: 2, Latitude: Arc{Sub: 4}, Longitude: Arc{Sub: 6}, Reverse: true})
	require.NoError(t, err)
	p := math.Vec3FromSlice(inside.Geometry.Position[3:])
	n := math.Vec3FromSlice(inside.Geometry.Normal[3:])
	assert.Less(t, p.Dot(n), float32(0))
}

func TestSphereDefaults(t *testing.T) {
	s, err := NewSphere(nil, SphereOptions{Color: SolidColor{0, 0, 255}})
	require.NoError(t, err)
	assert.Equal(t, 900, s.Faces())
	assert.Len(t, s.Color, 900*FloatsPerFace)

	top := math.Vec3FromSlice(s.Geometry.Position)
	assert.InDelta(t, 100, top.Y(), 1e-3)
	assert.InDelta(t, 0, math32.Hypot(top.X(), top.Z()), 1e-3)
}

func TestAssemblyBakesTransforms(t *testing.T) {
	a, err := NewBox(nil, BoxOptions{X: 1, Y: 1, Z: 1, Color: SolidColor{255, 0, 0}})
	require.NoError(t, err)
	b, err := NewBox(nil, BoxOptions{X: 1, Y: 1, Z: 1, Color: SolidColor{0, 255, 0}})
	require.NoError(t, err)
	b.SetLocal(mgl32.Translate3D(10, 0, 0))

	asm := NewAssembly(a, b)
	assert.Equal(t, "Assembly", asm.Type)
	assert.Equal(t, 12, asm.Faces())
	assert.Equal(t, 72, asm.VertexCount())
	assert.Len(t, asm.Color, 72*3)

	half := len(asm.Geometry.Position) / 2
	assert.Equal(t, a.Geometry.Position, asm.Geometry.Position[:half])
	first := math.Vec3FromSlice(b.Geometry.Position)
	assert.Equal(t, first.Add(mgl32.Vec3{10, 0, 0}), math.Vec3FromSlice(asm.Geometry.Position[half:]))
	// translation does not move normals
	assert.Equal(t, b.Geometry.Normal, asm.Geometry.Normal[half:])
}

func TestAssemblyPadsUncoloredParts(t *testing.T) {
	a, err := NewBox(nil, BoxOptions{X: 1, Y: 1, Z: 1, Color: SolidColor{255, 0, 0}})
	require.NoError(t, err)
	b, err := NewBox(nil, BoxOptions{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	require.Empty(t, b.Color)

	asm := NewAssembly(b, a)
	require.Len(t, asm.Color, len(asm.Geometry.Position))
	half := len(asm.Color) / 2
	assert.Equal(t, make([]float32, half), asm.Color[:half])
	assert.Equal(t, a.Color, asm.Color[half:])

	plain := NewAssembly(b, b)
	assert.Empty(t, plain.Color)
}
