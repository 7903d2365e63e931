package scene

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/math"
)

// FloatsPerFace is the number of position components in one face: a
// quad split into two triangles.
const FloatsPerFace = 6 * 3

// Geometry is the flattened per-vertex data of a shape. It is treated as
// immutable once built so models can share it, and so the per-owner
// buffer cache can skip uploads for the same slices.
type Geometry struct {
	Key      string
	Faces    int
	Position []float32
	Normal   []float32
	// UV holds two components per vertex when the shape has texture
	// coordinates.
	UV []float32
}

// VertexCount is the number of vertices in Position.
func (g *Geometry) VertexCount() int {
	if g == nil {
		return 0
	}
	return len(g.Position) / 3
}

// FromFaces flattens faces of six vertices each and derives flat normals
// from the first triangle of every face. A face that is not
// FloatsPerFace long is an error.
func FromFaces(faces [][]float32) (*Geometry, error) {
	g := &Geometry{
		Faces:    len(faces),
		Position: make([]float32, 0, len(faces)*FloatsPerFace),
		Normal:   make([]float32, 0, len(faces)*FloatsPerFace),
	}
	for i, f := range faces {
		if len(f) != FloatsPerFace {
			return nil, fmt.Errorf("face %d: want %d components, got %d", i, FloatsPerFace, len(f))
		}
		g.Position = append(g.Position, f...)
		n := math.FaceNormal(math.Vec3FromSlice(f[0:]), math.Vec3FromSlice(f[3:]), math.Vec3FromSlice(f[6:]))
		for range 6 {
			g.Normal = append(g.Normal, n[:]...)
		}
	}
	return g, nil
}

// Quad expands a counter-clockwise quad a, b, c, d into the two
// triangles a b c and a c d. Reverse flips the winding.
func Quad(a, b, c, d mgl32.Vec3, reverse bool) []float32 {
	tri := [6]mgl32.Vec3{a, b, c, a, c, d}
	if reverse {
		tri = [6]mgl32.Vec3{c, b, a, d, c, a}
	}
	out := make([]float32, 0, FloatsPerFace)
	for _, v := range tri {
		out = append(out, v[:]...)
	}
	return out
}

// GeometryCache pools geometry by a structural key so equal shape
// options share one payload. Entries live as long as the cache.
type GeometryCache struct {
	entries map[string]*Geometry
}

func NewGeometryCache() *GeometryCache {
	return &GeometryCache{entries: make(map[string]*Geometry)}
}

// Get returns the geometry stored under key, building and storing it on
// a miss. A nil cache builds every time.
func (c *GeometryCache) Get(key string, build func() (*Geometry, error)) (*Geometry, error) {
	if c != nil {
		if g, ok := c.entries[key]; ok {
			return g, nil
		}
	}
	g, err := build()
	if err != nil {
		return nil, err
	}
	g.Key = key
	if c != nil {
		c.entries[key] = g
	}
	return g, nil
}

func (c *GeometryCache) Len() int { return len(c.entries) }

// ShapeKey serializes a shape's options into a cache key.
func ShapeKey(kind string, opts any) string {
	b, err := json.Marshal(opts)
	if err != nil {
		return fmt.Sprintf("%s:%v", kind, opts)
	}
	return kind + ":" + string(b)
}
