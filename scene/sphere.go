package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"toy-engine/math"
)

// SphereOptions configures NewSphere. Latitude runs from +90 to -90
// degrees and longitude from 0 to 360 unless overridden; zero fields take
// the defaults (radius 100, 30 subdivisions each way).
type SphereOptions struct {
	Radius    float32
	Latitude  Arc
	Longitude Arc
	Color     Coloring
	Reverse   bool
}

// Arc is an angular range in degrees split into Sub steps.
type Arc struct {
	Start, End float32
	Sub        int
}

func (a Arc) withDefaults(start, end float32) Arc {
	if a.Start == 0 && a.End == 0 {
		a.Start, a.End = start, end
	}
	if a.Sub <= 0 {
		a.Sub = 30
	}
	return a
}

type sphereKey struct {
	Radius              float32
	Latitude, Longitude Arc
	Reverse             bool
}

// NewSphere returns a latitude/longitude sphere centered on the origin
// with smooth normals. The face count is Latitude.Sub x Longitude.Sub.
func NewSphere(cache *GeometryCache, opts SphereOptions) (*Model, error) {
	if opts.Radius == 0 {
		opts.Radius = 100
	}
	opts.Latitude = opts.Latitude.withDefaults(90, -90)
	opts.Longitude = opts.Longitude.withDefaults(0, 360)

	key := ShapeKey("sphere", sphereKey{opts.Radius, opts.Latitude, opts.Longitude, opts.Reverse})
	g, err := cache.Get(key, func() (*Geometry, error) {
		return sphereGeometry(opts), nil
	})
	if err != nil {
		return nil, err
	}

	m := NewModel(g)
	m.Type = "Sphere"
	d := 2 * opts.Radius
	m.Size = mgl32.Vec3{d, d, d}
	if opts.Color != nil {
		m.FillColor(opts.Color)
	}
	return m, nil
}

func sphereGeometry(opts SphereOptions) *Geometry {
	lat, long := opts.Latitude, opts.Longitude
	latStep := math.DegToRad(lat.End-lat.Start) / float32(lat.Sub)
	longStep := math.DegToRad(long.End-long.Start) / float32(long.Sub)

	rings := make([][]mgl32.Vec3, lat.Sub+1)
	for i := range rings {
		rings[i] = make([]mgl32.Vec3, long.Sub+1)
		latRad := math.DegToRad(lat.Start) + latStep*float32(i)
		for j := range rings[i] {
			longRad := math.DegToRad(long.Start) + longStep*float32(j)
			rings[i][j] = mgl32.Vec3{
				opts.Radius * math32.Cos(latRad) * math32.Sin(longRad),
				opts.Radius * math32.Sin(latRad),
				opts.Radius * math32.Cos(latRad) * math32.Cos(longRad),
			}
		}
	}

	g := &Geometry{Faces: lat.Sub * long.Sub}
	g.Position = make([]float32, 0, g.Faces*FloatsPerFace)
	g.Normal = make([]float32, 0, g.Faces*FloatsPerFace)
	sign := float32(1)
	if opts.Reverse {
		sign = -1
	}
	for i := 0; i < lat.Sub; i++ {
		for j := 0; j < long.Sub; j++ {
			face := Quad(rings[i][j+1], rings[i][j], rings[i+1][j], rings[i+1][j+1], opts.Reverse)
			g.Position = append(g.Position, face...)
			for k := 0; k < len(face); k += 3 {
				n := math.Vec3FromSlice(face[k:])
				if l := n.Len(); l > 0 {
					n = n.Mul(sign / l)
				}
				g.Normal = append(g.Normal, n[:]...)
			}
		}
	}
	return g
}
