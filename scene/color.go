package scene

import (
	"math/rand/v2"

	"toy-engine/math"
)

// Coloring fills the per-vertex color buffer of a model with faces faces.
// Colors are RGB in 0..1.
type Coloring interface {
	Colors(faces int) []float32
}

// RandomColors gives every face its own random color scaled by Factor.
// A zero Factor means 1. A nil Rand uses a fresh PCG source.
type RandomColors struct {
	Factor float32
	Rand   *rand.Rand
}

func (c RandomColors) Colors(faces int) []float32 {
	factor := c.Factor
	if factor == 0 {
		factor = 1
	}
	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	out := make([]float32, 0, faces*FloatsPerFace)
	for range faces {
		out = appendFace(out, math.RandomRGB(rng, factor))
	}
	return out
}

// SolidColor paints every face with one 0..255 RGB color.
type SolidColor [3]float32

func (c SolidColor) Colors(faces int) []float32 {
	n := math.Normalize255(c)
	out := make([]float32, 0, faces*FloatsPerFace)
	for range faces {
		out = appendFace(out, n)
	}
	return out
}

// PackedColor paints every face with one 0xRRGGBB color.
type PackedColor uint32

func (c PackedColor) Colors(faces int) []float32 {
	return SolidColor(math.UnpackRGB(uint32(c))).Colors(faces)
}

// FaceColors paints faces in box order: front, back, right, left, top,
// bottom. Channels are 0..255. Shapes with more faces repeat the cycle.
type FaceColors [6][3]float32

// PackedFaceColors builds FaceColors from 0xRRGGBB values.
func PackedFaceColors(front, back, right, left, top, bottom uint32) FaceColors {
	return FaceColors{
		math.UnpackRGB(front), math.UnpackRGB(back), math.UnpackRGB(right),
		math.UnpackRGB(left), math.UnpackRGB(top), math.UnpackRGB(bottom),
	}
}

func (c FaceColors) Colors(faces int) []float32 {
	out := make([]float32, 0, faces*FloatsPerFace)
	for i := range faces {
		out = appendFace(out, math.Normalize255(c[i%len(c)]))
	}
	return out
}

func appendFace(out []float32, c [3]float32) []float32 {
	for range 6 {
		out = append(out, c[:]...)
	}
	return out
}
