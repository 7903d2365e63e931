package math

import "math/rand/v2"

// UnpackRGB splits a packed 0xRRGGBB value into its 0..255 channels.
func UnpackRGB(c uint32) [3]float32 {
	return [3]float32{
		float32(c >> 16 & 0xff),
		float32(c >> 8 & 0xff),
		float32(c & 0xff),
	}
}

// Normalize255 scales 0..255 channels into 0..1.
func Normalize255(c [3]float32) [3]float32 {
	return [3]float32{c[0] / 255, c[1] / 255, c[2] / 255}
}

// RandomRGB returns a random color with channels in [0, factor).
func RandomRGB(rng *rand.Rand, factor float32) [3]float32 {
	return [3]float32{
		rng.Float32() * factor,
		rng.Float32() * factor,
		rng.Float32() * factor,
	}
}
