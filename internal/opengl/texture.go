package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"toy-engine/gpu"
)

func (s *Surface) CreateTexture() gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return gpu.Texture(id)
}

func (s *Surface) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

// BindTexture binds t and applies linear filtering with edge clamping,
// which is what every texture in the engine samples with.
func (s *Surface) BindTexture(target gpu.TextureTarget, t gpu.Texture) {
	bind := bindTarget(target)
	gl.BindTexture(bind, uint32(t))
	gl.TexParameteri(bind, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(bind, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(bind, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(bind, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

func (s *Surface) TexImage(target gpu.TextureTarget, width, height int, pixels []byte) {
	var ptr = gl.Ptr(nil)
	if len(pixels) > 0 {
		ptr = gl.Ptr(&pixels[0])
	}
	gl.TexImage2D(
		imageTarget(target),
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		ptr,
	)
}

func (s *Surface) GenerateMipmap(target gpu.TextureTarget) {
	gl.GenerateMipmap(bindTarget(target))
}

func bindTarget(target gpu.TextureTarget) uint32 {
	if target == gpu.Texture2D {
		return gl.TEXTURE_2D
	}
	return gl.TEXTURE_CUBE_MAP
}

func imageTarget(target gpu.TextureTarget) uint32 {
	switch target {
	case gpu.CubePosX:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X
	case gpu.CubeNegX:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_X
	case gpu.CubePosY:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Y
	case gpu.CubeNegY:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Y
	case gpu.CubePosZ:
		return gl.TEXTURE_CUBE_MAP_POSITIVE_Z
	case gpu.CubeNegZ:
		return gl.TEXTURE_CUBE_MAP_NEGATIVE_Z
	}
	return gl.TEXTURE_2D
}
