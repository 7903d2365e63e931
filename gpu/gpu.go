// Package gpu describes the drawing surface the engine renders through.
//
// The engine never talks to a graphics API directly. Everything it needs
// (programs, array buffers, uniforms, textures and draw calls) goes
// through a Surface, which keeps the scene and material layers testable
// without a GL context.
package gpu

import "errors"

var (
	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("program link failed")
)

// Program is a linked GPU program. Zero means no program.
type Program uint32

// Buffer is a GPU array buffer.
type Buffer uint32

// Texture is a GPU texture object.
type Texture uint32

// Primitive is the topology of a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case Points:
		return "points"
	}
	return "unknown"
}

// Stage is a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

// TextureTarget selects a texture binding point or image target.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCube
	CubePosX
	CubeNegX
	CubePosY
	CubeNegY
	CubePosZ
	CubeNegZ
)

// CubeFaces lists the six cube-map image targets in upload order.
var CubeFaces = [6]TextureTarget{CubePosX, CubeNegX, CubePosY, CubeNegY, CubePosZ, CubeNegZ}

// DepthFunc is the depth comparison used by the depth test.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// Surface is the drawing-surface handle supplied by the host.
//
// A location of -1 means the name is not active in the program; setters
// ignore it the same way the driver does.
type Surface interface {
	// CompileProgram compiles both stages and links them. Failures wrap
	// ErrCompile or ErrLink and carry the driver info log.
	CompileProgram(vertex, fragment string) (Program, error)
	UseProgram(p Program)
	CurrentProgram() Program
	AttribLocation(p Program, name string) int32
	UniformLocation(p Program, name string) int32

	CreateBuffer() Buffer
	BindBuffer(b Buffer)
	// BufferData uploads data into the bound array buffer.
	BufferData(data []float32)
	// VertexAttrib enables loc and points it at the bound buffer with
	// size float components per vertex.
	VertexAttrib(loc int32, size int)
	// DisableVertexAttrib detaches loc from any buffer.
	DisableVertexAttrib(loc int32)

	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix3(loc int32, m [9]float32)
	UniformMatrix4(loc int32, m [16]float32)
	// GetUniform reads back n float components of the uniform at loc.
	GetUniform(p Program, loc int32, n int) []float32

	CreateTexture() Texture
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, t Texture)
	// TexImage uploads RGBA8 pixels to the image target of the bound
	// texture. A nil pixel slice allocates storage only.
	TexImage(target TextureTarget, width, height int, pixels []byte)
	GenerateMipmap(target TextureTarget)

	Viewport(width, height int)
	// Size reports the drawable size in pixels.
	Size() (width, height int)
	Clear()
	DepthFunc(f DepthFunc)
	DrawArrays(mode Primitive, first, count int)
}
