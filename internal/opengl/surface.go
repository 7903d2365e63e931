package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"toy-engine/core"
	"toy-engine/gpu"
)

// SizeFunc reports the framebuffer size in pixels.
type SizeFunc func() (width, height int)

// Surface is the OpenGL 4.1 core implementation of gpu.Surface.
// Every method must be called from the goroutine that owns the context.
type Surface struct {
	vao  uint32
	size SizeFunc

	// ClearColor is applied by every Clear.
	ClearColor core.Color
}

// NewSurface loads the GL entry points for the current context and binds
// the single vertex array object all attribute state is recorded into.
func NewSurface(size SizeFunc) (*Surface, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	s := &Surface{size: size}
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.DepthFunc(gl.LESS)
	return s, nil
}

// Version returns the driver's GL version string.
func (s *Surface) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (s *Surface) CompileProgram(vertex, fragment string) (gpu.Program, error) {
	vert, err := compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: %v", gpu.ErrLink, strings.TrimRight(log, "\x00"))
	}
	return gpu.Program(prog), nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %v", gpu.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (s *Surface) UseProgram(p gpu.Program) { gl.UseProgram(uint32(p)) }

func (s *Surface) CurrentProgram() gpu.Program {
	var cur int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &cur)
	return gpu.Program(cur)
}

func (s *Surface) AttribLocation(p gpu.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (s *Surface) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (s *Surface) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (s *Surface) BindBuffer(b gpu.Buffer) { gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b)) }

func (s *Surface) BufferData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (s *Surface) VertexAttrib(loc int32, size int) {
	if loc < 0 {
		return
	}
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (s *Surface) DisableVertexAttrib(loc int32) {
	if loc < 0 {
		return
	}
	gl.DisableVertexAttribArray(uint32(loc))
}

func (s *Surface) Uniform1f(loc int32, v float32)          { gl.Uniform1f(loc, v) }
func (s *Surface) Uniform1i(loc int32, v int32)            { gl.Uniform1i(loc, v) }
func (s *Surface) Uniform2f(loc int32, x, y float32)       { gl.Uniform2f(loc, x, y) }
func (s *Surface) Uniform3f(loc int32, x, y, z float32)    { gl.Uniform3f(loc, x, y, z) }
func (s *Surface) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }

func (s *Surface) UniformMatrix3(loc int32, m [9]float32) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (s *Surface) UniformMatrix4(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (s *Surface) GetUniform(p gpu.Program, loc int32, n int) []float32 {
	var buf [16]float32
	if loc >= 0 {
		gl.GetUniformfv(uint32(p), loc, &buf[0])
	}
	out := make([]float32, n)
	copy(out, buf[:])
	return out
}

func (s *Surface) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (s *Surface) Size() (int, int) {
	if s.size == nil {
		var vp [4]int32
		gl.GetIntegerv(gl.VIEWPORT, &vp[0])
		return int(vp[2]), int(vp[3])
	}
	return s.size()
}

func (s *Surface) Clear() {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.DepthFunc(gl.LESS)
	c := s.ClearColor
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (s *Surface) DepthFunc(f gpu.DepthFunc) {
	switch f {
	case gpu.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

func (s *Surface) DrawArrays(mode gpu.Primitive, first, count int) {
	gl.DrawArrays(primitive(mode), int32(first), int32(count))
}

func primitive(mode gpu.Primitive) uint32 {
	switch mode {
	case gpu.Lines:
		return gl.LINES
	case gpu.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

// Destroy releases the vertex array object.
func (s *Surface) Destroy() {
	gl.DeleteVertexArrays(1, &s.vao)
}

var _ gpu.Surface = (*Surface)(nil)
