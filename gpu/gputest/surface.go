// Package gputest provides a recording gpu.Surface for tests.
package gputest

import (
	"fmt"
	"strings"

	"toy-engine/gpu"
)

// Draw is one recorded draw call.
type Draw struct {
	Program gpu.Program
	Mode    gpu.Primitive
	First   int
	Count   int
}

// Shader is one compiled program's source.
type Shader struct {
	Vertex   string
	Fragment string
}

// Surface records every call made against it. Names are resolved by
// scanning the compiled source: a name that does not appear in either
// stage gets location -1, like an inactive name on a real driver.
type Surface struct {
	Width, Height int

	// FailCompile makes CompileProgram fail when the vertex or fragment
	// source contains this substring.
	FailCompile string

	Programs    map[gpu.Program]Shader
	Uploads     int
	Buffers     int
	UseCalls    int
	Draws       []Draw
	TexUploads  map[gpu.TextureTarget]int
	DepthFuncs  []gpu.DepthFunc
	Clears      int
	Bound       gpu.Buffer
	Attribs     map[int32]gpu.Buffer
	BufferState map[gpu.Buffer][]float32

	current   gpu.Program
	next      uint32
	locs      map[gpu.Program]map[string]int32
	uniforms  map[gpu.Program]map[int32][]float32
	locOwners map[int32]gpu.Program
}

// New returns a Surface of the given drawable size.
func New(width, height int) *Surface {
	return &Surface{
		Width:       width,
		Height:      height,
		Programs:    make(map[gpu.Program]Shader),
		TexUploads:  make(map[gpu.TextureTarget]int),
		Attribs:     make(map[int32]gpu.Buffer),
		BufferState: make(map[gpu.Buffer][]float32),
		locs:        make(map[gpu.Program]map[string]int32),
		uniforms:    make(map[gpu.Program]map[int32][]float32),
		locOwners:   make(map[int32]gpu.Program),
	}
}

func (s *Surface) id() uint32 {
	s.next++
	return s.next
}

func (s *Surface) CompileProgram(vertex, fragment string) (gpu.Program, error) {
	if s.FailCompile != "" {
		if strings.Contains(vertex, s.FailCompile) {
			return 0, fmt.Errorf("vertex: %w: 0:1: '%s' : syntax error", gpu.ErrCompile, s.FailCompile)
		}
		if strings.Contains(fragment, s.FailCompile) {
			return 0, fmt.Errorf("fragment: %w: 0:1: '%s' : syntax error", gpu.ErrCompile, s.FailCompile)
		}
	}
	p := gpu.Program(s.id())
	s.Programs[p] = Shader{Vertex: vertex, Fragment: fragment}
	s.locs[p] = make(map[string]int32)
	s.uniforms[p] = make(map[int32][]float32)
	return p, nil
}

func (s *Surface) UseProgram(p gpu.Program) {
	s.UseCalls++
	s.current = p
}

func (s *Surface) CurrentProgram() gpu.Program { return s.current }

func (s *Surface) location(p gpu.Program, name string) int32 {
	src, ok := s.Programs[p]
	if !ok {
		return -1
	}
	if loc, ok := s.locs[p][name]; ok {
		return loc
	}
	base := name
	if i := strings.IndexByte(base, '['); i >= 0 {
		base = base[:i]
	}
	if !strings.Contains(src.Vertex, base) && !strings.Contains(src.Fragment, base) {
		return -1
	}
	loc := int32(s.id())
	s.locs[p][name] = loc
	s.locOwners[loc] = p
	return loc
}

func (s *Surface) AttribLocation(p gpu.Program, name string) int32 { return s.location(p, name) }

func (s *Surface) UniformLocation(p gpu.Program, name string) int32 { return s.location(p, name) }

func (s *Surface) CreateBuffer() gpu.Buffer {
	s.Buffers++
	return gpu.Buffer(s.id())
}

func (s *Surface) BindBuffer(b gpu.Buffer) { s.Bound = b }

func (s *Surface) BufferData(data []float32) {
	s.Uploads++
	s.BufferState[s.Bound] = append([]float32(nil), data...)
}

func (s *Surface) VertexAttrib(loc int32, size int) {
	if loc < 0 {
		return
	}
	s.Attribs[loc] = s.Bound
}

func (s *Surface) DisableVertexAttrib(loc int32) { delete(s.Attribs, loc) }

func (s *Surface) setUniform(loc int32, v ...float32) {
	if loc < 0 {
		return
	}
	s.uniforms[s.current][loc] = v
}

func (s *Surface) Uniform1f(loc int32, v float32)          { s.setUniform(loc, v) }
func (s *Surface) Uniform1i(loc int32, v int32)            { s.setUniform(loc, float32(v)) }
func (s *Surface) Uniform2f(loc int32, x, y float32)       { s.setUniform(loc, x, y) }
func (s *Surface) Uniform3f(loc int32, x, y, z float32)    { s.setUniform(loc, x, y, z) }
func (s *Surface) Uniform4f(loc int32, x, y, z, w float32) { s.setUniform(loc, x, y, z, w) }
func (s *Surface) UniformMatrix3(loc int32, m [9]float32)  { s.setUniform(loc, m[:]...) }
func (s *Surface) UniformMatrix4(loc int32, m [16]float32) { s.setUniform(loc, m[:]...) }

func (s *Surface) GetUniform(p gpu.Program, loc int32, n int) []float32 {
	out := make([]float32, n)
	copy(out, s.uniforms[p][loc])
	return out
}

// UniformValue returns the last value written to the named uniform of p.
func (s *Surface) UniformValue(p gpu.Program, name string) []float32 {
	loc, ok := s.locs[p][name]
	if !ok {
		return nil
	}
	return s.uniforms[p][loc]
}

// BufferFor returns the buffer currently attached to the named attribute of p.
func (s *Surface) BufferFor(p gpu.Program, name string) (gpu.Buffer, bool) {
	loc, ok := s.locs[p][name]
	if !ok {
		return 0, false
	}
	b, ok := s.Attribs[loc]
	return b, ok
}

func (s *Surface) CreateTexture() gpu.Texture { return gpu.Texture(s.id()) }
func (s *Surface) ActiveTexture(unit int)     {}

func (s *Surface) BindTexture(target gpu.TextureTarget, t gpu.Texture) {}

func (s *Surface) TexImage(target gpu.TextureTarget, width, height int, pixels []byte) {
	if pixels != nil {
		s.TexUploads[target]++
	}
}

func (s *Surface) GenerateMipmap(target gpu.TextureTarget) {}

func (s *Surface) Viewport(width, height int) {}

func (s *Surface) Size() (int, int) { return s.Width, s.Height }

func (s *Surface) Clear() { s.Clears++ }

func (s *Surface) DepthFunc(f gpu.DepthFunc) { s.DepthFuncs = append(s.DepthFuncs, f) }

func (s *Surface) DrawArrays(mode gpu.Primitive, first, count int) {
	s.Draws = append(s.Draws, Draw{Program: s.current, Mode: mode, First: first, Count: count})
}

var _ gpu.Surface = (*Surface)(nil)
