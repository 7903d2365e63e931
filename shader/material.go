package shader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"toy-engine/gpu"
)

var (
	// ErrUnsupportedShape is returned by SetUniform for values that are
	// not a scalar, a 2/3/4 vector or a 3x3/4x4 matrix.
	ErrUnsupportedShape = errors.New("unsupported uniform shape")
	// ErrUnknownUniform is returned for names the material does not declare.
	ErrUnknownUniform = errors.New("unknown uniform")
	// ErrUnknownAttribute is returned for names the material does not declare.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// Material is a compiled program plus the attribute and uniform handles
// resolved from the source it was built from.
type Material struct {
	surface  gpu.Surface
	program  gpu.Program
	option   Option
	vertex   string
	fragment string

	attributes map[string]*AttributeHandle
	uniforms   map[string]*UniformHandle
}

// NewMaterial assembles src, compiles it on surface and resolves every
// declared attribute and uniform. Array uniforms are resolved per element.
func NewMaterial(surface gpu.Surface, src *Source, opt Option) (*Material, error) {
	vertex, fragment, err := src.Output()
	if err != nil {
		return nil, err
	}
	program, err := surface.CompileProgram(vertex, fragment)
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", opt.Features(), err)
	}

	m := &Material{
		surface:    surface,
		program:    program,
		option:     opt,
		vertex:     vertex,
		fragment:   fragment,
		attributes: make(map[string]*AttributeHandle),
		uniforms:   make(map[string]*UniformHandle),
	}
	for _, v := range src.Variables() {
		switch v.Qualifier {
		case Attribute:
			m.attributes[v.Name] = &AttributeHandle{
				material: m,
				name:     v.Name,
				size:     components(v.Type),
				location: surface.AttribLocation(program, v.Name),
				records:  make(map[uuid.UUID]*bufferRecord),
			}
		case Uniform:
			for _, name := range elementNames(src, v) {
				m.uniforms[name] = &UniformHandle{
					material: m,
					name:     name,
					size:     components(v.Type),
					location: surface.UniformLocation(program, name),
				}
			}
		}
	}
	return m, nil
}

func elementNames(src *Source, v Variable) []string {
	if v.Length == "" {
		return []string{v.Name}
	}
	n, err := strconv.Atoi(v.Length)
	if err != nil {
		n, _ = src.DefineValue(v.Length)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = v.Name + "[" + strconv.Itoa(i) + "]"
	}
	return names
}

func components(glslType string) int {
	switch glslType {
	case "vec2":
		return 2
	case "vec3":
		return 3
	case "vec4":
		return 4
	case "mat3":
		return 9
	case "mat4":
		return 16
	}
	return 1
}

func (m *Material) Program() gpu.Program { return m.program }
func (m *Material) Option() Option       { return m.option }

// Source returns the assembled stage sources the program was compiled from.
func (m *Material) Source() (vertex, fragment string) { return m.vertex, m.fragment }

// Bind makes the material's program current. It is a no-op when the
// program already is.
func (m *Material) Bind() {
	if m.surface.CurrentProgram() != m.program {
		m.surface.UseProgram(m.program)
	}
}

func (m *Material) HasAttribute(name string) bool {
	_, ok := m.attributes[name]
	return ok
}

func (m *Material) HasUniform(name string) bool {
	_, ok := m.uniforms[name]
	return ok
}

// Attribute returns the handle for a declared attribute.
func (m *Material) Attribute(name string) (*AttributeHandle, error) {
	a, ok := m.attributes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return a, nil
}

// SetAttribute feeds data to a declared attribute on behalf of owner.
func (m *Material) SetAttribute(name string, data []float32, owner uuid.UUID) error {
	a, err := m.Attribute(name)
	if err != nil {
		return err
	}
	a.Set(data, owner)
	return nil
}

// DisableAttribute detaches a declared attribute so no stale buffer
// feeds the next draw.
func (m *Material) DisableAttribute(name string) error {
	a, err := m.Attribute(name)
	if err != nil {
		return err
	}
	a.Disable()
	return nil
}

// Uniform returns the handle for a declared uniform or array element.
func (m *Material) Uniform(name string) (*UniformHandle, error) {
	u, ok := m.uniforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	return u, nil
}

// SetUniform binds the material and writes v to a declared uniform.
func (m *Material) SetUniform(name string, v any) error {
	u, err := m.Uniform(name)
	if err != nil {
		return err
	}
	return u.Set(v)
}

// UniformValue reads back the value the driver holds for a uniform.
func (m *Material) UniformValue(name string) ([]float32, error) {
	u, err := m.Uniform(name)
	if err != nil {
		return nil, err
	}
	return u.Get(), nil
}

type bufferRecord struct {
	buffer gpu.Buffer
	data   []float32
}

// AttributeHandle feeds one vertex attribute. Data set on behalf of an
// owner is cached per owner: handing the same slice again rebinds the
// owner's buffer without uploading.
type AttributeHandle struct {
	material *Material
	name     string
	size     int
	location int32
	records  map[uuid.UUID]*bufferRecord
	scratch  gpu.Buffer
}

func (a *AttributeHandle) Name() string { return a.name }

// Size is the number of float components per vertex.
func (a *AttributeHandle) Size() int { return a.size }

// Set binds the material and points the attribute at data. The zero
// owner never caches.
func (a *AttributeHandle) Set(data []float32, owner uuid.UUID) {
	if owner == uuid.Nil {
		a.Upload(data)
		return
	}
	a.material.Bind()
	s := a.material.surface
	rec, ok := a.records[owner]
	switch {
	case !ok:
		rec = &bufferRecord{buffer: s.CreateBuffer(), data: data}
		a.records[owner] = rec
		s.BindBuffer(rec.buffer)
		s.BufferData(data)
	case !sameSlice(rec.data, data):
		rec.data = data
		s.BindBuffer(rec.buffer)
		s.BufferData(data)
	default:
		s.BindBuffer(rec.buffer)
	}
	s.VertexAttrib(a.location, a.size)
}

// Upload binds the material and uploads data into an unowned buffer.
func (a *AttributeHandle) Upload(data []float32) {
	a.material.Bind()
	s := a.material.surface
	if a.scratch == 0 {
		a.scratch = s.CreateBuffer()
	}
	s.BindBuffer(a.scratch)
	s.BufferData(data)
	s.VertexAttrib(a.location, a.size)
}

func (a *AttributeHandle) Disable() {
	a.material.Bind()
	a.material.surface.DisableVertexAttrib(a.location)
}

// Data returns the slice last uploaded on behalf of owner.
func (a *AttributeHandle) Data(owner uuid.UUID) ([]float32, bool) {
	rec, ok := a.records[owner]
	if !ok {
		return nil, false
	}
	return rec.data, true
}

// sameSlice reports whether a and b are the same slice value: same
// backing array start and same length. Two empty slices are the same.
func sameSlice(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// UniformHandle writes one uniform or array element.
type UniformHandle struct {
	material *Material
	name     string
	size     int
	location int32
}

func (u *UniformHandle) Name() string { return u.name }

// Set binds the material and writes v. The value's shape picks the
// setter: scalars, 2/3/4 vectors, 3x3 and 4x4 matrices.
func (u *UniformHandle) Set(v any) error {
	u.material.Bind()
	s := u.material.surface
	loc := u.location
	switch x := v.(type) {
	case float32:
		s.Uniform1f(loc, x)
	case float64:
		s.Uniform1f(loc, float32(x))
	case int:
		s.Uniform1i(loc, int32(x))
	case int32:
		s.Uniform1i(loc, x)
	case bool:
		var i int32
		if x {
			i = 1
		}
		s.Uniform1i(loc, i)
	case mgl32.Vec2:
		s.Uniform2f(loc, x[0], x[1])
	case mgl32.Vec3:
		s.Uniform3f(loc, x[0], x[1], x[2])
	case mgl32.Vec4:
		s.Uniform4f(loc, x[0], x[1], x[2], x[3])
	case [3]float32:
		s.Uniform3f(loc, x[0], x[1], x[2])
	case mgl32.Mat3:
		s.UniformMatrix3(loc, x)
	case mgl32.Mat4:
		s.UniformMatrix4(loc, x)
	case []float32:
		return u.setSlice(x)
	default:
		return fmt.Errorf("%w: %q got %T", ErrUnsupportedShape, u.name, v)
	}
	return nil
}

func (u *UniformHandle) setSlice(x []float32) error {
	s := u.material.surface
	loc := u.location
	switch len(x) {
	case 1:
		s.Uniform1f(loc, x[0])
	case 2:
		s.Uniform2f(loc, x[0], x[1])
	case 3:
		s.Uniform3f(loc, x[0], x[1], x[2])
	case 4:
		s.Uniform4f(loc, x[0], x[1], x[2], x[3])
	case 9:
		s.UniformMatrix3(loc, [9]float32(x))
	case 16:
		s.UniformMatrix4(loc, [16]float32(x))
	default:
		return fmt.Errorf("%w: %q got %d components", ErrUnsupportedShape, u.name, len(x))
	}
	return nil
}

// Get reads back the driver's current value.
func (u *UniformHandle) Get() []float32 {
	return u.material.surface.GetUniform(u.material.program, u.location, u.size)
}
