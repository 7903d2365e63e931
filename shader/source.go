// Package shader assembles GLSL programs from feature options and wraps
// the compiled programs as materials.
package shader

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrMissingChunk is returned when an include names an unregistered chunk.
	ErrMissingChunk = errors.New("missing shader chunk")
	// ErrCircularInclude is returned when includes nest deeper than MaxIncludeDepth.
	ErrCircularInclude = errors.New("circular include")
	// ErrNotImplemented is returned for feature combinations with no shader.
	ErrNotImplemented = errors.New("not implemented")
)

// MaxIncludeDepth bounds nested chunk includes.
const MaxIncludeDepth = 8

// GLSLVersion is the version directive every stage starts with.
const GLSLVersion = "#version 410 core"

// Qualifier is the storage class of a declared variable.
type Qualifier int

const (
	Uniform Qualifier = iota
	Attribute
	Varying
)

func (q Qualifier) String() string {
	switch q {
	case Uniform:
		return "uniform"
	case Attribute:
		return "attribute"
	case Varying:
		return "varying"
	}
	return "unknown"
}

// keyword returns the GLSL 4.10 storage keyword for q in stage.
func (q Qualifier) keyword(stage Target) string {
	switch q {
	case Attribute:
		return "in"
	case Varying:
		if stage == Vertex {
			return "out"
		}
		return "in"
	}
	return "uniform"
}

// Target selects the stages a variable is declared in.
type Target int

const (
	All Target = iota
	Vertex
	Fragment
)

func (t Target) includes(stage Target) bool {
	return t == All || t == stage
}

// Variable is one declaration.
type Variable struct {
	Target    Target
	Qualifier Qualifier
	Type      string
	Name      string
	// Length makes the variable an array; it is a number or a define name.
	Length string
}

func (v Variable) declare(stage Target) string {
	s := v.Qualifier.keyword(stage) + " " + v.Type + " " + v.Name
	if v.Length != "" {
		s += "[" + v.Length + "]"
	}
	return s + ";"
}

// Chunk is a named block of shader code pulled in with
// "#include <name>". A chunk with a Guard expands to nothing unless the
// guard is defined.
type Chunk struct {
	Name  string
	Guard string
	Body  string
}

type define struct {
	name  string
	value string
}

// Source is a shader program under assembly: defines, declarations,
// named chunks and the two stage bodies.
type Source struct {
	defines   []define
	variables []Variable
	chunks    map[string]Chunk

	VertexMain   string
	FragmentMain string
}

// NewSource returns a source with the built-in chunks and stage bodies
// and no declarations.
func NewSource() *Source {
	s := &Source{
		chunks:       make(map[string]Chunk, len(builtinChunks)),
		VertexMain:   vertexMain,
		FragmentMain: fragmentMain,
	}
	for _, c := range builtinChunks {
		s.RegisterChunk(c)
	}
	return s
}

// AddDefine adds a valueless define. Adding a name twice keeps the first.
func (s *Source) AddDefine(name string) {
	s.addDefine(name, "")
}

// AddDefineValue adds a numeric define, replacing an earlier value.
func (s *Source) AddDefineValue(name string, value int) {
	for i := range s.defines {
		if s.defines[i].name == name {
			s.defines[i].value = strconv.Itoa(value)
			return
		}
	}
	s.addDefine(name, strconv.Itoa(value))
}

func (s *Source) addDefine(name, value string) {
	if s.Defined(name) {
		return
	}
	s.defines = append(s.defines, define{name: name, value: value})
}

// Defined reports whether name has been defined.
func (s *Source) Defined(name string) bool {
	return slices.ContainsFunc(s.defines, func(d define) bool { return d.name == name })
}

// DefineValue returns the value of a numeric define.
func (s *Source) DefineValue(name string) (int, bool) {
	for _, d := range s.defines {
		if d.name == name && d.value != "" {
			n, err := strconv.Atoi(d.value)
			return n, err == nil
		}
	}
	return 0, false
}

// AddVariable declares v. Identical declarations are kept once.
func (s *Source) AddVariable(v Variable) {
	if slices.Contains(s.variables, v) {
		return
	}
	s.variables = append(s.variables, v)
}

// RemoveVariable drops every declaration of name.
func (s *Source) RemoveVariable(name string) {
	s.variables = slices.DeleteFunc(s.variables, func(v Variable) bool { return v.Name == name })
}

// HasVariable reports whether name is declared.
func (s *Source) HasVariable(name string) bool {
	return slices.ContainsFunc(s.variables, func(v Variable) bool { return v.Name == name })
}

// Variables returns the declarations in insertion order.
func (s *Source) Variables() []Variable {
	return slices.Clone(s.variables)
}

// RegisterChunk adds or replaces a named chunk.
func (s *Source) RegisterChunk(c Chunk) {
	s.chunks[c.Name] = c
}

// Output assembles both stages. The same source always assembles to the
// same text.
func (s *Source) Output() (vertex, fragment string, err error) {
	vertex, err = s.stage(Vertex, s.VertexMain)
	if err != nil {
		return "", "", fmt.Errorf("vertex: %w", err)
	}
	fragment, err = s.stage(Fragment, s.FragmentMain)
	if err != nil {
		return "", "", fmt.Errorf("fragment: %w", err)
	}
	return vertex, fragment, nil
}

func (s *Source) stage(stage Target, body string) (string, error) {
	var b strings.Builder
	b.WriteString(GLSLVersion)
	b.WriteByte('\n')
	if stage == Fragment {
		b.WriteString("precision mediump float;\n")
	}
	for _, d := range s.defines {
		b.WriteString("#define " + d.name)
		if d.value != "" {
			b.WriteString(" " + d.value)
		}
		b.WriteByte('\n')
	}

	vars := slices.Clone(s.variables)
	slices.SortStableFunc(vars, func(a, b Variable) int {
		return len(a.Qualifier.String()) - len(b.Qualifier.String())
	})
	for _, v := range vars {
		if v.Target.includes(stage) {
			b.WriteString(v.declare(stage))
			b.WriteByte('\n')
		}
	}

	if err := s.expand(&b, body, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// expand copies text into b, replacing include lines with chunk bodies.
func (s *Source) expand(b *strings.Builder, text string, depth int) error {
	if depth > MaxIncludeDepth {
		return ErrCircularInclude
	}
	for _, line := range strings.Split(text, "\n") {
		name, ok := includeName(line)
		if !ok {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		c, ok := s.chunks[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingChunk, name)
		}
		if c.Guard != "" && !s.Defined(c.Guard) {
			continue
		}
		if err := s.expand(b, c.Body, depth+1); err != nil {
			if errors.Is(err, ErrCircularInclude) && depth == 0 {
				return fmt.Errorf("%w: via %q", err, name)
			}
			return err
		}
	}
	return nil
}

func includeName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "#include <")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, ">")
	return name, ok
}

func (s *Source) removeDefine(name string) {
	s.defines = slices.DeleteFunc(s.defines, func(d define) bool { return d.name == name })
}
