package shader

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Feature is a bit set of optional shading features.
type Feature uint32

const (
	DirectionalLight Feature = 1 << iota
	SpotLight
	Sampler2D
	SamplerCube
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{DirectionalLight, "DIRECTIONAL_LIGHT"},
	{SpotLight, "SPOT_LIGHT"},
	{Sampler2D, "SAMPLER_2D"},
	{SamplerCube, "SAMPLER_CUBE"},
}

func (f Feature) String() string {
	var names []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// NumDirectionalLight is the define sizing the directional light array.
const NumDirectionalLight = "NUM_DIRECTIONAL_LIGHT"

// Option describes which features a material must support. Two options
// are equal when their feature bits and defines are equal; define order
// does not matter.
type Option struct {
	features Feature
	defines  map[string]int
}

// NewOption returns an option with the given features set.
func NewOption(features ...Feature) Option {
	var o Option
	o.Set(features...)
	return o
}

// Set turns on the given features and returns the resulting bit set.
func (o *Option) Set(features ...Feature) Feature {
	for _, f := range features {
		o.features |= f
	}
	return o.features
}

// Has reports whether every bit of target is set.
func (o Option) Has(target Feature) bool {
	return o.features&target == target
}

// Features returns the bit set.
func (o Option) Features() Feature { return o.features }

// Define sets a numeric define. The option is copied on write so values
// handed out earlier keep their defines.
func (o *Option) Define(name string, value int) {
	next := make(map[string]int, len(o.defines)+1)
	maps.Copy(next, o.defines)
	next[name] = value
	o.defines = next
}

// Lookup returns the value of a define.
func (o Option) Lookup(name string) (int, bool) {
	v, ok := o.defines[name]
	return v, ok
}

// DefineNames returns the define names in sorted order.
func (o Option) DefineNames() []string {
	return slices.Sorted(maps.Keys(o.defines))
}

// Equal reports structural equality.
func (o Option) Equal(t Option) bool {
	return o.features == t.features && maps.Equal(o.defines, t.defines)
}

// Key is a canonical string form of the option, equal for equal options.
func (o Option) Key() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(o.features), 2))
	for _, name := range o.DefineNames() {
		b.WriteByte(';')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(o.defines[name]))
	}
	return b.String()
}

func (o Option) String() string {
	return o.features.String() + " " + o.Key()
}
