package renderer

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

var (
	// ErrNotNumeric is wrapped by FieldTypeError.
	ErrNotNumeric = errors.New("field is not numeric")
	// ErrUnknownField is returned when an action names no state field.
	ErrUnknownField = errors.New("unknown state field")
	// ErrBadPatch is returned when a patch cannot be merged into the state.
	ErrBadPatch = errors.New("invalid state patch")
)

// FieldTypeError reports an increment or decrement on a field that is
// not a number.
type FieldTypeError struct {
	Key  string
	Kind reflect.Kind
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("state key %q: cannot increment or decrement a %s", e.Key, e.Kind)
}

func (e *FieldTypeError) Unwrap() error { return ErrNotNumeric }

// Op is a numeric state action.
type Op int

const (
	OpIncr Op = iota
	OpDecr
)

// Action adjusts the numeric field Key by Value.
type Action struct {
	Op    Op
	Key   string
	Value float64
}

func Incr(key string, value float64) Action { return Action{Op: OpIncr, Key: key, Value: value} }
func Decr(key string, value float64) Action { return Action{Op: OpDecr, Key: key, Value: value} }

// Store holds application state of struct type S. Every Set builds a new
// value and replaces the old one; values handed out earlier never change.
type Store[S any] struct {
	state S
}

func NewStore[S any](initial S) *Store[S] {
	return &Store[S]{state: initial}
}

// State returns the current state.
func (s *Store[S]) State() S { return s.state }

// Set applies patch and returns the new state. A patch is one of:
//
//   - an Action, adjusting one numeric field
//   - a func(S) S, whose result replaces the state
//   - a func(S) any, whose partial result is merged like a struct patch
//   - a struct or struct pointer whose non-zero fields replace the
//     fields of the same name; pointers, slices and maps are swapped,
//     not copied into; a *T patch field writes a T field, zero included
//
// The state is unchanged when Set returns an error.
func (s *Store[S]) Set(patch any) (S, error) {
	next, err := s.apply(patch)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

func (s *Store[S]) apply(patch any) (S, error) {
	switch p := patch.(type) {
	case Action:
		return applyAction(s.state, p)
	case *Action:
		return applyAction(s.state, *p)
	case func(S) S:
		return p(s.state), nil
	case func(S) any:
		return merge(s.state, p(s.state))
	default:
		return merge(s.state, patch)
	}
}

func merge[S any](cur S, partial any) (S, error) {
	next := cur
	if partial == nil {
		return next, nil
	}
	dst := reflect.ValueOf(&next).Elem()
	src := reflect.ValueOf(partial)
	for src.Kind() == reflect.Pointer {
		if src.IsNil() {
			return next, nil
		}
		src = src.Elem()
	}
	if dst.Kind() != reflect.Struct || src.Kind() != reflect.Struct {
		return cur, fmt.Errorf("merge state: %w: %s patch on %s state", ErrBadPatch, src.Kind(), dst.Kind())
	}
	st := src.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		from := src.Field(i)
		if from.IsZero() {
			continue
		}
		to := dst.FieldByName(sf.Name)
		if !to.IsValid() || !to.CanSet() {
			continue
		}
		if err := mergeField(to, from); err != nil {
			return cur, fmt.Errorf("merge state field %q: %w", sf.Name, err)
		}
	}
	return next, nil
}

// mergeField replaces to with from. References are swapped, never
// written through, so values held by earlier states stay intact.
func mergeField(to, from reflect.Value) error {
	switch {
	case from.Type().AssignableTo(to.Type()):
		to.Set(from)
		return nil
	case from.Kind() == reflect.Pointer && from.Type().Elem().AssignableTo(to.Type()):
		to.Set(from.Elem())
		return nil
	}
	switch from.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return fmt.Errorf("%w: %s into %s", ErrBadPatch, from.Type(), to.Type())
	case reflect.Struct:
		// Same-named struct of another type: fields are copied by name
		// into a fresh value which then replaces the old one whole.
		fresh := reflect.New(to.Type())
		if err := copier.Copy(fresh.Interface(), from.Interface()); err != nil {
			return err
		}
		to.Set(fresh.Elem())
		return nil
	}
	if !from.Type().ConvertibleTo(to.Type()) {
		return fmt.Errorf("%w: %s into %s", ErrBadPatch, from.Type(), to.Type())
	}
	return copier.Copy(to.Addr().Interface(), from.Interface())
}

func applyAction[S any](cur S, a Action) (S, error) {
	next := cur
	v := reflect.ValueOf(&next).Elem()
	if v.Kind() != reflect.Struct {
		return cur, fmt.Errorf("%w: %q on %s state", ErrUnknownField, a.Key, v.Kind())
	}
	f := v.FieldByName(a.Key)
	if !f.IsValid() || !f.CanSet() {
		return cur, fmt.Errorf("%w: %q", ErrUnknownField, a.Key)
	}
	delta := a.Value
	if a.Op == OpDecr {
		delta = -delta
	}
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		f.SetFloat(f.Float() + delta)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f.SetInt(f.Int() + int64(delta))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f.SetUint(uint64(int64(f.Uint()) + int64(delta)))
	default:
		return cur, &FieldTypeError{Key: a.Key, Kind: f.Kind()}
	}
	return next, nil
}
