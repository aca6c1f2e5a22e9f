package binding

import "fmt"

// Value is a tagged union holding an integer, float or string binding value. The zero Value
// carries no valid kind and is rejected by Bindings.Set.
type Value struct {
	kind  Kind
	valid bool

	i int32
	f float32
	s string
}

// Int returns an integer Value.
func Int(v int32) Value {
	return Value{kind: KindInteger, valid: true, i: v}
}

// Float returns a float Value.
func Float(v float32) Value {
	return Value{kind: KindFloat, valid: true, f: v}
}

// Str returns a string Value.
func Str(v string) Value {
	return Value{kind: KindString, valid: true, s: v}
}

// Kind returns the kind of the value and whether the value is set at all.
func (v Value) Kind() (Kind, bool) {
	return v.kind, v.valid
}

// Int returns the integer held by v.
func (v Value) Int() (int32, bool) {
	return v.i, v.valid && v.kind == KindInteger
}

// Float returns the float held by v.
func (v Value) Float() (float32, bool) {
	return v.f, v.valid && v.kind == KindFloat
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.s, v.valid && v.kind == KindString
}

func (v Value) String() string {
	if !v.valid {
		return "<unset>"
	}
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	default:
		return fmt.Sprintf("%q", v.s)
	}
}
