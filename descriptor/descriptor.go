// Package descriptor exposes the enum descriptor tables of the module to tooling, such as
// editors that list the values an enum binding may take.
package descriptor

import (
	"sync"

	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/enum"
	"github.com/oomph-ac/motion/movement"
)

// Value is a single user-facing enum value.
type Value struct {
	Tag   uint8
	Name  string
	Alias string
}

// Descriptor lists the user-facing values of one enum type.
type Descriptor struct {
	TypeName string
	Values   []Value
}

// Lookup returns the value with the stable identifier or alias s.
func (d Descriptor) Lookup(s string) (Value, bool) {
	for _, v := range d.Values {
		if v.Name == s || v.Alias == s {
			return v, true
		}
	}
	return Value{}, false
}

var all = sync.OnceValue(func() []Descriptor {
	return []Descriptor{
		describe(binding.Kinds()),
		describe(collider.Modes()),
		describe(movement.Methods()),
	}
})

// All returns the descriptors of every enum type. The list is built on first use and must not
// be modified.
func All() []Descriptor {
	return all()
}

// ByType returns the descriptor of the enum type named typeName.
func ByType(typeName string) (Descriptor, bool) {
	for _, d := range all() {
		if d.TypeName == typeName {
			return d, true
		}
	}
	return Descriptor{}, false
}

func describe[T ~uint8](t *enum.Table[T]) Descriptor {
	d := Descriptor{TypeName: t.TypeName()}
	for _, v := range t.Visible() {
		e, _ := t.Lookup(v)
		d.Values = append(d.Values, Value{Tag: uint8(e.Value), Name: e.Name, Alias: e.Alias})
	}
	return d
}
