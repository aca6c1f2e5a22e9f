// Package enum provides table-driven descriptors mapping closed enum tags to stable string
// identifiers used by save data and tooling.
package enum

import (
	"fmt"
	"sync"
)

// Entry describes a single enum value.
type Entry[T ~uint8] struct {
	// Value is the numeric tag of the entry.
	Value T
	// Name is the stable identifier written to save data. It never changes once shipped.
	Name string
	// Alias is a short human readable name, accepted when parsing and used in logs.
	Alias string
	// Hidden entries (sentinels and reserved tags) are valid wire values but are left out of
	// any user-facing listing.
	Hidden bool
}

// Table is a read-only descriptor table for one enum type. It is built lazily the first time
// it is used and never mutated afterwards, so it is safe for concurrent use.
type Table[T ~uint8] struct {
	typeName string
	index    func() *index[T]
}

type index[T ~uint8] struct {
	entries []Entry[T]
	byValue map[T]int
	byName  map[string]int
	visible []T
}

// NewTable returns a table for the enum named typeName. entries is called at most once.
func NewTable[T ~uint8](typeName string, entries func() []Entry[T]) *Table[T] {
	return &Table[T]{
		typeName: typeName,
		index: sync.OnceValue(func() *index[T] {
			return buildIndex(typeName, entries())
		}),
	}
}

func buildIndex[T ~uint8](typeName string, entries []Entry[T]) *index[T] {
	idx := &index[T]{
		entries: entries,
		byValue: make(map[T]int, len(entries)),
		byName:  make(map[string]int, len(entries)*2),
	}
	for i, e := range entries {
		if _, ok := idx.byValue[e.Value]; ok {
			panic(fmt.Sprintf("enum %s: duplicate value %d", typeName, e.Value))
		}
		idx.byValue[e.Value] = i
		for _, name := range [...]string{e.Name, e.Alias} {
			if name == "" {
				continue
			}
			if j, ok := idx.byName[name]; ok && j != i {
				panic(fmt.Sprintf("enum %s: duplicate name %q", typeName, name))
			}
			idx.byName[name] = i
		}
		if !e.Hidden {
			idx.visible = append(idx.visible, e.Value)
		}
	}
	return idx
}

// TypeName returns the name of the enum type described by the table.
func (t *Table[T]) TypeName() string {
	return t.typeName
}

// Lookup returns the entry for v.
func (t *Table[T]) Lookup(v T) (Entry[T], bool) {
	idx := t.index()
	i, ok := idx.byValue[v]
	if !ok {
		return Entry[T]{}, false
	}
	return idx.entries[i], true
}

// Name returns the stable identifier of v.
func (t *Table[T]) Name(v T) (string, bool) {
	e, ok := t.Lookup(v)
	return e.Name, ok
}

// Alias returns the short name of v, or a numeric placeholder for unknown tags.
func (t *Table[T]) Alias(v T) string {
	e, ok := t.Lookup(v)
	if !ok {
		return fmt.Sprintf("%s(%d)", t.typeName, uint8(v))
	}
	if e.Alias == "" {
		return e.Name
	}
	return e.Alias
}

// Parse resolves a stable identifier or alias. Matching is exact and case-sensitive.
func (t *Table[T]) Parse(s string) (T, bool) {
	idx := t.index()
	i, ok := idx.byName[s]
	if !ok {
		var zero T
		return zero, false
	}
	return idx.entries[i].Value, true
}

// Known returns true if v has an entry in the table.
func (t *Table[T]) Known(v T) bool {
	_, ok := t.index().byValue[v]
	return ok
}

// Visible returns every non-hidden value in declaration order. The returned slice must not be
// modified.
func (t *Table[T]) Visible() []T {
	return t.index().visible
}

// Entries returns every entry, hidden ones included, in declaration order. The returned slice
// must not be modified.
func (t *Table[T]) Entries() []Entry[T] {
	return t.index().entries
}

// MarshalText encodes v as its stable identifier.
func (t *Table[T]) MarshalText(v T) ([]byte, error) {
	name, ok := t.Name(v)
	if !ok {
		return nil, fmt.Errorf("enum %s: cannot encode unknown value %d", t.typeName, uint8(v))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a stable identifier or alias into dst.
func (t *Table[T]) UnmarshalText(text []byte, dst *T) error {
	v, ok := t.Parse(string(text))
	if !ok {
		return fmt.Errorf("enum %s: unknown identifier %q", t.typeName, text)
	}
	*dst = v
	return nil
}
