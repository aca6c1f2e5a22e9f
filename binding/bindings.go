package binding

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/oerror"
)

// Names of the bindings read by the movement core.
const (
	// NameForcedMethod holds a movement control method identifier forced by game logic.
	NameForcedMethod = "MovementControlMethod"
	// NameAnimationMethod holds a movement control method identifier requested by the
	// animation system.
	NameAnimationMethod = "AnimationMovementControlMethod"
	// NameColliderMode holds a collider mode identifier commanded by game logic.
	NameColliderMode = "ColliderMode"
	// NameMaxClampDelta overrides the fallback maximum delta of clamped entity movement.
	NameMaxClampDelta = "MaxClampDelta"
)

// View is a read-only view of an entity's bindings. It is only valid for the tick it was
// taken in.
type View interface {
	Get(name string, kind Kind) (Value, error)
}

// Bindings holds the named input values of a single entity. Names are case-sensitive and
// unique. Bindings is not safe for concurrent use; it belongs to exactly one entity.
type Bindings struct {
	values *orderedmap.OrderedMap[string, Value]
}

// New returns an empty set of bindings.
func New() *Bindings {
	return &Bindings{values: orderedmap.NewOrderedMap[string, Value]()}
}

// Set inserts or overwrites the binding with the given name. Overwriting may change the kind
// of the binding. NaN and infinite float values are rejected.
func (b *Bindings) Set(name string, v Value) error {
	if name == "" {
		return oerror.Newf(oerror.KindInvalidBinding, "empty binding name")
	}
	kind, ok := v.Kind()
	if !ok || !kind.Valid() {
		return oerror.Newf(oerror.KindInvalidBinding, "%q has no valid kind", name)
	}
	if f, ok := v.Float(); ok && !game.Finite32(f) {
		return oerror.Newf(oerror.KindInvalidBinding, "%q holds non-finite float %v", name, f)
	}
	b.values.Set(name, v)
	return nil
}

// Get returns the binding with the given name. No coercion is performed between kinds: a
// Float read against an Integer binding fails with a type mismatch.
func (b *Bindings) Get(name string, kind Kind) (Value, error) {
	v, ok := b.values.Get(name)
	if !ok {
		return Value{}, oerror.Newf(oerror.KindNotFound, "%q", name)
	}
	if actual, _ := v.Kind(); actual != kind {
		return Value{}, oerror.Newf(oerror.KindTypeMismatch, "%q is %s, requested %s", name, actual, kind)
	}
	return v, nil
}

// Int returns the integer binding with the given name.
func (b *Bindings) Int(name string) (int32, error) {
	v, err := b.Get(name, KindInteger)
	if err != nil {
		return 0, err
	}
	i, _ := v.Int()
	return i, nil
}

// Float returns the float binding with the given name.
func (b *Bindings) Float(name string) (float32, error) {
	v, err := b.Get(name, KindFloat)
	if err != nil {
		return 0, err
	}
	f, _ := v.Float()
	return f, nil
}

// Str returns the string binding with the given name.
func (b *Bindings) Str(name string) (string, error) {
	v, err := b.Get(name, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.Str()
	return s, nil
}

// IntOr returns the integer binding with the given name, or def if it cannot be read.
func (b *Bindings) IntOr(name string, def int32) int32 {
	if i, err := b.Int(name); err == nil {
		return i
	}
	return def
}

// FloatOr returns the float binding with the given name, or def if it cannot be read.
func (b *Bindings) FloatOr(name string, def float32) float32 {
	if f, err := b.Float(name); err == nil {
		return f
	}
	return def
}

// StrOr returns the string binding with the given name, or def if it cannot be read.
func (b *Bindings) StrOr(name string, def string) string {
	if s, err := b.Str(name); err == nil {
		return s
	}
	return def
}

// Delete removes a binding. It returns false if no binding had the name.
func (b *Bindings) Delete(name string) bool {
	return b.values.Delete(name)
}

// Len returns the number of bindings.
func (b *Bindings) Len() int {
	return b.values.Len()
}

// Names returns the binding names in insertion order.
func (b *Bindings) Names() []string {
	return b.values.Keys()
}

// View returns a read-only view of b.
func (b *Bindings) View() View {
	return view{b: b}
}

// String formats the bindings in insertion order, for logging.
func (b *Bindings) String() string {
	s := "["
	for i, name := range b.values.Keys() {
		v, _ := b.values.Get(name)
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", name, v)
	}
	return s + "]"
}

type view struct {
	b *Bindings
}

func (v view) Get(name string, kind Kind) (Value, error) {
	return v.b.Get(name, kind)
}

// Lookup reads a string binding through a view, returning ok=false if it is absent or of
// another kind.
func Lookup(v View, name string) (string, bool) {
	val, err := v.Get(name, KindString)
	if err != nil {
		return "", false
	}
	return val.Str()
}

// LookupFloat reads a float binding through a view.
func LookupFloat(v View, name string) (float32, bool) {
	val, err := v.Get(name, KindFloat)
	if err != nil {
		return 0, false
	}
	return val.Float()
}
