package movement

import "github.com/oomph-ac/motion/enum"

// Method is the movement control method deciding whether an entity's transform is driven by
// game logic, by animation, or by a blend of both.
type Method uint8

const (
	MethodUndefined Method = iota
	MethodEntity
	MethodAnimation
	MethodDecoupledCatchUp
	MethodClampedEntity
	MethodSmoothedEntity
	MethodAnimationHCollision
	// MethodCount is the number of methods. It is never a live value.
	MethodCount
	// MethodFF is a reserved marker kept for existing save data. It is never selected.
	MethodFF Method = 0xFF
)

var methods = enum.NewTable("EMovementControlMethod", func() []enum.Entry[Method] {
	return []enum.Entry[Method]{
		{Value: MethodUndefined, Name: "eMCM_Undefined", Alias: "Undefined"},
		{Value: MethodEntity, Name: "eMCM_Entity", Alias: "Entity"},
		{Value: MethodAnimation, Name: "eMCM_Animation", Alias: "Animation"},
		{Value: MethodDecoupledCatchUp, Name: "eMCM_DecoupledCatchUp", Alias: "DecoupledCatchUp"},
		{Value: MethodClampedEntity, Name: "eMCM_ClampedEntity", Alias: "ClampedEntity"},
		{Value: MethodSmoothedEntity, Name: "eMCM_SmoothedEntity", Alias: "SmoothedEntity"},
		{Value: MethodAnimationHCollision, Name: "eMCM_AnimationHCollision", Alias: "AnimationHCollision"},
		{Value: MethodCount, Name: "eMCM_COUNT", Alias: "Count", Hidden: true},
		{Value: MethodFF, Name: "eMCM_FF", Alias: "FF", Hidden: true},
	}
})

// Methods returns the descriptor table of Method.
func Methods() *enum.Table[Method] {
	return methods
}

// ParseMethod resolves a stable identifier or alias. Unknown strings resolve to
// MethodUndefined and false.
func ParseMethod(s string) (Method, bool) {
	return methods.Parse(s)
}

// Selectable returns true if m may be the active method of an entity.
func (m Method) Selectable() bool {
	return m > MethodUndefined && m < MethodCount
}

// Blends returns true if m carries a catch-up or smoothing progress value.
func (m Method) Blends() bool {
	return m == MethodDecoupledCatchUp || m == MethodSmoothedEntity
}

func (m Method) String() string {
	return methods.Alias(m)
}

func (m Method) MarshalText() ([]byte, error) {
	return methods.MarshalText(m)
}

func (m *Method) UnmarshalText(text []byte) error {
	return methods.UnmarshalText(text, m)
}
