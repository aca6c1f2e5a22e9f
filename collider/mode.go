package collider

import "github.com/oomph-ac/motion/enum"

// Mode determines which collision interactions an entity participates in.
type Mode uint8

const (
	ModeUndefined Mode = iota
	ModeDisabled
	ModeGroundedOnly
	ModePushable
	ModeNonPushable
	ModePushesPlayersOnly
	ModeSpectator
	// ModeCount is the number of modes. It is never a live value.
	ModeCount
	// ModeFF is a reserved marker kept for existing save data. It is never a live value.
	ModeFF Mode = 0xFF
)

var modes = enum.NewTable("EColliderMode", func() []enum.Entry[Mode] {
	return []enum.Entry[Mode]{
		{Value: ModeUndefined, Name: "eColliderMode_Undefined", Alias: "Undefined"},
		{Value: ModeDisabled, Name: "eColliderMode_Disabled", Alias: "Disabled"},
		{Value: ModeGroundedOnly, Name: "eColliderMode_GroundedOnly", Alias: "GroundedOnly"},
		{Value: ModePushable, Name: "eColliderMode_Pushable", Alias: "Pushable"},
		{Value: ModeNonPushable, Name: "eColliderMode_NonPushable", Alias: "NonPushable"},
		{Value: ModePushesPlayersOnly, Name: "eColliderMode_PushesPlayersOnly", Alias: "PushesPlayersOnly"},
		{Value: ModeSpectator, Name: "eColliderMode_Spectator", Alias: "Spectator"},
		{Value: ModeCount, Name: "eColliderMode_COUNT", Alias: "Count", Hidden: true},
		{Value: ModeFF, Name: "eColliderMode_FF", Alias: "FF", Hidden: true},
	}
})

// Modes returns the descriptor table of Mode.
func Modes() *enum.Table[Mode] {
	return modes
}

// Live returns true if m may be the active mode of an entity.
func (m Mode) Live() bool {
	return m > ModeUndefined && m < ModeCount
}

func (m Mode) String() string {
	return modes.Alias(m)
}

func (m Mode) MarshalText() ([]byte, error) {
	return modes.MarshalText(m)
}

func (m *Mode) UnmarshalText(text []byte) error {
	return modes.UnmarshalText(text, m)
}
