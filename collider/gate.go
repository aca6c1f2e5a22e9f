package collider

import "github.com/oomph-ac/motion/oerror"

// Interaction is a kind of collision interaction queried by the physics collaborator.
type Interaction uint8

const (
	// InteractionGroundContact is resting on or sliding along the ground plane.
	InteractionGroundContact Interaction = iota
	// InteractionContact is being blocked by, or blocking, another body.
	InteractionContact
	// InteractionPush is this entity applying a push impulse to another entity.
	InteractionPush
	// InteractionPushed is this entity receiving a push impulse from another entity.
	InteractionPushed

	interactionCount
)

var interactionNames = [...]string{"GroundContact", "Contact", "Push", "Pushed"}

func (i Interaction) String() string {
	if i < interactionCount {
		return interactionNames[i]
	}
	return "Interaction(?)"
}

// Interactions returns every interaction kind.
func Interactions() []Interaction {
	return []Interaction{InteractionGroundContact, InteractionContact, InteractionPush, InteractionPushed}
}

// EntityKind tags the other party of an interaction.
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindActor
	KindProp
	KindWorld
)

// EntityKinds returns every entity kind.
func EntityKinds() []EntityKind {
	return []EntityKind{KindPlayer, KindActor, KindProp, KindWorld}
}

// Gate tracks the collider mode of one entity. The zero Gate is in ModeUndefined, which
// permits nothing until a mode is set.
type Gate struct {
	mode Mode
}

// NewGate returns a gate in the given mode.
func NewGate(m Mode) (*Gate, error) {
	g := &Gate{}
	if err := g.SetMode(m); err != nil {
		return nil, err
	}
	return g, nil
}

// Mode returns the current mode.
func (g *Gate) Mode() Mode {
	return g.mode
}

// Initialized returns true once a live mode has been applied.
func (g *Gate) Initialized() bool {
	return g.mode.Live()
}

// SetMode applies m immediately. Undefined, Count, FF and unknown tags are rejected and leave
// the gate unchanged.
func (g *Gate) SetMode(m Mode) error {
	if !m.Live() {
		return oerror.Newf(oerror.KindInvalidMode, "%s cannot be applied", m)
	}
	g.mode = m
	return nil
}

// ExcludedFromBroadPhase returns true if the physics collaborator should leave the entity out
// of broad-phase collision entirely.
func (g *Gate) ExcludedFromBroadPhase() bool {
	return g.mode == ModeDisabled
}

// Permits returns true if the current mode allows the interaction with an entity of the
// given kind.
func (g *Gate) Permits(i Interaction, other EntityKind) bool {
	return Permits(g.mode, i, other)
}

// Permits is the pure interaction rule table of the collider modes.
func Permits(m Mode, i Interaction, other EntityKind) bool {
	switch m {
	case ModeGroundedOnly:
		return i == InteractionGroundContact
	case ModePushable:
		return i < interactionCount
	case ModeNonPushable:
		return i == InteractionGroundContact || i == InteractionContact || i == InteractionPush
	case ModePushesPlayersOnly:
		switch i {
		case InteractionGroundContact, InteractionContact:
			return true
		case InteractionPush:
			return other == KindPlayer
		}
		return false
	default:
		// Undefined, Disabled, Spectator and non-live tags permit nothing.
		return false
	}
}
