package simulation

import "github.com/oomph-ac/motion/event"

// Handler handles the events fired while stepping entities. Entities are stepped
// concurrently, so implementations must be safe for concurrent use.
type Handler interface {
	// HandleMethodChange is called before a newly selected movement control method is applied.
	// Cancelling keeps the current method. It is not called for the first selection of an
	// entity.
	HandleMethodChange(ctx *event.Context, ev event.MethodChange)
	// HandleModeChange is called before the collider mode of an entity changes. Cancelling
	// keeps the current mode.
	HandleModeChange(ctx *event.Context, ev event.ModeChange)
	// HandleNonFinite is called when non-finite input or output was replaced.
	HandleNonFinite(ev event.NonFinite)
}

// NopHandler implements Handler without doing anything.
type NopHandler struct{}

// Compile time check to make sure NopHandler implements Handler.
var _ Handler = NopHandler{}

func (NopHandler) HandleMethodChange(*event.Context, event.MethodChange) {}
func (NopHandler) HandleModeChange(*event.Context, event.ModeChange)     {}
func (NopHandler) HandleNonFinite(event.NonFinite)                       {}
