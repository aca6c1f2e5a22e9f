// Package event holds the events fired while stepping entities.
package event

import (
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/movement"
)

// MethodChange is fired before a newly selected movement control method is applied.
type MethodChange struct {
	Entity   uint64
	From, To movement.Method
	// Fallback is true if the method is the fallback applied after a failed selection.
	Fallback bool
}

// ModeChange is fired before a collider mode change is applied through the gate.
type ModeChange struct {
	Entity   uint64
	From, To collider.Mode
	// Requested is true if the change was requested by a method change rather than by the
	// collider mode binding.
	Requested bool
}

// NonFinite is fired after non-finite input or output was replaced during reconciliation.
type NonFinite struct {
	Entity uint64
	Method movement.Method
	Err    error
}
