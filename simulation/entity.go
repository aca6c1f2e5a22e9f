package simulation

import (
	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/event"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/telemetry"
	"github.com/sirupsen/logrus"
)

// Entity is a single simulated entity. Its bindings may be changed between ticks, but not
// while the world is stepping.
type Entity struct {
	ID   uint64
	Kind collider.EntityKind

	Bindings *binding.Bindings
	State    *movement.MotionState
	Gate     *collider.Gate

	log        logrus.FieldLogger
	warnings   *telemetry.LogReporter
	reconciler *movement.Reconciler
}

// Frame is the per-tick input of an entity.
type Frame struct {
	Animation movement.AnimationSample
	Logic     movement.Transform
	// Dt is the tick duration in seconds.
	Dt float64
	// Sweep is the horizontal collision sweep of the animation displacement. If nil and the
	// selected method needs one, the pipeline sweeper is used.
	Sweep *movement.SweepResult
}

// Handoff is the result of a step, handed to the physics collaborator.
type Handoff struct {
	Transform movement.Transform
	Method    movement.Method
	Mode      collider.Mode
	// ExcludeFromBroadPhase is true if the entity must be left out of broad-phase collision.
	ExcludeFromBroadPhase bool
	// Gate answers interaction queries for the entity.
	Gate *collider.Gate

	Progress  float64
	NonFinite bool
	Snapped   bool
	// Transition is the last method change of the entity and how far it has been applied.
	Transition movement.Transition
	// Delta is the positional change committed this tick.
	Delta float64
}

// reporter routes the non-fatal errors of one entity to the log, the pipeline reporter and
// the handler.
type reporter struct {
	e *Entity
	p *Pipeline
}

func (r reporter) Report(err error) {
	r.e.warnings.Report(err)
	if r.p.reporter != nil {
		r.p.reporter.Report(err)
	}
	r.p.handler.HandleNonFinite(event.NonFinite{Entity: r.e.ID, Method: r.e.State.Method, Err: err})
}
