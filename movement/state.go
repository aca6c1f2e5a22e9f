package movement

import "github.com/oomph-ac/motion/oerror"

// Transition records a method change that is still being applied.
type Transition struct {
	From, To Method
	// Tick is the number of ticks reconciled since the change.
	Tick int
	// Ticks is the number of transition ticks governed by the entry policy of To.
	Ticks int
}

// Active returns true while the transition has ticks remaining.
func (t Transition) Active() bool {
	return t.Tick < t.Ticks
}

// MotionState holds the movement state owned by a single entity. It is mutated only by the
// Selector and the Reconciler, and must not be shared between goroutines.
type MotionState struct {
	Current, Previous Transform

	Method Method

	Transition Transition

	// Progress is the blend or catch-up progress in [0, 1]. It is only meaningful while Method
	// is DecoupledCatchUp or SmoothedEntity, and is reset to 0 on every method change.
	Progress float64
	// CatchUpTicks is the number of ticks spent catching up under DecoupledCatchUp.
	CatchUpTicks int
}

// NewMotionState returns the state of a newly created entity at t. The method stays
// MethodUndefined until the first selection.
func NewMotionState(t Transform) *MotionState {
	return &MotionState{Current: t, Previous: t}
}

// Initialized returns true once a method has been selected.
func (s *MotionState) Initialized() bool {
	return s.Method.Selectable()
}

// Teleport moves the entity to t without any continuity constraint and restarts any catch-up
// or smoothing in progress. Non-finite transforms are rejected.
func (s *MotionState) Teleport(t Transform) error {
	if !t.Finite() {
		return oerror.Newf(oerror.KindNonFiniteTransform, "teleport to %v", t.Pos)
	}
	s.Previous = t
	s.Current = t
	s.resetProgress()
	return nil
}

// Delta returns the positional change of the last committed tick.
func (s *MotionState) Delta() float64 {
	return s.Current.Pos.Sub(s.Previous.Pos).Len()
}

func (s *MotionState) resetProgress() {
	s.Progress = 0
	s.CatchUpTicks = 0
}
