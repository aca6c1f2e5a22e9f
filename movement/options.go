package movement

import (
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/oerror"
)

// ReconcilerOptions holds the blend timing constants of the reconciler. They are supplied by
// the integrating system.
type ReconcilerOptions struct {
	// CatchUpTickBudget is the number of ticks DecoupledCatchUp may take before it snaps to the
	// animation position.
	CatchUpTickBudget int
	// CatchUpSpeed is the speed, on top of the animation speed, at which the position may close
	// the gap in units per second. Zero leaves the catch-up step unlimited.
	CatchUpSpeed float64

	// SmoothingFactor is the fraction of the remaining gap closed each tick by SmoothedEntity.
	SmoothingFactor float64

	// ClampSpeedTolerance scales the animation speed into the ClampedEntity per-tick limit.
	ClampSpeedTolerance float64
	// ClampFallbackMaxDelta is the ClampedEntity per-tick limit used when the animation reports
	// no speed.
	ClampFallbackMaxDelta float64

	// FixedDt replaces non-finite or negative tick durations.
	FixedDt float64
	// Epsilon is the distance under which a gap is considered closed.
	Epsilon float64

	// Debugf receives reconciliation traces, if set.
	Debugf func(format string, args ...any)
}

// DefaultReconcilerOptions returns the default reconciler options.
func DefaultReconcilerOptions() ReconcilerOptions {
	return ReconcilerOptions{
		CatchUpTickBudget:     game.DefaultCatchUpTickBudget,
		SmoothingFactor:       game.DefaultSmoothingFactor,
		ClampSpeedTolerance:   game.DefaultClampSpeedTolerance,
		ClampFallbackMaxDelta: game.DefaultClampFallbackMaxDelta,
		FixedDt:               game.DefaultFixedDt,
		Epsilon:               game.DefaultEpsilon,
	}
}

// Validate returns an error if any option is out of range.
func (o ReconcilerOptions) Validate() error {
	switch {
	case o.CatchUpTickBudget < 1:
		return oerror.New("catch-up tick budget must be at least 1, got %d", o.CatchUpTickBudget)
	case !game.Finite(o.CatchUpSpeed) || o.CatchUpSpeed < 0:
		return oerror.New("catch-up speed must be a non-negative number, got %v", o.CatchUpSpeed)
	case !(o.SmoothingFactor > 0 && o.SmoothingFactor <= 1):
		return oerror.New("smoothing factor must be in (0, 1], got %v", o.SmoothingFactor)
	case !game.Finite(o.ClampSpeedTolerance) || o.ClampSpeedTolerance <= 0:
		return oerror.New("clamp speed tolerance must be positive, got %v", o.ClampSpeedTolerance)
	case !game.Finite(o.ClampFallbackMaxDelta) || o.ClampFallbackMaxDelta < 0:
		return oerror.New("clamp fallback delta must be non-negative, got %v", o.ClampFallbackMaxDelta)
	case !game.Finite(o.FixedDt) || o.FixedDt <= 0:
		return oerror.New("fixed dt must be positive, got %v", o.FixedDt)
	case !game.Finite(o.Epsilon) || o.Epsilon < 0:
		return oerror.New("epsilon must be non-negative, got %v", o.Epsilon)
	}
	return nil
}

func (o ReconcilerOptions) debugf(format string, args ...any) {
	if o.Debugf != nil {
		o.Debugf(format, args...)
	}
}

// Priorities rank the sources of method candidates read from bindings.
type Priorities struct {
	Forced    int
	Animation int
}

// SelectorOptions configures a Selector.
type SelectorOptions struct {
	// Fallback is the ranking used when no candidate is supplied or selection fails. It must
	// contain MethodClampedEntity.
	Fallback []Method
	// Priorities are used by CandidatesFromBindings.
	Priorities Priorities
	// SmoothingTicks is the number of transition ticks recorded when entering SmoothedEntity.
	SmoothingTicks int
	// CatchUpTickBudget is the number of transition ticks recorded when entering
	// DecoupledCatchUp. It should match ReconcilerOptions.CatchUpTickBudget.
	CatchUpTickBudget int
	// ColliderModes optionally maps methods to the collider mode requested when the method is
	// entered.
	ColliderModes map[Method]collider.Mode
}

// DefaultSelectorOptions returns the default selector options.
func DefaultSelectorOptions() SelectorOptions {
	return SelectorOptions{
		Fallback: []Method{MethodClampedEntity},
		Priorities: Priorities{
			Forced:    game.DefaultForcedPriority,
			Animation: game.DefaultAnimationPriority,
		},
		SmoothingTicks:    SmoothingTicksFor(game.DefaultSmoothingFactor),
		CatchUpTickBudget: game.DefaultCatchUpTickBudget,
	}
}
