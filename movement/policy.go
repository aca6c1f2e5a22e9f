package movement

import (
	"math"

	"github.com/oomph-ac/motion/game"
)

// Blend is the way a method takes authority when it is entered.
type Blend uint8

const (
	// BlendNone takes authority immediately.
	BlendNone Blend = iota
	// BlendCatchUp converges to the animation position over a bounded number of ticks.
	BlendCatchUp
	// BlendClamp limits the per-tick change to the animation-implied speed.
	BlendClamp
	// BlendSmooth low-pass filters toward the logic transform.
	BlendSmooth
)

func (b Blend) String() string {
	switch b {
	case BlendNone:
		return "none"
	case BlendCatchUp:
		return "catch-up"
	case BlendClamp:
		return "clamp"
	case BlendSmooth:
		return "smooth"
	}
	return "unknown"
}

// Policy describes how a method reconciles animation and logic transforms.
type Policy struct {
	Blend Blend
	// AnimationPosition is true if the position follows the animation transform.
	AnimationPosition bool
	// AnimationRotation is true if the orientation follows the animation transform.
	AnimationRotation bool
	// HorizontalSweep is true if horizontal displacement is constrained by the collision sweep.
	HorizontalSweep bool
}

var policies = [MethodCount]Policy{
	MethodEntity:              {Blend: BlendNone},
	MethodAnimation:           {Blend: BlendNone, AnimationPosition: true, AnimationRotation: true},
	MethodAnimationHCollision: {Blend: BlendNone, AnimationPosition: true, AnimationRotation: true, HorizontalSweep: true},
	MethodDecoupledCatchUp:    {Blend: BlendCatchUp, AnimationPosition: true},
	MethodClampedEntity:       {Blend: BlendClamp},
	MethodSmoothedEntity:      {Blend: BlendSmooth},
}

// PolicyOf returns the policy of m. Non-selectable methods have no policy.
func PolicyOf(m Method) (Policy, bool) {
	if !m.Selectable() {
		return Policy{}, false
	}
	return policies[m], true
}

// transitionTicks returns the number of transition ticks recorded when entering m.
func (o SelectorOptions) transitionTicks(m Method) int {
	p, _ := PolicyOf(m)
	switch p.Blend {
	case BlendCatchUp:
		return o.CatchUpTickBudget
	case BlendClamp:
		return 1
	case BlendSmooth:
		return o.SmoothingTicks
	}
	return 0
}

// SmoothingTicksFor returns the number of ticks a smoothing factor needs until the remaining
// weight drops below game.SmoothingSettledWeight.
func SmoothingTicksFor(factor float64) int {
	if factor >= 1 {
		return 1
	}
	if factor <= 0 {
		return 0
	}
	return int(math.Ceil(math.Log(game.SmoothingSettledWeight) / math.Log(1-factor)))
}
