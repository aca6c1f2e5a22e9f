package movement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/game"
)

// Transform is the position and orientation of an entity.
type Transform struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// Identity returns a transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rot: mgl64.QuatIdent()}
}

// At returns a transform at pos with no rotation.
func At(pos mgl64.Vec3) Transform {
	return Transform{Pos: pos, Rot: mgl64.QuatIdent()}
}

// Finite returns true if no component of t is NaN or infinite.
func (t Transform) Finite() bool {
	return game.FiniteVec3(t.Pos) && game.FiniteQuat(t.Rot)
}

// ApproxEqual returns true if both transforms are within epsilon of each other.
func (t Transform) ApproxEqual(o Transform, epsilon float64) bool {
	return t.Pos.ApproxEqualThreshold(o.Pos, epsilon) && t.Rot.ApproxEqualThreshold(o.Rot, epsilon)
}

// AnimationSample is the animation-derived input of a tick.
type AnimationSample struct {
	Transform Transform
	// Velocity is the animation-implied velocity in units per second. Its length is used as
	// the speed hint for catch-up and clamping.
	Velocity mgl64.Vec3
}

// Speed returns the animation-implied speed, or 0 if the hint is unusable.
func (s AnimationSample) Speed() float64 {
	if !game.FiniteVec3(s.Velocity) {
		return 0
	}
	return s.Velocity.Len()
}

// SweepResult is the outcome of the physics collaborator's horizontal collision sweep of the
// animation displacement.
type SweepResult struct {
	// Fraction of the horizontal displacement that may be committed, in [0, 1].
	Fraction float64
	// Hit is true if the sweep was obstructed.
	Hit bool
	// Normal is the surface normal of the obstruction, if any.
	Normal mgl64.Vec3
}
