package simulation

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/physics"
)

// Sweeper computes the horizontal collision sweep of an entity moving by disp from from.
type Sweeper interface {
	Sweep(e *Entity, from, disp mgl64.Vec3) movement.SweepResult
}

// SweeperFunc is a function implementing Sweeper.
type SweeperFunc func(e *Entity, from, disp mgl64.Vec3) movement.SweepResult

// Sweep ...
func (f SweeperFunc) Sweep(e *Entity, from, disp mgl64.Vec3) movement.SweepResult {
	return f(e, from, disp)
}

// BoxSweeper sweeps entity boxes of the given size through static boxes.
func BoxSweeper(s physics.ClipSweeper, width, height float64) Sweeper {
	return SweeperFunc(func(_ *Entity, from, disp mgl64.Vec3) movement.SweepResult {
		return s.Sweep(physics.EntityBox(from, width, height), disp)
	})
}

// SpaceSweeper sweeps entities through s, filtering obstacles by the collider mode of the
// entity.
func SpaceSweeper(s *physics.SpaceSweeper, radius float64) Sweeper {
	return SweeperFunc(func(e *Entity, from, disp mgl64.Vec3) movement.SweepResult {
		return s.Sweep(from, disp, radius, e.Gate.Mode())
	})
}
