package physics

import (
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/movement"
)

// Collision categories of shapes added to a SpaceSweeper, one per entity kind.
const (
	CategoryPlayer uint = 1 << iota
	CategoryActor
	CategoryProp
	CategoryWorld
)

// CategoryOf returns the collision category of an entity kind.
func CategoryOf(k collider.EntityKind) uint {
	switch k {
	case collider.KindPlayer:
		return CategoryPlayer
	case collider.KindActor:
		return CategoryActor
	case collider.KindProp:
		return CategoryProp
	default:
		return CategoryWorld
	}
}

// FilterFor returns the query filter of an entity moving in mode m. The mask holds the
// categories the mode may be blocked by: ground contact for the world, and contact for every
// other kind.
func FilterFor(m collider.Mode) cp.ShapeFilter {
	var mask uint
	for _, k := range collider.EntityKinds() {
		blocking := collider.Permits(m, collider.InteractionContact, k)
		if k == collider.KindWorld {
			blocking = blocking || collider.Permits(m, collider.InteractionGroundContact, k)
		}
		if blocking {
			mask |= CategoryOf(k)
		}
	}
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: mask}
}

// SpaceSweeper sweeps entities through a two dimensional space holding the horizontal
// footprint of obstacles. World X maps to X and world Z maps to Y. It is safe for concurrent
// use.
type SpaceSweeper struct {
	mu    sync.Mutex
	space *cp.Space
}

// NewSpaceSweeper returns an empty sweeper.
func NewSpaceSweeper() *SpaceSweeper {
	return &SpaceSweeper{space: cp.NewSpace()}
}

// AddObstacle adds the horizontal footprint of bb as a static obstacle of the given kind.
func (s *SpaceSweeper) AddObstacle(bb cube.BBox, kind collider.EntityKind) {
	shape := cp.NewBox2(s.space.StaticBody, cp.BB{
		L: bb.Min().X(),
		B: bb.Min().Z(),
		R: bb.Max().X(),
		T: bb.Max().Z(),
	}, 0)
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: CategoryOf(kind), Mask: cp.ALL_CATEGORIES})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.space.AddShape(shape)
}

// Sweep casts a circle of the given radius along the horizontal part of disp from pos,
// ignoring obstacles that mode m is not blocked by.
func (s *SpaceSweeper) Sweep(pos, disp mgl64.Vec3, radius float64, m collider.Mode) movement.SweepResult {
	hz := game.Horizontal(disp)
	if hz.LenSqr() == 0 || !game.FiniteVec3(hz) || !game.FiniteVec3(pos) {
		return movement.SweepResult{Fraction: 1}
	}
	filter := FilterFor(m)
	if filter.Mask == 0 {
		return movement.SweepResult{Fraction: 1}
	}

	start := cp.Vector{X: pos.X(), Y: pos.Z()}
	end := cp.Vector{X: pos.X() + hz.X(), Y: pos.Z() + hz.Z()}
	s.mu.Lock()
	info := s.space.SegmentQueryFirst(start, end, radius, filter)
	s.mu.Unlock()
	if info.Shape == nil {
		return movement.SweepResult{Fraction: 1}
	}
	return movement.SweepResult{
		Fraction: game.Clamp(info.Alpha, 0, 1),
		Hit:      true,
		Normal:   mgl64.Vec3{info.Normal.X, 0, info.Normal.Y},
	}
}
