// Package physics holds the collision sweeps that feed horizontal collision results into the
// transform reconciler.
package physics

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/movement"
)

// BoxSource provides the static collision boxes near an area.
type BoxSource interface {
	NearbyBoxes(area cube.BBox) []cube.BBox
}

// Boxes is a BoxSource over a fixed list of boxes.
type Boxes []cube.BBox

// NearbyBoxes ...
func (b Boxes) NearbyBoxes(area cube.BBox) []cube.BBox {
	var list []cube.BBox
	for _, bb := range b {
		if bb.IntersectsWith(area) {
			list = append(list, bb)
		}
	}
	return list
}

// EntityBox returns the collision box of an entity standing at pos.
func EntityBox(pos mgl64.Vec3, width, height float64) cube.BBox {
	hw := width * 0.5
	return cube.Box(
		pos[0]-hw,
		pos[1],
		pos[2]-hw,
		pos[0]+hw,
		pos[1]+height,
		pos[2]+hw,
	).GrowVec3(mgl64.Vec3{-1e-4, 0, -1e-4})
}

// ClipSweeper sweeps an entity box through static boxes, clipping the X axis first and the Z
// axis second.
type ClipSweeper struct {
	Source BoxSource
}

// Sweep returns the fraction of the horizontal part of disp that box can travel.
func (s ClipSweeper) Sweep(box cube.BBox, disp mgl64.Vec3) movement.SweepResult {
	hz := game.Horizontal(disp)
	lenSqr := hz.LenSqr()
	if s.Source == nil || lenSqr == 0 || !game.FiniteVec3(hz) {
		return movement.SweepResult{Fraction: 1}
	}
	nearby := s.Source.NearbyBoxes(box.Extend(hz))

	xVel := mgl64.Vec3{hz.X()}
	zVel := mgl64.Vec3{0, 0, hz.Z()}
	for i := len(nearby) - 1; i >= 0; i-- {
		xVel = clipCollide(nearby[i], box, xVel)
	}
	box = box.Translate(xVel)
	for i := len(nearby) - 1; i >= 0; i-- {
		zVel = clipCollide(nearby[i], box, zVel)
	}

	res := movement.SweepResult{Fraction: 1}
	if xVel[0] != hz[0] {
		res.Hit = true
		res.Normal[0] = -math.Copysign(1, hz[0])
	}
	if zVel[2] != hz[2] {
		res.Hit = true
		res.Normal[2] = -math.Copysign(1, hz[2])
	}
	if res.Hit {
		clipped := mgl64.Vec3{xVel[0], 0, zVel[2]}
		res.Fraction = game.Clamp(clipped.Dot(hz)/lenSqr, 0, 1)
		if l := res.Normal.Len(); l > 0 {
			res.Normal = res.Normal.Mul(1 / l)
		}
	}
	return res
}

// clipCollide shortens vel so that moving stops at the face of stationary. Boxes that already
// overlap are left alone.
func clipCollide(stationary, moving cube.BBox, vel mgl64.Vec3) mgl64.Vec3 {
	if stationary.Min() == stationary.Max() {
		return vel
	}

	separating, axis := 0, 0
	var signed, normal float64
	for i := range 3 {
		minPen := moving.Max()[i] - stationary.Min()[i]
		maxPen := stationary.Max()[i] - moving.Min()[i]
		if math.Abs(minPen) <= 1e-7 {
			minPen = 0
		}
		if math.Abs(maxPen) <= 1e-7 {
			maxPen = 0
		}

		switch {
		case minPen <= 0:
			signed, normal = minPen, -1
		case maxPen <= 0:
			signed, normal = maxPen, 1
		default:
			continue
		}
		separating++
		axis = i
		if separating > 1 {
			return vel
		}
	}
	if separating == 0 {
		return vel
	}

	if signed-normal*vel[axis] <= 0 {
		return vel
	}
	vel[axis] = signed * normal
	return vel
}
