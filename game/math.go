package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Clamp clamps v to [min, max].
func Clamp[T constraints.Integer | constraints.Float](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Finite returns true if f is neither NaN nor infinite.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite32 returns true if f is neither NaN nor infinite.
func Finite32(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FiniteVec3 returns true if every component of v is finite.
func FiniteVec3(v mgl64.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// FiniteQuat returns true if every component of q is finite.
func FiniteQuat(q mgl64.Quat) bool {
	return Finite(q.W) && FiniteVec3(q.V)
}

// Horizontal returns v with its Y component zeroed.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// ClampLen shortens v to at most maxLen, keeping its direction. A non-positive maxLen yields
// the zero vector.
func ClampLen(v mgl64.Vec3, maxLen float64) mgl64.Vec3 {
	if maxLen <= 0 {
		return mgl64.Vec3{}
	}
	l := v.Len()
	if l <= maxLen {
		return v
	}
	return v.Mul(maxLen / l)
}
