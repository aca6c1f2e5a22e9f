package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/assert"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/oerror"
)

// Reporter receives non-fatal errors raised while reconciling, such as non-finite inputs.
type Reporter interface {
	Report(err error)
}

// Input holds the already resolved per-tick inputs of a reconciliation.
type Input struct {
	Animation AnimationSample
	Logic     Transform
	// Sweep is the horizontal collision sweep of the animation displacement. It is only read
	// under AnimationHCollision; nil means no obstruction was reported.
	Sweep *SweepResult
	// Dt is the tick duration in seconds.
	Dt float64
	// MaxClampDelta overrides ReconcilerOptions.ClampFallbackMaxDelta when positive.
	MaxClampDelta float64
}

// Result is the outcome of a single reconciliation.
type Result struct {
	Transform Transform
	Method    Method
	Progress  float64

	// NonFinite is true if a non-finite input or output was replaced by the last known-good
	// transform.
	NonFinite bool
	// Snapped is true if DecoupledCatchUp ran out of ticks and snapped to the animation.
	Snapped bool
	// Transition is the last method change of the entity, counted up to and including this
	// tick. It is active while the entry policy of the new method still applies.
	Transition Transition
}

// Reconciler computes the authoritative transform of an entity for a tick.
type Reconciler struct {
	opts     ReconcilerOptions
	reporter Reporter
}

// NewReconciler returns a reconciler using opts. reporter may be nil.
func NewReconciler(opts ReconcilerOptions, reporter Reporter) (*Reconciler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Reconciler{opts: opts, reporter: reporter}, nil
}

// Options returns the options of the reconciler.
func (r *Reconciler) Options() ReconcilerOptions {
	return r.opts
}

// Reconcile computes the transform for the tick from the previous transform held by state and
// the inputs. Apart from the progress values carried in state it has no side effects, and the
// same state and inputs always yield the same result. The result must be applied with Commit.
func (r *Reconciler) Reconcile(state *MotionState, method Method, in Input) (Result, error) {
	policy, ok := PolicyOf(method)
	if !ok {
		return Result{}, oerror.Newf(oerror.KindInvalidMethod, "cannot reconcile with %s", method)
	}
	if state.Method != method {
		return Result{}, oerror.Newf(oerror.KindInvalidMethod, "reconcile with %s while %s is selected", method, state.Method)
	}

	res := Result{Method: method}
	prev := state.Current
	if !prev.Finite() {
		r.report(&res, "previous transform %v", prev.Pos)
		prev = state.Previous
		if !prev.Finite() {
			prev = Identity()
		}
	}
	prev.Rot = normalizeRot(prev.Rot)

	anim, animOK := r.sanitize(&res, "animation", in.Animation.Transform, prev)
	logic, logicOK := r.sanitize(&res, "logic", in.Logic, prev)

	dt := in.Dt
	if !game.Finite(dt) || dt < 0 {
		r.opts.debugf("reconcile: replaced invalid dt %v with %v", dt, r.opts.FixedDt)
		dt = r.opts.FixedDt
	}

	var out Transform
	switch policy.Blend {
	case BlendNone:
		out = logic
		if policy.AnimationPosition {
			out = anim
		}
		if policy.HorizontalSweep {
			out.Pos = sweepHorizontal(prev.Pos, anim.Pos, in.Sweep)
		}
	case BlendCatchUp:
		if !animOK {
			// Without a usable target the catch-up holds position and keeps its budget.
			out = Transform{Pos: prev.Pos, Rot: logic.Rot}
			break
		}
		out = r.catchUp(state, &res, prev, anim, logic, in.Animation.Speed(), dt)
	case BlendClamp:
		out = r.clamp(prev, logic, in.Animation.Speed(), dt, in.MaxClampDelta)
	case BlendSmooth:
		if !logicOK {
			out = prev
			break
		}
		out = r.smooth(state, prev, logic)
	}

	if !out.Finite() {
		r.report(&res, "%s produced %v", method, out.Pos)
		out = prev
	}
	out.Rot = normalizeRot(out.Rot)

	if !method.Blends() {
		state.Progress = 0
	}
	assert.InRange(state.Progress, 0, 1, "progress")
	if state.Transition.Active() {
		state.Transition.Tick++
	}
	res.Transition = state.Transition

	res.Transform = out
	res.Progress = state.Progress
	r.opts.debugf("reconcile: method=%s prev=%v out=%v progress=%.3f", method, prev.Pos, out.Pos, res.Progress)
	return res, nil
}

// Commit makes res the current transform of state.
func (r *Reconciler) Commit(state *MotionState, res Result) {
	state.Previous = state.Current
	state.Current = res.Transform
}

// catchUp keeps the logic orientation and moves the position toward the animation position,
// snapping to it once the tick budget is used up.
func (r *Reconciler) catchUp(state *MotionState, res *Result, prev, anim, logic Transform, speed, dt float64) Transform {
	out := Transform{Pos: prev.Pos, Rot: logic.Rot}
	gap := anim.Pos.Sub(prev.Pos)
	if state.Progress >= 1 || gap.Len() <= r.opts.Epsilon {
		state.Progress = 1
		out.Pos = anim.Pos
		return out
	}

	budget := r.opts.CatchUpTickBudget
	state.CatchUpTicks++
	if state.CatchUpTicks >= budget {
		r.opts.debugf("catch-up: budget of %d ticks used, snapping over %.4f", budget, gap.Len())
		state.Progress = 1
		res.Snapped = true
		out.Pos = anim.Pos
		return out
	}

	remaining := budget - state.CatchUpTicks + 1
	step := gap.Mul(1.0 / float64(remaining))
	if r.opts.CatchUpSpeed > 0 {
		step = game.ClampLen(step, (speed+r.opts.CatchUpSpeed)*dt)
	}
	out.Pos = prev.Pos.Add(step)

	state.Progress = float64(state.CatchUpTicks) / float64(budget)
	if anim.Pos.Sub(out.Pos).Len() <= r.opts.Epsilon {
		state.Progress = 1
	}
	return out
}

// clamp follows the logic transform, limiting the positional change to what the animation
// speed allows.
func (r *Reconciler) clamp(prev, logic Transform, speed, dt, override float64) Transform {
	limit := speed * dt * r.opts.ClampSpeedTolerance
	if speed <= 0 {
		limit = r.opts.ClampFallbackMaxDelta
		if override > 0 && game.Finite(override) {
			limit = override
		}
	}
	return Transform{
		Pos: prev.Pos.Add(game.ClampLen(logic.Pos.Sub(prev.Pos), limit)),
		Rot: logic.Rot,
	}
}

// smooth low-pass filters the transform toward the logic transform.
func (r *Reconciler) smooth(state *MotionState, prev, logic Transform) Transform {
	alpha := r.opts.SmoothingFactor
	gap := logic.Pos.Sub(prev.Pos)
	// q and -q are the same orientation.
	if gap.Len() <= r.opts.Epsilon && math.Abs(prev.Rot.Dot(logic.Rot)) >= 1-r.opts.Epsilon {
		state.Progress = 1
		return logic
	}
	state.Progress += (1 - state.Progress) * alpha
	return Transform{
		Pos: prev.Pos.Add(gap.Mul(alpha)),
		Rot: mgl64.QuatSlerp(prev.Rot, logic.Rot, alpha),
	}
}

// sweepHorizontal applies the animation displacement, scaling its horizontal part by the
// sweep fraction.
func sweepHorizontal(from, to mgl64.Vec3, sweep *SweepResult) mgl64.Vec3 {
	disp := to.Sub(from)
	hz := game.Horizontal(disp)
	if sweep != nil {
		fraction := sweep.Fraction
		if !game.Finite(fraction) {
			fraction = 0
		}
		hz = hz.Mul(game.Clamp(fraction, 0, 1))
	}
	return from.Add(hz).Add(mgl64.Vec3{0, disp.Y(), 0})
}

// sanitize returns t normalized, or fallback and false if t is not finite.
func (r *Reconciler) sanitize(res *Result, name string, t, fallback Transform) (Transform, bool) {
	if t.Finite() {
		t.Rot = normalizeRot(t.Rot)
		return t, true
	}
	r.report(res, "%s transform %v %v", name, t.Pos, t.Rot)
	return fallback, false
}

func (r *Reconciler) report(res *Result, format string, args ...any) {
	res.NonFinite = true
	if r.reporter != nil {
		r.reporter.Report(oerror.Newf(oerror.KindNonFiniteTransform, format, args...))
	}
}

func normalizeRot(q mgl64.Quat) mgl64.Quat {
	if q.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
