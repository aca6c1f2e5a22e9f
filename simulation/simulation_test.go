package simulation

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/event"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/physics"
	"github.com/oomph-ac/motion/telemetry"
)

type recordingHandler struct {
	mu           sync.Mutex
	methods      []event.MethodChange
	modes        []event.ModeChange
	nonFinite    []event.NonFinite
	cancelMethod bool
	cancelMode   bool
	// veto cancels method changes to the methods it holds.
	veto map[movement.Method]bool
}

func (h *recordingHandler) HandleMethodChange(ctx *event.Context, ev event.MethodChange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.methods = append(h.methods, ev)
	if h.cancelMethod || h.veto[ev.To] {
		ctx.Cancel()
	}
}

func (h *recordingHandler) HandleModeChange(ctx *event.Context, ev event.ModeChange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modes = append(h.modes, ev)
	if h.cancelMode {
		ctx.Cancel()
	}
}

func (h *recordingHandler) HandleNonFinite(ev event.NonFinite) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nonFinite = append(h.nonFinite, ev)
}

func testConfig() Config {
	return Config{
		Reconciler: movement.DefaultReconcilerOptions(),
		Selector:   movement.DefaultSelectorOptions(),
	}
}

func newTestPipeline(t *testing.T, conf Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(conf)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func newTestEntity(t *testing.T, p *Pipeline) *Entity {
	t.Helper()
	e, err := p.NewEntity(1, collider.KindActor, movement.Identity())
	if err != nil {
		t.Fatalf("new entity: %v", err)
	}
	return e
}

func mustSet(t *testing.T, e *Entity, name string, v binding.Value) {
	t.Helper()
	if err := e.Bindings.Set(name, v); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

func TestStepDefaultsToClampedEntity(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	e := newTestEntity(t, p)

	h, err := p.Step(e, Frame{Logic: movement.At(mgl64.Vec3{2, 0, 0}), Dt: 0.05})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodClampedEntity {
		t.Fatalf("expected ClampedEntity, got %v", h.Method)
	}
	if !h.Transform.Pos.ApproxEqual(mgl64.Vec3{0.5, 0, 0}) {
		t.Fatalf("expected a clamped step of 0.5, got %v", h.Transform.Pos)
	}
	if h.Mode != collider.ModePushable || h.ExcludeFromBroadPhase || h.Gate != e.Gate {
		t.Fatalf("unexpected gate handoff %+v", h)
	}
	if e.State.Current != h.Transform {
		t.Fatalf("step must commit the transform")
	}
	if math.Abs(h.Delta-0.5) > 1e-9 {
		t.Fatalf("expected a committed delta of 0.5, got %v", h.Delta)
	}
}

func TestStepForcedMethodFollowsLogic(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	e := newTestEntity(t, p)
	mustSet(t, e, binding.NameForcedMethod, binding.Str("eMCM_Entity"))
	mustSet(t, e, binding.NameAnimationMethod, binding.Str("Animation"))

	logic := movement.At(mgl64.Vec3{3, 1, 3})
	h, err := p.Step(e, Frame{Logic: logic, Animation: movement.AnimationSample{Transform: movement.At(mgl64.Vec3{9, 9, 9})}})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodEntity || h.Transform.Pos != logic.Pos {
		t.Fatalf("expected the forced method to win, got %v at %v", h.Method, h.Transform.Pos)
	}
}

func TestStepUnknownMethodFallsBack(t *testing.T) {
	var counters telemetry.Counters
	conf := testConfig()
	conf.Reporter = &counters
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)
	mustSet(t, e, binding.NameForcedMethod, binding.Str("eMCM_COUNT"))

	h, err := p.Step(e, Frame{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodClampedEntity {
		t.Fatalf("expected fallback to ClampedEntity, got %v", h.Method)
	}
	if counters.Count(oerror.KindInvalidMethod) != 1 {
		t.Fatalf("expected the invalid method to be reported")
	}
}

func TestStepColliderModeBinding(t *testing.T) {
	var counters telemetry.Counters
	conf := testConfig()
	conf.Reporter = &counters
	handler := &recordingHandler{}
	conf.Handler = handler
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)

	mustSet(t, e, binding.NameColliderMode, binding.Str("Disabled"))
	h, _ := p.Step(e, Frame{})
	if h.Mode != collider.ModeDisabled || !h.ExcludeFromBroadPhase {
		t.Fatalf("expected a disabled collider, got %+v", h)
	}
	if len(handler.modes) != 1 || handler.modes[0].Requested {
		t.Fatalf("expected one commanded mode change, got %+v", handler.modes)
	}

	mustSet(t, e, binding.NameColliderMode, binding.Str("eColliderMode_FF"))
	h, _ = p.Step(e, Frame{})
	if h.Mode != collider.ModeDisabled {
		t.Fatalf("sentinel mode must leave the gate unchanged, got %v", h.Mode)
	}
	if counters.Count(oerror.KindInvalidMode) != 1 {
		t.Fatalf("expected the sentinel mode to be reported")
	}

	handler.cancelMode = true
	mustSet(t, e, binding.NameColliderMode, binding.Str("Spectator"))
	if h, _ = p.Step(e, Frame{}); h.Mode != collider.ModeDisabled {
		t.Fatalf("cancelled mode change must not be applied, got %v", h.Mode)
	}
}

func TestStepMethodRequestsColliderMode(t *testing.T) {
	conf := testConfig()
	conf.Selector.ColliderModes = map[movement.Method]collider.Mode{
		movement.MethodAnimation: collider.ModeNonPushable,
	}
	handler := &recordingHandler{}
	conf.Handler = handler
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)

	if _, err := p.Step(e, Frame{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	mustSet(t, e, binding.NameAnimationMethod, binding.Str("Animation"))
	h, err := p.Step(e, Frame{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Mode != collider.ModeNonPushable {
		t.Fatalf("expected the method change to request NonPushable, got %v", h.Mode)
	}
	if len(handler.methods) != 1 || handler.methods[0].From != movement.MethodClampedEntity || handler.methods[0].To != movement.MethodAnimation {
		t.Fatalf("unexpected method events %+v", handler.methods)
	}
	if len(handler.modes) != 1 || !handler.modes[0].Requested {
		t.Fatalf("unexpected mode events %+v", handler.modes)
	}
}

func TestStepCancelledMethodChange(t *testing.T) {
	conf := testConfig()
	conf.Handler = &recordingHandler{cancelMethod: true}
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)

	if _, err := p.Step(e, Frame{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	mustSet(t, e, binding.NameForcedMethod, binding.Str("Entity"))
	h, err := p.Step(e, Frame{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodClampedEntity || e.State.Method != movement.MethodClampedEntity {
		t.Fatalf("cancelled method change must keep the current method, got %v", h.Method)
	}
}

func TestStepMaxClampDeltaBinding(t *testing.T) {
	p := newTestPipeline(t, testConfig())
	e := newTestEntity(t, p)
	mustSet(t, e, binding.NameMaxClampDelta, binding.Float(0.25))

	h, _ := p.Step(e, Frame{Logic: movement.At(mgl64.Vec3{0, 0, 1})})
	if !h.Transform.Pos.ApproxEqual(mgl64.Vec3{0, 0, 0.25}) {
		t.Fatalf("expected the binding to override the clamp delta, got %v", h.Transform.Pos)
	}
}

func TestStepHorizontalCollisionUsesSweeper(t *testing.T) {
	conf := testConfig()
	wall := physics.ClipSweeper{Source: physics.Boxes{cube.Box(1, 0, -5, 2, 3, 5)}}
	conf.Sweeper = BoxSweeper(wall, 1, 1.8)
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)
	mustSet(t, e, binding.NameForcedMethod, binding.Str("AnimationHCollision"))

	anim := movement.AnimationSample{Transform: movement.At(mgl64.Vec3{3, 0.5, 0})}
	h, err := p.Step(e, Frame{Animation: anim})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Transform.Pos.X() >= 1 || h.Transform.Pos.X() <= 0 {
		t.Fatalf("expected the wall to stop the entity before x=1, got %v", h.Transform.Pos)
	}
	if h.Transform.Pos.Y() != 0.5 {
		t.Fatalf("vertical displacement must not be swept, got %v", h.Transform.Pos)
	}

	// A frame carrying its own sweep is used as is.
	e2 := newTestEntity(t, p)
	mustSet(t, e2, binding.NameForcedMethod, binding.Str("AnimationHCollision"))
	h, _ = p.Step(e2, Frame{Animation: anim, Sweep: &movement.SweepResult{Fraction: 1}})
	if h.Transform.Pos != anim.Transform.Pos {
		t.Fatalf("expected the frame sweep to be used, got %v", h.Transform.Pos)
	}
}

func TestStepNonFiniteReachesHandler(t *testing.T) {
	var counters telemetry.Counters
	handler := &recordingHandler{}
	conf := testConfig()
	conf.Handler, conf.Reporter = handler, &counters
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)
	mustSet(t, e, binding.NameForcedMethod, binding.Str("Entity"))

	h, err := p.Step(e, Frame{Logic: movement.At(mgl64.Vec3{0, math.NaN(), 0})})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !h.NonFinite || h.Transform.Pos != (mgl64.Vec3{}) {
		t.Fatalf("expected the last good transform, got %+v", h)
	}
	if len(handler.nonFinite) != 1 || handler.nonFinite[0].Entity != e.ID {
		t.Fatalf("expected one non-finite event, got %+v", handler.nonFinite)
	}
	if !errors.Is(handler.nonFinite[0].Err, oerror.ErrNonFiniteTransform) || counters.Count(oerror.KindNonFiniteTransform) != 1 {
		t.Fatalf("expected a non-finite report")
	}
}

func TestNewPipelineRejectsBadConfig(t *testing.T) {
	conf := testConfig()
	conf.DefaultMode = collider.ModeCount
	if _, err := NewPipeline(conf); !errors.Is(err, oerror.ErrInvalidMode) {
		t.Fatalf("expected invalid mode, got %v", err)
	}
	conf = testConfig()
	conf.Selector.Fallback = nil
	if _, err := NewPipeline(conf); !errors.Is(err, oerror.ErrInvalidMethod) {
		t.Fatalf("expected invalid method, got %v", err)
	}
}

func TestStepWalksFallbackRanking(t *testing.T) {
	handler := &recordingHandler{veto: map[movement.Method]bool{movement.MethodClampedEntity: true}}
	conf := testConfig()
	conf.Selector.Fallback = []movement.Method{movement.MethodClampedEntity, movement.MethodEntity}
	conf.Handler = handler
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)

	mustSet(t, e, binding.NameForcedMethod, binding.Str("Animation"))
	if _, err := p.Step(e, Frame{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	mustSet(t, e, binding.NameForcedMethod, binding.Str("eMCM_COUNT"))
	h, err := p.Step(e, Frame{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodEntity {
		t.Fatalf("expected the second fallback entry, got %v", h.Method)
	}
	if len(handler.methods) != 2 || !handler.methods[0].Fallback || handler.methods[1].To != movement.MethodEntity {
		t.Fatalf("unexpected method events %+v", handler.methods)
	}
	if h.Transition.From != movement.MethodAnimation || h.Transition.To != movement.MethodEntity {
		t.Fatalf("expected the change to be recorded, got %+v", h.Transition)
	}
}

func TestStepKeepsMethodWhenEveryFallbackIsVetoed(t *testing.T) {
	conf := testConfig()
	conf.Selector.Fallback = []movement.Method{movement.MethodClampedEntity, movement.MethodEntity}
	conf.Handler = &recordingHandler{cancelMethod: true}
	p := newTestPipeline(t, conf)
	e := newTestEntity(t, p)

	mustSet(t, e, binding.NameForcedMethod, binding.Str("Animation"))
	if _, err := p.Step(e, Frame{}); err != nil {
		t.Fatalf("step: %v", err)
	}
	mustSet(t, e, binding.NameForcedMethod, binding.Str("eMCM_FF"))
	h, err := p.Step(e, Frame{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.Method != movement.MethodAnimation {
		t.Fatalf("expected the current method to be kept, got %v", h.Method)
	}
}
