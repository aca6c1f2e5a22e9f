package simulation

import (
	"io"

	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/event"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/telemetry"
	"github.com/sirupsen/logrus"
)

// Config configures a Pipeline.
type Config struct {
	// Log is the logger used by the pipeline. A nil Log discards everything.
	Log *logrus.Logger

	Reconciler movement.ReconcilerOptions
	Selector   movement.SelectorOptions

	// DefaultMode is the collider mode of newly created entities.
	DefaultMode collider.Mode

	// Handler handles the events of every entity. NopHandler is used if nil.
	Handler Handler
	// Reporter receives the non-fatal errors of every entity, if set.
	Reporter movement.Reporter
	// Sweeper computes horizontal sweeps for AnimationHCollision when a frame carries none.
	Sweeper Sweeper
}

// Pipeline runs the per-tick steps of entities: collider mode bindings, method selection,
// reconciliation and the gate query, in that order. Its state is read-only once created, so
// distinct entities may be stepped concurrently.
type Pipeline struct {
	log      logrus.FieldLogger
	selector *movement.Selector
	opts     movement.ReconcilerOptions
	mode     collider.Mode
	handler  Handler
	reporter movement.Reporter
	sweeper  Sweeper
}

// NewPipeline returns a pipeline using conf.
func NewPipeline(conf Config) (*Pipeline, error) {
	if err := conf.Reconciler.Validate(); err != nil {
		return nil, err
	}
	sel, err := movement.NewSelector(conf.Selector)
	if err != nil {
		return nil, err
	}
	if conf.DefaultMode == collider.ModeUndefined {
		conf.DefaultMode = collider.ModePushable
	}
	if !conf.DefaultMode.Live() {
		return nil, oerror.Newf(oerror.KindInvalidMode, "default mode %s", conf.DefaultMode)
	}
	if conf.Handler == nil {
		conf.Handler = NopHandler{}
	}

	var log logrus.FieldLogger = conf.Log
	if conf.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if conf.Reconciler.Debugf == nil {
		conf.Reconciler.Debugf = log.Debugf
	}
	return &Pipeline{
		log:      log,
		selector: sel,
		opts:     conf.Reconciler,
		mode:     conf.DefaultMode,
		handler:  conf.Handler,
		reporter: conf.Reporter,
		sweeper:  conf.Sweeper,
	}, nil
}

// NewEntity creates an entity at t in the default collider mode. The movement control method
// stays undefined until the first step.
func (p *Pipeline) NewEntity(id uint64, kind collider.EntityKind, t movement.Transform) (*Entity, error) {
	if !t.Finite() {
		return nil, oerror.Newf(oerror.KindNonFiniteTransform, "entity %d spawned at %v", id, t.Pos)
	}
	gate, err := collider.NewGate(p.mode)
	if err != nil {
		return nil, err
	}
	e := &Entity{
		ID:       id,
		Kind:     kind,
		Bindings: binding.New(),
		State:    movement.NewMotionState(t),
		Gate:     gate,
		log:      p.log.WithField("entity", id),
		warnings: telemetry.NewLogReporter(p.log, logrus.Fields{"entity": id}),
	}
	e.reconciler, err = movement.NewReconciler(p.opts, reporter{e: e, p: p})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Step advances e by one tick.
func (p *Pipeline) Step(e *Entity, f Frame) (Handoff, error) {
	view := e.Bindings.View()

	p.applyModeBinding(e, view)

	sel, err := p.selectMethod(e, view)
	if err != nil {
		return Handoff{}, err
	}
	if sel.Changed {
		e.log.Debugf("movement control method %s -> %s", sel.Previous, sel.Method)
		if sel.RequestsMode {
			p.setMode(e, sel.ColliderMode, true)
		}
	}

	in := movement.Input{
		Animation: f.Animation,
		Logic:     f.Logic,
		Dt:        f.Dt,
		Sweep:     f.Sweep,
	}
	if d, ok := binding.LookupFloat(view, binding.NameMaxClampDelta); ok {
		in.MaxClampDelta = float64(d)
	}
	if sel.Policy.HorizontalSweep && in.Sweep == nil && p.sweeper != nil {
		from := e.State.Current.Pos
		res := p.sweeper.Sweep(e, from, f.Animation.Transform.Pos.Sub(from))
		in.Sweep = &res
	}

	res, err := e.reconciler.Reconcile(e.State, e.State.Method, in)
	if err != nil {
		return Handoff{}, err
	}
	e.reconciler.Commit(e.State, res)

	return Handoff{
		Transform:             res.Transform,
		Method:                res.Method,
		Mode:                  e.Gate.Mode(),
		ExcludeFromBroadPhase: e.Gate.ExcludedFromBroadPhase(),
		Gate:                  e.Gate,
		Progress:              res.Progress,
		NonFinite:             res.NonFinite,
		Snapped:               res.Snapped,
		Transition:            res.Transition,
		Delta:                 e.State.Delta(),
	}, nil
}

// applyModeBinding applies the collider mode commanded through the bindings, if any. Invalid
// commands are reported and leave the gate unchanged.
func (p *Pipeline) applyModeBinding(e *Entity, view binding.View) {
	name, ok := binding.Lookup(view, binding.NameColliderMode)
	if !ok {
		return
	}
	var mode collider.Mode
	if err := mode.UnmarshalText([]byte(name)); err != nil {
		p.report(e, oerror.Newf(oerror.KindInvalidMode, "collider mode binding %q", name))
		return
	}
	if !mode.Live() {
		p.report(e, oerror.Newf(oerror.KindInvalidMode, "collider mode binding %s cannot be applied", mode))
		return
	}
	p.setMode(e, mode, false)
}

func (p *Pipeline) setMode(e *Entity, mode collider.Mode, requested bool) {
	from := e.Gate.Mode()
	if from == mode {
		return
	}
	ctx := event.C()
	p.handler.HandleModeChange(ctx, event.ModeChange{Entity: e.ID, From: from, To: mode, Requested: requested})
	if ctx.Cancelled() {
		return
	}
	if err := e.Gate.SetMode(mode); err != nil {
		p.report(e, err)
		return
	}
	e.log.Debugf("collider mode %s -> %s", from, mode)
}

// selectMethod resolves the candidates of the tick. If they cannot be resolved, the fallback
// ranking is walked instead.
func (p *Pipeline) selectMethod(e *Entity, view binding.View) (movement.Selection, error) {
	opts := p.selector.Options()
	m, err := p.selector.Resolve(movement.CandidatesFromBindings(view, opts.Priorities))
	if err != nil {
		p.report(e, err)
		e.log.WithField("bindings", e.Bindings).Debugf("falling back: %v", err)
		return p.selector.Force(e.State, p.fallback(e, opts.Fallback))
	}
	if !p.allowMethodChange(e, m, false) {
		m = e.State.Method
	}
	return p.selector.Force(e.State, m)
}

// fallback returns the first method of ranking the handler does not veto. The current method
// is kept if every entry is vetoed.
func (p *Pipeline) fallback(e *Entity, ranking []movement.Method) movement.Method {
	for _, m := range ranking {
		if p.allowMethodChange(e, m, true) {
			return m
		}
	}
	return e.State.Method
}

// allowMethodChange asks the handler whether e may change to m. The first selection of an
// entity and re-selecting the current method are always allowed.
func (p *Pipeline) allowMethodChange(e *Entity, m movement.Method, fallback bool) bool {
	if m == e.State.Method || !e.State.Initialized() {
		return true
	}
	ctx := event.C()
	p.handler.HandleMethodChange(ctx, event.MethodChange{Entity: e.ID, From: e.State.Method, To: m, Fallback: fallback})
	return !ctx.Cancelled()
}

// report forwards selection and gate errors. They are not passed to the handler, which only
// receives non-finite reports.
func (p *Pipeline) report(e *Entity, err error) {
	e.warnings.Report(err)
	if p.reporter != nil {
		p.reporter.Report(err)
	}
}
