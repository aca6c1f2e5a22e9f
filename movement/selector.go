package movement

import (
	"slices"

	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/oerror"
)

// Source identifies who requested a candidate method.
type Source uint8

const (
	SourceGameLogic Source = iota
	SourceAnimation
)

func (s Source) String() string {
	if s == SourceAnimation {
		return "animation"
	}
	return "game logic"
}

// Candidate is a method requested for the current tick.
type Candidate struct {
	Method   Method
	Priority int
	Source   Source
}

// CandidatesFromBindings reads the forced and animation-requested methods from v. Identifiers
// that cannot be parsed become MethodUndefined candidates so that selection fails closed.
func CandidatesFromBindings(v binding.View, p Priorities) []Candidate {
	var candidates []Candidate
	if s, ok := binding.Lookup(v, binding.NameForcedMethod); ok {
		m, _ := ParseMethod(s)
		candidates = append(candidates, Candidate{Method: m, Priority: p.Forced, Source: SourceGameLogic})
	}
	if s, ok := binding.Lookup(v, binding.NameAnimationMethod); ok {
		m, _ := ParseMethod(s)
		candidates = append(candidates, Candidate{Method: m, Priority: p.Animation, Source: SourceAnimation})
	}
	return candidates
}

// Selection is the outcome of a Select call.
type Selection struct {
	Method   Method
	Previous Method
	Changed  bool
	Policy   Policy
	// ColliderMode is the mode requested by the method change, if RequestsMode is true.
	ColliderMode collider.Mode
	RequestsMode bool
}

// Selector picks the movement control method of each tick and records method transitions.
type Selector struct {
	opts SelectorOptions
}

// NewSelector returns a selector using opts. The fallback ranking must be non-empty, contain
// only selectable methods and include MethodClampedEntity.
func NewSelector(opts SelectorOptions) (*Selector, error) {
	if len(opts.Fallback) == 0 {
		return nil, oerror.Newf(oerror.KindInvalidMethod, "empty fallback ranking")
	}
	for _, m := range opts.Fallback {
		if !m.Selectable() {
			return nil, oerror.Newf(oerror.KindInvalidMethod, "fallback ranking contains %s", m)
		}
	}
	if !slices.Contains(opts.Fallback, MethodClampedEntity) {
		return nil, oerror.Newf(oerror.KindInvalidMethod, "fallback ranking must include %s", MethodClampedEntity)
	}
	for m, mode := range opts.ColliderModes {
		if !m.Selectable() || !mode.Live() {
			return nil, oerror.Newf(oerror.KindInvalidMode, "collider mode %s for %s", mode, m)
		}
	}
	opts.Fallback = slices.Clone(opts.Fallback)
	return &Selector{opts: opts}, nil
}

// Options returns the options of the selector.
func (s *Selector) Options() SelectorOptions {
	return s.opts
}

// Resolve returns the method the candidates resolve to without touching any state. The
// highest priority candidate wins, earlier candidates win ties. No candidates resolve to the
// first fallback method.
func (s *Selector) Resolve(candidates []Candidate) (Method, error) {
	if len(candidates) == 0 {
		return s.opts.Fallback[0], nil
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Priority > candidates[best].Priority {
			best = i
		}
	}
	c := candidates[best]
	if !c.Method.Selectable() {
		return MethodUndefined, oerror.Newf(oerror.KindInvalidMethod, "%s requested %s", c.Source, c.Method)
	}
	return c.Method, nil
}

// Select resolves the candidates and applies the result to state. On error state is left
// unchanged.
func (s *Selector) Select(state *MotionState, candidates []Candidate) (Selection, error) {
	m, err := s.Resolve(candidates)
	if err != nil {
		return Selection{Method: state.Method, Previous: state.Method}, err
	}
	return s.apply(state, m), nil
}

// SelectOrFallback behaves like Select, but applies the first fallback method if the
// candidates cannot be resolved. Later entries of the ranking only apply when a caller vetoes
// the earlier ones, as the simulation pipeline does through its handler. The resolution error is still returned so that it can be
// reported.
func (s *Selector) SelectOrFallback(state *MotionState, candidates []Candidate) (Selection, error) {
	m, err := s.Resolve(candidates)
	if err != nil {
		m = s.opts.Fallback[0]
	}
	return s.apply(state, m), err
}

// Force applies m regardless of candidates.
func (s *Selector) Force(state *MotionState, m Method) (Selection, error) {
	if !m.Selectable() {
		return Selection{Method: state.Method, Previous: state.Method}, oerror.Newf(oerror.KindInvalidMethod, "forced %s", m)
	}
	return s.apply(state, m), nil
}

func (s *Selector) apply(state *MotionState, m Method) Selection {
	policy, _ := PolicyOf(m)
	sel := Selection{Method: m, Previous: state.Method, Policy: policy}
	if state.Method == m {
		return sel
	}

	sel.Changed = true
	state.Transition = Transition{From: state.Method, To: m, Ticks: s.opts.transitionTicks(m)}
	state.Method = m
	state.resetProgress()

	if mode, ok := s.opts.ColliderModes[m]; ok {
		sel.ColliderMode, sel.RequestsMode = mode, true
	}
	return sel
}
