package collider

import (
	"errors"
	"testing"

	"github.com/oomph-ac/motion/oerror"
)

func TestSetModeRejectsSentinels(t *testing.T) {
	g, err := NewGate(ModePushable)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	for _, m := range []Mode{ModeCount, ModeFF, ModeUndefined, Mode(42)} {
		if err := g.SetMode(m); !errors.Is(err, oerror.ErrInvalidMode) {
			t.Fatalf("SetMode(%v): expected invalid mode, got %v", m, err)
		}
		if g.Mode() != ModePushable {
			t.Fatalf("failed SetMode(%v) changed state to %v", m, g.Mode())
		}
	}
	if _, err := NewGate(ModeFF); !errors.Is(err, oerror.ErrInvalidMode) {
		t.Fatalf("NewGate(FF): expected invalid mode, got %v", err)
	}
}

func TestZeroGatePermitsNothing(t *testing.T) {
	var g Gate
	if g.Initialized() {
		t.Fatalf("zero gate must not be initialized")
	}
	for _, i := range Interactions() {
		for _, k := range EntityKinds() {
			if g.Permits(i, k) {
				t.Fatalf("undefined gate permitted %v with %v", i, k)
			}
		}
	}
}

func TestSpectatorPermitsNothing(t *testing.T) {
	g, _ := NewGate(ModeSpectator)
	for _, i := range Interactions() {
		for _, k := range EntityKinds() {
			if g.Permits(i, k) {
				t.Fatalf("spectator permitted %v with %v", i, k)
			}
		}
	}
	if g.ExcludedFromBroadPhase() {
		t.Fatalf("spectator should stay in broad-phase")
	}
}

func TestPermitsTable(t *testing.T) {
	tests := []struct {
		mode  Mode
		i     Interaction
		other EntityKind
		want  bool
	}{
		{ModeDisabled, InteractionGroundContact, KindWorld, false},
		{ModeGroundedOnly, InteractionGroundContact, KindWorld, true},
		{ModeGroundedOnly, InteractionContact, KindProp, false},
		{ModeGroundedOnly, InteractionPushed, KindPlayer, false},
		{ModePushable, InteractionPushed, KindActor, true},
		{ModePushable, InteractionPush, KindProp, true},
		{ModeNonPushable, InteractionPushed, KindPlayer, false},
		{ModeNonPushable, InteractionPush, KindActor, true},
		{ModeNonPushable, InteractionContact, KindProp, true},
		{ModePushesPlayersOnly, InteractionPush, KindPlayer, true},
		{ModePushesPlayersOnly, InteractionPush, KindActor, false},
		{ModePushesPlayersOnly, InteractionPushed, KindPlayer, false},
		{ModePushesPlayersOnly, InteractionGroundContact, KindWorld, true},
	}
	for _, tt := range tests {
		if got := Permits(tt.mode, tt.i, tt.other); got != tt.want {
			t.Fatalf("Permits(%v, %v, %v) = %v, want %v", tt.mode, tt.i, tt.other, got, tt.want)
		}
	}
}

func TestDisabledExcludedFromBroadPhase(t *testing.T) {
	g, _ := NewGate(ModeDisabled)
	if !g.ExcludedFromBroadPhase() {
		t.Fatalf("disabled gate must be excluded from broad-phase")
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, e := range Modes().Entries() {
		text, err := e.Value.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", e.Value, err)
		}
		var got Mode
		if err := got.UnmarshalText(text); err != nil || got != e.Value {
			t.Fatalf("round trip of %v yielded %v (%v)", e.Value, got, err)
		}
	}
	for _, m := range Modes().Visible() {
		if m == ModeCount || m == ModeFF {
			t.Fatalf("sentinel %v listed as visible", m)
		}
	}
}
