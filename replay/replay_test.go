package replay

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/simulation"
)

func newTestPipeline(t *testing.T) *simulation.Pipeline {
	t.Helper()
	p, err := simulation.NewPipeline(simulation.Config{
		Reconciler: movement.DefaultReconcilerOptions(),
		Selector:   movement.DefaultSelectorOptions(),
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func testScript(ticks int) Script {
	var s Script
	for i, name := range []string{"Entity", "Animation", "DecoupledCatchUp", "ClampedEntity", "SmoothedEntity", "AnimationHCollision"} {
		s.Spawns = append(s.Spawns, Spawn{
			ID:       uint64(i + 1),
			Kind:     collider.KindActor,
			Start:    movement.Identity(),
			Bindings: map[string]binding.Value{binding.NameForcedMethod: binding.Str(name)},
		})
	}
	for tick := 0; tick < ticks; tick++ {
		frames := make(map[uint64]simulation.Frame)
		for _, sp := range s.Spawns {
			x := float64(tick) * 0.4
			frames[sp.ID] = simulation.Frame{
				Animation: movement.AnimationSample{
					Transform: movement.Transform{Pos: mgl64.Vec3{x, 0, float64(sp.ID)}, Rot: mgl64.QuatRotate(x, mgl64.Vec3{0, 1, 0})},
					Velocity:  mgl64.Vec3{8, 0, 0},
				},
				Logic: movement.At(mgl64.Vec3{x + 1, 0, 0}),
				Dt:    0.05,
			}
		}
		s.Ticks = append(s.Ticks, frames)
	}
	return s
}

func TestRunIsReproducible(t *testing.T) {
	s := testScript(30)
	a, err := Run(newTestPipeline(t), 1, s, 8)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := Run(newTestPipeline(t), 8, s, 8)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("digests differ between worker counts: %x != %x", a.Digest(), b.Digest())
	}
	if a.Session() == b.Session() {
		t.Fatalf("expected distinct session IDs")
	}
	if a.Steps() != uint64(30*len(s.Spawns)) {
		t.Fatalf("unexpected step count %d", a.Steps())
	}

	hist := a.History()
	if len(hist) != 8 {
		t.Fatalf("expected 8 records of history, got %d", len(hist))
	}
	last := hist[len(hist)-1]
	if last.Tick != 30 || last.Entity != uint64(len(s.Spawns)) {
		t.Fatalf("unexpected last record tick=%d entity=%d", last.Tick, last.Entity)
	}

	if err := Verify(newTestPipeline(t), 4, s, a.Digest()); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyDetectsDivergence(t *testing.T) {
	s := testScript(10)
	rec, err := Run(newTestPipeline(t), 2, s, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rec.History()) != 0 {
		t.Fatalf("expected no history")
	}

	f := s.Ticks[5][3]
	f.Logic.Pos[0] += 1e-9
	s.Ticks[5][3] = f
	if err := Verify(newTestPipeline(t), 2, s, rec.Digest()); err == nil {
		t.Fatalf("expected a modified frame to change the digest")
	}
}

func TestSummarize(t *testing.T) {
	records := []Record{
		{Frame: simulation.Frame{Animation: movement.AnimationSample{Transform: movement.At(mgl64.Vec3{1, 0, 0})}}},
		{
			Frame:   simulation.Frame{Animation: movement.AnimationSample{Transform: movement.At(mgl64.Vec3{0, 0, 3})}},
			Handoff: simulation.Handoff{Snapped: true, NonFinite: true, Delta: 0.75},
		},
	}
	s := Summarize(records)
	if s.Steps != 2 || s.Snaps != 1 || s.NonFinite != 1 || s.MaxStep != 0.75 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.Mean != 2 || s.Max != 3 || s.Median != 2 || s.StdDev != 1 {
		t.Fatalf("unexpected gap statistics %+v", s)
	}
}
