package replay

import (
	"github.com/oomph-ac/motion/binding"
	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/simulation"
)

// Spawn describes an entity present from the first tick of a script.
type Spawn struct {
	ID       uint64
	Kind     collider.EntityKind
	Start    movement.Transform
	Bindings map[string]binding.Value
}

// Script is a sequence of frames that can be replayed on a fresh world.
type Script struct {
	Spawns []Spawn
	// Ticks holds the frames of every tick, keyed by entity ID.
	Ticks []map[uint64]simulation.Frame
}

// Run replays s on a new world stepping entities through p, and returns the recorder
// holding the digest of the run.
func Run(p *simulation.Pipeline, workers int, s Script, history int) (*Recorder, error) {
	w := simulation.NewWorld(p, workers)
	defer w.Close()

	for _, sp := range s.Spawns {
		e, err := w.Add(sp.ID, sp.Kind, sp.Start)
		if err != nil {
			return nil, err
		}
		for name, v := range sp.Bindings {
			if err := e.Bindings.Set(name, v); err != nil {
				return nil, err
			}
		}
	}

	rec := NewRecorder(history)
	w.Observe(rec)
	for _, frames := range s.Ticks {
		w.Step(frames)
	}
	return rec, nil
}

// Verify replays s and returns an error if the digest of the run differs from digest.
func Verify(p *simulation.Pipeline, workers int, s Script, digest uint64) error {
	rec, err := Run(p, workers, s, 0)
	if err != nil {
		return err
	}
	if got := rec.Digest(); got != digest {
		return oerror.New("replay %s: digest %016x, expected %016x", rec.Session(), got, digest)
	}
	return nil
}
