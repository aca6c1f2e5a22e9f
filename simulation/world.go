package simulation

import (
	"cmp"
	"slices"
	"sync"

	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/oomph-ac/motion/worker"
	"go.uber.org/atomic"
)

// Observer is notified of the result of every entity step, in ascending entity ID order,
// after the whole tick has been stepped.
type Observer interface {
	Observe(tick uint64, id uint64, f Frame, h Handoff, err error)
}

// StepResult is the outcome of stepping one entity.
type StepResult struct {
	ID      uint64
	Handoff Handoff
	Err     error
}

// World owns a set of entities and steps them concurrently. Each entity is stepped by
// exactly one goroutine per tick.
type World struct {
	pipeline *Pipeline
	pool     *worker.Pool

	mu       sync.Mutex
	entities map[uint64]*Entity

	observers []Observer
	tick      atomic.Uint64
}

// NewWorld returns a world stepping entities through p on a pool of the given number of
// workers.
func NewWorld(p *Pipeline, workers int) *World {
	w := &World{pipeline: p, entities: make(map[uint64]*Entity)}
	w.pool = worker.NewPool(workers, func(err error) {
		p.log.Errorf("entity step: %v", err)
	})
	return w
}

// Pipeline returns the pipeline used to step entities.
func (w *World) Pipeline() *Pipeline {
	return w.pipeline
}

// Observe adds o to the observers of the world. It must not be called while stepping.
func (w *World) Observe(o Observer) {
	w.observers = append(w.observers, o)
}

// Add creates an entity with the given ID at t.
func (w *World) Add(id uint64, kind collider.EntityKind, t movement.Transform) (*Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; ok {
		return nil, oerror.New("entity %d already exists", id)
	}
	e, err := w.pipeline.NewEntity(id, kind, t)
	if err != nil {
		return nil, err
	}
	w.entities[id] = e
	return e, nil
}

// Remove removes the entity with the given ID. Removed entities are no longer stepped.
func (w *World) Remove(id uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	return true
}

// Entity returns the entity with the given ID.
func (w *World) Entity(id uint64) (*Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	return e, ok
}

// Len returns the number of entities in the world.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// Teleport moves the entity with the given ID to t, restarting any blend in progress.
func (w *World) Teleport(id uint64, t movement.Transform) error {
	e, ok := w.Entity(id)
	if !ok {
		return oerror.New("entity %d does not exist", id)
	}
	return e.State.Teleport(t)
}

// Tick returns the number of ticks stepped.
func (w *World) Tick() uint64 {
	return w.tick.Load()
}

// Step steps every entity that has a frame in frames. Entities without a frame keep their
// state. Results are returned in ascending entity ID order.
func (w *World) Step(frames map[uint64]Frame) []StepResult {
	w.mu.Lock()
	stepped := make([]*Entity, 0, len(frames))
	for id := range frames {
		if e, ok := w.entities[id]; ok {
			stepped = append(stepped, e)
		}
	}
	w.mu.Unlock()
	slices.SortFunc(stepped, func(a, b *Entity) int {
		return cmp.Compare(a.ID, b.ID)
	})

	results := make([]StepResult, len(stepped))
	w.pool.Run(len(stepped), func(i int) {
		e := stepped[i]
		results[i] = StepResult{ID: e.ID, Err: oerror.New("entity %d step panicked", e.ID)}
		results[i].Handoff, results[i].Err = w.pipeline.Step(e, frames[e.ID])
	})

	tick := w.tick.Inc()
	for _, o := range w.observers {
		for _, r := range results {
			o.Observe(tick, r.ID, frames[r.ID], r.Handoff, r.Err)
		}
	}
	return results
}

// Close stops the workers of the world.
func (w *World) Close() {
	w.pool.Close()
}
