// Package replay records the results of stepping a world and verifies that replaying the
// same frames reproduces them bit for bit.
package replay

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/oomph-ac/motion/internal"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/simulation"
	"github.com/oomph-ac/motion/utils"
	"github.com/zeebo/xxh3"
)

// Record is a single recorded entity step.
type Record struct {
	Tick    uint64
	Entity  uint64
	Frame   simulation.Frame
	Handoff simulation.Handoff
	Err     error
}

// Recorder digests every step observed in a world and keeps the most recent ones.
type Recorder struct {
	session ulid.ULID

	mu      sync.Mutex
	hasher  *xxh3.Hasher
	history *utils.CircularQueue[Record]
	steps   uint64
}

// Compile time check to make sure Recorder implements simulation.Observer.
var _ simulation.Observer = (*Recorder)(nil)

// NewRecorder returns a recorder keeping the last history steps.
func NewRecorder(history int) *Recorder {
	return &Recorder{
		session: ulid.Make(),
		hasher:  xxh3.New(),
		history: utils.NewCircularQueue[Record](history),
	}
}

// Observe ...
func (r *Recorder) Observe(tick uint64, id uint64, f simulation.Frame, h simulation.Handoff, err error) {
	buf := internal.GetBuffer()
	defer internal.PutBuffer(buf)
	encodeStep(buf, tick, id, f, h, err)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.hasher.Write(buf.Bytes())
	r.steps++
	if r.history.Cap() > 0 {
		_ = r.history.Append(Record{Tick: tick, Entity: id, Frame: f, Handoff: h, Err: err})
	}
}

// Session returns the session ID of the recording.
func (r *Recorder) Session() ulid.ULID {
	return r.session
}

// Digest returns the digest of every step observed so far.
func (r *Recorder) Digest() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasher.Sum64()
}

// Steps returns the number of steps observed.
func (r *Recorder) Steps() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

// History returns the most recent steps, oldest first.
func (r *Recorder) History() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]Record, 0, r.history.Len())
	for rec := range r.history.Iter() {
		records = append(records, rec)
	}
	return records
}

func encodeStep(buf *bytes.Buffer, tick, id uint64, f simulation.Frame, h simulation.Handoff, err error) {
	putUint(buf, tick)
	putUint(buf, id)

	putTransform(buf, f.Animation.Transform)
	putVec(buf, f.Animation.Velocity)
	putTransform(buf, f.Logic)
	putFloat(buf, f.Dt)
	if f.Sweep != nil {
		buf.WriteByte(1)
		putFloat(buf, f.Sweep.Fraction)
		putVec(buf, f.Sweep.Normal)
	} else {
		buf.WriteByte(0)
	}

	putTransform(buf, h.Transform)
	buf.WriteByte(byte(h.Method))
	buf.WriteByte(byte(h.Mode))
	putFloat(buf, h.Progress)
	buf.WriteByte(byte(h.Transition.From))
	buf.WriteByte(byte(h.Transition.To))
	putUint(buf, uint64(h.Transition.Tick))
	var flags byte
	for i, set := range [...]bool{h.ExcludeFromBroadPhase, h.NonFinite, h.Snapped, err != nil} {
		if set {
			flags |= 1 << i
		}
	}
	buf.WriteByte(flags)
}

func putUint(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// putFloat writes the bits of f, so that NaN payloads and signed zeros are digested exactly.
func putFloat(buf *bytes.Buffer, f float64) {
	putUint(buf, math.Float64bits(f))
}

func putVec(buf *bytes.Buffer, v [3]float64) {
	for _, f := range v {
		putFloat(buf, f)
	}
}

func putTransform(buf *bytes.Buffer, t movement.Transform) {
	putVec(buf, t.Pos)
	putFloat(buf, t.Rot.W)
	putVec(buf, t.Rot.V)
}
