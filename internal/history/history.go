// Package history holds the per-target rolling record of probe samples.
//
// A History has exactly one writer (the target's prober) and any number of
// readers (the render loop, the metrics collector). Readers never see the
// ring directly; they take a Snapshot, which is an independent copy made
// under the lock.
package history

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCapacity is the number of samples retained when no capacity is given.
const DefaultCapacity = 120

// History is a fixed-capacity ring of samples plus whole-run totals.
type History struct {
	mu      sync.RWMutex
	ring    ringBuffer
	totals  Totals
	lastSeq uint64
	started bool
}

// Snapshot is a point-in-time copy of a History. It shares no memory with
// the History it came from.
type Snapshot struct {
	// Samples holds the retained samples, oldest first.
	Samples  []Sample
	Totals   Totals
	Capacity int
	TakenAt  time.Time
}

// New creates a history retaining at most capacity samples.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{ring: newRingBuffer(capacity)}
}

// Capacity returns the maximum number of retained samples.
func (h *History) Capacity() int {
	return h.ring.size
}

// Append records a sample, evicting the oldest one when the ring is full.
// Sequence numbers must strictly increase; an out-of-order sample is
// rejected and leaves the history untouched.
func (h *History) Append(s Sample) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started && s.Seq <= h.lastSeq {
		return fmt.Errorf("sample seq %d not after %d", s.Seq, h.lastSeq)
	}
	h.started = true
	h.lastSeq = s.Seq

	h.ring.push(s)

	h.totals.Sent++
	if s.Outcome.OK() {
		h.totals.Succeeded++
	} else {
		h.totals.Lost++
	}
	return nil
}

// Snapshot returns a consistent copy of the retained samples and totals.
func (h *History) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Snapshot{
		Samples:  h.ring.getAll(),
		Totals:   h.totals,
		Capacity: h.ring.size,
		TakenAt:  time.Now(),
	}
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ring.count
}

// Totals returns the whole-run counters.
func (h *History) Totals() Totals {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totals
}

// Last returns the most recent sample, if any.
func (s Snapshot) Last() (Sample, bool) {
	if len(s.Samples) == 0 {
		return Sample{}, false
	}
	return s.Samples[len(s.Samples)-1], true
}

// ringBuffer is a fixed-size circular buffer of samples.
type ringBuffer struct {
	data  []Sample
	head  int
	count int
	size  int
}

func newRingBuffer(size int) ringBuffer {
	return ringBuffer{
		data: make([]Sample, size),
		size: size,
	}
}

func (r *ringBuffer) push(s Sample) {
	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count samples in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []Sample {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]Sample, count)

	// head is the next write position, so the newest sample is at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}

func (r *ringBuffer) getAll() []Sample {
	return r.getLast(r.count)
}
