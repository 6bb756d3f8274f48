package autopilot

import "math/rand"

// Experience is one stored transition.
type Experience struct {
	State  []float64
	Action int
	Reward float64
	Next   []float64
	Done   bool
}

// Replay is a fixed-capacity ring buffer of experiences.
// Once full, the oldest entry is overwritten.
type Replay struct {
	buf  []Experience
	next int
	full bool
}

// NewReplay creates a buffer holding at most capacity experiences.
func NewReplay(capacity int) *Replay {
	if capacity < 1 {
		capacity = 1
	}
	return &Replay{buf: make([]Experience, capacity)}
}

// Add stores an experience.
func (r *Replay) Add(e Experience) {
	r.buf[r.next] = e
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of stored experiences.
func (r *Replay) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Cap returns the buffer capacity.
func (r *Replay) Cap() int { return len(r.buf) }

// Sample draws n experiences uniformly with replacement.
func (r *Replay) Sample(rng *rand.Rand, n int) []Experience {
	size := r.Len()
	if size == 0 {
		return nil
	}
	out := make([]Experience, n)
	for i := range out {
		out[i] = r.buf[rng.Intn(size)]
	}
	return out
}
