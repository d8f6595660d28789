// Package gesture turns host input events (pointer, key, a typed line) into
// one-shot notifications.
package gesture

import "sync"

// Latch holds callbacks waiting for the next user gesture. Each callback runs
// at most once. Safe for concurrent use.
type Latch struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func()
	order   []uint64
}

// NewLatch creates an empty latch.
func NewLatch() *Latch {
	return &Latch{pending: make(map[uint64]func())}
}

// OnNextGesture registers fn to run on the next Fire. The returned cancel
// removes fn if it has not run yet.
func (l *Latch) OnNextGesture(fn func()) (cancel func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.pending[id] = fn
	l.order = append(l.order, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.pending[id]; !ok {
			return
		}
		delete(l.pending, id)
		for i, o := range l.order {
			if o == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// Fire runs and clears every pending callback in registration order. It
// returns the number of callbacks run.
func (l *Latch) Fire() int {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.pending))
	for _, id := range l.order {
		if fn, ok := l.pending[id]; ok {
			fns = append(fns, fn)
		}
	}
	l.pending = make(map[uint64]func())
	l.order = l.order[:0]
	l.mu.Unlock()

	// Callbacks may register again; run them outside the lock.
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of callbacks waiting.
func (l *Latch) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
