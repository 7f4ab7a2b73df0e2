package eventloop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tsqrun/tsq/internal/core"
)

// ErrDeadlineExceeded is returned by Drain when timers are still pending
// but the run deadline leaves no room to fire them. The runner reports
// it as a timeout — pending work is never dropped as a clean exit.
var ErrDeadlineExceeded = errors.New("run deadline exceeded with timers pending")

// timerEntry represents a pending one-shot callback. The actual callback
// is stored in globalThis.__timerCallbacks[id] on the JS side; Go only
// tracks scheduling metadata.
type timerEntry struct {
	deadline time.Time
	id       int
	cleared  bool
}

// EventLoop owns the host's sole timer primitive: a registry of one-shot
// delayed callbacks with real wall-clock delays. There is deliberately no
// repeating-timer support here — setInterval is synthesized on top of
// one-shots by the compat layer, so cancellation semantics stay in one
// place.
type EventLoop struct {
	mu     sync.Mutex
	timers map[int]*timerEntry
	nextID int
}

// New creates an empty EventLoop.
func New() *EventLoop {
	return &EventLoop{
		timers: make(map[int]*timerEntry),
	}
}

// RegisterTimer creates a one-shot timer entry and returns its ID.
// IDs increase monotonically for the life of the loop and are never
// reused. The JS callback is stored in globalThis.__timerCallbacks[id].
func (el *EventLoop) RegisterTimer(delay time.Duration) int {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.nextID++
	id := el.nextID
	el.timers[id] = &timerEntry{
		deadline: time.Now().Add(delay),
		id:       id,
	}
	return id
}

// ClearTimer cancels a pending timer by ID. Unknown or already-fired IDs
// are a no-op.
func (el *EventLoop) ClearTimer(id int) {
	el.mu.Lock()
	defer el.mu.Unlock()
	if t, ok := el.timers[id]; ok {
		t.cleared = true
		delete(el.timers, id)
	}
}

// HasPending returns true if any timer is still registered.
func (el *EventLoop) HasPending() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.timers) > 0
}

// Pending returns the number of registered timers.
func (el *EventLoop) Pending() int {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.timers)
}

// fireTimer invokes the JS-side callback for the given timer ID. The
// entry is removed from the JS callback map before invocation — one-shot
// timers never refire.
func (el *EventLoop) fireTimer(rt core.JSRuntime, id int) error {
	js := fmt.Sprintf(`(function() {
		var entry = globalThis.__timerCallbacks[%d];
		if (!entry) return;
		delete globalThis.__timerCallbacks[%d];
		entry.fn.apply(null, entry.args || []);
	})()`, id, id)
	return rt.Eval(js)
}

// Drain fires due timers in deadline order until none remain or a
// callback raises. Callbacks may register new timers; those are picked
// up on the next iteration. An error from a callback (including an exit
// request) stops the drain and is returned to the runner — a script run
// has no request boundary to absorb it. When the run deadline passes
// with timers still pending, Drain returns ErrDeadlineExceeded rather
// than nil. Must be called on the runtime's goroutine.
func (el *EventLoop) Drain(rt core.JSRuntime, deadline time.Time) error {
	for {
		el.mu.Lock()
		var next *timerEntry
		for _, t := range el.timers {
			if t.cleared {
				continue
			}
			if next == nil || t.deadline.Before(next.deadline) {
				next = t
			}
		}
		el.mu.Unlock()

		if next == nil {
			return nil
		}

		// Wait until the timer is due or the run deadline passes.
		now := time.Now()
		if next.deadline.After(now) {
			wait := next.deadline.Sub(now)
			if now.Add(wait).After(deadline) {
				return ErrDeadlineExceeded
			}
			time.Sleep(wait)
		}
		if time.Now().After(deadline) {
			return ErrDeadlineExceeded
		}

		el.mu.Lock()
		if next.cleared {
			el.mu.Unlock()
			continue
		}
		delete(el.timers, next.id)
		el.mu.Unlock()

		if err := el.fireTimer(rt, next.id); err != nil {
			return err
		}
		rt.RunMicrotasks()
	}
}

// Reset clears all timers. The ID counter is not reset, so handles stay
// unique for the life of the loop.
func (el *EventLoop) Reset() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.timers = make(map[int]*timerEntry)
}
