package refactor

import (
	"sync"
	"time"
)

// DefaultDebounce is the batching window between an approval and the
// execution it schedules, so rapid approvals coalesce.
const DefaultDebounce = 5 * time.Second

// Scheduler queues a deferred run per key. Scheduling an already-queued key
// is a no-op; the first timer wins.
type Scheduler interface {
	Schedule(key string, delay time.Duration, fn func())
}

// debounceScheduler is the production Scheduler backed by time.AfterFunc.
type debounceScheduler struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewScheduler creates a debouncing scheduler.
func NewScheduler() Scheduler {
	return &debounceScheduler{pending: make(map[string]struct{})}
}

func (s *debounceScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	if _, queued := s.pending[key]; queued {
		s.mu.Unlock()
		return
	}
	s.pending[key] = struct{}{}
	s.mu.Unlock()

	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
		fn()
	})
}

// immediateScheduler runs synchronously; used in tests.
type immediateScheduler struct{}

// NewImmediateScheduler returns a Scheduler without a debounce window.
func NewImmediateScheduler() Scheduler { return immediateScheduler{} }

func (immediateScheduler) Schedule(_ string, _ time.Duration, fn func()) { fn() }
