package refactor

import (
	"path/filepath"
	"sort"
	"sync"
)

// pathLocks serializes executions whose change sets intersect. Locks are
// acquired in sorted canonical-path order so two executions competing for an
// overlapping set cannot deadlock.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *pathLocks) lockFor(path string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.locks[path]
	if !ok {
		m = &sync.Mutex{}
		p.locks[path] = m
	}
	return m
}

// acquire locks every path and returns the release function.
func (p *pathLocks) acquire(paths []string) func() {
	canonical := make([]string, 0, len(paths))
	seen := map[string]struct{}{}
	for _, path := range paths {
		c := filepath.Clean(path)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		canonical = append(canonical, c)
	}
	sort.Strings(canonical)

	held := make([]*sync.Mutex, 0, len(canonical))
	for _, path := range canonical {
		m := p.lockFor(path)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
