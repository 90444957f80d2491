package coverage

import "sync"

// Locks serializes work per policy inside one process. Entries are created on
// first use and dropped when the last holder releases them, so the map only
// holds policies with work in flight.
type Locks struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{entries: make(map[int64]*lockEntry)}
}

// Lock blocks until the caller holds policyID's lock and returns the function
// that releases it.
func (l *Locks) Lock(policyID int64) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[policyID]
	if !ok {
		e = &lockEntry{}
		l.entries[policyID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, policyID)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of policies currently locked or waited on.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
