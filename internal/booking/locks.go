package booking

import "sync"

// eventLocks hands out one mutex per event ID so the
// count-then-insert admission sequence and the cancel-then-promote
// sequence are each serialized per event within this process. Locks
// are created on first use and kept for the process lifetime; the
// number of distinct events is small enough that no eviction is
// needed.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[uint64]*sync.Mutex)}
}

// get returns the mutex guarding the given event, creating it if needed.
func (e *eventLocks) get(eventID uint64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[eventID] = l
	}
	return l
}
