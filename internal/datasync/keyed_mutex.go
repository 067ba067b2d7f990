package datasync

import "sync"

// keyedMutex serializes mutations per song id so that two rapid toggles on
// the same song cannot interleave their remote round-trips.
//
// Entries are never removed: the map holds at most one mutex per song the
// viewer has touched, bounded by the catalog size, and is released with the
// owning Library when the viewer logs out.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(id int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
