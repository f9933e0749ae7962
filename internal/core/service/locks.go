package service

import "sync"

// vendorLocks hands out one mutex per vendor id. Parent id-list updates are
// read-modify-write against the vendor document, so every protocol touching
// a vendor's child lists (and the gallery capacity check) runs under the
// vendor's lock. Locks are never evicted; the map grows with the number of
// distinct vendors served by this process.
type vendorLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newVendorLocks() *vendorLocks {
	return &vendorLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the vendor's mutex and returns the unlock function.
func (l *vendorLocks) lock(vendorID string) func() {
	l.mu.Lock()
	m, ok := l.locks[vendorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[vendorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
