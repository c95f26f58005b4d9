package service

import "sync"

// professionalLocks serializes booking decisions per professional. Handles
// are created lazily on first use and never removed; cardinality is bounded
// by the set of professional ids ever seen, which is acceptable for this
// domain. Operations on different professionals never contend.
type professionalLocks struct {
	locks sync.Map // professional id -> *sync.Mutex
}

func newProfessionalLocks() *professionalLocks {
	return &professionalLocks{}
}

// Acquire blocks until the exclusive section for professionalID is free and
// returns the release function. The caller must release exactly once.
func (l *professionalLocks) Acquire(professionalID string) func() {
	v, _ := l.locks.LoadOrStore(professionalID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
