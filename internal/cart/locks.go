package cart

import "sync"

// Locks hands out one mutex per profile so concurrent requests of the same
// browser profile cannot interleave cart updates.
type Locks struct {
	m sync.Map
}

func (l *Locks) For(id string) *sync.Mutex {
	mu, _ := l.m.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
