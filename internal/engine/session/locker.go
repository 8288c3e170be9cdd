package session

import "sync"

// Locker serializes turns per session. Interleaved turns on one session
// would race the load-mutate-save cycle; turns on different sessions stay
// concurrent.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: map[string]*sync.Mutex{}}
}

// Lock acquires the session's mutex, creating it on first use. The returned
// function releases it.
func (l *Locker) Lock(sessionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
