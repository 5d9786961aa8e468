package storage

import (
	"errors"
	"sync"
)

// ErrLockNotHeld means a release found no lock held by this process.
var ErrLockNotHeld = errors.New("storage: advisory lock not held")

// sessionLocks pins each postgres session-level advisory lock to the
// connection that took it; an unlock issued on another pooled connection
// would silently fail and leave the lock behind.
type sessionLocks[C any] struct {
	mu    sync.Mutex
	conns map[int64]C
}

// acquire calls try on a fresh connection unless key is already held here.
// try reports whether the lock was granted; its connection is kept only then.
func (l *sessionLocks[C]) acquire(key int64, try func() (C, bool, error)) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.conns[key]; held {
		return false, nil
	}
	conn, ok, err := try()
	if err != nil || !ok {
		return false, err
	}
	if l.conns == nil {
		l.conns = make(map[int64]C)
	}
	l.conns[key] = conn
	return true, nil
}

// release unlocks key on the connection that holds it.
func (l *sessionLocks[C]) release(key int64, unlock func(C) (bool, error)) (bool, error) {
	l.mu.Lock()
	conn, held := l.conns[key]
	delete(l.conns, key)
	l.mu.Unlock()
	if !held {
		return false, ErrLockNotHeld
	}
	ok, err := unlock(conn)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrLockNotHeld
	}
	return true, nil
}

// drain hands every held connection to fn, e.g. before closing the pool.
func (l *sessionLocks[C]) drain(fn func(C)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, conn := range l.conns {
		fn(conn)
		delete(l.conns, key)
	}
}
