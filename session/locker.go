package session

import "sync"

// Locker serializes work per key. Keys are released once no holder or waiter is left.
type Locker struct {
	mtx   sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mtx  sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{
		locks: make(map[string]*keyLock),
	}
}

// Lock blocks until key is free and returns its unlock func
func (l *Locker) Lock(key string) func() {
	l.mtx.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = new(keyLock)
		l.locks[key] = lock
	}
	lock.refs++
	l.mtx.Unlock()

	lock.mtx.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			lock.mtx.Unlock()
			l.mtx.Lock()
			lock.refs--
			if lock.refs == 0 {
				delete(l.locks, key)
			}
			l.mtx.Unlock()
		})
	}
}

// Len returns the number of keys held or waited on
func (l *Locker) Len() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.locks)
}
