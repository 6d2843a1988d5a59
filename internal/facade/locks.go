package facade

import "sync"

// accountLocks provides per-account mutual exclusion so that the
// fetch-compute-persist-record-invalidate sequence for one account is never
// interleaved by another mutation on the same account. Mutations on
// different accounts proceed in parallel.
//
// Locks are created on first use and kept for the process lifetime; the
// account space of a single facade instance is small enough that reclaiming
// them is not worth the bookkeeping.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountID] = lock
	}
	return lock
}

// lock acquires the lock for a single account.
func (l *accountLocks) lock(accountID string) func() {
	lock := l.get(accountID)
	lock.Lock()
	return lock.Unlock
}

// lockPair acquires both accounts' locks in lexical order so that two
// concurrent transfers between the same pair cannot deadlock.
func (l *accountLocks) lockPair(a, b string) func() {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	firstLock, secondLock := l.get(first), l.get(second)
	firstLock.Lock()
	secondLock.Lock()
	return func() {
		secondLock.Unlock()
		firstLock.Unlock()
	}
}
