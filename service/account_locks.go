package service

import "sync"

// accountLocks hands out one mutex per account. Entries are reference
// counted and dropped once nobody holds or waits on them, so the map only
// grows with the number of accounts currently in flight.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*accountLock)}
}

// lock blocks until the account is free and returns its unlock func
func (l *accountLocks) lock(discordID int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[discordID]
	if !ok {
		entry = &accountLock{}
		l.locks[discordID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, discordID)
		}
		l.mu.Unlock()
	}
}

// size returns the number of accounts with a live entry
func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
