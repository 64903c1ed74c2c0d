package blackjack

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Registry tracks the single live session of each account
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
	}
}

// TryBegin deals a new session for the account unless one is already
// active or a resolved one still awaits its payout. The check and the
// insert happen under one lock.
func (r *Registry) TryBegin(accountID, wager int64, src CardSource) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[accountID]; ok {
		if existing.Active() {
			return nil, ErrAlreadyActive
		}
		if !existing.Settled() {
			return nil, ErrPendingSettle
		}
	}

	session := NewSession(accountID, wager, src)
	r.sessions[accountID] = session

	log.WithFields(log.Fields{
		"accountID": accountID,
		"sessionID": session.ID(),
		"wager":     wager,
	}).Debug("Blackjack session started")

	return session, nil
}

// Lookup returns the account's active session
func (r *Registry) Lookup(accountID int64) (*Session, error) {
	r.mu.Lock()
	session, ok := r.sessions[accountID]
	r.mu.Unlock()

	if !ok || !session.Active() {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// Pending returns the account's resolved session whose payout has not
// been recorded yet
func (r *Registry) Pending(accountID int64) (*Session, bool) {
	r.mu.Lock()
	session, ok := r.sessions[accountID]
	r.mu.Unlock()

	if !ok || session.Active() || session.Settled() {
		return nil, false
	}
	return session, true
}

// End removes the account's session, if any
func (r *Registry) End(accountID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, accountID)
}

// Release removes the session only while it is still the one registered
// for its owner, so settling an old hand never drops a newer one.
func (r *Registry) Release(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[session.Owner()]; ok && current == session {
		delete(r.sessions, session.Owner())
	}
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions older than maxAge and returns how many were removed.
// Abandoned hands never moved money, so dropping them is safe. Resolved
// hands still owed a payout are kept.
func (r *Registry) Sweep(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for accountID, session := range r.sessions {
		if session.Age() <= maxAge {
			continue
		}
		if session.Active() || session.Settled() {
			delete(r.sessions, accountID)
			removed++
		}
	}
	return removed
}
