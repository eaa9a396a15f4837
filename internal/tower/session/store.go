package session

import "sync"

// Store owns all active sessions, keyed by connection id.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Authenticate creates and stores a session for the connection. A second
// authentication on the same connection overwrites the previous session
// rather than creating a duplicate; the caller is responsible for releasing
// the old session's room membership first.
//
// Precondition: connID must be non-empty.
// Postcondition: Returns the stored session; Get(connID) returns it.
func (st *Store) Authenticate(connID string, ident Identity) *Session {
	sess := New(connID, ident)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[connID] = sess
	return sess
}

// Get returns the session for the given connection id.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (st *Store) Get(connID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[connID]
	return sess, ok
}

// Remove deletes the session for the given connection id. No-op if the
// connection never authenticated.
func (st *Store) Remove(connID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, connID)
}

// Count returns the number of active sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
