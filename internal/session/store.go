package session

// Store is the single source of truth for which client addresses currently
// hold a session. It is a plain map wrapper with no internal locking: the
// owning service serializes every full decision sequence (lookup, evict,
// insert) under one critical section, so locking individual map operations
// here would not close the race windows that matter.
type Store struct {
	sessions map[string]*Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Lookup returns the session held by addr, if any.
func (s *Store) Lookup(addr string) (*Session, bool) {
	sess, ok := s.sessions[addr]
	return sess, ok
}

// Put inserts or replaces the session for addr.
func (s *Store) Put(addr string, sess *Session) {
	s.sessions[addr] = sess
}

// Remove deletes the session for addr. No-op if absent.
func (s *Store) Remove(addr string) {
	delete(s.sessions, addr)
}

// Len reports the number of stored sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}
