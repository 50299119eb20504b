package session

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one granted, time-boxed authorization window for a
// single client address.
type Session struct {
	ID         string
	LastAction time.Time
}

// New mints a session with a fresh time-ordered ID and its activity
// timestamp set to now.
func New(now time.Time) *Session {
	id, err := uuid.NewUUID()
	if err != nil {
		// NewUUID only fails when the clock-sequence source is exhausted;
		// a random ID is still globally unique.
		id = uuid.New()
	}
	return &Session{
		ID:         id.String(),
		LastAction: now,
	}
}

// Active reports whether the session is still inside its idle window.
// Elapsed time is truncated to whole seconds and compared with strict
// less-than, so a session exactly at the boundary counts as expired.
func (s *Session) Active(now time.Time, idleLifespan int64) bool {
	return int64(now.Sub(s.LastAction)/time.Second) < idleLifespan
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch(now time.Time) {
	s.LastAction = now
}
