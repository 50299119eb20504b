package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Now()
	sess := New(now)

	require.NotEmpty(t, sess.ID)
	assert.Equal(t, now, sess.LastAction)

	// IDs must be unique across mints
	other := New(now)
	assert.NotEqual(t, sess.ID, other.ID)
}

func TestSessionActive(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		lifespan int64
		active   bool
	}{
		{
			name:     "fresh session",
			elapsed:  0,
			lifespan: 60,
			active:   true,
		},
		{
			name:     "well inside window",
			elapsed:  30 * time.Second,
			lifespan: 60,
			active:   true,
		},
		{
			name:     "one second before boundary",
			elapsed:  59 * time.Second,
			lifespan: 60,
			active:   true,
		},
		{
			name:     "fractional seconds truncate",
			elapsed:  59*time.Second + 999*time.Millisecond,
			lifespan: 60,
			active:   true,
		},
		{
			name:     "exactly at boundary counts as expired",
			elapsed:  60 * time.Second,
			lifespan: 60,
			active:   false,
		},
		{
			name:     "past boundary",
			elapsed:  61 * time.Second,
			lifespan: 60,
			active:   false,
		},
		{
			name:     "zero lifespan never active",
			elapsed:  0,
			lifespan: 0,
			active:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &Session{ID: "test", LastAction: base}
			assert.Equal(t, tt.active, sess.Active(base.Add(tt.elapsed), tt.lifespan))
		})
	}
}

func TestSessionTouch(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{ID: "test", LastAction: base}

	later := base.Add(45 * time.Second)
	sess.Touch(later)

	assert.Equal(t, later, sess.LastAction)
	assert.True(t, sess.Active(later.Add(59*time.Second), 60))
}

func TestStore(t *testing.T) {
	store := NewStore()
	now := time.Now()

	_, ok := store.Lookup("10.0.0.5")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())

	sess := New(now)
	store.Put("10.0.0.5", sess)

	got, ok := store.Lookup("10.0.0.5")
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Len())

	// Put replaces
	replacement := New(now)
	store.Put("10.0.0.5", replacement)
	got, ok = store.Lookup("10.0.0.5")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Equal(t, 1, store.Len())

	// Remove deletes, and is idempotent
	store.Remove("10.0.0.5")
	_, ok = store.Lookup("10.0.0.5")
	assert.False(t, ok)
	store.Remove("10.0.0.5")
	assert.Equal(t, 0, store.Len())
}
