package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"plugingate/internal/audit"
	"plugingate/internal/license"
	"plugingate/internal/metrics"
	"plugingate/internal/session"
)

// ErrDenied is the single error surfaced for every failed gate decision.
// The specific reason feeds the audit trail and metrics only, so the
// response never leaks which check failed.
var ErrDenied = errors.New("access denied")

// Decision reasons, recorded on metrics and logs. Never rendered to clients.
const (
	reasonBlacklisted     = "blacklisted"
	reasonSessionConflict = "session_conflict"
	reasonNoSession       = "no_session"
	reasonSessionMismatch = "session_mismatch"
	reasonSessionExpired  = "session_expired"
	reasonUnknownLicense  = "unknown_license"
	reasonWrongAddress    = "address_not_allowed"
	reasonWrongPort       = "port_not_allowed"
	reasonIssued          = "issued"
	reasonReleased        = "released"
)

// Config carries the static gate parameters loaded at startup.
type Config struct {
	// IdleSessionLifespan is the idle expiry window in whole seconds.
	IdleSessionLifespan int64
	// BlacklistedAddresses are unconditionally denied session issuance.
	BlacklistedAddresses []string
}

// Service owns the session store and runs the issuance and authorization
// state machines. Every full decision sequence executes under one mutex so
// concurrent requests for the same address never observe stale store state;
// audit dispatch and metrics happen after the lock is released.
type Service struct {
	mu         sync.Mutex
	store      *session.Store
	registry   *license.Registry
	blacklist  map[string]struct{}
	lifespan   int64
	now        func() time.Time
	dispatcher *audit.Dispatcher
	metrics    *metrics.Gate
	logger     *slog.Logger
}

// NewService creates the gate service. dispatcher and gateMetrics may be nil.
func NewService(cfg Config, registry *license.Registry, dispatcher *audit.Dispatcher, gateMetrics *metrics.Gate, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	blacklist := make(map[string]struct{}, len(cfg.BlacklistedAddresses))
	for _, addr := range cfg.BlacklistedAddresses {
		blacklist[addr] = struct{}{}
	}

	return &Service{
		store:      session.NewStore(),
		registry:   registry,
		blacklist:  blacklist,
		lifespan:   cfg.IdleSessionLifespan,
		now:        time.Now,
		dispatcher: dispatcher,
		metrics:    gateMetrics,
		logger:     logger.With(slog.String("component", "gate")),
	}
}

// decision is the terminal outcome of one issue or authorize sequence.
type decision struct {
	ok      bool
	reason  string
	payload string // session ID on issue, artifact path on authorize
	event   audit.Event
}

// Issue validates that client may open a session and mints one. Exactly one
// audit event is emitted per call.
func (s *Service) Issue(ctx context.Context, client Client) (string, error) {
	d := s.issue(client)
	s.finish(ctx, "issue", client, d)
	if !d.ok {
		return "", ErrDenied
	}
	s.metrics.RecordSessionIssued(ctx)
	return d.payload, nil
}

func (s *Service) issue(client Client) decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, banned := s.blacklist[client.Addr]; banned {
		return deny(client, reasonBlacklisted, "Connection from blacklisted address")
	}

	now := s.now()
	if existing, ok := s.store.Lookup(client.Addr); ok {
		if existing.Active(now, s.lifespan) {
			return deny(client, reasonSessionConflict, "New session request during active one")
		}
		// Stale holder: evict and fall through to creation.
		s.store.Remove(client.Addr)
	}

	sess := session.New(now)
	s.store.Put(client.Addr, sess)

	return decision{
		ok:      true,
		reason:  reasonIssued,
		payload: sess.ID,
		event: audit.Event{
			Title:    client.String(),
			Message:  "New session created",
			Severity: audit.SeverityInfo,
		},
	}
}

// Authorize validates the (session, license) pair against the store and the
// license registry, releasing the artifact path when every check passes.
// Checks run in a fixed order; each failure is terminal and emits its own
// audit event. A stale or untrustworthy session is evicted; a missing or
// misidentified one is left untouched.
func (s *Service) Authorize(ctx context.Context, client Client, sessionID, licenseName string) (string, error) {
	d := s.authorize(client, sessionID, licenseName)
	s.finish(ctx, "authorize", client, d)
	if !d.ok {
		return "", ErrDenied
	}
	return d.payload, nil
}

func (s *Service) authorize(client Client, sessionID, licenseName string) decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.store.Lookup(client.Addr)
	if !ok {
		return deny(client, reasonNoSession,
			fmt.Sprintf("Plugin download attempt without session - %s", licenseName))
	}

	// A wrong ID must not evict: a guessed or mistyped ID cannot destroy
	// the legitimate holder's session.
	if sess.ID != sessionID {
		return deny(client, reasonSessionMismatch,
			fmt.Sprintf("Plugin download attempt with wrong session_id - %s", licenseName))
	}

	now := s.now()
	if !sess.Active(now, s.lifespan) {
		s.store.Remove(client.Addr)
		return deny(client, reasonSessionExpired,
			fmt.Sprintf("Plugin download attempt with inactive session - %s", licenseName))
	}

	lic, ok := s.registry.Find(licenseName)
	if !ok {
		s.store.Remove(client.Addr)
		return deny(client, reasonUnknownLicense,
			fmt.Sprintf("Plugin download attempt with wrong license - %s", licenseName))
	}

	if !lic.AllowsAddr(client.Addr) {
		s.store.Remove(client.Addr)
		return deny(client, reasonWrongAddress,
			fmt.Sprintf("Plugin download attempt from wrong address - %s", licenseName))
	}

	if !lic.AllowsPort(client.Addr, client.Port) {
		s.store.Remove(client.Addr)
		return deny(client, reasonWrongPort,
			fmt.Sprintf("Plugin download attempt from wrong port - %s", licenseName))
	}

	sess.Touch(now)

	return decision{
		ok:      true,
		reason:  reasonReleased,
		payload: lic.Library,
		event: audit.Event{
			Title:    client.String(),
			Message:  fmt.Sprintf("Plugin download successful - %s", licenseName),
			Severity: audit.SeverityInfo,
		},
	}
}

// finish runs the post-decision side effects outside the critical section.
func (s *Service) finish(ctx context.Context, operation string, client Client, d decision) {
	s.dispatcher.Emit(d.event)
	s.metrics.RecordDecision(ctx, operation, d.reason)

	if d.ok {
		s.logger.DebugContext(ctx, "gate decision",
			slog.String("operation", operation),
			slog.String("client", client.String()),
			slog.String("outcome", d.reason),
		)
		return
	}
	s.logger.WarnContext(ctx, "gate denied",
		slog.String("operation", operation),
		slog.String("client", client.String()),
		slog.String("reason", d.reason),
	)
}

// ActiveSessions reports the current store size, for health reporting. The
// count includes idle sessions not yet lazily evicted.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func deny(client Client, reason, message string) decision {
	return decision{
		reason: reason,
		event: audit.Event{
			Title:    client.String(),
			Message:  message,
			Severity: audit.SeverityAlert,
		},
	}
}
