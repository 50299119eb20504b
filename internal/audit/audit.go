package audit

import (
	"context"
	"log/slog"
)

// Severity classifies an audit event for the monitoring channel.
type Severity string

const (
	// SeverityInfo marks routine allow decisions.
	SeverityInfo Severity = "info"
	// SeverityAlert marks deny decisions worth operator attention.
	SeverityAlert Severity = "alert"
)

// Event describes one allow/deny decision. Title carries the client
// "<address>:<port>" identity; Message the human-readable reason.
type Event struct {
	Title    string
	Message  string
	Severity Severity
}

// Sink receives dispatched audit events. Delivery is best effort; a sink
// must never propagate failure back to the gate.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoopSink drops audit events.
type NoopSink struct{}

func (NoopSink) Emit(context.Context, Event) {}

// SlogSink logs audit events through the application logger. Used when no
// webhook URL is configured.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger.With(slog.String("component", "audit"))}
}

func (s *SlogSink) Emit(ctx context.Context, event Event) {
	level := slog.LevelInfo
	if event.Severity == SeverityAlert {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, event.Message,
		slog.String("client", event.Title),
		slog.String("severity", string(event.Severity)),
	)
}

// ChannelSink writes audit events into a buffered channel. Test helper.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}
