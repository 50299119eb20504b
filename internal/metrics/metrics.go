// Package metrics defines the gate decision instruments, exported through
// the OpenTelemetry meter onto the Prometheus endpoint.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Gate holds the instruments recording gate decisions. All methods are
// nil-safe so the service keeps working when metrics are disabled.
type Gate struct {
	decisions      metric.Int64Counter
	sessionsIssued metric.Int64Counter
}

// NewGate creates the gate decision instruments on meter.
func NewGate(meter metric.Meter) (*Gate, error) {
	decisions, err := meter.Int64Counter(
		"gate_decisions_total",
		metric.WithDescription("Total gate decisions, by operation and reason"),
	)
	if err != nil {
		return nil, err
	}

	sessionsIssued, err := meter.Int64Counter(
		"gate_sessions_issued_total",
		metric.WithDescription("Total sessions issued"),
	)
	if err != nil {
		return nil, err
	}

	return &Gate{
		decisions:      decisions,
		sessionsIssued: sessionsIssued,
	}, nil
}

// RecordDecision counts one terminal gate decision.
func (g *Gate) RecordDecision(ctx context.Context, operation, reason string) {
	if g == nil {
		return
	}
	g.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}

// RecordSessionIssued counts one successfully minted session.
func (g *Gate) RecordSessionIssued(ctx context.Context) {
	if g == nil {
		return
	}
	g.sessionsIssued.Add(ctx, 1)
}

// RegisterAuditDropped exposes the audit dispatcher's dropped-event counter
// as an observable gauge.
func RegisterAuditDropped(meter metric.Meter, dropped func() uint64) error {
	gauge, err := meter.Int64ObservableGauge(
		"audit_events_dropped_total",
		metric.WithDescription("Audit events discarded on a full dispatch queue"),
	)
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(dropped()))
		return nil
	}, gauge)
	return err
}
