package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"plugingate/internal/gate"
)

// SessionHandler handles session issuance requests
type SessionHandler struct {
	service GateService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service GateService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "session")),
	}
}

// SessionResponse carries the issued session token
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// Create handles GET / and mints a session for the caller's network identity
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("session-handler")

	ctx, span := tracer.Start(ctx, "session_handler.create",
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", "/"),
		),
	)
	defer span.End()

	client, err := gate.ParseClient(r.RemoteAddr)
	if err != nil {
		// A request without a parseable TCP origin has no identity to
		// grant a session to.
		h.logger.ErrorContext(ctx, "unparseable remote address",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		deny(w, r)
		return
	}
	span.SetAttributes(attribute.String("client.address", client.Addr))

	token, err := h.service.Issue(ctx, client)
	if err != nil {
		span.SetAttributes(attribute.Bool("gate.allowed", false))
		deny(w, r)
		return
	}

	span.SetAttributes(attribute.Bool("gate.allowed", true))
	render.JSON(w, r, SessionResponse{SessionID: token})
}
