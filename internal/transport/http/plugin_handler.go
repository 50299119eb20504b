package http

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"plugingate/internal/gate"
)

// PluginHandler serves licensed plugin artifacts behind the gate
type PluginHandler struct {
	service GateService
	logger  *slog.Logger
}

// NewPluginHandler creates a new plugin download handler
func NewPluginHandler(service GateService, logger *slog.Logger) *PluginHandler {
	return &PluginHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "plugin")),
	}
}

// Download handles GET /{session_id}/{license}. The gate decides; on allow
// the artifact bytes are streamed, on deny the response is the same uniform
// not-found as every other failure.
func (h *PluginHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("plugin-handler")

	sessionID := chi.URLParam(r, "session_id")
	licenseName := chi.URLParam(r, "license")

	ctx, span := tracer.Start(ctx, "plugin_handler.download",
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", "/{session_id}/{license}"),
			attribute.String("license.name", licenseName),
		),
	)
	defer span.End()

	client, err := gate.ParseClient(r.RemoteAddr)
	if err != nil {
		h.logger.ErrorContext(ctx, "unparseable remote address",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		deny(w, r)
		return
	}
	span.SetAttributes(attribute.String("client.address", client.Addr))

	artifact, err := h.service.Authorize(ctx, client, sessionID, licenseName)
	if err != nil {
		span.SetAttributes(attribute.Bool("gate.allowed", false))
		deny(w, r)
		return
	}
	span.SetAttributes(attribute.Bool("gate.allowed", true))

	h.serveArtifact(w, r, artifact)
}

// serveArtifact streams the released file. A missing or unreadable artifact
// is an operator problem, logged loudly, but the client still only sees the
// uniform denial.
func (h *PluginHandler) serveArtifact(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()

	file, err := os.Open(path)
	if err != nil {
		h.logger.ErrorContext(ctx, "artifact not readable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		deny(w, r)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		h.logger.ErrorContext(ctx, "artifact not a regular file",
			slog.String("path", path))
		deny(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), file)
}
