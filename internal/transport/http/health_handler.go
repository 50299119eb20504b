package http

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/render"
)

// SessionCounter reports the current session store size.
type SessionCounter interface {
	ActiveSessions() int
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	version   string
	licenses  int
	sessions  SessionCounter
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, licenses int, sessions SessionCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		version:   version,
		licenses:  licenses,
		sessions:  sessions,
		startTime: time.Now(),
		logger:    logger.With(slog.String("handler", "health")),
	}
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Version        string    `json:"version"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	ActiveSessions int       `json:"active_sessions"`
	Licenses       int       `json:"licenses"`
}

// VersionInfo represents the version response
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthStatus{
		Status:         "healthy",
		Timestamp:      time.Now(),
		Version:        h.version,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
		ActiveSessions: h.sessions.ActiveSessions(),
		Licenses:       h.licenses,
	})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "alive"})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, VersionInfo{
		Version:   h.version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	})
}
