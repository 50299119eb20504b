package http

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	"plugingate/internal/errors"
	"plugingate/internal/gate"
)

// GateService is the decision core consumed by the handlers.
type GateService interface {
	Issue(ctx context.Context, client gate.Client) (string, error)
	Authorize(ctx context.Context, client gate.Client, sessionID, licenseName string) (string, error)
}

// deny writes the uniform denial response. Every failure path renders the
// same not-found body so the caller cannot tell which check failed.
func deny(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, errors.ErrNotFound)
}
