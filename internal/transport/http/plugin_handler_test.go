package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plugingate/internal/gate"
)

func pluginRouter(stub *stubGate) *chi.Mux {
	r := chi.NewRouter()
	handler := NewPluginHandler(stub, testLogger())
	r.Get("/{session_id}/{license}", handler.Download)
	return r
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pro.so")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPluginDownloadSuccess(t *testing.T) {
	artifact := writeArtifact(t, "plugin-bytes")
	stub := &stubGate{artifact: artifact}
	router := pluginRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/token-123/pro", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plugin-bytes", rec.Body.String())
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pro.so")

	assert.Equal(t, gate.Client{Addr: "10.0.0.5", Port: 5555}, stub.gotClient)
	assert.Equal(t, "token-123", stub.gotSessionID)
	assert.Equal(t, "pro", stub.gotLicense)
}

func TestPluginDownloadDenied(t *testing.T) {
	stub := &stubGate{authorizeErr: gate.ErrDenied}
	router := pluginRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/wrong-token/pro", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Resource not found")
}

func TestPluginDownloadMissingArtifact(t *testing.T) {
	// The gate allowed, but the configured artifact path does not exist.
	// The client still sees only the uniform denial.
	stub := &stubGate{artifact: filepath.Join(t.TempDir(), "gone.so")}
	router := pluginRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/token-123/pro", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "gone.so", "artifact path must not leak")
}

func TestPluginDownloadArtifactIsDirectory(t *testing.T) {
	stub := &stubGate{artifact: t.TempDir()}
	router := pluginRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/token-123/pro", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPluginDownloadBadRemoteAddr(t *testing.T) {
	stub := &stubGate{artifact: "unused"}
	router := pluginRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/token-123/pro", nil)
	req.RemoteAddr = "bogus"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, stub.gotSessionID, "gate must not be consulted without an identity")
}
