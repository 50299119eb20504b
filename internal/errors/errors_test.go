package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorRender(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, render.Render(rec, req, ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.ErrorCode)
	assert.Equal(t, "Resource not found", body.Message)
}

func TestAPIErrorError(t *testing.T) {
	err := New(http.StatusTeapot, "TEAPOT", "short and stout")
	assert.Equal(t, "short and stout", err.Error())
	assert.Equal(t, http.StatusTeapot, err.StatusCode)
}
