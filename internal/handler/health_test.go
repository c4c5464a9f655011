package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth_200(t *testing.T) {
	h := newTestRouter(serverOpts{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec.Body)
	assert.Equal(t, "ok", body["status"])
}

func TestGetOpenAPI_ServesEmbeddedSpec(t *testing.T) {
	raw := []byte("openapi: 3.0.3\n")
	h := newTestRouter(serverOpts{openapi: raw})

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, raw, rec.Body.Bytes())
}

func TestGetOpenAPI_NotEmbedded_404(t *testing.T) {
	h := newTestRouter(serverOpts{})

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
