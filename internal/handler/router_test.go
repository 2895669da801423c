package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/resumehelp-api/internal/middleware"
	"github.com/yourusername/resumehelp-api/mocks"
)

func newTestRouter() http.Handler {
	return NewRouter(NewAnalyzeHandler(new(mocks.MockEvaluator), echoExtractor{}, 1<<20), testOrigin)
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "resumehelp-api", body["service"])
}

func TestCORS_PreflightFromFrontend(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze-file", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, testOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.NotContains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORS_RejectsOtherOrigins(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze-file", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		_, err := uuid.Parse(rr.Header().Get(middleware.HeaderRequestID))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.HeaderRequestID, id)

		rr := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rr, req)

		assert.Equal(t, id, rr.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.HeaderRequestID, "<script>")

		rr := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rr, req)

		assert.NotEqual(t, "<script>", rr.Header().Get(middleware.HeaderRequestID))
	})
}
