package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/moderation"
	"github.com/bharatvarsh/bhoomi/internal/rag"
)

const testSecret = "test-internal-secret-value"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Pinger:         fakePinger{},
		Pipeline:       &fakePipeline{contextBlock: "[Context 1] lore", answer: &rag.Answer{Text: "answer"}},
		Gate:           fakeGate{signal: moderation.Signal{}},
		Posts:          &fakeRecorder{},
		InternalSecret: testSecret,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		Logger:         log.NewNop(),
	})
	require.NoError(t, err)
	return srv
}

func TestServer_HealthRoutesAreOpen(t *testing.T) {
	handler := newTestServer(t).Handler()

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "%s should not require auth", path)
	}
}

func TestServer_InternalRoutesRequireAuth(t *testing.T) {
	handler := newTestServer(t).Handler()

	paths := []string{
		"/api/internal/rag",
		"/api/internal/ask/stream",
		"/api/internal/moderation",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s should require auth", path)
	}
}

func TestServer_AuthorizedRequestReachesHandler(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/internal/rag",
		strings.NewReader(`{"query":"Who is Bhoomi?"}`))
	req.Header.Set("Authorization", "Bearer "+testSecret)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "[Context 1] lore")
}

func TestServer_UnknownRouteIs404(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
