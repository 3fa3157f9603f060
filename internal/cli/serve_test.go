package cli

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/flowgen/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerHandler_Metrics(t *testing.T) {
	env := testEnv(t)
	h := NewServerHandler(env, memory.NewStore())

	req := httptest.NewRequest("POST", "/generate?format=text", strings.NewReader(patrolGraph))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, patrolScript, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `flowgen_generations_total{outcome="generated"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewServerHandler_MetricsDisabled(t *testing.T) {
	env := testEnv(t)
	env.Config.Server.Metrics = false
	h := NewServerHandler(env, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/scripts", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
