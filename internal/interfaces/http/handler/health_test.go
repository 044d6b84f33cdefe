package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morrillo/blo-migration/internal/infrastructure/persistence"
	"github.com/morrillo/blo-migration/internal/interfaces/http/dto"
)

type stubProbe struct {
	pingErr error
	stats   persistence.ConnectionStats
}

func (s stubProbe) Ping() error { return s.pingErr }

func (s stubProbe) Stats() (persistence.ConnectionStats, error) { return s.stats, nil }

func serveHealth(t *testing.T, probe DatabaseProbe) (*httptest.ResponseRecorder, dto.HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", NewHealthHandler(probe).Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var env struct {
		Data dto.HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env.Data
}

func TestHealthHandler_Healthy(t *testing.T) {
	w, resp := serveHealth(t, stubProbe{stats: persistence.ConnectionStats{OpenConnections: 3, InUse: 1, Idle: 2}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "up", resp.Database)
	require.NotNil(t, resp.Pool)
	assert.Equal(t, 3, resp.Pool.OpenConnections)
	assert.Equal(t, 2, resp.Pool.Idle)
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	w, resp := serveHealth(t, stubProbe{pingErr: errors.New("connection refused")})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "down", resp.Database)
	assert.Contains(t, w.Body.String(), dto.ErrCodeUnavailable)
}
