package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/morrillo/blo-migration/internal/infrastructure/logger"
	"github.com/morrillo/blo-migration/internal/infrastructure/persistence"
	"github.com/morrillo/blo-migration/internal/interfaces/http/dto"
)

// DatabaseProbe reports the state of the target database
type DatabaseProbe interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves the liveness and readiness probe
type HealthHandler struct {
	BaseHandler
	db DatabaseProbe
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseProbe) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports healthy when the target database answers a ping
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		logger.L(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		h.ErrorWithData(c, dto.ErrCodeUnavailable, "target database unreachable",
			dto.HealthResponse{Status: "unhealthy", Database: "down"})
		return
	}

	resp := dto.HealthResponse{Status: "healthy", Database: "up"}
	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &dto.PoolStatistics{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
			WaitCount:       stats.WaitCount,
		}
	}
	h.Success(c, resp)
}
