// Package health provides health check endpoint handler.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/database/database"
)

// Dependency states reported by Check.
const (
	StateOK          = "ok"
	StateUnavailable = "unavailable"
	StateDisabled    = "disabled"
)

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	redis  redis.UniversalClient
	logger *zap.SugaredLogger
}

// New creates a new health handler instance. rdb may be nil when batch
// locking runs without redis.
func New(db *gorm.DB, rdb redis.UniversalClient, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		redis:  rdb,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Check handles GET /health request. The database is required; redis only
// degrades the status since batch locking fails open.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := Response{Status: "ok", Database: StateOK, Redis: StateDisabled}

	if h.redis != nil {
		resp.Redis = StateOK
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warnw("redis health check failed", "error", err)
			resp.Redis = StateUnavailable
			resp.Status = "degraded"
		}
	}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "error", err)
		resp.Database = StateUnavailable
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
