// Package router provides statistics module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/middleware"
	"github.com/festy23/workmatch/internal/statistics/handler"
)

// RegisterRoutes registers statistics module routes.
func RegisterRoutes(r gin.IRouter, h *handler.Handler, az authz.Authorizer, logger *zap.SugaredLogger) {
	r.GET("/statistics/matching",
		middleware.Authorize(az, logger, authz.ObjectStatistics, authz.ActionView),
		h.GetMatchingStatistics,
	)
}
