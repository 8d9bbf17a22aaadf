// Package router provides member module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/member/handler"
	"github.com/festy23/workmatch/internal/middleware"
)

// RegisterRoutes registers member module routes.
func RegisterRoutes(r gin.IRouter, h *handler.Handler, az authz.Authorizer, logger *zap.SugaredLogger) {
	r.GET("/members/me",
		middleware.Authorize(az, logger, authz.ObjectProfile, authz.ActionView),
		h.GetMe,
	)
}
