// Package router provides interview module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/interview/handler"
	"github.com/festy23/workmatch/internal/middleware"
)

// RegisterRoutes registers interview module routes.
func RegisterRoutes(r gin.IRouter, h *handler.Handler, az authz.Authorizer, logger *zap.SugaredLogger) {
	interviews := r.Group("/interviews")

	interviews.POST("/proposals",
		middleware.Authorize(az, logger, authz.ObjectInterview, authz.ActionPropose),
		h.ProposeInterview,
	)
	interviews.GET("/applicants",
		middleware.Authorize(az, logger, authz.ObjectInterview, authz.ActionView),
		h.GetApplicantDetail,
	)
}
