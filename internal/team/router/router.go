// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/middleware"
	"github.com/festy23/workmatch/internal/team/handler"
)

// RegisterRoutes registers team module routes.
func RegisterRoutes(r gin.IRouter, h *handler.Handler, az authz.Authorizer, logger *zap.SugaredLogger) {
	teams := r.Group("/teams")

	teams.GET("/invitations",
		middleware.Authorize(az, logger, authz.ObjectInvitation, authz.ActionView),
		h.ListInvitations,
	)
	teams.POST("/invitations/:invitationId/accept",
		middleware.Authorize(az, logger, authz.ObjectInvitation, authz.ActionDecide),
		h.Accept,
	)
	teams.POST("/invitations/:invitationId/decline",
		middleware.Authorize(az, logger, authz.ObjectInvitation, authz.ActionDecide),
		h.Decline,
	)
	teams.GET("/:teamId",
		middleware.Authorize(az, logger, authz.ObjectTeam, authz.ActionView),
		h.GetTeam,
	)
}
