// Package router provides matching module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/authz"
	"github.com/festy23/workmatch/internal/matching/handler"
	"github.com/festy23/workmatch/internal/middleware"
)

// RegisterRoutes registers matching module routes.
func RegisterRoutes(r gin.IRouter, h *handler.Handler, az authz.Authorizer, logger *zap.SugaredLogger) {
	members := r.Group("/matching/members")
	{
		view := middleware.Authorize(az, logger, authz.ObjectMemberMatching, authz.ActionView)
		respond := middleware.Authorize(az, logger, authz.ObjectMemberMatching, authz.ActionRespond)
		apply := middleware.Authorize(az, logger, authz.ObjectMemberMatching, authz.ActionApply)

		members.GET("", view, h.ListForMember)
		members.GET("/:matchId", view, h.GetMemberMatch)
		members.POST("/:matchId/refuse", respond, h.Refuse)
		members.POST("/:matchId/interest", respond, h.MarkInterested)
		members.POST("/:matchId/apply", apply, h.ApplyIndividual)
		members.POST("/:matchId/apply-team", apply, h.ApplyAsTeam)
	}

	r.GET("/matching/companies",
		middleware.Authorize(az, logger, authz.ObjectCompanyMatching, authz.ActionView),
		h.ListForCompany,
	)
}
