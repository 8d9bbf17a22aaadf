// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/middleware"
	"github.com/festy23/workmatch/internal/response"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	"github.com/festy23/workmatch/internal/team/service"
	"github.com/festy23/workmatch/pkg/pagination"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ListInvitations handles GET /teams/invitations request.
// @Summary List the caller's team invitations
// @Tags Teams
// @Produce json
// @Param status query string false "WAITING, ACCEPTED or DECLINED"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page[teamModel.InvitationItem]
// @Failure 400 {object} response.ErrorResponse "Bad request (INVALID_REQUEST)"
// @Router /teams/invitations [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListInvitations(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.Forbidden(c, "member account required")
		return
	}

	var page pagination.Params
	if err := c.ShouldBindQuery(&page); err != nil {
		response.InvalidRequest(c, "invalid pagination parameters")
		return
	}

	result, err := h.service.ListInvitations(c.Request.Context(), memberID, c.Query("status"), page)
	if err != nil {
		switch {
		case errors.Is(err, teamModel.ErrInvalidStatus):
			response.InvalidRequest(c, "unknown invitation status")
		case errors.Is(err, pagination.ErrInvalidPage):
			response.InvalidRequest(c, "invalid pagination parameters")
		default:
			h.logger.Errorw("Failed to list invitations", "member_id", memberID, "error", err)
			response.Internal(c)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Accept handles POST /teams/invitations/:invitationId/accept request.
// @Summary Accept a team invitation
// @Tags Teams
// @Produce json
// @Param invitationId path int true "Invitation ID"
// @Success 200 {object} teamModel.InvitationResult
// @Success 208 {object} teamModel.InvitationResult "Already accepted"
// @Failure 404 {object} response.ErrorResponse "Invitation not found"
// @Failure 409 {object} response.ErrorResponse "Conflict (INVITATION_DECLINED)"
// @Router /teams/invitations/{invitationId}/accept [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Accept(c *gin.Context) {
	h.transition(c, h.service.Accept)
}

// Decline handles POST /teams/invitations/:invitationId/decline request.
// @Summary Decline a team invitation
// @Tags Teams
// @Produce json
// @Param invitationId path int true "Invitation ID"
// @Success 200 {object} teamModel.InvitationResult
// @Success 208 {object} teamModel.InvitationResult "Already declined"
// @Failure 404 {object} response.ErrorResponse "Invitation not found"
// @Failure 409 {object} response.ErrorResponse "Conflict (INVITATION_ACCEPTED, ALREADY_MEMBER)"
// @Router /teams/invitations/{invitationId}/decline [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Decline(c *gin.Context) {
	h.transition(c, h.service.Decline)
}

func (h *Handler) transition(
	c *gin.Context,
	apply func(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error),
) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.Forbidden(c, "member account required")
		return
	}
	invitationID, ok := response.IDParam(c, "invitationId")
	if !ok {
		return
	}

	result, err := apply(c.Request.Context(), memberID, invitationID)
	if err != nil {
		switch {
		case errors.Is(err, teamModel.ErrInvitationNotFound):
			response.NotFound(c, "invitation not found")
		case errors.Is(err, teamModel.ErrInvitationAccepted):
			response.Error(c, "INVITATION_ACCEPTED", "invitation already accepted", http.StatusConflict)
		case errors.Is(err, teamModel.ErrInvitationDeclined):
			response.Error(c, "INVITATION_DECLINED", "invitation already declined", http.StatusConflict)
		case errors.Is(err, teamModel.ErrAlreadyMember):
			response.Error(c, "ALREADY_MEMBER", "member already belongs to the team", http.StatusConflict)
		default:
			h.logger.Errorw("Failed to process invitation",
				"member_id", memberID,
				"invitation_id", invitationID,
				"error", err,
			)
			response.Internal(c)
		}
		return
	}

	if result.Result == teamModel.OutcomeAlreadyProcessed {
		response.AlreadyProcessed(c, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTeam handles GET /teams/:teamId request.
// @Summary Get a team with its active members
// @Tags Teams
// @Produce json
// @Param teamId path int true "Team ID"
// @Success 200 {object} teamModel.TeamResponse
// @Failure 404 {object} response.ErrorResponse "Team not found"
// @Router /teams/{teamId} [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetTeam(c *gin.Context) {
	teamID, ok := response.IDParam(c, "teamId")
	if !ok {
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) {
			response.NotFound(c, "team not found")
			return
		}
		h.logger.Errorw("Failed to get team", "team_id", teamID, "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, team)
}
