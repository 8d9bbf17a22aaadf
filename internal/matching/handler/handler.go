// Package handler provides HTTP handlers for matching endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applicationModel "github.com/festy23/workmatch/internal/application/model"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	"github.com/festy23/workmatch/internal/matching/service"
	"github.com/festy23/workmatch/internal/middleware"
	postModel "github.com/festy23/workmatch/internal/post/model"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/internal/response"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	"github.com/festy23/workmatch/pkg/pagination"
)

// Handler handles HTTP requests for matching endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new matching handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ListForMember handles GET /matching/members request.
// @Summary List recommended posts for the calling member
// @Tags Matching
// @Produce json
// @Param category query string false "APPLICATION, REJECTION or DEADLINE; empty for today"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page[matchingModel.MemberMatchItem]
// @Failure 400 {object} response.ErrorResponse "Bad request (NO_CAREER, INVALID_REQUEST)"
// @Failure 503 {object} response.ErrorResponse "Selection unavailable"
// @Router /matching/members [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListForMember(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.Forbidden(c, "member account required")
		return
	}

	var q matchingModel.MemberListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.InvalidRequest(c, "invalid query parameters")
		return
	}

	page, err := h.service.ListForMember(c.Request.Context(), memberID, q.Category,
		pagination.Params{Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		h.writeError(c, err, "member_id", memberID)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetMemberMatch handles GET /matching/members/:matchId request.
// @Summary Get one recommended post of the calling member
// @Tags Matching
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 200 {object} matchingModel.MemberMatchItem
// @Failure 404 {object} response.ErrorResponse "Match not found"
// @Router /matching/members/{matchId} [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMemberMatch(c *gin.Context) {
	memberID, matchID, ok := h.memberMatch(c)
	if !ok {
		return
	}

	item, err := h.service.GetMemberMatch(c.Request.Context(), memberID, matchID)
	if err != nil {
		h.writeError(c, err, "member_id", memberID, "match_id", matchID)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Refuse handles POST /matching/members/:matchId/refuse request.
// @Summary Refuse a recommended post
// @Tags Matching
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 200 {object} matchingModel.RefuseResult
// @Failure 404 {object} response.ErrorResponse "Match not found"
// @Router /matching/members/{matchId}/refuse [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) Refuse(c *gin.Context) {
	memberID, matchID, ok := h.memberMatch(c)
	if !ok {
		return
	}

	result, err := h.service.Refuse(c.Request.Context(), memberID, matchID)
	if err != nil {
		h.writeError(c, err, "member_id", memberID, "match_id", matchID)
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkInterested handles POST /matching/members/:matchId/interest request.
// @Summary Toggle interest in a recommended post
// @Tags Matching
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 200 {object} memberModel.InterestState
// @Failure 404 {object} response.ErrorResponse "Match not found"
// @Router /matching/members/{matchId}/interest [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) MarkInterested(c *gin.Context) {
	memberID, matchID, ok := h.memberMatch(c)
	if !ok {
		return
	}

	state, err := h.service.MarkInterested(c.Request.Context(), memberID, matchID)
	if err != nil {
		h.writeError(c, err, "member_id", memberID, "match_id", matchID)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ApplyIndividual handles POST /matching/members/:matchId/apply request.
// @Summary Apply to a recommended post
// @Tags Matching
// @Produce json
// @Param matchId path int true "Match ID"
// @Success 201 {object} applicationModel.ApplyResult
// @Failure 400 {object} response.ErrorResponse "Bad request (POST_CLOSED)"
// @Failure 404 {object} response.ErrorResponse "Match not found"
// @Failure 409 {object} response.ErrorResponse "Conflict (APPLICATION_EXISTS)"
// @Router /matching/members/{matchId}/apply [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ApplyIndividual(c *gin.Context) {
	memberID, matchID, ok := h.memberMatch(c)
	if !ok {
		return
	}

	result, err := h.service.ApplyIndividual(c.Request.Context(), memberID, matchID)
	if err != nil {
		h.writeError(c, err, "member_id", memberID, "match_id", matchID)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ApplyAsTeam handles POST /matching/members/:matchId/apply-team request.
// @Summary Apply to a recommended post with a team led by the caller
// @Tags Matching
// @Accept json
// @Produce json
// @Param matchId path int true "Match ID"
// @Param request body matchingModel.ApplyTeamRequest true "Request"
// @Success 201 {object} applicationModel.ApplyResult
// @Failure 403 {object} response.ErrorResponse "Forbidden (NOT_TEAM_LEADER)"
// @Failure 409 {object} response.ErrorResponse "Conflict (APPLICATION_EXISTS)"
// @Router /matching/members/{matchId}/apply-team [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ApplyAsTeam(c *gin.Context) {
	memberID, matchID, ok := h.memberMatch(c)
	if !ok {
		return
	}

	var req matchingModel.ApplyTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "team_id is required")
		return
	}

	result, err := h.service.ApplyAsTeam(c.Request.Context(), memberID, matchID, req.TeamID)
	if err != nil {
		h.writeError(c, err, "member_id", memberID, "match_id", matchID, "team_id", req.TeamID)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListForCompany handles GET /matching/companies request.
// @Summary List applicants recommended to the calling company
// @Tags Matching
// @Produce json
// @Param date_offset query int false "Days back from today, 0 for today"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page[matchingModel.CompanyMatchItem]
// @Failure 400 {object} response.ErrorResponse "Bad request (INVALID_REQUEST)"
// @Failure 503 {object} response.ErrorResponse "Selection unavailable"
// @Router /matching/companies [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ListForCompany(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		response.Forbidden(c, "company account required")
		return
	}

	var q matchingModel.CompanyListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.InvalidRequest(c, "invalid query parameters")
		return
	}

	page, err := h.service.ListForCompany(c.Request.Context(), companyID, q.DateOffset,
		pagination.Params{Page: q.Page, PageSize: q.PageSize})
	if err != nil {
		h.writeError(c, err, "company_id", companyID)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) memberMatch(c *gin.Context) (memberID, matchID int64, ok bool) {
	memberID, ok = middleware.MemberID(c)
	if !ok {
		response.Forbidden(c, "member account required")
		return 0, 0, false
	}
	matchID, ok = response.IDParam(c, "matchId")
	return memberID, matchID, ok
}

func (h *Handler) writeError(c *gin.Context, err error, keysAndValues ...interface{}) {
	switch {
	case errors.Is(err, matchingModel.ErrNoCareer):
		response.Error(c, "NO_CAREER", "register at least one career to receive matches", http.StatusBadRequest)
	case errors.Is(err, matchingModel.ErrInvalidCategory),
		errors.Is(err, matchingModel.ErrInvalidDateOffset),
		errors.Is(err, pagination.ErrInvalidPage):
		response.InvalidRequest(c, err.Error())
	case errors.Is(err, recModel.ErrRecommendationNotFound):
		response.NotFound(c, "match not found")
	case errors.Is(err, postModel.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, teamModel.ErrTeamNotFound):
		response.NotFound(c, "team not found")
	case errors.Is(err, applicationModel.ErrPostClosed):
		response.Error(c, "POST_CLOSED", "post is closed", http.StatusBadRequest)
	case errors.Is(err, applicationModel.ErrApplicationExists):
		response.Error(c, "APPLICATION_EXISTS", "already applied to this post", http.StatusConflict)
	case errors.Is(err, teamModel.ErrNotTeamLeader):
		response.Error(c, "NOT_TEAM_LEADER", "only the team leader can apply for the team", http.StatusForbidden)
	case errors.Is(err, recModel.ErrSelectionFailed):
		h.logger.Warnw("Recommendation selection unavailable", append(keysAndValues, "error", err)...)
		response.Error(c, "SELECTION_UNAVAILABLE", "recommendations are temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Errorw("Matching request failed", append(keysAndValues, "error", err)...)
		response.Internal(c)
	}
}
