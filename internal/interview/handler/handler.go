// Package handler provides HTTP handlers for interview endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	interviewModel "github.com/festy23/workmatch/internal/interview/model"
	"github.com/festy23/workmatch/internal/interview/service"
	"github.com/festy23/workmatch/internal/middleware"
	postModel "github.com/festy23/workmatch/internal/post/model"
	"github.com/festy23/workmatch/internal/response"
)

// Handler handles HTTP requests for interview endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new interview handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ProposeInterview handles POST /interviews/proposals request.
// @Summary Propose an interview to an applicant
// @Tags Interviews
// @Accept json
// @Produce json
// @Param request body interviewModel.ProposalRequest true "Request"
// @Success 201 {object} interviewModel.ProposalResponse
// @Failure 400 {object} response.ErrorResponse "Bad request (POST_NOT_OWNED, NOT_RECOMMENDED, INVALID_REQUEST)"
// @Failure 404 {object} response.ErrorResponse "Applicant or post not found"
// @Failure 409 {object} response.ErrorResponse "Conflict (APPLICATION_EXISTS)"
// @Router /interviews/proposals [post] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) ProposeInterview(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		response.Forbidden(c, "company account required")
		return
	}

	var req interviewModel.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "applicant_id, object, post_id and support_category are required")
		return
	}
	if !bindObject(c, &req.Object) {
		return
	}

	resp, err := h.service.ProposeInterview(c.Request.Context(), companyID, req)
	if err != nil {
		h.writeError(c, companyID, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetApplicantDetail handles GET /interviews/applicants request.
// @Summary Get an applicant profile for one of the company's posts
// @Tags Interviews
// @Produce json
// @Param applicant_id query int true "Member or team ID"
// @Param object query string true "INDIVIDUAL or TEAM"
// @Param post_id query int true "Post ID"
// @Param support_category query string true "MATCHING or HEADHUNTING"
// @Success 200 {object} interviewModel.ApplicantDetail
// @Failure 400 {object} response.ErrorResponse "Bad request (POST_NOT_OWNED, NOT_RECOMMENDED, INVALID_REQUEST)"
// @Failure 404 {object} response.ErrorResponse "Applicant not found"
// @Router /interviews/applicants [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetApplicantDetail(c *gin.Context) {
	companyID, ok := middleware.CompanyID(c)
	if !ok {
		response.Forbidden(c, "company account required")
		return
	}

	var q interviewModel.ApplicantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.InvalidRequest(c, "applicant_id, object, post_id and support_category are required")
		return
	}
	if !bindObject(c, &q.Object) {
		return
	}

	detail, err := h.service.GetApplicantDetail(c.Request.Context(), companyID, q)
	if err != nil {
		h.writeError(c, companyID, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// bindObject replaces the raw object with its parsed kind, or writes 400.
func bindObject(c *gin.Context, object *applicant.Kind) bool {
	kind, err := applicant.ParseKind(string(*object))
	if err != nil {
		response.InvalidRequest(c, err.Error())
		return false
	}
	*object = kind
	return true
}

func (h *Handler) writeError(c *gin.Context, companyID int64, err error) {
	switch {
	case errors.Is(err, interviewModel.ErrInvalidRequest):
		response.InvalidRequest(c, err.Error())
	case errors.Is(err, interviewModel.ErrPostNotOwned):
		response.Error(c, "POST_NOT_OWNED", "post does not belong to the company", http.StatusBadRequest)
	case errors.Is(err, interviewModel.ErrNotRecommended):
		response.Error(c, "NOT_RECOMMENDED", "applicant was not recommended for the post", http.StatusBadRequest)
	case errors.Is(err, interviewModel.ErrApplicantNotFound):
		response.NotFound(c, "applicant not found")
	case errors.Is(err, postModel.ErrPostNotFound):
		response.NotFound(c, "post not found")
	case errors.Is(err, applicationModel.ErrApplicationExists):
		response.Error(c, "APPLICATION_EXISTS", "applicant already has an application for the post", http.StatusConflict)
	default:
		h.logger.Errorw("Interview request failed", "company_id", companyID, "error", err)
		response.Internal(c)
	}
}
