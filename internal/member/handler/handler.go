// Package handler provides HTTP handlers for member endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/member/model"
	"github.com/festy23/workmatch/internal/member/service"
	"github.com/festy23/workmatch/internal/middleware"
	"github.com/festy23/workmatch/internal/response"
)

// Handler handles HTTP requests for member endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new member handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetMe handles GET /members/me request.
// @Summary Get the caller's member profile
// @Tags Members
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 404 {object} response.ErrorResponse
// @Router /members/me [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMe(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.Forbidden(c, "member account required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, model.ErrMemberNotFound) {
			response.NotFound(c, "member not found")
			return
		}
		h.logger.Errorw("Failed to load member profile", "member_id", memberID, "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, profile)
}
