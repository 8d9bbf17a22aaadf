// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/response"
	"github.com/festy23/workmatch/internal/statistics/model"
	"github.com/festy23/workmatch/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetMatchingStatistics handles GET /statistics/matching request.
// @Summary Get matching statistics for a day
// @Tags Statistics
// @Produce json
// @Param day query string false "Day as YYYY-MM-DD, defaults to today"
// @Success 200 {object} model.MatchingStatisticsResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /statistics/matching [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetMatchingStatistics(c *gin.Context) {
	resp, err := h.service.GetMatchingStatistics(c.Request.Context(), c.Query("day"))
	if err != nil {
		if errors.Is(err, model.ErrInvalidDay) {
			response.InvalidRequest(c, "day must be formatted as YYYY-MM-DD")
			return
		}
		h.logger.Errorw("error getting matching statistics", "error", err)
		response.Internal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}
