// Package response writes the JSON envelopes shared by all handlers.
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error envelope: {"error":{"code","message"}}.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Error writes an error envelope with the given status and aborts the chain.
func Error(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.AbortWithStatusJSON(statusCode, resp)
}

// NotFound writes a 404 NOT_FOUND error.
func NotFound(c *gin.Context, message string) {
	Error(c, "NOT_FOUND", message, http.StatusNotFound)
}

// InvalidRequest writes a 400 INVALID_REQUEST error.
func InvalidRequest(c *gin.Context, message string) {
	Error(c, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// Forbidden writes a 403 FORBIDDEN error.
func Forbidden(c *gin.Context, message string) {
	Error(c, "FORBIDDEN", message, http.StatusForbidden)
}

// Internal writes a 500 INTERNAL_ERROR error.
func Internal(c *gin.Context) {
	Error(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
}

// AlreadyProcessed writes body with 208 Already Reported, used when the
// requested transition had already happened.
func AlreadyProcessed(c *gin.Context, body interface{}) {
	c.JSON(http.StatusAlreadyReported, body)
}

// IDParam parses a positive int64 path parameter. On failure it writes a 400
// and returns false.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		InvalidRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
