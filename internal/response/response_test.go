package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h, func(c *gin.Context) {
		c.String(http.StatusTeapot, "should not run")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		h      gin.HandlerFunc
		status int
		code   string
	}{
		{"not found", func(c *gin.Context) { NotFound(c, "missing") }, http.StatusNotFound, "NOT_FOUND"},
		{"invalid", func(c *gin.Context) { InvalidRequest(c, "bad") }, http.StatusBadRequest, "INVALID_REQUEST"},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "no") }, http.StatusForbidden, "FORBIDDEN"},
		{"internal", Internal, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"custom", func(c *gin.Context) { Error(c, "ALREADY_MEMBER", "m", http.StatusConflict) }, http.StatusConflict, "ALREADY_MEMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(t, tt.h)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestAlreadyProcessed(t *testing.T) {
	w := perform(t, func(c *gin.Context) {
		AlreadyProcessed(c, gin.H{"result": "ALREADY_PROCESSED"})
		c.Abort()
	})
	assert.Equal(t, http.StatusAlreadyReported, w.Code)
	assert.JSONEq(t, `{"result":"ALREADY_PROCESSED"}`, w.Body.String())
}

func TestIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := IDParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		path   string
		status int
	}{
		{"/items/42", http.StatusOK},
		{"/items/0", http.StatusBadRequest},
		{"/items/-3", http.StatusBadRequest},
		{"/items/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
