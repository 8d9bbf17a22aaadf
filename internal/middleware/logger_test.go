package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusAlreadyReported, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger, logs := observedLogger()
			r := gin.New()
			r.Use(Logger(logger))
			r.GET("/matching/members", func(c *gin.Context) { c.Status(tt.status) })

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/matching/members", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.EqualValues(t, tt.status, entry.ContextMap()["status"])
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, logs := observedLogger()

	r := gin.New()
	r.Use(RequestID(), func(c *gin.Context) {
		SetPrincipal(c, Principal{AccountID: 42, Type: AccountMember, MemberID: 7})
		c.Next()
	}, Logger(logger))
	r.GET("/teams/:teamId", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("teamId")})
	})

	req := httptest.NewRequest(http.MethodGet, "/teams/11?expand=members", nil)
	req.Header.Set(HeaderRequestID, "req-abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/teams/11", fields["path"])
	assert.Equal(t, "/teams/:teamId", fields["route"])
	assert.Equal(t, "expand=members", fields["query"])
	assert.Equal(t, "req-abc", fields["request_id"])
	assert.EqualValues(t, AccountMember, fields["account_type"])
	assert.EqualValues(t, 42, fields["account_id"])
	assert.Contains(t, fields, "size")
	assert.Contains(t, fields, "latency_ms")
}

func TestLogger_AnonymousOmitsAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, logs := observedLogger()

	r := gin.New()
	r.Use(Logger(logger))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "account_id")
	assert.NotContains(t, fields, "query")
	assert.NotContains(t, fields, "size")
}
