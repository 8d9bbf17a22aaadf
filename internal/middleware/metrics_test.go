package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/festy23/workmatch/internal/metrics"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/teams/:teamId", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/teams/1", "/teams/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, `workmatch_http_requests_total{method="GET",route="/teams/:teamId",status="200"} 2`)
	assert.Contains(t, body, `workmatch_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}
