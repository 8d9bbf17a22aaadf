package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Set max open connections to 1 for in-memory SQLite
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Check)
	return router
}

func check(t *testing.T, handler *Handler) (int, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	setupRouter(handler).ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

// unreachableRedis points at a closed port so Ping fails fast.
func unreachableRedis(t *testing.T) redis.UniversalClient {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestHandler_Check(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("healthy without redis", func(t *testing.T) {
		code, resp := check(t, New(setupTestDB(t), nil, logger))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, Response{Status: "ok", Database: StateOK, Redis: StateDisabled}, resp)
	})

	t.Run("database unavailable", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		code, resp := check(t, New(db, nil, logger))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, StateUnavailable, resp.Database)
	})

	t.Run("redis unavailable degrades", func(t *testing.T) {
		code, resp := check(t, New(setupTestDB(t), unreachableRedis(t), logger))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, StateOK, resp.Database)
		assert.Equal(t, StateUnavailable, resp.Redis)
	})

	t.Run("database failure wins over redis", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		code, resp := check(t, New(db, unreachableRedis(t), logger))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, StateUnavailable, resp.Redis)
	})

	t.Run("expired request context", func(t *testing.T) {
		router := setupRouter(New(setupTestDB(t), nil, logger))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w := httptest.NewRecorder()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("multiple concurrent health checks", func(t *testing.T) {
		router := setupRouter(New(setupTestDB(t), nil, logger))

		results := make(chan int, 10)
		for i := 0; i < 10; i++ {
			go func() {
				w := httptest.NewRecorder()
				req, _ := http.NewRequest(http.MethodGet, "/health", nil)
				router.ServeHTTP(w, req)
				results <- w.Code
			}()
		}

		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, <-results, "health check should return 200 OK")
		}
	})
}

// Benchmark health check performance.
func BenchmarkHandler_Check(b *testing.B) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	router := setupRouter(New(db, nil, zap.NewNop().Sugar()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)
	}
}
