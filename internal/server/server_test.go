package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/clock"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	"github.com/festy23/workmatch/internal/metrics"
	"github.com/festy23/workmatch/internal/middleware"
	statisticsModel "github.com/festy23/workmatch/internal/statistics/model"
	"github.com/festy23/workmatch/internal/testutil/dbtest"
)

func TestNew_RequiresInfrastructure(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)

	_, err = New(Deps{DB: dbtest.Open(t)})
	assert.Error(t, err)
}

func TestApp_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)

	company := seed.Company(900, "acme")
	site := seed.Site(company.ID, "north")
	seed.Post(company.ID, site.ID, "framing", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1))
	kim := seed.Member(100, "kim")
	seed.Career(kim.ID, "carpenter", 2, 0)

	m := metrics.New()
	app, err := New(Deps{
		DB:      db,
		Node:    dbtest.Node(t),
		Clock:   clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Metrics: m,
		Logger:  zap.NewNop().Sugar(),
	})
	require.NoError(t, err)
	require.NotNil(t, app.Assigner)

	do := func(method, path string, accountID int64, accountType middleware.AccountType) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if accountID > 0 {
			req.Header.Set(middleware.HeaderAccountID, strconv.FormatInt(accountID, 10))
			req.Header.Set(middleware.HeaderAccountType, string(accountType))
		}
		w := httptest.NewRecorder()
		app.Handler().ServeHTTP(w, req)
		return w
	}

	t.Run("health", func(t *testing.T) {
		w := do(http.MethodGet, "/health", 0, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	})

	var matchID int64
	t.Run("member gets a daily batch", func(t *testing.T) {
		w := do(http.MethodGet, "/matching/members", 100, middleware.AccountMember)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []matchingModel.MemberMatchItem `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "framing", body.Data[0].PostName)
		matchID = body.Data[0].MatchID
	})

	t.Run("member applies", func(t *testing.T) {
		path := "/matching/members/" + strconv.FormatInt(matchID, 10) + "/apply"
		assert.Equal(t, http.StatusCreated, do(http.MethodPost, path, 100, middleware.AccountMember).Code)
		assert.Equal(t, http.StatusConflict, do(http.MethodPost, path, 100, middleware.AccountMember).Code)
	})

	t.Run("company statistics", func(t *testing.T) {
		w := do(http.MethodGet, "/statistics/matching", 900, middleware.AccountCompany)
		require.Equal(t, http.StatusOK, w.Code)

		var resp statisticsModel.MatchingStatisticsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Recommendations.MemberBatches)
		assert.Equal(t, int64(1), resp.Pipeline.Applications["APPLYING"])
	})

	t.Run("role checks", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden,
			do(http.MethodGet, "/interviews/applicants", 100, middleware.AccountMember).Code)
		assert.Equal(t, http.StatusForbidden,
			do(http.MethodGet, "/matching/members", 900, middleware.AccountCompany).Code)
		assert.Equal(t, http.StatusUnauthorized,
			do(http.MethodGet, "/matching/members", 0, "").Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden,
			do(http.MethodGet, "/matching/members", 555, middleware.AccountMember).Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := do(http.MethodGet, "/metrics", 0, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `route="/matching/members"`)
		assert.Contains(t, w.Body.String(), "workmatch_assignment_total")
	})
}
