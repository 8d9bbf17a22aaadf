package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestObserveAssignment(t *testing.T) {
	m := New()
	m.ObserveAssignment("MEMBER", OutcomeCreated)
	m.ObserveAssignment("MEMBER", OutcomeCreated)
	m.ObserveAssignment("COMPANY", OutcomeLostRace)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assignments.WithLabelValues("MEMBER", OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignments.WithLabelValues("COMPANY", OutcomeLostRace)))
}

func TestObserveInvitationAndHTTP(t *testing.T) {
	m := New()
	m.ObserveInvitation("accept", InvitationApplied)
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invitations.WithLabelValues("accept", InvitationApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAssignment("MEMBER", OutcomeCreated)
		m.ObserveSelection("MEMBER", time.Second)
		m.ObserveInvitation("decline", InvitationConflict)
		m.ObserveHTTP(http.MethodGet, "/", 200, time.Millisecond)
		m.RegisterDBStats(nil)
	})
}

func TestHandler(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	m := New()
	m.RegisterDBStats(db)
	m.ObserveAssignment("COMPANY", OutcomeExisting)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `workmatch_assignment_total{actor_type="COMPANY",outcome="existing"} 1`)
	assert.Contains(t, w.Body.String(), "workmatch_db_open_connections")
}
