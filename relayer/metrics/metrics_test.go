package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission("create_policy", 4, time.Millisecond, nil)
	m.ObserveSubmission("create_policy", 0, time.Millisecond, errors.New("boom"))
	m.ObserveSubmission("activate_policy", 5, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("create_policy", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("create_policy", OutcomeFailed)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.LedgerHeight))
}

func TestHandler(t *testing.T) {
	m := New()
	m.SweepRuns.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "riskmesh_sweep_runs_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
