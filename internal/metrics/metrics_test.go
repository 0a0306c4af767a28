package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	ResetRuns()
	t.Cleanup(ResetRuns)

	ObserveRun(true, 1, 120, 0.0001)
	ObserveRun(false, 4, 0, 0.0001)
	ObserveError()

	assert.Equal(t, 1.0, testutil.ToFloat64(Runs(OutcomeScheduled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(Runs(OutcomeNoArbitrage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(Runs(OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(netRevenue))
}

func TestMustRegisterAndServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	MustRegister(reg)

	ResetRuns()
	t.Cleanup(ResetRuns)
	ObserveError()

	count, err := testutil.GatherAndCount(reg, "arbitrage_runs_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
}

func TestResetRuns(t *testing.T) {
	ObserveRun(true, 0, 10, 0.0001)
	ObserveError()
	ResetRuns()

	assert.Zero(t, testutil.ToFloat64(Runs(OutcomeScheduled)))
	assert.Zero(t, testutil.ToFloat64(Runs(OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(prunedPairs))
}
