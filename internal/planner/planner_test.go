package planner

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/metrics"
	"battery-arbitrage/internal/model"
)

func peakSeries() model.PriceSeries {
	s := model.FlatSeries(50)
	for h := 0; h <= 4; h++ {
		s[h].Price = 10
	}
	s[20].Price = 100
	return s
}

func TestRun(t *testing.T) {
	metrics.ResetRuns()
	t.Cleanup(metrics.ResetRuns)

	p := New(logger.NopLogger{})
	plan, err := p.Run(peakSeries(), model.DefaultDevice())
	require.NoError(t, err)

	_, err = uuid.Parse(plan.ID)
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, plan.Schedule.ChargingHours)
	assert.Equal(t, []int{20, 21, 22, 23}, plan.Schedule.DischargingHours)
	assert.Empty(t, plan.Pruned)
	assert.InDelta(t, 200, plan.Result.NetRevenue, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs(metrics.OutcomeScheduled)))
}

func TestRun_NoArbitrage(t *testing.T) {
	metrics.ResetRuns()
	t.Cleanup(metrics.ResetRuns)

	plan, err := New(nil).Run(model.FlatSeries(50), model.DefaultDevice())
	require.NoError(t, err)
	assert.True(t, plan.Schedule.Empty())
	assert.Len(t, plan.Pruned, 5)
	assert.True(t, plan.Pruned[4].Unpaired())
	assert.Zero(t, plan.Result.NetRevenue)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs(metrics.OutcomeNoArbitrage)))
}

func TestRun_InvalidInput(t *testing.T) {
	metrics.ResetRuns()
	t.Cleanup(metrics.ResetRuns)

	p := New(nil)
	_, err := p.Run(model.FlatSeries(50)[:23], model.DefaultDevice())
	assert.ErrorIs(t, err, model.ErrInvalidPrices)

	_, err = p.Run(model.FlatSeries(50), model.DefaultDevice().WithEfficiency(1.2))
	assert.ErrorIs(t, err, model.ErrInvalidDevice)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Runs(metrics.OutcomeError)))
}

func TestRun_Concurrent(t *testing.T) {
	p := New(nil)
	want, err := p.Run(peakSeries(), model.DefaultDevice())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Run(peakSeries(), model.DefaultDevice())
			assert.NoError(t, err)
			assert.Equal(t, want.Schedule, got.Schedule)
			assert.Equal(t, want.Result.NetRevenue, got.Result.NetRevenue)
			assert.NotEqual(t, want.ID, got.ID)
		}()
	}
	wg.Wait()
}
