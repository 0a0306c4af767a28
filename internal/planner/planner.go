package planner

import (
	"time"

	"github.com/google/uuid"

	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/metrics"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/strategy"
)

// Plan is the outcome of one select+simulate run.
type Plan struct {
	ID        string
	CreatedAt time.Time

	Prices model.PriceSeries
	Device model.DeviceSpec

	Schedule strategy.Schedule
	Pruned   []strategy.PruneStep
	Result   *backtest.Result
}

// Planner runs the selector and simulator in sequence. It holds no per-run
// state and may be shared between goroutines.
type Planner struct {
	log logger.Logger
	now func() time.Time
}

func New(log logger.Logger) *Planner {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Planner{log: log, now: time.Now}
}

// Run validates the inputs, selects hours and simulates the day.
// A day with no profitable pair is a valid plan with an empty schedule.
func (p *Planner) Run(prices model.PriceSeries, device model.DeviceSpec) (*Plan, error) {
	start := p.now()

	if err := device.Validate(); err != nil {
		metrics.ObserveError()
		return nil, err
	}
	sched, pruned, err := strategy.SelectWithTrace(prices, device.Efficiency)
	if err != nil {
		metrics.ObserveError()
		return nil, err
	}
	res, err := backtest.Simulate(prices, sched, device)
	if err != nil {
		metrics.ObserveError()
		return nil, err
	}

	plan := &Plan{
		ID:        uuid.NewString(),
		CreatedAt: start.UTC(),
		Prices:    prices.SortedByHour(),
		Device:    device,
		Schedule:  sched,
		Pruned:    pruned,
		Result:    res,
	}

	metrics.ObserveRun(!sched.Empty(), len(pruned), res.NetRevenue, p.now().Sub(start).Seconds())
	p.log.Debugw("plan computed", map[string]any{
		"id":          plan.ID,
		"charging":    sched.ChargingHours,
		"discharging": sched.DischargingHours,
		"pruned":      len(pruned),
		"net_revenue": res.NetRevenue,
	})
	if sched.Empty() {
		p.log.Infof("plan %s: no profitable pair at efficiency %.2f", plan.ID, device.Efficiency)
	}
	return plan, nil
}
