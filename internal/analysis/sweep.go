package analysis

import (
	"fmt"

	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/planner"
)

// SweepPoint is the planner outcome at one efficiency.
type SweepPoint struct {
	Efficiency       float64
	ChargingHours    []int
	DischargingHours []int
	Pruned           int
	NetRevenue       float64
}

// SweepEfficiency re-plans the same day at each efficiency, in the given order.
func SweepEfficiency(p *planner.Planner, prices model.PriceSeries, device model.DeviceSpec, efficiencies []float64) ([]SweepPoint, error) {
	if len(efficiencies) == 0 {
		return nil, fmt.Errorf("no efficiencies")
	}
	out := make([]SweepPoint, 0, len(efficiencies))
	for _, e := range efficiencies {
		plan, err := p.Run(prices, device.WithEfficiency(e))
		if err != nil {
			return nil, fmt.Errorf("efficiency %v: %w", e, err)
		}
		out = append(out, SweepPoint{
			Efficiency:       e,
			ChargingHours:    plan.Schedule.ChargingHours,
			DischargingHours: plan.Schedule.DischargingHours,
			Pruned:           len(plan.Pruned),
			NetRevenue:       plan.Result.NetRevenue,
		})
	}
	return out, nil
}

// EfficiencyRange returns from, from+step, ... up to and including to,
// clamped to (0, 1]. The first value at or past 1 becomes 1 and ends the range.
func EfficiencyRange(from, to, step float64) ([]float64, error) {
	if step <= 0 || from > to {
		return nil, fmt.Errorf("invalid range %v..%v step %v", from, to, step)
	}
	var out []float64
	for i := 0; ; i++ {
		e := from + float64(i)*step
		if e > to+1e-9 {
			break
		}
		if e > 1-1e-9 {
			out = append(out, 1)
			break
		}
		if e > 0 {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("range %v..%v contains no efficiency in (0, 1]", from, to)
	}
	return out, nil
}
