package backtest

import (
	"fmt"
	"math"

	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/strategy"
)

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run walks hours 0..23 in order starting from an empty battery.
//
// Charging always draws the requested power from the grid and stores
// power*efficiency, capped at capacity: energy beyond capacity is paid for
// but lost. Discharging delivers at most what is stored.
func (e *Engine) Run(prices model.PriceSeries, device model.DeviceSpec, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is nil")
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	if err := device.Validate(); err != nil {
		return nil, err
	}

	byHour := prices.ByHour()
	res := &Result{Trajectory: make([]HourlyState, 0, model.HoursPerDay)}
	soc := 0.0
	cum := 0.0

	for hour, price := range byHour {
		req := strat.Decide(strategy.Context{
			Hour:   hour,
			Price:  price,
			SOCMWh: soc,
			Device: device,
		})
		p := clipPower(req.PowerMW, device.PowerLimitMW)

		row := HourlyState{
			Hour:             hour,
			Price:            price,
			RequestedPowerMW: req.PowerMW,
			SOCStartMWh:      soc,
		}

		switch {
		case p < 0:
			drawn := -p
			soc = math.Min(device.CapacityMWh, soc+drawn*device.Efficiency)
			row.PowerMW = p
			row.EnergyFromGridMWh = drawn
			row.Cost = price * drawn
		case p > 0:
			delivered := math.Min(p, soc)
			soc = math.Max(0, soc-delivered)
			row.PowerMW = delivered
			row.EnergyToGridMWh = delivered
			row.Revenue = price * delivered
		}

		cum += row.Revenue - row.Cost
		row.Action = model.ActionFromPowerMW(row.PowerMW)
		row.SOCEndMWh = soc
		row.SOCPercent = soc / device.CapacityMWh * 100
		row.CumRevenue = cum

		res.TotalChargingCost += row.Cost
		res.TotalDischargingRevenue += row.Revenue
		res.EnergyChargedMWh += row.EnergyFromGridMWh
		res.EnergyDischargedMWh += row.EnergyToGridMWh
		res.Trajectory = append(res.Trajectory, row)
	}

	res.NetRevenue = res.TotalDischargingRevenue - res.TotalChargingCost
	res.FinalSOCMWh = soc
	res.FinalSOCPercent = soc / device.CapacityMWh * 100
	return res, nil
}

// Simulate runs a selected schedule through the engine.
func Simulate(prices model.PriceSeries, schedule strategy.Schedule, device model.DeviceSpec) (*Result, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return New().Run(prices, device, strategy.NewArbitrageStrategy(schedule))
}

// clipPower enforces the power limit, without applying SOC constraints.
func clipPower(p, limit float64) float64 {
	if p > limit {
		return limit
	}
	if p < -limit {
		return -limit
	}
	return p
}
