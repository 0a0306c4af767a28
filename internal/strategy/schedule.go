package strategy

import (
	"math"

	"battery-arbitrage/internal/model"
)

// ArbitrageStrategy turns a selected Schedule into per-hour power requests:
// - charge at full power during ChargingHours
// - discharge at full power during DischargingHours
// - otherwise IDLE
//
// Requests are not SOC-aware; the simulator clips discharges to what is stored.
type ArbitrageStrategy struct {
	Schedule Schedule
}

func NewArbitrageStrategy(s Schedule) *ArbitrageStrategy {
	return &ArbitrageStrategy{Schedule: s}
}

func (s *ArbitrageStrategy) Name() string { return "arbitrage" }

func (s *ArbitrageStrategy) Decide(ctx Context) model.Dispatch {
	p := math.Abs(ctx.Device.PowerLimitMW)
	switch {
	case s.Schedule.IsCharging(ctx.Hour):
		return model.Dispatch{PowerMW: -p}
	case s.Schedule.IsDischarging(ctx.Hour):
		return model.Dispatch{PowerMW: p}
	default:
		return model.Dispatch{PowerMW: 0}
	}
}
