package backtest

import "battery-arbitrage/internal/model"

// HourlyState is one row of the dispatch trajectory.
// This is the primary artifact for "what happened" in a simulated day.
type HourlyState struct {
	Hour  int
	Price float64

	Action model.Action

	RequestedPowerMW float64
	PowerMW          float64

	EnergyFromGridMWh float64
	EnergyToGridMWh   float64

	SOCStartMWh float64
	SOCEndMWh   float64
	SOCPercent  float64

	Cost       float64
	Revenue    float64
	CumRevenue float64
}

type Result struct {
	Trajectory []HourlyState

	TotalChargingCost       float64
	TotalDischargingRevenue float64
	NetRevenue              float64

	EnergyChargedMWh    float64
	EnergyDischargedMWh float64

	FinalSOCMWh     float64
	FinalSOCPercent float64
}
