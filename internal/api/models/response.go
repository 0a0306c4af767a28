package models

import "time"

// PlanResponse represents a computed schedule and its simulated day
type PlanResponse struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	Device     DeviceInfo     `json:"device"`
	Schedule   Schedule       `json:"schedule"`
	Pruned     []PrunedPair   `json:"pruned"`
	Summary    PlanSummary    `json:"summary"`
	Prices     PriceSummary   `json:"prices"`
	Trajectory []HourlyState  `json:"trajectory"`
	Import     *ImportSummary `json:"import,omitempty"`
}

// Schedule lists selected hours
type Schedule struct {
	ChargingHours    []int `json:"charging_hours"`
	DischargingHours []int `json:"discharging_hours"`
}

// PrunedPair is a charge/discharge pair dropped as unprofitable.
// discharging_hour is -1 for a charging hour dropped without a partner.
type PrunedPair struct {
	ChargingHour     int     `json:"charging_hour"`
	DischargingHour  int     `json:"discharging_hour"`
	ChargingCost     float64 `json:"charging_cost"`
	DischargingValue float64 `json:"discharging_value"`
}

// PlanSummary contains aggregated results of the simulated day
type PlanSummary struct {
	TotalChargingCost       float64 `json:"total_charging_cost"`
	TotalDischargingRevenue float64 `json:"total_discharging_revenue"`
	NetRevenue              float64 `json:"net_revenue"`
	EnergyChargedMWh        float64 `json:"energy_charged_mwh"`
	EnergyDischargedMWh     float64 `json:"energy_discharged_mwh"`
	FinalSOCPercent         float64 `json:"final_soc_pct"`
}

// PriceSummary describes the day's price distribution
type PriceSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`
	Spread float64 `json:"spread_p95_p05"`
}

// HourlyState represents one hour of the dispatch trajectory
type HourlyState struct {
	Hour              int     `json:"hour"`
	Price             float64 `json:"price"`
	Action            string  `json:"action"` // "CHARGING", "DISCHARGING", "IDLE"
	PowerMW           float64 `json:"power_mw"`
	EnergyFromGridMWh float64 `json:"energy_from_grid_mwh"`
	EnergyToGridMWh   float64 `json:"energy_to_grid_mwh"`
	SOCMWh            float64 `json:"soc_mwh"`
	SOCPercent        float64 `json:"soc_pct"`
	CumRevenue        float64 `json:"cum_revenue"`
}

// ImportSummary reports how an uploaded file was cleaned
type ImportSummary struct {
	Backfilled   []int   `json:"backfilled_hours"`
	Skipped      int     `json:"skipped_rows"`
	DefaultPrice float64 `json:"default_price"`
}

// SweepResponse represents the result of an efficiency sweep
type SweepResponse struct {
	Points []SweepPoint `json:"points"`
}

// SweepPoint contains the outcome at one efficiency
type SweepPoint struct {
	Efficiency       float64 `json:"efficiency"`
	ChargingHours    []int   `json:"charging_hours"`
	DischargingHours []int   `json:"discharging_hours"`
	Pruned           int     `json:"pruned"`
	NetRevenue       float64 `json:"net_revenue"`
}

// DeviceInfo represents a device preset or the device used for a plan
type DeviceInfo struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	File         string  `json:"file,omitempty"`
	CapacityMWh  float64 `json:"capacity_mwh"`
	PowerLimitMW float64 `json:"power_limit_mw"`
	Efficiency   float64 `json:"efficiency"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}
