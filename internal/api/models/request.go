package models

// PlanRequest represents the request body for computing a plan from explicit prices
type PlanRequest struct {
	Prices     []PricePoint  `json:"prices" binding:"required"`
	Efficiency *float64      `json:"efficiency,omitempty"` // overrides device efficiency
	DeviceID   string        `json:"device_id,omitempty"`  // preset file name without .yaml
	Device     *DeviceConfig `json:"device,omitempty"`     // overrides preset/default fields
}

// PricePoint is one hourly price in $/MWh
type PricePoint struct {
	Hour  int     `json:"hour"`
	Price float64 `json:"price"`
}

// DeviceConfig defines device parameters; omitted fields keep the base value,
// explicit values (including 0) replace it and are validated
type DeviceConfig struct {
	Name         string   `json:"name,omitempty"`
	CapacityMWh  *float64 `json:"capacity_mwh,omitempty"`
	PowerLimitMW *float64 `json:"power_limit_mw,omitempty"`
	Efficiency   *float64 `json:"efficiency,omitempty"`
}

// UploadForm represents the multipart fields accompanying a CSV upload
type UploadForm struct {
	Efficiency *float64 `form:"efficiency"`
	Strict     bool     `form:"strict"`
	DeviceID   string   `form:"device_id"`
}

// RandomPlanRequest represents query parameters for a plan over generated prices
type RandomPlanRequest struct {
	Seed       int64    `form:"seed"`
	Efficiency *float64 `form:"efficiency"`
	DeviceID   string   `form:"device_id"`
}

// SweepRequest represents a request to re-plan one day across efficiencies
type SweepRequest struct {
	Prices       []PricePoint  `json:"prices" binding:"required"`
	Efficiencies []float64     `json:"efficiencies" binding:"required,min=1"`
	DeviceID     string        `json:"device_id,omitempty"`
	Device       *DeviceConfig `json:"device,omitempty"`
}
