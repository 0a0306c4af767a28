package model

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidDevice = errors.New("invalid device")

// DeviceSpec defines the physical parameters of the battery.
// Units:
// - CapacityMWh: MWh
// - PowerLimitMW: MW, same magnitude charging and discharging
// - Efficiency: round-trip fraction in (0, 1], applied once on charge
type DeviceSpec struct {
	Name         string  `json:"name,omitempty" yaml:"name"`
	CapacityMWh  float64 `json:"capacity_mwh" yaml:"capacity_mwh"`
	PowerLimitMW float64 `json:"power_limit_mw" yaml:"power_limit_mw"`
	Efficiency   float64 `json:"efficiency" yaml:"efficiency"`
}

// DefaultDevice is a 4 MWh / 1 MW battery at 80% round-trip efficiency.
func DefaultDevice() DeviceSpec {
	return DeviceSpec{
		Name:         "default",
		CapacityMWh:  4,
		PowerLimitMW: 1,
		Efficiency:   0.8,
	}
}

func (d DeviceSpec) Validate() error {
	if !(d.CapacityMWh > 0) || math.IsInf(d.CapacityMWh, 0) {
		return fmt.Errorf("%w: capacity_mwh must be > 0", ErrInvalidDevice)
	}
	if !(d.PowerLimitMW > 0) || math.IsInf(d.PowerLimitMW, 0) {
		return fmt.Errorf("%w: power_limit_mw must be > 0", ErrInvalidDevice)
	}
	return ValidateEfficiency(d.Efficiency)
}

// ValidateEfficiency rejects values outside (0, 1], including NaN.
func ValidateEfficiency(e float64) error {
	if !(e > 0 && e <= 1) {
		return fmt.Errorf("%w: efficiency must be in (0, 1], got %v", ErrInvalidDevice, e)
	}
	return nil
}

// WithEfficiency returns a copy of d using efficiency e.
func (d DeviceSpec) WithEfficiency(e float64) DeviceSpec {
	d.Efficiency = e
	return d
}
