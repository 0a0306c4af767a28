package strategy

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"battery-arbitrage/internal/model"
)

// Candidate budgets: one full cycle per day for a 4h battery, plus one spare
// charging hour to cover the efficiency loss.
const (
	ChargeBudget    = 5
	DischargeBudget = 4
)

var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule is the pair of disjoint hour sets chosen for a day.
// Both slices are sorted ascending.
type Schedule struct {
	ChargingHours    []int `json:"charging_hours"`
	DischargingHours []int `json:"discharging_hours"`
}

func (s Schedule) IsCharging(hour int) bool    { return slices.Contains(s.ChargingHours, hour) }
func (s Schedule) IsDischarging(hour int) bool { return slices.Contains(s.DischargingHours, hour) }

// Empty reports whether no arbitrage was selected.
func (s Schedule) Empty() bool {
	return len(s.ChargingHours) == 0 && len(s.DischargingHours) == 0
}

// Validate checks every hour is in 0..23, appears once, and the sets are disjoint.
func (s Schedule) Validate() error {
	var seen [model.HoursPerDay]bool
	check := func(kind string, hours []int) error {
		for _, h := range hours {
			if h < 0 || h >= model.HoursPerDay {
				return fmt.Errorf("%w: %s hour %d out of range", ErrInvalidSchedule, kind, h)
			}
			if seen[h] {
				return fmt.Errorf("%w: hour %d scheduled twice", ErrInvalidSchedule, h)
			}
			seen[h] = true
		}
		return nil
	}
	if err := check("charging", s.ChargingHours); err != nil {
		return err
	}
	return check("discharging", s.DischargingHours)
}

// NoHour marks the missing side of an unpaired PruneStep.
const NoHour = -1

// PruneStep is one charging/discharging pair dropped as unprofitable, or a
// lone charging hour (DischargingHour == NoHour) left without a partner.
type PruneStep struct {
	ChargingHour     int     `json:"charging_hour"`
	DischargingHour  int     `json:"discharging_hour"`
	ChargingCost     float64 `json:"charging_cost"`
	DischargingValue float64 `json:"discharging_value"`
}

// Unpaired reports whether the step dropped a charging hour on its own.
func (p PruneStep) Unpaired() bool { return p.DischargingHour == NoHour }

// Select picks charging and discharging hours for the day.
func Select(prices model.PriceSeries, efficiency float64) (Schedule, error) {
	s, _, err := SelectWithTrace(prices, efficiency)
	return s, err
}

// SelectWithTrace seeds the 5 cheapest hours for charging and the 4 dearest for
// discharging, then drops the costliest charge / cheapest discharge pair while
// the charge price exceeds the efficiency-derated discharge price.
//
// Seeding walks the hours ordered by (price, hour): charging takes the first 5
// and discharging the last 4, so among equal prices charging gets the lowest
// hours and discharging the highest, and the two sets never overlap. Pruning
// breaks ties by lowest hour index on both sides.
//
// When the last discharging hour is pruned the remaining charging hour has
// nothing to sell into; it is dropped too and recorded as a step with
// DischargingHour -1.
func SelectWithTrace(prices model.PriceSeries, efficiency float64) (Schedule, []PruneStep, error) {
	if err := prices.Validate(); err != nil {
		return Schedule{}, nil, err
	}
	if err := model.ValidateEfficiency(efficiency); err != nil {
		return Schedule{}, nil, err
	}

	sorted := prices.SortedByHour()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	charging := make([]model.PricePoint, ChargeBudget)
	copy(charging, sorted[:ChargeBudget])
	discharging := make([]model.PricePoint, DischargeBudget)
	copy(discharging, sorted[len(sorted)-DischargeBudget:])

	var pruned []PruneStep
	for len(charging) > 0 && len(discharging) > 0 {
		hi := extreme(charging, func(a, b float64) bool { return a > b })
		lo := extreme(discharging, func(a, b float64) bool { return a < b })

		cost := charging[hi].Price
		value := discharging[lo].Price * efficiency
		if !(cost > value) {
			break
		}
		pruned = append(pruned, PruneStep{
			ChargingHour:     charging[hi].Hour,
			DischargingHour:  discharging[lo].Hour,
			ChargingCost:     cost,
			DischargingValue: value,
		})
		charging = slices.Delete(charging, hi, hi+1)
		discharging = slices.Delete(discharging, lo, lo+1)
	}
	// Charging budget is one larger than discharging, so a fully pruned day
	// leaves a stray charging hour with nothing to sell into.
	if len(discharging) == 0 {
		for _, c := range charging {
			pruned = append(pruned, PruneStep{
				ChargingHour:    c.Hour,
				DischargingHour: NoHour,
				ChargingCost:    c.Price,
			})
		}
		charging = charging[:0]
	}

	return Schedule{
		ChargingHours:    hoursOf(charging),
		DischargingHours: hoursOf(discharging),
	}, pruned, nil
}

// extreme returns the index of the point whose price wins under better,
// preferring the lowest hour among equal prices.
func extreme(points []model.PricePoint, better func(a, b float64) bool) int {
	best := 0
	for i := 1; i < len(points); i++ {
		p, b := points[i], points[best]
		if better(p.Price, b.Price) || (p.Price == b.Price && p.Hour < b.Hour) {
			best = i
		}
	}
	return best
}

func hoursOf(points []model.PricePoint) []int {
	out := make([]int, 0, len(points))
	for _, p := range points {
		out = append(out, p.Hour)
	}
	slices.Sort(out)
	return out
}
