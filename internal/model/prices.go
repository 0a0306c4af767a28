package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// HoursPerDay is the fixed length of a PriceSeries.
const HoursPerDay = 24

var ErrInvalidPrices = errors.New("invalid price series")

// PricePoint is the day-ahead price for one hour, in $/MWh.
type PricePoint struct {
	Hour  int     `json:"hour" yaml:"hour"`
	Price float64 `json:"price" yaml:"price"`
}

// PriceSeries holds exactly one PricePoint per hour of the day once validated.
// Order is not significant; use SortedByHour or ByHour for hour-indexed access.
type PriceSeries []PricePoint

// Validate checks the series covers hours 0..23 exactly once with finite prices.
func (s PriceSeries) Validate() error {
	if len(s) != HoursPerDay {
		return fmt.Errorf("%w: expected %d hours, got %d", ErrInvalidPrices, HoursPerDay, len(s))
	}
	var seen [HoursPerDay]bool
	for _, p := range s {
		if p.Hour < 0 || p.Hour >= HoursPerDay {
			return fmt.Errorf("%w: hour %d out of range", ErrInvalidPrices, p.Hour)
		}
		if seen[p.Hour] {
			return fmt.Errorf("%w: duplicate hour %d", ErrInvalidPrices, p.Hour)
		}
		seen[p.Hour] = true
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("%w: hour %d has non-finite price", ErrInvalidPrices, p.Hour)
		}
	}
	return nil
}

// ByHour returns prices indexed by hour. The series must be valid.
func (s PriceSeries) ByHour() [HoursPerDay]float64 {
	var out [HoursPerDay]float64
	for _, p := range s {
		if p.Hour >= 0 && p.Hour < HoursPerDay {
			out[p.Hour] = p.Price
		}
	}
	return out
}

// SortedByHour returns a copy ordered by hour.
func (s PriceSeries) SortedByHour() PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// Prices returns the raw price values in series order.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// FlatSeries returns a series with the same price at every hour.
func FlatSeries(price float64) PriceSeries {
	out := make(PriceSeries, HoursPerDay)
	for h := range out {
		out[h] = PricePoint{Hour: h, Price: price}
	}
	return out
}
