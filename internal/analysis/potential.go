package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"battery-arbitrage/internal/model"
)

// Summary describes the shape of a day's prices. Spread is P95-P05 and is a
// quick indicator of how much arbitrage the day offers, independent of the
// battery.
type Summary struct {
	Count int

	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P05    float64
	P95    float64

	Spread float64

	// BestPairGross is max price minus min price: the most a 1 MWh round trip
	// at 100% efficiency could earn.
	BestPairGross float64
}

func Summarize(series model.PriceSeries) Summary {
	s := Summary{Count: len(series)}
	if len(series) == 0 {
		return s
	}
	vals := series.Prices()
	sort.Float64s(vals)

	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		s.StdDev = 0
	}
	s.P05 = stat.Quantile(0.05, stat.LinInterp, vals, nil)
	s.P95 = stat.Quantile(0.95, stat.LinInterp, vals, nil)
	s.Spread = s.P95 - s.P05
	s.BestPairGross = s.Max - s.Min
	return s
}
