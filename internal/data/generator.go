package data

import (
	"math/rand"
	"time"

	"battery-arbitrage/internal/model"
)

// PriceBand is an inclusive-exclusive integer price range [Min, Min+Spread).
type PriceBand struct {
	Min    int
	Spread int
}

var (
	// BandLow covers overnight and midday solar hours.
	BandLow = PriceBand{Min: 20, Spread: 30}
	// BandHigh covers the morning and evening peaks.
	BandHigh = PriceBand{Min: 70, Spread: 50}
	// BandShoulder covers everything else.
	BandShoulder = PriceBand{Min: 40, Spread: 40}
)

// BandForHour returns the time-of-day price band for an hour:
// low in 1-5 and 9-16, high in 7-8 and 18-21, shoulder otherwise.
func BandForHour(h int) PriceBand {
	switch {
	case (h >= 1 && h <= 5) || (h >= 9 && h <= 16):
		return BandLow
	case (h >= 7 && h <= 8) || (h >= 18 && h <= 21):
		return BandHigh
	default:
		return BandShoulder
	}
}

// Generator produces random day-ahead price series. Not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator; seed 0 uses the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns 24 whole-dollar prices, one per hour.
func (g *Generator) Generate() model.PriceSeries {
	out := make(model.PriceSeries, model.HoursPerDay)
	for h := range out {
		b := BandForHour(h)
		out[h] = model.PricePoint{
			Hour:  h,
			Price: float64(b.Min + g.rng.Intn(b.Spread)),
		}
	}
	return out
}
