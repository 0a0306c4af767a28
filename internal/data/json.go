package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"battery-arbitrage/internal/model"
)

// PriceFile matches the JSON shape of a saved price series.
//
// Example:
// {
//   "prices": [ {"hour": 0, "price": 42.5}, ... ]
// }
type PriceFile struct {
	Prices model.PriceSeries `json:"prices"`
}

func LoadPriceSeriesJSON(path string) (model.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePriceSeriesJSON(f)
}

func DecodePriceSeriesJSON(r io.Reader) (model.PriceSeries, error) {
	var pf PriceFile
	if err := json.NewDecoder(r).Decode(&pf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := pf.Prices.Validate(); err != nil {
		return nil, err
	}
	return pf.Prices.SortedByHour(), nil
}
