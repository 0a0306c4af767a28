package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"battery-arbitrage/internal/model"
)

// DefaultPrice backfills hours missing from an imported file, in $/MWh.
const DefaultPrice = 50.0

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrMissingColumn = fmt.Errorf("%w: missing column", ErrInvalidInput)
	ErrTooFewRows    = fmt.Errorf("%w: too few valid rows", ErrInvalidInput)
)

var (
	hourColumnHints  = []string{"hour", "time", "period"}
	priceColumnHints = []string{"price", "cost", "rate", "lmp"}
)

type ImportOptions struct {
	// Strict rejects files that do not supply all 24 hours instead of backfilling.
	Strict bool
}

type ImportResult struct {
	Series     model.PriceSeries
	Backfilled []int // hours filled with DefaultPrice
	Skipped    int   // data rows discarded as non-numeric or out of range
}

func ImportPricesCSVFile(path string, opts ImportOptions) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ImportPricesCSV(f, opts)
}

// ImportPricesCSV reads a header row plus up to 24 data rows. The hour and
// price columns are found by case-insensitive substring match on the header.
// Later rows for the same hour replace earlier ones.
func ImportPricesCSV(r io.Reader, opts ImportOptions) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hourCol := findColumn(header, hourColumnHints, priceColumnHints, -1)
	if hourCol < 0 {
		return nil, fmt.Errorf("%w: no hour column (want one of %v)", ErrMissingColumn, hourColumnHints)
	}
	priceCol := findColumn(header, priceColumnHints, hourColumnHints, hourCol)
	if priceCol < 0 {
		return nil, fmt.Errorf("%w: no price column (want one of %v)", ErrMissingColumn, priceColumnHints)
	}

	var (
		prices [model.HoursPerDay]float64
		have   [model.HoursPerDay]bool
		res    ImportResult
	)
	for rows := 0; rows < model.HoursPerDay; rows++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, rows+2, err)
		}
		if hourCol >= len(rec) || priceCol >= len(rec) {
			res.Skipped++
			continue
		}
		hour, ok := parseHour(rec[hourCol])
		if !ok {
			res.Skipped++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[priceCol]), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			res.Skipped++
			continue
		}
		prices[hour] = price
		have[hour] = true
	}

	valid := 0
	for _, ok := range have {
		if ok {
			valid++
		}
	}
	if valid == 0 || (opts.Strict && valid < model.HoursPerDay) {
		return nil, fmt.Errorf("%w: %d of %d hours present", ErrTooFewRows, valid, model.HoursPerDay)
	}

	res.Series = make(model.PriceSeries, model.HoursPerDay)
	for h := range res.Series {
		p := prices[h]
		if !have[h] {
			p = DefaultPrice
			res.Backfilled = append(res.Backfilled, h)
		}
		res.Series[h] = model.PricePoint{Hour: h, Price: p}
	}
	return &res, nil
}

// findColumn prefers a header matching hints but none of avoid, so that
// "Hourly Price" is not taken as the hour column when "Hour" exists.
func findColumn(header []string, hints, avoid []string, skip int) int {
	fallback := -1
	for i, name := range header {
		if i == skip {
			continue
		}
		n := strings.ToLower(strings.TrimSpace(name))
		if !containsAny(n, hints) {
			continue
		}
		if !containsAny(n, avoid) {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseHour accepts "7", "07", "7.0" and clock forms like "07:00".
func parseHour(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if f < 0 || f >= model.HoursPerDay {
		return 0, false
	}
	return int(f), true
}

// WritePricesCSV writes a series as "hour,price" rows ordered by hour.
func WritePricesCSV(w io.Writer, s model.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"hour", "price"}); err != nil {
		return err
	}
	for _, p := range s.SortedByHour() {
		if err := cw.Write([]string{strconv.Itoa(p.Hour), strconv.FormatFloat(p.Price, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
