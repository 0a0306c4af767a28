package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var trajectoryHeader = []string{
	"hour",
	"price",
	"action",
	"requested_power_mw",
	"power_mw",
	"energy_from_grid_mwh",
	"energy_to_grid_mwh",
	"soc_start_mwh",
	"soc_end_mwh",
	"soc_pct",
	"cost",
	"revenue",
	"cum_revenue",
}

func WriteTrajectoryCSVFile(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTrajectoryCSV(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteTrajectoryCSV(out io.Writer, res *Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, r := range res.Trajectory {
		row := []string{
			strconv.Itoa(r.Hour),
			fmtFloat(r.Price),
			string(r.Action),
			fmtFloat(r.RequestedPowerMW),
			fmtFloat(r.PowerMW),
			fmtFloat(r.EnergyFromGridMWh),
			fmtFloat(r.EnergyToGridMWh),
			fmtFloat(r.SOCStartMWh),
			fmtFloat(r.SOCEndMWh),
			fmtFloat(r.SOCPercent),
			fmtFloat(r.Cost),
			fmtFloat(r.Revenue),
			fmtFloat(r.CumRevenue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
