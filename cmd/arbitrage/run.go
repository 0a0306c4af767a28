package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/planner"
)

func newRunCmd(opts *options) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Select charging/discharging hours for one day and simulate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.efficiencySet = cmd.Flags().Changed("efficiency")
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter("cli", cmd.ErrOrStderr())

			prices, _, err := opts.prices(cfg, log)
			if err != nil {
				return err
			}
			device, err := opts.device(cfg)
			if err != nil {
				return err
			}

			plan, err := planner.New(log).Run(prices, device)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), plan)

			if outPath == "" {
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := backtest.WriteTrajectoryCSVFile(outPath, plan.Result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(plan.Result.Trajectory), outPath)
			return nil
		},
	}
	addPriceFlags(cmd, opts)
	cmd.Flags().Float64VarP(&opts.efficiency, "efficiency", "e", 0, "round-trip efficiency override in (0, 1]")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the hourly trajectory CSV here")
	return cmd
}

func printPlan(w io.Writer, plan *planner.Plan) {
	res := plan.Result
	sum := analysis.Summarize(plan.Prices)

	fmt.Fprintf(w, "Plan %s (%s, %.1f MWh / %.1f MW, efficiency %.2f)\n",
		plan.ID, plan.Device.Name, plan.Device.CapacityMWh, plan.Device.PowerLimitMW, plan.Device.Efficiency)
	fmt.Fprintf(w, "Prices: min=%.2f max=%.2f mean=%.2f p95-p05=%.2f\n", sum.Min, sum.Max, sum.Mean, sum.Spread)

	if plan.Schedule.Empty() {
		fmt.Fprintln(w, "No profitable charge/discharge pair; battery stays idle.")
	} else {
		fmt.Fprintf(w, "Charging hours:    %v\n", plan.Schedule.ChargingHours)
		fmt.Fprintf(w, "Discharging hours: %v\n", plan.Schedule.DischargingHours)
	}
	for _, p := range plan.Pruned {
		if p.Unpaired() {
			fmt.Fprintf(w, "  dropped hour %d (cost %.2f, nothing left to discharge into)\n",
				p.ChargingHour, p.ChargingCost)
			continue
		}
		fmt.Fprintf(w, "  dropped hour %d -> %d (cost %.2f > value %.2f)\n",
			p.ChargingHour, p.DischargingHour, p.ChargingCost, p.DischargingValue)
	}

	fmt.Fprintf(w, "%-4s %-8s %-12s %-8s %-7s %-10s\n", "hour", "price", "action", "soc", "soc%", "cum$")
	fmt.Fprintln(w, strings.Repeat("-", 54))
	for _, r := range res.Trajectory {
		fmt.Fprintf(w, "%-4d %-8.2f %-12s %-8.3f %-7.1f %-10.2f\n",
			r.Hour, r.Price, r.Action, r.SOCEndMWh, r.SOCPercent, r.CumRevenue)
	}
	fmt.Fprintf(w, "Charging cost=$%.2f Discharging revenue=$%.2f Net revenue=$%.2f Final SOC=%.1f%%\n",
		res.TotalChargingCost, res.TotalDischargingRevenue, res.NetRevenue, res.FinalSOCPercent)
}
