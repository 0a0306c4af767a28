package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/planner"
)

func newSweepCmd(opts *options) *cobra.Command {
	var from, to, step float64
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Re-plan one day across a range of round-trip efficiencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			effs, err := analysis.EfficiencyRange(from, to, step)
			if err != nil {
				return err
			}
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

			points, err := analysis.SweepEfficiency(planner.New(log), prices, device, effs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-6s %-18s %-14s %-7s %-10s\n", "eff", "charging", "discharging", "pruned", "net$")
			for _, p := range points {
				fmt.Fprintf(w, "%-6.2f %-18v %-14v %-7d %-10.2f\n",
					p.Efficiency, p.ChargingHours, p.DischargingHours, p.Pruned, p.NetRevenue)
			}
			return nil
		},
	}
	addPriceFlags(cmd, opts)
	cmd.Flags().Float64Var(&from, "from", 0.5, "lowest efficiency")
	cmd.Flags().Float64Var(&to, "to", 1, "highest efficiency")
	cmd.Flags().Float64Var(&step, "step", 0.05, "efficiency step")
	return cmd
}
