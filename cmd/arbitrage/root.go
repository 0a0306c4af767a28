package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"battery-arbitrage/internal/config"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/logger"
	"battery-arbitrage/internal/model"
)

// options shared by the subcommands that plan over a price day.
type options struct {
	cfgPath    string
	pricesPath string
	random     bool
	seed       int64
	strict     bool
	efficiency float64
	deviceID   string

	// efficiencySet distinguishes an explicit --efficiency 0 from the flag being absent.
	efficiencySet bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "arbitrage",
		Short:         "Daily battery arbitrage scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file")

	root.AddCommand(newRunCmd(opts), newSweepCmd(opts), newGenerateCmd())
	return root
}

func addPriceFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVarP(&opts.pricesPath, "prices", "p", "", "hourly prices (.csv or .json)")
	f.BoolVar(&opts.random, "random", false, "generate a random price day instead of reading --prices")
	f.Int64Var(&opts.seed, "seed", 0, "seed for --random (0 = config or time based)")
	f.BoolVar(&opts.strict, "strict", false, "reject CSV files missing any hour")
	f.StringVarP(&opts.deviceID, "device", "d", "", "device preset id from the presets directory")
}

// loadConfig reads the config file and applies the logging level.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// device layers the configured device, an optional preset and an explicit efficiency.
func (o *options) device(cfg *config.Config) (model.DeviceSpec, error) {
	dc := cfg.Device
	if o.deviceID != "" {
		loaded, err := config.LoadPreset(cfg.Server.DeviceDir, o.deviceID)
		if err != nil {
			return model.DeviceSpec{}, fmt.Errorf("device %q: %w", o.deviceID, err)
		}
		dc = config.MergeDevice(dc, loaded)
	}
	d := dc.ToModel()
	if o.efficiencySet {
		d = d.WithEfficiency(o.efficiency)
	}
	return d, d.Validate()
}

// prices returns the day to plan and, for CSV input, what the import cleaned up.
func (o *options) prices(cfg *config.Config, log logger.Logger) (model.PriceSeries, *data.ImportResult, error) {
	switch {
	case o.random && o.pricesPath != "":
		return nil, nil, fmt.Errorf("--random and --prices are mutually exclusive")
	case o.random:
		seed := o.seed
		if seed == 0 {
			seed = cfg.Generator.Seed
		}
		return data.NewGenerator(seed).Generate(), nil, nil
	case o.pricesPath == "":
		return nil, nil, fmt.Errorf("one of --prices or --random is required")
	}

	switch strings.ToLower(filepath.Ext(o.pricesPath)) {
	case ".json":
		s, err := data.LoadPriceSeriesJSON(o.pricesPath)
		return s, nil, err
	default:
		res, err := data.ImportPricesCSVFile(o.pricesPath, data.ImportOptions{Strict: o.strict})
		if err != nil {
			return nil, nil, err
		}
		if len(res.Backfilled) > 0 {
			log.Warnf("%s: backfilled hours %v with %.0f", o.pricesPath, res.Backfilled, data.DefaultPrice)
		}
		if res.Skipped > 0 {
			log.Warnf("%s: skipped %d unusable rows", o.pricesPath, res.Skipped)
		}
		return res.Series, res, nil
	}
}
