package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"battery-arbitrage/internal/data"
)

func newGenerateCmd() *cobra.Command {
	var (
		seed    int64
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random day of hourly prices as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			prices := data.NewGenerator(seed).Generate()
			if outPath == "" {
				return data.WritePricesCSV(cmd.OutOrStdout(), prices)
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := data.WritePricesCSV(f, prices); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d prices to %s\n", len(prices), outPath)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output CSV path (stdout if empty)")
	return cmd
}
