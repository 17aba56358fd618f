package main

import (
	"fmt"
	"os"
	"path/filepath"

	"profit-forecast/internal/analysis"
	"profit-forecast/internal/forecast"

	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	var (
		in        input
		days      int
		recompute bool
		aware     bool
		workers   int
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project a scenario and write the per-day series as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, opts, err := in.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				opts.Days = days
			}
			if cmd.Flags().Changed("recompute") {
				opts.RecomputePerDay = recompute
			}
			if cmd.Flags().Changed("slope-aware") {
				opts.SlopeAware = aware
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}

			res, err := forecast.New().Run(cmd.Context(), state, opts)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := forecast.WriteChartCSV(outPath, res.Points); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s := analysis.Summarize(res.Points)
			fmt.Fprintf(out, "Wrote %d rows to %s\n", len(res.Points), outPath)
			fmt.Fprintf(out, "Loss days=%d Degenerate days=%d Non-converged searches=%d\n",
				s.LossDays, s.DegenerateDays, s.NonConverged)
			fmt.Fprintf(out, "Price headroom day 0=%.2f day %d=%.2f\n",
				s.InitialHeadroom, res.Days, s.FinalHeadroom)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&days, "days", forecast.DefaultDays, "Last projected day (overrides the config)")
	cmd.Flags().BoolVar(&recompute, "recompute", false, "Recompute leads and costs per day instead of broadcasting the snapshot")
	cmd.Flags().BoolVar(&aware, "slope-aware", false, "Orient CPL and rate searches by their profit slope")
	cmd.Flags().IntVar(&workers, "workers", 1, "Days computed concurrently")
	cmd.Flags().StringVar(&outPath, "out", "results/forecast.csv", "Output CSV path")
	return cmd
}
