package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"profit-forecast/internal/analysis"
	"profit-forecast/internal/config"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	var (
		dir    string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Forecast every scenario in a directory and rank them",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := scenarioFiles(dir)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .yaml scenarios in %s", dir)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(paths),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("forecasting"),
				progressbar.OptionShowCount(),
			)
			engine := forecast.New()
			byName := map[string][]model.ChartDataPoint{}
			var failed []string
			for _, p := range paths {
				name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
				points, err := runScenario(cmd.Context(), engine, p, filepath.Join(outDir, name+".csv"))
				if err != nil {
					log.Warn().Err(err).Str("scenario", p).Msg("scenario failed")
					failed = append(failed, name)
				} else {
					byName[name] = points
				}
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())

			out := cmd.OutOrStdout()
			ranked := analysis.RankScenarios(byName)
			fmt.Fprintf(out, "%-4s %-24s %-6s %-9s %-12s %-12s\n", "rank", "scenario", "days", "lossDays", "headroom0", "headroomN")
			for i, r := range ranked {
				fmt.Fprintf(out, "%-4d %-24s %-6d %-9d %-12.2f %-12.2f\n",
					i+1, r.Name, r.Days, r.LossDays, r.InitialHeadroom, r.FinalHeadroom)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d scenarios failed: %s", len(failed), len(paths), strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "examples/scenarios", "Directory of YAML scenario configs")
	cmd.Flags().StringVar(&outDir, "out", "results", "Output directory for per-scenario CSVs")
	return cmd
}

func runScenario(ctx context.Context, engine *forecast.Engine, path, outPath string) ([]model.ChartDataPoint, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run(ctx, cfg.State(), cfg.Forecast)
	if err != nil {
		return nil, err
	}
	if err := forecast.WriteChartCSV(outPath, res.Points); err != nil {
		return nil, err
	}
	return res.Points, nil
}

func scenarioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
