package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"profit-forecast/internal/config"
	"profit-forecast/internal/data"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/logging"
	"profit-forecast/internal/model"
	"profit-forecast/internal/timeline"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "cli",
		Short: "Profit and break-even forecasting",
		Long: `Projects a product's unit economics over a horizon of days and
reports, per day, the break-even value of each lever (stock, price, CPL,
confirmation rate, delivery rate).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, true)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(forecastCmd())
	root.AddCommand(breakevenCmd())
	root.AddCommand(batchCmd())
	return root
}

// input selects where the forecast state comes from: a YAML scenario or a
// MetricsState JSON file. --set edits its schedule on top.
type input struct {
	configPath  string
	metricsPath string
	sets        []string
}

func (in *input) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.configPath, "config", "", "Path to YAML scenario config")
	cmd.Flags().StringVar(&in.metricsPath, "metrics", "", "Path to MetricsState JSON (alternative to --config)")
	cmd.Flags().StringArrayVar(&in.sets, "set", nil, "Schedule an override as lever@day=value (repeatable)")
}

// load returns the state and the run options the scenario asks for.
func (in *input) load() (model.MetricsState, forecast.Options, error) {
	var (
		state model.MetricsState
		opts  forecast.Options
	)
	switch {
	case in.configPath != "" && in.metricsPath != "":
		return model.MetricsState{}, forecast.Options{}, fmt.Errorf("--config and --metrics are mutually exclusive")
	case in.configPath != "":
		cfg, err := config.Load(in.configPath)
		if err != nil {
			return model.MetricsState{}, forecast.Options{}, err
		}
		state, opts = cfg.State(), cfg.Forecast
	case in.metricsPath != "":
		s, err := data.LoadMetricsJSON(in.metricsPath)
		if err != nil {
			return model.MetricsState{}, forecast.Options{}, err
		}
		state = timeline.Normalize(*s)
		opts = forecast.Options{Days: forecast.DefaultDays, Workers: 1}
	default:
		return model.MetricsState{}, forecast.Options{}, fmt.Errorf("--config or --metrics is required")
	}

	for _, set := range in.sets {
		l, c, err := parseSet(set)
		if err != nil {
			return model.MetricsState{}, forecast.Options{}, err
		}
		state = timeline.Schedule(state, l, c)
	}
	return state, opts, nil
}

// parseSet reads lever@day=value.
func parseSet(s string) (model.Lever, model.RateChange, error) {
	name, rest, ok := strings.Cut(s, "@")
	if !ok {
		return "", model.RateChange{}, fmt.Errorf("--set %q: want lever@day=value", s)
	}
	dayStr, valStr, ok := strings.Cut(rest, "=")
	if !ok {
		return "", model.RateChange{}, fmt.Errorf("--set %q: want lever@day=value", s)
	}
	l, err := model.ParseLever(name)
	if err != nil {
		return "", model.RateChange{}, fmt.Errorf("--set %q: %w", s, err)
	}
	day, err := strconv.Atoi(strings.TrimSpace(dayStr))
	if err != nil {
		return "", model.RateChange{}, fmt.Errorf("--set %q: day: %w", s, err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
	if err != nil {
		return "", model.RateChange{}, fmt.Errorf("--set %q: value: %w", s, err)
	}
	return l, model.RateChange{Day: day, Value: value}, nil
}
