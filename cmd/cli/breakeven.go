package main

import (
	"errors"
	"fmt"

	"profit-forecast/internal/breakeven"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"

	"github.com/spf13/cobra"
)

func breakevenCmd() *cobra.Command {
	var (
		in    input
		lever string
		day   int
		leads float64
		aware bool
	)
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Search the break-even value of one lever on one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := model.ParseLever(lever)
			if err != nil {
				return err
			}
			if day < 0 {
				return fmt.Errorf("--day must be >= 0")
			}
			state, _, err := in.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			res, err := forecast.New().BreakEven(state, day, l, leads, breakeven.Options{SlopeAware: aware})
			if errors.Is(err, forecast.ErrDegenerate) {
				fmt.Fprintf(out, "day %d is degenerate (%v); no break-even search\n", day, err)
				return nil
			}
			if err != nil {
				return err
			}

			m := forecast.Snapshot(state, day)
			fmt.Fprintf(out, "lever=%s day=%d\n", l, day)
			fmt.Fprintf(out, "snapshot: stock=%.2f price=%.2f cpl=%.2f confirmation=%.2f%% delivery=%.2f%%\n",
				m.AvailableStock, m.SellingPrice, m.BaseCPL, m.BaseConfirmationRate, m.BaseDeliveryRate)
			fmt.Fprintf(out, "break-even=%.5f iterations=%d converged=%t\n", res.Value, res.Iterations, res.Converged)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&lever, "lever", "", "Lever: stock, price, cpl, confirmation, delivery")
	cmd.Flags().IntVar(&day, "day", 0, "Day whose overrides are resolved")
	cmd.Flags().Float64Var(&leads, "leads", 0, "Leads for the search (0 uses the snapshot leads)")
	cmd.Flags().BoolVar(&aware, "slope-aware", false, "Orient the search by the lever's profit slope")
	_ = cmd.MarkFlagRequired("lever")
	return cmd
}
