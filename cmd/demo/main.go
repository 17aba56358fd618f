package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"profit-forecast/internal/config"
	"profit-forecast/internal/costmodel"
	"profit-forecast/internal/forecast"
	"profit-forecast/internal/model"
)

// Demo:
// - Load a scenario config (product preset + overrides)
// - Break the day-0 profit down by cost category
// - Project a few days and print the break-even levels to show how the models fit together
func main() {
	cfgPath := flag.String("config", "examples/config.yaml", "Path to YAML scenario config")
	n := flag.Int("n", 14, "Number of days to print")
	recompute := flag.Bool("recompute", false, "Recompute leads and costs per day")
	slopeAware := flag.Bool("slope-aware", false, "Orient CPL and rate searches by their profit slope")
	outCSV := flag.String("out", "", "Optional path to write the series CSV (e.g. results/demo.csv)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	state := cfg.State()

	m := state.ProfitMetrics
	b := costmodel.Evaluate(m)
	fmt.Printf("Product=%s\n", cfg.Product.Name)
	fmt.Printf("Leads=%.2f confirmed=%.2f delivered=%.2f\n",
		b.Leads,
		costmodel.ConfirmedOrders(b.Leads, m.BaseConfirmationRate),
		costmodel.DeliveredOrders(b.Leads, m.BaseConfirmationRate, m.BaseDeliveryRate))
	fmt.Printf("Revenue=%.2f ads=%.2f stock=%.2f call-center=%.2f delivery=%.2f returns=%.2f cod=%.2f\n",
		b.Revenue, b.Advertising, b.Stock, b.CallCenter, b.Delivery, b.Returns, b.COD)
	fmt.Printf("Profit=%.2f (snapshot profit=%.2f leads=%.2f)\n\n", b.Profit, state.Profit, state.Leads)

	days := *n - 1
	if days < 0 {
		days = 0
	}
	res, err := forecast.New().Run(context.Background(), state, forecast.Options{
		Days:            days,
		RecomputePerDay: *recompute,
		SlopeAware:      *slopeAware,
		Workers:         1,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%4s %8s %6s %5s %5s | %9s %9s %8s %8s %8s  %s\n",
		"day", "price", "cpl", "conf", "deliv", "beStock", "bePrice", "beCPL", "beConf", "beDeliv", "flags")
	for _, p := range res.Points {
		fmt.Printf("%4d %8.2f %6.2f %5.1f %5.1f | %9.2f %9.2f %8.2f %8s %8s  %s\n",
			p.Day,
			p.SellingPrice,
			p.AdvertisingCost,
			p.ConfirmationRate,
			p.DeliveryRate,
			p.BreakEvenStock,
			p.BreakEvenPrice,
			p.BreakEvenCPL,
			optional(p.BreakEvenConfirmationRate),
			optional(p.BreakEvenDeliveryRate),
			flags(p),
		)
	}

	if *outCSV != "" {
		if err := forecast.WriteChartCSV(*outCSV, res.Points); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. %d days, %d degenerate, %d non-converged searches\n",
		len(res.Points), res.DegenerateDays, res.NonConverged)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func flags(p model.ChartDataPoint) string {
	if p.Degenerate {
		return "degenerate"
	}
	if len(p.NonConverged) == 0 {
		return ""
	}
	names := make([]string, len(p.NonConverged))
	for i, l := range p.NonConverged {
		names[i] = string(l)
	}
	return "unconverged:" + strings.Join(names, ",")
}
