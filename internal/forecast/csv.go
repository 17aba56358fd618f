package forecast

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"profit-forecast/internal/model"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{
	"day",
	"available_stock",
	"selling_price",
	"advertising_cost",
	"confirmation_rate",
	"delivery_rate",
	"expected_leads",
	"profit",
	"call_center_cost",
	"total_expenses",
	"break_even_stock",
	"break_even_price",
	"break_even_cpl",
	"break_even_confirmation_rate",
	"break_even_delivery_rate",
	"degenerate",
	"non_converged",
}

func WriteChartCSV(path string, points []model.ChartDataPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return writeAndClose(f, points)
}

func writeAndClose(f io.WriteCloser, points []model.ChartDataPoint) (err error) {
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteChart(f, points)
}

// WriteChart writes points as CSV. Money columns are fixed to 2 decimals.
func WriteChart(out io.Writer, points []model.ChartDataPoint) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		levers := make([]string, len(p.NonConverged))
		for i, l := range p.NonConverged {
			levers[i] = string(l)
		}
		row := []string{
			strconv.Itoa(p.Day),
			fmtFloat(p.AvailableStock),
			fmtMoney(p.SellingPrice),
			fmtMoney(p.AdvertisingCost),
			fmtFloat(p.ConfirmationRate),
			fmtFloat(p.DeliveryRate),
			fmtFloat(p.ExpectedLeads),
			fmtMoney(p.Profit),
			fmtMoney(p.CallCenterCost),
			fmtMoney(p.TotalExpenses),
			fmtFloat(p.BreakEvenStock),
			fmtMoney(p.BreakEvenPrice),
			fmtMoney(p.BreakEvenCPL),
			fmtOptional(p.BreakEvenConfirmationRate),
			fmtOptional(p.BreakEvenDeliveryRate),
			strconv.FormatBool(p.Degenerate),
			strings.Join(levers, "|"),
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

func fmtMoney(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmtFloat(x)
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}

func fmtOptional(x *float64) string {
	if x == nil {
		return ""
	}
	return fmtFloat(*x)
}
