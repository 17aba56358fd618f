// Package costmodel turns a unit-economics snapshot into leads, revenue and the
// five cost categories of a cash-on-delivery funnel.
//
// Rates are percentages in [0,100] and are divided by 100 inside every formula.
// All functions are pure and tolerate out-of-domain inputs (negative stock,
// rates above 100) arithmetically; the break-even search relies on that.
package costmodel

import "profit-forecast/internal/model"

// Fixed fees of the funnel.
const (
	LeadHandlingFee   = 0.5  // per lead handled by the call center
	ConfirmationFee   = 1.0  // per confirmed order
	DeliveredOrderFee = 2.0  // per delivered order (call center tier)
	CarrierFee        = 4.99 // per delivered order
	ReturnFee         = 2.99 // per confirmed but undelivered order
	CODFeeRate        = 0.05 // share of delivered revenue
)

// CalculateLeads is the number of leads needed to move stock through the
// funnel. A zero rate divides by zero and yields +Inf or NaN; use SafeLeads
// when the result feeds further arithmetic.
func CalculateLeads(stock, confirmationRate, deliveryRate float64) float64 {
	return stock / ((confirmationRate / 100) * (deliveryRate / 100))
}

// SafeLeads is CalculateLeads with the degenerate cases forced to 0 leads:
// zero stock, or a zero confirmation or delivery rate.
func SafeLeads(stock, confirmationRate, deliveryRate float64) float64 {
	if stock == 0 || confirmationRate == 0 || deliveryRate == 0 {
		return 0
	}
	return CalculateLeads(stock, confirmationRate, deliveryRate)
}

func CalculateRevenue(stock, sellingPrice float64) float64 {
	return stock * sellingPrice
}

func CalculateAdvertisingCosts(leads, cpl float64) float64 {
	return leads * cpl
}

func CalculateStockCosts(stock, purchasePrice float64) float64 {
	return stock * purchasePrice
}

// ConfirmedOrders is leads × confirmationRate%.
func ConfirmedOrders(leads, confirmationRate float64) float64 {
	return leads * (confirmationRate / 100)
}

// DeliveredOrders is confirmed orders × deliveryRate%.
func DeliveredOrders(leads, confirmationRate, deliveryRate float64) float64 {
	return ConfirmedOrders(leads, confirmationRate) * (deliveryRate / 100)
}

// CalculateCallCenterCosts derives the leads from stock and sums the three
// call-center tiers: per lead, per confirmed order, per delivered order.
func CalculateCallCenterCosts(stock, confirmationRate, deliveryRate float64) float64 {
	leads := SafeLeads(stock, confirmationRate, deliveryRate)
	confirmed := ConfirmedOrders(leads, confirmationRate)
	delivered := DeliveredOrders(leads, confirmationRate, deliveryRate)
	return leads*LeadHandlingFee + confirmed*ConfirmationFee + delivered*DeliveredOrderFee
}

func CalculateDeliveryCosts(leads, confirmationRate, deliveryRate float64) float64 {
	return DeliveredOrders(leads, confirmationRate, deliveryRate) * CarrierFee
}

func CalculateReturnCosts(leads, confirmationRate, deliveryRate float64) float64 {
	confirmed := ConfirmedOrders(leads, confirmationRate)
	delivered := DeliveredOrders(leads, confirmationRate, deliveryRate)
	return (confirmed - delivered) * ReturnFee
}

func CalculateCODFees(leads, confirmationRate, deliveryRate, sellingPrice float64) float64 {
	deliveredRevenue := DeliveredOrders(leads, confirmationRate, deliveryRate) * sellingPrice
	return deliveredRevenue * CODFeeRate
}

// Breakdown is every term of the profit equation for one snapshot.
type Breakdown struct {
	Leads       float64 `json:"leads"`
	Revenue     float64 `json:"revenue"`
	Stock       float64 `json:"stockCosts"`
	Advertising float64 `json:"advertisingCosts"`
	Delivery    float64 `json:"deliveryCosts"`
	Returns     float64 `json:"returnCosts"`
	CallCenter  float64 `json:"callCenterCosts"`
	COD         float64 `json:"codFees"`
	TotalCosts  float64 `json:"totalCosts"`
	Profit      float64 `json:"profit"`
}

// Compute evaluates the cost pipeline with an explicit lead count. The
// advertising, delivery, return and COD terms follow leads; revenue, stock and
// call-center costs follow m.AvailableStock.
func Compute(m model.ProfitMetrics, leads float64) Breakdown {
	c, d := m.BaseConfirmationRate, m.BaseDeliveryRate
	b := Breakdown{
		Leads:       leads,
		Revenue:     CalculateRevenue(m.AvailableStock, m.SellingPrice),
		Stock:       CalculateStockCosts(m.AvailableStock, m.PurchasePrice),
		Advertising: CalculateAdvertisingCosts(leads, m.BaseCPL),
		Delivery:    CalculateDeliveryCosts(leads, c, d),
		Returns:     CalculateReturnCosts(leads, c, d),
		CallCenter:  CalculateCallCenterCosts(m.AvailableStock, c, d),
		COD:         CalculateCODFees(leads, c, d, m.SellingPrice),
	}
	b.TotalCosts = b.Stock + b.Advertising + b.Delivery + b.Returns + b.CallCenter + b.COD
	b.Profit = b.Revenue - b.TotalCosts
	return b
}

// ProfitWithLeads is Compute(m, leads).Profit.
func ProfitWithLeads(m model.ProfitMetrics, leads float64) float64 {
	return Compute(m, leads).Profit
}

// Evaluate computes the breakdown with leads derived from the snapshot itself.
func Evaluate(m model.ProfitMetrics) Breakdown {
	return Compute(m, SafeLeads(m.AvailableStock, m.BaseConfirmationRate, m.BaseDeliveryRate))
}

// CalculateTotalProfit is revenue minus the six cost terms, with leads derived
// from the snapshot.
func CalculateTotalProfit(m model.ProfitMetrics) float64 {
	return Evaluate(m).Profit
}
