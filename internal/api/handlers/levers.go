package handlers

import (
	"net/http"

	"profit-forecast/internal/api/models"

	"github.com/gin-gonic/gin"
)

var leverInfo = []models.LeverInfo{
	{
		Name:        "stock",
		Field:       "availableStock",
		Overrides:   "stockChanges",
		Unit:        "units",
		Description: "Units available to sell. Break-even is the smallest stock that covers the fixed lead-driven costs.",
	},
	{
		Name:        "price",
		Field:       "sellingPrice",
		Overrides:   "priceChanges",
		Unit:        "currency",
		Description: "Selling price per unit. Break-even is the lowest price with non-negative profit.",
	},
	{
		Name:        "cpl",
		Field:       "baseCPL",
		Overrides:   "advertisingChanges",
		Unit:        "currency per lead",
		Description: "Advertising cost per lead. Break-even is the highest CPL the margin can absorb.",
	},
	{
		Name:        "confirmation",
		Field:       "baseConfirmationRate",
		Overrides:   "confirmationChanges",
		Unit:        "percent",
		Description: "Share of leads confirmed by the call center, searched in [0, 100].",
	},
	{
		Name:        "delivery",
		Field:       "baseDeliveryRate",
		Overrides:   "deliveryChanges",
		Unit:        "percent",
		Description: "Share of confirmed orders delivered, searched in [0, 100].",
	},
}

// ListLevers handles GET /api/v1/levers
func ListLevers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levers": leverInfo})
}
