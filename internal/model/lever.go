package model

import (
	"fmt"
	"strings"
)

// Lever names one economic input whose break-even value can be searched for.
// Keep these values stable; they are used in CSV headers, API payloads and CLI flags.
type Lever string

const (
	LeverPrice        Lever = "price"
	LeverCPL          Lever = "cpl"
	LeverStock        Lever = "stock"
	LeverConfirmation Lever = "confirmation"
	LeverDelivery     Lever = "delivery"
)

// Levers lists every lever in the order the series generator evaluates them.
var Levers = []Lever{LeverStock, LeverPrice, LeverCPL, LeverConfirmation, LeverDelivery}

func ParseLever(s string) (Lever, error) {
	l := Lever(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LeverPrice, LeverCPL, LeverStock, LeverConfirmation, LeverDelivery:
		return l, nil
	}
	return "", fmt.Errorf("unknown lever %q", s)
}

// IsRate reports whether the lever is a funnel percentage bounded to [0,100].
func (l Lever) IsRate() bool {
	return l == LeverConfirmation || l == LeverDelivery
}
