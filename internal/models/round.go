package models

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places using half-up
// decimal rounding rather than binary float rounding.
func Round2(v float64) float64 {
	out, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return out
}
