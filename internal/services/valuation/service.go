// Package valuation computes fair-value estimates from a single
// fundamentals snapshot. Pure computation: no caching, no I/O.
package valuation

import (
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Fixed model assumptions.
const (
	DiscountRate = 0.08
	GrowthRate   = 0.05
	// LynchMultiplier is the classic fair-value P/E*growth factor.
	LynchMultiplier = 22.5
	// DCFPeriods is the projection horizon for the discounted-cash-flow model.
	DCFPeriods = 5
)

// Compile-time interface check
var _ interfaces.ValuationService = (*Service)(nil)

// Service implements ValuationService.
type Service struct{}

// NewService creates a new valuation service.
func NewService() *Service {
	return &Service{}
}

// Estimate computes the three valuation models over the snapshot. Absent
// inputs yield absent outputs — never zero standing in for a value.
func (s *Service) Estimate(snapshot *models.FundamentalsSnapshot) *models.Valuation {
	v := &models.Valuation{}
	if snapshot == nil {
		return v
	}

	growth := snapshot.EarningsGrowthRate
	if growth <= 0 {
		growth = GrowthRate
	}

	if snapshot.TrailingEPS != nil && *snapshot.TrailingEPS > 0 {
		lynch := models.Round2(*snapshot.TrailingEPS * growth * LynchMultiplier)
		v.LynchValue = &lynch
	}

	// The guard stays even though the fixed constants satisfy it: the
	// model must not divide by a zero or negative spread if they change.
	if snapshot.DividendRate != nil && DiscountRate > GrowthRate {
		ddm := models.Round2(*snapshot.DividendRate / (DiscountRate - GrowthRate))
		v.DDMValue = &ddm
	}

	if snapshot.FreeCashFlow != nil && *snapshot.FreeCashFlow > 0 {
		dcf := models.Round2(discountedCashFlow(*snapshot.FreeCashFlow))
		v.DCFValue = &dcf
	}

	return v
}

// discountedCashFlow projects free cash flow forward DCFPeriods at the
// fixed growth rate, discounts each period at the discount rate, and adds
// a terminal value discounted back over the full horizon.
func discountedCashFlow(freeCashFlow float64) float64 {
	total := 0.0
	projected := freeCashFlow
	discount := 1.0
	for t := 0; t < DCFPeriods; t++ {
		projected *= 1 + GrowthRate
		discount *= 1 + DiscountRate
		total += projected / discount
	}

	terminal := projected * (1 + GrowthRate) / (DiscountRate - GrowthRate)
	total += terminal / discount

	return total
}
