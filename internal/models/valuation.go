package models

// FundamentalsSnapshot is a single-ticker point-in-time read of the
// valuation inputs, created fresh per request and never cached. Pointer
// fields are nil when the source has no value; EarningsGrowthRate is always
// populated (defaulted when the source value is absent or non-positive).
type FundamentalsSnapshot struct {
	Symbol             string   `json:"symbol"`
	Price              float64  `json:"price"`
	TrailingPE         *float64 `json:"trailing_pe,omitempty"`
	TrailingEPS        *float64 `json:"trailing_eps,omitempty"`
	DividendRate       *float64 `json:"dividend_rate,omitempty"`
	EarningsGrowthRate float64  `json:"earnings_growth_rate"`
	FreeCashFlow       *float64 `json:"free_cash_flow,omitempty"`
}

// Valuation holds the estimator outputs. A nil field means the input
// required for that model was absent — never zero standing in for failure.
type Valuation struct {
	LynchValue *float64 `json:"lynch_value,omitempty"`
	DDMValue   *float64 `json:"ddm_value,omitempty"`
	DCFValue   *float64 `json:"dcf_value,omitempty"`
}
