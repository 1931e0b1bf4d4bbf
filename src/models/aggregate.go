package models

// AggregateRow is the per-transaction output of the per-security aggregator.
// It carries the input transaction plus every running state variable as it
// stood at the end of the row.
type AggregateRow struct {
	Transaction

	// Running position state. All nil when the security is fully divested.
	SumHeld           *float64 `json:"sum_held,omitempty"`
	AvgCostBasis      *float64 `json:"avg_cost_basis,omitempty"`
	CostBasisDelta    *float64 `json:"cost_basis_delta,omitempty"`
	SumCostBasisDelta *float64 `json:"sum_cost_basis_delta,omitempty"`
	CFExCommission    *float64 `json:"cf_ex_commission,omitempty"`

	// Transaction cash flow in nominal and base currency.
	CashFlow     *float64 `json:"cash_flow,omitempty"`
	CashFlowBase *float64 `json:"cash_flow_base,omitempty"`

	// Realized PnL attribution.
	PnLTotal      *float64 `json:"pnl_total,omitempty"`
	PnLPrice      *float64 `json:"pnl_price,omitempty"`
	PnLCommission *float64 `json:"pnl_commission,omitempty"`
	PnLInterest   *float64 `json:"pnl_interest,omitempty"`
	PnLDividend   *float64 `json:"pnl_dividend,omitempty"`
}
