package models

// LedgerAccount enumerates the chart of accounts. Accounts prefixed "is_"
// belong to the income statement.
type LedgerAccount string

const (
	AccountCash       LedgerAccount = "cash"
	AccountEquity     LedgerAccount = "equity"
	AccountSecurities LedgerAccount = "securities"
	AccountISPnL      LedgerAccount = "is_trading"
	AccountISCashback LedgerAccount = "is_cashback"
	AccountISDividend LedgerAccount = "is_dividends"
	AccountISInterest LedgerAccount = "is_interest"
	AccountISFee      LedgerAccount = "is_costs_fee"
	AccountISTax      LedgerAccount = "is_costs_tax"
)

// IsIncomeStatement reports whether the account is an income-statement
// account.
func (a LedgerAccount) IsIncomeStatement() bool {
	return len(a) > 3 && a[:3] == "is_"
}

// LedgerEntry is a single debit or credit leg of the general ledger. A leg
// starts as a copy of the aggregate row it was expanded from; fields that
// would double-count across legs are cleared by the expander.
type LedgerEntry struct {
	AggregateRow

	Account LedgerAccount `json:"ledger_account"`
	Debit   *float64      `json:"debit,omitempty"`
	Credit  *float64      `json:"credit,omitempty"`

	// TransactionTypeInternal survives on every leg even when the leg's
	// visible transaction type is cleared. Used for sorting and debugging.
	TransactionTypeInternal TransactionType `json:"transaction_type_internal"`
}
