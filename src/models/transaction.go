package models

import "time"

// TransactionType enumerates the canonical transaction kinds. Source labels
// are translated to these values before any calculation takes place.
type TransactionType string

const (
	TypeBuy       TransactionType = "buy"
	TypeCashback  TransactionType = "cashback"
	TypeDeposit   TransactionType = "deposit"
	TypeDividend  TransactionType = "dividend"
	TypeFee       TransactionType = "fee"
	TypeFeeCredit TransactionType = "fee_credit"
	TypeInterest  TransactionType = "interest"
	TypeSell      TransactionType = "sell"
	TypeTax       TransactionType = "tax"
	TypeWithdraw  TransactionType = "withdraw"
)

// AllTransactionTypes lists every recognized transaction type. Rows whose
// type is not in this list are dropped by the registry.
var AllTransactionTypes = []TransactionType{
	TypeBuy,
	TypeCashback,
	TypeDeposit,
	TypeDividend,
	TypeFee,
	TypeFeeCredit,
	TypeInterest,
	TypeSell,
	TypeTax,
	TypeWithdraw,
}

func (t TransactionType) Valid() bool {
	for _, known := range AllTransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Transaction is the canonical representation of a single row from a broker
// export. Adapters populate the source fields; the registry normalizes types,
// signs and derived values.
//
// Optional numeric fields use pointers: nil means the source did not carry the
// value, which is distinct from 0.0.
type Transaction struct {
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionType TransactionType `json:"transaction_type"`
	// RawType holds the broker's label before normalization, e.g. "Köp".
	RawType    string   `json:"-"`
	Name       string   `json:"name"`
	ISIN       string   `json:"isin_code,omitempty"`
	NoTraded   *float64 `json:"no_traded,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Commission *float64 `json:"commission,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	FXRate     *float64 `json:"fx_rate,omitempty"`
	Broker     string   `json:"broker"`
	SourceFile string   `json:"source_file"`

	// CashFlowNominal is amount + commission, commission defaulting to 0.
	// Filled by the registry.
	CashFlowNominal *float64 `json:"cash_flow_nominal,omitempty"`
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// FloatVal dereferences p, returning 0 when p is nil.
func FloatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
