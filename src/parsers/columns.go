package parsers

// Canonical column names. Adapters rename broker-specific headers to these
// before building transactions; the generic adapter consumes them as-is.
const (
	ColTransactionDate = "transaction_date"
	ColTransactionType = "transaction_type"
	ColName            = "name"
	ColISIN            = "isin_code"
	ColNoTraded        = "no_traded"
	ColPrice           = "price"
	ColAmount          = "amount"
	ColCommission      = "commission"
	ColCurrency        = "currency"
	ColFXRate          = "fx_rate"
	ColBroker          = "broker"
)

// cleanISIN drops the "-" placeholder some exports use for an empty ISIN.
func cleanISIN(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
