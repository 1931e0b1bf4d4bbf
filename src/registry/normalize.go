package registry

import (
	"math"

	"github.com/username/pfolio/backend/src/models"
)

// replaceConfig maps the labels brokers use for a transaction kind to the
// canonical type.
type replaceConfig struct {
	search []string
	target models.TransactionType
}

var replaceConfigs = []replaceConfig{
	{search: []string{"Köp", "Switch buy", "Buy"}, target: models.TypeBuy},
	{search: []string{"Sälj", "Switch sell", "Sell"}, target: models.TypeSell},
	{search: []string{"Ränta", "Räntor"}, target: models.TypeInterest},
	{search: []string{"Preliminärskatt"}, target: models.TypeTax},
	{search: []string{"Utdelning"}, target: models.TypeDividend},
	{search: []string{"Fee", "Plattformsavgift"}, target: models.TypeFee},
	{search: []string{"Deposit", "Insättning"}, target: models.TypeDeposit},
	{search: []string{"Withdrawal", "Uttag"}, target: models.TypeWithdraw},
}

// mapTransactionType translates a broker label to the canonical enum.
// Labels that are already canonical (adapter overrides emit those) pass
// through; anything unrecognized is dropped by the caller.
func mapTransactionType(raw string) (models.TransactionType, bool) {
	for _, config := range replaceConfigs {
		for _, label := range config.search {
			if raw == label {
				return config.target, true
			}
		}
	}
	if t := models.TransactionType(raw); t.Valid() {
		return t, true
	}
	return "", false
}

// normalizeNoTraded makes traded volume positive for inflows to the holder
// (buys, dividend units) and negative otherwise.
func normalizeNoTraded(tx *models.Transaction) {
	if tx.NoTraded == nil {
		return
	}
	switch tx.TransactionType {
	case models.TypeBuy, models.TypeDividend:
		// Keep as reported.
	default:
		v := -math.Abs(*tx.NoTraded)
		tx.NoTraded = &v
	}
}

// normalizeAmount recomputes the amount from volume and price where both are
// known, then forces the sign convention: cash outflows (buy, tax, fee) are
// negative, everything else positive. Cashback and fee rows keep the
// reported magnitude because they carry no volume or price.
func normalizeAmount(tx *models.Transaction) {
	amount := tx.Amount
	switch tx.TransactionType {
	case models.TypeCashback, models.TypeFee:
		// Keep as given.
	default:
		if tx.NoTraded != nil && tx.Price != nil {
			amount = models.Float(*tx.NoTraded * *tx.Price)
		}
	}
	if amount == nil {
		tx.Amount = nil
		return
	}

	var v float64
	switch tx.TransactionType {
	case models.TypeBuy, models.TypeTax, models.TypeFee:
		v = -math.Abs(*amount)
	default:
		v = math.Abs(*amount)
	}
	tx.Amount = &v
}

// normalizeFX defaults the FX rate to 1.0 when absent or not finite.
func normalizeFX(tx *models.Transaction) {
	if tx.FXRate == nil || math.IsNaN(*tx.FXRate) || math.IsInf(*tx.FXRate, 0) || *tx.FXRate <= 0 {
		tx.FXRate = models.Float(1.0)
	}
}

// normalizeCommission enforces the convention that commission is a cost and
// therefore negative. Some exports report positive magnitudes.
func normalizeCommission(tx *models.Transaction) {
	if tx.Commission == nil {
		return
	}
	if *tx.Commission > 0 {
		v := -*tx.Commission
		tx.Commission = &v
	}
}

// calculateCashFlowNominal derives amount + commission, commission
// defaulting to zero.
func calculateCashFlowNominal(tx *models.Transaction) {
	if tx.Amount == nil {
		return
	}
	tx.CashFlowNominal = models.Float(*tx.Amount + models.FloatVal(tx.Commission))
}
