package processors

import (
	"sort"

	"github.com/username/pfolio/backend/src/models"
)

// pnlAccountByType maps a transaction kind to the income-statement account
// its realized PnL is booked against.
var pnlAccountByType = map[models.TransactionType]models.LedgerAccount{
	models.TypeSell:      models.AccountISPnL,
	models.TypeFee:       models.AccountISFee,
	models.TypeFeeCredit: models.AccountISFee,
	models.TypeTax:       models.AccountISTax,
	models.TypeDividend:  models.AccountISDividend,
	models.TypeCashback:  models.AccountISCashback,
	models.TypeInterest:  models.AccountISInterest,
}

// LedgerExpander expands each aggregated transaction into balanced debit and
// credit legs against the chart of accounts. Legs begin as copies of the
// source row; every leg template names the fields it blanks so that summing
// any column across legs counts the economic total exactly once.
type LedgerExpander struct{}

func NewLedgerExpander() *LedgerExpander {
	return &LedgerExpander{}
}

// Expand returns the general ledger for the given aggregator output, sorted
// by transaction date and then by transaction type.
func (l *LedgerExpander) Expand(rows []models.AggregateRow) []models.LedgerEntry {
	var entries []models.LedgerEntry
	for _, row := range rows {
		b := newLegBuilder(row)

		switch row.TransactionType {
		case models.TypeBuy:
			b.buy()
		case models.TypeDeposit:
			b.deposit()
		case models.TypeWithdraw:
			b.withdraw()
		case models.TypeFee, models.TypeTax:
			b.feeTax().pnlEquity()
		case models.TypeSell:
			b.sell().pnlEquity()
		case models.TypeFeeCredit:
			b.feeCredit().pnlEquity()
		case models.TypeDividend:
			b.dividend().pnlEquity()
		case models.TypeInterest, models.TypeCashback:
			b.deposit().pnlEquity()
		}

		entries = append(entries, b.credits...)
		entries = append(entries, b.debits...)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].TransactionDate.Equal(entries[j].TransactionDate) {
			return entries[i].TransactionDate.Before(entries[j].TransactionDate)
		}
		return entries[i].TransactionTypeInternal < entries[j].TransactionTypeInternal
	})
	return entries
}

type legBuilder struct {
	row          models.AggregateRow
	txType       models.TransactionType
	amount       float64
	amountLocal  float64
	profitLoss   *float64
	profitLossEq *float64

	credits []models.LedgerEntry
	debits  []models.LedgerEntry
}

func newLegBuilder(row models.AggregateRow) *legBuilder {
	return &legBuilder{
		row:          row,
		txType:       row.TransactionType,
		amount:       models.FloatVal(row.Amount),
		amountLocal:  models.FloatVal(row.CashFlowBase),
		profitLoss:   row.PnLTotal,
		profitLossEq: row.PnLPrice,
	}
}

// newLeg copies the source row into a leg for the given account.
func (b *legBuilder) newLeg(account models.LedgerAccount) models.LedgerEntry {
	return models.LedgerEntry{
		AggregateRow:            b.row,
		Account:                 account,
		TransactionTypeInternal: b.txType,
	}
}

func (b *legBuilder) buy() *legBuilder {
	credit := b.newLeg(models.AccountCash)
	// Amount is negative in the row data due to being a cash outflow.
	credit.Credit = models.Float(-b.amountLocal)
	credit.PnLPrice = nil

	debit := b.newLeg(models.AccountSecurities)
	debit.Debit = models.Float(-b.amount)
	debit.Amount = nil
	debit.AvgCostBasis = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.SumHeld = nil
	debit.Price = nil
	debit.PnLTotal = nil
	debit.PnLPrice = nil
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

func (b *legBuilder) deposit() *legBuilder {
	credit := b.newLeg(models.AccountEquity)
	credit.Credit = models.Float(b.amount)

	debit := b.newLeg(models.AccountCash)
	debit.Debit = models.Float(b.amount)
	debit.Amount = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.PnLTotal = nil
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

// withdraw mirrors deposit: cash leaves the account and equity shrinks.
func (b *legBuilder) withdraw() *legBuilder {
	credit := b.newLeg(models.AccountCash)
	credit.Credit = models.Float(b.amount)

	debit := b.newLeg(models.AccountEquity)
	debit.Debit = models.Float(b.amount)
	debit.Amount = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.PnLTotal = nil
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

func (b *legBuilder) dividend() *legBuilder {
	credit := b.newLeg(models.AccountEquity)
	credit.Credit = models.Float(b.amount)
	credit.NoTraded = nil
	credit.PnLTotal = nil

	debit := b.newLeg(models.AccountCash)
	debit.Debit = models.Float(b.amount)
	debit.Amount = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.PnLTotal = models.Float(b.amount)
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

func (b *legBuilder) feeTax() *legBuilder {
	credit := b.newLeg(models.AccountCash)
	// Amount is negative for costs; the cash credit is its magnitude.
	credit.Credit = models.Float(-b.amount)

	debit := b.newLeg(models.AccountEquity)
	debit.Debit = models.Float(-b.amount)
	debit.Amount = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.PnLTotal = nil
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

func (b *legBuilder) feeCredit() *legBuilder {
	credit := b.newLeg(models.AccountEquity)
	credit.Credit = models.Float(b.amount)

	debit := b.newLeg(models.AccountCash)
	debit.Debit = models.Float(b.amount)
	debit.Amount = nil
	debit.Commission = nil
	debit.NoTraded = nil
	debit.PnLTotal = nil
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

func (b *legBuilder) sell() *legBuilder {
	// Reduce the securities account by the nominal amount; securities are
	// not marked to market.
	credit := b.newLeg(models.AccountSecurities)
	credit.Credit = models.Float(b.amount)
	credit.Amount = nil
	credit.NoTraded = nil
	credit.Price = nil
	credit.PnLTotal = nil
	credit.PnLPrice = nil

	// Cash increases by the full proceeds; the realized PnL rides on this
	// leg for reporting.
	debit := b.newLeg(models.AccountCash)
	debit.Debit = models.Float(b.amountLocal)
	debit.Commission = nil
	debit.SumHeld = nil
	debit.PnLTotal = clone(b.profitLoss)
	debit.PnLPrice = clone(b.profitLossEq)
	debit.TransactionType = ""

	b.credits = append(b.credits, credit)
	b.debits = append(b.debits, debit)
	return b
}

// pnlEquity books realized PnL against its income-statement account: a
// credit for a gain, a debit for a loss. Sells additionally mirror the leg
// against equity.
func (b *legBuilder) pnlEquity() *legBuilder {
	if b.profitLoss == nil || *b.profitLoss == 0 {
		return b
	}
	pnl := *b.profitLoss

	accounts := []models.LedgerAccount{pnlAccountByType[b.txType]}
	if b.txType == models.TypeSell {
		accounts = append(accounts, models.AccountEquity)
	}

	for _, account := range accounts {
		leg := b.newLeg(account)
		leg.Amount = nil
		leg.AvgCostBasis = nil
		leg.Commission = nil
		leg.NoTraded = nil
		leg.SumHeld = nil
		leg.Price = nil
		leg.PnLTotal = nil
		leg.PnLPrice = nil
		leg.TransactionType = ""

		if pnl > 0 {
			leg.Credit = models.Float(pnl)
			b.credits = append(b.credits, leg)
		} else {
			leg.Debit = models.Float(-pnl)
			b.debits = append(b.debits, leg)
		}
	}
	return b
}
