package processors

import (
	"sort"
	"strings"

	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
	"github.com/username/pfolio/backend/src/utils"
)

// Aggregator walks each security's transactions in chronological order and
// derives running cost basis, held quantity, realized PnL attribution and
// cash flows. Aggregation is a pure function of the input rows; it never
// fails for well-typed input and encodes uncertainty as absent fields.
type Aggregator struct {
	// debugName, when set, restricts aggregation to securities whose name
	// contains the string.
	debugName string
}

func NewAggregator(debugName string) *Aggregator {
	return &Aggregator{debugName: debugName}
}

// Aggregate groups the registry rows by security, walks every group and
// returns the merged result sorted by transaction date. Rows for one
// security keep their chronological order in the merge.
func (a *Aggregator) Aggregate(txs []models.Transaction) []models.AggregateRow {
	groups := make(map[string][]models.Transaction)
	var order []string
	for _, tx := range txs {
		if _, seen := groups[tx.Name]; !seen {
			order = append(order, tx.Name)
		}
		groups[tx.Name] = append(groups[tx.Name], tx)
	}

	var out []models.AggregateRow
	for _, name := range order {
		if a.debugName != "" && !strings.Contains(name, a.debugName) {
			continue
		}
		walker := &securityWalk{}
		for _, tx := range groups[name] {
			walker.processRow(tx)
		}
		out = append(out, walker.rows...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.Before(out[j].TransactionDate)
	})
	return out
}

// securityWalk is the running state for one security. Fields persist from
// row to row; a nil value means "no position" or "not yet observed", which
// is distinct from zero.
type securityWalk struct {
	// Per-row input, refreshed by setBaseData.
	amount     *float64
	noTraded   *float64
	price      *float64
	commission *float64
	fxRate     float64

	// Position state.
	sumHeld           *float64
	sumCostBasisDelta *float64
	avgCostBasis      *float64
	costBasisDelta    *float64
	cfExCommission    *float64

	// Cash flow of the latest flow-bearing transaction.
	cashFlow     *float64
	cashFlowBase *float64

	// Realized PnL attribution.
	pnlTotal      *float64
	pnlPrice      *float64
	pnlCommission *float64
	pnlInterest   *float64
	pnlDividend   *float64

	rows []models.AggregateRow
}

func (s *securityWalk) processRow(tx models.Transaction) {
	s.setBaseData(tx)

	switch tx.TransactionType {
	case models.TypeInterest:
		s.handleInterest()
	case models.TypeDividend:
		s.handleDividend()
	case models.TypeBuy:
		s.handleBuy()
	case models.TypeSell:
		s.handleSell(tx)
	}

	s.calculateTotalPnL()
	s.emit(tx)
}

// setBaseData refreshes per-row fields. A reported zero volume or price is
// treated as absent.
func (s *securityWalk) setBaseData(tx models.Transaction) {
	s.amount = tx.Amount
	s.commission = tx.Commission
	s.fxRate = models.FloatVal(tx.FXRate)
	if s.fxRate == 0 {
		s.fxRate = 1.0
	}

	s.price = nil
	if tx.Price != nil && *tx.Price != 0 {
		s.price = tx.Price
	}
	s.noTraded = nil
	if tx.NoTraded != nil && *tx.NoTraded != 0 {
		s.noTraded = tx.NoTraded
	}
}

func (s *securityWalk) handleInterest() {
	if s.pnlInterest == nil {
		s.pnlInterest = models.Float(0)
	}
	if s.amount != nil && *s.amount != 0 {
		*s.pnlInterest += *s.amount
		s.cashFlow = models.Float(*s.amount)
		s.cashFlowBase = models.Float(*s.cashFlow * s.fxRate)
	}
}

func (s *securityWalk) handleDividend() {
	if s.pnlDividend == nil {
		s.pnlDividend = models.Float(0)
	}
	if s.amount != nil && *s.amount != 0 {
		*s.pnlDividend += *s.amount
		s.cashFlow = models.Float(*s.amount)
		s.cashFlowBase = models.Float(*s.cashFlow * s.fxRate)
	}
}

func (s *securityWalk) handleBuy() {
	// Price, dividend and interest PnL are not attributable to a buy.
	s.pnlPrice = nil
	s.pnlDividend = nil
	s.pnlInterest = nil

	if s.sumHeld == nil {
		s.sumHeld = models.Float(0)
	}
	if s.cfExCommission == nil {
		s.cfExCommission = models.Float(0)
	}
	if s.costBasisDelta == nil {
		s.costBasisDelta = models.Float(0)
	}
	if s.sumCostBasisDelta == nil {
		s.sumCostBasisDelta = models.Float(0)
	}

	if s.noTraded == nil || s.price == nil {
		return
	}

	cashFlow := -(*s.noTraded * *s.price)
	if s.commission != nil && *s.commission != 0 {
		cashFlow += *s.commission
	}
	s.cashFlow = models.Float(cashFlow)
	s.cashFlowBase = models.Float(cashFlow * s.fxRate)

	*s.sumHeld += *s.noTraded
	// Commission is excluded from the cost basis but included in cash flow.
	s.cfExCommission = models.Float(-(*s.noTraded * *s.price))
	s.costBasisDelta = models.Float(*s.cfExCommission)
	*s.sumCostBasisDelta += *s.costBasisDelta
	s.avgCostBasis = divideCostBasis(*s.sumCostBasisDelta, *s.sumHeld)
}

func (s *securityWalk) handleSell(tx models.Transaction) {
	if s.avgCostBasis == nil || s.sumCostBasisDelta == nil || s.sumHeld == nil ||
		s.noTraded == nil || s.price == nil {
		logger.L.Debug("Sell without an open position", "name", tx.Name, "date", tx.TransactionDate)
		return
	}

	cashFlow := -(*s.noTraded * *s.price)
	if s.commission != nil && *s.commission != 0 {
		cashFlow += *s.commission
	}
	s.cashFlow = models.Float(cashFlow)
	s.cashFlowBase = models.Float(cashFlow * s.fxRate)

	*s.sumHeld += *s.noTraded
	s.pnlPrice = models.Float((*s.price - *s.avgCostBasis) * *s.noTraded * -1)
	s.cfExCommission = models.Float(*s.price * *s.noTraded * -1)

	// Everything has been sold; the cost basis resets.
	if utils.RoundFloat(*s.sumHeld, 0) <= 0 {
		s.costBasisDelta = nil
		s.sumCostBasisDelta = nil
		s.avgCostBasis = nil
		s.sumHeld = nil
		return
	}

	s.costBasisDelta = models.Float(*s.avgCostBasis * *s.noTraded * -1)
	*s.sumCostBasisDelta += *s.costBasisDelta
	s.avgCostBasis = divideCostBasis(*s.sumCostBasisDelta, *s.sumHeld)
}

func (s *securityWalk) calculateTotalPnL() {
	pnl := 0.0
	for _, part := range []*float64{s.pnlInterest, s.pnlCommission, s.pnlDividend, s.pnlPrice} {
		if part != nil {
			pnl += *part
		}
	}
	if pnl == 0.0 {
		s.pnlTotal = nil
		return
	}
	s.pnlTotal = models.Float(pnl)
}

func (s *securityWalk) emit(tx models.Transaction) {
	tx.NoTraded = clone(s.noTraded)
	tx.Price = clone(s.price)
	tx.Amount = clone(s.amount)
	tx.Commission = clone(s.commission)

	s.rows = append(s.rows, models.AggregateRow{
		Transaction:       tx,
		SumHeld:           clone(s.sumHeld),
		AvgCostBasis:      clone(s.avgCostBasis),
		CostBasisDelta:    clone(s.costBasisDelta),
		SumCostBasisDelta: clone(s.sumCostBasisDelta),
		CFExCommission:    clone(s.cfExCommission),
		CashFlow:          clone(s.cashFlow),
		CashFlowBase:      clone(s.cashFlowBase),
		PnLTotal:          clone(s.pnlTotal),
		PnLPrice:          clone(s.pnlPrice),
		PnLCommission:     clone(s.pnlCommission),
		PnLInterest:       clone(s.pnlInterest),
		PnLDividend:       clone(s.pnlDividend),
	})
}

// divideCostBasis computes -sumCostBasisDelta / sumHeld, yielding nil when
// the denominator is indistinguishable from zero.
func divideCostBasis(sumCostBasisDelta, sumHeld float64) *float64 {
	if utils.IsCloseToZero(sumHeld) {
		return nil
	}
	return models.Float(sumCostBasisDelta / sumHeld * -1)
}

func clone(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
