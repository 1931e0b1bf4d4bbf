package processors

import (
	"sort"
	"time"

	"github.com/username/pfolio/backend/src/models"
)

// Holding is the portfolio view of one security: the open position from the
// aggregator joined with the last known market price.
type Holding struct {
	ISIN           string     `json:"isin_code,omitempty"`
	Name           string     `json:"name"`
	Currency       string     `json:"currency,omitempty"`
	Quantity       float64    `json:"quantity_held"`
	AvgCostBasis   *float64   `json:"average_price,omitempty"`
	InvestedAmount *float64   `json:"invested_amount,omitempty"`
	MarketPrice    *float64   `json:"market_price,omitempty"`
	PriceDate      *time.Time `json:"price_date,omitempty"`
	MarketValue    *float64   `json:"market_value,omitempty"`
	UnrealizedPnL  *float64   `json:"unrealized_pnl,omitempty"`
	RealizedPnL    *float64   `json:"realized_pnl,omitempty"`
}

// BuildPortfolio reports the open positions in the aggregator output. Rows
// must be in chronological order within each security, which Aggregate
// guarantees. Prices are keyed by ISIN; holdings without a price snapshot
// carry no market value.
func BuildPortfolio(rows []models.AggregateRow, prices map[string]models.PricePoint) []Holding {
	type position struct {
		last     models.AggregateRow
		realized *float64
	}
	positions := make(map[string]*position)
	var order []string

	for _, row := range rows {
		key := row.ISIN
		if key == "" {
			key = row.Name
		}
		pos, ok := positions[key]
		if !ok {
			pos = &position{}
			positions[key] = pos
			order = append(order, key)
		}
		pos.last = row
		if row.PnLTotal != nil {
			if pos.realized == nil {
				pos.realized = models.Float(0)
			}
			*pos.realized += *row.PnLTotal
		}
	}

	var holdings []Holding
	for _, key := range order {
		pos := positions[key]
		held := models.FloatVal(pos.last.SumHeld)
		if held <= 0 {
			continue
		}

		h := Holding{
			ISIN:         pos.last.ISIN,
			Name:         pos.last.Name,
			Currency:     pos.last.Currency,
			Quantity:     held,
			AvgCostBasis: clone(pos.last.AvgCostBasis),
			RealizedPnL:  clone(pos.realized),
		}
		if h.AvgCostBasis != nil {
			h.InvestedAmount = models.Float(*h.AvgCostBasis * held)
		}
		if pp, ok := prices[pos.last.ISIN]; ok && pos.last.ISIN != "" {
			date := pp.ReportDate
			h.MarketPrice = models.Float(pp.Price)
			h.PriceDate = &date
			h.MarketValue = models.Float(pp.Price * held)
			if h.AvgCostBasis != nil {
				h.UnrealizedPnL = models.Float((pp.Price - *h.AvgCostBasis) * held)
			}
		}
		holdings = append(holdings, h)
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Name < holdings[j].Name
	})
	return holdings
}
