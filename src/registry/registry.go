package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
	"github.com/username/pfolio/backend/src/parsers"
	"github.com/username/pfolio/backend/src/utils"
)

// ErrNaiveReportDate is returned when a report date filter carries no time
// zone information. Transaction dates are zone-aware, so a naive filter
// would compare apples to oranges.
var ErrNaiveReportDate = errors.New("report_date argument must be time zone aware")

// Registry merges all adapter outputs into a single normalized,
// chronologically ordered transaction registry. It is the basis for all
// other calculations.
type Registry struct {
	loc      *time.Location
	adapters []parsers.Adapter
	rows     []models.Transaction
}

func New(loc *time.Location, adapters ...parsers.Adapter) *Registry {
	return &Registry{loc: loc, adapters: adapters}
}

// BuildOptions controls a registry build.
type BuildOptions struct {
	// ReportDate drops rows strictly after the given instant. Must be time
	// zone aware.
	ReportDate *time.Time
	// SortDescending reverses the default ascending date order.
	SortDescending bool
}

// Build loads and concatenates all adapter outputs, normalizes them and
// returns the registry rows. Each build starts from scratch; no partial
// state survives a failed or cancelled build.
func (r *Registry) Build(ctx context.Context, opts BuildOptions) ([]models.Transaction, error) {
	if opts.ReportDate != nil {
		if name, _ := opts.ReportDate.Zone(); name == "" {
			return nil, ErrNaiveReportDate
		}
	}

	var all []models.Transaction
	for _, adapter := range r.adapters {
		rows, err := adapter.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: %w", adapter.Broker(), err)
		}
		all = append(all, rows...)
	}

	rows := make([]models.Transaction, 0, len(all))
	for _, tx := range all {
		txType, ok := mapTransactionType(tx.RawType)
		if !ok {
			continue
		}
		tx.TransactionType = txType
		tx.TransactionDate = utils.NormalizeToLocation(tx.TransactionDate, r.loc)

		normalizeNoTraded(&tx)
		normalizeAmount(&tx)
		normalizeFX(&tx)
		normalizeCommission(&tx)
		calculateCashFlowNominal(&tx)

		if tx.ISIN == "" && (tx.TransactionType == models.TypeBuy || tx.TransactionType == models.TypeSell) {
			logger.L.Error("Trade row without ISIN", "name", tx.Name, "broker", tx.Broker, "date", tx.TransactionDate)
		}

		rows = append(rows, tx)
	}

	if opts.ReportDate != nil {
		filtered := rows[:0]
		for _, tx := range rows {
			if !tx.TransactionDate.After(*opts.ReportDate) {
				filtered = append(filtered, tx)
			}
		}
		rows = filtered
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if opts.SortDescending {
			return rows[i].TransactionDate.After(rows[j].TransactionDate)
		}
		return rows[i].TransactionDate.Before(rows[j].TransactionDate)
	})

	r.rows = rows
	return rows, nil
}

// Get returns the rows from the most recent build.
func (r *Registry) Get() []models.Transaction {
	return r.rows
}
