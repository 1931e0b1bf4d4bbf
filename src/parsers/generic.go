package parsers

import (
	"context"
	"time"

	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
)

// GenericAdapter loads hand-maintained exports that already use the
// canonical column names. Used for brokers without a dedicated adapter,
// e.g. SAVR.
type GenericAdapter struct {
	dir        string
	nameToISIN map[string]string
}

func NewGenericAdapter(dir string, nameToISIN map[string]string) *GenericAdapter {
	return &GenericAdapter{dir: dir, nameToISIN: nameToISIN}
}

func (a *GenericAdapter) Broker() string { return "Generic" }

func (a *GenericAdapter) Load(ctx context.Context) ([]models.Transaction, error) {
	files, err := readSourceFiles(ctx, a.dir, "other*.csv", ';', nil)
	if err != nil {
		return nil, err
	}

	unresolved := map[string]bool{}

	var txs []models.Transaction
	for _, file := range files {
		rr := newRowReader(file.Header, nil)
		if err := requireColumns("generic", rr, ColTransactionDate, ColTransactionType, ColName, ColAmount); err != nil {
			return nil, err
		}
		if !rr.has(ColISIN) {
			logger.L.Warn("Source file has no isin_code column", "adapter", "generic", "file", file.Path)
		}

		for _, rec := range file.Rows {
			dateStr := rr.get(rec, ColTransactionDate)
			if dateStr == "" {
				continue
			}
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return nil, &DataError{Adapter: "generic", Column: ColTransactionDate, Value: dateStr, Err: err}
			}

			noTraded, err := CleanupNumber("generic", ColNoTraded, rr.get(rec, ColNoTraded))
			if err != nil {
				return nil, err
			}
			price, err := CleanupNumber("generic", ColPrice, rr.get(rec, ColPrice))
			if err != nil {
				return nil, err
			}
			amount, err := CleanupNumber("generic", ColAmount, rr.get(rec, ColAmount))
			if err != nil {
				return nil, err
			}
			commission, err := CleanupNumber("generic", ColCommission, rr.get(rec, ColCommission))
			if err != nil {
				return nil, err
			}
			fxRate, err := CleanupNumber("generic", ColFXRate, rr.get(rec, ColFXRate))
			if err != nil {
				return nil, err
			}

			rawType := rr.get(rec, ColTransactionType)
			broker := rr.get(rec, ColBroker)
			name := rr.get(rec, ColName)
			if rawType == "Plattformsavgift" && broker == "SAVR" {
				name = "SAVR management fee"
			}

			isin := cleanISIN(rr.get(rec, ColISIN))
			if isin == "" && (rawType == "Buy" || rawType == "Sell" || rawType == "Switch buy" || rawType == "Switch sell") {
				isin = a.nameToISIN[name]
				if isin == "" && !unresolved[name] {
					unresolved[name] = true
					logger.L.Error("No ISIN found for security", "adapter", "generic", "name", name)
				}
			}

			txs = append(txs, models.Transaction{
				TransactionDate: date,
				RawType:         rawType,
				Name:            name,
				ISIN:            isin,
				NoTraded:        noTraded,
				Price:           price,
				Amount:          amount,
				Commission:      commission,
				Currency:        rr.get(rec, ColCurrency),
				FXRate:          fxRate,
				Broker:          broker,
				SourceFile:      file.Tag,
			})
		}
	}

	return txs, nil
}
