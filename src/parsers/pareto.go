package parsers

import (
	"context"
	"strings"
	"time"

	"github.com/username/pfolio/backend/src/models"
)

var paretoColMap = map[string]string{
	"ISIN":            ColISIN,
	"Affärsdag":       ColTransactionDate,
	"Ticker":          ColName,
	"Transaktionstyp": ColTransactionType,
	"Antal":           ColNoTraded,
	"Kurs":            ColPrice,
	"Totalt":          ColAmount,
	"Courtage":        ColCommission,
	"Valuta":          ColCurrency,
}

// ParetoAdapter loads Pareto Securities contract-note exports. The exports
// are written in a broken encoding where "ä" arrives as the Hangul syllable
// "채" ("Affärsdag" becomes "Aff채rsdag"); repairParetoHeader undoes that
// before header matching.
type ParetoAdapter struct {
	dir string
}

func NewParetoAdapter(dir string) *ParetoAdapter {
	return &ParetoAdapter{dir: dir}
}

func (a *ParetoAdapter) Broker() string { return "Pareto" }

func repairParetoHeader(s string) string {
	return strings.ReplaceAll(s, "채", "ä")
}

func (a *ParetoAdapter) Load(ctx context.Context) ([]models.Transaction, error) {
	files, err := readSourceFiles(ctx, a.dir, "pareto*.csv", ',', repairParetoHeader)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	for _, file := range files {
		rr := newRowReader(file.Header, paretoColMap)
		if err := requireColumns("pareto", rr, ColTransactionDate, ColTransactionType, ColName, ColISIN); err != nil {
			return nil, err
		}

		for _, rec := range file.Rows {
			dateStr := rr.get(rec, ColTransactionDate)
			if dateStr == "" {
				continue
			}
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return nil, &DataError{Adapter: "pareto", Column: ColTransactionDate, Value: dateStr, Err: err}
			}

			noTraded, err := CleanupNumber("pareto", ColNoTraded, rr.get(rec, ColNoTraded))
			if err != nil {
				return nil, err
			}
			price, err := CleanupNumber("pareto", ColPrice, rr.get(rec, ColPrice))
			if err != nil {
				return nil, err
			}
			amount, err := CleanupNumber("pareto", ColAmount, rr.get(rec, ColAmount))
			if err != nil {
				return nil, err
			}
			commission, err := CleanupNumber("pareto", ColCommission, rr.get(rec, ColCommission))
			if err != nil {
				return nil, err
			}

			txs = append(txs, models.Transaction{
				TransactionDate: date,
				RawType:         rr.get(rec, ColTransactionType),
				Name:            rr.get(rec, ColName),
				ISIN:            cleanISIN(rr.get(rec, ColISIN)),
				NoTraded:        noTraded,
				Price:           price,
				Amount:          amount,
				Commission:      commission,
				Currency:        rr.get(rec, ColCurrency),
				Broker:          a.Broker(),
				SourceFile:      file.Tag,
			})
		}
	}

	return txs, nil
}
