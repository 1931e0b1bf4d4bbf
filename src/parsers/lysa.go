package parsers

import (
	"context"
	"time"

	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
)

var lysaColMap = map[string]string{
	"Date":             ColTransactionDate,
	"Type":             ColTransactionType,
	"Amount":           ColAmount,
	"Counterpart/Fund": ColName,
	"Volume":           ColNoTraded,
	"Price":            ColPrice,
}

// LysaAdapter loads Lysa exports. The export has no ISIN column, so trades
// are resolved against the security reference map by name.
type LysaAdapter struct {
	dir        string
	nameToISIN map[string]string
}

func NewLysaAdapter(dir string, nameToISIN map[string]string) *LysaAdapter {
	return &LysaAdapter{dir: dir, nameToISIN: nameToISIN}
}

func (a *LysaAdapter) Broker() string { return "Lysa" }

func (a *LysaAdapter) Load(ctx context.Context) ([]models.Transaction, error) {
	files, err := readSourceFiles(ctx, a.dir, "lysa*.csv", ',', nil)
	if err != nil {
		return nil, err
	}

	unresolved := map[string]bool{}

	var txs []models.Transaction
	for _, file := range files {
		rr := newRowReader(file.Header, lysaColMap)
		if err := requireColumns("lysa", rr, ColTransactionDate, ColTransactionType, ColName, ColAmount); err != nil {
			return nil, err
		}

		for _, rec := range file.Rows {
			dateStr := rr.get(rec, ColTransactionDate)
			if dateStr == "" {
				continue
			}
			date, err := time.Parse(time.RFC3339Nano, dateStr)
			if err != nil {
				return nil, &DataError{Adapter: "lysa", Column: ColTransactionDate, Value: dateStr, Err: err}
			}

			noTraded, err := CleanupNumber("lysa", ColNoTraded, rr.get(rec, ColNoTraded))
			if err != nil {
				return nil, err
			}
			price, err := CleanupNumber("lysa", ColPrice, rr.get(rec, ColPrice))
			if err != nil {
				return nil, err
			}
			amount, err := CleanupNumber("lysa", ColAmount, rr.get(rec, ColAmount))
			if err != nil {
				return nil, err
			}

			rawType := rr.get(rec, ColTransactionType)
			name := rr.get(rec, ColName)
			if rawType == "Fee" {
				name = "Lysa management fee"
			}

			isin := ""
			if rawType == "Buy" || rawType == "Sell" {
				isin = a.nameToISIN[name]
				if isin == "" && !unresolved[name] {
					unresolved[name] = true
					logger.L.Error("No ISIN found for security", "adapter", "lysa", "name", name)
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
				Currency:        "SEK",
				Broker:          a.Broker(),
				SourceFile:      file.Tag,
			})
		}
	}

	return txs, nil
}
