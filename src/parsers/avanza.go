package parsers

import (
	"context"
	"strings"
	"time"

	"github.com/username/pfolio/backend/src/models"
)

// avanzaColMap renames Avanza's Swedish headers to canonical names. Newer
// exports carry "Courtage (SEK)" and "Valutakurs" next to the older columns;
// both map to the same target and the first non-empty cell wins.
var avanzaColMap = map[string]string{
	"Datum":                   ColTransactionDate,
	"Typ av transaktion":      ColTransactionType,
	"Värdepapper/beskrivning": ColName,
	"Antal":                   ColNoTraded,
	"Kurs":                    ColPrice,
	"Belopp":                  ColAmount,
	"Courtage":                ColCommission,
	"Courtage (SEK)":          ColCommission,
	"Valuta":                  ColCurrency,
	"Instrumentvaluta":        ColCurrency,
	"ISIN":                    ColISIN,
	"FX":                      ColFXRate,
	"Valutakurs":              ColFXRate,
}

type AvanzaAdapter struct {
	dir string
}

func NewAvanzaAdapter(dir string) *AvanzaAdapter {
	return &AvanzaAdapter{dir: dir}
}

func (a *AvanzaAdapter) Broker() string { return "Avanza" }

func (a *AvanzaAdapter) Load(ctx context.Context) ([]models.Transaction, error) {
	files, err := readSourceFiles(ctx, a.dir, "avanza*.csv", ';', nil)
	if err != nil {
		return nil, err
	}

	var txs []models.Transaction
	for _, file := range files {
		rr := newRowReader(file.Header, avanzaColMap)
		if err := requireColumns("avanza", rr, ColTransactionDate, ColTransactionType, ColName, ColAmount); err != nil {
			return nil, err
		}

		for _, rec := range file.Rows {
			dateStr := rr.get(rec, ColTransactionDate)
			if dateStr == "" {
				continue
			}
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return nil, &DataError{Adapter: "avanza", Column: ColTransactionDate, Value: dateStr, Err: err}
			}

			noTraded, err := CleanupNumber("avanza", ColNoTraded, rr.get(rec, ColNoTraded))
			if err != nil {
				return nil, err
			}
			price, err := CleanupNumber("avanza", ColPrice, rr.get(rec, ColPrice))
			if err != nil {
				return nil, err
			}
			amount, err := CleanupNumber("avanza", ColAmount, rr.get(rec, ColAmount))
			if err != nil {
				return nil, err
			}
			commission, err := CleanupNumber("avanza", ColCommission, rr.get(rec, ColCommission))
			if err != nil {
				return nil, err
			}
			fxRate, err := CleanupNumber("avanza", ColFXRate, rr.get(rec, ColFXRate))
			if err != nil {
				return nil, err
			}

			name := rr.get(rec, ColName)

			txs = append(txs, models.Transaction{
				TransactionDate: date,
				RawType:         avanzaTransactionType(rr.get(rec, ColTransactionType), name),
				Name:            name,
				ISIN:            cleanISIN(rr.get(rec, ColISIN)),
				NoTraded:        noTraded,
				Price:           price,
				Amount:          amount,
				Commission:      commission,
				Currency:        rr.get(rec, ColCurrency),
				FXRate:          fxRate,
				Broker:          a.Broker(),
				SourceFile:      file.Tag,
			})
		}
	}

	return txs, nil
}

// avanzaTransactionType handles the broker's generic "Övrigt" rows, which
// encode their real meaning in the security name.
func avanzaTransactionType(rawType, name string) string {
	if rawType == "Övrigt" && name == "Avkastningsskatt" {
		return string(models.TypeFee)
	}
	if rawType == "Övrigt" && strings.Contains(name, "Flyttavg") {
		return string(models.TypeFeeCredit)
	}
	return rawType
}
