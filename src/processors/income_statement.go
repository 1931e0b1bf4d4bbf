package processors

import (
	"sort"

	"github.com/username/pfolio/backend/src/models"
)

// IncomeStatement pivots income-statement ledger activity to account rows
// over calendar-year columns.
type IncomeStatement struct {
	Years []int                `json:"years"`
	Rows  []IncomeStatementRow `json:"rows"`
}

type IncomeStatementRow struct {
	Account models.LedgerAccount `json:"account"`
	// ByYear holds the yearly result (credits minus debits) for years
	// present in Years; absent years had no activity.
	ByYear map[int]float64 `json:"by_year"`
	Total  float64         `json:"total"`
}

// BuildIncomeStatement reduces the general ledger to yearly results per
// income-statement account. Balance-sheet legs are ignored.
func BuildIncomeStatement(entries []models.LedgerEntry) IncomeStatement {
	byAccount := make(map[models.LedgerAccount]map[int]float64)
	yearSet := make(map[int]struct{})

	for _, e := range entries {
		if !e.Account.IsIncomeStatement() {
			continue
		}
		year := e.TransactionDate.Year()
		result := models.FloatVal(e.Credit) - models.FloatVal(e.Debit)

		if byAccount[e.Account] == nil {
			byAccount[e.Account] = make(map[int]float64)
		}
		byAccount[e.Account][year] += result
		yearSet[year] = struct{}{}
	}

	stmt := IncomeStatement{}
	for year := range yearSet {
		stmt.Years = append(stmt.Years, year)
	}
	sort.Ints(stmt.Years)

	for account, byYear := range byAccount {
		row := IncomeStatementRow{Account: account, ByYear: byYear}
		for _, v := range byYear {
			row.Total += v
		}
		stmt.Rows = append(stmt.Rows, row)
	}
	sort.Slice(stmt.Rows, func(i, j int) bool {
		return stmt.Rows[i].Account < stmt.Rows[j].Account
	})
	return stmt
}
