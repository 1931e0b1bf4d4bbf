package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pfolio/backend/src/models"
)

func TestIncomeStatementPivotsByAccountAndYear(t *testing.T) {
	interest2023 := cashTx(1, models.TypeInterest, 100.0)
	interest2023.TransactionDate = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	interest2023.Name = "Savings account"

	interest2024 := cashTx(1, models.TypeInterest, 40.0)
	interest2024.Name = "Fixed income fund"

	entries := expandSingle(t,
		interest2023,
		interest2024,
		cashTx(2, models.TypeDividend, 20.0),
	)
	stmt := BuildIncomeStatement(entries)

	assert.Equal(t, []int{2023, 2024}, stmt.Years)
	require.Len(t, stmt.Rows, 2)

	// Rows are sorted by account name.
	dividends := stmt.Rows[0]
	assert.Equal(t, models.AccountISDividend, dividends.Account)
	assert.InDelta(t, 20.0, dividends.ByYear[2024], 1e-9)
	assert.InDelta(t, 20.0, dividends.Total, 1e-9)

	interest := stmt.Rows[1]
	assert.Equal(t, models.AccountISInterest, interest.Account)
	assert.InDelta(t, 100.0, interest.ByYear[2023], 1e-9)
	assert.InDelta(t, 40.0, interest.ByYear[2024], 1e-9)
	assert.InDelta(t, 140.0, interest.Total, 1e-9)
}

func TestIncomeStatementIgnoresBalanceSheetLegs(t *testing.T) {
	entries := expandSingle(t,
		cashTx(1, models.TypeDeposit, 1000.0),
		tradeTx(2, models.TypeBuy, 10, 10.0, 0),
	)
	stmt := BuildIncomeStatement(entries)
	assert.Empty(t, stmt.Rows)
	assert.Empty(t, stmt.Years)
}

func TestIncomeStatementLossShowsNegativeResult(t *testing.T) {
	entries := expandSingle(t,
		tradeTx(1, models.TypeBuy, 10, 20.0, 0),
		tradeTx(2, models.TypeSell, -10, 10.0, 0),
	)
	stmt := BuildIncomeStatement(entries)
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, models.AccountISPnL, stmt.Rows[0].Account)
	assert.InDelta(t, -100.0, stmt.Rows[0].Total, 1e-9)
}
