package registry

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// stubAdapter feeds canned rows into the registry.
type stubAdapter struct {
	name string
	rows []models.Transaction
	err  error
}

func (a *stubAdapter) Broker() string { return a.name }

func (a *stubAdapter) Load(ctx context.Context) ([]models.Transaction, error) {
	return a.rows, a.err
}

func rawTx(d int, rawType string, noTraded, price *float64) models.Transaction {
	return models.Transaction{
		TransactionDate: time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC),
		RawType:         rawType,
		Name:            "Fund A",
		ISIN:            "SE0000000001",
		NoTraded:        noTraded,
		Price:           price,
		Broker:          "Stub",
	}
}

func buildWith(t *testing.T, opts BuildOptions, rows ...models.Transaction) []models.Transaction {
	t.Helper()
	reg := New(time.UTC, &stubAdapter{name: "Stub", rows: rows})
	out, err := reg.Build(context.Background(), opts)
	require.NoError(t, err)
	return out
}

func TestBuildRejectsNaiveReportDate(t *testing.T) {
	naive := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("", 0))
	reg := New(time.UTC, &stubAdapter{name: "Stub"})
	_, err := reg.Build(context.Background(), BuildOptions{ReportDate: &naive})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNaiveReportDate)
}

func TestBuildMapsBrokerLabels(t *testing.T) {
	cases := []struct {
		label string
		want  models.TransactionType
	}{
		{"Köp", models.TypeBuy},
		{"Buy", models.TypeBuy},
		{"Switch buy", models.TypeBuy},
		{"Sälj", models.TypeSell},
		{"Switch sell", models.TypeSell},
		{"Räntor", models.TypeInterest},
		{"Ränta", models.TypeInterest},
		{"Preliminärskatt", models.TypeTax},
		{"Utdelning", models.TypeDividend},
		{"Plattformsavgift", models.TypeFee},
		{"Insättning", models.TypeDeposit},
		{"Uttag", models.TypeWithdraw},
		{"fee_credit", models.TypeFeeCredit},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			tx := rawTx(1, tc.label, nil, nil)
			tx.Amount = models.Float(100)
			out := buildWith(t, BuildOptions{}, tx)
			require.Len(t, out, 1)
			assert.Equal(t, tc.want, out[0].TransactionType)
		})
	}
}

func TestBuildDropsUnknownLabels(t *testing.T) {
	out := buildWith(t, BuildOptions{},
		rawTx(1, "Övrigt", nil, nil),
		rawTx(2, "Köp", models.Float(10), models.Float(10)),
	)
	require.Len(t, out, 1)
	assert.Equal(t, models.TypeBuy, out[0].TransactionType)
}

func TestBuildEveryRowHasCanonicalType(t *testing.T) {
	out := buildWith(t, BuildOptions{},
		rawTx(1, "Köp", models.Float(10), models.Float(10)),
		rawTx(2, "Sälj", models.Float(5), models.Float(12)),
		rawTx(3, "Utdelning", nil, nil),
	)
	for _, tx := range out {
		assert.True(t, tx.TransactionType.Valid(), "type %q", tx.TransactionType)
	}
}

func TestBuildSignConventions(t *testing.T) {
	t.Run("buy keeps volume positive and amount negative", func(t *testing.T) {
		out := buildWith(t, BuildOptions{}, rawTx(1, "Köp", models.Float(10), models.Float(10)))
		require.Len(t, out, 1)
		assert.Greater(t, *out[0].NoTraded, 0.0)
		assert.LessOrEqual(t, *out[0].Amount, 0.0)
		assert.InDelta(t, -100.0, *out[0].Amount, 1e-9)
	})

	t.Run("sell forces volume negative and amount positive", func(t *testing.T) {
		out := buildWith(t, BuildOptions{}, rawTx(1, "Sälj", models.Float(5), models.Float(12)))
		require.Len(t, out, 1)
		assert.Less(t, *out[0].NoTraded, 0.0)
		assert.GreaterOrEqual(t, *out[0].Amount, 0.0)
		assert.InDelta(t, 60.0, *out[0].Amount, 1e-9)
	})

	t.Run("fee amount forced negative", func(t *testing.T) {
		tx := rawTx(1, "Plattformsavgift", nil, nil)
		tx.Amount = models.Float(25)
		out := buildWith(t, BuildOptions{}, tx)
		require.Len(t, out, 1)
		assert.InDelta(t, -25.0, *out[0].Amount, 1e-9)
	})
}

func TestBuildNormalizesCommission(t *testing.T) {
	tx := rawTx(1, "Köp", models.Float(10), models.Float(10))
	tx.Commission = models.Float(5.0)
	out := buildWith(t, BuildOptions{}, tx)
	require.Len(t, out, 1)
	assert.InDelta(t, -5.0, *out[0].Commission, 1e-9)
}

func TestBuildNormalizesFXRate(t *testing.T) {
	t.Run("absent rate defaults to one", func(t *testing.T) {
		out := buildWith(t, BuildOptions{}, rawTx(1, "Köp", models.Float(10), models.Float(10)))
		require.NotNil(t, out[0].FXRate)
		assert.InDelta(t, 1.0, *out[0].FXRate, 1e-9)
	})

	t.Run("NaN rate defaults to one", func(t *testing.T) {
		tx := rawTx(1, "Köp", models.Float(10), models.Float(10))
		tx.FXRate = models.Float(math.NaN())
		out := buildWith(t, BuildOptions{}, tx)
		assert.InDelta(t, 1.0, *out[0].FXRate, 1e-9)
	})

	t.Run("valid rate kept", func(t *testing.T) {
		tx := rawTx(1, "Köp", models.Float(10), models.Float(10))
		tx.FXRate = models.Float(11.3)
		out := buildWith(t, BuildOptions{}, tx)
		assert.InDelta(t, 11.3, *out[0].FXRate, 1e-9)
	})
}

func TestBuildDerivesCashFlowNominal(t *testing.T) {
	tx := rawTx(1, "Köp", models.Float(10), models.Float(10))
	tx.Commission = models.Float(-5.0)
	out := buildWith(t, BuildOptions{}, tx)
	require.NotNil(t, out[0].CashFlowNominal)
	assert.InDelta(t, -105.0, *out[0].CashFlowNominal, 1e-9)
}

func TestBuildFiltersOnReportDate(t *testing.T) {
	reportDate := time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC)
	out := buildWith(t, BuildOptions{ReportDate: &reportDate},
		rawTx(1, "Köp", models.Float(10), models.Float(10)),
		rawTx(2, "Köp", models.Float(10), models.Float(10)),
		rawTx(3, "Köp", models.Float(10), models.Float(10)),
	)
	require.Len(t, out, 2)
	for _, tx := range out {
		assert.False(t, tx.TransactionDate.After(reportDate))
	}
}

func TestBuildSortsByDate(t *testing.T) {
	rows := []models.Transaction{
		rawTx(3, "Köp", models.Float(10), models.Float(10)),
		rawTx(1, "Köp", models.Float(10), models.Float(10)),
		rawTx(2, "Köp", models.Float(10), models.Float(10)),
	}

	t.Run("ascending by default", func(t *testing.T) {
		out := buildWith(t, BuildOptions{}, rows...)
		require.Len(t, out, 3)
		assert.True(t, out[0].TransactionDate.Before(out[1].TransactionDate))
		assert.True(t, out[1].TransactionDate.Before(out[2].TransactionDate))
	})

	t.Run("descending on request", func(t *testing.T) {
		out := buildWith(t, BuildOptions{SortDescending: true}, rows...)
		require.Len(t, out, 3)
		assert.True(t, out[0].TransactionDate.After(out[1].TransactionDate))
		assert.True(t, out[1].TransactionDate.After(out[2].TransactionDate))
	})
}

func TestBuildKeepsTradeWithoutISIN(t *testing.T) {
	tx := rawTx(1, "Köp", models.Float(10), models.Float(10))
	tx.ISIN = ""
	out := buildWith(t, BuildOptions{}, tx)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].ISIN)
}

func TestBuildWrapsAdapterErrors(t *testing.T) {
	loadErr := errors.New("broken export")
	reg := New(time.UTC, &stubAdapter{name: "Stub", err: loadErr})
	_, err := reg.Build(context.Background(), BuildOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, loadErr)
	assert.Contains(t, err.Error(), "Stub")
}

func TestBuildIsIdempotent(t *testing.T) {
	rows := []models.Transaction{
		rawTx(2, "Köp", models.Float(10), models.Float(10)),
		rawTx(1, "Insättning", nil, nil),
	}
	rows[1].Amount = models.Float(500)

	reg := New(time.UTC, &stubAdapter{name: "Stub", rows: rows})
	first, err := reg.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	second, err := reg.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildNormalizesDatesToLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	reg := New(loc, &stubAdapter{name: "Stub", rows: []models.Transaction{
		rawTx(1, "Köp", models.Float(10), models.Float(10)),
	}})
	out, err := reg.Build(context.Background(), BuildOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	zone, _ := out[0].TransactionDate.Zone()
	assert.NotEmpty(t, zone)
	assert.Equal(t, loc.String(), out[0].TransactionDate.Location().String())
}
