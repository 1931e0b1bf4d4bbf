package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/pfolio/backend/src/models"
	"github.com/username/pfolio/backend/src/processors"
)

var (
	ErrLoadingFailed    = errors.New("loading transaction data failed")
	ErrSecurityConfig   = errors.New("loading security configuration failed")
	ErrMarketDataConfig = errors.New("loading market data configuration failed")
)

// PipelineResult holds the output of one full pipeline run.
type PipelineResult struct {
	Transactions    []models.Transaction
	Aggregates      []models.AggregateRow
	Ledger          []models.LedgerEntry
	Portfolio       []processors.Holding
	IncomeStatement processors.IncomeStatement
}

// PipelineService runs the transaction registry, aggregator and ledger
// expander end to end and caches the result.
type PipelineService interface {
	Run(ctx context.Context, reportDate *time.Time) (*PipelineResult, error)
	Invalidate()
}

// SecurityService exposes security reference data.
type SecurityService interface {
	LoadSecurities() error
	MapISINToSecurity() (map[string]models.Security, error)
	MapNameToISIN() (map[string]string, error)
}

// MarketDataService exposes market data snapshots.
type MarketDataService interface {
	LoadMarketData() error
	LastKnownPrices() (map[string]models.PricePoint, error)
}
