package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/parsers"
	"github.com/username/pfolio/backend/src/processors"
	"github.com/username/pfolio/backend/src/registry"
)

const (
	ckPipelineResult = "res_pipeline_result_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// pipelineSources lists the broker adapters the pipeline ingests, in merge
// order.
var pipelineSources = []string{"avanza", "lysa", "pareto", "generic"}

type pipelineServiceImpl struct {
	cfg               *config.AppConfig
	securityService   SecurityService
	marketDataService MarketDataService
	resultCache       *cache.Cache
}

func NewPipelineService(
	cfg *config.AppConfig,
	securityService SecurityService,
	marketDataService MarketDataService,
	resultCache *cache.Cache,
) PipelineService {
	return &pipelineServiceImpl{
		cfg:               cfg,
		securityService:   securityService,
		marketDataService: marketDataService,
		resultCache:       resultCache,
	}
}

// Run executes the full pipeline: adapters feed the transaction registry,
// the registry feeds the aggregator, the aggregator feeds the ledger
// expander and the reports. Results are cached per report date.
func (s *pipelineServiceImpl) Run(ctx context.Context, reportDate *time.Time) (*PipelineResult, error) {
	cacheKey := fmt.Sprintf(ckPipelineResult, "all")
	if reportDate != nil {
		cacheKey = fmt.Sprintf(ckPipelineResult, reportDate.Format("2006-01-02"))
	}
	if cached, found := s.resultCache.Get(cacheKey); found {
		logger.L.Debug("Pipeline cache hit", "key", cacheKey)
		return cached.(*PipelineResult), nil
	}

	startTime := time.Now()
	logger.L.Info("Pipeline run START", "reportDate", reportDate)

	nameToISIN, err := s.securityService.MapNameToISIN()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadingFailed, err)
	}

	adapters := make([]parsers.Adapter, 0, len(pipelineSources))
	for _, source := range pipelineSources {
		adapter, err := parsers.GetAdapter(source, s.cfg.DirTransactionData, nameToISIN)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadingFailed, err)
		}
		adapters = append(adapters, adapter)
	}

	reg := registry.New(s.cfg.Location, adapters...)
	transactions, err := reg.Build(ctx, registry.BuildOptions{ReportDate: reportDate})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadingFailed, err)
	}

	aggregates := processors.NewAggregator(s.cfg.DebugName).Aggregate(transactions)
	ledger := processors.NewLedgerExpander().Expand(aggregates)

	prices, err := s.marketDataService.LastKnownPrices()
	if err != nil {
		logger.L.Warn("No market data available for portfolio valuation", "error", err)
		prices = nil
	}

	result := &PipelineResult{
		Transactions:    transactions,
		Aggregates:      aggregates,
		Ledger:          ledger,
		Portfolio:       processors.BuildPortfolio(aggregates, prices),
		IncomeStatement: processors.BuildIncomeStatement(ledger),
	}
	s.resultCache.Set(cacheKey, result, cache.DefaultExpiration)

	logger.L.Info("Pipeline run END",
		"transactions", len(transactions),
		"ledgerEntries", len(ledger),
		"duration", time.Since(startTime).String())
	return result, nil
}

// Invalidate drops all cached pipeline results. Call after reloading
// transaction or reference data.
func (s *pipelineServiceImpl) Invalidate() {
	s.resultCache.Flush()
	logger.L.Info("Pipeline result cache flushed")
}
