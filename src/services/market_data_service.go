package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/database"
	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
)

// marketDataSources is the top-level shape of the market data configuration
// file.
type marketDataSources struct {
	Sources []models.MarketDataSource `yaml:"sources"`
}

type marketDataServiceImpl struct {
	cfg *config.AppConfig
}

func NewMarketDataService(cfg *config.AppConfig) MarketDataService {
	return &marketDataServiceImpl{cfg: cfg}
}

// LoadMarketData reads every CSV snapshot file in the market data directory
// and upserts the price points into the market_data table. Files are
// semicolon separated with isin_code, price and report_date columns; one
// file per download source.
func (s *marketDataServiceImpl) LoadMarketData() error {
	sources, err := s.loadSources()
	if err != nil {
		return err
	}
	sourceByISIN := make(map[string]models.MarketDataSource, len(sources))
	for _, src := range sources {
		sourceByISIN[src.ISIN] = src
	}
	logger.L.Info("Market data sources configured", "count", len(sources))

	files, err := filepath.Glob(filepath.Join(s.cfg.DirMarketData, "*.csv"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarketDataConfig, err)
	}

	var stored int
	for _, file := range files {
		points, err := readMarketDataCSV(file)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMarketDataConfig, err)
		}
		for _, pp := range points {
			source := sourceByISIN[pp.ISIN].Loader
			_, err := database.DB.Exec(`
				INSERT INTO market_data (isin_code, report_date, price, source)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(isin_code, report_date) DO UPDATE SET
					price = excluded.price,
					source = excluded.source`,
				pp.ISIN, pp.ReportDate.Format("2006-01-02"), pp.Price, source,
			)
			if err != nil {
				return fmt.Errorf("upserting market data for %s: %w", pp.ISIN, err)
			}
			stored++
		}
	}
	logger.L.Info("Market data stored", "files", len(files), "points", stored)
	return nil
}

// LastKnownPrices returns the most recent price point per ISIN.
func (s *marketDataServiceImpl) LastKnownPrices() (map[string]models.PricePoint, error) {
	rows, err := database.DB.Query(`
		SELECT isin_code, MAX(report_date), price
		FROM market_data
		GROUP BY isin_code`)
	if err != nil {
		return nil, fmt.Errorf("querying market data: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.PricePoint)
	for rows.Next() {
		var pp models.PricePoint
		var reportDate string
		if err := rows.Scan(&pp.ISIN, &reportDate, &pp.Price); err != nil {
			return nil, fmt.Errorf("scanning market data row: %w", err)
		}
		pp.ReportDate, err = parseReportDate(reportDate)
		if err != nil {
			return nil, err
		}
		result[pp.ISIN] = pp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating market data: %w", err)
	}
	return result, nil
}

func (s *marketDataServiceImpl) loadSources() ([]models.MarketDataSource, error) {
	raw, err := os.ReadFile(s.cfg.FileMarketDataConfig)
	if err != nil {
		if os.IsNotExist(err) {
			logger.L.Warn("Market data configuration file not found", "file", s.cfg.FileMarketDataConfig)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMarketDataConfig, err)
	}
	var parsed marketDataSources
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrMarketDataConfig, s.cfg.FileMarketDataConfig, err)
	}
	return parsed.Sources, nil
}

func readMarketDataCSV(path string) ([]models.PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"isin_code", "price", "report_date"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("file %s misses column %q", path, required)
		}
	}

	var points []models.PricePoint
	for _, record := range records[1:] {
		price, err := strconv.ParseFloat(strings.TrimSpace(record[col["price"]]), 64)
		if err != nil {
			logger.L.Warn("Skipping market data row with unparseable price",
				"file", path, "value", record[col["price"]])
			continue
		}
		reportDate, err := parseReportDate(strings.TrimSpace(record[col["report_date"]]))
		if err != nil {
			logger.L.Warn("Skipping market data row with unparseable report_date",
				"file", path, "value", record[col["report_date"]])
			continue
		}
		points = append(points, models.PricePoint{
			ISIN:       record[col["isin_code"]],
			ReportDate: reportDate,
			Price:      price,
		})
	}
	return points, nil
}

var reportDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseReportDate(value string) (time.Time, error) {
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable report date %q", value)
}
