package models

import "time"

// Security is a reference-data record mapping an ISIN to a display name and
// price currency. Loaded from YAML configuration and cached in SQLite.
type Security struct {
	ISIN     string `yaml:"isin_code" json:"isin_code"`
	Name     string `yaml:"name" json:"name"`
	Currency string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// PricePoint is a market-data snapshot for one security.
type PricePoint struct {
	ISIN       string    `json:"isin_code"`
	ReportDate time.Time `json:"report_date"`
	Price      float64   `json:"price"`
}

// MarketDataSource describes where market data for a security is downloaded
// from. Declared in the market-data YAML configuration.
type MarketDataSource struct {
	ISIN      string `yaml:"isin_code"`
	Loader    string `yaml:"loader_class"`
	LookupKey string `yaml:"lookup_key,omitempty"`
	Name      string `yaml:"name,omitempty"`
}
