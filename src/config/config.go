package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all runtime configuration. It is loaded once at startup
// and passed explicitly to the components that need it.
type AppConfig struct {
	Port         string
	LogLevel     string
	DatabasePath string

	// SystemTimeZone is applied to every transaction date that arrives
	// without time zone information.
	SystemTimeZone string
	Location       *time.Location

	DirData            string
	DirTransactionData string
	DirMarketData      string

	SecurityConfig       string
	SecurityConfigLocal  string
	FileMarketDataConfig string

	// DebugName restricts aggregation to securities whose name contains
	// this string. Empty means no filter.
	DebugName string
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", err)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	dirData := getEnv("DIR_DATA", "data")

	cfg := &AppConfig{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./pfolio.db"),

		SystemTimeZone: getEnv("SYSTEM_TIME_ZONE", "Europe/Stockholm"),

		DirData:            dirData,
		DirTransactionData: getEnv("DIR_TRANSACTION_DATA", dirData+"/transactions"),
		DirMarketData:      getEnv("DIR_MARKET_DATA", dirData+"/market_data"),

		SecurityConfig:       getEnv("SECURITY_CONFIG", "config/security.yaml"),
		SecurityConfigLocal:  getEnv("SECURITY_CONFIG_LOCAL", ""),
		FileMarketDataConfig: getEnv("FILE_MARKET_DATA_CONFIG", "config/market_data.yaml"),

		DebugName: getEnv("DEBUG_NAME", ""),
	}

	loc, err := time.LoadLocation(cfg.SystemTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid SYSTEM_TIME_ZONE %q: %w", cfg.SystemTimeZone, err)
	}
	cfg.Location = loc

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, DirData=%s",
		cfg.Port, cfg.LogLevel, cfg.DatabasePath, cfg.DirData)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
