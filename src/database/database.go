package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/pfolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite reference store and ensures its tables exist.
// The store holds security reference data and the latest market data
// snapshots; transaction data itself never touches the database.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database tables", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database tables for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS security (
		isin_code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS market_data (
		isin_code TEXT NOT NULL,
		report_date TEXT NOT NULL,
		price REAL NOT NULL,
		source TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(isin_code, report_date)
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
