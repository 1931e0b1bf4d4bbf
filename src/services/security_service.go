package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/database"
	"github.com/username/pfolio/backend/src/logger"
	"github.com/username/pfolio/backend/src/models"
)

type securityServiceImpl struct {
	cfg *config.AppConfig
}

func NewSecurityService(cfg *config.AppConfig) SecurityService {
	return &securityServiceImpl{cfg: cfg}
}

// LoadSecurities reads the global security configuration, overlays the local
// one when present, and upserts the result into the security table. Local
// entries win on ISIN collisions.
func (s *securityServiceImpl) LoadSecurities() error {
	merged := make(map[string]models.Security)

	globalEntries, err := readSecurityYAML(s.cfg.SecurityConfig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSecurityConfig, err)
	}
	logger.L.Info("Loaded securities from global file", "count", len(globalEntries), "file", s.cfg.SecurityConfig)
	for _, sec := range globalEntries {
		merged[sec.ISIN] = sec
	}

	if s.cfg.SecurityConfigLocal != "" {
		if _, statErr := os.Stat(s.cfg.SecurityConfigLocal); statErr == nil {
			localEntries, err := readSecurityYAML(s.cfg.SecurityConfigLocal)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrSecurityConfig, err)
			}
			logger.L.Info("Loaded securities from local file", "count", len(localEntries), "file", s.cfg.SecurityConfigLocal)
			for _, sec := range localEntries {
				merged[sec.ISIN] = sec
			}
		}
	}

	for _, sec := range merged {
		_, err := database.DB.Exec(`
			INSERT INTO security (isin_code, name, currency)
			VALUES (?, ?, ?)
			ON CONFLICT(isin_code) DO UPDATE SET
				name = excluded.name,
				currency = excluded.currency,
				updated_at = CURRENT_TIMESTAMP`,
			sec.ISIN, sec.Name, sec.Currency,
		)
		if err != nil {
			return fmt.Errorf("upserting security %s: %w", sec.ISIN, err)
		}
	}
	logger.L.Info("Security reference data stored", "count", len(merged))
	return nil
}

func (s *securityServiceImpl) MapISINToSecurity() (map[string]models.Security, error) {
	rows, err := database.DB.Query("SELECT isin_code, name, currency FROM security")
	if err != nil {
		return nil, fmt.Errorf("querying securities: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.Security)
	for rows.Next() {
		var sec models.Security
		if err := rows.Scan(&sec.ISIN, &sec.Name, &sec.Currency); err != nil {
			return nil, fmt.Errorf("scanning security row: %w", err)
		}
		result[sec.ISIN] = sec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating securities: %w", err)
	}
	return result, nil
}

func (s *securityServiceImpl) MapNameToISIN() (map[string]string, error) {
	byISIN, err := s.MapISINToSecurity()
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(byISIN))
	for isin, sec := range byISIN {
		result[sec.Name] = isin
	}
	return result, nil
}

// readSecurityYAML parses a security configuration file: a top-level list of
// entries with isin_code, name and an optional currency.
func readSecurityYAML(path string) ([]models.Security, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []models.Security
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}
