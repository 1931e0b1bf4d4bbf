package parsers

import (
	"context"
	"errors"
	"fmt"

	"github.com/username/pfolio/backend/src/models"
)

// Adapter converts one broker's CSV export format into canonical
// transactions. Adapters are selected by configuration via GetAdapter, never
// by runtime discovery.
type Adapter interface {
	// Broker returns the broker tag attached to every row.
	Broker() string
	// Load reads all matching files under the configured data directory and
	// returns their rows in original file order.
	Load(ctx context.Context) ([]models.Transaction, error)
}

var ErrMissingColumn = errors.New("required column missing")

// DataError describes a fatal problem with source data: a missing required
// column or an unparseable value. The message names the adapter, the column
// and the offending value.
type DataError struct {
	Adapter string
	Column  string
	Value   string
	Err     error
}

func (e *DataError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: column %q: invalid value %q: %v", e.Adapter, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: column %q: %v", e.Adapter, e.Column, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
