package ingestion

import (
	"context"

	"github.com/guttosm/garchcast/internal/domain/models"
)

// Source fetches the daily close history of a ticker from an upstream
// provider. Implementations return observations in ascending timestamp
// order and signal an unknown symbol with errs.ErrTickerNotFound.
type Source interface {
	Name() string
	Fetch(ctx context.Context, ticker string) ([]models.Observation, error)
}
