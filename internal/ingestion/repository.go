package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/logger"
	"github.com/guttosm/garchcast/internal/storage"
)

// Repository is the price port used by the model lifecycle: reads come from
// the relational store, refreshes pull from the upstream Source and upsert.
type Repository struct {
	store  storage.PricesRepository
	source Source
}

// NewRepository composes a store and an upstream source. source may be nil,
// in which case Refresh is a no-op.
func NewRepository(store storage.PricesRepository, source Source) *Repository {
	return &Repository{store: store, source: source}
}

// Read returns at most limit of the most recent observations, ascending.
func (r *Repository) Read(ctx context.Context, ticker string, limit int) ([]models.Observation, error) {
	return r.store.ReadPrices(ctx, normalizeTicker(ticker), limit)
}

// Refresh fetches the ticker from upstream and upserts every row, replacing
// rows whose timestamps overlap. It returns the number of rows written.
func (r *Repository) Refresh(ctx context.Context, ticker string) (int, error) {
	if r.source == nil {
		return 0, nil
	}
	ticker = normalizeTicker(ticker)

	rows, err := r.source.Fetch(ctx, ticker)
	if err != nil {
		return 0, err
	}
	n, err := r.store.UpsertPrices(ctx, ticker, rows)
	if err != nil {
		return 0, fmt.Errorf("refresh %s: %w", ticker, err)
	}
	logger.L().Info().Str("ticker", ticker).Str("source", r.source.Name()).Int("rows", n).Msg("prices refreshed")
	return n, nil
}

// Tickers lists tickers with stored prices.
func (r *Repository) Tickers(ctx context.Context) ([]string, error) {
	return r.store.Tickers(ctx)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
