// Package service implements the model lifecycle: turning stored prices into a
// return series, fitting and persisting a GARCH model, and forecasting from
// the persisted model.
package service

import (
	"context"
	"fmt"
	"math"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/logger"
	"github.com/guttosm/garchcast/internal/metrics"
)

// PriceRepository is the price port of the lifecycle.
//
// Read returns at most limit of the most recent observations in ascending
// order, or errs.ErrTickerNotFound when the ticker has none. Refresh pulls the
// ticker from upstream, replacing rows with overlapping timestamps.
type PriceRepository interface {
	Read(ctx context.Context, ticker string, limit int) ([]models.Observation, error)
	Refresh(ctx context.Context, ticker string) (int, error)
}

// Wrangler produces clean return series.
type Wrangler struct {
	repo PriceRepository
	rec  *metrics.Recorder
}

// NewWrangler returns a Wrangler reading from repo. rec may be nil.
func NewWrangler(repo PriceRepository, rec *metrics.Recorder) *Wrangler {
	return &Wrangler{repo: repo, rec: rec}
}

// Wrangle optionally refreshes ticker from upstream, reads its most recent
// nObservations prices and converts them into percentage returns.
func (w *Wrangler) Wrangle(ctx context.Context, ticker string, useNewData bool, nObservations int) (models.ReturnSeries, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return models.ReturnSeries{}, err
	}
	if nObservations < 2 {
		return models.ReturnSeries{}, fmt.Errorf("n_observations=%d: at least 2 are needed for one return: %w", nObservations, errs.ErrInsufficientData)
	}

	if useNewData {
		n, err := w.repo.Refresh(ctx, ticker)
		if err != nil {
			return models.ReturnSeries{}, err
		}
		w.rec.AddRefreshedRows(n)
	}

	obs, err := w.repo.Read(ctx, ticker, nObservations)
	if err != nil {
		return models.ReturnSeries{}, err
	}
	logger.L().Debug().Str("ticker", ticker).Int("rows", len(obs)).Int("requested", nObservations).Msg("prices read")
	return Returns(ticker, obs)
}

// Returns converts ascending observations into percentage returns. Every
// price must be finite and positive and timestamps strictly increasing.
// Return timestamps are normalised to UTC.
func Returns(ticker string, obs []models.Observation) (models.ReturnSeries, error) {
	switch len(obs) {
	case 0:
		return models.ReturnSeries{}, fmt.Errorf("no prices for %s: %w", ticker, errs.ErrTickerNotFound)
	case 1:
		return models.ReturnSeries{}, fmt.Errorf("%s has 1 observation, need at least 2: %w", ticker, errs.ErrInsufficientData)
	}

	for i, o := range obs {
		if !(o.Price > 0) || math.IsInf(o.Price, 0) {
			return models.ReturnSeries{}, fmt.Errorf("%s: price %v at %s: %w", ticker, o.Price, o.Timestamp.Format(models.ForecastDateLayout), errs.ErrDataQuality)
		}
		if i > 0 && !o.Timestamp.After(obs[i-1].Timestamp) {
			return models.ReturnSeries{}, fmt.Errorf("%s: timestamp %s is not after %s: %w", ticker,
				o.Timestamp.Format(models.ForecastDateLayout), obs[i-1].Timestamp.Format(models.ForecastDateLayout), errs.ErrDataQuality)
		}
	}

	s := models.ReturnSeries{Ticker: ticker, Points: make([]models.ReturnPoint, 0, len(obs)-1)}
	for i := 1; i < len(obs); i++ {
		r := (obs[i].Price/obs[i-1].Price - 1) * models.ReturnScale
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return models.ReturnSeries{}, fmt.Errorf("%s: non-finite return at %s: %w", ticker, obs[i].Timestamp.Format(models.ForecastDateLayout), errs.ErrDataQuality)
		}
		s.Points = append(s.Points, models.ReturnPoint{Timestamp: obs[i].Timestamp.UTC(), Value: r})
	}
	return s, nil
}
