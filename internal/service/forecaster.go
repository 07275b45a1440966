package service

import (
	"fmt"
	"math"

	"github.com/guttosm/garchcast/internal/calendar"
	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/garch"
)

// DefaultMaxHorizon bounds forecast requests when none is configured.
const DefaultMaxHorizon = 365

// Forecaster turns a model into a dated volatility forecast.
type Forecaster struct {
	cal        calendar.Calendar
	maxHorizon int
}

// NewForecaster dates forecasts with cal. maxHorizon <= 0 selects
// DefaultMaxHorizon.
func NewForecaster(cal calendar.Calendar, maxHorizon int) *Forecaster {
	if maxHorizon <= 0 {
		maxHorizon = DefaultMaxHorizon
	}
	return &Forecaster{cal: cal, maxHorizon: maxHorizon}
}

func (f *Forecaster) checkHorizon(horizon int) error {
	if horizon < 1 || horizon > f.maxHorizon {
		return fmt.Errorf("n_days=%d: must be between 1 and %d: %w", horizon, f.maxHorizon, errs.ErrInvalidHorizon)
	}
	return nil
}

// Predict forecasts the next horizon trading days after the last observation
// the model was fit on. Volatility is the square root of the forecast
// variance. Dates are UTC midnights. Predict does not modify m.
func (f *Forecaster) Predict(m *garch.Model, horizon int) (models.Forecast, error) {
	if err := f.checkHorizon(horizon); err != nil {
		return models.Forecast{}, err
	}
	variances, err := m.ForecastVariance(horizon)
	if err != nil {
		return models.Forecast{}, err
	}
	dates := calendar.NextTradingDays(f.cal, m.State.LastTimestamp.UTC(), horizon)

	out := models.Forecast{Ticker: m.Spec.Ticker, Points: make([]models.ForecastPoint, horizon)}
	for i, v := range variances {
		out.Points[i] = models.ForecastPoint{Date: dates[i], Volatility: math.Sqrt(v)}
	}
	return out, nil
}
