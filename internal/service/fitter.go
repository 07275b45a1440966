package service

import (
	"context"
	"time"

	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/garch"
	"github.com/guttosm/garchcast/internal/logger"
)

// Fitter estimates GARCH models with fixed optimizer limits.
type Fitter struct {
	opts garch.Options
}

// NewFitter returns a Fitter; zero fields of opts take garch defaults.
func NewFitter(opts garch.Options) *Fitter {
	return &Fitter{opts: opts}
}

// Fit estimates spec on series.
func (f *Fitter) Fit(ctx context.Context, series models.ReturnSeries, spec garch.Spec) (*garch.Model, error) {
	start := time.Now()
	m, err := garch.Fit(ctx, series, spec, f.opts)
	if err != nil {
		logger.L().Warn().Str("spec", spec.String()).Int("n_obs", series.Len()).Dur("elapsed", time.Since(start)).Err(err).Msg("fit failed")
		return nil, err
	}
	logger.L().Info().
		Str("spec", spec.String()).
		Int("n_obs", m.Diagnostics.NumObs).
		Int("iterations", m.Iterations).
		Float64("aic", m.Diagnostics.AIC).
		Float64("bic", m.Diagnostics.BIC).
		Float64("persistence", m.Params.Persistence()).
		Dur("elapsed", time.Since(start)).
		Msg("fit done")
	return m, nil
}
