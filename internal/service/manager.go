package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/events"
	"github.com/guttosm/garchcast/internal/garch"
	"github.com/guttosm/garchcast/internal/lock"
	"github.com/guttosm/garchcast/internal/logger"
	"github.com/guttosm/garchcast/internal/metrics"
)

// ModelStore persists fitted models. Load accepts a ticker (latest model) or
// an artifact id and returns errs.ErrArtifactNotFound when nothing matches.
type ModelStore interface {
	Dump(ctx context.Context, m *garch.Model) (string, error)
	Load(ctx context.Context, idOrTicker string) (*garch.Model, error)
	History(ctx context.Context, ticker string) ([]models.ArtifactInfo, error)
}

// Lifecycle is what the HTTP layer needs from the Manager.
type Lifecycle interface {
	Fit(ctx context.Context, p FitParams) (*FitResult, error)
	Predict(ctx context.Context, ticker string, nDays int) (models.Forecast, error)
	History(ctx context.Context, ticker string) ([]models.ArtifactInfo, error)
}

// FitParams is one fit request.
type FitParams struct {
	Ticker        string
	UseNewData    bool
	NObservations int
	P             int
	Q             int
}

// FitResult describes a persisted fit.
type FitResult struct {
	ArtifactID  string
	Diagnostics models.Diagnostics
	Model       *garch.Model
}

// Manager drives the model lifecycle. It keeps no model cache: every Predict
// reloads the latest artifact from the store.
type Manager struct {
	wrangler   *Wrangler
	fitter     *Fitter
	store      ModelStore
	forecaster *Forecaster

	locker     lock.Locker
	publisher  events.Publisher
	rec        *metrics.Recorder
	fitTimeout time.Duration
}

// Option configures optional Manager collaborators.
type Option func(*Manager)

// WithLocker serialises fits per ticker through l.
func WithLocker(l lock.Locker) Option { return func(m *Manager) { m.locker = l } }

// WithPublisher announces successful fits through p.
func WithPublisher(p events.Publisher) Option { return func(m *Manager) { m.publisher = p } }

// WithRecorder records lifecycle metrics on r.
func WithRecorder(r *metrics.Recorder) Option { return func(m *Manager) { m.rec = r } }

// WithFitTimeout bounds a whole fit cycle; zero means the caller's context only.
func WithFitTimeout(d time.Duration) Option { return func(m *Manager) { m.fitTimeout = d } }

// NewManager wires the lifecycle. Without WithLocker fits are serialised by an
// in-process lock; without WithPublisher no events are sent.
func NewManager(repo PriceRepository, store ModelStore, fitter *Fitter, forecaster *Forecaster, opts ...Option) *Manager {
	m := &Manager{
		fitter:     fitter,
		store:      store,
		forecaster: forecaster,
		locker:     lock.NewLocal(),
		publisher:  events.Noop{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.wrangler = NewWrangler(repo, m.rec)
	return m
}

// Fit wrangles the ticker's data, fits GARCH(P,Q), persists the model and
// returns its artifact id and diagnostics.
func (m *Manager) Fit(ctx context.Context, p FitParams) (res *FitResult, err error) {
	start := time.Now()
	defer func() { m.rec.ObserveFit(outcome(err), time.Since(start)) }()

	ticker, err := models.NormalizeTicker(p.Ticker)
	if err != nil {
		return nil, err
	}
	spec := garch.Spec{Ticker: ticker, P: p.P, Q: p.Q}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if p.NObservations < 2 {
		return nil, fmt.Errorf("n_observations=%d: at least 2 are needed for one return: %w", p.NObservations, errs.ErrInsufficientData)
	}

	release, err := m.locker.Acquire(ctx, ticker)
	if err != nil {
		return nil, err
	}
	defer release()

	if m.fitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.fitTimeout)
		defer cancel()
	}

	series, err := m.wrangler.Wrangle(ctx, ticker, p.UseNewData, p.NObservations)
	if err != nil {
		return nil, err
	}
	model, err := m.fitter.Fit(ctx, series, spec)
	if err != nil {
		return nil, err
	}
	id, err := m.store.Dump(ctx, model)
	if err != nil {
		return nil, err
	}

	ev := events.ModelFitted{
		ArtifactID:  id,
		Ticker:      ticker,
		P:           spec.P,
		Q:           spec.Q,
		Diagnostics: model.Diagnostics,
		FittedAt:    model.FittedAt,
	}
	if perr := m.publisher.PublishModelFitted(ctx, ev); perr != nil {
		logger.L().Warn().Str("artifact_id", id).Err(perr).Msg("publish model event failed")
	}

	return &FitResult{ArtifactID: id, Diagnostics: model.Diagnostics, Model: model}, nil
}

// Predict loads the latest model of ticker and forecasts nDays trading days.
func (m *Manager) Predict(ctx context.Context, ticker string, nDays int) (fc models.Forecast, err error) {
	start := time.Now()
	defer func() { m.rec.ObservePredict(outcome(err), time.Since(start)) }()

	if err := m.forecaster.checkHorizon(nDays); err != nil {
		return models.Forecast{}, err
	}
	ticker, err = models.NormalizeTicker(ticker)
	if err != nil {
		return models.Forecast{}, err
	}
	model, err := m.store.Load(ctx, ticker)
	if err != nil {
		return models.Forecast{}, err
	}
	return m.forecaster.Predict(model, nDays)
}

// History lists the persisted models of ticker, newest first.
func (m *Manager) History(ctx context.Context, ticker string) ([]models.ArtifactInfo, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return m.store.History(ctx, ticker)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return errs.Code(err)
}
