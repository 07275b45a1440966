package artifact

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/garch"
	"github.com/guttosm/garchcast/internal/logger"
)

// Persister saves fitted models and loads them back by ticker or id.
type Persister struct {
	store Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewPersister returns a Persister over store.
func NewPersister(store Store) *Persister {
	return &Persister{store: store, now: time.Now}
}

// Dump stamps m with its fit time and writes it. The stamp is truncated to
// microseconds and is strictly later than any artifact already stored for the
// ticker, so "latest" is always the most recent Dump.
func (p *Persister) Dump(ctx context.Context, m *garch.Model) (string, error) {
	ticker, err := models.NormalizeTicker(m.Spec.Ticker)
	if err != nil {
		return "", fmt.Errorf("dump: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	history, err := p.store.List(ctx, ticker)
	if err != nil {
		return "", err
	}
	at := p.now().UTC().Truncate(time.Microsecond)
	if len(history) > 0 && !at.After(history[0].FittedAt) {
		at = history[0].FittedAt.Add(time.Microsecond)
	}

	saved := *m
	saved.Spec.Ticker = ticker
	saved.FittedAt = at
	payload, err := Encode(&saved)
	if err != nil {
		return "", err
	}

	id := NewID(ticker, at)
	if err := p.store.Put(ctx, models.ArtifactInfo{ID: id, Ticker: ticker, FittedAt: at}, payload); err != nil {
		return "", err
	}
	m.Spec.Ticker = ticker
	m.FittedAt = at

	logger.L().Info().Str("artifact_id", id).Int("bytes", len(payload)).Msg("model artifact saved")
	return id, nil
}

// Load resolves idOrTicker. An artifact id loads that exact artifact; a bare
// ticker loads its latest one. Nothing stored yields errs.ErrArtifactNotFound.
func (p *Persister) Load(ctx context.Context, idOrTicker string) (*garch.Model, error) {
	key := strings.TrimSpace(idOrTicker)
	if key == "" {
		return nil, fmt.Errorf("load: empty ticker: %w", errs.ErrInvalidParameter)
	}

	id := key
	if _, ok := info(key); !ok {
		ticker, err := models.NormalizeTicker(key)
		if err != nil {
			return nil, err
		}
		history, err := p.store.List(ctx, ticker)
		if err != nil {
			return nil, err
		}
		if len(history) == 0 {
			return nil, fmt.Errorf("no trained model for %s: %w", ticker, errs.ErrArtifactNotFound)
		}
		id = history[0].ID
	}

	payload, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", id, err)
	}
	return m, nil
}

// History lists a ticker's artifacts, newest first.
func (p *Persister) History(ctx context.Context, ticker string) ([]models.ArtifactInfo, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return p.store.List(ctx, ticker)
}

func notFound(id string) error {
	return fmt.Errorf("artifact %s: %w", id, errs.ErrArtifactNotFound)
}
