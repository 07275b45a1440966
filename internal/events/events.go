// Package events announces completed model fits to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/guttosm/garchcast/internal/domain/models"
)

// ModelFitted is published after a model has been fitted and persisted.
type ModelFitted struct {
	ArtifactID  string             `json:"artifact_id"`
	Ticker      string             `json:"ticker"`
	P           int                `json:"p"`
	Q           int                `json:"q"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
	FittedAt    time.Time          `json:"fitted_at"`
}

// Publisher delivers fit events. Failures are reported but never undo a fit.
type Publisher interface {
	PublishModelFitted(ctx context.Context, e ModelFitted) error
	Close() error
}

// Noop discards events.
type Noop struct{}

func (Noop) PublishModelFitted(context.Context, ModelFitted) error { return nil }
func (Noop) Close() error                                         { return nil }
