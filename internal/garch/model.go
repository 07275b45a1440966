package garch

import (
	"time"

	"github.com/guttosm/garchcast/internal/domain/models"
)

// Params are the fitted coefficients.
type Params struct {
	Mu    float64   `json:"mu"`
	Omega float64   `json:"omega"`
	Alpha []float64 `json:"alpha"`
	Beta  []float64 `json:"beta"`
}

// Persistence is sum(alpha) + sum(beta); a fitted model always has it below 1.
func (p Params) Persistence() float64 {
	s := 0.0
	for _, a := range p.Alpha {
		s += a
	}
	for _, b := range p.Beta {
		s += b
	}
	return s
}

// UnconditionalVariance is the long-run variance omega / (1 - persistence).
func (p Params) UnconditionalVariance() float64 {
	return p.Omega / (1 - p.Persistence())
}

// State is the end-of-sample information needed to forecast without the
// original return series. Residuals holds the last Q residuals and Variances
// the last P conditional variances, both oldest first.
type State struct {
	LastTimestamp time.Time `json:"last_timestamp"`
	Residuals     []float64 `json:"residuals"`
	Variances     []float64 `json:"variances"`
	Backcast      float64   `json:"backcast"`
}

// Model is a fitted GARCH(p,q) model.
//
// Residuals and Variances hold the full in-sample series and are only set on
// models produced by Fit; a model reloaded from an artifact carries State only.
type Model struct {
	Spec        Spec               `json:"spec"`
	Params      Params             `json:"params"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
	Iterations  int                `json:"iterations"`
	State       State              `json:"state"`
	FittedAt    time.Time          `json:"fitted_at"`

	Residuals []float64 `json:"-"`
	Variances []float64 `json:"-"`
}
