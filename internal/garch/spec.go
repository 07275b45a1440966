// Package garch fits GARCH(p,q) conditional-variance models by maximum
// likelihood and produces multi-step variance forecasts from a fitted model.
//
// The variance equation is
//
//	sigma2[t] = omega + sum_{i=1..q} alpha[i]*eps[t-i]^2 + sum_{j=1..p} beta[j]*sigma2[t-j]
//
// with a constant mean (eps[t] = r[t] - mu) and normal innovations. P counts the
// lagged variance terms (beta) and Q the lagged squared residuals (alpha).
package garch

import (
	"fmt"

	"github.com/guttosm/garchcast/internal/domain/errs"
)

// Spec identifies the model to fit. It is not modified once a fit starts.
type Spec struct {
	Ticker string `json:"ticker"`
	P      int    `json:"p"`
	Q      int    `json:"q"`
}

// Validate rejects negative lag orders and the p=q=0 model, which has no
// variance dynamics to estimate.
func (s Spec) Validate() error {
	if s.P < 0 || s.Q < 0 {
		return fmt.Errorf("p=%d q=%d: lag orders must be non-negative: %w", s.P, s.Q, errs.ErrInvalidParameter)
	}
	if s.P == 0 && s.Q == 0 {
		return fmt.Errorf("p=0 q=0: at least one lag order must be positive: %w", errs.ErrInvalidParameter)
	}
	return nil
}

// NumParams is the number of estimated parameters: mu, omega, Q alphas and P betas.
func (s Spec) NumParams() int { return 2 + s.P + s.Q }

func (s Spec) String() string {
	return fmt.Sprintf("%s GARCH(%d,%d)", s.Ticker, s.P, s.Q)
}
