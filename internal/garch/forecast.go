package garch

import (
	"fmt"

	"github.com/guttosm/garchcast/internal/domain/errs"
)

// ForecastVariance returns the conditional variance forecasts for the next
// horizon periods. Beyond one step, future squared residuals are replaced by
// their expectation, the forecast variance itself.
//
// The computation only reads Params and State, so a model reloaded from an
// artifact forecasts exactly like the model that was saved.
func (m *Model) ForecastVariance(horizon int) ([]float64, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("horizon %d: must be at least 1: %w", horizon, errs.ErrInvalidHorizon)
	}
	if err := m.checkState(); err != nil {
		return nil, err
	}

	q, p := len(m.Params.Alpha), len(m.Params.Beta)
	e2 := make([]float64, q, q+horizon)
	for i, e := range m.State.Residuals {
		e2[i] = e * e
	}
	s2 := make([]float64, p, p+horizon)
	copy(s2, m.State.Variances)

	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		v := m.Params.Omega
		for i := 1; i <= q; i++ {
			v += m.Params.Alpha[i-1] * e2[len(e2)-i]
		}
		for j := 1; j <= p; j++ {
			v += m.Params.Beta[j-1] * s2[len(s2)-j]
		}
		out[h] = v
		e2 = append(e2, v)
		s2 = append(s2, v)
	}
	return out, nil
}

func (m *Model) checkState() error {
	if len(m.Params.Alpha) != m.Spec.Q || len(m.Params.Beta) != m.Spec.P {
		return fmt.Errorf("%s: coefficient count does not match lag orders", m.Spec)
	}
	if len(m.State.Residuals) != m.Spec.Q || len(m.State.Variances) != m.Spec.P {
		return fmt.Errorf("%s: forecast state does not match lag orders", m.Spec)
	}
	return nil
}

// Validate reports whether a model decoded from storage is usable.
func (m *Model) Validate() error {
	if err := m.Spec.Validate(); err != nil {
		return err
	}
	if err := m.checkState(); err != nil {
		return err
	}
	if !(m.Params.Omega > 0) {
		return fmt.Errorf("%s: omega must be positive", m.Spec)
	}
	return nil
}
