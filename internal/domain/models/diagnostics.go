package models

import "time"

// Diagnostics are the information criteria of a fit. Lower is better; the
// values are reported as-is and never thresholded.
type Diagnostics struct {
	AIC           float64 `json:"aic" example:"2231.47"`
	BIC           float64 `json:"bic" example:"2248.33"`
	LogLikelihood float64 `json:"log_likelihood" example:"-1111.73"`
	NumObs        int     `json:"n_obs" example:"499"`
}

// ArtifactInfo describes one persisted model without decoding it.
type ArtifactInfo struct {
	ID       string    `json:"id" example:"ABC_20241018T210000.000000Z"`
	Ticker   string    `json:"ticker" example:"ABC"`
	FittedAt time.Time `json:"fitted_at" example:"2024-10-18T21:00:00Z"`
}
