package dto

import "github.com/guttosm/garchcast/internal/domain/models"

// FitRequest is the body of POST /api/v1/fit.
type FitRequest struct {
	Ticker        string `json:"ticker" binding:"required" example:"ABC"` // Ticker to fit
	UseNewData    bool   `json:"use_new_data" example:"false"`            // Refresh prices from upstream first
	NObservations int    `json:"n_observations" example:"2000"`           // Most recent prices to use
	P             int    `json:"p" example:"1"`                           // Lagged variance (GARCH) terms
	Q             int    `json:"q" example:"1"`                           // Lagged squared residual (ARCH) terms
}

// FitResponse echoes the request and reports the outcome. Diagnostics and
// ArtifactID are only present on success; ErrorCode only on failure.
type FitResponse struct {
	FitRequest
	Success     bool                `json:"success" example:"true"`
	Message     string              `json:"message" example:"Trained and saved 'ABC_20241018T210000.000000Z'. Metrics AIC 2231.47, BIC 2248.33."`
	ErrorCode   string              `json:"error_code,omitempty" example:"insufficient_data"`
	ArtifactID  string              `json:"artifact_id,omitempty" example:"ABC_20241018T210000.000000Z"`
	Diagnostics *models.Diagnostics `json:"diagnostics,omitempty"`
}
