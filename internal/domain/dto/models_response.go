package dto

import "github.com/guttosm/garchcast/internal/domain/models"

// ModelHistoryResponse lists the persisted models of a ticker, newest first.
type ModelHistoryResponse struct {
	Ticker string                `json:"ticker" example:"ABC"`
	Models []models.ArtifactInfo `json:"models"`
}
