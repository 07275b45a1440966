package dto

// PredictRequest is the body of POST /api/v1/predict.
type PredictRequest struct {
	Ticker string `json:"ticker" binding:"required" example:"ABC"`
	NDays  int    `json:"n_days" example:"5"`
}

// PredictResponse echoes the request. Forecast maps RFC 3339 dates to the
// predicted daily volatility, in percent.
type PredictResponse struct {
	PredictRequest
	Success   bool               `json:"success" example:"true"`
	Forecast  map[string]float64 `json:"forecast,omitempty"`
	Message   string             `json:"message" example:""`
	ErrorCode string             `json:"error_code,omitempty" example:"artifact_not_found"`
}
