package models

import (
	"time"
)

// ForecastDateLayout is the key format of the forecast mapping.
const ForecastDateLayout = time.RFC3339

// ForecastPoint is the predicted volatility for one future trading day.
type ForecastPoint struct {
	Date       time.Time
	Volatility float64
}

// Forecast is a calendar-indexed volatility forecast.
//
// Volatility is the conditional standard deviation per period, expressed in
// the same percentage scale as the return series the model was fit on.
type Forecast struct {
	Ticker string
	Points []ForecastPoint
}

// Map renders the forecast as the date -> volatility mapping exposed by the API.
func (f Forecast) Map() map[string]float64 {
	out := make(map[string]float64, len(f.Points))
	for _, p := range f.Points {
		out[p.Date.Format(ForecastDateLayout)] = p.Volatility
	}
	return out
}
