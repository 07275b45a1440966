package models

import "time"

// Observation is one stored closing price of a ticker.
//
// Rows of a ticker have unique timestamps and are handed to the model
// lifecycle in ascending timestamp order.
type Observation struct {
	Timestamp time.Time `json:"timestamp" example:"2024-09-02T00:00:00Z"`
	Price     float64   `json:"price" example:"37.25"`
}
