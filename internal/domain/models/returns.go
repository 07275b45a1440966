package models

import "time"

// ReturnScale converts a fractional price change into the percentage units
// used for fitting.
const ReturnScale = 100.0

// ReturnPoint is the percentage return realised at Timestamp relative to the
// previous observation.
type ReturnPoint struct {
	Timestamp time.Time
	Value     float64
}

// ReturnSeries is the cleaned, strictly ascending return series of a ticker.
//
// A series built from n observations has n-1 points: the first observation has
// no prior price to compare against.
type ReturnSeries struct {
	Ticker string
	Points []ReturnPoint
}

// Len returns the number of return points.
func (s ReturnSeries) Len() int { return len(s.Points) }

// Values returns the return values in order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// LastTimestamp returns the timestamp of the most recent point, or the zero
// time for an empty series.
func (s ReturnSeries) LastTimestamp() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Timestamp
}
