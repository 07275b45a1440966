// Package metrics exposes Prometheus instruments for the model lifecycle.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records lifecycle metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	fits          *prometheus.CounterVec
	fitDuration   prometheus.Histogram
	predicts      *prometheus.CounterVec
	predictDur    prometheus.Histogram
	refreshedRows prometheus.Counter
}

// New registers the lifecycle instruments on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garchcast",
			Name:      "fits_total",
			Help:      "Model fits by outcome code.",
		}, []string{"outcome"}),
		fitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "garchcast",
			Name:      "fit_duration_seconds",
			Help:      "Wall time of a full fit cycle: wrangle, fit and persist.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		predicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garchcast",
			Name:      "predictions_total",
			Help:      "Forecast requests by outcome code.",
		}, []string{"outcome"}),
		predictDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "garchcast",
			Name:      "predict_duration_seconds",
			Help:      "Wall time of loading a model and forecasting.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		refreshedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "garchcast",
			Name:      "refreshed_price_rows_total",
			Help:      "Price rows upserted from the upstream source.",
		}),
	}
	reg.MustRegister(r.fits, r.fitDuration, r.predicts, r.predictDur, r.refreshedRows)
	return r
}

// ObserveFit counts one fit with its outcome ("ok" or an error code).
func (r *Recorder) ObserveFit(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.fits.WithLabelValues(outcome).Inc()
	r.fitDuration.Observe(d.Seconds())
}

// ObservePredict counts one forecast request with its outcome.
func (r *Recorder) ObservePredict(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.predicts.WithLabelValues(outcome).Inc()
	r.predictDur.Observe(d.Seconds())
}

// AddRefreshedRows adds n upserted rows.
func (r *Recorder) AddRefreshedRows(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.refreshedRows.Add(float64(n))
}
