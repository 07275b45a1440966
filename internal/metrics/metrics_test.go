package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveFit("ok", 2*time.Second)
	r.ObserveFit("convergence", time.Second)
	r.ObserveFit("ok", time.Second)
	r.ObservePredict("artifact_not_found", time.Millisecond)
	r.AddRefreshedRows(120)
	r.AddRefreshedRows(-1)

	if got := testutil.ToFloat64(r.fits.WithLabelValues("ok")); got != 2 {
		t.Fatalf("fits ok=%v, want 2", got)
	}
	if got := testutil.ToFloat64(r.fits.WithLabelValues("convergence")); got != 1 {
		t.Fatalf("fits convergence=%v, want 1", got)
	}
	if got := testutil.ToFloat64(r.predicts.WithLabelValues("artifact_not_found")); got != 1 {
		t.Fatalf("predicts=%v, want 1", got)
	}
	if got := testutil.ToFloat64(r.refreshedRows); got != 120 {
		t.Fatalf("refreshed=%v, want 120", got)
	}
	if n := testutil.CollectAndCount(r.fitDuration); n != 1 {
		t.Fatalf("fit duration series=%d, want 1", n)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveFit("ok", time.Second)
	r.ObservePredict("ok", time.Second)
	r.AddRefreshedRows(1)
}
