package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guttosm/garchcast/internal/domain/dto"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/service"
)

func TestNewRouter_WiringAndMiddlewares(t *testing.T) {
	svc := &fakeLifecycle{fitRes: &service.FitResult{ArtifactID: "ABC_20241018T210000.000000Z", Diagnostics: models.Diagnostics{AIC: 1, BIC: 2}}}
	r := NewRouter(NewHandler(svc), RouterOptions{Registry: prometheus.NewRegistry()})

	w := do(r, http.MethodPost, "/api/v1/fit", `{"ticker":"ABC","n_observations":100,"p":1,"q":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	var out dto.FitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if !out.Success || out.ArtifactID == "" {
		t.Fatalf("unexpected body: %+v", out)
	}

	m := do(r, http.MethodGet, "/metrics", "")
	if m.Code != http.StatusOK {
		t.Fatalf("metrics status %d", m.Code)
	}
	if !strings.Contains(m.Body.String(), `http_requests_total{method="POST",route="/api/v1/fit",status="200"} 1`) {
		t.Fatalf("fit request not counted:\n%s", m.Body.String())
	}
}

func TestNewRouter_WithoutRegistry(t *testing.T) {
	r := NewRouter(NewHandler(&fakeLifecycle{}), RouterOptions{})
	if w := do(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected /metrics to be absent, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/hello", ""); w.Code != http.StatusOK {
		t.Fatalf("hello status %d", w.Code)
	}
}

func TestNewRouter_RateLimit(t *testing.T) {
	r := NewRouter(NewHandler(&fakeLifecycle{}), RouterOptions{RateLimitRPS: 0.001, RateLimitBurst: 2})
	var last int
	for i := 0; i < 3; i++ {
		last = do(r, http.MethodGet, "/hello", "").Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}
