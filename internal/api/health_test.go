package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type assertErr struct{}

func (assertErr) Error() string { return "err" }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return assertErr{} }

	cases := []struct {
		name   string
		checks []Check
		path   string
		want   int
		failed []string
	}{
		{name: "healthz ok", checks: []Check{{Name: "db", Ping: bad}}, path: "/healthz", want: http.StatusOK},
		{name: "readyz no checks", path: "/readyz", want: http.StatusOK},
		{name: "readyz ok", checks: []Check{{Name: "db", Ping: ok}, {Name: "redis", Ping: ok}}, path: "/readyz", want: http.StatusOK},
		{name: "readyz nil ping ignored", checks: []Check{{Name: "redis"}}, path: "/readyz", want: http.StatusOK},
		{name: "readyz degraded", checks: []Check{{Name: "db", Ping: ok}, {Name: "redis", Ping: bad}}, path: "/readyz", want: http.StatusServiceUnavailable, failed: []string{"redis"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks...).Register(r)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != tc.want {
				t.Fatalf("want %d got %d", tc.want, w.Code)
			}
			if len(tc.failed) == 0 {
				return
			}
			var body struct {
				Failed map[string]string `json:"failed"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			for _, name := range tc.failed {
				if _, ok := body.Failed[name]; !ok {
					t.Fatalf("expected %q in failed checks, got %v", name, body.Failed)
				}
			}
			if len(body.Failed) != len(tc.failed) {
				t.Fatalf("failed=%v, want only %v", body.Failed, tc.failed)
			}
		})
	}
}
