package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	const incoming = "6f1c1c33-2b8e-4b8f-9a52-0d6a5d0f4e11"

	cases := []struct {
		name   string
		header string
		reuse  bool
	}{
		{name: "generated when absent", header: "", reuse: false},
		{name: "reused when valid", header: incoming, reuse: true},
		{name: "replaced when malformed", header: "not-a-uuid", reuse: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID())
			var seen string
			r.GET("/", func(c *gin.Context) {
				seen = c.GetString(RequestIDKey)
				c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatalf("missing request id header")
			}
			if got != seen {
				t.Fatalf("header %q differs from context %q", got, seen)
			}
			if tc.reuse && got != incoming {
				t.Fatalf("id=%q, want %q", got, incoming)
			}
			if !tc.reuse && got == tc.header {
				t.Fatalf("expected a fresh id, got %q", got)
			}
		})
	}
}
