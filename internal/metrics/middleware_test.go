package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newServerMetrics(t *testing.T) *ServerMetrics {
	t.Helper()
	m, err := NewServerMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewServerMetrics: %v", err)
	}
	return m
}

func TestServerMiddleware_RecordsRoutePattern(t *testing.T) {
	m := newServerMetrics(t)
	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/databases/{name}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	for _, name := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/databases/"+name, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
	}

	got := testutil.ToFloat64(m.Requests().WithLabelValues("GET", "/databases/{name}", "200"))
	if got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if testutil.CollectAndCount(m.duration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestServerMiddleware_StatusCodes(t *testing.T) {
	m := newServerMetrics(t)
	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	r.Delete("/accepted", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

	tests := []struct {
		method, path, status string
	}{
		{"GET", "/ok", "200"},
		{"GET", "/missing", "404"},
		{"DELETE", "/accepted", "202"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))
			if v := testutil.ToFloat64(m.Requests().WithLabelValues(tc.method, tc.path, tc.status)); v != 1 {
				t.Errorf("requests_total = %v, want 1", v)
			}
		})
	}
}

func TestNewServerMetrics_Reuses(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewServerMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewServerMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	if a.requests != b.requests {
		t.Error("second registration did not reuse the collector")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/databases/{name}", "/databases/{name}"},
		{"/query", "/query"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
