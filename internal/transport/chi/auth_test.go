package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		path    string
		header  http.Header
		want    int
		message string
	}{
		{name: "auth disabled", keys: nil, path: "/databases", want: http.StatusOK},
		{name: "only blank keys", keys: []string{"", ""}, path: "/databases", want: http.StatusOK},
		{name: "valid key", keys: []string{"k1"}, path: "/vectors/upsert", header: http.Header{HeaderAPIKey: {"k1"}}, want: http.StatusOK},
		{name: "second key", keys: []string{"k1", "k2"}, path: "/query", header: http.Header{HeaderAPIKey: {"k2"}}, want: http.StatusOK},
		{name: "health exempt", keys: []string{"k1"}, path: "/health", want: http.StatusOK},
		{name: "metrics exempt", keys: []string{"k1"}, path: "/metrics", want: http.StatusOK},
		{name: "missing", keys: []string{"k1"}, path: "/actions/whoami", want: http.StatusUnauthorized, message: "missing Api-Key header"},
		{name: "wrong", keys: []string{"k1"}, path: "/databases", header: http.Header{HeaderAPIKey: {"k9"}}, want: http.StatusUnauthorized, message: "invalid api key"},
		{name: "bearer is not api key", keys: []string{"k1"}, path: "/databases", header: http.Header{"Authorization": {"Bearer k1"}}, want: http.StatusUnauthorized, message: "missing Api-Key header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			h := APIKeyMiddleware(tt.keys)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			for k, vs := range tt.header {
				req.Header[k] = vs
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if reached != (tt.want == http.StatusOK) {
				t.Errorf("handler reached = %v", reached)
			}
			if tt.message == "" {
				return
			}
			var body apiError
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != CodeUnauthenticated || body.Message != tt.message {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
