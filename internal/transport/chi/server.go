// Package chi is an in-memory fake of the Pinecone REST API, routed with chi.
// It serves the controller host and every data-plane host of one project and
// is used by end-to-end tests of the SDK and the CLI.
package chi

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pinecone-go/internal/metrics"
)

// Error codes of the API error envelope.
const (
	CodeInvalidArgument = 3
	CodeNotFound        = 5
	CodeAlreadyExists   = 6
	CodeUnauthenticated = 16
)

// Config configures the fake API.
type Config struct {
	Environment string
	// Domain defaults to pinecone.io.
	Domain  string
	Project string
	// APIKeys accepted in the Api-Key header. Empty disables authentication.
	APIKeys []string
	Logger  *zap.Logger
	// Metrics may be nil.
	Metrics *metrics.ServerMetrics
}

// Server holds the state of one fake project.
type Server struct {
	cfg        Config
	logger     *zap.Logger
	controller http.Handler
	dataPlane  http.Handler

	mu          sync.Mutex
	indexes     map[string]*index
	collections map[string]*collection
}

// NewServer creates an empty fake project.
func NewServer(cfg Config) *Server {
	if cfg.Domain == "" {
		cfg.Domain = "pinecone.io"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:         cfg,
		logger:      log,
		indexes:     make(map[string]*index),
		collections: make(map[string]*collection),
	}
	s.controller = s.controllerRouter()
	s.dataPlane = s.dataPlaneRouter()
	return s
}

// ControllerHost is the host name of the control plane.
func (s *Server) ControllerHost() string {
	return "controller." + s.cfg.Environment + "." + s.cfg.Domain
}

// ServeHTTP routes by Host: the controller host, or <index>-<project>.svc.<env>.<domain>.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	if host == s.ControllerHost() {
		s.controller.ServeHTTP(w, r)
		return
	}
	name, ok := s.indexFromHost(host)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "unknown host "+host)
		return
	}
	s.dataPlane.ServeHTTP(w, r.WithContext(withIndexName(r.Context(), name)))
}

func (s *Server) indexFromHost(host string) (string, bool) {
	prefix, ok := strings.CutSuffix(host, ".svc."+s.cfg.Environment+"."+s.cfg.Domain)
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(prefix, "-"+s.cfg.Project)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Use(APIKeyMiddleware(s.cfg.APIKeys))
	if s.cfg.Metrics != nil {
		r.Use(s.cfg.Metrics.Middleware())
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeInvalidArgument, "method not allowed")
	})
	return r
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				s.logger.Error("panic in handler", zap.Any("panic", rv), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, 13, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Client returns an *http.Client that serves every request in process,
// whatever its host.
func (s *Server) Client() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, r)
		return rec.Result(), nil
	})}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type apiError struct {
	Code    int32       `json:"code"`
	Message string      `json:"message"`
	Details []errDetail `json:"details"`
}

type errDetail struct {
	TypeURL string `json:"typeUrl"`
	Value   string `json:"value"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, code int32, message string) {
	writeJSON(w, status, apiError{Code: code, Message: message, Details: []errDetail{}})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "invalid request body: "+err.Error())
		return false
	}
	return true
}
