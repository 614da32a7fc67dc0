package pinecone

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pinecone-go/internal/transport"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	environment string
	apiKey      string
	scheme      string
	domain      string

	httpClient *http.Client
	timeout    time.Duration
	transport  transport.Performer

	rateLimit float64
	rateBurst int

	embedder Embedder

	logger         *zap.Logger
	metricsReg     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

// WithEnvironment sets the deployment environment, e.g. "us-west1-gcp".
// Required.
func WithEnvironment(env string) Option {
	return optionFunc(func(c *clientConfig) {
		c.environment = env
	})
}

// WithAPIKey sets the credential sent in the Api-Key header. Required.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithEndpoint overrides the scheme and base domain of every host.
// Defaults: https, pinecone.io.
func WithEndpoint(scheme, domain string) Option {
	return optionFunc(func(c *clientConfig) {
		c.scheme = scheme
		c.domain = domain
	})
}

// WithHTTPClient sets the *http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Ignored when WithHTTPClient or WithTransport is given. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithTransport replaces the HTTP engine entirely. Mostly useful in tests.
func WithTransport(p transport.Performer) Option {
	return optionFunc(func(c *clientConfig) {
		c.transport = p
	})
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
// A zero rps disables limiting (default).
func WithRateLimit(rps float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rateLimit = rps
		c.rateBurst = burst
	})
}

// WithEmbedder sets the text embedding provider used by QueryText and
// UpsertText.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithLogger enables structured logging of every call.
// Pass nil to disable (default). A logger stored in the call context with
// ContextWithLogger takes precedence.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts, durations and
// response codes) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// WithTracerProvider sets the provider of the per-call spans. Defaults to the
// global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.tracerProvider = tp
	})
}
