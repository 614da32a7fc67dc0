package pinecone

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/pinecone-go/internal/dispatch"
	"github.com/kailas-cloud/pinecone-go/internal/logger"
	"github.com/kailas-cloud/pinecone-go/internal/metrics"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/internal/transport"
	"github.com/kailas-cloud/pinecone-go/internal/transport/rest"
	"github.com/kailas-cloud/pinecone-go/internal/urlbuilder"
	"github.com/kailas-cloud/pinecone-go/internal/version"
	"github.com/kailas-cloud/pinecone-go/result"
)

const (
	defaultScheme  = "https"
	defaultDomain  = "pinecone.io"
	defaultTimeout = 30 * time.Second

	instrumentationName = "github.com/kailas-cloud/pinecone-go"
)

// Client is the Pinecone SDK entry point. It is safe for concurrent use.
type Client struct {
	dispatcher *dispatch.Dispatcher
	urls       *urlbuilder.Project
	metadata   APIMetadata
	embedder   Embedder
}

// New validates the options, performs the WhoAmI bootstrap call and returns
// a Client bound to the caller's project. Data-plane operations are only
// reachable through the returned Client, after the project is known.
//
// A failed bootstrap returns an error wrapping ErrBootstrap and the
// *result.Error of the call.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		scheme:  defaultScheme,
		domain:  defaultDomain,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("%w: api key required (use WithAPIKey)", ErrInvalidConfig)
	}
	if cfg.rateLimit < 0 {
		return nil, fmt.Errorf("%w: negative rate limit", ErrInvalidConfig)
	}

	controller, err := urlbuilder.NewController(cfg.environment, urlbuilder.Endpoint{
		Scheme: cfg.scheme,
		Domain: cfg.domain,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	d, err := newDispatcher(cfg, controller)
	if err != nil {
		return nil, err
	}

	meta, err := dispatch.Do(ctx, d, dispatch.NewRequest(operation.WhoAmI), parseAPIMetadata).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	project, err := controller.WithProject(meta.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	return &Client{
		dispatcher: d.WithURLs(project),
		urls:       project,
		metadata:   meta,
		embedder:   cfg.embedder,
	}, nil
}

func newDispatcher(cfg *clientConfig, urls dispatch.URLBuilder) (*dispatch.Dispatcher, error) {
	var perf transport.Performer
	switch {
	case cfg.transport != nil:
		perf = cfg.transport
	case cfg.httpClient != nil:
		perf = rest.New(cfg.httpClient)
	default:
		perf = rest.NewWithTimeout(cfg.timeout, nil)
	}

	dc := dispatch.Config{
		Transport: perf,
		URLs:      urls,
		APIKey:    cfg.apiKey,
		UserAgent: "pinecone-go/" + version.Version,
		Logger:    cfg.logger,
	}
	if cfg.rateLimit > 0 {
		burst := cfg.rateBurst
		if burst < 1 {
			burst = 1
		}
		dc.Limiter = rate.NewLimiter(rate.Limit(cfg.rateLimit), burst)
	}
	if cfg.metricsReg != nil {
		m, err := metrics.NewClientMetrics(cfg.metricsReg)
		if err != nil {
			return nil, err
		}
		dc.Metrics = m
	}
	if cfg.tracerProvider != nil {
		dc.Tracer = cfg.tracerProvider.Tracer(instrumentationName)
	}

	d, err := dispatch.New(dc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return d, nil
}

// Metadata returns the WhoAmI answer obtained at construction.
func (c *Client) Metadata() APIMetadata { return c.metadata }

// Environment returns the configured environment.
func (c *Client) Environment() string { return c.urls.Environment() }

// IndexHost returns the data-plane host name of an index. It fails when the
// name is not a valid index name.
func (c *Client) IndexHost(index string) (string, error) { return c.urls.IndexHost(index) }

// WhoAmI repeats the bootstrap call.
func (c *Client) WhoAmI(ctx context.Context) result.Result[APIMetadata] {
	return dispatch.Do(ctx, c.dispatcher, dispatch.NewRequest(operation.WhoAmI), parseAPIMetadata)
}

// Indexes returns the index management service.
func (c *Client) Indexes() *IndexService {
	return &IndexService{d: c.dispatcher}
}

// Collections returns the collection management service.
func (c *Client) Collections() *CollectionService {
	return &CollectionService{d: c.dispatcher}
}

// Vectors returns the data-plane service of one index.
func (c *Client) Vectors(index string) *VectorService {
	return &VectorService{index: index, d: c.dispatcher, embedder: c.embedder}
}

// ContextWithLogger returns a context whose calls log to l instead of the
// client logger.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return logger.ContextWithLogger(ctx, l)
}

// send dispatches req, or reports err as a rejected request when the request
// could not be built.
func send[T any](
	ctx context.Context, d *dispatch.Dispatcher, req dispatch.Request, err error, parse dispatch.Parser[T],
) result.Result[T] {
	if err != nil {
		return result.TransportRejected[T](err)
	}
	return dispatch.Do(ctx, d, req, parse)
}
