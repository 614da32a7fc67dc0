// Package dispatch sends operation requests and classifies their outcome.
//
// A call goes through four steps: resolve method and URL from the catalog,
// attach the fixed headers, hand the call to the transport, then classify the
// status and run the operation's parser. Every call yields exactly one
// result.Result; nothing is retried.
package dispatch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/pinecone-go/internal/logger"
	"github.com/kailas-cloud/pinecone-go/internal/metrics"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/internal/transport"
	"github.com/kailas-cloud/pinecone-go/result"
)

const instrumentationName = "github.com/kailas-cloud/pinecone-go"

// Wire headers.
const (
	HeaderAPIKey      = "Api-Key"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json; charset=utf-8"
)

// URLBuilder resolves an operation to its URL. The controller-only builder
// rejects data-plane kinds; the project-bound builder serves all kinds.
type URLBuilder interface {
	Build(k operation.Kind, resource string) (string, error)
}

// Config wires a Dispatcher. Transport and URLs are required.
type Config struct {
	Transport transport.Performer
	URLs      URLBuilder
	APIKey    string
	UserAgent string

	// Limiter, when set, is waited on before every call.
	Limiter *rate.Limiter
	Logger  *zap.Logger
	Metrics *metrics.ClientMetrics
	Tracer  trace.Tracer
}

// Dispatcher performs calls. It holds no per-call state.
type Dispatcher struct {
	transport transport.Performer
	urls      URLBuilder
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
	metrics   *metrics.ClientMetrics
	tracer    trace.Tracer
}

// New validates cfg and builds a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Transport == nil {
		return nil, errors.New("dispatch: transport is required")
	}
	if cfg.URLs == nil {
		return nil, errors.New("dispatch: url builder is required")
	}
	d := &Dispatcher{
		transport: cfg.Transport,
		urls:      cfg.URLs,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		limiter:   cfg.Limiter,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    cfg.Tracer,
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(instrumentationName)
	}
	return d, nil
}

// WithURLs returns a copy of d resolving URLs through u.
func (d *Dispatcher) WithURLs(u URLBuilder) *Dispatcher {
	cp := *d
	cp.urls = u
	return &cp
}

// Do sends req and parses a success response with parse.
//
//   - the URL cannot be built or the transport fails: TransportRejected
//   - status outside {200, 201, 202}: RequestFailed with the raw body
//   - otherwise: whatever parse returns
func Do[T any](ctx context.Context, d *Dispatcher, req Request, parse Parser[T]) (res result.Result[T]) {
	start := time.Now()
	op := req.kind.String()
	callID := uuid.NewString()

	ctx, span := d.tracer.Start(ctx, "pinecone."+op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("pinecone.operation", op),
		attribute.String("pinecone.call_id", callID),
	)

	var (
		call   transport.Call
		status int
	)
	defer func() {
		d.observe(ctx, span, observation{
			op:     op,
			callID: callID,
			method: call.Method,
			url:    call.URL,
			status: status,
			start:  start,
			err:    res.Err(),
		})
		span.End()
	}()

	call, err := d.prepare(req)
	if err != nil {
		return result.TransportRejected[T](err)
	}

	resp, rerr := d.send(ctx, call)
	if rerr != nil {
		return result.Fail[T](rerr)
	}
	status = resp.StatusCode

	if !IsSuccess(resp.StatusCode) {
		return result.RequestFailed[T](resp.StatusCode, resp.Body)
	}
	return parse(resp.Body)
}

// prepare resolves method, URL, headers and body.
func (d *Dispatcher) prepare(req Request) (transport.Call, error) {
	desc, ok := operation.Describe(req.kind)
	if !ok {
		return transport.Call{}, errors.New("dispatch: unknown operation")
	}
	url, err := d.urls.Build(req.kind, req.resource)
	if err != nil {
		return transport.Call{}, err
	}
	if req.query != "" {
		url += "?" + req.query
	}

	h := make(http.Header, 3)
	h.Set(HeaderContentType, ContentTypeJSON)
	h.Set(HeaderAPIKey, d.apiKey)
	if d.userAgent != "" {
		h.Set("User-Agent", d.userAgent)
	}

	return transport.Call{
		Method: desc.Method,
		URL:    url,
		Header: h,
		Body:   req.body,
	}, nil
}

func (d *Dispatcher) send(ctx context.Context, call transport.Call) (transport.Response, *result.Error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return transport.Response{}, result.NewTransportRejected(err)
		}
	}
	resp, err := d.transport.Perform(ctx, call)
	if err != nil {
		return transport.Response{}, result.NewTransportRejected(err)
	}
	return resp, nil
}

type observation struct {
	op     string
	callID string
	method string
	url    string
	status int
	start  time.Time
	err    *result.Error
}

// observe logs, counts and annotates the span of one finished call.
func (d *Dispatcher) observe(ctx context.Context, span trace.Span, o observation) {
	dur := time.Since(o.start)

	outcome := "ok"
	if o.err != nil {
		outcome = o.err.Kind.String()
	}
	d.metrics.Observe(o.op, outcome, o.status, dur)

	if o.method != "" {
		span.SetAttributes(
			attribute.String("http.request.method", o.method),
			attribute.String("url.full", o.url),
		)
	}
	if o.status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", o.status))
	}

	fields := []zap.Field{
		zap.String("op", o.op),
		zap.String("call_id", o.callID),
		zap.String("method", o.method),
		zap.Int("status", o.status),
		zap.Duration("duration", dur),
	}
	log := logger.FromContextOr(ctx, d.logger)
	if o.err != nil {
		span.RecordError(o.err)
		span.SetStatus(codes.Error, o.err.Kind.String())
		log.Warn("operation failed", append(fields, zap.Error(o.err))...)
		return
	}
	span.SetStatus(codes.Ok, "")
	log.Debug("operation completed", fields...)
}
