// Package transport defines the HTTP engine the dispatcher talks to.
package transport

import (
	"context"
	"net/http"
)

// Call is one fully prepared HTTP request.
type Call struct {
	Method string
	URL    string
	Header http.Header
	// Body is nil for requests without a body.
	Body []byte
}

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Performer sends a call and returns the buffered response. An error means
// no HTTP response was produced: dial, TLS, timeout or request setup failed.
// A non-2xx status is not an error.
type Performer interface {
	Perform(ctx context.Context, call Call) (Response, error)
}

// PerformerFunc adapts a function to Performer.
type PerformerFunc func(ctx context.Context, call Call) (Response, error)

// Perform implements Performer.
func (f PerformerFunc) Perform(ctx context.Context, call Call) (Response, error) {
	return f(ctx, call)
}
