// Package rest implements transport.Performer on net/http.
package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kailas-cloud/pinecone-go/internal/transport"
)

const defaultTimeout = 30 * time.Second

// maxResponseBytes bounds how much of a response body is buffered.
const maxResponseBytes = 64 << 20

// ErrResponseTooLarge is returned for bodies over the buffering limit.
var ErrResponseTooLarge = errors.New("response body too large")

// Client sends calls with an *http.Client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	maxBody    int64
}

var _ transport.Performer = (*Client)(nil)

// New wraps hc. A nil hc gets a client with a 30s timeout.
func New(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{httpClient: hc, maxBody: maxResponseBytes}
}

// NewWithTimeout builds a client with its own *http.Client.
func NewWithTimeout(timeout time.Duration, rt http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout, Transport: rt}, maxBody: maxResponseBytes}
}

// Perform implements transport.Performer.
func (c *Client) Perform(ctx context.Context, call transport.Call) (transport.Response, error) {
	var body io.Reader = http.NoBody
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, call.URL, body)
	if err != nil {
		return transport.Response{}, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range call.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transport.Response{}, fmt.Errorf("%s %s: %w", call.Method, req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return transport.Response{}, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.maxBody {
		return transport.Response{}, fmt.Errorf("%s %s: %w (limit %d bytes)",
			call.Method, req.URL.Redacted(), ErrResponseTooLarge, c.maxBody)
	}
	return transport.Response{StatusCode: resp.StatusCode, Body: data}, nil
}
