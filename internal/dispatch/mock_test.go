package dispatch

import (
	"context"

	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/internal/transport"
)

// --- transport mock ---

type mockPerformer struct {
	performFn func(ctx context.Context, call transport.Call) (transport.Response, error)
	calls     []transport.Call
}

func (m *mockPerformer) Perform(ctx context.Context, call transport.Call) (transport.Response, error) {
	m.calls = append(m.calls, call)
	return m.performFn(ctx, call)
}

func respond(status int, body string) *mockPerformer {
	return &mockPerformer{
		performFn: func(context.Context, transport.Call) (transport.Response, error) {
			return transport.Response{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

// --- url builder mock ---

type mockURLs struct {
	buildFn func(k operation.Kind, resource string) (string, error)
}

func (m *mockURLs) Build(k operation.Kind, resource string) (string, error) {
	return m.buildFn(k, resource)
}

func staticURLs(base string) *mockURLs {
	return &mockURLs{buildFn: func(k operation.Kind, resource string) (string, error) {
		return base + k.Fragment() + resource, nil
	}}
}
