package pinecone

import (
	"context"
	"errors"
	"sync"

	"github.com/kailas-cloud/pinecone-go/internal/transport"
)

// --- transport mock ---

type mockPerformer struct {
	mu        sync.Mutex
	performFn func(ctx context.Context, call transport.Call) (transport.Response, error)
	calls     []transport.Call
}

func (m *mockPerformer) Perform(ctx context.Context, call transport.Call) (transport.Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
	return m.performFn(ctx, call)
}

func (m *mockPerformer) last() transport.Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return transport.Call{}
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockPerformer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

const whoAmIBody = `{"project_name":"proj","user_label":"default","user_name":"u"}`

// bootstrapThen answers WhoAmI and hands every later call to fn.
func bootstrapThen(fn func(call transport.Call) (int, string)) *mockPerformer {
	return &mockPerformer{
		performFn: func(_ context.Context, call transport.Call) (transport.Response, error) {
			if len(call.URL) > 0 && call.Method == "GET" && hasSuffix(call.URL, "/actions/whoami") {
				return transport.Response{StatusCode: 200, Body: []byte(whoAmIBody)}, nil
			}
			status, body := fn(call)
			return transport.Response{StatusCode: status, Body: []byte(body)}, nil
		},
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

var errConnRefused = errors.New("connection refused")

// --- embedder mocks ---

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchFn func(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	return m.batchFn(ctx, texts)
}

// lengthEmbedder embeds a text as [len(text), 1].
func lengthEmbedder() *mockEmbedder {
	return &mockEmbedder{embedFn: func(_ context.Context, text string) (EmbeddingResult, error) {
		return EmbeddingResult{Embedding: []float32{float32(len(text)), 1}}, nil
	}}
}
