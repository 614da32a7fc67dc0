package pinecone

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pinecone-go/internal/metrics"
	"github.com/kailas-cloud/pinecone-go/internal/transport/openai"
)

// Embedder converts text to vector embeddings.
// Required by QueryText, UpsertText and typed indexes with a content field.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// When the configured Embedder also implements it, UpsertText embeds all
// records with one call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries embeddings in input order and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// OpenAIConfig configures NewOpenAIEmbedder. Any OpenAI-compatible
// embeddings endpoint works; set BaseURL for non-OpenAI providers.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	// Provider labels metrics and logs. Default: "openai".
	Provider string
	Logger   *zap.Logger
	// Registerer receives embedding metrics. Nil disables them.
	Registerer prometheus.Registerer
}

// OpenAIEmbedder is an Embedder and BatchEmbedder backed by an
// OpenAI-compatible API.
type OpenAIEmbedder struct {
	inner *openai.Embedder
}

// NewOpenAIEmbedder builds an embedder from cfg.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	var m *metrics.EmbeddingMetrics
	if cfg.Registerer != nil {
		var err error
		if m, err = metrics.RegisterEmbeddingMetrics(cfg.Registerer); err != nil {
			return nil, err
		}
	}
	return &OpenAIEmbedder{inner: openai.NewEmbedder(&openai.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		User:       cfg.User,
		Provider:   cfg.Provider,
		Logger:     cfg.Logger,
		Metrics:    m,
	})}, nil
}

// Embed implements Embedder.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	r, err := e.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	return EmbeddingResult{Embedding: r.Embedding, PromptTokens: r.PromptTokens, TotalTokens: r.TotalTokens}, nil
}

// BatchEmbed implements BatchEmbedder.
func (e *OpenAIEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	r, err := e.inner.BatchEmbed(ctx, texts)
	if err != nil {
		return BatchEmbeddingResult{}, err
	}
	return BatchEmbeddingResult{Embeddings: r.Embeddings, PromptTokens: r.PromptTokens, TotalTokens: r.TotalTokens}, nil
}
