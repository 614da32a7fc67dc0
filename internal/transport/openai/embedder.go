// Package openai embeds text through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pinecone-go/internal/metrics"
)

// ErrProvider wraps every failure reported by the embedding API.
var ErrProvider = errors.New("embedding provider error")

// Result is one embedding and its token usage.
type Result struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchResult holds embeddings in input order and the aggregate usage.
type BatchResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
	metrics    *metrics.EmbeddingMetrics
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	User       string
	Provider   string
	Logger     *zap.Logger
	// Metrics may be nil.
	Metrics *metrics.EmbeddingMetrics
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   provider,
		logger:     log,
		metrics:    cfg.Metrics,
	}
}

// Embed vectorizes one text.
func (e *Embedder) Embed(ctx context.Context, text string) (Result, error) {
	res, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed vectorizes texts in one API call. Embeddings are returned in
// input order regardless of the order of the response.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (BatchResult, error) {
	if len(texts) == 0 {
		return BatchResult{}, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		e.fail("api_error")
		e.logger.Warn("embedding request failed",
			zap.String("provider", e.provider),
			zap.Int("texts", len(texts)),
			zap.Error(err),
		)
		return BatchResult{}, parseAPIError(err)
	}
	if len(resp.Data) != len(texts) {
		e.fail("count_mismatch")
		return BatchResult{}, fmt.Errorf("got %d embeddings for %d texts: %w", len(resp.Data), len(texts), ErrProvider)
	}

	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float32, len(data))
	for i := range data {
		out[i] = data[i].Embedding
	}

	e.succeed(duration, resp.Usage.PromptTokens, resp.Usage.TotalTokens)
	return BatchResult{
		Embeddings:   out,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

func (e *Embedder) fail(errorType string) {
	if e.metrics == nil {
		return
	}
	model := string(e.model)
	e.metrics.Requests.WithLabelValues(e.provider, model, "error").Inc()
	e.metrics.Errors.WithLabelValues(e.provider, model, errorType).Inc()
}

func (e *Embedder) succeed(d time.Duration, prompt, total int) {
	if e.metrics == nil {
		return
	}
	model := string(e.model)
	e.metrics.Requests.WithLabelValues(e.provider, model, "success").Inc()
	e.metrics.Duration.WithLabelValues(e.provider, model).Observe(d.Seconds())
	if total > 0 {
		e.metrics.Tokens.WithLabelValues(e.provider, model, "prompt").Add(float64(prompt))
		e.metrics.Tokens.WithLabelValues(e.provider, model, "total").Add(float64(total))
	}
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap ErrProvider.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, ErrProvider)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrProvider)
	}

	return fmt.Errorf("embedding request failed: %w: %w", ErrProvider, err)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
