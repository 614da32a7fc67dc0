package pinecone

import (
	"errors"

	"github.com/kailas-cloud/pinecone-go/internal/urlbuilder"
	"github.com/kailas-cloud/pinecone-go/result"
)

// Failure kinds of API calls, re-exported from the result package.
// Use errors.Is() on the error returned by Result.Unwrap.
var (
	ErrTransportRejected = result.ErrTransportRejected
	ErrRequestFailed     = result.ErrRequestFailed
	ErrParsingFailed     = result.ErrParsingFailed
)

// Errors returned before any request is sent.
var (
	ErrInvalidConfig          = errors.New("pinecone: invalid client configuration")
	ErrBootstrap              = errors.New("pinecone: whoami bootstrap failed")
	ErrEmbedderNotConfigured  = errors.New("pinecone: embedder not configured (use WithEmbedder)")
	ErrEmbeddingProviderError = errors.New("pinecone: embedding provider error")

	// ErrInvalidIndexName rejects data-plane calls on an index name that is
	// not a DNS label of [a-z0-9-].
	ErrInvalidIndexName = urlbuilder.ErrInvalidIndexName
)
