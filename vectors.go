package pinecone

import (
	"context"
	"errors"
	"fmt"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/pinecone-go/filter"
	"github.com/kailas-cloud/pinecone-go/internal/dispatch"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/result"
)

// ErrInvalidRequest is the cause of a rejected call whose inputs were
// incomplete or contradictory. No request is sent.
var ErrInvalidRequest = errors.New("pinecone: invalid request")

// VectorService reads and writes the vectors of one index.
type VectorService struct {
	index    string
	d        *dispatch.Dispatcher
	embedder Embedder
}

// Index returns the index name the service is bound to.
func (s *VectorService) Index() string { return s.index }

// Upsert writes vectors, replacing existing ones with the same id.
func (s *VectorService) Upsert(ctx context.Context, req UpsertRequest) result.Result[UpsertResult] {
	if len(req.Vectors) == 0 {
		return invalid[UpsertResult]("upsert: no vectors")
	}
	body, err := dispatch.NewResourceBodyRequest(operation.VectorUpsert, s.index, req)
	return send(ctx, s.d, body, err, dispatch.DecodeJSON[UpsertResult])
}

// Update replaces the values of a vector and merges SetMetadata into its
// metadata.
func (s *VectorService) Update(ctx context.Context, req UpdateRequest) result.Result[Accepted] {
	if req.ID == "" {
		return invalid[Accepted]("update: id required")
	}
	body, err := dispatch.NewResourceBodyRequest(operation.VectorUpdate, s.index, req)
	return send(ctx, s.d, body, err, parseAccepted)
}

// Query returns the TopK nearest vectors matching req.Filter.
func (s *VectorService) Query(ctx context.Context, req QueryRequest) result.Result[QueryResult] {
	switch {
	case req.TopK <= 0:
		return invalid[QueryResult]("query: topK must be positive")
	case len(req.Vector) == 0 && req.ID == "":
		return invalid[QueryResult]("query: vector or id required")
	case len(req.Vector) > 0 && req.ID != "":
		return invalid[QueryResult]("query: vector and id are exclusive")
	}
	body, err := dispatch.NewFilteredRequest(operation.VectorQuery, s.index, req, req.Filter)
	return send(ctx, s.d, body, err, dispatch.DecodeJSON[QueryResult])
}

// Fetch reads vectors by id.
func (s *VectorService) Fetch(ctx context.Context, req FetchRequest) result.Result[FetchResult] {
	if len(req.IDs) == 0 {
		return invalid[FetchResult]("fetch: no ids")
	}
	query, err := fetchQuery(req)
	if err != nil {
		return result.TransportRejected[FetchResult](err)
	}
	r := dispatch.NewResourceRequest(operation.VectorFetch, s.index).WithQuery(query)
	return dispatch.Do(ctx, s.d, r, parseFetch)
}

// fetchQuery encodes ids=a&ids=b[&namespace=ns].
func fetchQuery(req FetchRequest) (string, error) {
	q, err := runtime.StyleParamWithLocation("form", true, "ids", runtime.ParamLocationQuery, req.IDs)
	if err != nil {
		return "", fmt.Errorf("encode ids: %w", err)
	}
	if req.Namespace != "" {
		ns, err := runtime.StyleParamWithLocation("form", true, "namespace", runtime.ParamLocationQuery, req.Namespace)
		if err != nil {
			return "", fmt.Errorf("encode namespace: %w", err)
		}
		q += "&" + ns
	}
	return q, nil
}

// DescribeIndexStats returns vector counts for every namespace.
func (s *VectorService) DescribeIndexStats(ctx context.Context) result.Result[IndexStats] {
	return dispatch.Do(ctx, s.d, dispatch.NewResourceRequest(operation.VectorDescribeIndexStats, s.index),
		dispatch.DecodeJSON[IndexStats])
}

// DescribeFilteredIndexStats counts only the vectors matching f.
func (s *VectorService) DescribeFilteredIndexStats(ctx context.Context, f filter.Expression) result.Result[IndexStats] {
	req, err := dispatch.NewFilteredRequest(operation.VectorDescribeFilteredIndexStats, s.index, nil, f)
	return send(ctx, s.d, req, err, dispatch.DecodeJSON[IndexStats])
}

type deleteIDsBody struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

type deleteAllBody struct {
	DeleteAll bool   `json:"deleteAll"`
	Namespace string `json:"namespace,omitempty"`
}

type namespaceBody struct {
	Namespace string `json:"namespace,omitempty"`
}

// Delete removes vectors by id, by filter, or all of a namespace.
func (s *VectorService) Delete(ctx context.Context, req DeleteRequest) result.Result[Accepted] {
	var (
		r   dispatch.Request
		err error
	)
	switch req.mode {
	case deleteByIDs:
		r, err = dispatch.NewResourceBodyRequest(operation.VectorDelete, s.index,
			deleteIDsBody{IDs: req.ids, Namespace: req.Namespace})
	case deleteEverything:
		r, err = dispatch.NewResourceBodyRequest(operation.VectorDelete, s.index,
			deleteAllBody{DeleteAll: true, Namespace: req.Namespace})
	case deleteByFilter:
		r, err = dispatch.NewFilteredRequest(operation.VectorDelete, s.index,
			namespaceBody{Namespace: req.Namespace}, req.filter)
	default:
		return invalid[Accepted]("delete: use DeleteIDs, DeleteAll or DeleteWhere")
	}
	return send(ctx, s.d, r, err, parseAccepted)
}

// QueryText embeds text with the configured Embedder and runs a vector
// query with the remaining fields of req.
func (s *VectorService) QueryText(ctx context.Context, text string, req QueryRequest) result.Result[QueryResult] {
	if s.embedder == nil {
		return result.TransportRejected[QueryResult](ErrEmbedderNotConfigured)
	}
	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return result.TransportRejected[QueryResult](fmt.Errorf("%w: %w", ErrEmbeddingProviderError, err))
	}
	req.Vector = emb.Embedding
	req.ID = ""
	return s.Query(ctx, req)
}

// TextRecord is a vector whose values are computed from Text.
type TextRecord struct {
	ID       string
	Text     string
	Metadata Metadata
}

// UpsertText embeds every record and upserts the vectors into namespace.
// A BatchEmbedder is used when the configured Embedder implements it.
func (s *VectorService) UpsertText(ctx context.Context, namespace string, records ...TextRecord) result.Result[UpsertResult] {
	if s.embedder == nil {
		return result.TransportRejected[UpsertResult](ErrEmbedderNotConfigured)
	}
	if len(records) == 0 {
		return invalid[UpsertResult]("upsert text: no records")
	}

	embeddings, err := s.embedAll(ctx, records)
	if err != nil {
		return result.TransportRejected[UpsertResult](fmt.Errorf("%w: %w", ErrEmbeddingProviderError, err))
	}

	vectors := make([]Vector, len(records))
	for i, rec := range records {
		vectors[i] = Vector{ID: rec.ID, Values: embeddings[i], Metadata: rec.Metadata}
	}
	return s.Upsert(ctx, UpsertRequest{Vectors: vectors, Namespace: namespace})
}

func (s *VectorService) embedAll(ctx context.Context, records []TextRecord) ([][]float32, error) {
	if be, ok := s.embedder.(BatchEmbedder); ok {
		texts := make([]string, len(records))
		for i, r := range records {
			texts[i] = r.Text
		}
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(res.Embeddings) != len(records) {
			return nil, fmt.Errorf("batch embed returned %d vectors for %d texts", len(res.Embeddings), len(records))
		}
		return res.Embeddings, nil
	}

	out := make([][]float32, len(records))
	for i, r := range records {
		res, err := s.embedder.Embed(ctx, r.Text)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		out[i] = res.Embedding
	}
	return out, nil
}

func invalid[T any](msg string) result.Result[T] {
	return result.TransportRejected[T](fmt.Errorf("%w: %s", ErrInvalidRequest, msg))
}
