package pinecone

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/pinecone-go/result"
)

// TypedIndex is a generic, schema-first view of an index.
// The schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	name      string
	namespace string
	client    *Client
	meta      *schemaMeta
}

// NewTypedIndex creates a typed handle for the named index.
// T must be a struct with pinecone tags. The schema is parsed once and cached.
func NewTypedIndex[T any](client *Client, name string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new typed index %q: %w", name, err)
	}
	return &TypedIndex[T]{name: name, client: client, meta: meta}, nil
}

// Name returns the index name.
func (idx *TypedIndex[T]) Name() string { return idx.name }

// Namespace returns a copy of idx scoped to ns.
func (idx *TypedIndex[T]) Namespace(ns string) *TypedIndex[T] {
	cp := *idx
	cp.namespace = ns
	return &cp
}

// Ensure creates the index if it does not exist, indexing every metadata
// field of T. Options are applied after the metadata config.
func (idx *TypedIndex[T]) Ensure(ctx context.Context, dimension int, opts ...IndexOption) result.Result[bool] {
	all := append([]IndexOption{WithIndexedMetadata(idx.meta.indexedFields()...)}, opts...)
	return idx.client.Indexes().Ensure(ctx, Index(idx.name, dimension, all...))
}

// Upsert writes items. Items with empty values are embedded from their
// content field with the client's Embedder.
func (idx *TypedIndex[T]) Upsert(ctx context.Context, items ...T) result.Result[UpsertResult] {
	vs := idx.vectors()
	vectors := make([]Vector, len(items))
	var (
		pending []TextRecord
		slots   []int
	)
	for i, item := range items {
		vec, content := idx.meta.toVector(item)
		vectors[i] = vec
		if len(vec.Values) == 0 && idx.meta.contentIdx != -1 {
			pending = append(pending, TextRecord{ID: vec.ID, Text: content})
			slots = append(slots, i)
		}
	}

	if len(pending) > 0 {
		if vs.embedder == nil {
			return result.TransportRejected[UpsertResult](ErrEmbedderNotConfigured)
		}
		embeddings, err := vs.embedAll(ctx, pending)
		if err != nil {
			return result.TransportRejected[UpsertResult](fmt.Errorf("%w: %w", ErrEmbeddingProviderError, err))
		}
		for j, i := range slots {
			vectors[i].Values = embeddings[j]
		}
	}

	return vs.Upsert(ctx, UpsertRequest{Vectors: vectors, Namespace: idx.namespace})
}

// Fetch reads items by id. Unknown ids are absent from the map.
func (idx *TypedIndex[T]) Fetch(ctx context.Context, ids ...string) result.Result[map[string]T] {
	res := idx.vectors().Fetch(ctx, FetchRequest{IDs: ids, Namespace: idx.namespace})
	return result.Map(res, func(r FetchResult) result.Result[map[string]T] {
		out := make(map[string]T, len(r.Vectors))
		for id, v := range r.Vectors {
			item, err := idx.meta.fromVector(v)
			if err != nil {
				return result.ParsingFailed[map[string]T]("fetch: " + err.Error())
			}
			out[id] = item.(T)
		}
		return result.Ok(out)
	})
}

// Delete removes items by id.
func (idx *TypedIndex[T]) Delete(ctx context.Context, ids ...string) result.Result[Accepted] {
	return idx.vectors().Delete(ctx, DeleteIDs(ids...).InNamespace(idx.namespace))
}

// Stats returns the index statistics.
func (idx *TypedIndex[T]) Stats(ctx context.Context) result.Result[IndexStats] {
	return idx.vectors().DescribeIndexStats(ctx)
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx, topK: defaultTopK}
}

func (idx *TypedIndex[T]) vectors() *VectorService {
	return idx.client.Vectors(idx.name)
}
