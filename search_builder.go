package pinecone

import (
	"context"

	"github.com/kailas-cloud/pinecone-go/filter"
	"github.com/kailas-cloud/pinecone-go/result"
)

const defaultTopK = 10

// Hit is a typed query match.
type Hit[T any] struct {
	Item  T
	Score float64
}

// SearchBuilder is a fluent builder for typed queries. Set exactly one of
// Vector, Text or ByID.
type SearchBuilder[T any] struct {
	idx *TypedIndex[T]

	vector []float32
	text   string
	id     string

	where filter.Expression
	topK  int
}

// Vector queries by an embedding.
func (b *SearchBuilder[T]) Vector(v []float32) *SearchBuilder[T] {
	b.vector = v
	return b
}

// Text embeds q with the client's Embedder and queries by the result.
func (b *SearchBuilder[T]) Text(q string) *SearchBuilder[T] {
	b.text = q
	return b
}

// ByID queries by the values of a stored item.
func (b *SearchBuilder[T]) ByID(id string) *SearchBuilder[T] {
	b.id = id
	return b
}

// Where restricts matches to items whose metadata satisfies f. Repeated
// calls are joined with $and. A nil f is ignored.
func (b *SearchBuilder[T]) Where(f filter.Expression) *SearchBuilder[T] {
	switch {
	case f == nil:
	case b.where == nil:
		b.where = f
	default:
		b.where = filter.And(b.where, f)
	}
	return b
}

// TopK sets the maximum number of hits. Default: 10.
func (b *SearchBuilder[T]) TopK(n int) *SearchBuilder[T] {
	b.topK = n
	return b
}

// Do runs the query and returns typed hits in score order.
func (b *SearchBuilder[T]) Do(ctx context.Context) result.Result[[]Hit[T]] {
	includeMetadata := true
	includeValues := b.idx.meta.valuesIdx != -1
	req := QueryRequest{
		TopK:            b.topK,
		Vector:          b.vector,
		ID:              b.id,
		Namespace:       b.idx.namespace,
		IncludeValues:   &includeValues,
		IncludeMetadata: &includeMetadata,
		Filter:          b.where,
	}

	vs := b.idx.vectors()
	var res result.Result[QueryResult]
	if b.text != "" {
		if len(b.vector) > 0 || b.id != "" {
			return invalid[[]Hit[T]]("search: text, vector and id are exclusive")
		}
		res = vs.QueryText(ctx, b.text, req)
	} else {
		res = vs.Query(ctx, req)
	}
	return result.Map(res, b.toHits)
}

func (b *SearchBuilder[T]) toHits(r QueryResult) result.Result[[]Hit[T]] {
	hits := make([]Hit[T], 0, len(r.Matches))
	for _, m := range r.Matches {
		item, err := b.idx.meta.fromVector(Vector{
			ID:       m.ID,
			Values:   m.Values,
			Metadata: m.Metadata,
		})
		if err != nil {
			return result.ParsingFailed[[]Hit[T]]("search: " + err.Error())
		}
		hits = append(hits, Hit[T]{Item: item.(T), Score: m.Score})
	}
	return result.Ok(hits)
}
