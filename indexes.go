package pinecone

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/pinecone-go/internal/dispatch"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/result"
)

// IndexService manages indexes on the control plane.
type IndexService struct {
	d *dispatch.Dispatcher
}

// List returns the names of all indexes of the project.
func (s *IndexService) List(ctx context.Context) result.Result[[]string] {
	return dispatch.Do(ctx, s.d, dispatch.NewRequest(operation.IndexList), parseNames)
}

// Create starts creating an index. The index is usable once Describe
// reports it ready.
func (s *IndexService) Create(ctx context.Context, spec NewIndex) result.Result[Accepted] {
	req, err := dispatch.NewBodyRequest(operation.IndexCreate, spec)
	return send(ctx, s.d, req, err, parseAccepted)
}

// Describe returns the configuration and status of an index.
func (s *IndexService) Describe(ctx context.Context, name string) result.Result[IndexDescription] {
	return dispatch.Do(ctx, s.d, dispatch.NewResourceRequest(operation.IndexDescribe, name),
		dispatch.DecodeJSON[IndexDescription])
}

// Configure changes the replica count and pod type of an index.
func (s *IndexService) Configure(ctx context.Context, name string, cfg IndexConfiguration) result.Result[Accepted] {
	req, err := dispatch.NewResourceBodyRequest(operation.IndexConfigure, name, cfg)
	return send(ctx, s.d, req, err, parseAccepted)
}

// Delete removes an index.
func (s *IndexService) Delete(ctx context.Context, name string) result.Result[Accepted] {
	return dispatch.Do(ctx, s.d, dispatch.NewResourceRequest(operation.IndexDelete, name), parseAccepted)
}

// Ensure creates the index if Describe reports it missing (404).
// The result is true when a create request was sent.
func (s *IndexService) Ensure(ctx context.Context, spec NewIndex) result.Result[bool] {
	desc := s.Describe(ctx, spec.Name)
	if desc.IsOk() {
		return result.Ok(false)
	}
	if desc.Kind() != result.KindRequestFailed || desc.Err().StatusCode != http.StatusNotFound {
		return result.Fail[bool](desc.Err())
	}
	return result.Map(s.Create(ctx, spec), func(Accepted) result.Result[bool] {
		return result.Ok(true)
	})
}

// IndexOption sets an optional field of a NewIndex.
type IndexOption func(*NewIndex)

// Index builds a NewIndex from the required fields and options.
func Index(name string, dimension int, opts ...IndexOption) NewIndex {
	spec := NewIndex{Name: name, Dimension: dimension}
	for _, o := range opts {
		o(&spec)
	}
	return spec
}

// WithMetric sets the similarity metric. Server default: cosine.
func WithMetric(m Metric) IndexOption {
	return func(n *NewIndex) { n.Metric = m }
}

// WithPods sets the pod count and pod type, e.g. 1, "p1.x1".
func WithPods(pods int, podType string) IndexOption {
	return func(n *NewIndex) {
		n.Pods = pods
		n.PodType = podType
	}
}

// WithReplicas sets the replica count.
func WithReplicas(replicas int) IndexOption {
	return func(n *NewIndex) { n.Replicas = replicas }
}

// WithShards sets the shard count.
func WithShards(shards int) IndexOption {
	return func(n *NewIndex) { n.Shards = shards }
}

// WithIndexedMetadata restricts metadata indexing to the given fields.
func WithIndexedMetadata(fields ...string) IndexOption {
	return func(n *NewIndex) {
		n.MetadataConfig = &MetadataConfig{Indexed: append([]string(nil), fields...)}
	}
}

// FromCollection seeds the index from a collection.
func FromCollection(name string) IndexOption {
	return func(n *NewIndex) { n.SourceCollection = name }
}
