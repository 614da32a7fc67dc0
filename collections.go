package pinecone

import (
	"context"

	"github.com/kailas-cloud/pinecone-go/internal/dispatch"
	"github.com/kailas-cloud/pinecone-go/internal/operation"
	"github.com/kailas-cloud/pinecone-go/result"
)

// CollectionService manages collections (static index snapshots).
type CollectionService struct {
	d *dispatch.Dispatcher
}

// List returns the names of all collections of the project.
func (s *CollectionService) List(ctx context.Context) result.Result[[]string] {
	return dispatch.Do(ctx, s.d, dispatch.NewRequest(operation.CollectionList), parseNames)
}

// Create snapshots an index into a new collection.
func (s *CollectionService) Create(ctx context.Context, c NewCollection) result.Result[Accepted] {
	req, err := dispatch.NewBodyRequest(operation.CollectionCreate, c)
	return send(ctx, s.d, req, err, parseAccepted)
}

// Describe returns the size and status of a collection.
func (s *CollectionService) Describe(ctx context.Context, name string) result.Result[CollectionDescription] {
	return dispatch.Do(ctx, s.d, dispatch.NewResourceRequest(operation.CollectionDescribe, name),
		dispatch.DecodeJSON[CollectionDescription])
}

// Delete removes a collection.
func (s *CollectionService) Delete(ctx context.Context, name string) result.Result[Accepted] {
	return dispatch.Do(ctx, s.d, dispatch.NewResourceRequest(operation.CollectionDelete, name), parseAccepted)
}
