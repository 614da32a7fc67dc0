// Package operation is the static catalog of API operations: for each Kind,
// its HTTP method, URL shape, API surface and path fragment.
package operation

import "net/http"

// Kind identifies one API operation.
type Kind int

// Supported operations.
const (
	WhoAmI Kind = iota + 1

	IndexList
	IndexCreate
	IndexDescribe
	IndexConfigure
	IndexDelete

	CollectionList
	CollectionCreate
	CollectionDescribe
	CollectionDelete

	VectorUpsert
	VectorUpdate
	VectorQuery
	VectorFetch
	VectorDescribeIndexStats
	VectorDescribeFilteredIndexStats
	VectorDelete
)

// All lists every Kind in declaration order.
var All = []Kind{
	WhoAmI,
	IndexList, IndexCreate, IndexDescribe, IndexConfigure, IndexDelete,
	CollectionList, CollectionCreate, CollectionDescribe, CollectionDelete,
	VectorUpsert, VectorUpdate, VectorQuery, VectorFetch,
	VectorDescribeIndexStats, VectorDescribeFilteredIndexStats, VectorDelete,
}

// Category is the URL shape of an operation.
type Category int

const (
	// FixedPath hits one global path and takes no resource name.
	FixedPath Category = iota + 1
	// CollectionPath hits a category path such as /databases.
	CollectionPath
	// ResourcePath appends a resource name to a category path.
	ResourcePath
)

// Surface is the host family an operation is served from.
type Surface int

const (
	// Controller is the per-environment control plane.
	Controller Surface = iota + 1
	// DataPlane is the per-index, per-project vector service.
	DataPlane
)

// Descriptor is everything static about a Kind.
type Descriptor struct {
	Name     string
	Method   string
	Category Category
	Surface  Surface
	Fragment string
}

// Describe returns the descriptor of k. The second result is false for
// values outside the enumeration.
//
// Adding a Kind means adding one case here; method, category, surface and
// fragment are kept together so they cannot drift.
func Describe(k Kind) (Descriptor, bool) {
	switch k {
	case WhoAmI:
		return Descriptor{"whoami", http.MethodGet, FixedPath, Controller, "/actions/whoami"}, true

	case IndexList:
		return Descriptor{"index_list", http.MethodGet, CollectionPath, Controller, "/databases"}, true
	case IndexCreate:
		return Descriptor{"index_create", http.MethodPost, CollectionPath, Controller, "/databases"}, true
	case IndexDescribe:
		return Descriptor{"index_describe", http.MethodGet, ResourcePath, Controller, "/databases/"}, true
	case IndexConfigure:
		return Descriptor{"index_configure", http.MethodPatch, ResourcePath, Controller, "/databases/"}, true
	case IndexDelete:
		return Descriptor{"index_delete", http.MethodDelete, ResourcePath, Controller, "/databases/"}, true

	case CollectionList:
		return Descriptor{"collection_list", http.MethodGet, CollectionPath, Controller, "/collections"}, true
	case CollectionCreate:
		return Descriptor{"collection_create", http.MethodPost, CollectionPath, Controller, "/collections"}, true
	case CollectionDescribe:
		return Descriptor{"collection_describe", http.MethodGet, ResourcePath, Controller, "/collections/"}, true
	case CollectionDelete:
		return Descriptor{"collection_delete", http.MethodDelete, ResourcePath, Controller, "/collections/"}, true

	case VectorUpsert:
		return Descriptor{"vector_upsert", http.MethodPost, ResourcePath, DataPlane, "/vectors/upsert"}, true
	case VectorUpdate:
		return Descriptor{"vector_update", http.MethodPost, ResourcePath, DataPlane, "/vectors/update"}, true
	case VectorQuery:
		return Descriptor{"vector_query", http.MethodPost, ResourcePath, DataPlane, "/query"}, true
	case VectorFetch:
		return Descriptor{"vector_fetch", http.MethodGet, ResourcePath, DataPlane, "/vectors/fetch"}, true
	case VectorDescribeIndexStats:
		return Descriptor{"vector_describe_index_stats", http.MethodGet, ResourcePath, DataPlane, "/describe_index_stats"}, true
	case VectorDescribeFilteredIndexStats:
		return Descriptor{"vector_describe_filtered_index_stats", http.MethodPost, ResourcePath, DataPlane, "/describe_index_stats"}, true
	case VectorDelete:
		return Descriptor{"vector_delete", http.MethodPost, ResourcePath, DataPlane, "/vectors/delete"}, true
	}
	return Descriptor{}, false
}

// MustDescribe is Describe for kinds known to be valid. It panics otherwise.
func MustDescribe(k Kind) Descriptor {
	d, ok := Describe(k)
	if !ok {
		panic("operation: unknown kind")
	}
	return d
}

// Method returns the HTTP method of k.
func (k Kind) Method() string { return MustDescribe(k).Method }

// Category returns the URL shape of k.
func (k Kind) Category() Category { return MustDescribe(k).Category }

// Surface returns the host family of k.
func (k Kind) Surface() Surface { return MustDescribe(k).Surface }

// Fragment returns the path fragment of k.
func (k Kind) Fragment() string { return MustDescribe(k).Fragment }

// String returns the snake_case operation name used in logs and metrics.
func (k Kind) String() string {
	if d, ok := Describe(k); ok {
		return d.Name
	}
	return "unknown"
}

// NeedsResource reports whether k's URL takes a resource name: a database or
// collection name on the controller, or an index name on the data plane.
func (k Kind) NeedsResource() bool {
	return k.Category() == ResourcePath
}
