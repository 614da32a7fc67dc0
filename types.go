package pinecone

import (
	"encoding/json"

	"github.com/kailas-cloud/pinecone-go/filter"
)

// Metadata is the metadata attached to a vector. Values are restricted to
// booleans, integers, floats and strings; decoding any other shape fails.
type Metadata map[string]filter.Value

// APIMetadata is the WhoAmI answer. ProjectName selects data-plane hosts.
type APIMetadata struct {
	ProjectName string `json:"project_name"`
	UserLabel   string `json:"user_label"`
	UserName    string `json:"user_name"`
}

// Accepted is the acknowledgement returned by operations whose success
// response carries no structured body. It holds the raw response text.
type Accepted string

// --- indexes ---

// Metric is the similarity metric of an index.
type Metric string

// Similarity metrics.
const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dotproduct"
)

// MetadataConfig selects which metadata fields are indexed for filtering.
type MetadataConfig struct {
	Indexed []string `json:"indexed"`
}

// NewIndex describes an index to create. Only Name and Dimension are required.
type NewIndex struct {
	Name             string          `json:"name"`
	Dimension        int             `json:"dimension"`
	Metric           Metric          `json:"metric,omitempty"`
	Pods             int             `json:"pods,omitempty"`
	PodType          string          `json:"pod_type,omitempty"`
	Shards           int             `json:"shards,omitempty"`
	Replicas         int             `json:"replicas,omitempty"`
	MetadataConfig   *MetadataConfig `json:"metadata_config,omitempty"`
	SourceCollection string          `json:"source_collection,omitempty"`
}

// IndexConfiguration changes the replica count and pod type of an index.
type IndexConfiguration struct {
	Replicas int    `json:"replicas"`
	PodType  string `json:"pod_type"`
}

// DatabaseState is the lifecycle state of an index.
type DatabaseState int

// Index states. Any state string the client does not know maps to StateUnknown.
const (
	StateUnknown DatabaseState = iota
	StateInitializing
	StateScalingUp
	StateScalingDown
	StateTerminating
	StateReady
)

var databaseStates = map[string]DatabaseState{
	"Initializing": StateInitializing,
	"ScalingUp":    StateScalingUp,
	"ScalingDown":  StateScalingDown,
	"Terminating":  StateTerminating,
	"Ready":        StateReady,
}

// ParseDatabaseState maps a wire state string to a DatabaseState.
func ParseDatabaseState(s string) DatabaseState {
	return databaseStates[s]
}

func (s DatabaseState) String() string {
	for k, v := range databaseStates {
		if v == s {
			return k
		}
	}
	return "Unknown"
}

// MarshalJSON implements json.Marshaler.
func (s DatabaseState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *DatabaseState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseDatabaseState(str)
	return nil
}

// DatabaseStatus is the readiness of an index.
type DatabaseStatus struct {
	Ready bool          `json:"ready"`
	State DatabaseState `json:"state"`
}

// Database is the configuration of an index.
type Database struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    Metric `json:"metric"`
	PodType   string `json:"pod_type"`
	Pods      int    `json:"pods"`
	Replicas  int    `json:"replicas"`
	Shards    int    `json:"shards"`
}

// IndexDescription is the answer to IndexDescribe.
type IndexDescription struct {
	Database Database       `json:"database"`
	Status   DatabaseStatus `json:"status"`
}

// --- collections ---

// NewCollection creates a collection snapshot of the Source index.
type NewCollection struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// CollectionDescription is the answer to CollectionDescribe.
type CollectionDescription struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
}

// --- vectors ---

// SparseValues is the sparse component of a hybrid vector.
type SparseValues struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// Vector is one stored record.
type Vector struct {
	ID           string        `json:"id"`
	Values       []float32     `json:"values,omitempty"`
	SparseValues *SparseValues `json:"sparseValues,omitempty"`
	Metadata     Metadata      `json:"metadata,omitempty"`
}

// UpsertRequest writes vectors into a namespace.
type UpsertRequest struct {
	Vectors   []Vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

// UpsertResult reports how many vectors were written.
type UpsertResult struct {
	UpsertedCount int64 `json:"upsertedCount"`
}

// QueryRequest searches an index by vector or by the id of a stored vector.
// Set exactly one of Vector and ID. Filter may be nil; the request always
// carries a filter field.
type QueryRequest struct {
	TopK            int               `json:"topK"`
	Vector          []float32         `json:"vector,omitempty"`
	ID              string            `json:"id,omitempty"`
	Namespace       string            `json:"namespace,omitempty"`
	IncludeValues   *bool             `json:"includeValues,omitempty"`
	IncludeMetadata *bool             `json:"includeMetadata,omitempty"`
	Filter          filter.Expression `json:"-"`
}

// ScoredVector is one query match.
type ScoredVector struct {
	ID           string        `json:"id"`
	Score        float64       `json:"score"`
	Values       []float32     `json:"values,omitempty"`
	SparseValues *SparseValues `json:"sparseValues,omitempty"`
	Metadata     Metadata      `json:"metadata,omitempty"`
}

// QueryResult is the answer to VectorQuery.
type QueryResult struct {
	Namespace string         `json:"namespace"`
	Matches   []ScoredVector `json:"matches"`
}

// UpdateRequest replaces the values and merges metadata of one vector.
type UpdateRequest struct {
	ID          string    `json:"id"`
	Values      []float32 `json:"values,omitempty"`
	SetMetadata Metadata  `json:"setMetadata,omitempty"`
	Namespace   string    `json:"namespace,omitempty"`
}

// FetchRequest reads vectors by id.
type FetchRequest struct {
	IDs       []string
	Namespace string
}

// FetchResult maps ids to the stored vectors. Unknown ids are absent.
type FetchResult struct {
	Namespace string            `json:"namespace"`
	Vectors   map[string]Vector `json:"vectors"`
}

// DeleteRequest removes vectors in one of three modes. Build it with
// DeleteIDs, DeleteAll or DeleteWhere.
type DeleteRequest struct {
	mode      deleteMode
	ids       []string
	filter    filter.Expression
	Namespace string
}

type deleteMode int

const (
	deleteByIDs deleteMode = iota + 1
	deleteEverything
	deleteByFilter
)

// DeleteIDs deletes the listed vectors.
func DeleteIDs(ids ...string) DeleteRequest {
	return DeleteRequest{mode: deleteByIDs, ids: append(make([]string, 0, len(ids)), ids...)}
}

// DeleteAll deletes every vector of the namespace.
func DeleteAll() DeleteRequest {
	return DeleteRequest{mode: deleteEverything}
}

// DeleteWhere deletes the vectors matching f.
func DeleteWhere(f filter.Expression) DeleteRequest {
	return DeleteRequest{mode: deleteByFilter, filter: f}
}

// InNamespace returns a copy of r scoped to ns.
func (r DeleteRequest) InNamespace(ns string) DeleteRequest {
	r.Namespace = ns
	return r
}

// NamespaceSummary is the per-namespace part of IndexStats.
type NamespaceSummary struct {
	VectorCount int64 `json:"vectorCount"`
}

// IndexStats is the answer to the describe-index-stats operations.
type IndexStats struct {
	Namespaces       map[string]NamespaceSummary `json:"namespaces"`
	Dimension        int                         `json:"dimension"`
	IndexFullness    float64                     `json:"indexFullness"`
	TotalVectorCount int64                       `json:"totalVectorCount"`
}
