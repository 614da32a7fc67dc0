package chi

import (
	"math"
	"sort"

	"github.com/kailas-cloud/pinecone-go/filter"
)

type sparseValues struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

type vector struct {
	ID           string                  `json:"id"`
	Values       []float32               `json:"values,omitempty"`
	SparseValues *sparseValues           `json:"sparseValues,omitempty"`
	Metadata     map[string]filter.Value `json:"metadata,omitempty"`
}

func (v vector) clone() vector {
	cp := v
	cp.Values = append([]float32(nil), v.Values...)
	if v.Metadata != nil {
		cp.Metadata = make(map[string]filter.Value, len(v.Metadata))
		for k, val := range v.Metadata {
			cp.Metadata[k] = val
		}
	}
	return cp
}

type indexSpec struct {
	Name             string `json:"name"`
	Dimension        int    `json:"dimension"`
	Metric           string `json:"metric,omitempty"`
	Pods             int    `json:"pods,omitempty"`
	PodType          string `json:"pod_type,omitempty"`
	Shards           int    `json:"shards,omitempty"`
	Replicas         int    `json:"replicas,omitempty"`
	SourceCollection string `json:"source_collection,omitempty"`
}

// index is one in-memory index: namespaces of vectors keyed by id.
type index struct {
	spec       indexSpec
	namespaces map[string]map[string]vector
}

func newIndex(spec indexSpec) *index {
	if spec.Metric == "" {
		spec.Metric = "cosine"
	}
	if spec.Pods == 0 {
		spec.Pods = 1
	}
	if spec.Replicas == 0 {
		spec.Replicas = 1
	}
	if spec.Shards == 0 {
		spec.Shards = 1
	}
	if spec.PodType == "" {
		spec.PodType = "p1.x1"
	}
	return &index{spec: spec, namespaces: make(map[string]map[string]vector)}
}

func (ix *index) namespace(ns string, create bool) map[string]vector {
	m, ok := ix.namespaces[ns]
	if !ok && create {
		m = make(map[string]vector)
		ix.namespaces[ns] = m
	}
	return m
}

// snapshot deep-copies every namespace, for collections.
func (ix *index) snapshot() map[string]map[string]vector {
	out := make(map[string]map[string]vector, len(ix.namespaces))
	for ns, vecs := range ix.namespaces {
		cp := make(map[string]vector, len(vecs))
		for id, v := range vecs {
			cp[id] = v.clone()
		}
		out[ns] = cp
	}
	return out
}

func (ix *index) count(f filter.Expression) (map[string]int64, int64) {
	counts := make(map[string]int64, len(ix.namespaces))
	var total int64
	for ns, vecs := range ix.namespaces {
		var n int64
		for _, v := range vecs {
			if filter.Match(f, v.Metadata) {
				n++
			}
		}
		if n > 0 || f == nil {
			counts[ns] = n
		}
		total += n
	}
	return counts, total
}

type scored struct {
	vec   vector
	score float64
}

// query ranks the vectors of ns matching f by similarity to q.
func (ix *index) query(ns string, q []float32, f filter.Expression, topK int) []scored {
	var hits []scored
	for _, v := range ix.namespace(ns, false) {
		if !filter.Match(f, v.Metadata) {
			continue
		}
		hits = append(hits, scored{vec: v, score: similarity(ix.spec.Metric, q, v.Values)})
	}

	ascending := ix.spec.Metric == "euclidean"
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score == hits[j].score {
			return hits[i].vec.ID < hits[j].vec.ID
		}
		if ascending {
			return hits[i].score < hits[j].score
		}
		return hits[i].score > hits[j].score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// similarity returns the cosine similarity, the dot product or the squared
// euclidean distance of a and b.
func similarity(metric string, a, b []float32) float64 {
	var dot, na, nb, dist float64
	for i := range a {
		if i >= len(b) {
			break
		}
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
		dist += (x - y) * (x - y)
	}
	switch metric {
	case "dotproduct":
		return dot
	case "euclidean":
		return dist
	default:
		if na == 0 || nb == 0 {
			return 0
		}
		return dot / (math.Sqrt(na) * math.Sqrt(nb))
	}
}

type collection struct {
	name       string
	dimension  int
	namespaces map[string]map[string]vector
}

func (c *collection) size() int64 {
	var n int64
	for _, vecs := range c.namespaces {
		for _, v := range vecs {
			n += int64(len(v.ID) + 4*len(v.Values))
		}
	}
	return n
}
