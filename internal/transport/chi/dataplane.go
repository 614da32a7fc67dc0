package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/pinecone-go/filter"
)

type indexNameKey struct{}

func withIndexName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, indexNameKey{}, name)
}

func indexName(ctx context.Context) string {
	name, _ := ctx.Value(indexNameKey{}).(string)
	return name
}

func (s *Server) dataPlaneRouter() http.Handler {
	r := s.router()
	r.Post("/vectors/upsert", s.upsert)
	r.Post("/vectors/update", s.update)
	r.Get("/vectors/fetch", s.fetch)
	r.Post("/vectors/delete", s.deleteVectors)
	r.Post("/query", s.query)
	r.Get("/describe_index_stats", s.describeStats)
	r.Post("/describe_index_stats", s.describeStats)
	return r
}

// withIndex runs fn on the index addressed by the request host, holding the
// server lock.
func (s *Server) withIndex(w http.ResponseWriter, r *http.Request, fn func(*index)) {
	name := indexName(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	ix, ok := s.indexes[name]
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "index "+name+" not found")
		return
	}
	fn(ix)
}

// parseFilter reads the optional "filter" member of a request body.
func parseFilter(w http.ResponseWriter, raw json.RawMessage) (filter.Expression, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	f, err := filter.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, err.Error())
		return nil, false
	}
	return f, true
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace"`
}

func (s *Server) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Vectors) == 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "no vectors")
		return
	}
	s.withIndex(w, r, func(ix *index) {
		for _, v := range req.Vectors {
			if v.ID == "" {
				writeError(w, http.StatusBadRequest, CodeInvalidArgument, "vector id is required")
				return
			}
			if len(v.Values) != ix.spec.Dimension {
				writeError(w, http.StatusBadRequest, CodeInvalidArgument, "vector "+v.ID+": dimension mismatch")
				return
			}
		}
		vecs := ix.namespace(req.Namespace, true)
		for _, v := range req.Vectors {
			vecs[v.ID] = v.clone()
		}
		writeJSON(w, http.StatusOK, map[string]int{"upsertedCount": len(req.Vectors)})
	})
}

type updateRequest struct {
	ID          string                  `json:"id"`
	Values      []float32               `json:"values"`
	SetMetadata map[string]filter.Value `json:"setMetadata"`
	Namespace   string                  `json:"namespace"`
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.withIndex(w, r, func(ix *index) {
		vecs := ix.namespace(req.Namespace, false)
		v, ok := vecs[req.ID]
		if !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "vector "+req.ID+" not found")
			return
		}
		if len(req.Values) > 0 {
			if len(req.Values) != ix.spec.Dimension {
				writeError(w, http.StatusBadRequest, CodeInvalidArgument, "dimension mismatch")
				return
			}
			v.Values = append([]float32(nil), req.Values...)
		}
		if len(req.SetMetadata) > 0 {
			if v.Metadata == nil {
				v.Metadata = make(map[string]filter.Value, len(req.SetMetadata))
			}
			for k, val := range req.SetMetadata {
				v.Metadata[k] = val
			}
		}
		vecs[req.ID] = v
		writeJSON(w, http.StatusOK, struct{}{})
	})
}

type fetchResponse struct {
	Vectors   map[string]vector `json:"vectors"`
	Namespace string            `json:"namespace"`
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ids := q["ids"]
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "ids are required")
		return
	}
	ns := q.Get("namespace")
	s.withIndex(w, r, func(ix *index) {
		vecs := ix.namespace(ns, false)
		out := fetchResponse{Vectors: make(map[string]vector, len(ids)), Namespace: ns}
		for _, id := range ids {
			if v, ok := vecs[id]; ok {
				out.Vectors[id] = v.clone()
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
}

type deleteRequest struct {
	IDs       []string        `json:"ids"`
	DeleteAll bool            `json:"deleteAll"`
	Namespace string          `json:"namespace"`
	Filter    json.RawMessage `json:"filter"`
}

func (s *Server) deleteVectors(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	f, ok := parseFilter(w, req.Filter)
	if !ok {
		return
	}
	modes := 0
	for _, set := range []bool{req.IDs != nil, req.DeleteAll, f != nil} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "exactly one of ids, deleteAll and filter is required")
		return
	}

	s.withIndex(w, r, func(ix *index) {
		vecs := ix.namespace(req.Namespace, false)
		switch {
		case req.DeleteAll:
			delete(ix.namespaces, req.Namespace)
		case req.IDs != nil:
			for _, id := range req.IDs {
				delete(vecs, id)
			}
		default:
			for id, v := range vecs {
				if filter.Match(f, v.Metadata) {
					delete(vecs, id)
				}
			}
		}
		writeJSON(w, http.StatusOK, struct{}{})
	})
}

type queryRequest struct {
	TopK            int             `json:"topK"`
	Vector          []float32       `json:"vector"`
	ID              string          `json:"id"`
	Namespace       string          `json:"namespace"`
	IncludeValues   bool            `json:"includeValues"`
	IncludeMetadata bool            `json:"includeMetadata"`
	Filter          json.RawMessage `json:"filter"`
}

type match struct {
	ID       string                  `json:"id"`
	Score    float64                 `json:"score"`
	Values   []float32               `json:"values,omitempty"`
	Metadata map[string]filter.Value `json:"metadata,omitempty"`
}

type queryResponse struct {
	Matches   []match `json:"matches"`
	Namespace string  `json:"namespace"`
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TopK <= 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "topK must be positive")
		return
	}
	if (len(req.Vector) == 0) == (req.ID == "") {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "exactly one of vector and id is required")
		return
	}
	f, ok := parseFilter(w, req.Filter)
	if !ok {
		return
	}

	s.withIndex(w, r, func(ix *index) {
		q := req.Vector
		if req.ID != "" {
			v, ok := ix.namespace(req.Namespace, false)[req.ID]
			if !ok {
				writeError(w, http.StatusNotFound, CodeNotFound, "vector "+req.ID+" not found")
				return
			}
			q = v.Values
		}
		if len(q) != ix.spec.Dimension {
			writeError(w, http.StatusBadRequest, CodeInvalidArgument, "query dimension mismatch")
			return
		}

		resp := queryResponse{Matches: []match{}, Namespace: req.Namespace}
		for _, h := range ix.query(req.Namespace, q, f, req.TopK) {
			m := match{ID: h.vec.ID, Score: h.score}
			if req.IncludeValues {
				m.Values = h.vec.Values
			}
			if req.IncludeMetadata {
				m.Metadata = h.vec.Metadata
			}
			resp.Matches = append(resp.Matches, m)
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

type namespaceSummary struct {
	VectorCount int64 `json:"vectorCount"`
}

type statsResponse struct {
	Namespaces       map[string]namespaceSummary `json:"namespaces"`
	Dimension        int                         `json:"dimension"`
	IndexFullness    float64                     `json:"indexFullness"`
	TotalVectorCount int64                       `json:"totalVectorCount"`
}

func (s *Server) describeStats(w http.ResponseWriter, r *http.Request) {
	var f filter.Expression
	if r.Method == http.MethodPost {
		var body struct {
			Filter json.RawMessage `json:"filter"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		var ok bool
		if f, ok = parseFilter(w, body.Filter); !ok {
			return
		}
	}

	s.withIndex(w, r, func(ix *index) {
		counts, total := ix.count(f)
		resp := statsResponse{
			Namespaces:       make(map[string]namespaceSummary, len(counts)),
			Dimension:        ix.spec.Dimension,
			TotalVectorCount: total,
		}
		for ns, n := range counts {
			resp.Namespaces[ns] = namespaceSummary{VectorCount: n}
		}
		writeJSON(w, http.StatusOK, resp)
	})
}
