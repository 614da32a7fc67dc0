package chi

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) controllerRouter() http.Handler {
	r := s.router()
	r.Get("/actions/whoami", s.whoAmI)

	r.Route("/databases", func(r chi.Router) {
		r.Get("/", s.listIndexes)
		r.Post("/", s.createIndex)
		r.Get("/{name}", s.describeIndex)
		r.Patch("/{name}", s.configureIndex)
		r.Delete("/{name}", s.deleteIndex)
	})

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.listCollections)
		r.Post("/", s.createCollection)
		r.Get("/{name}", s.describeCollection)
		r.Delete("/{name}", s.deleteCollection)
	})
	return r
}

func (s *Server) whoAmI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"project_name": s.cfg.Project,
		"user_label":   "default",
		"user_name":    "fake",
	})
}

func (s *Server) listIndexes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	names := sortedKeys(s.indexes)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) createIndex(w http.ResponseWriter, r *http.Request) {
	var spec indexSpec
	if !decodeBody(w, r, &spec) {
		return
	}
	switch {
	case spec.Name == "":
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "name is required")
		return
	case spec.Dimension <= 0:
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "dimension must be positive")
		return
	}
	switch spec.Metric {
	case "", "cosine", "euclidean", "dotproduct":
	default:
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "unknown metric "+spec.Metric)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[spec.Name]; ok {
		writeError(w, http.StatusConflict, CodeAlreadyExists, "index "+spec.Name+" already exists")
		return
	}
	ix := newIndex(spec)
	if spec.SourceCollection != "" {
		col, ok := s.collections[spec.SourceCollection]
		if !ok {
			writeError(w, http.StatusNotFound, CodeNotFound, "collection "+spec.SourceCollection+" not found")
			return
		}
		if col.dimension != spec.Dimension {
			writeError(w, http.StatusBadRequest, CodeInvalidArgument, "dimension does not match source collection")
			return
		}
		src := &index{namespaces: col.namespaces}
		ix.namespaces = src.snapshot()
	}
	s.indexes[spec.Name] = ix
	s.logger.Debug("index created", zap.String("index", spec.Name))
	writeText(w, http.StatusCreated, "")
}

type databaseStatus struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
}

type indexDescription struct {
	Database indexSpec      `json:"database"`
	Status   databaseStatus `json:"status"`
}

func (s *Server) describeIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	ix, ok := s.indexes[name]
	var desc indexDescription
	if ok {
		desc = indexDescription{Database: ix.spec, Status: databaseStatus{Ready: true, State: "Ready"}}
		desc.Database.SourceCollection = ""
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "index "+name+" not found")
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

type indexConfiguration struct {
	Replicas int    `json:"replicas"`
	PodType  string `json:"pod_type"`
}

func (s *Server) configureIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var cfg indexConfiguration
	if !decodeBody(w, r, &cfg) {
		return
	}
	if cfg.Replicas < 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "replicas must not be negative")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ix, ok := s.indexes[name]
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "index "+name+" not found")
		return
	}
	if cfg.Replicas > 0 {
		ix.spec.Replicas = cfg.Replicas
	}
	if cfg.PodType != "" {
		ix.spec.PodType = cfg.PodType
	}
	writeText(w, http.StatusAccepted, "")
}

func (s *Server) deleteIndex(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "index "+name+" not found")
		return
	}
	delete(s.indexes, name)
	writeText(w, http.StatusAccepted, "")
}

func (s *Server) listCollections(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	names := sortedKeys(s.collections)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, names)
}

type newCollection struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var req newCollection
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Source == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidArgument, "name and source are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[req.Name]; ok {
		writeError(w, http.StatusConflict, CodeAlreadyExists, "collection "+req.Name+" already exists")
		return
	}
	ix, ok := s.indexes[req.Source]
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "index "+req.Source+" not found")
		return
	}
	s.collections[req.Name] = &collection{
		name:       req.Name,
		dimension:  ix.spec.Dimension,
		namespaces: ix.snapshot(),
	}
	writeText(w, http.StatusCreated, "")
}

type collectionDescription struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
}

func (s *Server) describeCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	col, ok := s.collections[name]
	var desc collectionDescription
	if ok {
		desc = collectionDescription{Name: col.name, Size: col.size(), Status: "Ready"}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "collection "+name+" not found")
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "collection "+name+" not found")
		return
	}
	delete(s.collections, name)
	writeText(w, http.StatusAccepted, "")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
