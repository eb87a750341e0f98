package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/infinityflow/pkg/buildinfo"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// DocumentRequest creates or replaces a mind map. A nil snapshot creates
// the starter document.
type DocumentRequest struct {
	Title    string            `json:"title,omitempty"`
	Snapshot *mindmap.Snapshot `json:"snapshot,omitempty"`
}

func (req DocumentRequest) tree() (*mindmap.Tree, error) {
	if req.Snapshot == nil {
		return mindmap.Default(), nil
	}
	return mindmap.FromSnapshot(*req.Snapshot)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) strategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"strategies": s.runner.Registry.Names()})
}

func (s *Server) listMindMaps(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createMindMap(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := req.tree()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := store.NewDocument(req.Title, t)
	if err := s.store.Save(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("created mind map", "id", doc.ID, "nodes", doc.NodeCount)
	w.Header().Set("Location", "/api/mindmaps/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) getMindMap(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) replaceMindMap(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Snapshot == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "snapshot is required"))
		return
	}
	t, err := req.tree()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.SetTree(t)
	if req.Title != "" {
		doc.Title = req.Title
	}
	if err := s.store.Save(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteMindMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) load(r *http.Request) (*store.Document, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Load(r.Context(), id)
}
