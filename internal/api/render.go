package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
)

// LayoutResponse is the body of the layout endpoint.
type LayoutResponse struct {
	Strategy string        `json:"strategy"`
	Cached   bool          `json:"cached"`
	Layout   layout.Result `json:"layout"`
}

// pipelineOptions reads strategy, selected, scale, bg, title and refresh
// from the query string.
func (s *Server) pipelineOptions(r *http.Request, formats ...string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Strategy:   q.Get("strategy"),
		Layout:     s.layout,
		Formats:    formats,
		Background: q.Get("bg"),
		Title:      q.Get("title"),
		Selected:   q.Get("selected"),
		Logger:     s.logger,
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	if v := q.Get("refresh"); v != "" {
		refresh, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid refresh %q", v)
		}
		opts.Refresh = refresh
	}
	return opts, nil
}

func (s *Server) layoutMindMap(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTree(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.pipelineOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Strategy: res.Strategy, Cached: hit, Layout: res})
}

func (s *Server) renderMindMap(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTree(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, t)
}

// renderSnapshot renders a posted snapshot without storing it.
func (s *Server) renderSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	t, err := pipeline.Parse(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, t)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, t *mindmap.Tree) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.pipelineOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.ExecuteTree(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache-Layout", strconv.FormatBool(res.CacheInfo.LayoutHit))
	w.Header().Set("X-Cache-Render", strconv.FormatBool(res.CacheInfo.RenderHit))
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) loadTree(r *http.Request) (*mindmap.Tree, error) {
	doc, err := s.load(r)
	if err != nil {
		return nil, err
	}
	return doc.Tree()
}
