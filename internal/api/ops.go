package api

import (
	"cmp"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// Mutation names accepted by the ops endpoint.
const (
	OpAddChild       = "add_child"
	OpAddSibling     = "add_sibling"
	OpDelete         = "delete"
	OpToggleCollapse = "toggle_collapse"
	OpSetCollapsed   = "set_collapsed"
	OpMove           = "move"
	OpMoveSibling    = "move_sibling"
	OpSetText        = "set_text"
	OpSetColor       = "set_color"
)

// OpRequest is one tree mutation.
type OpRequest struct {
	Op        string `json:"op"`
	Node      string `json:"node"`
	Parent    string `json:"parent,omitempty"`    // move target
	Text      string `json:"text,omitempty"`      // add_* (empty takes the default label), set_text
	Color     string `json:"color,omitempty"`     // set_color; empty clears
	Delta     int    `json:"delta,omitempty"`     // move_sibling
	Collapsed bool   `json:"collapsed,omitempty"` // set_collapsed
}

// OpResponse carries the updated document and, for additions, the new id.
type OpResponse struct {
	Document *store.Document `json:"document"`
	NodeID   string          `json:"nodeId,omitempty"`
}

// ContentRequest replaces a node's text.
type ContentRequest struct {
	Text string `json:"text"`
}

// apply runs one mutation. Rejections return the coded error and leave t
// untouched.
func apply(t *mindmap.Tree, op OpRequest) (*mindmap.Tree, string, error) {
	switch op.Op {
	case OpAddChild:
		return t.AddChild(op.Node, cmp.Or(op.Text, mindmap.DefaultChildText))
	case OpAddSibling:
		return t.AddSibling(op.Node, cmp.Or(op.Text, mindmap.DefaultSiblingText))
	}

	var next *mindmap.Tree
	var err error
	switch op.Op {
	case OpDelete:
		next, err = t.DeleteSubtree(op.Node)
	case OpToggleCollapse:
		next, err = t.ToggleCollapse(op.Node)
	case OpSetCollapsed:
		next, err = t.SetCollapsed(op.Node, op.Collapsed)
	case OpMove:
		next, err = t.MoveNode(op.Node, op.Parent)
	case OpMoveSibling:
		next, err = t.MoveSibling(op.Node, op.Delta)
	case OpSetText:
		next, err = t.SetText(op.Node, op.Text)
	case OpSetColor:
		next, err = t.SetColor(op.Node, op.Color)
	default:
		return t, "", errors.New(errors.ErrCodeInvalidInput, "unknown op %q", op.Op)
	}
	return next, "", err
}

func (s *Server) applyOp(w http.ResponseWriter, r *http.Request) {
	var op OpRequest
	if err := s.decode(w, r, &op); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, op)
}

func (s *Server) injectContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, OpRequest{Op: OpSetText, Node: chi.URLParam(r, "nodeID"), Text: req.Text})
}

// mutate loads, applies and saves under the server lock.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op OpRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := doc.Tree()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	next, newID, err := apply(t, op)
	if err != nil {
		s.logger.Debug("mutation rejected", "id", doc.ID, "op", op.Op, "node", op.Node, "error", err)
		s.writeError(w, r, err)
		return
	}
	doc.SetTree(next)
	if err := s.store.Save(r.Context(), doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("mutation", "id", doc.ID, "op", op.Op, "node", op.Node, "nodes", doc.NodeCount)
	writeJSON(w, http.StatusOK, OpResponse{Document: doc, NodeID: newID})
}
