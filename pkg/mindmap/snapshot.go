package mindmap

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"

	"github.com/matzehuels/infinityflow/pkg/errors"
)

// Snapshot is the persisted form of a tree. It is plain structured data,
// JSON and BSON compatible, and deliberately holds nothing but tree data:
// selection and editing state live in the interaction controller.
type Snapshot struct {
	RootID string                  `json:"rootId" bson:"rootId"`
	Nodes  map[string]SnapshotNode `json:"nodes" bson:"nodes"`
}

// SnapshotNode is the persisted form of a [Node]. ParentID is nil for the
// root, which encodes as JSON null.
type SnapshotNode struct {
	ID          string   `json:"id" bson:"id"`
	Text        string   `json:"text" bson:"text"`
	ParentID    *string  `json:"parentId" bson:"parentId"`
	Children    []string `json:"children" bson:"children"`
	IsCollapsed bool     `json:"isCollapsed" bson:"isCollapsed"`
	Color       string   `json:"color,omitempty" bson:"color,omitempty"`
}

// Snapshot returns the persisted form of the tree. Child lists are never
// nil so they encode as [] rather than null.
func (t *Tree) Snapshot() Snapshot {
	s := Snapshot{RootID: t.rootID, Nodes: make(map[string]SnapshotNode, len(t.nodes))}
	for id, n := range t.nodes {
		sn := SnapshotNode{
			ID:          n.ID,
			Text:        n.Text,
			Children:    slices.Clone(n.Children),
			IsCollapsed: n.IsCollapsed,
			Color:       n.Color,
		}
		if sn.Children == nil {
			sn.Children = []string{}
		}
		if n.ParentID != "" {
			parent := n.ParentID
			sn.ParentID = &parent
		}
		s.Nodes[id] = sn
	}
	return s
}

// FromSnapshot rebuilds a tree from its persisted form and validates every
// structural invariant. Any violation is reported as INVALID_SNAPSHOT.
//
// A node entry with an empty id takes the id of its map key, matching
// hand-written documents that omit the redundant field.
func FromSnapshot(s Snapshot, opts ...Option) (*Tree, error) {
	if s.RootID == "" {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot has no rootId")
	}
	if len(s.Nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot has no nodes")
	}

	t := &Tree{rootID: s.RootID, nodes: make(map[string]*Node, len(s.Nodes)), ids: UUIDGenerator{}}
	for _, opt := range opts {
		opt(t)
	}
	for key, sn := range s.Nodes {
		if err := errors.ValidateID(key); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "node key %q", key)
		}
		if err := errors.ValidateColor(sn.Color); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "node %q", key)
		}
		id := sn.ID
		if id == "" {
			id = key
		}
		n := &Node{
			ID:          id,
			Text:        sn.Text,
			Children:    slices.Clone(sn.Children),
			IsCollapsed: sn.IsCollapsed,
			Color:       sn.Color,
		}
		if sn.ParentID != nil {
			n.ParentID = *sn.ParentID
		}
		t.nodes[key] = n
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.observeIDs()
	return t, nil
}

// Marshal encodes the tree as its JSON snapshot.
func Marshal(t *Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes the tree's JSON snapshot to w, indented for readability.
func Write(t *Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Snapshot()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// Unmarshal decodes a JSON snapshot and validates the resulting tree.
func Unmarshal(data []byte, opts ...Option) (*Tree, error) {
	return Read(bytes.NewReader(data), opts...)
}

// Read decodes a JSON snapshot from r. Read does not close r.
func Read(r io.Reader, opts ...Option) (*Tree, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode snapshot")
	}
	return FromSnapshot(s, opts...)
}

// Content returns the compact JSON snapshot used as a canvas item's content
// string.
func Content(t *Tree) (string, error) {
	data, err := json.Marshal(t.Snapshot())
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return string(data), nil
}

// ParseContent rebuilds a tree from a canvas item's content string. An empty
// content string yields the starter document from [Default].
func ParseContent(content string, opts ...Option) (*Tree, error) {
	if len(bytes.TrimSpace([]byte(content))) == 0 {
		return Default(opts...), nil
	}
	return Unmarshal([]byte(content), opts...)
}
