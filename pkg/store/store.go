package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	ierrors "github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one persisted mind map.
type Document struct {
	ID        string           `json:"id" bson:"_id"`
	Title     string           `json:"title" bson:"title"`
	Snapshot  mindmap.Snapshot `json:"snapshot" bson:"snapshot"`
	NodeCount int              `json:"nodeCount" bson:"nodeCount"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the listing form of a Document.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	NodeCount int       `json:"nodeCount" bson:"nodeCount"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Save creates or replaces a document. It sets UpdatedAt, and CreatedAt
	// when zero.
	Save(ctx context.Context, doc *Document) error

	// Load returns the document with the given id, or ErrNotFound.
	Load(ctx context.Context, id string) (*Document, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries ordered by most recent update first.
	List(ctx context.Context) ([]Summary, error)

	Close() error
}

// NewDocument wraps t in a new document with a random id. An empty title
// takes the root label.
func NewDocument(title string, t *mindmap.Tree) *Document {
	d := &Document{ID: uuid.NewString(), Title: title}
	d.SetTree(t)
	if d.Title == "" {
		d.Title = t.Root().Text
	}
	return d
}

// SetTree replaces the document's snapshot.
func (d *Document) SetTree(t *mindmap.Tree) {
	d.Snapshot = t.Snapshot()
	d.NodeCount = t.Len()
}

// SetContent replaces the snapshot from a controller content string.
func (d *Document) SetContent(content string) error {
	t, err := mindmap.ParseContent(content)
	if err != nil {
		return err
	}
	d.SetTree(t)
	return nil
}

// Tree rebuilds and validates the stored tree.
func (d *Document) Tree(opts ...mindmap.Option) (*mindmap.Tree, error) {
	return mindmap.FromSnapshot(d.Snapshot, opts...)
}

// Summary returns the listing form of d.
func (d *Document) Summary() Summary {
	return Summary{ID: d.ID, Title: d.Title, NodeCount: d.NodeCount, UpdatedAt: d.UpdatedAt}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	c.Snapshot.Nodes = make(map[string]mindmap.SnapshotNode, len(d.Snapshot.Nodes))
	for id, n := range d.Snapshot.Nodes {
		n.Children = slices.Clone(n.Children)
		if n.ParentID != nil {
			p := *n.ParentID
			n.ParentID = &p
		}
		c.Snapshot.Nodes[id] = n
	}
	return &c
}

// touch stamps timestamps and validates the id before a save.
func touch(doc *Document, now time.Time) error {
	if doc == nil {
		return ierrors.New(ierrors.ErrCodeInvalidInput, "nil document")
	}
	if err := ierrors.ValidateID(doc.ID); err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.NodeCount == 0 {
		doc.NodeCount = len(doc.Snapshot.Nodes)
	}
	return nil
}

// sortSummaries orders by UpdatedAt descending, then id.
func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
