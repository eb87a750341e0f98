package interact

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/layout"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/observability"
	"github.com/matzehuels/infinityflow/pkg/render"
)

// Controller is one interactive editing session over a mind map.
type Controller struct {
	tree     *mindmap.Tree
	history  *mindmap.History
	opts     layout.Options
	strategy layout.Strategy
	result   layout.Result
	drop     DropPolicy

	selected   string
	editing    string
	dragging   string
	dragTarget string
	anchors    []string

	readOnly bool
	onChange func(content string)
	logger   *log.Logger
	ctx      context.Context
	histSize int
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnChange registers the callback invoked with the JSON snapshot after
// every successful mutation.
func WithOnChange(fn func(content string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithLayoutOptions(o layout.Options) Option {
	return func(c *Controller) { c.opts = o }
}

// WithStrategy selects the layout strategy. A strategy that fails falls
// back to the tree layout for that pass.
func WithStrategy(s layout.Strategy) Option {
	return func(c *Controller) {
		if s != nil {
			c.strategy = s
		}
	}
}

func WithHistoryLimit(n int) Option { return func(c *Controller) { c.histSize = n } }

func WithDropPolicy(p DropPolicy) Option { return func(c *Controller) { c.drop = p } }

// WithReadOnly disables every gesture that would mutate the tree. Keys are
// ignored entirely, matching a board opened without edit rights.
func WithReadOnly() Option { return func(c *Controller) { c.readOnly = true } }

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// New starts a session on t. A nil tree starts from the default document.
func New(t *mindmap.Tree, opts ...Option) *Controller {
	if t == nil {
		t = mindmap.Default()
	}
	c := &Controller{
		tree:     t,
		opts:     layout.DefaultOptions(),
		strategy: layout.Tree{},
		drop:     DefaultDropPolicy(),
		logger:   log.Default(),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = mindmap.NewHistory(t, c.histSize)
	c.relayout()
	return c
}

// ===== Accessors =====

func (c *Controller) Tree() *mindmap.Tree   { return c.tree }
func (c *Controller) Layout() layout.Result { return c.result }
func (c *Controller) Selected() string      { return c.selected }
func (c *Controller) Editing() string       { return c.editing }
func (c *Controller) Dragging() string      { return c.dragging }
func (c *Controller) DragTarget() string    { return c.dragTarget }
func (c *Controller) ReadOnly() bool        { return c.readOnly }
func (c *Controller) CanUndo() bool         { return !c.readOnly && c.history.CanUndo() }
func (c *Controller) CanRedo() bool         { return !c.readOnly && c.history.CanRedo() }

// Options returns the layout geometry in use.
func (c *Controller) Options() layout.Options { return c.opts }

// Anchors returns the nodes whose subtree geometry the last mutation
// changed: the mutated node plus any former parent.
func (c *Controller) Anchors() []string { return slices.Clone(c.anchors) }

// Content returns the current JSON snapshot.
func (c *Controller) Content() (string, error) { return mindmap.Content(c.tree) }

// Scene returns the drawable view of the current layout with the session's
// selection and edit state applied.
func (c *Controller) Scene() render.Scene {
	return render.Build(c.result, render.WithSelection(c.selected), render.WithEditing(c.editing))
}

// ===== Selection =====

// Select makes id the selection and leaves edit mode. An empty id clears
// the selection. Hidden nodes cannot be selected.
func (c *Controller) Select(id string) error {
	if id == "" {
		c.selected, c.editing = "", ""
		return nil
	}
	if !c.tree.Has(id) {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	if !c.tree.IsVisible(id) {
		return errors.New(errors.ErrCodeInvalidOperation, "node %q is hidden by a collapsed ancestor", id)
	}
	if c.editing != "" && c.editing != id {
		c.endEdit()
	}
	c.selected = id
	return nil
}

// fixSelection re-targets selection and edit state after the tree changed
// underneath them.
func (c *Controller) fixSelection() {
	if c.editing != "" && !c.tree.IsVisible(c.editing) {
		c.editing = ""
	}
	if c.selected == "" {
		return
	}
	if c.tree.IsVisible(c.selected) {
		return
	}
	if c.tree.Has(c.selected) {
		// Hidden by a collapse: climb to the nearest visible ancestor.
		for _, a := range c.tree.Ancestors(c.selected) {
			if c.tree.IsVisible(a) {
				c.selected = a
				return
			}
		}
	}
	c.selected = c.tree.RootID()
}

// ===== Mutation plumbing =====

var errReadOnly = errors.New(errors.ErrCodeInvalidOperation, "mind map is read-only")

// opEditText names keystroke updates to the edited label. They collapse into
// one history step recorded when the edit ends.
const opEditText = "edit_text"

// apply installs the result of a tree operation. Rejections leave the
// session untouched; successful changes record history, anchors, a fresh
// layout and an onChange notification.
func (c *Controller) apply(op string, next *mindmap.Tree, err error, anchors ...string) error {
	observability.Mutation().OnMutation(c.ctx, op, c.tree.Len(), err)
	if err != nil {
		c.logger.Debug("mutation rejected", "op", op, "code", errors.GetCode(err), "err", errors.UserMessage(err))
		return err
	}
	if next == nil || next == c.tree {
		return nil
	}
	if op != opEditText {
		// Structural changes during an edit first record the label typed so
		// far, so undo steps back through both.
		if c.editing != "" {
			c.history.Push(c.tree)
		}
		c.history.Push(next)
	}
	c.tree = next
	c.anchors = slices.Compact(anchors)
	c.fixSelection()
	c.relayout()
	c.logger.Debug("mutation", "op", op, "nodes", next.Len(), "anchors", c.anchors)
	c.notify()
	return nil
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	content, err := mindmap.Content(c.tree)
	if err != nil {
		c.logger.Error("encode snapshot", "err", err)
		return
	}
	observability.Mutation().OnChange(c.ctx, len(content))
	c.onChange(content)
}

// relayout recomputes the whole layout from the root.
func (c *Controller) relayout() {
	start := time.Now()
	res, err := c.strategy.Layout(c.tree, c.opts)
	observability.Layout().OnLayout(c.ctx, c.strategy.Name(), c.tree.Len(), time.Since(start), err)
	if err != nil {
		c.logger.Warn("layout failed, using tree layout", "strategy", c.strategy.Name(), "err", err)
		res, _ = layout.Tree{}.Layout(c.tree, c.opts)
	}
	c.result = res
}

// ===== Tree operations =====

// AddChild appends a child to the selection, then selects and edits it.
func (c *Controller) AddChild() (string, error) {
	if c.readOnly {
		return "", errReadOnly
	}
	parent := c.selected
	if parent == "" {
		return "", errors.New(errors.ErrCodeInvalidOperation, "no node selected")
	}
	c.endEdit()
	next, id, err := c.tree.AddChild(parent, mindmap.DefaultChildText)
	if err := c.apply("add_child", next, err, parent); err != nil {
		return "", err
	}
	c.selected, c.editing = id, id
	return id, nil
}

// AddSibling inserts a node after the selection, then selects and edits it.
func (c *Controller) AddSibling() (string, error) {
	if c.readOnly {
		return "", errReadOnly
	}
	ref := c.selected
	if ref == "" {
		return "", errors.New(errors.ErrCodeInvalidOperation, "no node selected")
	}
	c.endEdit()
	next, id, err := c.tree.AddSibling(ref, mindmap.DefaultSiblingText)
	if err := c.apply("add_sibling", next, err, c.tree.Parent(ref)); err != nil {
		return "", err
	}
	c.selected, c.editing = id, id
	return id, nil
}

// DeleteSelected removes the selected subtree and selects its parent.
func (c *Controller) DeleteSelected() error {
	if c.readOnly {
		return errReadOnly
	}
	id := c.selected
	if id == "" {
		return errors.New(errors.ErrCodeInvalidOperation, "no node selected")
	}
	parent := c.tree.Parent(id)
	next, err := c.tree.DeleteSubtree(id)
	if err := c.apply("delete", next, err, parent); err != nil {
		return err
	}
	c.selected, c.editing = parent, ""
	return nil
}

// ToggleCollapse flips the collapse flag of id. A selection hidden by the
// collapse moves up to id.
func (c *Controller) ToggleCollapse(id string) error {
	if c.readOnly {
		return errReadOnly
	}
	next, err := c.tree.ToggleCollapse(id)
	return c.apply("toggle_collapse", next, err, id)
}

// MoveNode reparents dragID under newParentID.
func (c *Controller) MoveNode(dragID, newParentID string) error {
	if c.readOnly {
		return errReadOnly
	}
	oldParent := c.tree.Parent(dragID)
	next, err := c.tree.MoveNode(dragID, newParentID)
	return c.apply("move", next, err, newParentID, oldParent)
}

// MoveSibling shifts the selection among its siblings.
func (c *Controller) MoveSibling(delta int) error {
	if c.readOnly {
		return errReadOnly
	}
	id := c.selected
	next, err := c.tree.MoveSibling(id, delta)
	return c.apply("reorder", next, err, c.tree.Parent(id))
}

// SetNodeText replaces the label of id. This is the content-injection entry
// point for generators and agents: the value is opaque and the last write
// wins, even over a live edit of the same node.
func (c *Controller) SetNodeText(id, text string) error {
	if c.readOnly {
		return errReadOnly
	}
	next, err := c.tree.SetText(id, text)
	return c.apply("set_text", next, err, id)
}

// SetNodeColor sets or clears an explicit color override on id.
func (c *Controller) SetNodeColor(id, color string) error {
	if c.readOnly {
		return errReadOnly
	}
	next, err := c.tree.SetColor(id, color)
	return c.apply("set_color", next, err, id)
}

// SetContent replaces the whole tree with a snapshot pushed by the host.
// History restarts and onChange is not called, since the host already
// holds this content. Equal content is a no-op.
func (c *Controller) SetContent(content string) error {
	t, err := mindmap.ParseContent(content)
	if err != nil {
		return err
	}
	if t.Equal(c.tree) {
		return nil
	}
	c.tree = t
	c.history.Reset(t)
	c.editing = ""
	c.anchors = []string{t.RootID()}
	c.fixSelection()
	c.relayout()
	return nil
}

// Undo restores the previous tree version.
func (c *Controller) Undo() bool { return c.travel("undo", c.history.Undo) }

// Redo re-applies the most recently undone version.
func (c *Controller) Redo() bool { return c.travel("redo", c.history.Redo) }

func (c *Controller) travel(op string, step func() (*mindmap.Tree, bool)) bool {
	if c.readOnly {
		return false
	}
	c.endEdit()
	t, ok := step()
	if !ok {
		return false
	}
	c.tree = t
	c.anchors = []string{t.RootID()}
	c.fixSelection()
	c.relayout()
	observability.Mutation().OnMutation(c.ctx, op, t.Len(), nil)
	c.logger.Debug("mutation", "op", op, "nodes", t.Len())
	c.notify()
	return true
}
