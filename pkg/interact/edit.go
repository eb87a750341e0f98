package interact

import "github.com/matzehuels/infinityflow/pkg/errors"

// BeginEdit enters edit mode on the selected node.
func (c *Controller) BeginEdit() error {
	if c.readOnly {
		return errReadOnly
	}
	if c.selected == "" {
		return errors.New(errors.ErrCodeInvalidOperation, "no node selected")
	}
	c.editing = c.selected
	return nil
}

// DoubleClick selects id and enters edit mode on it.
func (c *Controller) DoubleClick(id string) error {
	if err := c.Select(id); err != nil {
		return err
	}
	return c.BeginEdit()
}

// SetEditText live-updates the label of the node being edited. Each call is
// a mutation with its own onChange; the whole edit becomes one undo step
// when edit mode ends.
func (c *Controller) SetEditText(text string) error {
	if c.editing == "" {
		return errors.New(errors.ErrCodeInvalidOperation, "not editing")
	}
	next, err := c.tree.SetText(c.editing, text)
	return c.apply(opEditText, next, err, c.editing)
}

// EditText returns the current label of the node being edited.
func (c *Controller) EditText() string {
	n, _ := c.tree.Node(c.editing)
	return n.Text
}

// CommitEdit leaves edit mode, keeping the selection.
func (c *Controller) CommitEdit() { c.endEdit() }

// CancelEdit leaves edit mode. The label is live-bound, so there is nothing
// to revert; it behaves like CommitEdit.
func (c *Controller) CancelEdit() { c.endEdit() }

func (c *Controller) endEdit() {
	if c.editing == "" {
		return
	}
	c.editing = ""
	c.history.Push(c.tree)
}
