package mindmap

import "github.com/matzehuels/infinityflow/pkg/errors"

// Validate checks the structural invariants of the tree and returns nil if
// they hold:
//
//  1. The root exists, has no parent, and is the only parentless node
//  2. Every node is stored under its own id
//  3. Every non-root parent exists and lists the node exactly once
//  4. Every listed child exists and points back at its parent
//  5. Every node is reachable from the root (connected, hence acyclic)
//
// Violations are reported as INVALID_SNAPSHOT errors naming the first
// offending node.
func (t *Tree) Validate() error {
	root, ok := t.nodes[t.rootID]
	if !ok {
		return errors.New(errors.ErrCodeInvalidSnapshot, "root %q not found", t.rootID)
	}
	if root.ParentID != "" {
		return errors.New(errors.ErrCodeInvalidSnapshot, "root %q has parent %q", t.rootID, root.ParentID)
	}

	for _, id := range t.IDs() {
		n := t.nodes[id]
		if n == nil || n.ID != id {
			return errors.New(errors.ErrCodeInvalidSnapshot, "node stored under %q has mismatched id", id)
		}
		if id != t.rootID {
			if n.ParentID == "" {
				return errors.New(errors.ErrCodeInvalidSnapshot, "node %q has no parent but is not the root", id)
			}
			p, ok := t.nodes[n.ParentID]
			if !ok {
				return errors.New(errors.ErrCodeInvalidSnapshot, "node %q has unknown parent %q", id, n.ParentID)
			}
			if count(p.Children, id) != 1 {
				return errors.New(errors.ErrCodeInvalidSnapshot, "parent %q lists child %q %d times", p.ID, id, count(p.Children, id))
			}
		}
		for _, c := range n.Children {
			child, ok := t.nodes[c]
			if !ok {
				return errors.New(errors.ErrCodeInvalidSnapshot, "node %q lists unknown child %q", id, c)
			}
			if child.ParentID != id {
				return errors.New(errors.ErrCodeInvalidSnapshot, "child %q of %q points at parent %q", c, id, child.ParentID)
			}
		}
	}

	reached := 0
	t.walk(t.rootID, false, func(string, int) bool {
		reached++
		return true
	})
	if reached != len(t.nodes) {
		return errors.New(errors.ErrCodeInvalidSnapshot, "%d of %d nodes are unreachable from the root", len(t.nodes)-reached, len(t.nodes))
	}
	return nil
}

func count(ids []string, id string) int {
	n := 0
	for _, c := range ids {
		if c == id {
			n++
		}
	}
	return n
}
