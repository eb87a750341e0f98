package mindmap

// Ancestors returns the ids from the node's parent up to the root, nearest
// first. The walk stops early on a missing parent, a repeated id, or after
// MaxDepth steps.
func (t *Tree) Ancestors(id string) []string {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	var out []string
	seen := map[string]bool{id: true}
	for n.ParentID != "" && len(out) < MaxDepth {
		if seen[n.ParentID] {
			break
		}
		seen[n.ParentID] = true
		out = append(out, n.ParentID)
		if n, ok = t.nodes[n.ParentID]; !ok {
			break
		}
	}
	return out
}

// Depth returns the number of edges between the node and the root
// (root = 0). The boolean is false for unknown ids.
func (t *Tree) Depth(id string) (int, bool) {
	if !t.Has(id) {
		return 0, false
	}
	return len(t.Ancestors(id)), true
}

// IsDescendant reports whether id lies strictly below ancestor.
// It walks up from id, so the cost is proportional to id's depth.
func (t *Tree) IsDescendant(ancestor, id string) bool {
	for _, a := range t.Ancestors(id) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Descendants returns every node strictly below id in pre-order, including
// nodes hidden by collapses.
func (t *Tree) Descendants(id string) []string {
	var out []string
	t.walk(id, false, func(nid string, depth int) bool {
		if nid != id {
			out = append(out, nid)
		}
		return true
	})
	return out
}

// Walk visits the subtree rooted at id in pre-order. The callback receives
// the node id and its depth relative to id; returning false skips the node's
// children. When visibleOnly is set, children of collapsed nodes are skipped.
func (t *Tree) Walk(id string, visibleOnly bool, fn func(id string, depth int) bool) {
	t.walk(id, visibleOnly, fn)
}

// Visible returns every visible node id in pre-order, starting at the root.
func (t *Tree) Visible() []string {
	var out []string
	t.walk(t.rootID, true, func(id string, _ int) bool {
		out = append(out, id)
		return true
	})
	return out
}

func (t *Tree) walk(start string, visibleOnly bool, fn func(string, int) bool) {
	if !t.Has(start) {
		return
	}
	seen := make(map[string]bool)
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		if seen[id] || depth > MaxDepth {
			return
		}
		seen[id] = true
		n, ok := t.nodes[id]
		if !ok {
			return
		}
		if !fn(id, depth) {
			return
		}
		if visibleOnly && n.IsCollapsed {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(start, 0)
}
