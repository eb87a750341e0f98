package pipeline

import (
	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Parse decodes and validates a JSON snapshot. Empty content yields the
// starter document.
func Parse(content []byte) (*mindmap.Tree, error) {
	return mindmap.ParseContent(string(content))
}

// SnapshotHash returns the content hash of the tree's compact snapshot.
// Equal trees hash equally regardless of how their source was formatted.
func SnapshotHash(t *mindmap.Tree) (string, error) {
	content, err := mindmap.Content(t)
	if err != nil {
		return "", err
	}
	return cache.Hash([]byte(content)), nil
}
