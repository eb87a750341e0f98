package mindmap

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator allocates node identifiers. Implementations must be safe for
// concurrent use because one generator is shared by every version of a tree.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator allocates random version 4 UUIDs. It is the default.
type UUIDGenerator struct{}

// NewID returns a fresh random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceGenerator allocates monotonic ids of the form "<prefix><n>".
// It is mostly useful in tests, where deterministic ids make assertions
// readable.
type SequenceGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequenceGenerator creates a generator producing prefix1, prefix2, ...
// An empty prefix defaults to "node-".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "node-"
	}
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.prefix, g.next.Add(1))
}

// Observe advances the sequence past id when id has the form "<prefix><n>",
// so a generator attached to a loaded tree never replays an existing id.
func (g *SequenceGenerator) Observe(id string) {
	rest, ok := strings.CutPrefix(id, g.prefix)
	if !ok {
		return
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return
	}
	for {
		cur := g.next.Load()
		if cur >= n || g.next.CompareAndSwap(cur, n) {
			return
		}
	}
}

// idObserver is implemented by generators that must learn the ids of a tree
// they were not used to build.
type idObserver interface {
	Observe(id string)
}

var (
	_ idObserver  = (*SequenceGenerator)(nil)
	_ IDGenerator = UUIDGenerator{}
	_ IDGenerator = (*SequenceGenerator)(nil)
)
