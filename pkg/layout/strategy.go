package layout

import (
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// DefaultStrategy is the strategy used when none is named.
const DefaultStrategy = "tree"

// Strategy is a layout algorithm. Implementations must be deterministic and
// must place exactly the visible nodes of t.
type Strategy interface {
	Name() string
	Layout(t *mindmap.Tree, o Options) (Result, error)
}

// Registry maps strategy names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a registry holding the given strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// DefaultRegistry returns a registry holding the built-in pure strategies.
func DefaultRegistry() *Registry {
	return NewRegistry(Tree{}, Classic{}, Radial{}, Layered{})
}

// Register adds or replaces a strategy under its name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strings.ToLower(s.Name())] = s
}

// Lookup returns the strategy with the given name, case-insensitively.
// An empty name selects DefaultStrategy.
func (r *Registry) Lookup(name string) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	r.mu.RLock()
	s, ok := r.strategies[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStrategy,
			"unknown layout strategy %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return s, nil
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Run looks up name and lays t out with it.
func (r *Registry) Run(name string, t *mindmap.Tree, o Options) (Result, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}
	return s.Layout(t, o)
}

var (
	_ Strategy = Tree{}
	_ Strategy = Classic{}
	_ Strategy = Radial{}
	_ Strategy = Layered{}
)
