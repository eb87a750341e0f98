package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/infinityflow/pkg/observability"
)

// MemoryStore keeps documents in a map. Documents are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document), now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, doc *Document) error {
	start := time.Now()
	if err := touch(doc, s.now()); err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[doc.ID] = doc.Clone()
	s.mu.Unlock()
	observability.Store().OnSave(ctx, "memory", doc.ID, doc.NodeCount, time.Since(start), nil)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Document, error) {
	start := time.Now()
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		observability.Store().OnLoad(ctx, "memory", id, time.Since(start), ErrNotFound)
		return nil, ErrNotFound
	}
	observability.Store().OnLoad(ctx, "memory", id, time.Since(start), nil)
	return doc.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.Summary())
	}
	s.mu.RUnlock()
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
