package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	ierrors "github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/observability"
)

// FileStore stores each document as an indented JSON file named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDataDir returns $XDG_DATA_HOME/infinityflow/maps, falling back to
// ~/.local/share/infinityflow/maps.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "infinityflow", "maps"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "infinityflow", "maps"), nil
}

// NewFileStore creates a file store under baseDir. An empty baseDir uses
// DefaultDataDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, doc *Document) (err error) {
	start := time.Now()
	defer func() {
		if doc != nil {
			observability.Store().OnSave(ctx, "file", doc.ID, doc.NodeCount, time.Since(start), err)
		}
	}()
	if err := touch(doc, time.Now()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.docPath(doc.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeStorage, err, "write document %s", doc.ID)
	}
	if err := os.Rename(tmp, path); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeStorage, err, "write document %s", doc.ID)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, id string) (doc *Document, err error) {
	start := time.Now()
	defer func() { observability.Store().OnLoad(ctx, "file", id, time.Since(start), err) }()
	if err := ierrors.ValidateID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.docPath(id))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "read document %s", id)
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidSnapshot, err, "parse document %s", id)
	}
	if d.ID == "" {
		d.ID = id
	}
	return &d, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ierrors.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.docPath(id)); err != nil && !os.IsNotExist(err) {
		return ierrors.Wrap(ierrors.ErrCodeStorage, err, "remove document %s", id)
	}
	return nil
}

// List reads every document in the directory. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "read data dir")
	}
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		var d Document
		if err := json.Unmarshal(data, &d); err != nil {
			continue
		}
		out = append(out, d.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Path returns the directory holding the document files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
