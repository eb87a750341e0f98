package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultDebounce is the quiet period AutoSaver waits for before saving.
const DefaultDebounce = 800 * time.Millisecond

// AutoSaver persists the latest content of one document in the background.
// Notify never blocks on I/O; bursts of changes collapse into one save.
type AutoSaver struct {
	store    Store
	debounce time.Duration
	timeout  time.Duration
	logger   *log.Logger
	onSaved  func(*Document, error)

	mu      sync.Mutex
	doc     *Document
	pending *string
	timer   *time.Timer
	closed  bool

	saveMu sync.Mutex // serializes writes so they land in order
}

// AutoSaveOption configures an AutoSaver.
type AutoSaveOption func(*AutoSaver)

func WithDebounce(d time.Duration) AutoSaveOption {
	return func(a *AutoSaver) {
		if d > 0 {
			a.debounce = d
		}
	}
}

// WithSaveTimeout bounds each background save.
func WithSaveTimeout(d time.Duration) AutoSaveOption {
	return func(a *AutoSaver) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithSaveLogger(l *log.Logger) AutoSaveOption {
	return func(a *AutoSaver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithOnSaved registers a callback run after every background save.
func WithOnSaved(fn func(*Document, error)) AutoSaveOption {
	return func(a *AutoSaver) { a.onSaved = fn }
}

// NewAutoSaver creates a saver for doc. The saver owns doc from here on;
// read it back through Document.
func NewAutoSaver(s Store, doc *Document, opts ...AutoSaveOption) *AutoSaver {
	a := &AutoSaver{
		store:    s,
		doc:      doc,
		debounce: DefaultDebounce,
		timeout:  10 * time.Second,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Notify records new content and (re)arms the debounce timer. Its signature
// matches the controller's onChange callback.
func (a *AutoSaver) Notify(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = &content
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.fire)
		return
	}
	a.timer.Reset(a.debounce)
}

// Pending reports whether content is waiting to be saved.
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// Document returns a copy of the document as last prepared for saving.
func (a *AutoSaver) Document() *Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.Clone()
}

func (a *AutoSaver) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.save(ctx); err != nil {
		a.logger.Warn("autosave failed", "doc", a.doc.ID, "err", err)
	}
}

// Flush cancels the timer and saves any pending content now.
func (a *AutoSaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.save(ctx)
}

// Close flushes and stops accepting changes.
func (a *AutoSaver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	err := a.Flush(ctx)
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return err
}

func (a *AutoSaver) save(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	content := a.pending
	a.pending = nil
	if content == nil {
		a.mu.Unlock()
		return nil
	}
	if err := a.doc.SetContent(*content); err != nil {
		a.mu.Unlock()
		return err
	}
	doc := a.doc.Clone()
	a.mu.Unlock()

	err := a.store.Save(ctx, doc)
	if err == nil {
		a.mu.Lock()
		a.doc.CreatedAt, a.doc.UpdatedAt = doc.CreatedAt, doc.UpdatedAt
		a.mu.Unlock()
		a.logger.Debug("autosaved", "doc", doc.ID, "nodes", doc.NodeCount)
	} else {
		// Keep the content so the next change or Flush retries it.
		a.mu.Lock()
		if a.pending == nil {
			a.pending = content
		}
		a.mu.Unlock()
	}
	if a.onSaved != nil {
		a.onSaved(doc, err)
	}
	return err
}
