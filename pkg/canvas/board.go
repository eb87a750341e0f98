package canvas

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/interact"
)

// Workspace separates personal boards from shared ones.
type Workspace string

const (
	WorkspacePersonal Workspace = "personal"
	WorkspaceTeam     Workspace = "team"
)

// Placement constants for new items.
const (
	PlacementPadding  = 20  // minimum clearance to existing items
	PlacementStep     = 50  // scan step
	PlacementSpan     = 500 // row width scanned before wrapping
	PlacementBackoff  = 200 // wrapped rows restart this far left of the start
	PlacementAttempts = 100
	ItemGap           = 40 // gap between items added together
)

// Board is a named collection of items. It is not safe for concurrent use.
type Board struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Workspace      Workspace `json:"workspace"`
	LastModified   time.Time `json:"lastModified"`
	ThumbnailColor string    `json:"thumbnailColor,omitempty"`
	Items          []Item    `json:"items"`

	// OnItemChange, when set, is called after an item's content changes
	// through an open mind-map session.
	OnItemChange func(itemID, content string) `json:"-"`

	sessions map[string]*interact.Controller
	now      func() time.Time
}

// NewBoard creates an empty board.
func NewBoard(title string, ws Workspace) *Board {
	if ws == "" {
		ws = WorkspacePersonal
	}
	b := &Board{ID: uuid.NewString(), Title: title, Workspace: ws, Items: []Item{}}
	b.touch()
	return b
}

func (b *Board) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

func (b *Board) touch() { b.LastModified = b.clock() }

func (b *Board) index(id string) int {
	return slices.IndexFunc(b.Items, func(it Item) bool { return it.ID == id })
}

// Item returns the item with the given id.
func (b *Board) Item(id string) (Item, bool) {
	if i := b.index(id); i >= 0 {
		return b.Items[i], true
	}
	return Item{}, false
}

func (b *Board) lookup(id string) (int, error) {
	i := b.index(id)
	if i < 0 {
		return -1, errors.New(errors.ErrCodeNotFound, "item %q not found", id)
	}
	return i, nil
}

// AddAt places payloads side by side, starting at the first free spot
// scanned from (x, y), and returns the new items.
func (b *Board) AddAt(x, y float64, payloads ...Payload) []Item {
	if len(payloads) == 0 {
		return nil
	}
	w, h := payloads[0].Kind().DefaultSize()
	pos := b.FreePosition(w, h, x, y)

	added := make([]Item, 0, len(payloads))
	cx := pos.X
	for _, p := range payloads {
		w, h := p.Kind().DefaultSize()
		it := Item{ID: uuid.NewString(), Frame: Frame{X: cx, Y: pos.Y, Width: w, Height: h}, Payload: p}
		if p.Kind() == KindNote {
			it.Color = "#fef3c7"
		}
		added = append(added, it)
		cx += w + ItemGap
	}
	b.Items = append(b.Items, added...)
	b.touch()
	return added
}

// FreePosition scans right from (x, y) in PlacementStep increments for a
// w×h frame clear of every item by PlacementPadding. After PlacementSpan it
// wraps one step down, restarting PlacementBackoff left of x. After
// PlacementAttempts collisions the last probed position is returned.
func (b *Board) FreePosition(w, h, x, y float64) Frame {
	probe := Frame{X: x, Y: y, Width: w, Height: h}
	for attempt := 0; attempt < PlacementAttempts; attempt++ {
		hit := slices.ContainsFunc(b.Items, func(it Item) bool {
			return probe.Overlaps(it.Frame, PlacementPadding)
		})
		if !hit {
			return probe
		}
		probe.X += PlacementStep
		if probe.X > x+PlacementSpan {
			probe.X = x - PlacementBackoff
			probe.Y += PlacementStep
		}
	}
	return probe
}

// Remove deletes an item and closes its mind-map session, if any.
func (b *Board) Remove(id string) error {
	i, err := b.lookup(id)
	if err != nil {
		return err
	}
	b.Items = slices.Delete(b.Items, i, i+1)
	delete(b.sessions, id)
	b.touch()
	return nil
}

// Move sets an item's top-left corner.
func (b *Board) Move(id string, x, y float64) error {
	i, err := b.lookup(id)
	if err != nil {
		return err
	}
	b.Items[i].Frame.X, b.Items[i].Frame.Y = x, y
	b.touch()
	return nil
}

// Resize sets an item's size, clamped to its kind's minimum.
func (b *Board) Resize(id string, w, h float64) error {
	i, err := b.lookup(id)
	if err != nil {
		return err
	}
	mw, mh := b.Items[i].Kind().MinSize()
	b.Items[i].Frame.Width, b.Items[i].Frame.Height = max(w, mw), max(h, mh)
	b.touch()
	return nil
}

// SetColor sets an item's color. Empty clears it.
func (b *Board) SetColor(id, color string) error {
	if err := errors.ValidateColor(color); err != nil {
		return err
	}
	i, err := b.lookup(id)
	if err != nil {
		return err
	}
	b.Items[i].Color = color
	b.touch()
	return nil
}

// SetContent replaces an item's content, as a generator or agent would.
// For a mind-map item with an open session the new snapshot is pushed
// into the session; OnItemChange is not called since the caller already
// holds the content.
func (b *Board) SetContent(id, content string) error {
	i, err := b.lookup(id)
	if err != nil {
		return err
	}
	p, err := DecodePayload(b.Items[i].Kind(), content)
	if err != nil {
		return err
	}
	if c, ok := b.sessions[id]; ok {
		if err := c.SetContent(content); err != nil {
			return err
		}
	}
	b.Items[i].Payload = p
	b.touch()
	return nil
}

// OpenMindMap starts, or returns the already open, editing session on a
// mind-map item. Every change made through the session is written back to
// the item and reported through OnItemChange. Options are only applied
// when the session is created.
func (b *Board) OpenMindMap(id string, opts ...interact.Option) (*interact.Controller, error) {
	i, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	mm, ok := b.Items[i].Payload.(MindMap)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "item %q is a %s, not a mind map", id, b.Items[i].Kind())
	}
	if c, ok := b.sessions[id]; ok {
		return c, nil
	}
	tree, err := mm.Tree()
	if err != nil {
		return nil, err
	}

	onChange := func(content string) {
		if j := b.index(id); j >= 0 {
			b.Items[j].Payload = MindMap{Snapshot: content}
			b.touch()
		}
		if b.OnItemChange != nil {
			b.OnItemChange(id, content)
		}
	}
	c := interact.New(tree, append(opts, interact.WithOnChange(onChange))...)
	if b.sessions == nil {
		b.sessions = make(map[string]*interact.Controller)
	}
	b.sessions[id] = c
	return c, nil
}

// CloseMindMap ends the session on id, if any.
func (b *Board) CloseMindMap(id string) {
	delete(b.sessions, id)
}
