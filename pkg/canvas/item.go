package canvas

import (
	"encoding/json"

	"github.com/matzehuels/infinityflow/pkg/errors"
)

// Frame is an item's position and size in board units.
type Frame struct {
	X, Y, Width, Height float64
}

// Overlaps reports whether f and o come within pad of each other.
func (f Frame) Overlaps(o Frame, pad float64) bool {
	return f.X < o.X+o.Width+pad &&
		f.X+f.Width+pad > o.X &&
		f.Y < o.Y+o.Height+pad &&
		f.Y+f.Height+pad > o.Y
}

// Item is one element on a board.
type Item struct {
	ID      string
	Frame   Frame
	Color   string
	Meta    map[string]any
	Payload Payload
}

// Kind returns the payload's kind.
func (it Item) Kind() Kind {
	if it.Payload == nil {
		return ""
	}
	return it.Payload.Kind()
}

type wireItem struct {
	ID      string         `json:"id"`
	Type    Kind           `json:"type"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Content string         `json:"content,omitempty"`
	Color   string         `json:"color,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	if it.Payload == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item %q has no payload", it.ID)
	}
	return json.Marshal(wireItem{
		ID:      it.ID,
		Type:    it.Payload.Kind(),
		X:       it.Frame.X,
		Y:       it.Frame.Y,
		Width:   it.Frame.Width,
		Height:  it.Frame.Height,
		Content: it.Payload.Content(),
		Color:   it.Color,
		Meta:    it.Meta,
	})
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	k, err := ParseKind(string(w.Type))
	if err != nil {
		return err
	}
	p, err := DecodePayload(k, w.Content)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "item %q", w.ID)
	}
	*it = Item{
		ID:      w.ID,
		Frame:   Frame{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height},
		Color:   w.Color,
		Meta:    w.Meta,
		Payload: p,
	}
	return nil
}
