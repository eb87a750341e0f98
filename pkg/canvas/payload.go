package canvas

import (
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

// Payload is the kind-specific part of an item. The implementations in
// this package are the only ones.
type Payload interface {
	Kind() Kind
	// Content is the wire-format content string.
	Content() string
	payload()
}

// Note is sticky-note text.
type Note struct{ Text string }

// Image is an image URL or data URI.
type Image struct{ URL string }

// Video is a video URL.
type Video struct{ URL string }

// Shape is a plain box; its color lives on the item.
type Shape struct{ Label string }

// Report is a markdown analysis report.
type Report struct{ Markdown string }

// HTML is an interactive HTML report.
type HTML struct{ Markup string }

// Generator is an image or video generator widget holding its prompt.
type Generator struct {
	Video  bool
	Prompt string
}

// MindMap holds the JSON snapshot of a mind-map tree.
type MindMap struct{ Snapshot string }

func (Note) Kind() Kind    { return KindNote }
func (Image) Kind() Kind   { return KindImage }
func (Video) Kind() Kind   { return KindVideo }
func (Shape) Kind() Kind   { return KindShape }
func (Report) Kind() Kind  { return KindReport }
func (HTML) Kind() Kind    { return KindHTML }
func (MindMap) Kind() Kind { return KindMindMap }

func (g Generator) Kind() Kind {
	if g.Video {
		return KindVideoGenerator
	}
	return KindImageGenerator
}

func (p Note) Content() string      { return p.Text }
func (p Image) Content() string     { return p.URL }
func (p Video) Content() string     { return p.URL }
func (p Shape) Content() string     { return p.Label }
func (p Report) Content() string    { return p.Markdown }
func (p HTML) Content() string      { return p.Markup }
func (p Generator) Content() string { return p.Prompt }
func (p MindMap) Content() string   { return p.Snapshot }

func (Note) payload()      {}
func (Image) payload()     {}
func (Video) payload()     {}
func (Shape) payload()     {}
func (Report) payload()    {}
func (HTML) payload()      {}
func (Generator) payload() {}
func (MindMap) payload()   {}

// NewMindMap returns a mind-map payload for t. A nil tree uses the
// starter document.
func NewMindMap(t *mindmap.Tree) (MindMap, error) {
	if t == nil {
		t = mindmap.Default()
	}
	s, err := mindmap.Content(t)
	if err != nil {
		return MindMap{}, err
	}
	return MindMap{Snapshot: s}, nil
}

// Tree parses the snapshot. Empty content yields the starter document.
func (p MindMap) Tree(opts ...mindmap.Option) (*mindmap.Tree, error) {
	return mindmap.ParseContent(p.Snapshot, opts...)
}

// DecodePayload builds the payload for kind k from a wire content string.
// Mind-map content must be a valid snapshot or empty.
func DecodePayload(k Kind, content string) (Payload, error) {
	switch k {
	case KindNote:
		return Note{Text: content}, nil
	case KindImage:
		return Image{URL: content}, nil
	case KindVideo:
		return Video{URL: content}, nil
	case KindShape:
		return Shape{Label: content}, nil
	case KindReport:
		return Report{Markdown: content}, nil
	case KindHTML:
		return HTML{Markup: content}, nil
	case KindImageGenerator:
		return Generator{Prompt: content}, nil
	case KindVideoGenerator:
		return Generator{Video: true, Prompt: content}, nil
	case KindMindMap:
		if _, err := mindmap.ParseContent(content); err != nil {
			return nil, err
		}
		return MindMap{Snapshot: content}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown item type %q", k)
}
