package canvas

import (
	"slices"

	"github.com/matzehuels/infinityflow/pkg/errors"
)

// Kind identifies what an item holds.
type Kind string

const (
	KindNote           Kind = "note"
	KindImage          Kind = "image"
	KindVideo          Kind = "video"
	KindShape          Kind = "shape"
	KindMindMap        Kind = "mindmap"
	KindReport         Kind = "report"
	KindHTML           Kind = "html"
	KindImageGenerator Kind = "image-generator"
	KindVideoGenerator Kind = "video-generator"
)

var kinds = []Kind{
	KindNote, KindImage, KindVideo, KindShape, KindMindMap,
	KindReport, KindHTML, KindImageGenerator, KindVideoGenerator,
}

// Kinds returns every item kind.
func Kinds() []Kind { return slices.Clone(kinds) }

// ParseKind validates a wire-format type tag.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(kinds, k) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown item type %q", s)
	}
	return k, nil
}

// DefaultSize is the frame size given to a new item of kind k.
func (k Kind) DefaultSize() (w, h float64) {
	switch k {
	case KindNote:
		return 200, 200
	case KindHTML:
		return 500, 600
	case KindImageGenerator:
		return 400, 480
	case KindVideoGenerator:
		return 480, 400
	}
	return 300, 300
}

// MinSize is the smallest frame a resize may produce.
func (k Kind) MinSize() (w, h float64) {
	if k == KindMindMap {
		return 300, 200
	}
	return 50, 50
}
