package canvas

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/interact"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseKind("sticker"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseKind(sticker) error = %v", err)
	}
}

func TestDefaultSizes(t *testing.T) {
	tests := []struct {
		kind Kind
		w, h float64
	}{
		{KindNote, 200, 200},
		{KindHTML, 500, 600},
		{KindImageGenerator, 400, 480},
		{KindVideoGenerator, 480, 400},
		{KindMindMap, 300, 300},
		{KindImage, 300, 300},
	}
	for _, tt := range tests {
		if w, h := tt.kind.DefaultSize(); w != tt.w || h != tt.h {
			t.Errorf("%s.DefaultSize() = %v×%v, want %v×%v", tt.kind, w, h, tt.w, tt.h)
		}
	}
}

func TestAddAtPlacesWithoutOverlap(t *testing.T) {
	b := NewBoard("Research", "")
	first := b.AddAt(0, 0, Note{Text: "a"}, Image{URL: "https://x/y.png"})
	if len(first) != 2 {
		t.Fatalf("AddAt returned %d items", len(first))
	}
	if first[0].Frame.X != 0 || first[1].Frame.X != 200+ItemGap {
		t.Errorf("side-by-side x = %v, %v", first[0].Frame.X, first[1].Frame.X)
	}
	if first[0].Color != "#fef3c7" {
		t.Errorf("note color = %q", first[0].Color)
	}

	second := b.AddAt(0, 0, Note{Text: "b"})
	for _, it := range first {
		if second[0].Frame.Overlaps(it.Frame, PlacementPadding) {
			t.Errorf("new item %+v overlaps %+v", second[0].Frame, it.Frame)
		}
	}
	if len(b.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(b.Items))
	}
}

func TestFreePositionWraps(t *testing.T) {
	b := NewBoard("", "")
	// A wide item blocks the whole first scan row.
	b.Items = append(b.Items, Item{ID: "wall", Frame: Frame{X: -300, Y: 0, Width: 1200, Height: 100}, Payload: Shape{}})
	f := b.FreePosition(100, 100, 0, 0)
	if f.Y <= 0 {
		t.Errorf("FreePosition did not wrap: %+v", f)
	}
	if f.Overlaps(b.Items[0].Frame, PlacementPadding) {
		t.Errorf("FreePosition %+v overlaps the wall", f)
	}
}

func TestBoardEdits(t *testing.T) {
	b := NewBoard("", WorkspaceTeam)
	it := b.AddAt(0, 0, Shape{})[0]

	if err := b.Move(it.ID, 10, 20); err != nil {
		t.Fatal(err)
	}
	if err := b.Resize(it.ID, 1, 1); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Item(it.ID)
	if got.Frame != (Frame{X: 10, Y: 20, Width: 50, Height: 50}) {
		t.Errorf("frame = %+v", got.Frame)
	}
	if err := b.SetColor(it.ID, "red"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetColor(red) error = %v", err)
	}
	if err := b.Remove(it.ID); err != nil {
		t.Fatal(err)
	}
	if err := b.Move(it.ID, 0, 0); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Move(removed) error = %v", err)
	}
}

func TestItemJSONWireFormat(t *testing.T) {
	mm, err := NewMindMap(nil)
	if err != nil {
		t.Fatal(err)
	}
	items := []Item{
		{ID: "a", Frame: Frame{1, 2, 3, 4}, Payload: Generator{Video: true, Prompt: "a cat"}},
		{ID: "b", Frame: Frame{5, 6, 300, 300}, Payload: mm, Meta: map[string]any{"source": "agent"}},
	}
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"video-generator"`) || !strings.Contains(string(data), `"content":"a cat"`) {
		t.Errorf("wire JSON = %s", data)
	}

	var back []Item
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back[0].Payload != items[0].Payload || back[0].Frame != items[0].Frame {
		t.Errorf("item a = %+v", back[0])
	}
	tree, err := back[1].Payload.(MindMap).Tree()
	if err != nil || !tree.Equal(mindmap.Default()) {
		t.Errorf("mind map did not survive: %v", err)
	}

	bad := []string{
		`{"id":"x","type":"sticker"}`,
		`{"id":"x","type":"mindmap","content":"{nope"}`,
	}
	for _, s := range bad {
		var it Item
		if err := json.Unmarshal([]byte(s), &it); err == nil {
			t.Errorf("Unmarshal(%s) succeeded", s)
		}
	}
}

func TestMindMapSession(t *testing.T) {
	b := NewBoard("", "")
	b.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	mm, _ := NewMindMap(nil)
	item := b.AddAt(0, 0, mm, Note{})[0]

	var changes []string
	b.OnItemChange = func(id, content string) {
		if id != item.ID {
			t.Errorf("OnItemChange id = %q", id)
		}
		changes = append(changes, content)
	}

	ctrl, err := b.OpenMindMap(item.ID, interact.WithLogger(log.New(discard{})))
	if err != nil {
		t.Fatal(err)
	}
	if again, _ := b.OpenMindMap(item.ID); again != ctrl {
		t.Errorf("OpenMindMap opened a second session")
	}
	if err := ctrl.SetNodeText("n1", "Pricing"); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 {
		t.Fatalf("OnItemChange calls = %d, want 1", len(changes))
	}
	got, _ := b.Item(item.ID)
	if got.Payload.Content() != changes[0] {
		t.Errorf("item content not updated from session")
	}

	// Content pushed by the host reaches the open session without echo.
	fresh, _ := mindmap.Content(mindmap.New("Replaced"))
	if err := b.SetContent(item.ID, fresh); err != nil {
		t.Fatal(err)
	}
	if ctrl.Tree().Root().Text != "Replaced" {
		t.Errorf("session root = %q", ctrl.Tree().Root().Text)
	}
	if len(changes) != 1 {
		t.Errorf("SetContent echoed through OnItemChange")
	}

	note := b.Items[1].ID
	if _, err := b.OpenMindMap(note); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("OpenMindMap(note) error = %v", err)
	}
	if err := b.SetContent(item.ID, "{bad"); !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
		t.Errorf("SetContent(bad) error = %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
