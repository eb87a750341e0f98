package layout

import (
	"testing"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
)

func TestMeasure(t *testing.T) {
	o := DefaultOptions()
	tests := []struct {
		name  string
		text  string
		depth int
		fixed bool
		wantW float64
		wantH float64
	}{
		{"root short", "Hi", 0, false, 120, 50},
		{"root long", "Central Topic", 0, false, 13*14 + 24, 50},
		{"child short", "a", 1, false, 80, 36},
		{"child long", "Branch Topic 1", 2, false, 14*14 + 24, 36},
		{"runes not bytes", "中心主题", 1, false, 80, 36},
		{"runes wide", "中心主题中心主题", 1, false, 8*14 + 24, 36},
		{"empty", "", 1, false, 80, 36},
		{"fixed root", "a very very long label", 0, true, 120, 50},
		{"fixed child", "a very very long label", 3, true, 80, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oo := o
			oo.FixedSize = tt.fixed
			w, h := Measure(tt.text, tt.depth, oo)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Measure(%q, %d) = %v×%v, want %v×%v", tt.text, tt.depth, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestColors(t *testing.T) {
	tr := mindmap.New("R", mindmap.WithIDGenerator(mindmap.NewSequenceGenerator("n")))
	root := tr.RootID()
	var kids []string
	for range 6 {
		var id string
		tr, id, _ = tr.AddChild(root, "k")
		kids = append(kids, id)
	}
	tr, grand, _ := tr.AddChild(kids[1], "g")
	tr, great, _ := tr.AddChild(grand, "gg")
	tr, _ = tr.SetColor(grand, "#000000")

	pal := DefaultPalette()
	c := Colors(tr, DefaultOptions())
	if c[root] != DefaultRootColor {
		t.Errorf("root color = %q, want %q", c[root], DefaultRootColor)
	}
	for i, k := range kids {
		if want := pal[i%len(pal)]; c[k] != want {
			t.Errorf("child %d color = %q, want %q", i, c[k], want)
		}
	}
	if c[grand] != "#000000" || c[great] != "#000000" {
		t.Errorf("override not inherited: grand=%q great=%q", c[grand], c[great])
	}

	collapsed, _ := tr.ToggleCollapse(kids[1])
	if _, ok := Colors(collapsed, DefaultOptions())[grand]; ok {
		t.Errorf("hidden node received a color")
	}
}
