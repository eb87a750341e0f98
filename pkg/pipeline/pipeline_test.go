package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/render"
)

func newRunner(t *testing.T) (*Runner, *cache.MemoryCache) {
	t.Helper()
	c := cache.NewMemoryCache()
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { _ = r.Close() })
	return r, c
}

func defaultContent(t *testing.T) []byte {
	t.Helper()
	content, err := mindmap.Content(mindmap.Default())
	if err != nil {
		t.Fatal(err)
	}
	return []byte(content)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"dot", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidFormat {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Strategy != "tree" {
		t.Errorf("Strategy = %q, want tree", o.Strategy)
	}
	if !slices.Equal(o.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v, want [svg]", o.Formats)
	}
	if o.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", o.Scale, DefaultScale)
	}
	if o.Layout.NodeHeight == 0 {
		t.Error("layout options not defaulted")
	}
}

func TestOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"format", Options{Formats: []string{"pdf"}}},
		{"scale", Options{Scale: -1}},
		{"background", Options{Background: "red"}},
		{"selected", Options{Selected: "../x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecuteCachesStages(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()
	opts := Options{Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, defaultContent(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.NodeCount != 4 || first.Stats.VisibleCount != 4 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if !bytes.Contains(first.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing <svg")
	}
	if got := first.Formats(); !slices.Equal(got, []string{"json", "svg"}) {
		t.Errorf("Formats() = %v", got)
	}

	second, err := r.Execute(ctx, defaultContent(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}
	if first.SnapshotHash != second.SnapshotHash {
		t.Error("snapshot hash not stable")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, defaultContent(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestSnapshotHashIgnoresFormatting(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	indented, err := mindmap.Marshal(mindmap.Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, indented, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, defaultContent(t), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit {
		t.Error("reformatted snapshot missed the layout cache")
	}
}

func TestLayoutKeyedByStrategy(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()
	tree := mindmap.Default()

	if _, hit, err := r.LayoutWithCacheInfo(ctx, tree, Options{Strategy: "tree"}); err != nil || hit {
		t.Fatalf("tree: hit=%v err=%v", hit, err)
	}
	res, hit, err := r.LayoutWithCacheInfo(ctx, tree, Options{Strategy: "radial"})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("radial layout served from the tree entry")
	}
	if res.Strategy != "radial" {
		t.Errorf("Strategy = %q, want radial", res.Strategy)
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, tree, Options{Strategy: "RADIAL"}); !hit {
		t.Error("strategy names should be case-insensitive")
	}
}

func TestExecuteErrors(t *testing.T) {
	r, c := newRunner(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, defaultContent(t), Options{Strategy: "spiral"})
	if !errors.Is(err, errors.ErrCodeInvalidStrategy) {
		t.Errorf("unknown strategy err = %v, want INVALID_STRATEGY", err)
	}
	if c.Len() != 0 {
		t.Errorf("cache has %d entries after a rejected run", c.Len())
	}

	_, err = r.Execute(ctx, []byte(`{"rootId":"a","nodes":{}}`), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
		t.Errorf("broken snapshot err = %v, want INVALID_SNAPSHOT", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Execute(cancelled, defaultContent(t), Options{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestEmptyContentIsStarterDocument(t *testing.T) {
	r, _ := newRunner(t)
	res, err := r.Execute(context.Background(), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree.RootID() != "root" {
		t.Errorf("RootID = %q, want root", res.Tree.RootID())
	}
}

func TestRenderFormats(t *testing.T) {
	r, _ := newRunner(t)
	res, err := r.Execute(context.Background(), defaultContent(t), Options{
		Formats:  []string{"png", "json", "dot"},
		Selected: "n1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact lacks PNG signature")
	}
	if !bytes.Contains(res.Artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact lacks digraph header")
	}

	var scene render.Scene
	if err := json.Unmarshal(res.Artifacts["json"], &scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Boxes) != 4 || len(scene.Links) != 3 {
		t.Errorf("scene has %d boxes, %d links", len(scene.Boxes), len(scene.Links))
	}
	box, ok := scene.Box("n1")
	if !ok || !box.Selected {
		t.Error("n1 not marked selected in the scene")
	}
}

func TestSelectionKeysArtifacts(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()
	tree := mindmap.Default()
	res, err := r.Layout(ctx, tree, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{"json"}}
	if _, hit, err := r.RenderWithCacheInfo(ctx, tree, res, opts); err != nil || hit {
		t.Fatalf("hit=%v err=%v", hit, err)
	}
	opts.Selected = "n2"
	if _, hit, _ := r.RenderWithCacheInfo(ctx, tree, res, opts); hit {
		t.Error("selection change served a stale artifact")
	}
}

func TestConcurrentExecute(t *testing.T) {
	r, _ := newRunner(t)
	content := defaultContent(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Execute(context.Background(), content, Options{Strategy: "layered"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}
