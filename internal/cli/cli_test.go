package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// testCLI returns a CLI whose config file points caches and storage into a
// temp directory.
func testCLI(t *testing.T) (*CLI, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	cfg := "[cache]\nbackend = \"memory\"\n\n[storage]\nbackend = \"file\"\ndir = " +
		quoteTOML(filepath.Join(dir, "data")) + "\n"
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(&bytes.Buffer{}, LogInfo)
	c.configFlag = cfgPath
	return c, dir
}

func quoteTOML(s string) string {
	return "'" + s + "'"
}

func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	cmd := c.RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewValidateRender(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "ideas.json")

	if _, err := run(t, c, "new", path, "--root", "Ideas"); err != nil {
		t.Fatalf("new: %v", err)
	}
	tree, err := loadTree(path)
	if err != nil {
		t.Fatalf("loadTree: %v", err)
	}
	if root, _ := tree.Node(tree.RootID()); root.Text != "Ideas" {
		t.Errorf("root text = %q, want Ideas", root.Text)
	}
	if tree.Len() != 4 {
		t.Errorf("Len = %d, want 4", tree.Len())
	}

	if _, err := run(t, c, "validate", path); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if _, err := run(t, c, "render", path, "-f", "svg,json,dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"svg", "json", "dot"} {
		out := filepath.Join(dir, "ideas."+ext)
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("missing %s: %v", out, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", out)
		}
	}
	svg, _ := os.ReadFile(filepath.Join(dir, "ideas.svg"))
	if !strings.Contains(string(svg), "Ideas") {
		t.Error("svg does not contain the root label")
	}

	if _, err := run(t, c, "layout", path, "-s", "radial"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ideas.layout.json")); err != nil {
		t.Errorf("layout output: %v", err)
	}
}

func TestNewEmpty(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "solo.json")
	if _, err := run(t, c, "new", path, "--empty", "--root", "Solo"); err != nil {
		t.Fatalf("new: %v", err)
	}
	tree, err := loadTree(path)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 1 {
		t.Errorf("Len = %d, want 1", tree.Len())
	}
}

func TestValidateRejectsBrokenSnapshot(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "broken.json")
	broken := `{"rootId":"root","nodes":{"root":{"id":"root","text":"R","parentId":null,"children":["ghost"],"isCollapsed":false}}}`
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "validate", path); err == nil {
		t.Fatal("validate accepted a dangling child")
	}
}

func TestRenderUnknownStrategy(t *testing.T) {
	c, dir := testCLI(t)
	path := filepath.Join(dir, "m.json")
	if _, err := run(t, c, "new", path); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "render", path, "-s", "spiral"); err == nil {
		t.Fatal("render accepted an unknown strategy")
	}
}

func TestMapsImportExportDelete(t *testing.T) {
	c, dir := testCLI(t)
	src := filepath.Join(dir, "m.json")
	if _, err := run(t, c, "new", src); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "maps", "import", src, "--title", "Plans"); err != nil {
		t.Fatalf("import: %v", err)
	}

	st, err := store.NewFileStore(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	sums, err := st.List(t.Context())
	if err != nil || len(sums) != 1 {
		t.Fatalf("List = %v, %v; want one summary", sums, err)
	}
	if sums[0].Title != "Plans" {
		t.Errorf("title = %q, want Plans", sums[0].Title)
	}

	out := filepath.Join(dir, "exported.json")
	if _, err := run(t, c, "maps", "export", sums[0].ID, "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := loadTree(out); err != nil {
		t.Errorf("exported snapshot: %v", err)
	}

	if _, err := run(t, c, "maps", "delete", sums[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if sums, _ := st.List(t.Context()); len(sums) != 0 {
		t.Errorf("List after delete = %v", sums)
	}
}

func TestConfigCommand(t *testing.T) {
	c, _ := testCLI(t)
	out, err := run(t, c, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[layout]", `backend = "memory"`, "[server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q", want)
		}
	}

	out, err = run(t, c, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "config.toml") {
		t.Errorf("config path = %q", out)
	}
}

func TestCachePath(t *testing.T) {
	c, dir := testCLI(t)
	out, err := run(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "cache", appName)
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
	if _, err := run(t, c, "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "ideas.json", "ideas"},
		{"", "ideas.mindmap.json", "ideas"},
		{"", "-", "mindmap"},
		{"out/board.svg", "ideas.json", "out/board"},
		{"out/board", "ideas.json", "out/board"},
		{"board.txt", "ideas.json", "board.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("board.png", "ideas.json", []string{"png"})
	if single["png"] != "board.png" {
		t.Errorf("single = %v", single)
	}
	multi := outputPaths("", "ideas.json", []string{"svg", "png"})
	if multi["svg"] != "ideas.svg" || multi["png"] != "ideas.png" {
		t.Errorf("multi = %v", multi)
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	got := parseFormats("svg, png ,json")
	if strings.Join(got, "|") != "svg|png|json" {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Feb 8, 2026"},
	}
	for _, tt := range tests {
		if got := relativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("relativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestSummaryTable(t *testing.T) {
	now := time.Now()
	doc := store.NewDocument("Roadmap", mindmap.Default())
	out := summaryTable([]store.Summary{{ID: doc.ID, Title: doc.Title, NodeCount: 4, UpdatedAt: now}}, now)
	for _, want := range []string{"Roadmap", "Nodes", "just now"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
