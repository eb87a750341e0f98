package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinityflow/pkg/cache"
	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
	"github.com/matzehuels/infinityflow/pkg/store"
)

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	opts = append([]Option{WithLogger(logger), WithRunner(runner)}, opts...)
	return New(store.NewMemoryStore(), opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	if got := decodeBody[errorBody](t, rec).Code; got != code {
		t.Errorf("code = %q, want %q", got, code)
	}
}

// create stores the starter document and returns its id.
func create(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/mindmaps", DocumentRequest{Title: "Plan"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	return decodeBody[store.Document](t, rec).ID
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeBody[map[string]any](t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %v, want ok", got)
	}
}

func TestStrategies(t *testing.T) {
	h := newTestServer(t)
	body := decodeBody[map[string][]string](t, do(t, h, http.MethodGet, "/api/strategies", nil))
	if !strings.Contains(strings.Join(body["strategies"], ","), "dot") {
		t.Errorf("strategies = %v, want dot included", body["strategies"])
	}
}

func TestMindMapCRUD(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/mindmaps", DocumentRequest{Title: "Plan"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	doc := decodeBody[store.Document](t, rec)
	if doc.NodeCount != 4 || doc.Title != "Plan" {
		t.Errorf("created %+v", doc)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/mindmaps/"+doc.ID {
		t.Errorf("Location = %q", loc)
	}

	if rec := do(t, h, http.MethodGet, "/api/mindmaps/"+doc.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	list := decodeBody[[]store.Summary](t, do(t, h, http.MethodGet, "/api/mindmaps", nil))
	if len(list) != 1 || list[0].ID != doc.ID {
		t.Errorf("list = %+v", list)
	}

	solo := mindmap.New("Solo").Snapshot()
	rec = do(t, h, http.MethodPut, "/api/mindmaps/"+doc.ID, DocumentRequest{Snapshot: &solo})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[store.Document](t, rec); got.NodeCount != 1 || got.Title != "Plan" {
		t.Errorf("replaced %+v", got)
	}

	if rec := do(t, h, http.MethodDelete, "/api/mindmaps/"+doc.ID, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	wantError(t, do(t, h, http.MethodGet, "/api/mindmaps/"+doc.ID, nil), http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestCreateRejectsBadInput(t *testing.T) {
	h := newTestServer(t)

	broken := []byte(`{"snapshot":{"rootId":"a","nodes":{"a":{"id":"a","parentId":"a","children":[]}}}}`)
	wantError(t, do(t, h, http.MethodPost, "/api/mindmaps", broken), http.StatusBadRequest, errors.ErrCodeInvalidSnapshot)
	wantError(t, do(t, h, http.MethodPost, "/api/mindmaps", []byte("{")), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	id := create(t, h)
	wantError(t, do(t, h, http.MethodPut, "/api/mindmaps/"+id, DocumentRequest{Title: "x"}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestBodyLimit(t *testing.T) {
	h := newTestServer(t, WithMaxBodyBytes(16))
	body := DocumentRequest{Title: strings.Repeat("x", 64)}
	wantError(t, do(t, h, http.MethodPost, "/api/mindmaps", body), http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestOps(t *testing.T) {
	h := newTestServer(t)
	id := create(t, h)
	ops := "/api/mindmaps/" + id + "/ops"

	rec := do(t, h, http.MethodPost, ops, OpRequest{Op: OpAddChild, Node: "n2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add_child status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[OpResponse](t, rec)
	if resp.NodeID == "" || resp.Document.NodeCount != 5 {
		t.Fatalf("add_child response = %+v", resp)
	}
	if got := resp.Document.Snapshot.Nodes[resp.NodeID].Text; got != mindmap.DefaultChildText {
		t.Errorf("new node text = %q, want %q", got, mindmap.DefaultChildText)
	}

	tests := []struct {
		name   string
		op     OpRequest
		status int
		code   errors.Code
	}{
		{"cycle", OpRequest{Op: OpMove, Node: "n2", Parent: "n2-1"}, http.StatusConflict, errors.ErrCodeCycleRejected},
		{"delete root", OpRequest{Op: OpDelete, Node: "root"}, http.StatusConflict, errors.ErrCodeInvalidOperation},
		{"sibling of root", OpRequest{Op: OpAddSibling, Node: "root"}, http.StatusConflict, errors.ErrCodeInvalidOperation},
		{"missing node", OpRequest{Op: OpSetText, Node: "ghost", Text: "x"}, http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown op", OpRequest{Op: "explode", Node: "n1"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad color", OpRequest{Op: OpSetColor, Node: "n1", Color: "blue"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, h, http.MethodPost, ops, tt.op), tt.status, tt.code)
		})
	}

	doc := decodeBody[store.Document](t, do(t, h, http.MethodGet, "/api/mindmaps/"+id, nil))
	if doc.NodeCount != 5 {
		t.Errorf("NodeCount after rejections = %d, want 5", doc.NodeCount)
	}

	rec = do(t, h, http.MethodPost, ops, OpRequest{Op: OpMove, Node: "n2-1", Parent: "n1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d: %s", rec.Code, rec.Body.String())
	}
	moved := decodeBody[OpResponse](t, rec).Document.Snapshot.Nodes["n2-1"]
	if moved.ParentID == nil || *moved.ParentID != "n1" {
		t.Errorf("n2-1 parent = %v, want n1", moved.ParentID)
	}
}

func TestInjectContent(t *testing.T) {
	h := newTestServer(t)
	id := create(t, h)

	rec := do(t, h, http.MethodPut, "/api/mindmaps/"+id+"/nodes/n1/content", ContentRequest{Text: "Generated report"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[OpResponse](t, rec).Document.Snapshot.Nodes["n1"].Text; got != "Generated report" {
		t.Errorf("n1 text = %q", got)
	}

	wantError(t, do(t, h, http.MethodPut, "/api/mindmaps/"+id+"/nodes/ghost/content", ContentRequest{Text: "x"}),
		http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestServer(t)
	id := create(t, h)
	path := "/api/mindmaps/" + id + "/layout?strategy=radial"

	first := decodeBody[LayoutResponse](t, do(t, h, http.MethodGet, path, nil))
	if first.Strategy != "radial" || first.Cached || len(first.Layout.Nodes) != 4 {
		t.Errorf("first = %+v", first)
	}
	if second := decodeBody[LayoutResponse](t, do(t, h, http.MethodGet, path, nil)); !second.Cached {
		t.Error("second layout not served from cache")
	}

	wantError(t, do(t, h, http.MethodGet, "/api/mindmaps/"+id+"/layout?strategy=spiral", nil),
		http.StatusBadRequest, errors.ErrCodeInvalidStrategy)
}

func TestRenderEndpoints(t *testing.T) {
	h := newTestServer(t)
	id := create(t, h)

	rec := do(t, h, http.MethodGet, "/api/mindmaps/"+id+"/render.svg?selected=n1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not svg")
	}

	wantError(t, do(t, h, http.MethodGet, "/api/mindmaps/"+id+"/render.pdf", nil), http.StatusBadRequest, errors.ErrCodeInvalidFormat)
	wantError(t, do(t, h, http.MethodGet, "/api/mindmaps/"+id+"/render.png?scale=big", nil), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	content, err := mindmap.Content(mindmap.Default())
	if err != nil {
		t.Fatal(err)
	}
	rec = do(t, h, http.MethodPost, "/api/render.dot", []byte(content))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph") {
		t.Errorf("stateless dot render: %d %s", rec.Code, rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", store.ErrNotFound), http.StatusNotFound},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeCycleRejected, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeInvalidOperation, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeInvalidSnapshot, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidStrategy, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeStorage, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
