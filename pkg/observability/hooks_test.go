package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	m := NoopMutationHooks{}
	m.OnMutation(ctx, "add_child", 3, nil)
	m.OnChange(ctx, 512)

	l := NoopLayoutHooks{}
	l.OnLayout(ctx, "tree", 10, time.Millisecond, nil)
	l.OnRender(ctx, "svg", 2048, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopStoreHooks{}
	s.OnSave(ctx, "file", "map-1", 100, time.Millisecond, nil)
	s.OnLoad(ctx, "file", "map-1", time.Millisecond, errors.New("boom"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Mutation().(NoopMutationHooks); !ok {
		t.Error("Mutation() should return NoopMutationHooks by default")
	}
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	mh := &testMutationHooks{}
	SetMutationHooks(mh)
	if Mutation() != mh {
		t.Error("SetMutationHooks should set custom hooks")
	}
	Mutation().OnMutation(context.Background(), "delete", 1, nil)
	if mh.calls != 1 {
		t.Errorf("custom hook calls = %d, want 1", mh.calls)
	}

	sh := &testStoreHooks{}
	SetStoreHooks(sh)
	if Store() != sh {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// nil is ignored
	SetMutationHooks(nil)
	if Mutation() != mh {
		t.Error("SetMutationHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Mutation().(NoopMutationHooks); !ok {
		t.Error("Reset() should restore NoopMutationHooks")
	}
}

type testMutationHooks struct {
	NoopMutationHooks
	calls int
}

func (h *testMutationHooks) OnMutation(context.Context, string, int, error) { h.calls++ }

type testStoreHooks struct{ NoopStoreHooks }
