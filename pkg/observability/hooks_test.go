package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSnapHooks{}
	s.OnSnap("attach", "c1", "End", "s1")
	s.OnFlush(2)

	p := NoopPersistHooks{}
	p.OnSerialize(10, time.Millisecond)
	p.OnDeserialize(10, time.Millisecond, errors.New("boom"))

	st := NoopStoreHooks{}
	st.OnSave(ctx, "file", "flow", 512, time.Millisecond, nil)
	st.OnLoad(ctx, "redis", "flow", time.Millisecond, nil)
	st.OnRetry(ctx, "mongo", 1, errors.New("refused"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "svg")
	c.OnCacheMiss(ctx, "png")
	c.OnCacheSet(ctx, "dot", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Snap().(NoopSnapHooks); !ok {
		t.Error("Snap() should return NoopSnapHooks by default")
	}
	if _, ok := Persist().(NoopPersistHooks); !ok {
		t.Error("Persist() should return NoopPersistHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSnap := &testSnapHooks{}
	SetSnapHooks(customSnap)
	if Snap() != customSnap {
		t.Error("SetSnapHooks should set custom hooks")
	}

	customPersist := &testPersistHooks{}
	SetPersistHooks(customPersist)
	if Persist() != customPersist {
		t.Error("SetPersistHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Snap().(NoopSnapHooks); !ok {
		t.Error("Reset() should restore NoopSnapHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSnapHooks{}
	SetSnapHooks(custom)
	SetSnapHooks(nil)

	if Snap() != custom {
		t.Error("SetSnapHooks(nil) should be ignored")
	}

	Reset()
}

type testSnapHooks struct{ NoopSnapHooks }
type testPersistHooks struct{ NoopPersistHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testCacheHooks struct{ NoopCacheHooks }
