package redis

import (
	"context"
	"testing"
	"time"
)

func newCachedStore(t *testing.T, localTTL time.Duration) (*CachedStore[testState], *TypedStore[testState], *Client) {
	t.Helper()
	client, _ := newTestClient(t)
	store := NewTypedStore[testState](client, "cached")
	return NewCachedStore(store, localTTL, time.Minute), store, client
}

func TestCachedStore_ServesLocalCopy(t *testing.T) {
	cached, store, _ := newCachedStore(t, time.Minute)
	ctx := context.Background()

	if err := cached.Save(ctx, "k", &testState{Count: 1}, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if cached.LocalLen() != 1 {
		t.Fatalf("LocalLen = %d, want 1", cached.LocalLen())
	}

	// Write behind the cache's back; the local tier still answers.
	_ = store.Save(ctx, "k", &testState{Count: 2}, 0)
	got, err := cached.Load(ctx, "k")
	if err != nil || got == nil || got.Count != 1 {
		t.Fatalf("Load = %+v, %v; want local Count=1", got, err)
	}

	cached.Invalidate("k")
	got, _ = cached.Load(ctx, "k")
	if got == nil || got.Count != 2 {
		t.Fatalf("Load after Invalidate = %+v; want Count=2", got)
	}
}

func TestCachedStore_ReturnsClones(t *testing.T) {
	cached, _, _ := newCachedStore(t, time.Minute)
	ctx := context.Background()

	val := &testState{Count: 1}
	_ = cached.Save(ctx, "k", val, 0)
	val.Count = 100

	got, _ := cached.Load(ctx, "k")
	got.Count = 50

	again, _ := cached.Load(ctx, "k")
	if again.Count != 1 {
		t.Errorf("cached value was mutated through a caller pointer: Count=%d", again.Count)
	}
}

type cachedProfile struct {
	Tags  []string       `json:"tags"`
	Quota map[string]int `json:"quota"`
}

func TestCachedStore_ReturnsDeepCopies(t *testing.T) {
	client, _ := newTestClient(t)
	cached := NewCachedStore(NewTypedStore[cachedProfile](client, "profiles"), time.Minute, time.Minute)
	ctx := context.Background()

	val := &cachedProfile{Tags: []string{"x"}, Quota: map[string]int{"k": 1}}
	if err := cached.Save(ctx, "p", val, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	val.Tags[0] = "changed after save"
	val.Quota["k"] = 7

	got, err := cached.Load(ctx, "p")
	if err != nil || got == nil {
		t.Fatalf("Load = %+v, %v", got, err)
	}
	got.Tags[0] = "MUTATED"
	got.Quota["k"] = 99

	again, _ := cached.Load(ctx, "p")
	if again.Tags[0] != "x" || again.Quota["k"] != 1 {
		t.Errorf("local tier shares memory with callers: %+v", again)
	}

	// Values filled from Redis are detached from the local entry as well.
	cached.Invalidate("p")
	fromRedis, _ := cached.Load(ctx, "p")
	fromRedis.Quota["k"] = 42
	again, _ = cached.Load(ctx, "p")
	if again.Quota["k"] != 1 {
		t.Errorf("local entry mutated through a Redis-loaded value: %+v", again)
	}
}

func TestCachedStore_LocalExpiry(t *testing.T) {
	cached, store, _ := newCachedStore(t, 20*time.Millisecond)
	ctx := context.Background()

	_ = cached.Save(ctx, "k", &testState{Count: 1}, 0)
	_ = store.Save(ctx, "k", &testState{Count: 2}, 0)

	time.Sleep(40 * time.Millisecond)

	got, _ := cached.Load(ctx, "k")
	if got == nil || got.Count != 2 {
		t.Errorf("Load after local expiry = %+v; want Count=2", got)
	}
}

func TestCachedStore_DeleteAndMissing(t *testing.T) {
	cached, store, _ := newCachedStore(t, time.Minute)
	ctx := context.Background()

	_ = cached.Save(ctx, "k", &testState{Count: 1}, 0)
	if err := cached.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := store.Load(ctx, "k"); got != nil {
		t.Error("Delete should remove the Redis key")
	}
	if got, err := cached.Load(ctx, "k"); err != nil || got != nil {
		t.Errorf("Load after Delete = %+v, %v; want nil", got, err)
	}
	if cached.LocalLen() != 0 {
		t.Errorf("missing keys should not be cached locally, LocalLen=%d", cached.LocalLen())
	}
}

func TestCachedStore_SaveFailureDropsLocal(t *testing.T) {
	cached, _, client := newCachedStore(t, time.Minute)
	ctx := context.Background()

	_ = cached.Save(ctx, "k", &testState{Count: 1}, 0)
	_ = client.Close()

	if err := cached.Save(ctx, "k", &testState{Count: 2}, 0); err == nil {
		t.Fatal("expected Save to fail on a closed client")
	}
	if cached.LocalLen() != 0 {
		t.Error("failed Save should drop the local entry")
	}

	cached.Flush()
}
