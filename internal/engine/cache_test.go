package engine

import (
	"context"
	"testing"
	"time"
)

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("buzz", "transcript", "topic")
	b := CacheKey("buzz", "transcript", "topic")
	if a != b {
		t.Errorf("same parts produced %q and %q", a, b)
	}
	if a == CacheKey("buzz", "transcript", "other") {
		t.Error("different parts should produce different keys")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()

	key := CacheKey("test", "roundtrip")
	if _, ok := CacheGet(ctx, key); ok {
		t.Fatal("unexpected hit before set")
	}

	CacheSet(ctx, key, []byte(`{"x":1}`))
	data, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(data) != `{"x":1}` {
		t.Errorf("data = %s", data)
	}
}

func TestCacheJSONRoundTrip(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	ctx := context.Background()

	key := CacheKey("test", "json")
	report := &BuzzReport{Score: 77, Verdict: "viral", Summary: "cached"}
	CacheStoreJSON(ctx, key, report)

	got, ok := CacheLoadJSON[*BuzzReport](ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Score != 77 || got.Verdict != "viral" {
		t.Errorf("got = %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	InitCache("", 10*time.Millisecond, 100, time.Minute)
	ctx := context.Background()

	key := CacheKey("test", "expiry")
	CacheSet(ctx, key, []byte("x"))
	time.Sleep(20 * time.Millisecond)
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", time.Minute, 5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		CacheSet(ctx, CacheKey("evict", string(rune('a'+i))), []byte("v"))
	}

	count := 0
	analysisCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 5 {
		t.Errorf("L1 holds %d entries, limit is 5", count)
	}
}

func TestCacheDisabled(t *testing.T) {
	analysisCache = nil

	ctx := context.Background()
	CacheSet(ctx, "k", []byte("v"))
	if _, ok := CacheGet(ctx, "k"); ok {
		t.Error("nil cache should always miss")
	}
}
