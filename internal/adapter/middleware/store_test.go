package middleware

import (
	"context"
	"strings"
	"testing"
	"time"
)

func Test_store_ClaimLoadRelease(t *testing.T) {
	_, rdb := newMiniRedis(t)
	st := store{rdb: rdb}
	ctx := context.Background()

	key := buildKey("POST", "/accounts/x/loans", strings.Repeat("b", 32), strings.Repeat("a", 32))
	pending := entry{
		Pending:    true,
		BodySHA256: bodyHash([]byte(`{"principal":"50"}`)),
		RequestID:  strings.Repeat("a", 32),
		CreatedAt:  nowUTC(),
	}
	lock := 30 * time.Second

	ok, err := st.claim(ctx, key, pending, lock)
	if err != nil || !ok {
		t.Fatalf("claim 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > lock {
		t.Fatalf("pending TTL not set correctly: %v", ttl)
	}

	ok, err = st.claim(ctx, key, pending, lock)
	if err != nil {
		t.Fatalf("claim 2 err: %v", err)
	}
	if ok {
		t.Fatalf("claim 2 should be false")
	}

	got, err := st.load(ctx, key)
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if !got.Pending || got.RequestID != pending.RequestID || got.BodySHA256 != pending.BodySHA256 {
		t.Fatalf("loaded entry mismatch: %+v vs %+v", got, pending)
	}
	if got.replayable() {
		t.Fatalf("pending entry must not be replayed")
	}

	if err := st.release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if n := rdb.Exists(ctx, key).Val(); n != 0 {
		t.Fatalf("key still present after release")
	}
}

func Test_store_FinishThenLoad(t *testing.T) {
	_, rdb := newMiniRedis(t)
	st := store{rdb: rdb}
	ctx := context.Background()

	key := buildKey("POST", "/accounts/x/loans", strings.Repeat("b", 32), strings.Repeat("a", 32))
	final := entry{
		Status:     201,
		Body:       []byte(`{"loan_id":1}`),
		BodySHA256: bodyHash([]byte(`{"principal":"50"}`)),
		RequestID:  strings.Repeat("a", 32),
		CreatedAt:  nowUTC(),
	}
	ttlWant := 5 * time.Second
	if err := st.finish(ctx, key, final, ttlWant); err != nil {
		t.Fatalf("finish err: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > ttlWant {
		t.Fatalf("final TTL out of range: got %v want <= %v", ttl, ttlWant)
	}
	got, err := st.load(ctx, key)
	if err != nil {
		t.Fatalf("load after finish err: %v", err)
	}
	if got.Status != 201 || string(got.Body) != `{"loan_id":1}` || !got.replayable() {
		t.Fatalf("final entry mismatch: %+v", got)
	}
}

func Test_store_LoadMissing(t *testing.T) {
	_, rdb := newMiniRedis(t)
	if _, err := (store{rdb: rdb}).load(context.Background(), "idemp:ax:none"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
