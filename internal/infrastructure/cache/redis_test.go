package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	// non-zero DB to verify it's set
	c, err := OpenRedis(s.Addr(), "", 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "k", "v", 0).Err(); err != nil {
		t.Fatalf("SET err: %v", err)
	}
	got, err := s.DB(2).Get("k")
	if err != nil || got != "v" {
		t.Fatalf("key not written to DB 2: %q %v", got, err)
	}
}

func TestOpenRedis_Password(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("secret")

	if _, err := OpenRedis(s.Addr(), "wrong", 0); err == nil {
		t.Fatal("expected auth error with wrong password")
	}
	c, err := OpenRedis(s.Addr(), "secret", 0)
	if err != nil {
		t.Fatalf("OpenRedis with password: %v", err)
	}
	_ = c.Close()
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host fails the ping
	if _, err := OpenRedis("not-a-real-host:6379", "", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPinger(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(s.Addr(), "", 0)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	ping := Pinger(c)
	if err := ping(context.Background()); err != nil {
		t.Fatalf("ping healthy server: %v", err)
	}
	s.Close()
	if err := ping(context.Background()); err == nil {
		t.Fatal("expected ping error after server shutdown")
	}
}
