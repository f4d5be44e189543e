package id

import (
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !IsID32(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		t.Fatalf("uuid.FromBytes: %v", err)
	}
	if u.Version() != 4 {
		t.Fatalf("version = %d, want 4", u.Version())
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestIsID32(t *testing.T) {
	cases := map[string]bool{
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb":     true,
		"0123456789abcdef0123456789abcdef":     true,
		"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB":     false,
		"bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb": false,
		"bbbb":                                 false,
		"":                                     false,
	}
	for in, want := range cases {
		if got := IsID32(in); got != want {
			t.Errorf("IsID32(%q) = %v, want %v", in, got, want)
		}
	}
}
