package id

import (
	"strings"
	"testing"
)

func TestRandomGenerator_PrefixAndUniqueness(t *testing.T) {
	t.Parallel()

	gen := NewRandomGenerator()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		got, err := gen.NewID("match")
		if err != nil {
			t.Fatalf("NewID error: %v", err)
		}
		if !strings.HasPrefix(got, "match-") {
			t.Fatalf("expected match- prefix, got %s", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id generated: %s", got)
		}
		seen[got] = struct{}{}
	}
}

func TestRandomGenerator_EmptyPrefix(t *testing.T) {
	t.Parallel()

	gen := NewRandomGenerator()
	got, err := gen.NewID("")
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	if strings.Contains(got, "-") {
		t.Fatalf("expected bare hex id, got %s", got)
	}
}
