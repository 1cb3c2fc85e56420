package id

import (
	"strings"
	"testing"
)

func TestNanoGenerator_NewID(t *testing.T) {
	g := NewNanoGenerator()
	seen := make(map[string]struct{}, 100)
	for range 100 {
		got, err := g.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(got) != publicIDLength {
			t.Fatalf("unexpected length %d for %q", len(got), got)
		}
		if strings.Trim(got, publicIDAlphabet) != "" {
			t.Fatalf("id %q contains characters outside alphabet", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "m-"}
	first, _ := g.NewID()
	second, _ := g.NewID()
	if first != "m-1" || second != "m-2" {
		t.Fatalf("unexpected ids: %s %s", first, second)
	}
}
