package id

import (
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNew_ParsesAsULID(t *testing.T) {
	got := New()
	if _, err := ulid.ParseStrict(got); err != nil {
		t.Fatalf("New() = %q is not a ULID: %v", got, err)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		v := New()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q after %d calls", v, i)
		}
		seen[v] = struct{}{}
	}
}
