package domain

import (
	"testing"
	"time"
)

func TestStoredTime(t *testing.T) {
	in := time.Date(2025, 1, 2, 3, 4, 5, 678901234, time.FixedZone("UTC+2", 2*3600))
	got := StoredTime(in)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
	}
	if want := time.Date(2025, 1, 2, 1, 4, 5, 678000000, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if StoredTime(got) != got {
		t.Fatal("expected StoredTime to be idempotent")
	}
}
