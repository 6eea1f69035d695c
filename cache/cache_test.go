package cache

import (
	"fmt"
	"testing"
)

// testSamples generates noise so entries stay incompressible and the
// capacity math in eviction tests is predictable.
func testSamples(n int, seed int16) []int16 {
	s := make([]int16, n)
	x := uint32(seed)*2654435761 + 12345
	for i := range s {
		x = x*1664525 + 1013904223
		s[i] = int16(x >> 16)
	}
	return s
}

// TestDiskRoundTrip tests Put then Get returns the same samples.
func TestDiskRoundTrip(t *testing.T) {
	d, err := New(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close() //nolint:errcheck

	want := testSamples(5000, 3)
	d.Put("abc123", want)

	got, ok := d.Get("abc123")
	if !ok {
		t.Fatal("Get() miss after Put")
	}
	if len(got) != len(want) {
		t.Fatalf("Get() returned %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestDiskMiss tests an unknown key reports a miss.
func TestDiskMiss(t *testing.T) {
	d, err := New(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close() //nolint:errcheck

	if _, ok := d.Get("nope"); ok {
		t.Error("Get() hit on unknown key")
	}
}

// TestDiskPersistence tests the index survives reopening the cache.
func TestDiskPersistence(t *testing.T) {
	dir := t.TempDir()

	d, err := New(dir, 1<<20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := testSamples(1000, 7)
	d.Put("persist", want)
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(dir, 1<<20)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer reopened.Close() //nolint:errcheck

	got, ok := reopened.Get("persist")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if len(got) != len(want) || got[0] != want[0] {
		t.Error("entry corrupted across reopen")
	}
}

// TestDiskEviction tests old entries are evicted once the capacity is
// exceeded.
func TestDiskEviction(t *testing.T) {
	// Noise entries are ~4 KB compressed, so this holds about four.
	d, err := New(t.TempDir(), 16384)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close() //nolint:errcheck

	for i := 0; i < 20; i++ {
		d.Put(fmt.Sprintf("key-%d", i), testSamples(2000, int16(i)))
	}

	if d.Len() >= 20 {
		t.Errorf("Len() = %d, expected eviction below 20", d.Len())
	}
	if d.size > d.capacity {
		t.Errorf("size %d exceeds capacity %d after eviction", d.size, d.capacity)
	}
}

// TestDiskEmptyPutIgnored tests empty buffers are never stored.
func TestDiskEmptyPutIgnored(t *testing.T) {
	d, err := New(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close() //nolint:errcheck

	d.Put("empty", nil)
	if d.Len() != 0 {
		t.Errorf("Len() = %d after empty put, want 0", d.Len())
	}
}
