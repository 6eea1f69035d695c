package synth

import "testing"

// fragment builds a test fragment of n samples with a recognizable
// per-fragment value.
func fragment(n int, value int16) []int16 {
	f := make([]int16, n)
	for i := range f {
		f[i] = value
	}
	return f
}

// TestCollectorPushOrder verifies fragments append in order with the
// combined length.
func TestCollectorPushOrder(t *testing.T) {
	c := NewCollector(0)

	lengths := []int{100, 50, 200}
	for i, n := range lengths {
		if !c.Push(fragment(n, int16(i+1))) {
			t.Fatalf("Push(%d samples) refused", n)
		}
	}

	if c.Len() != 350 {
		t.Fatalf("Len() = %d, want 350", c.Len())
	}

	samples := c.Take()
	checks := []struct {
		index int
		want  int16
	}{
		{0, 1}, {99, 1}, {100, 2}, {149, 2}, {150, 3}, {349, 3},
	}
	for _, chk := range checks {
		if samples[chk.index] != chk.want {
			t.Errorf("samples[%d] = %d, want %d", chk.index, samples[chk.index], chk.want)
		}
	}
}

// TestCollectorPushCopies verifies the fragment is copied out, not
// retained, since the engine overwrites it after the callback.
func TestCollectorPushCopies(t *testing.T) {
	c := NewCollector(0)

	frag := fragment(10, 7)
	c.Push(frag)
	for i := range frag {
		frag[i] = -1
	}

	if got := c.Take()[0]; got != 7 {
		t.Errorf("collector retained engine scratch: samples[0] = %d, want 7", got)
	}
}

// TestCollectorCancelRefusesPush verifies pushes after Cancel are
// refused and leave the buffer unchanged.
func TestCollectorCancelRefusesPush(t *testing.T) {
	c := NewCollector(0)
	c.Push(fragment(100, 1))

	c.Cancel()

	if c.Push(fragment(50, 2)) {
		t.Error("Push accepted after Cancel")
	}
	if c.Len() != 100 {
		t.Errorf("Len() = %d after refused push, want 100", c.Len())
	}
	if !c.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}
}

// TestCollectorReset verifies Reset clears both samples and flag.
func TestCollectorReset(t *testing.T) {
	c := NewCollector(0)
	c.Push(fragment(100, 1))
	c.Cancel()

	c.Reset()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", c.Len())
	}
	if c.Cancelled() {
		t.Error("Cancelled() = true after Reset")
	}
	if !c.Push(fragment(10, 1)) {
		t.Error("Push refused after Reset")
	}
}

// TestCollectorSampleBound verifies a fragment that would exceed the
// bound is refused whole, keeping what was collected before.
func TestCollectorSampleBound(t *testing.T) {
	c := NewCollector(120)

	if !c.Push(fragment(100, 1)) {
		t.Fatal("first push refused under bound")
	}
	if c.Push(fragment(50, 2)) {
		t.Error("push accepted past the sample bound")
	}
	if c.Len() != 100 {
		t.Errorf("Len() = %d, want 100", c.Len())
	}
	if !c.Push(fragment(20, 3)) {
		t.Error("push refused though it fits the bound")
	}
}
