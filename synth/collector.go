package synth

import "sync"

// headroomSamples is the extra capacity added on every reallocation to
// amortize growth across callback invocations.
const headroomSamples = 20000

// Collector accumulates audio fragments pushed by the engine callback
// for one utterance. The cancellation flag and the sample buffer share
// a single mutex: the callback runs on the engine's thread while stop
// requests and delivery happen on ours, and both sides need a
// consistent view of flag plus buffer together.
type Collector struct {
	mu         sync.Mutex
	samples    []int16
	cancelled  bool
	maxSamples int
}

// NewCollector creates a collector. maxSamples bounds the assembled
// buffer; zero means unbounded.
func NewCollector(maxSamples int) *Collector {
	return &Collector{maxSamples: maxSamples}
}

// Push copies one fragment into the buffer. The fragment is owned by
// the engine and is overwritten after the callback returns, so it is
// copied out under the lock. Push returns false when the fragment was
// refused, telling the engine not to continue: either cancellation was
// requested or the fragment would exceed the sample bound.
func (c *Collector) Push(frag []int16) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelled {
		return false
	}

	need := len(c.samples) + len(frag)
	if c.maxSamples > 0 && need > c.maxSamples {
		return false
	}

	if need > cap(c.samples) {
		grown := make([]int16, len(c.samples), need+headroomSamples)
		copy(grown, c.samples)
		c.samples = grown
	}
	c.samples = append(c.samples, frag...)
	return true
}

// Cancel sets the cancellation flag. Fragments arriving afterwards are
// refused; samples already collected stay until Reset.
func (c *Collector) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

// Cancelled reports whether cancellation has been requested.
func (c *Collector) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Reset clears the buffer and the cancellation flag. Called at the
// start of every synthesis request.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.samples = c.samples[:0]
	c.cancelled = false
	c.mu.Unlock()
}

// Take returns the collected samples. The slice is borrowed, not
// copied; the caller must finish with it before the next Reset.
func (c *Collector) Take() []int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.samples
}

// Len returns the number of samples collected so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.samples)
}
