package watch

import (
	"slices"
	"sync"

	"github.com/zeebo/xxh3"
)

// Tracker remembers the digest of the inputs of the last render.
type Tracker struct {
	mu   sync.Mutex
	last []uint64
	seen bool
}

// Changed reports whether inputs differ from those of the previous call,
// and records them. The first call always reports a change.
func (t *Tracker) Changed(inputs ...[]byte) bool {
	sums := make([]uint64, len(inputs))
	for i, in := range inputs {
		sums[i] = xxh3.Hash(in)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen && slices.Equal(t.last, sums) {
		return false
	}
	t.last = sums
	t.seen = true
	return true
}

// Reset forgets the recorded inputs.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.last = nil
	t.seen = false
	t.mu.Unlock()
}
