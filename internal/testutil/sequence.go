package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator hands out "test-resolution-1", "test-resolution-2", ...
//
// Unlike FixedIDGenerator, each resolution gets a distinct ID, which lets tests
// check that IDs are carried through without depending on UUID randomness.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu  sync.Mutex
	seq int64
}

// NewSequenceIDGenerator creates a generator starting at 0.
// The first call to Generate returns "test-resolution-1".
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

// Generate increments the sequence and returns the next ID.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("test-resolution-%d", g.seq)
}

// Current returns the current sequence number without incrementing.
func (g *SequenceIDGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset rewinds the sequence to 0.
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
