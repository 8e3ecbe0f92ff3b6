// Package testutil holds deterministic helpers for golden tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialGenerator issues IDs "<prefix>-1", "<prefix>-2", ... in order.
//
// Satisfies session.IDGenerator, so a multi-version run produces the same
// session IDs every time and golden files stay byte-identical.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialGenerator creates a generator. An empty prefix means "session".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts numbering at 1.
func (g *SequentialGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
