package testutil

import (
	"fmt"
	"sync"
)

// SequentialBuildIDGenerator returns predictable build ids for tests:
// "<prefix>-0001", "<prefix>-0002", ...
//
// The same test with a fresh generator produces byte-identical store rows,
// which keeps golden snapshots stable.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialBuildIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialBuildIDGenerator creates a generator. If prefix is empty,
// "test-build" is used.
func NewSequentialBuildIDGenerator(prefix string) *SequentialBuildIDGenerator {
	if prefix == "" {
		prefix = "test-build"
	}
	return &SequentialBuildIDGenerator{prefix: prefix}
}

// Generate returns the next id.
//
// Implements store.BuildIDGenerator.
func (g *SequentialBuildIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
