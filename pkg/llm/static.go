package llm

import (
	"context"
	"hash/fnv"
)

// StaticGenerator picks from a fixed pool of lines, keyed deterministically
// by the prompt. Used for offline replay runs and as the last resort when
// every real generator is down.
type StaticGenerator struct {
	pool []string
}

// NewStaticGenerator creates a generator over the given pool. A nil pool
// gets a small built-in set of generic acknowledgments.
func NewStaticGenerator(pool []string) *StaticGenerator {
	if len(pool) == 0 {
		pool = []string{
			"That's a great addition to any collection",
			"Love seeing these, congrats on the find",
			"Solid pickup, that one's a classic",
			"Always nice to see one of these in the wild",
		}
	}
	return &StaticGenerator{pool: pool}
}

// Generate returns a pool entry selected by a stable hash of the prompt.
func (s *StaticGenerator) Generate(_ context.Context, prompt string) (string, error) {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return s.pool[int(h.Sum32()%uint32(len(s.pool)))], nil
}
