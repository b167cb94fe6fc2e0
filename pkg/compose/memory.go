package compose

import (
	"regexp"
	"strings"
	"sync"
)

// ResponseMemory is an append-only ring of recent responses used to keep
// new output from repeating itself. Safe for concurrent use.
type ResponseMemory struct {
	mu sync.RWMutex

	capacity  int
	threshold float64
	responses []string
}

// NewResponseMemory creates a memory holding up to capacity responses.
// Similarity at or above threshold counts as a near-duplicate.
func NewResponseMemory(capacity int, threshold float64) *ResponseMemory {
	if capacity <= 0 {
		capacity = 20
	}
	return &ResponseMemory{
		capacity:  capacity,
		threshold: threshold,
		responses: make([]string, 0, capacity),
	}
}

// Add appends a response, evicting the oldest when full.
func (m *ResponseMemory) Add(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.responses) >= m.capacity {
		m.responses = m.responses[1:]
	}
	m.responses = append(m.responses, response)
}

// TooSimilar reports whether response is a near-duplicate of anything in
// the window.
func (m *ResponseMemory) TooSimilar(response string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, prev := range m.responses {
		if Similarity(prev, response) >= m.threshold {
			return true
		}
	}
	return false
}

// Len returns the number of remembered responses.
func (m *ResponseMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.responses)
}

var similarityWordRe = regexp.MustCompile(`[a-z0-9']+`)

// Similarity computes Jaccard similarity over lowercased word sets.
func Similarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	words := similarityWordRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
