// Package profile keeps per-author interaction history on top of the
// JSON store. It may bias strategy confidence; it never changes which
// strategy is picked.
package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/cardpulse/card-bot/pkg/store"
	"github.com/cardpulse/card-bot/pkg/types"
)

// maxExchanges bounds the retained conversation snippets per author.
const maxExchanges = 5

// Profile is everything remembered about one author.
type Profile struct {
	Author          string         `json:"author"`
	Interactions    int            `json:"interactions"`
	TopicCounts     map[string]int `json:"topic_counts"`
	RecentExchanges []string       `json:"recent_exchanges,omitempty"`
	LastSeen        time.Time      `json:"last_seen"`
}

// Repository reads and writes profiles through a store.
type Repository struct {
	mu sync.Mutex

	store store.Store
}

// NewRepository creates a profile repository over s.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func profileKey(author string) string {
	return "profile:" + author
}

// Get returns the profile for author, or an empty one.
func (r *Repository) Get(author string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(author)
}

func (r *Repository) load(author string) (*Profile, error) {
	p := &Profile{Author: author, TopicCounts: make(map[string]int)}
	if _, err := r.store.Get(profileKey(author), p); err != nil {
		return nil, fmt.Errorf("loading profile for %s: %w", author, err)
	}
	if p.TopicCounts == nil {
		p.TopicCounts = make(map[string]int)
	}
	return p, nil
}

// RecordInteraction updates the author's profile after a reply.
func (r *Repository) RecordInteraction(author string, category types.Category, postText, reply string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.load(author)
	if err != nil {
		return err
	}

	p.Interactions++
	p.TopicCounts[string(category)]++
	p.LastSeen = time.Now().UTC()

	exchange := truncate(postText, 120) + " -> " + truncate(reply, 120)
	p.RecentExchanges = append(p.RecentExchanges, exchange)
	if len(p.RecentExchanges) > maxExchanges {
		p.RecentExchanges = p.RecentExchanges[len(p.RecentExchanges)-maxExchanges:]
	}

	return r.store.Set(profileKey(author), p)
}

// PriorExchanges returns the retained conversation snippets for author.
func (r *Repository) PriorExchanges(author string) []string {
	p, err := r.Get(author)
	if err != nil {
		return nil
	}
	return p.RecentExchanges
}

// Affinity is the share of an author's interactions in a category.
func (r *Repository) Affinity(author string, category types.Category) float64 {
	p, err := r.Get(author)
	if err != nil || p.Interactions == 0 {
		return 0
	}
	return float64(p.TopicCounts[string(category)]) / float64(p.Interactions)
}

// BiasConfidence upgrades a low-confidence authority strategy to medium
// for authors with an established domain history. All other strategies
// pass through untouched.
func (r *Repository) BiasConfidence(strat types.Strategy, author string) types.Strategy {
	if strat.Kind != types.StrategyAuthority || strat.Confidence != types.ConfidenceLow {
		return strat
	}
	p, err := r.Get(author)
	if err != nil || p.Interactions < 3 {
		return strat
	}
	if r.Affinity(author, types.CategoryPokemonTCG) > 0.5 {
		strat.Confidence = types.ConfidenceMedium
		strat.Reason += "; known collector"
	}
	return strat
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
