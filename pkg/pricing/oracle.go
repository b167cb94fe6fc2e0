// Package pricing defines the pricing oracle contract and a JSON-file
// cache so replayed runs resolve prices deterministically offline.
package pricing

import (
	"context"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Oracle returns market stats for a resolved entity. A nil result with a
// nil error means no market data exists for that entity.
type Oracle interface {
	GetStats(ctx context.Context, name, set, number string) (*types.PriceStats, error)
}

// Static is a fixed in-memory oracle keyed by entity name. Used by the
// replay command and in tests.
type Static struct {
	stats map[string]*types.PriceStats
}

// NewStatic creates a static oracle over the given table.
func NewStatic(stats map[string]*types.PriceStats) *Static {
	if stats == nil {
		stats = make(map[string]*types.PriceStats)
	}
	return &Static{stats: stats}
}

// GetStats looks up the entity by name; set and number are ignored.
func (s *Static) GetStats(_ context.Context, name, _, _ string) (*types.PriceStats, error) {
	return s.stats[name], nil
}
