package compose

import (
	"fmt"
	"math"

	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/types"
)

// BuildPriceResponse formats a market answer embedding exactly one stat.
// Which stat is a stable hash pick among whatever the oracle returned.
func BuildPriceResponse(sessionSeed string, entity types.Entity, stats *types.PriceStats) (string, error) {
	if !stats.HasAny() {
		return "", nil
	}

	var clauses []string
	if stats.Change7dPct != nil {
		clauses = append(clauses, trendClause(*stats.Change7dPct, "7d"))
	}
	if stats.Change30dPct != nil {
		clauses = append(clauses, trendClause(*stats.Change30dPct, "30d"))
	}
	if stats.LastSoldUSD != nil {
		clauses = append(clauses, fmt.Sprintf("last one sold around $%.0f", *stats.LastSoldUSD))
	}
	if stats.PopulationDelta30d != nil {
		clauses = append(clauses, fmt.Sprintf("pop report added %d copies over the last 30d", *stats.PopulationDelta30d))
	}

	idx := engage.SelectIndex(sessionSeed+"|"+entity.Name, len(clauses))
	clause := clauses[idx]

	tmpl := NewTemplate("{entity} has been moving, {clause}",
		Slot{Name: "entity", Required: true},
		Slot{Name: "clause", Required: true},
	)
	return tmpl.Render(map[string]string{
		"entity": entity.Name,
		"clause": clause,
	})
}

func trendClause(pct float64, window string) string {
	direction := "up"
	if pct < 0 {
		direction = "down"
	}
	return fmt.Sprintf("%s %.0f%% over the last %s", direction, math.Abs(pct), window)
}
