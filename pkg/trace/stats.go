package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Stats aggregates a decision log.
type Stats struct {
	Total          int            `json:"total"`
	ByStrategy     map[string]int `json:"by_strategy"`
	ByOutcome      map[string]int `json:"by_outcome"`
	PriceResponses int            `json:"price_responses"`
	PriceWithStats int            `json:"price_with_stats"`
}

// PriceStatRate is the share of price responses that carried a market stat.
func (s *Stats) PriceStatRate() float64 {
	if s.PriceResponses == 0 {
		return 0
	}
	return float64(s.PriceWithStats) / float64(s.PriceResponses)
}

var marketTokenRe = regexp.MustCompile(`(?i)[$€£]\s?\d|\d{1,3}\s?%|\b\d+\s?d\b`)

// ReadStats streams the log at path and aggregates it. Malformed lines are
// skipped; unknown fields are ignored, since readers must treat additive
// fields as optional.
func ReadStats(path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace log: %w", err)
	}
	defer f.Close()

	stats := &Stats{
		ByStrategy: make(map[string]int),
		ByOutcome:  make(map[string]int),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec types.DecisionTrace
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}

		stats.Total++
		stats.ByOutcome[string(rec.Outcome)]++
		if rec.Strategy != nil {
			stats.ByStrategy[string(rec.Strategy.Kind)]++

			if rec.Strategy.Kind == types.StrategyPrice && rec.Response != "" {
				stats.PriceResponses++
				if marketTokenRe.MatchString(rec.Response) {
					stats.PriceWithStats++
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace log: %w", err)
	}
	return stats, nil
}
