// Command tracestats summarizes a decision log: outcome and strategy
// counts, plus how often price replies actually carried market data.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"github.com/cardpulse/card-bot/pkg/trace"
)

func main() {
	tracePath := flag.String("trace", "data/decisions.jsonl", "decision log to read")
	flag.Parse()

	stats, err := trace.ReadStats(*tracePath)
	if err != nil {
		log.Fatalf("failed to read decision log: %v", err)
	}

	fmt.Printf("decisions: %d\n\n", stats.Total)

	fmt.Println("by outcome:")
	for _, k := range sortedKeys(stats.ByOutcome) {
		fmt.Printf("  %-10s %d\n", k, stats.ByOutcome[k])
	}

	fmt.Println("\nby strategy:")
	for _, k := range sortedKeys(stats.ByStrategy) {
		fmt.Printf("  %-14s %d\n", k, stats.ByStrategy[k])
	}

	if stats.PriceResponses > 0 {
		fmt.Printf("\nprice replies with market data: %d/%d (%.0f%%)\n",
			stats.PriceWithStats, stats.PriceResponses, stats.PriceStatRate()*100)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
