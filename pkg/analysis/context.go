// Package analysis implements post classification: the topic context
// analyzer and the entity / price-intent extractor. Everything here is a
// pure function of the post text; no learning, no external calls.
package analysis

import (
	"sort"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Thresholds for context classification.
const (
	MixedContextThreshold = 0.7
	AmbiguousThreshold    = 0.3
)

// ContextDetails holds structured entities extracted alongside the category.
type ContextDetails struct {
	Subjects     []string `json:"subjects,omitempty"`
	Emotions     []string `json:"emotions,omitempty"`
	Actions      []string `json:"actions,omitempty"`
	SetNames     []string `json:"set_names,omitempty"`
	ProductTypes []string `json:"product_types,omitempty"`
}

// ContextResult is the full output of the context analyzer.
type ContextResult struct {
	Primary             types.Category `json:"primary"`
	PrimaryConfidence   float64        `json:"primary_confidence"`
	Secondary           types.Category `json:"secondary,omitempty"`
	SecondaryConfidence float64        `json:"secondary_confidence,omitempty"`
	IsMixedContext      bool           `json:"is_mixed_context"`
	IsAmbiguous         bool           `json:"is_ambiguous"`
	Details             ContextDetails `json:"details"`
}

// categoryRule holds the positive patterns for a category and the "not"
// patterns that veto it despite positive matches.
type categoryRule struct {
	category    types.Category
	patterns    []string
	notPatterns []string
}

var categoryRules = []categoryRule{
	{
		category: types.CategoryPokemonTCG,
		patterns: []string{
			"pull", "pulled", "psa", "cgc", "bgs", "graded", "grading", "slab",
			"alt art", "holo", "booster", "etb", "pack", "centering", "raw",
			"vmax", "vstar", "secret rare", "full art", "sealed", "binder",
			"chase card", "hit",
		},
	},
	{
		category: types.CategoryVideoGame,
		patterns: []string{
			"shiny hunt", "shiny odds", "playthrough", "nuzlocke", "gameplay",
			"nintendo switch", "scarlet", "violet", "legends arceus", "raid",
			"living dex", "battle tower", "speedrun",
		},
		// Card-grading language wins the "shiny" ambiguity.
		notPatterns: []string{"psa", "graded", "slab", "booster", "pack"},
	},
	{
		category: types.CategoryFanArt,
		patterns: []string{
			"drew", "drawing", "fanart", "fan art", "sketch", "illustration",
			"commission", "my art", "painted", "digital art", "lineart",
		},
	},
	{
		category: types.CategoryAnime,
		patterns: []string{
			"episode", "anime", "season", "manga", "ash ketchum", "dub",
			"series finale", "opening theme", "movie",
		},
		notPatterns: []string{"card", "pull", "pack"},
	},
	{
		category: types.CategoryMerchandise,
		patterns: []string{
			"plush", "figure", "funko", "keychain", "merch", "statue",
			"pokemon center", "squishmallow", "pin set",
		},
	},
	{
		category: types.CategoryPersonalSocial,
		patterns: []string{
			"thank you", "birthday", "followers", "appreciate", "good morning",
			"milestone", "anniversary", "giveaway winner", "grateful",
		},
	},
	{
		category: types.CategorySales,
		patterns: []string{
			"for sale", "wts", "selling", "shipped", "price drop", "obo",
			"claim sale", "fcfs", "free shipping", "taking offers",
		},
	},
}

// Fixed name lists for structured detail extraction.
var (
	subjectNames = []string{
		"charizard", "umbreon", "pikachu", "rayquaza", "gengar", "mewtwo",
		"eevee", "lugia", "giratina", "sylveon", "mew", "dragonite",
		"gyarados", "blastoise", "venusaur", "snorlax", "greninja", "leafeon",
		"glaceon", "espeon",
	}

	emotionWords = []string{
		"excited", "happy", "hyped", "stoked", "proud", "grateful", "thrilled",
		"disappointed", "speechless", "shaking",
	}

	actionVerbs = []string{
		"pulled", "traded", "bought", "sold", "graded", "opened", "found",
		"won", "completed", "picked up", "cracked",
	}

	setNames = []string{
		"evolving skies", "crown zenith", "lost origin", "obsidian flames",
		"surging sparks", "temporal forces", "paldean fates", "hidden fates",
		"celebrations", "astral radiance", "silver tempest", "brilliant stars",
		"fusion strike", "vivid voltage", "chilling reign", "base set",
		"prismatic evolutions", "151",
	}

	productTypes = []string{
		"etb", "elite trainer box", "booster box", "booster bundle", "tin",
		"collection box", "blister", "upc", "ultra premium collection",
		"premium collection",
	}
)

// ContextAnalyzer classifies a post into a topic category with confidence.
type ContextAnalyzer struct {
	rules []categoryRule
}

// NewContextAnalyzer creates an analyzer with the built-in rule set.
func NewContextAnalyzer() *ContextAnalyzer {
	return &ContextAnalyzer{rules: categoryRules}
}

// Analyze classifies text into primary and secondary categories and extracts
// structured details. Confidence per category is matchCount/patternCount,
// capped at 1.
func (a *ContextAnalyzer) Analyze(text string) ContextResult {
	lower := strings.ToLower(text)

	type scored struct {
		category   types.Category
		confidence float64
	}
	var candidates []scored

	for _, rule := range a.rules {
		vetoed := false
		for _, np := range rule.notPatterns {
			if strings.Contains(lower, np) {
				vetoed = true
				break
			}
		}
		if vetoed {
			continue
		}

		matches := 0
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		confidence := float64(matches) / float64(len(rule.patterns))
		if confidence > 1 {
			confidence = 1
		}
		candidates = append(candidates, scored{rule.category, confidence})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	result := ContextResult{
		Primary: types.CategoryUnknown,
		Details: extractDetails(lower),
	}

	if len(candidates) == 0 {
		result.IsAmbiguous = true
		return result
	}

	result.Primary = candidates[0].category
	result.PrimaryConfidence = candidates[0].confidence
	if len(candidates) > 1 {
		result.Secondary = candidates[1].category
		result.SecondaryConfidence = candidates[1].confidence
	}

	if result.PrimaryConfidence < AmbiguousThreshold {
		result.IsAmbiguous = true
	}
	if result.PrimaryConfidence < MixedContextThreshold && result.Secondary != "" {
		result.IsMixedContext = true
	}

	return result
}

// extractDetails pulls named subjects, emotions, actions, sets, and product
// types out of the text, each deduplicated.
func extractDetails(lower string) ContextDetails {
	return ContextDetails{
		Subjects:     matchList(lower, subjectNames),
		Emotions:     matchList(lower, emotionWords),
		Actions:      matchList(lower, actionVerbs),
		SetNames:     matchList(lower, setNames),
		ProductTypes: matchList(lower, productTypes),
	}
}

func matchList(lower string, list []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, item := range list {
		if strings.Contains(lower, item) && !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
