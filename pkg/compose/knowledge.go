package compose

import (
	"strings"

	"github.com/cardpulse/card-bot/pkg/engage"
)

// KnowledgeBase is the static domain-knowledge table behind the AUTHORITY
// strategy: set facts, grading heuristics, investment heuristics. Selection
// among multiple matching facts is a stable hash of the session seed and
// key, so a session repeats itself but different sessions vary.
type KnowledgeBase struct {
	facts map[string][]string
}

// Facts deliberately carry no currency amounts or percentage claims; the
// numeric gate would strip them anyway on unsolicited posts.
var defaultFacts = map[string][]string{
	"investment": {
		"Sealed product has historically been the safest long-term hold since you're not exposed to grading risk",
		"Long term, sealed from popular sets tends to outperform singles just on shrinking supply",
		"The usual advice for long holds is sealed from flagship sets with strong alt art lineups",
		"Sealed is the lower-stress hold, singles need you to pick the right card and the right grade",
	},
	"grading": {
		"Centering is what keeps most raw cards out of a PSA 10, worth checking before you submit",
		"Modern cards usually need a clean surface under strong light before grading is worth it",
		"PSA still commands the premium at resale, CGC subgrades can be a better deal for personal collections",
	},
	"pull_rates": {
		"Alt arts in the sword and shield era run roughly one per case, not per box, which is why they hold value",
		"Chase pulls are case-rarity, a single box is mostly a lottery ticket",
	},
	"umbreon vmax": {
		"Moonbreon is still the face of the modern chase market, demand has never really cooled",
		"The Umbreon VMAX alt is the defining card of Evolving Skies, everything else in the set trades in its shadow",
	},
	"charizard": {
		"Zard tax is real, anything with Charizard on it carries a premium across every era",
		"Charizard cards are the most liquid in the hobby, they move fast at almost any grade",
	},
	"giratina v": {
		"The Giratina V alt is widely considered the best artwork of Lost Origin",
	},
	"evolving skies": {
		"Evolving Skies has the strongest alt art lineup of the modern era, the Eeveelution chase keeps it relevant",
		"Evolving Skies sealed keeps climbing because the alt art lineup is unmatched",
	},
	"crown zenith": {
		"Crown Zenith's galarian gallery is one of the best value chases of recent sets",
	},
	"lost origin": {
		"Lost Origin is carried by the Giratina and Aerodactyl alts, the rest of the set is affordable",
	},
	"scarlet & violet 151": {
		"The 151 set keeps selling through on nostalgia alone, kanto starters carry it",
	},
	"prismatic evolutions": {
		"Prismatic Evolutions is the closest thing to an Evolving Skies sequel, the Eeveelution chase is back",
	},
	"pokemon_tcg": {
		"The modern market rewards patience, chase cards dip hard after set rotation then recover",
		"Condition is everything in this hobby, a clean raw copy beats a played one at any rarity",
	},
}

// NewKnowledgeBase creates the knowledge base with the built-in fact table.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{facts: defaultFacts}
}

// Lookup tries each key in order and returns a deterministically selected
// fact for the first key with entries.
func (kb *KnowledgeBase) Lookup(sessionSeed string, keys ...string) (string, bool) {
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		facts, ok := kb.facts[key]
		if !ok || len(facts) == 0 {
			continue
		}
		idx := engage.SelectIndex(sessionSeed+"|"+key, len(facts))
		return facts[idx], true
	}
	return "", false
}
