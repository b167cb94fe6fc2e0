package analysis

import (
	"sort"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Nickname table: community names resolved to canonical entities before any
// downstream lookup. Static, not learned.
var nicknameTable = map[string]types.Entity{
	"moonbreon": {Name: "Umbreon VMAX", Set: "Evolving Skies", Number: "215/203", Rarity: "Alternate Art", Type: types.EntitySpecific},
	"leafbreon": {Name: "Leafeon VMAX", Set: "Evolving Skies", Number: "204/203", Rarity: "Alternate Art", Type: types.EntitySpecific},
	"goatina":   {Name: "Giratina V", Set: "Lost Origin", Number: "186/196", Rarity: "Alternate Art", Type: types.EntitySpecific},
	"zard":      {Name: "Charizard", Type: types.EntitySpecific},
	"chonkachu": {Name: "Snorlax", Type: types.EntitySpecific},
	"birb":      {Name: "Galarian Articuno", Type: types.EntitySpecific},
}

// Nicknames in sorted order, so repeated extractions of the same text
// always yield entities in the same order.
var nicknameOrder = func() []string {
	nicks := make([]string, 0, len(nicknameTable))
	for nick := range nicknameTable {
		nicks = append(nicks, nick)
	}
	sort.Strings(nicks)
	return nicks
}()

// Set abbreviation table resolved to full set names. Matched in sorted
// key order for deterministic resolution.
var setAbbreviations = map[string]string{
	"evs": "Evolving Skies",
	"czr": "Crown Zenith",
	"lor": "Lost Origin",
	"obf": "Obsidian Flames",
	"ssp": "Surging Sparks",
	"paf": "Paldean Fates",
	"brs": "Brilliant Stars",
	"asr": "Astral Radiance",
	"sit": "Silver Tempest",
	"pre": "Prismatic Evolutions",
	"151": "Scarlet & Violet 151",
}

var abbreviationOrder = func() []string {
	abbrs := make([]string, 0, len(setAbbreviations))
	for abbr := range setAbbreviations {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)
	return abbrs
}()

// Card form suffixes that turn a subject name into a specific card.
var cardForms = []string{"vmax", "vstar", "v", "ex", "gx"}

// Explicit price-question lexical triggers.
var explicitPriceTriggers = []string{
	"worth", "price", "value", "how much", "going for", "$", "market",
}

// Selling-intent triggers also count as explicit numeric solicitation.
var sellingTriggers = []string{"sell", "selling", "wts", "offers"}

// Implicit price interest: an achievement verb combined with a
// rarity/excitement word, gated on media presence.
var (
	achievementVerbs = []string{"pulled", "got", "hit", "found", "finally"}
	rarityWords      = []string{
		"alt art", "secret", "rare", "chase", "grail", "holy grail",
		"gold", "rainbow", "one of one",
	}
)

// Investment-question markers. "Is sealed worth holding long term" is an
// investment question, not a price lookup, and never opens the numbers gate.
var investmentMarkers = []string{"invest", "investing", "investment"}

// Extraction is the entity extractor's full output for a post.
type Extraction struct {
	IsPriceQuestion      bool           `json:"is_price_question"`
	IsInvestmentQuestion bool           `json:"is_investment_question"`
	Entities             []types.Entity `json:"entities,omitempty"`
	NumbersAllowed       bool           `json:"numbers_allowed"`
	IsShowingOff         bool           `json:"is_showing_off"`
}

// EntityExtractor detects price intent and resolves named entities.
type EntityExtractor struct{}

// NewEntityExtractor creates an entity extractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract resolves entities and price intent for a post, given the context
// analyzer's classification.
func (e *EntityExtractor) Extract(post *types.Post, ctx ContextResult) Extraction {
	lower := strings.ToLower(post.Text)

	entities := e.resolveEntities(lower)
	investment := isInvestmentQuestion(lower)
	explicit := hasAny(lower, explicitPriceTriggers) || hasAny(lower, sellingTriggers)
	achieved := hasAnyWord(lower, achievementVerbs)
	implicit := post.HasMedia() && achieved && hasAny(lower, rarityWords)
	showingOff := implicit || (achieved && len(ctx.Details.Emotions) > 0)

	return Extraction{
		IsPriceQuestion:      (explicit || implicit) && !investment,
		IsInvestmentQuestion: investment,
		Entities:             entities,
		NumbersAllowed:       explicit && !investment && numbersAllowed(ctx),
		IsShowingOff:         showingOff,
	}
}

// isInvestmentQuestion detects long-hold investment questions, which route
// to the authority knowledge base rather than a price lookup.
func isInvestmentQuestion(lower string) bool {
	if hasAny(lower, investmentMarkers) {
		return true
	}
	return strings.Contains(lower, "sealed") &&
		(strings.Contains(lower, "long term") || strings.Contains(lower, "hold"))
}

// resolveEntities finds nicknames, subject+form pairs, and bare subjects.
// Nicknames and subject+form detections are specific; bare names are generic.
func (e *EntityExtractor) resolveEntities(lower string) []types.Entity {
	var entities []types.Entity
	seen := make(map[string]bool)

	for _, nick := range nicknameOrder {
		entity := nicknameTable[nick]
		// Whole-word match so "zard" does not fire inside "charizard".
		if containsWord(lower, nick) && !seen[entity.Name] {
			seen[entity.Name] = true
			entities = append(entities, entity)
		}
	}

	for _, subject := range subjectNames {
		// Whole-word match so "mew" does not fire inside "mewtwo".
		idx := indexWord(lower, subject)
		if idx < 0 {
			continue
		}

		entity := types.Entity{Name: titleCase(subject), Type: types.EntityGeneric}

		// Look for a card form right after the subject name.
		rest := lower[idx+len(subject):]
		for _, form := range cardForms {
			if strings.HasPrefix(rest, " "+form) {
				after := rest[len(form)+1:]
				if after == "" || !isWordChar(after[0]) {
					entity.Name = titleCase(subject) + " " + strings.ToUpper(form)
					entity.Type = types.EntitySpecific
					break
				}
			}
		}

		if !seen[entity.Name] {
			seen[entity.Name] = true
			entities = append(entities, entity)
		}
	}

	// Attach a resolved set to set-less entities when the text names one.
	if set := resolveSet(lower); set != "" {
		for i := range entities {
			if entities[i].Set == "" {
				entities[i].Set = set
			}
		}
	}

	return entities
}

// resolveSet finds a set name or abbreviation in the text.
func resolveSet(lower string) string {
	for _, set := range setNames {
		if strings.Contains(lower, set) {
			return titleCase(set)
		}
	}
	for _, abbr := range abbreviationOrder {
		if containsToken(lower, abbr) {
			return setAbbreviations[abbr]
		}
	}
	return ""
}

// numbersAllowed applies the category veto: showcase, artist, and event
// posts never get market numbers regardless of trigger words.
func numbersAllowed(ctx ContextResult) bool {
	switch ctx.Primary {
	case types.CategoryPersonalSocial, types.CategoryFanArt:
		return false
	}
	return true
}

func hasAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// hasAnyWord is hasAny with whole-word matching, for single-word verb
// lists where "got" must not fire inside "gotta".
func hasAnyWord(lower string, terms []string) bool {
	for _, t := range terms {
		if containsWord(lower, t) {
			return true
		}
	}
	return false
}

// containsToken matches an abbreviation only as a standalone token.
func containsToken(lower, token string) bool {
	return containsWord(lower, token)
}

// containsWord matches a whole word within text.
func containsWord(text, word string) bool {
	return indexWord(text, word) >= 0
}

// indexWord returns the offset of the first whole-word occurrence of word
// within text, or -1.
func indexWord(text, word string) int {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return -1
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return start
		}
		idx = start + 1
		if idx >= len(text) {
			return -1
		}
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
