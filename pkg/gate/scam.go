// Package gate implements the hard veto gates that run before any feature
// extraction: the anti-scam gate and the sentiment gate. A veto from either
// gate aborts the pipeline for that post.
package gate

import (
	"regexp"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// ScamGate pattern-matches post text and usernames against scam indicators.
// False positives are acceptable; false negatives are not.
type ScamGate struct {
	whitelist    []string
	patterns     []string
	usernameRe   []*regexp.Regexp
	redFlagVeto  int
}

// Scam pattern groups. All matched against lowercased text.
var (
	defaultWhitelist = []string{
		"not for sale",
		"not selling",
		"nfs",
		"collection post",
		"mail day",
	}

	// Payment-bypass phrases, pressure tactics, raffle/spot-list language,
	// off-platform contact requests, too-good-to-be-true claims, link shorteners.
	defaultScamPatterns = []string{
		"f&f only",
		"friends and family only",
		"friends & family",
		"no goods and services",
		"no g&s",
		"dm to buy",
		"dm me to claim",
		"dm to claim",
		"claim your spot",
		"spots left",
		"spot left",
		"razz",
		"raffle spot",
		"act fast",
		"won't last long",
		"last chance",
		"first come first serve",
		"cashapp only",
		"venmo only",
		"zelle only",
		"apple pay only",
		"message me on telegram",
		"message me on whatsapp",
		"text me at",
		"free pokemon cards",
		"guaranteed profit",
		"double your money",
		"giveaway, just pay shipping",
		"bit.ly/",
		"tinyurl.com/",
		"cutt.ly/",
		"rb.gy/",
	}

	defaultUsernamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[0-9]+$`),
		regexp.MustCompile(`(?i)^(seller|buyer|deals?|shop|cards?)[0-9]+$`),
		regexp.MustCompile(`[0-9]{8,}$`),
	}
)

// NewScamGate creates a scam gate with the default pattern tables.
func NewScamGate() *ScamGate {
	return &ScamGate{
		whitelist:   defaultWhitelist,
		patterns:    defaultScamPatterns,
		usernameRe:  defaultUsernamePatterns,
		redFlagVeto: 3,
	}
}

// Check evaluates a post's text and author username. Checks run in order:
// whitelist pass, scam-pattern veto, suspicious-username veto, weighted
// red-flag counter veto.
func (g *ScamGate) Check(text, username string) types.GateResult {
	lower := strings.ToLower(text)

	for _, w := range g.whitelist {
		if strings.Contains(lower, w) {
			return types.GateResult{Skip: false, Reason: "whitelisted: " + w}
		}
	}

	for _, p := range g.patterns {
		if strings.Contains(lower, p) {
			return types.GateResult{
				Skip:       true,
				Reason:     "scam pattern: " + p,
				Confidence: types.ConfidenceHigh,
			}
		}
	}

	for _, re := range g.usernameRe {
		if re.MatchString(username) {
			return types.GateResult{
				Skip:       true,
				Reason:     "suspicious username shape",
				Confidence: types.ConfidenceMedium,
			}
		}
	}

	flags := g.countRedFlags(lower)
	if flags >= g.redFlagVeto {
		return types.GateResult{
			Skip:       true,
			Reason:     "red flag threshold reached",
			Confidence: types.ConfidenceMedium,
			RedFlags:   flags,
		}
	}

	// Sub-veto flags pass the gate but still reach the engagement scorer.
	return types.GateResult{Skip: false, Reason: "clean", RedFlags: flags}
}

// countRedFlags applies the weighted red-flag counter. Individually weak
// signals that only veto in combination.
func (g *ScamGate) countRedFlags(lower string) int {
	flags := 0
	if containsWord(lower, "dm") {
		flags++
	}
	if containsWord(lower, "only") {
		flags++
	}
	if containsWord(lower, "fast") {
		flags++
	}
	if strings.Contains(lower, "$") && containsWord(lower, "send") {
		flags += 2
	}
	if containsWord(lower, "pay") && !strings.Contains(lower, "paypal") {
		flags++
	}
	return flags
}

// containsWord matches a whole word, so "dm" does not fire on "admin".
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
