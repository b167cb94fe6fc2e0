// Package sanitize implements the post-generation validation stage: the
// numeric gate, the thread-truth gate, and the platform length bound.
// Both gates are idempotent; running them twice changes nothing.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Sanitizer applies all passes in order. If a pass empties the response
// the caller treats it as composer-produced-nothing.
type Sanitizer struct {
	limit int
}

// New creates a sanitizer for the given platform character limit.
func New(limit int) *Sanitizer {
	if limit <= 0 {
		limit = 280
	}
	return &Sanitizer{limit: limit}
}

// Limit returns the platform character limit.
func (s *Sanitizer) Limit() int {
	return s.limit
}

// Options controls the per-response passes.
type Options struct {
	// AllowedClaims is the allow-list of domain terms the response may
	// assert: entities present in the thread or confirmed by vision.
	AllowedClaims []string

	// ThreadTruth enables the hallucination gate. Applied to
	// generator-backed output; curated template output is already grounded.
	ThreadTruth bool
}

// Sanitize runs the numeric gate, the thread-truth gate, and truncation.
func (s *Sanitizer) Sanitize(response string, post *types.Post, f types.Features, opts Options) string {
	if !f.NumbersAllowed {
		response = StripNumeric(response)
	}
	if opts.ThreadTruth {
		response = ThreadTruth(response, post, opts.AllowedClaims)
	}
	response = Truncate(response, s.limit)
	return strings.TrimSpace(response)
}

// Numeric claim patterns stripped when numbers are not allowed.
var (
	currencyRe  = regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d+)?[kKmM]?`)
	percentRe   = regexp.MustCompile(`(?:up |down )?\d{1,3}(?:\.\d+)?\s?%`)
	dayWindowRe = regexp.MustCompile(`(?i)\b\d+\s?d\b`)
	lastDaysRe  = regexp.MustCompile(`(?i)\b(?:last|past)\s+\d+\s+days?\b`)
	salesRe     = regexp.MustCompile(`(?i)\b\d+\+?\s?sales\b`)

	emptyParensRe = regexp.MustCompile(`\(\s*\)`)
	dupPunctRe    = regexp.MustCompile(`([,.;:!?])\s*[,.;:!?]+`)
	spacePunctRe  = regexp.MustCompile(`\s+([,.;:!?])`)
)

// StripNumeric removes currency amounts, percentages, day-window tokens,
// and volume-count phrases, then tidies the punctuation left behind.
func StripNumeric(s string) string {
	s = currencyRe.ReplaceAllString(s, "")
	s = percentRe.ReplaceAllString(s, "")
	s = lastDaysRe.ReplaceAllString(s, "")
	s = dayWindowRe.ReplaceAllString(s, "")
	s = salesRe.ReplaceAllString(s, "")

	s = emptyParensRe.ReplaceAllString(s, "")
	s = dupPunctRe.ReplaceAllString(s, "$1")
	s = spacePunctRe.ReplaceAllString(s, "$1")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// Domain terms the thread-truth gate verifies against the captured thread.
// Only claims on this list are checked; everything else is ordinary prose.
var checkedTopicTerms = []string{
	"charizard", "umbreon", "pikachu", "rayquaza", "gengar", "mewtwo",
	"eevee", "lugia", "giratina", "sylveon", "moonbreon",
	"evolving skies", "crown zenith", "lost origin", "obsidian flames",
	"brilliant stars", "silver tempest", "prismatic evolutions",
}

var clauseSplitRe = regexp.MustCompile(`(?m)([^,.;!?]+[,.;!?]?)`)

// ThreadTruth removes clauses that assert conversational context the
// generator was never given: thread references when there is no thread,
// and domain terms absent from both the captured thread and allowedClaims.
func ThreadTruth(response string, post *types.Post, allowedClaims []string) string {
	threadLower := strings.ToLower(post.ThreadText())
	allowed := make(map[string]bool, len(allowedClaims))
	for _, a := range allowedClaims {
		allowed[strings.ToLower(a)] = true
	}

	clauses := clauseSplitRe.FindAllString(response, -1)
	var kept []string
	for _, clause := range clauses {
		lower := strings.ToLower(clause)

		if strings.Contains(lower, "thread") && post.ThreadDepth < 2 {
			continue
		}

		hallucinated := false
		for _, term := range checkedTopicTerms {
			if !strings.Contains(lower, term) {
				continue
			}
			if strings.Contains(threadLower, term) || claimAllowed(allowed, term) {
				continue
			}
			hallucinated = true
			break
		}
		if hallucinated {
			continue
		}

		kept = append(kept, strings.TrimSpace(clause))
	}

	return strings.TrimSpace(strings.Join(kept, " "))
}

func claimAllowed(allowed map[string]bool, term string) bool {
	if allowed[term] {
		return true
	}
	// Allow-list entries may be full card names containing the term.
	for a := range allowed {
		if strings.Contains(a, term) {
			return true
		}
	}
	return false
}

var confidenceSuffixRe = regexp.MustCompile(`(?i)\s*\(?confidence:\s*\d{1,3}%\)?\s*$`)

// Truncate enforces the platform limit, preferring the last whitespace
// boundary within budget. A trailing "confidence: N%" suffix is excluded
// from the budget and re-appended.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	suffix := confidenceSuffixRe.FindString(s)
	body := s
	budget := limit
	if suffix != "" {
		body = strings.TrimSuffix(s, suffix)
		suffix = strings.TrimSpace(suffix)
		budget = limit - len(suffix) - 1
		if budget < 0 {
			// The suffix alone does not fit; truncate plainly instead.
			body = s
			suffix = ""
			budget = limit
		}
	}

	if len(body) > budget {
		cut := body[:budget]
		if i := strings.LastIndexAny(cut, " \t"); i > 0 {
			cut = cut[:i]
		}
		body = strings.TrimRight(cut, " \t,.;:")
	}

	if suffix != "" {
		return body + " " + suffix
	}
	return body
}
