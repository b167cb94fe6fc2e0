package gate

import (
	"regexp"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// SentimentGate classifies post sentiment with lexical scoring and vetoes
// hostile or ambiguous-negative content. Pure function of the text.
type SentimentGate struct {
	vetoThreshold float64
}

var (
	positiveWords = map[string]float64{
		"love": 1, "awesome": 1, "amazing": 1, "beautiful": 1, "gorgeous": 1,
		"nice": 1, "great": 1, "fire": 1, "clean": 1, "grail": 1.5,
		"stunning": 1, "insane": 1, "incredible": 1, "perfect": 1,
		"finally": 0.5, "hyped": 1, "stoked": 1, "chase": 0.5, "banger": 1,
		"congrats": 1, "happy": 1, "excited": 1, "best": 1, "beauty": 1,
	}

	negativeWords = map[string]float64{
		"hate": 1, "scam": 1.5, "fake": 1, "trash": 1, "garbage": 1,
		"awful": 1, "terrible": 1, "overpriced": 1, "disgusting": 1,
		"worst": 1, "ugly": 1, "disappointed": 1, "damaged": 0.5,
		"ripoff": 1.5, "scalper": 1, "scalpers": 1, "annoying": 1,
	}

	// Direct-attack vocabulary; any hit is an immediate veto.
	hostileWords = []string{"idiot", "stupid", "moron", "clown", "pathetic", "shut up"}

	intensifiers = map[string]bool{
		"so": true, "very": true, "super": true, "really": true,
		"absolutely": true, "extremely": true,
	}

	negations = map[string]bool{
		"not": true, "no": true, "never": true, "isnt": true, "isn't": true,
		"dont": true, "don't": true, "aint": true, "ain't": true,
	}

	sentimentTokenRe = regexp.MustCompile(`[a-zA-Z'&$]+`)
)

// NewSentimentGate creates a sentiment gate with the default veto threshold.
func NewSentimentGate() *SentimentGate {
	return &SentimentGate{vetoThreshold: 0.6}
}

// Classify scores text into a sentiment and a 0..1 confidence.
// Negations flip the sign of the next sentiment word; intensifiers double it.
func (g *SentimentGate) Classify(text string) (types.Sentiment, float64) {
	tokens := sentimentTokenRe.FindAllString(strings.ToLower(text), -1)

	var score float64
	var hits int
	mult := 1.0
	sign := 1.0

	for _, tok := range tokens {
		if intensifiers[tok] {
			mult = 2.0
			continue
		}
		if negations[tok] {
			sign = -1.0
			continue
		}

		if w, ok := positiveWords[tok]; ok {
			score += sign * mult * w
			hits++
		} else if w, ok := negativeWords[tok]; ok {
			score -= sign * mult * w
			hits++
		}

		// Modifiers only reach the immediately following sentiment word.
		mult = 1.0
		sign = 1.0
	}

	if hits == 0 {
		return types.SentimentNeutral, 0.3
	}

	confidence := float64(hits) / 4.0
	if confidence > 1 {
		confidence = 1
	}

	switch {
	case score > 0.5:
		return types.SentimentPositive, confidence
	case score < -0.5:
		return types.SentimentNegative, confidence
	default:
		return types.SentimentNeutral, confidence
	}
}

// Check vetoes hostile content and confident-negative posts.
func (g *SentimentGate) Check(text string) types.GateResult {
	lower := strings.ToLower(text)
	for _, h := range hostileWords {
		if strings.Contains(lower, h) {
			return types.GateResult{
				Skip:       true,
				Reason:     "hostile content",
				Confidence: types.ConfidenceHigh,
			}
		}
	}

	sentiment, confidence := g.Classify(text)
	if sentiment == types.SentimentNegative && confidence >= g.vetoThreshold {
		return types.GateResult{
			Skip:       true,
			Reason:     "negative sentiment",
			Confidence: types.ConfidenceMedium,
		}
	}

	return types.GateResult{Skip: false, Reason: "sentiment ok"}
}
