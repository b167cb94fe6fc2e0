// Package vision defines the vision classifier contract and the grounding
// rules for what a detection must clear before it may be named in text.
package vision

import (
	"context"
	"strings"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Confidence a detection must reach before its card may be asserted.
const (
	VideoThreshold = 0.85
	ImageThreshold = 0.75
)

// Classifier analyzes a post's media and returns detected cards.
type Classifier interface {
	Classify(ctx context.Context, post *types.Post) (*types.VisionResult, error)
}

// Generic detection labels that are never specific enough to name.
var genericLabels = map[string]bool{
	"trainer": true,
	"energy":  true,
	"pokemon": true,
	"pokémon": true,
	"card":    true,
}

// ConfirmedCards filters a vision result down to detections that clear the
// confidence threshold and carry a non-generic name. Asserting anything
// below threshold in generated text is a correctness bug.
func ConfirmedCards(res *types.VisionResult) []types.VisionCard {
	if res == nil {
		return nil
	}

	threshold := ImageThreshold
	if res.FromVideo {
		threshold = VideoThreshold
	}

	var confirmed []types.VisionCard
	for _, c := range res.Cards {
		if c.Confidence < threshold {
			continue
		}
		if genericLabels[strings.ToLower(strings.TrimSpace(c.Name))] {
			continue
		}
		confirmed = append(confirmed, c)
	}
	return confirmed
}
