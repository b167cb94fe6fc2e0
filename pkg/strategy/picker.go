// Package strategy implements the priority-ordered strategy picker and the
// static fallback chain consumed by the composer's dispatch loop.
package strategy

import (
	"fmt"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Pick maps features to exactly one strategy. Pure function: identical
// inputs always return the identical strategy and reason. First match wins.
func Pick(f types.Features, visionAvailable bool) types.Strategy {
	if f.IsPriceQuestion {
		confidence := types.ConfidenceMedium
		if f.HasStats {
			confidence = types.ConfidenceHigh
		}
		return types.Strategy{
			Kind:       types.StrategyPrice,
			Confidence: confidence,
			Reason:     "explicit or implicit price question",
		}
	}

	if f.HasImages && visionAvailable && len(f.CardEntities) > 0 {
		return types.Strategy{
			Kind:       types.StrategyVisual,
			Confidence: types.ConfidenceMedium,
			Reason:     "media with recognized entities",
		}
	}

	if f.ThreadDepth >= 2 {
		return types.Strategy{
			Kind:       types.StrategyThreadAware,
			Confidence: types.ConfidenceMedium,
			Reason:     fmt.Sprintf("thread depth %d", f.ThreadDepth),
		}
	}

	if f.IsInvestmentQuestion {
		return types.Strategy{
			Kind:       types.StrategyAuthority,
			Confidence: types.ConfidenceMedium,
			Reason:     "investment question",
		}
	}

	if f.ValueScore >= 3 && len(f.CardEntities) > 0 {
		confidence := types.ConfidenceMedium
		if f.ValueScore >= 5 {
			confidence = types.ConfidenceHigh
		}
		return types.Strategy{
			Kind:       types.StrategyAuthority,
			Confidence: confidence,
			Reason:     fmt.Sprintf("value score %d with entities", f.ValueScore),
		}
	}

	if len(f.CardEntities) > 0 {
		return types.Strategy{
			Kind:       types.StrategyAuthority,
			Confidence: types.ConfidenceLow,
			Reason:     "entities present",
		}
	}

	if f.IsShowingOff && f.Sentiment == types.SentimentPositive {
		return types.Strategy{
			Kind:       types.StrategyHumanLike,
			Confidence: types.ConfidenceMedium,
			Reason:     "positive showcase",
		}
	}

	return types.Strategy{
		Kind:       types.StrategyFallback,
		Confidence: types.ConfidenceLow,
		Reason:     "no specific signal",
	}
}
