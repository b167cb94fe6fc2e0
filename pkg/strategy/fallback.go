package strategy

import "github.com/cardpulse/card-bot/pkg/types"

// fallbackChain is the static map governing the single retry taken when a
// strategy's composer produces no text. Priority order lives here as data,
// not as scattered control flow.
var fallbackChain = map[types.StrategyKind]types.StrategyKind{
	types.StrategyPrice:       types.StrategyAuthority,
	types.StrategyAuthority:   types.StrategyHumanLike,
	types.StrategyHumanLike:   types.StrategyFallback,
	types.StrategyVisual:      types.StrategyHumanLike,
	types.StrategyThreadAware: types.StrategyFallback,
}

// Next returns the fallback strategy for kind, or false when the chain ends.
func Next(kind types.StrategyKind) (types.StrategyKind, bool) {
	next, ok := fallbackChain[kind]
	return next, ok
}
