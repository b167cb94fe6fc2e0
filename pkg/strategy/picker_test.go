package strategy

import (
	"testing"

	"github.com/cardpulse/card-bot/pkg/types"
)

func TestPick_PriceQuestionWins(t *testing.T) {
	f := types.Features{
		IsPriceQuestion: true,
		HasImages:       true,
		ThreadDepth:     3,
		CardEntities:    []types.Entity{{Name: "Umbreon VMAX"}},
		ValueScore:      6,
	}
	// Even with every other signal present, a price question always wins.
	got := Pick(f, true)
	if got.Kind != types.StrategyPrice {
		t.Fatalf("expected price, got %s", got.Kind)
	}
	if got.Confidence != types.ConfidenceMedium {
		t.Errorf("expected medium confidence without stats, got %s", got.Confidence)
	}

	f.HasStats = true
	if got := Pick(f, true); got.Confidence != types.ConfidenceHigh {
		t.Errorf("expected high confidence with market data, got %s", got.Confidence)
	}
}

func TestPick_VisualNeedsVisionAndEntities(t *testing.T) {
	f := types.Features{
		HasImages:    true,
		CardEntities: []types.Entity{{Name: "Charizard"}},
		ValueScore:   1,
	}
	if got := Pick(f, true); got.Kind != types.StrategyVisual {
		t.Fatalf("expected visual, got %s", got.Kind)
	}

	// No vision backend: the same post routes past visual.
	if got := Pick(f, false); got.Kind == types.StrategyVisual {
		t.Fatal("visual must not be picked without a vision backend")
	}

	// Media without recognized entities is not a visual case either.
	bare := types.Features{HasImages: true}
	if got := Pick(bare, true); got.Kind == types.StrategyVisual {
		t.Fatal("visual requires recognized entities")
	}
}

func TestPick_ThreadBeforeInvestment(t *testing.T) {
	f := types.Features{ThreadDepth: 2, IsInvestmentQuestion: true}
	if got := Pick(f, false); got.Kind != types.StrategyThreadAware {
		t.Fatalf("expected thread_aware, got %s", got.Kind)
	}
}

func TestPick_InvestmentRoutesToAuthority(t *testing.T) {
	f := types.Features{IsInvestmentQuestion: true}
	got := Pick(f, false)
	if got.Kind != types.StrategyAuthority {
		t.Fatalf("expected authority, got %s", got.Kind)
	}
	if got.Confidence != types.ConfidenceMedium {
		t.Errorf("expected medium confidence, got %s", got.Confidence)
	}
}

func TestPick_ValueScoreAuthority(t *testing.T) {
	f := types.Features{
		ValueScore:   5,
		CardEntities: []types.Entity{{Name: "Giratina V"}},
	}
	got := Pick(f, false)
	if got.Kind != types.StrategyAuthority || got.Confidence != types.ConfidenceHigh {
		t.Fatalf("expected high-confidence authority, got %s/%s", got.Kind, got.Confidence)
	}

	f.ValueScore = 3
	if got := Pick(f, false); got.Confidence != types.ConfidenceMedium {
		t.Errorf("expected medium confidence at score 3, got %s", got.Confidence)
	}

	// Entities alone still get a low-confidence authority response.
	f.ValueScore = 1
	if got := Pick(f, false); got.Kind != types.StrategyAuthority || got.Confidence != types.ConfidenceLow {
		t.Errorf("expected low-confidence authority, got %s/%s", got.Kind, got.Confidence)
	}
}

func TestPick_ShowcaseAndFallback(t *testing.T) {
	f := types.Features{IsShowingOff: true, Sentiment: types.SentimentPositive}
	if got := Pick(f, false); got.Kind != types.StrategyHumanLike {
		t.Fatalf("expected human_like, got %s", got.Kind)
	}

	// A showcase without positive sentiment falls through.
	f.Sentiment = types.SentimentNeutral
	if got := Pick(f, false); got.Kind != types.StrategyFallback {
		t.Fatalf("expected fallback, got %s", got.Kind)
	}

	if got := Pick(types.Features{}, false); got.Kind != types.StrategyFallback {
		t.Fatalf("expected fallback for empty features, got %s", got.Kind)
	}
}

func TestPick_Deterministic(t *testing.T) {
	f := types.Features{IsPriceQuestion: true, HasStats: true}
	first := Pick(f, true)
	for i := 0; i < 3; i++ {
		if got := Pick(f, true); got != first {
			t.Fatalf("pick must be pure: %+v != %+v", got, first)
		}
	}
}

func TestNext_FallbackChain(t *testing.T) {
	steps := map[types.StrategyKind]types.StrategyKind{
		types.StrategyPrice:       types.StrategyAuthority,
		types.StrategyAuthority:   types.StrategyHumanLike,
		types.StrategyHumanLike:   types.StrategyFallback,
		types.StrategyVisual:      types.StrategyHumanLike,
		types.StrategyThreadAware: types.StrategyFallback,
	}
	for from, want := range steps {
		got, ok := Next(from)
		if !ok || got != want {
			t.Errorf("Next(%s) = %s,%v want %s", from, got, ok, want)
		}
	}

	// The terminal strategy has no fallback.
	if _, ok := Next(types.StrategyFallback); ok {
		t.Error("fallback must terminate the chain")
	}
}
