package compose

import (
	"context"
	"strings"
	"testing"

	"github.com/cardpulse/card-bot/pkg/pricing"
	"github.com/cardpulse/card-bot/pkg/types"
)

// fixedGenerator always returns the same text.
type fixedGenerator struct {
	text  string
	calls int
}

func (f *fixedGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, nil
}

func newTestComposer(t *testing.T, gen *fixedGenerator, oracle pricing.Oracle, memory *ResponseMemory) *Composer {
	t.Helper()
	if gen == nil {
		gen = &fixedGenerator{text: "solid pickup, love that card"}
	}
	if oracle == nil {
		oracle = pricing.NewStatic(nil)
	}
	return New(Config{
		Knowledge:   NewKnowledgeBase(),
		Oracle:      oracle,
		Generator:   gen,
		Memory:      memory,
		SessionSeed: "test-session",
	})
}

func TestKnowledgeBase_Lookup(t *testing.T) {
	kb := NewKnowledgeBase()

	fact, ok := kb.Lookup("seed", "umbreon vmax")
	if !ok || fact == "" {
		t.Fatal("expected a fact for a known entity")
	}

	// First key with entries wins.
	fact2, ok := kb.Lookup("seed", "no such card", "umbreon vmax")
	if !ok || fact2 != fact {
		t.Errorf("expected fallthrough to the known key, got %q", fact2)
	}

	if _, ok := kb.Lookup("seed", "no such card"); ok {
		t.Error("expected miss for unknown key")
	}

	// Same seed picks the same fact; keys are case-insensitive.
	again, _ := kb.Lookup("seed", "Umbreon VMAX")
	if again != fact {
		t.Errorf("expected deterministic pick, got %q vs %q", again, fact)
	}
}

func TestKnowledgeBase_FactsCarryNoNumbers(t *testing.T) {
	kb := NewKnowledgeBase()
	for key, facts := range kb.facts {
		for _, fact := range facts {
			if strings.ContainsAny(fact, "$%") {
				t.Errorf("fact under %q carries a market figure: %q", key, fact)
			}
		}
	}
}

func TestBuildPriceResponse(t *testing.T) {
	change := 12.0
	stats := &types.PriceStats{Change7dPct: &change}
	entity := types.Entity{Name: "Umbreon VMAX"}

	got, err := BuildPriceResponse("seed", entity, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Umbreon VMAX") {
		t.Errorf("expected entity name in response: %q", got)
	}
	if !strings.Contains(got, "up 12% over the last 7d") {
		t.Errorf("expected the trend clause: %q", got)
	}

	// No stats at all produces nothing rather than a made-up figure.
	empty, err := BuildPriceResponse("seed", entity, &types.PriceStats{})
	if err != nil || empty != "" {
		t.Errorf("expected empty response for empty stats, got %q err %v", empty, err)
	}
}

func TestBuildVisualResponse_OnlyConfirmedCards(t *testing.T) {
	res := &types.VisionResult{
		Cards: []types.VisionCard{
			{Name: "Charizard", Confidence: 0.9},
			{Name: "Pikachu", Confidence: 0.5},
		},
	}
	got, err := BuildVisualResponse("seed", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Charizard") {
		t.Errorf("expected confirmed card named: %q", got)
	}
	if strings.Contains(got, "Pikachu") {
		t.Errorf("below-threshold card must never be named: %q", got)
	}
}

func TestBuildVisualResponse_GenericOrWeakProducesNothing(t *testing.T) {
	res := &types.VisionResult{
		Cards: []types.VisionCard{
			{Name: "trainer", Confidence: 0.99},
			{Name: "Gengar", Confidence: 0.6},
		},
	}
	got, err := BuildVisualResponse("seed", res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected no text without a nameable detection, got %q", got)
	}
}

func TestBuildVisualResponse_VideoRaisesThreshold(t *testing.T) {
	res := &types.VisionResult{
		FromVideo: true,
		Cards:     []types.VisionCard{{Name: "Gengar", Confidence: 0.8}},
	}
	got, _ := BuildVisualResponse("seed", res)
	if got != "" {
		t.Fatalf("0.8 clears the image bar but not the video bar, got %q", got)
	}
}

func TestCompose_PriceFallsThroughToAuthority(t *testing.T) {
	// Oracle knows nothing, so the price composer yields no text and the
	// single retry runs the authority composer instead.
	c := newTestComposer(t, nil, pricing.NewStatic(nil), nil)

	in := Input{
		Post: &types.Post{Text: "what's my moonbreon worth?"},
		Features: types.Features{
			IsPriceQuestion: true,
			NumbersAllowed:  true,
			CardEntities:    []types.Entity{{Name: "Umbreon VMAX", Type: types.EntitySpecific}},
		},
	}
	text, used, err := c.Compose(context.Background(), in, types.Strategy{Kind: types.StrategyPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != types.StrategyAuthority {
		t.Fatalf("expected authority fallback, got %s", used)
	}
	if text == "" {
		t.Fatal("expected a knowledge-base response")
	}
}

func TestCompose_ClosedNumbersGateSkipsPrice(t *testing.T) {
	// Even with market data on hand, a closed numbers gate means the
	// price composer yields nothing and the authority facts answer
	// instead, so the sanitizer never has to gut a stat sentence.
	change := 4.2
	oracle := pricing.NewStatic(map[string]*types.PriceStats{
		"Umbreon VMAX": {Change7dPct: &change},
	})
	c := newTestComposer(t, nil, oracle, nil)

	in := Input{
		Post: &types.Post{Text: "finally pulled my grail moonbreon", HasImages: true},
		Features: types.Features{
			IsPriceQuestion: true,
			NumbersAllowed:  false,
			CardEntities:    []types.Entity{{Name: "Umbreon VMAX", Type: types.EntitySpecific}},
		},
	}
	text, used, err := c.Compose(context.Background(), in, types.Strategy{Kind: types.StrategyPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != types.StrategyAuthority {
		t.Fatalf("expected authority fallback, got %s", used)
	}
	if strings.ContainsAny(text, "$%") || strings.Contains(text, "4.2") {
		t.Errorf("closed gate must not leak figures: %q", text)
	}

	// The same post with the gate open gets the stat sentence.
	in.Features.NumbersAllowed = true
	text, used, err = c.Compose(context.Background(), in, types.Strategy{Kind: types.StrategyPrice})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if used != types.StrategyPrice {
		t.Fatalf("expected price strategy with the gate open, got %s", used)
	}
	if !strings.Contains(text, "Umbreon VMAX") {
		t.Errorf("expected entity name in price response: %q", text)
	}
}

func TestCompose_SingleRetryOnly(t *testing.T) {
	// Visual with no vision result falls to human-like; if that also
	// produces nothing the composer stops rather than walking the chain.
	gen := &fixedGenerator{text: ""}
	c := newTestComposer(t, gen, nil, nil)

	in := Input{Post: &types.Post{Text: "check this out"}}
	text, _, err := c.Compose(context.Background(), in, types.Strategy{Kind: types.StrategyVisual})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected no text, got %q", text)
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generator call, got %d", gen.calls)
	}
}

func TestGenerateWithDedup_ForcedVariation(t *testing.T) {
	memory := NewResponseMemory(20, 0.72)
	memory.Add("solid pickup, love that card")

	gen := &fixedGenerator{text: "solid pickup, love that card"}
	c := newTestComposer(t, gen, nil, memory)

	text, err := c.generateWithDedup(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" {
		t.Fatal("forced variation must still produce text")
	}
	if text == "solid pickup, love that card" {
		t.Fatal("expected a lexical variation of the repeated text")
	}
	if !strings.HasSuffix(text, "olid pickup, love that card") {
		t.Errorf("expected a prefixed variation, got %q", text)
	}
	// All reroll attempts plus the initial call.
	if gen.calls != 4 {
		t.Errorf("expected 4 generator calls, got %d", gen.calls)
	}
}
