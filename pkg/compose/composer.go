package compose

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/llm"
	"github.com/cardpulse/card-bot/pkg/pricing"
	"github.com/cardpulse/card-bot/pkg/strategy"
	"github.com/cardpulse/card-bot/pkg/types"
)

// Composer turns a chosen strategy into response text. External calls
// (oracle, generator) fail closed: a failure means no text, never an error
// surfaced to the pipeline's caller.
type Composer struct {
	knowledge   *KnowledgeBase
	oracle      pricing.Oracle
	generator   llm.Generator
	memory      *ResponseMemory
	logger      *zap.Logger
	sessionSeed string
	maxRerolls  int
}

// Config wires a composer.
type Config struct {
	Knowledge   *KnowledgeBase
	Oracle      pricing.Oracle
	Generator   llm.Generator
	Memory      *ResponseMemory
	Logger      *zap.Logger
	SessionSeed string
	MaxRerolls  int
}

// Input is everything a composition pass may read.
type Input struct {
	Post           *types.Post
	Features       types.Features
	Vision         *types.VisionResult
	PriorExchanges []string
}

// New creates a composer.
func New(cfg Config) *Composer {
	maxRerolls := cfg.MaxRerolls
	if maxRerolls <= 0 {
		maxRerolls = 3
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		knowledge:   cfg.Knowledge,
		oracle:      cfg.Oracle,
		generator:   cfg.Generator,
		memory:      cfg.Memory,
		logger:      logger,
		sessionSeed: cfg.SessionSeed,
		maxRerolls:  maxRerolls,
	}
}

// Compose runs the chosen strategy's composer, taking at most one retry
// with the fallback strategy when no text is produced. Empty result means
// the pipeline skips the post.
func (c *Composer) Compose(ctx context.Context, in Input, strat types.Strategy) (string, types.StrategyKind, error) {
	kind := strat.Kind

	for attempt := 0; attempt < 2; attempt++ {
		text, err := c.composeOne(ctx, in, kind)
		if err != nil {
			c.logger.Warn("composer failed, falling through",
				zap.String("strategy", string(kind)), zap.Error(err))
			text = ""
		}
		if text != "" {
			return postProcess(text), kind, nil
		}

		next, ok := strategy.Next(kind)
		if !ok {
			break
		}
		kind = next
	}

	return "", kind, nil
}

// composeOne dispatches a single strategy.
func (c *Composer) composeOne(ctx context.Context, in Input, kind types.StrategyKind) (string, error) {
	switch kind {
	case types.StrategyPrice:
		return c.composePrice(ctx, in)
	case types.StrategyAuthority:
		return c.composeAuthority(in)
	case types.StrategyVisual:
		return BuildVisualResponse(c.sessionSeed, in.Vision)
	case types.StrategyThreadAware:
		return c.generateWithDedup(ctx, buildThreadPrompt(in.Post, in.PriorExchanges))
	case types.StrategyHumanLike:
		return c.generateWithDedup(ctx, buildHumanLikePrompt(in.Post, in.Features))
	case types.StrategyFallback:
		return c.generateWithDedup(ctx, buildFallbackPrompt(in.Post))
	default:
		return "", fmt.Errorf("unknown strategy %q", kind)
	}
}

// composePrice resolves the best entity and asks the oracle. No entity,
// no stats, or a closed numbers gate produces nothing, which hands the
// post to the authority chain and its numeric-free facts.
func (c *Composer) composePrice(ctx context.Context, in Input) (string, error) {
	if !in.Features.NumbersAllowed {
		return "", nil
	}
	entity, ok := primaryEntity(in.Features.CardEntities)
	if !ok {
		return "", nil
	}

	stats, err := c.oracle.GetStats(ctx, entity.Name, entity.Set, entity.Number)
	if err != nil {
		return "", fmt.Errorf("oracle lookup for %s: %w", entity.Name, err)
	}
	if !stats.HasAny() {
		return "", nil
	}

	return BuildPriceResponse(c.sessionSeed, entity, stats)
}

// composeAuthority looks up the knowledge base, most specific key first.
func (c *Composer) composeAuthority(in Input) (string, error) {
	var keys []string
	if in.Features.IsInvestmentQuestion {
		keys = append(keys, "investment")
	}
	for _, e := range in.Features.CardEntities {
		keys = append(keys, e.Name)
	}
	for _, e := range in.Features.CardEntities {
		if e.Set != "" {
			keys = append(keys, e.Set)
		}
	}
	keys = append(keys, string(in.Features.ContextCategory))

	fact, ok := c.knowledge.Lookup(c.sessionSeed, keys...)
	if !ok {
		return "", nil
	}
	return fact, nil
}

// generateWithDedup calls the generator, re-rolling when the candidate is
// a near-duplicate of recent output. After the re-roll budget a forced
// lexical variation is applied rather than giving up.
func (c *Composer) generateWithDedup(ctx context.Context, prompt string) (string, error) {
	var last string

	for attempt := 0; attempt <= c.maxRerolls; attempt++ {
		p := prompt
		if attempt > 0 {
			p = fmt.Sprintf("%s\nSay it differently than you usually would, take %d.", prompt, attempt)
		}

		text, err := c.generator.Generate(ctx, p)
		if err != nil {
			return "", err
		}
		text = postProcess(text)
		if text == "" {
			return "", nil
		}
		last = text

		if c.memory == nil || !c.memory.TooSimilar(text) {
			return text, nil
		}
	}

	return c.forceVariation(last), nil
}

// Variation prefixes for when the re-roll budget is spent.
var variationPrefixes = []string{"Honestly, ", "Gotta say, ", "Man, ", "Not gonna lie, "}

func (c *Composer) forceVariation(text string) string {
	prefix := variationPrefixes[engage.SelectIndex(c.sessionSeed+"|"+text, len(variationPrefixes))]
	if text == "" {
		return text
	}
	return prefix + strings.ToLower(text[:1]) + text[1:]
}

// primaryEntity prefers the first specific entity, then any entity.
func primaryEntity(entities []types.Entity) (types.Entity, bool) {
	for _, e := range entities {
		if e.Type == types.EntitySpecific {
			return e, true
		}
	}
	if len(entities) > 0 {
		return entities[0], true
	}
	return types.Entity{}, false
}
