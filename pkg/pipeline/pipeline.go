// Package pipeline orchestrates a single post through the full decision
// sequence: hard gates, analysis, engagement scoring, strategy selection,
// composition, sanitization, and tracing. Posts are processed one at a
// time; every stage must finish before the next begins.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/analysis"
	"github.com/cardpulse/card-bot/pkg/compose"
	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/gate"
	"github.com/cardpulse/card-bot/pkg/pricing"
	"github.com/cardpulse/card-bot/pkg/profile"
	"github.com/cardpulse/card-bot/pkg/sanitize"
	"github.com/cardpulse/card-bot/pkg/strategy"
	"github.com/cardpulse/card-bot/pkg/trace"
	"github.com/cardpulse/card-bot/pkg/types"
	"github.com/cardpulse/card-bot/pkg/vision"
)

// Decision is the pipeline's result for one post. A skip carries no
// response; the only user-visible outcome of any failure is silence.
type Decision struct {
	Action   types.EngagementAction
	Response string
	Strategy *types.Strategy
	Features *types.Features
	Reason   string
}

// Config wires a pipeline.
type Config struct {
	Scorer    *engage.Scorer
	Composer  *compose.Composer
	Memory    *compose.ResponseMemory
	Sanitizer *sanitize.Sanitizer
	Tracer    *trace.Logger
	Oracle    pricing.Oracle
	Vision    vision.Classifier   // nil when no vision backend is wired
	Profiles  *profile.Repository // nil disables profile biasing
	Logger    *zap.Logger
	Now       func() time.Time // defaults to time.Now
}

// Pipeline runs the decision sequence.
type Pipeline struct {
	scam      *gate.ScamGate
	sentiment *gate.SentimentGate
	contexts  *analysis.ContextAnalyzer
	entities  *analysis.EntityExtractor
	scorer    *engage.Scorer
	composer  *compose.Composer
	memory    *compose.ResponseMemory
	sanitizer *sanitize.Sanitizer
	tracer    *trace.Logger
	oracle    pricing.Oracle
	vision    vision.Classifier
	profiles  *profile.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		scam:      gate.NewScamGate(),
		sentiment: gate.NewSentimentGate(),
		contexts:  analysis.NewContextAnalyzer(),
		entities:  analysis.NewEntityExtractor(),
		scorer:    cfg.Scorer,
		composer:  cfg.Composer,
		memory:    cfg.Memory,
		sanitizer: cfg.Sanitizer,
		tracer:    cfg.Tracer,
		oracle:    cfg.Oracle,
		vision:    cfg.Vision,
		profiles:  cfg.Profiles,
		logger:    logger,
		now:       now,
	}
}

// Process runs one post through the pipeline. A veto or skip returns a
// Decision with no response; errors are reserved for infrastructure
// failures (trace writes), never for abstention.
func (p *Pipeline) Process(ctx context.Context, post *types.Post) (*Decision, error) {
	// Hard gates run before any feature extraction. A veto ends the post's
	// pipeline with nothing observable beyond the veto reason.
	scamRes := p.scam.Check(post.Text, post.Author)
	if scamRes.Skip {
		return p.veto(post, "anti-scam: "+scamRes.Reason)
	}
	if res := p.sentiment.Check(post.Text); res.Skip {
		return p.veto(post, "sentiment: "+res.Reason)
	}

	features := p.computeFeatures(ctx, post)

	// Two sub-veto scam signals still disqualify the post from engagement
	// even though the gate let it through.
	redFlagged := scamRes.RedFlags >= 2
	decision := p.scorer.Decide(post, redFlagged, p.now())
	switch decision.Action {
	case types.ActionSkip:
		return p.skip(post, &features, nil, decision.Reason)
	case types.ActionLike:
		if err := p.record(post, &features, nil, "", types.OutcomeLiked, decision.Reason); err != nil {
			return nil, err
		}
		return &Decision{Action: types.ActionLike, Features: &features, Reason: decision.Reason}, nil
	}

	visRes := p.classifyMedia(ctx, post)

	strat := strategy.Pick(features, visRes != nil)
	if p.profiles != nil {
		strat = p.profiles.BiasConfidence(strat, post.Author)
	}

	input := compose.Input{
		Post:     post,
		Features: features,
		Vision:   visRes,
	}
	if p.profiles != nil {
		input.PriorExchanges = p.profiles.PriorExchanges(post.Author)
	}

	text, usedKind, err := p.composer.Compose(ctx, input, strat)
	if err != nil {
		p.logger.Warn("composition failed", zap.String("post_id", post.ID), zap.Error(err))
		text = ""
	}
	if text == "" {
		return p.skip(post, &features, &strat, "no text produced")
	}

	used := strat
	if usedKind != strat.Kind {
		used = types.Strategy{
			Kind:       usedKind,
			Confidence: types.ConfidenceLow,
			Reason:     "fallback from " + string(strat.Kind),
		}
	}

	text = p.sanitizer.Sanitize(text, post, features, sanitize.Options{
		AllowedClaims: allowedClaims(features, visRes),
		ThreadTruth:   generatorBacked(usedKind),
	})
	if text == "" {
		return p.skip(post, &features, &used, "sanitizer emptied response")
	}

	if err := p.record(post, &features, &used, text, types.OutcomeReplied, used.Reason); err != nil {
		return nil, err
	}

	if p.memory != nil {
		p.memory.Add(text)
	}
	p.scorer.RecordReply(p.now())
	if p.profiles != nil {
		if err := p.profiles.RecordInteraction(post.Author, features.ContextCategory, post.Text, text); err != nil {
			p.logger.Warn("profile update failed", zap.String("author", post.Author), zap.Error(err))
		}
	}

	return &Decision{
		Action:   types.ActionReply,
		Response: text,
		Strategy: &used,
		Features: &features,
		Reason:   used.Reason,
	}, nil
}

// computeFeatures runs the analyzers and assembles the read-only feature
// set for the post. Feature computation always precedes the strategy pick.
func (p *Pipeline) computeFeatures(ctx context.Context, post *types.Post) types.Features {
	ctxRes := p.contexts.Analyze(post.Text)
	ext := p.entities.Extract(post, ctxRes)
	sentiment, _ := p.sentiment.Classify(post.Text)

	features := types.Features{
		IsPriceQuestion:      ext.IsPriceQuestion,
		IsInvestmentQuestion: ext.IsInvestmentQuestion,
		CardEntities:         ext.Entities,
		HasImages:            post.HasMedia(),
		ThreadDepth:          post.ThreadDepth,
		Sentiment:            sentiment,
		IsShowingOff:         ext.IsShowingOff,
		ContextCategory:      ctxRes.Primary,
		NumbersAllowed:       ext.NumbersAllowed,
	}
	features.HasStats = p.marketDataAvailable(ctx, features)
	features.ValueScore = p.scorer.ValueScore(post, ext, ctxRes)

	return features
}

// marketDataAvailable probes the oracle for the primary entity. Only
// price questions warrant the lookup; the cache makes the composer's
// second query cheap.
func (p *Pipeline) marketDataAvailable(ctx context.Context, f types.Features) bool {
	if p.oracle == nil || !f.IsPriceQuestion || len(f.CardEntities) == 0 {
		return false
	}
	e := f.CardEntities[0]
	stats, err := p.oracle.GetStats(ctx, e.Name, e.Set, e.Number)
	if err != nil {
		return false
	}
	return stats.HasAny()
}

// classifyMedia runs the vision classifier when the post has media.
// Failures degrade to no vision result.
func (p *Pipeline) classifyMedia(ctx context.Context, post *types.Post) *types.VisionResult {
	if p.vision == nil || !post.HasMedia() {
		return nil
	}
	res, err := p.vision.Classify(ctx, post)
	if err != nil {
		p.logger.Warn("vision classification failed", zap.String("post_id", post.ID), zap.Error(err))
		return nil
	}
	return res
}

// veto records a hard-gate abstention. No features appear in the trace.
func (p *Pipeline) veto(post *types.Post, reason string) (*Decision, error) {
	if err := p.record(post, nil, nil, "", types.OutcomeVetoed, reason); err != nil {
		return nil, err
	}
	return &Decision{Action: types.ActionSkip, Reason: reason}, nil
}

// skip records a non-veto abstention with whatever was computed.
func (p *Pipeline) skip(post *types.Post, f *types.Features, strat *types.Strategy, reason string) (*Decision, error) {
	if err := p.record(post, f, strat, "", types.OutcomeSkipped, reason); err != nil {
		return nil, err
	}
	return &Decision{Action: types.ActionSkip, Features: f, Strategy: strat, Reason: reason}, nil
}

func (p *Pipeline) record(post *types.Post, f *types.Features, strat *types.Strategy, response string, outcome types.Outcome, reason string) error {
	if p.tracer == nil {
		return nil
	}
	return p.tracer.Record(&types.DecisionTrace{
		PostID:   post.ID,
		Author:   post.Author,
		Features: f,
		Strategy: strat,
		Response: response,
		Outcome:  outcome,
		Reason:   reason,
	})
}

// generatorBacked reports whether a strategy's text came from a free-form
// generator rather than a curated template or fact table.
func generatorBacked(kind types.StrategyKind) bool {
	switch kind {
	case types.StrategyThreadAware, types.StrategyHumanLike, types.StrategyFallback:
		return true
	}
	return false
}

// allowedClaims collects the domain terms the response may assert.
func allowedClaims(f types.Features, visRes *types.VisionResult) []string {
	var claims []string
	for _, e := range f.CardEntities {
		claims = append(claims, e.Name)
		if e.Set != "" {
			claims = append(claims, e.Set)
		}
	}
	for _, c := range vision.ConfirmedCards(visRes) {
		claims = append(claims, c.Name)
		if c.Set != "" {
			claims = append(claims, c.Set)
		}
	}
	return claims
}
