package engage

import (
	"strings"
	"time"

	"github.com/cardpulse/card-bot/pkg/analysis"
	"github.com/cardpulse/card-bot/pkg/types"
)

// Band is a deterministic probability split for one quality band.
// Percentages; skip takes the remainder.
type Band struct {
	ReplyPct int
	LikePct  int
}

// Config holds the scorer's tunables. The band splits were tuned by trial
// in production; treat them as configuration, not derived constants.
type Config struct {
	RecentAge        time.Duration // a post younger than this counts as recent
	QualityThreshold float64       // quality at or above this adds to the value score
	HighBand         Band          // quality > 0.7
	MediumBand       Band          // quality > 0.5
	LowBand          Band          // everything else
}

// DefaultConfig returns the default scorer configuration.
func DefaultConfig() Config {
	return Config{
		RecentAge:        30 * time.Minute,
		QualityThreshold: 0.6,
		HighBand:         Band{ReplyPct: 80, LikePct: 15},
		MediumBand:       Band{ReplyPct: 50, LikePct: 30},
		LowBand:          Band{ReplyPct: 10, LikePct: 40},
	}
}

// Scorer computes value scores and engagement decisions.
type Scorer struct {
	cfg     Config
	limiter *ReplyLimiter
}

// NewScorer creates a scorer backed by the given rate limiter.
func NewScorer(cfg Config, limiter *ReplyLimiter) *Scorer {
	return &Scorer{cfg: cfg, limiter: limiter}
}

// ValueScore sums the independent weighted engagement signals.
func (s *Scorer) ValueScore(post *types.Post, ext analysis.Extraction, ctx analysis.ContextResult) int {
	score := 0
	if ext.IsPriceQuestion && len(ext.Entities) > 0 {
		score += 3
	}
	if post.TimestampAge <= s.cfg.RecentAge {
		score += 2
	}
	if post.HasMedia() {
		score++
	}
	if s.Quality(post) >= s.cfg.QualityThreshold {
		score++
	}
	if ctx.Primary == types.CategoryPokemonTCG || ctx.Primary == types.CategorySales {
		score++
	}
	return score
}

// Quality computes the continuous 0..1 quality score: base 0.5, boosts for
// media and questions, penalties for reply-form and spam markers. Additive
// weights; clamp then threshold is the defined behavior.
func (s *Scorer) Quality(post *types.Post) float64 {
	q := 0.5

	if post.HasMedia() {
		q += 0.15
	}
	if strings.Contains(post.Text, "?") {
		q += 0.1
	}

	trimmed := strings.TrimSpace(post.Text)
	if strings.HasPrefix(trimmed, "@") {
		q -= 0.15
	}
	if len(trimmed) < 20 {
		q -= 0.15
	}
	if strings.Count(post.Text, "#") > 3 {
		q -= 0.2
	}
	lower := strings.ToLower(post.Text)
	if strings.Contains(lower, "follow me") || strings.Contains(lower, "follow back") {
		q -= 0.25
	}

	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return q
}

// Decide computes the engagement decision for a post. Order: red-flag veto,
// cooldown veto, then the quality band's deterministic split.
func (s *Scorer) Decide(post *types.Post, redFlagged bool, now time.Time) types.EngagementDecision {
	if redFlagged {
		return types.EngagementDecision{
			Action:     types.ActionSkip,
			Confidence: types.ConfidenceHigh,
			Reason:     "red flag",
		}
	}

	if ok, reason := s.limiter.Allow(now); !ok {
		return types.EngagementDecision{
			Action:     types.ActionSkip,
			Confidence: types.ConfidenceHigh,
			Reason:     reason,
		}
	}

	quality := s.Quality(post)

	var band Band
	var confidence types.Confidence
	switch {
	case quality > 0.7:
		band = s.cfg.HighBand
		confidence = types.ConfidenceHigh
	case quality > 0.5:
		band = s.cfg.MediumBand
		confidence = types.ConfidenceMedium
	default:
		band = s.cfg.LowBand
		confidence = types.ConfidenceLow
	}

	bucket := Bucket(post.Author, post.Text)
	switch {
	case bucket < band.ReplyPct:
		return types.EngagementDecision{Action: types.ActionReply, Confidence: confidence, Reason: "quality band"}
	case bucket < band.ReplyPct+band.LikePct:
		return types.EngagementDecision{Action: types.ActionLike, Confidence: confidence, Reason: "quality band"}
	default:
		return types.EngagementDecision{Action: types.ActionSkip, Confidence: confidence, Reason: "quality band"}
	}
}

// RecordReply registers a sent reply with the rate limiter.
func (s *Scorer) RecordReply(now time.Time) {
	s.limiter.Record(now)
}
