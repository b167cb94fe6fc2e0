// Package types defines core types for the card-bot decision pipeline.
package types

import "time"

// Post is the immutable input unit captured by the page driver.
type Post struct {
	ID             string        `json:"id"`
	Author         string        `json:"author"`
	Text           string        `json:"text"`
	HasImages      bool          `json:"has_images"`
	HasVideo       bool          `json:"has_video"`
	TimestampAge   time.Duration `json:"timestamp_age"` // age of the post at capture time
	ThreadDepth    int           `json:"thread_depth"`
	ThreadMessages []string      `json:"thread_messages,omitempty"`
}

// HasMedia reports whether the post carries any image or video.
func (p *Post) HasMedia() bool {
	return p.HasImages || p.HasVideo
}

// ThreadText returns the full captured thread text, including the post itself.
func (p *Post) ThreadText() string {
	text := p.Text
	for _, m := range p.ThreadMessages {
		text += "\n" + m
	}
	return text
}

// Sentiment is the coarse sentiment classification of a post.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Confidence is a coarse confidence level attached to gate and strategy decisions.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Category is a topic classification for a post.
type Category string

const (
	CategoryPokemonTCG     Category = "pokemon_tcg"
	CategoryVideoGame      Category = "video_game"
	CategoryFanArt         Category = "fan_art"
	CategoryAnime          Category = "anime"
	CategoryMerchandise    Category = "merchandise"
	CategoryPersonalSocial Category = "personal_social"
	CategorySales          Category = "sales"
	CategoryUnknown        Category = "unknown"
)

// EntityType distinguishes a specific named card from a generic detection.
type EntityType string

const (
	EntitySpecific EntityType = "specific"
	EntityGeneric  EntityType = "generic"
)

// Entity is a recognized collectible card, possibly qualified by set and number.
type Entity struct {
	Name     string     `json:"name"`
	Set      string     `json:"set,omitempty"`
	Number   string     `json:"number,omitempty"`
	Language string     `json:"language,omitempty"`
	Rarity   string     `json:"rarity,omitempty"`
	Type     EntityType `json:"type"`
}

// Features holds everything derived from a post that the strategy picker
// and composer read. Computed once per post, read-only afterwards.
type Features struct {
	IsPriceQuestion      bool      `json:"is_price_question"`
	IsInvestmentQuestion bool      `json:"is_investment_question"`
	CardEntities         []Entity  `json:"card_entities,omitempty"`
	HasStats             bool      `json:"has_stats"`
	HasImages            bool      `json:"has_images"`
	ValueScore           int       `json:"value_score"`
	ThreadDepth          int       `json:"thread_depth"`
	Sentiment            Sentiment `json:"sentiment"`
	IsShowingOff         bool      `json:"is_showing_off"`
	ContextCategory      Category  `json:"context_category"`
	NumbersAllowed       bool      `json:"numbers_allowed"`
}

// StrategyKind names a response-generation approach.
type StrategyKind string

const (
	StrategyPrice       StrategyKind = "price"
	StrategyVisual      StrategyKind = "visual"
	StrategyAuthority   StrategyKind = "authority"
	StrategyThreadAware StrategyKind = "thread_aware"
	StrategyHumanLike   StrategyKind = "human_like"
	StrategyFallback    StrategyKind = "fallback"
)

// Strategy is the chosen response approach for a post.
type Strategy struct {
	Kind       StrategyKind `json:"kind"`
	Confidence Confidence   `json:"confidence"`
	Reason     string       `json:"reason"`
}

// GateResult is the outcome of a hard gate (anti-scam, sentiment).
type GateResult struct {
	Skip       bool       `json:"skip"`
	Reason     string     `json:"reason"`
	Confidence Confidence `json:"confidence"`
	RedFlags   int        `json:"red_flags,omitempty"`
}

// EngagementAction is what the bot decides to do with a post.
type EngagementAction string

const (
	ActionReply EngagementAction = "reply"
	ActionLike  EngagementAction = "like"
	ActionSkip  EngagementAction = "skip"
)

// EngagementDecision is the engagement scorer's verdict for a post.
type EngagementDecision struct {
	Action     EngagementAction `json:"action"`
	Confidence Confidence       `json:"confidence"`
	Reason     string           `json:"reason"`
}

// PriceStats is what the pricing oracle returns for a resolved entity.
// All fields are optional; a nil result means no market data.
type PriceStats struct {
	Change7dPct        *float64 `json:"change_7d_pct,omitempty"`
	Change30dPct       *float64 `json:"change_30d_pct,omitempty"`
	LastSoldUSD        *float64 `json:"last_sold_usd,omitempty"`
	PopulationDelta30d *int     `json:"population_delta_30d,omitempty"`
}

// HasAny reports whether at least one stat is present.
func (s *PriceStats) HasAny() bool {
	if s == nil {
		return false
	}
	return s.Change7dPct != nil || s.Change30dPct != nil || s.LastSoldUSD != nil || s.PopulationDelta30d != nil
}

// VisionCard is a single card detection from the vision classifier.
type VisionCard struct {
	Name       string  `json:"name"`
	Set        string  `json:"set,omitempty"`
	Confidence float64 `json:"confidence"`
}

// VisionResult is the vision classifier's output for a post's media.
type VisionResult struct {
	Cards         []VisionCard `json:"cards,omitempty"`
	IsEventPoster bool         `json:"is_event_poster"`
	IsFanArt      bool         `json:"is_fan_art"`
	ContentType   string       `json:"content_type,omitempty"`
	FromVideo     bool         `json:"from_video"`
}

// Outcome labels a decision-trace record.
type Outcome string

const (
	OutcomeReplied Outcome = "replied"
	OutcomeLiked   Outcome = "liked"
	OutcomeSkipped Outcome = "skipped"
	OutcomeVetoed  Outcome = "vetoed"
)

// DecisionTrace is one append-only record of a pipeline decision.
// Records are write-once; readers must treat absent fields as optional.
type DecisionTrace struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    string    `json:"post_id"`
	Author    string    `json:"author,omitempty"`
	Features  *Features `json:"features,omitempty"`
	Strategy  *Strategy `json:"strategy,omitempty"`
	Response  string    `json:"response,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
}
