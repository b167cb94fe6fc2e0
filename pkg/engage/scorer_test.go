package engage

import (
	"testing"
	"time"

	"github.com/cardpulse/card-bot/pkg/analysis"
	"github.com/cardpulse/card-bot/pkg/types"
)

func TestBucket_Deterministic(t *testing.T) {
	a := Bucket("pokefan_sarah", "pulled a moonbreon today")
	b := Bucket("pokefan_sarah", "pulled a moonbreon today")
	if a != b {
		t.Fatalf("same input must bucket identically: %d != %d", a, b)
	}
	if a < 0 || a >= 100 {
		t.Fatalf("bucket out of range: %d", a)
	}

	// Input changes must be able to move the bucket; a constant hash would
	// collapse every post into one band slot.
	moved := false
	for _, text := range []string{"a", "b", "c", "d", "pulled a moonbreon yesterday"} {
		if Bucket("pokefan_sarah", text) != a {
			moved = true
			break
		}
	}
	if !moved {
		t.Error("bucket never changed across inputs")
	}
}

func TestValueScore_AllSignals(t *testing.T) {
	s := NewScorer(DefaultConfig(), NewReplyLimiter(0, 1000))

	post := &types.Post{
		Author:       "pokefan_sarah",
		Text:         "How much is my moonbreon worth? Fresh pull!",
		HasImages:    true,
		TimestampAge: 5 * time.Minute,
	}
	ext := analysis.Extraction{
		IsPriceQuestion: true,
		Entities:        []types.Entity{{Name: "Umbreon VMAX", Type: types.EntitySpecific}},
	}
	ctx := analysis.ContextResult{Primary: types.CategoryPokemonTCG}

	// price question w/ entity (3) + recent (2) + media (1) + quality (1) + category (1)
	if got := s.ValueScore(post, ext, ctx); got != 8 {
		t.Fatalf("expected full score 8, got %d", got)
	}

	// An old text-only post in an off-topic category scores only on quality.
	cold := &types.Post{Author: "x", Text: "thinking about reorganizing my shelf layout", TimestampAge: 2 * time.Hour}
	if got := s.ValueScore(cold, analysis.Extraction{}, analysis.ContextResult{Primary: types.CategoryPersonalSocial}); got != 0 {
		t.Fatalf("expected 0 for cold off-topic post, got %d", got)
	}
}

func TestQuality_Signals(t *testing.T) {
	s := NewScorer(DefaultConfig(), NewReplyLimiter(0, 1000))

	tests := []struct {
		name string
		post types.Post
		want float64
	}{
		{"base", types.Post{Text: "a plain post about card sleeves"}, 0.5},
		{"media and question", types.Post{Text: "what do you think of this centering?", HasImages: true}, 0.75},
		{"reply form", types.Post{Text: "@someone yeah that one is really nice"}, 0.35},
		{"short", types.Post{Text: "nice card"}, 0.35},
		{"hashtag spam", types.Post{Text: "look #pokemon #tcg #cards #pulls #rare wow"}, 0.3},
		{"follow bait", types.Post{Text: "follow me for daily pack openings and giveaways"}, 0.25},
	}

	const eps = 1e-9
	for _, tt := range tests {
		got := s.Quality(&tt.post)
		if got < tt.want-eps || got > tt.want+eps {
			t.Errorf("%s: Quality = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestDecide_RedFlagWins(t *testing.T) {
	s := NewScorer(DefaultConfig(), NewReplyLimiter(0, 1000))

	d := s.Decide(&types.Post{Author: "a", Text: "anything"}, true, time.Now())
	if d.Action != types.ActionSkip || d.Reason != "red flag" {
		t.Fatalf("expected red-flag skip, got %s/%s", d.Action, d.Reason)
	}
}

func TestDecide_CooldownAfterHourlyCap(t *testing.T) {
	limiter := NewReplyLimiter(time.Second, 15)
	s := NewScorer(DefaultConfig(), limiter)
	now := time.Now()

	for i := 0; i < 15; i++ {
		s.RecordReply(now.Add(time.Duration(i) * time.Minute))
	}

	d := s.Decide(&types.Post{Author: "a", Text: "is this worth grading? great pull"}, false, now.Add(16*time.Minute))
	if d.Action != types.ActionSkip {
		t.Fatalf("expected skip at cap, got %s", d.Action)
	}
	if d.Reason != "cooldown" {
		t.Errorf("expected cooldown reason, got %q", d.Reason)
	}
}

func TestDecide_Deterministic(t *testing.T) {
	post := &types.Post{
		Author:    "pokefan_sarah",
		Text:      "just pulled this, what do you all think? so happy",
		HasImages: true,
	}

	var first types.EngagementDecision
	for i := 0; i < 5; i++ {
		s := NewScorer(DefaultConfig(), NewReplyLimiter(0, 1000))
		d := s.Decide(post, false, time.Now())
		if i == 0 {
			first = d
			continue
		}
		if d.Action != first.Action {
			t.Fatalf("same post must decide identically: %s != %s", d.Action, first.Action)
		}
	}
}

func TestDecide_BandConfidence(t *testing.T) {
	s := NewScorer(DefaultConfig(), NewReplyLimiter(0, 1000))

	// Media + question lands in the high band.
	high := s.Decide(&types.Post{Author: "a", Text: "what would this grade at? clean corners", HasImages: true}, false, time.Now())
	if high.Confidence != types.ConfidenceHigh {
		t.Errorf("expected high band confidence, got %s", high.Confidence)
	}

	// A bare statement sits at the base quality, in the low band.
	low := s.Decide(&types.Post{Author: "a", Text: "a plain post about card sleeves"}, false, time.Now())
	if low.Confidence != types.ConfidenceLow {
		t.Errorf("expected low band confidence, got %s", low.Confidence)
	}
}
