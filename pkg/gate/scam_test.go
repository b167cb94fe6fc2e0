package gate

import (
	"testing"

	"github.com/cardpulse/card-bot/pkg/types"
)

func TestScamGate_PatternVeto(t *testing.T) {
	g := NewScamGate()

	res := g.Check("Moonbreon $450 f&f only, dm to buy", "94837261")
	if !res.Skip {
		t.Fatal("expected veto for payment-bypass listing")
	}
	if res.Confidence != types.ConfidenceHigh {
		t.Errorf("expected high confidence, got %s", res.Confidence)
	}
	if res.Reason != "scam pattern: f&f only" {
		t.Errorf("expected first matching pattern in reason, got %q", res.Reason)
	}
}

func TestScamGate_SuspiciousUsername(t *testing.T) {
	g := NewScamGate()

	for _, username := range []string{"94837261", "seller42", "Deals7", "john19283746551"} {
		res := g.Check("check out my binder", username)
		if !res.Skip {
			t.Errorf("expected veto for username %q", username)
		}
		if res.Confidence != types.ConfidenceMedium {
			t.Errorf("username %q: expected medium confidence, got %s", username, res.Confidence)
		}
	}

	if res := g.Check("check out my binder", "pokefan_sarah"); res.Skip {
		t.Errorf("expected normal username to pass, got veto: %s", res.Reason)
	}
}

func TestScamGate_RedFlagAccumulation(t *testing.T) {
	g := NewScamGate()

	// Three weak signals together cross the threshold.
	res := g.Check("dm me, taking offers only, going fast", "collector_mike")
	if !res.Skip {
		t.Fatal("expected veto at three red flags")
	}
	if res.Reason != "red flag threshold reached" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}

	// Two signals alone are not enough to veto, but the count still
	// reaches the caller for downstream scoring.
	res = g.Check("dm me if interested, mint only", "collector_mike")
	if res.Skip {
		t.Errorf("expected two red flags to pass, got veto: %s", res.Reason)
	}
	if res.RedFlags != 2 {
		t.Errorf("expected sub-veto flag count carried through, got %d", res.RedFlags)
	}
}

func TestScamGate_WhitelistWinsOverRedFlags(t *testing.T) {
	g := NewScamGate()

	// Whitelist is checked first, so collection language overrides weak flags.
	res := g.Check("mail day! dm me your grails, binder only, fast shipping stories welcome", "collector_mike")
	if res.Skip {
		t.Errorf("expected whitelist pass, got veto: %s", res.Reason)
	}
}

func TestScamGate_WordBoundaries(t *testing.T) {
	g := NewScamGate()

	// "admin" must not count as a "dm" flag, "fasten" not as "fast".
	if flags := g.countRedFlags("the admin will fasten the case"); flags != 0 {
		t.Errorf("expected 0 red flags from substrings, got %d", flags)
	}
	if flags := g.countRedFlags("dm me, cash only, be fast"); flags != 3 {
		t.Errorf("expected 3 red flags, got %d", flags)
	}
}

func TestScamGate_CleanPost(t *testing.T) {
	g := NewScamGate()

	res := g.Check("Finally pulled the Umbreon VMAX alt art!", "pokefan_sarah")
	if res.Skip {
		t.Fatalf("expected clean post to pass, got veto: %s", res.Reason)
	}
	if res.Reason != "clean" {
		t.Errorf("unexpected reason: %q", res.Reason)
	}
}
