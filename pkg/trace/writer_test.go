package trace

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cardpulse/card-bot/pkg/types"
)

func TestLogger_AppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	rec := &types.DecisionTrace{
		PostID:  "post-1",
		Author:  "pokefan_sarah",
		Outcome: types.OutcomeReplied,
		Strategy: &types.Strategy{
			Kind:       types.StrategyPrice,
			Confidence: types.ConfidenceHigh,
		},
		Response: "Umbreon VMAX has been moving, up 4% over the last 7d",
	}
	if err := l.Record(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected ID to be filled")
	}
	if rec.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled")
	}

	if err := l.Record(&types.DecisionTrace{PostID: "post-2", Outcome: types.OutcomeVetoed, Reason: "scam pattern"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("reading log back: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var got types.DecisionTrace
		if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 records, got %d", lines)
	}
}

func TestLogger_AppendAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")

	for i := 0; i < 2; i++ {
		l, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := l.Record(&types.DecisionTrace{PostID: "p", Outcome: types.OutcomeSkipped}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}

	stats, err := ReadStats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected reopen to append, got %d records", stats.Total)
	}
}

func TestReadStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	records := []*types.DecisionTrace{
		{PostID: "1", Outcome: types.OutcomeReplied,
			Strategy: &types.Strategy{Kind: types.StrategyPrice},
			Response: "moving, up 4% over the last 7d"},
		{PostID: "2", Outcome: types.OutcomeReplied,
			Strategy: &types.Strategy{Kind: types.StrategyPrice},
			Response: "that one has been quiet lately"},
		{PostID: "3", Outcome: types.OutcomeVetoed, Reason: "scam pattern"},
		{PostID: "4", Outcome: types.OutcomeLiked},
	}
	for _, r := range records {
		if err := l.Record(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats, err := ReadStats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total: got %d", stats.Total)
	}
	if stats.ByOutcome[string(types.OutcomeReplied)] != 2 {
		t.Errorf("replied count: got %d", stats.ByOutcome[string(types.OutcomeReplied)])
	}
	if stats.ByStrategy[string(types.StrategyPrice)] != 2 {
		t.Errorf("price strategy count: got %d", stats.ByStrategy[string(types.StrategyPrice)])
	}
	if stats.PriceResponses != 2 || stats.PriceWithStats != 1 {
		t.Errorf("price stat usage: %d/%d", stats.PriceWithStats, stats.PriceResponses)
	}
	if rate := stats.PriceStatRate(); rate != 0.5 {
		t.Errorf("price stat rate: got %f", rate)
	}
}

func TestReadStats_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.jsonl")
	content := `{"post_id":"1","outcome":"replied"}` + "\nnot json at all\n" + `{"post_id":"2","outcome":"skipped"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stats, err := ReadStats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected malformed line skipped, got %d records", stats.Total)
	}
}
