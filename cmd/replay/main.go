// Command replay runs a recorded feed through the decision pipeline with
// deterministic backends and prints each decision. Useful for tuning gates
// and strategy rules without touching a live page or a hosted model.
package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/compose"
	"github.com/cardpulse/card-bot/pkg/driver"
	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/llm"
	"github.com/cardpulse/card-bot/pkg/pipeline"
	"github.com/cardpulse/card-bot/pkg/pricing"
	"github.com/cardpulse/card-bot/pkg/sanitize"
	"github.com/cardpulse/card-bot/pkg/trace"
	"github.com/cardpulse/card-bot/pkg/types"
)

func main() {
	postsPath := flag.String("posts", "data/feed.jsonl", "JSONL feed of posts to replay")
	tracePath := flag.String("trace", "", "optional decision log output (JSONL)")
	seed := flag.String("seed", "replay", "session seed for deterministic template picks")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	var tracer *trace.Logger
	if *tracePath != "" {
		var err error
		tracer, err = trace.Open(*tracePath)
		if err != nil {
			logger.Fatal("failed to open decision log", zap.Error(err))
		}
		defer tracer.Close()
	}

	oracle := pricing.NewStatic(sampleStats())
	memory := compose.NewResponseMemory(20, 0.72)
	limiter := engage.NewReplyLimiter(0, 1<<30) // rate limits off for replay
	scorer := engage.NewScorer(engage.DefaultConfig(), limiter)

	composer := compose.New(compose.Config{
		Knowledge:   compose.NewKnowledgeBase(),
		Oracle:      oracle,
		Generator:   llm.NewStaticGenerator(nil),
		Memory:      memory,
		Logger:      logger,
		SessionSeed: *seed,
	})

	pipe := pipeline.New(pipeline.Config{
		Scorer:    scorer,
		Composer:  composer,
		Memory:    memory,
		Sanitizer: sanitize.New(0),
		Tracer:    tracer,
		Oracle:    oracle,
		Logger:    logger,
	})

	posts, err := readPosts(*postsPath, logger)
	if err != nil {
		logger.Fatal("failed to read feed", zap.Error(err))
	}

	ctx := context.Background()
	for _, post := range posts {
		decision, err := pipe.Process(ctx, post)
		if err != nil {
			logger.Error("pipeline error", zap.String("post", post.ID), zap.Error(err))
			continue
		}
		printDecision(post, decision)
	}
}

func readPosts(path string, logger *zap.Logger) ([]*types.Post, error) {
	d := driver.NewReplayDriver(path, logger)
	return d.FetchCandidatePosts(context.Background(), "")
}

func printDecision(post *types.Post, d *pipeline.Decision) {
	fmt.Printf("[%s] @%s: %s\n", post.ID, post.Author, truncateText(post.Text, 60))
	fmt.Printf("  action=%s reason=%q\n", d.Action, d.Reason)
	if d.Strategy != nil {
		fmt.Printf("  strategy=%s confidence=%s\n", d.Strategy.Kind, d.Strategy.Confidence)
	}
	if d.Response != "" {
		fmt.Printf("  reply: %s\n", d.Response)
	}
	fmt.Println()
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// sampleStats seeds the static oracle so price strategy paths are
// exercisable from a recorded feed.
func sampleStats() map[string]*types.PriceStats {
	last := 480.0
	change7 := 4.2
	return map[string]*types.PriceStats{
		"Umbreon VMAX": {LastSoldUSD: &last, Change7dPct: &change7},
	}
}
