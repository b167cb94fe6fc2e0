package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/agent"
	"github.com/cardpulse/card-bot/pkg/compose"
	"github.com/cardpulse/card-bot/pkg/config"
	"github.com/cardpulse/card-bot/pkg/driver"
	"github.com/cardpulse/card-bot/pkg/engage"
	"github.com/cardpulse/card-bot/pkg/llm"
	"github.com/cardpulse/card-bot/pkg/pipeline"
	"github.com/cardpulse/card-bot/pkg/pricing"
	"github.com/cardpulse/card-bot/pkg/profile"
	"github.com/cardpulse/card-bot/pkg/sanitize"
	"github.com/cardpulse/card-bot/pkg/store"
	"github.com/cardpulse/card-bot/pkg/trace"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	postsPath := flag.String("posts", "", "JSONL feed of candidate posts (overrides data dir default)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}

	ctx := context.Background()

	generator := buildGenerator(ctx, cfg, logger)

	tracer, err := trace.Open(cfg.Data.TracePath)
	if err != nil {
		logger.Fatal("failed to open decision log", zap.Error(err))
	}
	defer tracer.Close()

	profileStore, err := store.Open(cfg.Data.StorePath)
	if err != nil {
		logger.Fatal("failed to open profile store", zap.Error(err))
	}
	defer profileStore.Close()

	oracle := pricing.NewCache(pricing.NewStatic(nil), cfg.Data.Dir, 6*time.Hour)
	if err := oracle.Load(); err != nil {
		logger.Warn("failed to load market cache", zap.Error(err))
	}
	defer oracle.Save()

	limiter := engage.NewReplyLimiter(cfg.Engage.MinReplyInterval, cfg.Engage.HourlyReplyCap)
	scorer := engage.NewScorer(scorerConfig(cfg), limiter)
	memory := compose.NewResponseMemory(cfg.Bot.MemoryWindow, cfg.Bot.DedupThreshold)
	profiles := profile.NewRepository(profileStore)

	composer := compose.New(compose.Config{
		Knowledge:   compose.NewKnowledgeBase(),
		Oracle:      oracle,
		Generator:   generator,
		Memory:      memory,
		Logger:      logger,
		SessionSeed: time.Now().UTC().Format("2006-01-02"),
		MaxRerolls:  cfg.Bot.MaxRerolls,
	})

	pipe := pipeline.New(pipeline.Config{
		Scorer:    scorer,
		Composer:  composer,
		Memory:    memory,
		Sanitizer: sanitize.New(cfg.Bot.CharacterLimit),
		Tracer:    tracer,
		Oracle:    oracle,
		Profiles:  profiles,
		Logger:    logger,
	})

	feedPath := *postsPath
	if feedPath == "" {
		feedPath = filepath.Join(cfg.Data.Dir, "feed.jsonl")
	}
	pageDriver := driver.NewReplayDriver(feedPath, logger)

	a := agent.New(agent.Config{
		Driver:       pageDriver,
		Pipeline:     pipe,
		Logger:       logger,
		Query:        cfg.Bot.Query,
		PollInterval: cfg.Bot.PollInterval,
	})
	if err := a.Start(); err != nil {
		logger.Fatal("failed to start agent", zap.Error(err))
	}
	logger.Info("agent started",
		zap.String("query", cfg.Bot.Query),
		zap.Duration("poll_interval", cfg.Bot.PollInterval))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := a.Stop(); err != nil {
		logger.Warn("agent stop", zap.Error(err))
	}
}

// buildGenerator assembles the generator chain: hosted Gemini first when a
// key is available, then a local OpenAI-compatible endpoint, then static
// templates so composition never fully fails.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) llm.Generator {
	var chain []llm.Generator

	if cfg.Gemini.APIKey != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		gemini, err := llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			logger.Warn("gemini unavailable", zap.Error(err))
		} else {
			logger.Info("gemini generator ready", zap.String("model", gemini.Model()))
			chain = append(chain, llm.NewRetrying(gemini, 3, time.Second))
		}
	}

	if cfg.Local.BaseURL != "" {
		chain = append(chain, llm.NewLocalGenerator(llm.LocalConfig{
			BaseURL:     cfg.Local.BaseURL,
			Model:       cfg.Local.Model,
			MaxTokens:   cfg.Local.MaxTokens,
			Temperature: cfg.Local.Temperature,
		}))
	}

	chain = append(chain, llm.NewStaticGenerator(nil))
	return llm.NewChain(chain...)
}

func scorerConfig(cfg *config.Config) engage.Config {
	return engage.Config{
		RecentAge:        cfg.Engage.RecentAge,
		QualityThreshold: cfg.Engage.QualityThreshold,
		HighBand:         engage.Band{ReplyPct: cfg.Engage.HighReplyPct, LikePct: cfg.Engage.HighLikePct},
		MediumBand:       engage.Band{ReplyPct: cfg.Engage.MediumReplyPct, LikePct: cfg.Engage.MediumLikePct},
		LowBand:          engage.Band{ReplyPct: cfg.Engage.LowReplyPct, LikePct: cfg.Engage.LowLikePct},
	}
}
