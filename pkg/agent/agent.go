// Package agent implements the bot's main loop: fetch candidate posts,
// run each through the decision pipeline, and act on the results.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/driver"
	"github.com/cardpulse/card-bot/pkg/pipeline"
	"github.com/cardpulse/card-bot/pkg/types"
)

// Agent polls the page driver and feeds posts through the pipeline one at
// a time. Posts are fully decided, acted on, and traced sequentially.
type Agent struct {
	mu sync.Mutex

	driver   driver.PageDriver
	pipeline *pipeline.Pipeline
	logger   *zap.Logger

	query        string
	pollInterval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// Config holds agent configuration.
type Config struct {
	Driver       driver.PageDriver
	Pipeline     *pipeline.Pipeline
	Logger       *zap.Logger
	Query        string
	PollInterval time.Duration
}

// New creates an agent with the given configuration.
func New(cfg Config) *Agent {
	ctx, cancel := context.WithCancel(context.Background())

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		driver:       cfg.Driver,
		pipeline:     cfg.Pipeline,
		logger:       logger,
		query:        cfg.Query,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the agent's main loop.
func (a *Agent) Start() error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("agent already running")
	}
	a.running = true
	a.mu.Unlock()

	go a.run()
	return nil
}

// Stop stops the agent.
func (a *Agent) Stop() error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return fmt.Errorf("agent not running")
	}
	a.running = false
	a.mu.Unlock()

	a.cancel()
	return nil
}

// run is the main event loop.
func (a *Agent) run() {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	a.sweep()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

// sweep fetches one batch of candidates and processes them in order.
func (a *Agent) sweep() {
	posts, err := a.driver.FetchCandidatePosts(a.ctx, a.query)
	if err != nil {
		a.logger.Warn("fetching candidates failed", zap.Error(err))
		return
	}
	a.logger.Info("fetched candidates", zap.Int("count", len(posts)))

	for _, post := range posts {
		if a.ctx.Err() != nil {
			return
		}
		a.processOne(post)
	}
}

// processOne runs a single post through the pipeline and performs the
// resulting action. Failures to act are logged and dropped; there is no
// user-visible error surface.
func (a *Agent) processOne(post *types.Post) {
	decision, err := a.pipeline.Process(a.ctx, post)
	if err != nil {
		a.logger.Error("pipeline failed", zap.String("post_id", post.ID), zap.Error(err))
		return
	}

	switch decision.Action {
	case types.ActionReply:
		if err := a.driver.PostReply(a.ctx, post.ID, decision.Response); err != nil {
			a.logger.Warn("reply failed", zap.String("post_id", post.ID), zap.Error(err))
			return
		}
		a.logger.Info("replied",
			zap.String("post_id", post.ID),
			zap.String("strategy", string(decision.Strategy.Kind)),
			zap.String("text", decision.Response))
	case types.ActionLike:
		if err := a.driver.LikePost(a.ctx, post.ID); err != nil {
			a.logger.Warn("like failed", zap.String("post_id", post.ID), zap.Error(err))
			return
		}
		a.logger.Info("liked", zap.String("post_id", post.ID))
	default:
		a.logger.Debug("skipped",
			zap.String("post_id", post.ID),
			zap.String("reason", decision.Reason))
	}
}
