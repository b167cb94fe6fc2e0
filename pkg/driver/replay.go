package driver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/cardpulse/card-bot/pkg/types"
)

// ReplayDriver reads captured posts from a JSONL file and records actions
// locally instead of performing them. Used by cmd/replay.
type ReplayDriver struct {
	mu sync.Mutex

	path    string
	logger  *zap.Logger
	Replies map[string]string
	Likes   map[string]bool
}

// NewReplayDriver creates a replay driver over a capture file.
func NewReplayDriver(path string, logger *zap.Logger) *ReplayDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayDriver{
		path:    path,
		logger:  logger,
		Replies: make(map[string]string),
		Likes:   make(map[string]bool),
	}
}

// FetchCandidatePosts reads every post from the capture file. The query is
// ignored; the capture already reflects one.
func (d *ReplayDriver) FetchCandidatePosts(_ context.Context, _ string) ([]*types.Post, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	var posts []*types.Post
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var post types.Post
		if err := json.Unmarshal(raw, &post); err != nil {
			d.logger.Warn("skipping malformed capture line",
				zap.Int("line", line), zap.Error(err))
			continue
		}
		posts = append(posts, &post)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading capture file: %w", err)
	}
	return posts, nil
}

// PostReply records the reply locally.
func (d *ReplayDriver) PostReply(_ context.Context, postID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Replies[postID] = text
	d.logger.Info("replay reply", zap.String("post_id", postID), zap.String("text", text))
	return nil
}

// LikePost records the like locally.
func (d *ReplayDriver) LikePost(_ context.Context, postID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Likes[postID] = true
	d.logger.Info("replay like", zap.String("post_id", postID))
	return nil
}
