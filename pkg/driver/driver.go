// Package driver defines the page driver contract and a JSONL replay
// driver for offline runs.
package driver

import (
	"context"

	"github.com/cardpulse/card-bot/pkg/types"
)

// PageDriver supplies candidate posts and performs platform actions.
// Implementations (browser automation) live outside this repository.
type PageDriver interface {
	FetchCandidatePosts(ctx context.Context, query string) ([]*types.Post, error)
	PostReply(ctx context.Context, postID, text string) error
	LikePost(ctx context.Context, postID string) error
}
