// Package llm provides text generator implementations and the retry and
// failover machinery around them.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Generator produces a response given a prompt. An empty string with a nil
// error means the generator declined to produce text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Error taxonomy. Transient failures are retried with backoff; permanent
// failures immediately fail over to the next resource.
var (
	// ErrTransient marks a temporarily-overloaded service or timeout.
	ErrTransient = errors.New("transient generator failure")

	// ErrPermanent marks quota exhaustion or an invalid credential.
	ErrPermanent = errors.New("permanent generator failure")
)

// Transient wraps err as a retryable failure.
func Transient(err error) error {
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Permanent wraps err as a non-retryable failure.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Retrying wraps a generator with bounded exponential backoff on transient
// failures. Permanent failures are returned immediately without consuming
// the retry budget.
type Retrying struct {
	inner       Generator
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetrying wraps gen with up to maxAttempts tries, doubling the delay
// between attempts starting from baseDelay.
func NewRetrying(gen Generator, maxAttempts int, baseDelay time.Duration) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrying{inner: gen, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

// Generate calls the inner generator, retrying transient failures.
func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	delay := r.baseDelay
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		text, err := r.inner.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !errors.Is(err, ErrTransient) {
			return "", err
		}
	}

	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

// Chain tries each generator in order, failing over on any error.
// The first generator to return text wins.
type Chain struct {
	generators []Generator
}

// NewChain creates a failover chain over the given generators.
func NewChain(generators ...Generator) *Chain {
	return &Chain{generators: generators}
}

// Generate walks the chain until a generator produces text.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, g := range c.generators {
		text, err := g.Generate(ctx, prompt)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("all generators failed: %w", lastErr)
	}
	return "", nil
}
