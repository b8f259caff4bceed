package httpapi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"mcp-agent/internal/application/port/input"
)

type RetryConfig struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxTries:        3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     10 * time.Second,
	}
}

func (c RetryConfig) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	return b
}

// executeWithRetry runs the agent, retrying failed attempts with exponential
// backoff. Cancellation of ctx stops retrying.
func (s *Server) executeWithRetry(ctx context.Context, query string, opts input.ExecuteOptions) (*input.ExecuteResult, error) {
	attempt := 0
	op := func() (*input.ExecuteResult, error) {
		attempt++
		res, err := s.deps.Executor.Execute(ctx, query, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			s.deps.Logger.Warn("Agent attempt failed", "attempt", attempt, "error", err)
			return nil, err
		}
		return res, nil
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(s.cfg.Retry.backOff()),
		backoff.WithMaxTries(s.cfg.Retry.MaxTries),
	)
}
