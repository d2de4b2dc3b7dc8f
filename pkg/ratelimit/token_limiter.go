package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// TokenLimiter paces model token spend to a per-minute budget.
type TokenLimiter struct {
	limit   int
	limiter *rate.Limiter
}

// NewTokenLimiter creates a limiter allowing tokensPerMinute. A non-positive limit disables limiting.
func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	l := &TokenLimiter{limit: tokensPerMinute}
	if tokensPerMinute > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(float64(tokensPerMinute)/60), tokensPerMinute)
	}
	return l
}

// Wait blocks until n tokens are available or ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if l.limiter == nil {
		return nil
	}
	if n > l.limit {
		return fmt.Errorf("requested %d tokens exceeds limit of %d per minute", n, l.limit)
	}
	return l.limiter.WaitN(ctx, n)
}

// GetRemaining returns how many tokens can be spent right now.
func (l *TokenLimiter) GetRemaining() int {
	return l.remainingAt(time.Now())
}

func (l *TokenLimiter) remainingAt(t time.Time) int {
	if l.limiter == nil {
		return 0
	}
	tokens := l.limiter.TokensAt(t)
	if tokens < 0 {
		return 0
	}
	return int(tokens)
}
