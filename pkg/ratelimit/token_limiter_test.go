package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiter_WaitConsumesBudget(t *testing.T) {
	l := NewTokenLimiter(6000)

	require.NoError(t, l.Wait(context.Background(), 6000))
	assert.LessOrEqual(t, l.GetRemaining(), 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, 3000), "3000 tokens need ~30s to refill")
}

func TestTokenLimiter_Refills(t *testing.T) {
	l := NewTokenLimiter(60)

	require.NoError(t, l.Wait(context.Background(), 60))
	assert.Equal(t, 30, l.remainingAt(time.Now().Add(30*time.Second)))
	assert.Equal(t, 60, l.remainingAt(time.Now().Add(2*time.Minute)))
}

func TestTokenLimiter_RejectsOversizedRequest(t *testing.T) {
	l := NewTokenLimiter(10)
	assert.Error(t, l.Wait(context.Background(), 11))
}

func TestTokenLimiter_Disabled(t *testing.T) {
	l := NewTokenLimiter(0)
	assert.NoError(t, l.Wait(context.Background(), 1_000_000))
	assert.Equal(t, 0, l.GetRemaining())
}
