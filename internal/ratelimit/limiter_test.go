package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_NilAllowsEverything(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.NoError(t, l.Wait(context.Background(), APIAlphaVantage))
}

func TestLimiter_UnlimitedAPI(t *testing.T) {
	l := New(map[API]Limit{APIAlphaVantage: {PerMinute: 1, Burst: 1}})
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow(APIYahoo))
	}
}

func TestLimiter_Burst(t *testing.T) {
	l := New(map[API]Limit{APIAlphaVantage: {PerMinute: 5, Burst: 2}})

	assert.True(t, l.Allow(APIAlphaVantage))
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.False(t, l.Allow(APIAlphaVantage))
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := New(map[API]Limit{APIFinnhub: {PerMinute: 1, Burst: 1}})
	require.True(t, l.Allow(APIFinnhub))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.Wait(ctx, APIFinnhub)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLimiter_WaitOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Unlimited().Wait(ctx, APIYahoo), context.Canceled)
}

func TestLimiter_SetDisables(t *testing.T) {
	l := New(map[API]Limit{APIYahoo: {PerMinute: 1, Burst: 1}})
	l.Set(APIYahoo, Limit{})
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(APIYahoo))
	}
}
