package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIAlphaVantage represents the AlphaVantage API
	APIAlphaVantage API = "alphavantage"
	// APIYahoo represents the Yahoo Finance API
	APIYahoo API = "yahoo"
	// APIFinnhub represents the Finnhub API
	APIFinnhub API = "finnhub"
)

// Limit is a request budget for one API.
type Limit struct {
	// PerMinute is the sustained request rate. Zero or less disables limiting.
	PerMinute float64
	// Burst is how many requests may be issued back to back.
	Burst int
}

// Limiter manages rate limits for different APIs.
// A nil *Limiter allows everything.
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

// New returns a limiter enforcing the given budgets. APIs without a budget
// are not limited.
func New(limits map[API]Limit) *Limiter {
	l := &Limiter{
		limiters: make(map[API]*rate.Limiter, len(limits)),
	}
	for api, lim := range limits {
		l.Set(api, lim)
	}
	return l
}

// Unlimited returns a limiter that never delays, for tests and local runs.
func Unlimited() *Limiter {
	return New(nil)
}

// Set replaces the budget for api.
func (l *Limiter) Set(api API, lim Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim.PerMinute <= 0 {
		delete(l.limiters, api)
		return
	}
	burst := lim.Burst
	if burst <= 0 {
		burst = 1
	}
	l.limiters[api] = rate.NewLimiter(rate.Limit(lim.PerMinute/60.0), burst)
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	limiter := l.get(api)
	if limiter == nil {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	limiter := l.get(api)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (l *Limiter) get(api API) *rate.Limiter {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.limiters[api]
}
