package finnhub

import (
	"context"
	"encoding/json"
	"fmt"

	"stockfetcher/internal/stock"
)

// earningsTrendSize is how many of the most recent quarters are kept.
const earningsTrendSize = 3

// SentimentAdapter reports the recent EPS surprises and the latest analyst
// recommendation counts, both passed through as JSON.
type SentimentAdapter struct {
	client *Client
}

// NewSentimentAdapter creates the analyst sentiment adapter
func NewSentimentAdapter(client *Client) *SentimentAdapter {
	return &SentimentAdapter{client: client}
}

// Name implements fetcher.Adapter
func (a *SentimentAdapter) Name() string {
	return "finnhub"
}

// Fetch reads both endpoints independently and fails only when both do.
// Empty lists leave the fields null.
func (a *SentimentAdapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	var rec stock.Partial

	earnings, earningsErr := a.client.list(ctx, "/stock/earnings", ticker, nil)
	if earningsErr == nil {
		for i, entry := range earnings.Array() {
			if i == earningsTrendSize {
				break
			}
			rec.EPSTrend = append(rec.EPSTrend, json.RawMessage(entry.Raw))
		}
	} else {
		a.client.logger.Debug("earnings unavailable", "ticker", ticker, "error", earningsErr)
	}

	recs, recErr := a.client.list(ctx, "/stock/recommendation", ticker, nil)
	if recErr == nil {
		if latest := recs.Get("0"); latest.IsObject() {
			rec.Recommendation = json.RawMessage(latest.Raw)
		}
	} else {
		a.client.logger.Debug("recommendation unavailable", "ticker", ticker, "error", recErr)
	}

	if earningsErr != nil && recErr != nil {
		return stock.Partial{}, fmt.Errorf("earnings: %w; recommendation: %w", earningsErr, recErr)
	}
	return rec, nil
}
