package fetcher

import (
	"context"

	"stockfetcher/internal/stock"
)

// Adapter is the core interface every provider implements. An adapter knows
// how to turn one provider's responses into a partial stock record.
type Adapter interface {
	// Name identifies the provider in logs and source summaries.
	// Examples: alphavantage, alphavantage_technical, yahoo, finnhub
	Name() string

	// Fetch retrieves what the provider knows about ticker. Fields the
	// provider could not supply stay null. A non-nil error means nothing
	// usable came back; the record is discarded in that case.
	Fetch(ctx context.Context, ticker string) (stock.Partial, error)
}
