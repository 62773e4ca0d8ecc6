// Package polygon reserves a slot for Polygon.io in the merge order. It does
// not call the API yet and always reports an empty record.
package polygon

import (
	"context"

	"stockfetcher/internal/stock"
)

// Adapter is the Polygon.io placeholder.
type Adapter struct {
	apiKey string
}

// NewAdapter creates the placeholder. The key is kept so wiring does not
// change once the adapter starts querying Polygon.
func NewAdapter(apiKey string) *Adapter {
	return &Adapter{apiKey: apiKey}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string {
	return "polygon"
}

// Fetch implements fetcher.Adapter and returns an empty record.
func (a *Adapter) Fetch(ctx context.Context, _ string) (stock.Partial, error) {
	return stock.Partial{}, ctx.Err()
}
