// Package finnhub reads analyst sentiment and company news from Finnhub.
package finnhub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/ratelimit"
)

// DefaultBaseURL is Finnhub's production API root.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client is the Finnhub HTTP client shared by the sentiment adapter and the
// news fetcher.
type Client struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient creates a Finnhub client
func NewClient(apiKey, baseURL string, limiter *ratelimit.Limiter, opts fetcher.ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.Logger = logger

	return &Client{
		apiKey:  apiKey,
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
		logger:  logger.With("source", "finnhub"),
		now:     time.Now,
	}
}

// list fetches path and returns its body, which Finnhub documents as a JSON
// array. Anything else, typically {"error": "..."}, is a validation failure.
func (c *Client) list(ctx context.Context, path, ticker string, params map[string]string) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIFinnhub); err != nil {
		return gjson.Result{}, fetcher.ClassifyTransportError(fmt.Errorf("waiting for rate limiter: %w", err))
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": ticker,
			"token":  c.apiKey,
		}).
		SetQueryParams(params)

	doc, err := fetcher.GetJSON(req, path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to fetch %s for %s: %w", path, ticker, err)
	}
	if !doc.IsArray() {
		if msg := doc.Get("error"); msg.Exists() {
			return gjson.Result{}, fetcher.NewValidationError(msg.String())
		}
		return gjson.Result{}, fetcher.NewValidationError(fmt.Sprintf("%s for %s is not a list", path, ticker))
	}
	return doc, nil
}
