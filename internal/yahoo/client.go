// Package yahoo reads Yahoo Finance's public JSON endpoints: quote summary
// modules, the fundamentals time series and the daily chart.
package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/ratelimit"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

// DefaultBaseURL is the production host for every endpoint in this package.
const DefaultBaseURL = "https://query2.finance.yahoo.com"

// Client is the Yahoo Finance HTTP client shared by the adapter and the
// history fetcher.
type Client struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient creates a Yahoo Finance client. Yahoo needs no API key.
func NewClient(baseURL string, limiter *ratelimit.Limiter, opts fetcher.ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.Logger = logger

	return &Client{
		client:  fetcher.NewHTTPClient(baseURL, opts),
		limiter: limiter,
		logger:  logger.With("source", "yahoo"),
		now:     time.Now,
	}
}

// get fetches path for ticker and returns the parsed body. The path refers to
// the ticker as {symbol}.
func (c *Client) get(ctx context.Context, path, ticker string, params map[string]string) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return gjson.Result{}, fetcher.ClassifyTransportError(fmt.Errorf("waiting for rate limiter: %w", err))
	}

	req := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(params)

	return fetcher.GetJSON(req, path)
}

// firstNumber returns the first of paths holding a usable number.
func firstNumber(obj gjson.Result, paths ...string) null.Float {
	for _, p := range paths {
		if v, ok := series.Number(obj.Get(p)); ok {
			return null.FloatFrom(v)
		}
	}
	return null.Float{}
}

// firstText returns the first of paths holding a non-blank string.
func firstText(obj gjson.Result, paths ...string) null.String {
	for _, p := range paths {
		if r := obj.Get(p); r.Type == gjson.String {
			if s := stock.String(strings.TrimSpace(r.Str)); s.Valid {
				return s
			}
		}
	}
	return null.String{}
}
