package alphavantage

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"
	"resty.dev/v3"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/ratelimit"
)

// Client is the AlphaVantage query endpoint shared by the overview and
// technical adapters.
type Client struct {
	apiKey  string
	client  *resty.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*clientConfig)

type clientConfig struct {
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	http    fetcher.ClientOptions
}

// WithLimiter paces requests through l.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *clientConfig) {
		c.limiter = l
	}
}

// WithLogger sets the logger for request failures and retries.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetryCount sets how many times network and 5xx failures are retried.
func WithRetryCount(n int) Option {
	return func(c *clientConfig) {
		c.http.RetryCount = n
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) {
		c.http.Transport = rt
	}
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	cfg := clientConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.http.Logger = cfg.logger

	return &Client{
		apiKey:  apiKey,
		client:  fetcher.NewHTTPClient(baseURL, cfg.http),
		limiter: cfg.limiter,
		logger:  cfg.logger.With("source", "alphavantage"),
	}
}

// request prepares a paced query for function with the API key attached.
func (c *Client) request(ctx context.Context, function, ticker string) (*resty.Request, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return nil, fetcher.ClassifyTransportError(fmt.Errorf("waiting for rate limiter: %w", err))
	}
	return c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.apiKey,
			"function": function,
			"symbol":   ticker,
		}), nil
}

// query runs function and returns the parsed body.
func (c *Client) query(ctx context.Context, function, ticker string, params map[string]string) (gjson.Result, error) {
	req, err := c.request(ctx, function, ticker)
	if err != nil {
		return gjson.Result{}, err
	}
	req.SetQueryParams(params)

	doc, err := fetcher.GetJSON(req, "")
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s for %s: %w", function, ticker, err)
	}
	if err := checkNotice(doc.Get("Note").String(), doc.Get("Information").String(), doc.Get("Error Message").String()); err != nil {
		return gjson.Result{}, fmt.Errorf("%s for %s: %w", function, ticker, err)
	}
	return doc, nil
}

// checkNotice turns the messages AlphaVantage sends with HTTP 200 into errors.
// Note and Information carry quota messages, Error Message invalid calls.
func checkNotice(note, information, errorMessage string) error {
	switch {
	case errorMessage != "":
		return fetcher.NewValidationError(errorMessage)
	case note != "":
		return fetcher.NewQuotaError(note)
	case information != "":
		return fetcher.NewQuotaError(information)
	}
	return nil
}

// reported parses a numeric field the way AlphaVantage reports fundamentals:
// "0", "None", "-" and anything unparsable mean the value was not reported.
func reported(s string) null.Float {
	v := number(s)
	if v.Valid && v.Float64 == 0 {
		return null.Float{}
	}
	return v
}

// number parses a numeric field, accepting a trailing percent sign.
func number(s string) null.Float {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	switch s {
	case "", "None", "-":
		return null.Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

// text drops AlphaVantage's placeholders for missing strings.
func text(s string) null.String {
	s = strings.TrimSpace(s)
	switch s {
	case "", "None", "-":
		return null.String{}
	}
	return null.StringFrom(s)
}
