package main

import (
	"log/slog"

	"stockfetcher/internal/aggregator"
	"stockfetcher/internal/alphavantage"
	"stockfetcher/internal/config"
	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/finnhub"
	"stockfetcher/internal/polygon"
	"stockfetcher/internal/ratelimit"
	"stockfetcher/internal/yahoo"
)

// newAggregator builds every adapter and context fetcher from cfg and wires
// them into an Aggregator.
func newAggregator(cfg *config.Config, logger *slog.Logger) *aggregator.Aggregator {
	limiter := ratelimit.New(cfg.Limits())
	httpOpts := fetcher.ClientOptions{
		RetryCount: cfg.HTTPRetryCount,
		Logger:     logger,
	}

	av := alphavantage.NewClient(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL,
		alphavantage.WithLimiter(limiter),
		alphavantage.WithLogger(logger),
		alphavantage.WithRetryCount(cfg.HTTPRetryCount),
	)
	yh := yahoo.NewClient(cfg.YahooBaseURL, limiter, httpOpts)
	fh := finnhub.NewClient(cfg.FinnhubAPIKey, cfg.FinnhubBaseURL, limiter, httpOpts)

	return aggregator.New(aggregator.Config{
		Adapters: []fetcher.Adapter{
			alphavantage.NewOverviewAdapter(av),
			yahoo.NewAdapter(yh),
			alphavantage.NewTechnicalAdapter(av),
			finnhub.NewSentimentAdapter(fh),
			polygon.NewAdapter(cfg.PolygonAPIKey),
		},
		Priority:   aggregator.DefaultPriority,
		News:       finnhub.NewNewsFetcher(fh),
		History:    yahoo.NewHistoryFetcher(yh),
		Timeout:    cfg.AdapterTimeout,
		Popular:    cfg.PopularSymbols,
		Searchable: cfg.SearchSymbols,
		Logger:     logger,
	})
}
