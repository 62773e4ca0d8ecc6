// Package aggregator fans a ticker out to every provider adapter, merges what
// comes back and attaches the display block and context data.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

// ErrInvalidTicker is returned for a ticker that is blank after trimming.
var ErrInvalidTicker = errors.New("invalid ticker")

// DefaultPriority is the merge order by adapter name: the first adapter that
// knows a field wins it.
var DefaultPriority = []string{"alphavantage", "yahoo", "alphavantage_technical", "finnhub", "polygon"}

// DefaultTimeout bounds each adapter and context fetcher.
const DefaultTimeout = 10 * time.Second

// MinSearchLength is the shortest query Search acts on.
const MinSearchLength = 2

var (
	// DefaultPopular is the list served by Popular.
	DefaultPopular = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA"}
	// DefaultSearchable is the list Search matches queries against.
	DefaultSearchable = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA", "JPM", "V"}
)

// NewsSource lists recent articles for a ticker. It reports failures as an
// empty list.
type NewsSource interface {
	Fetch(ctx context.Context, ticker string) []stock.Article
}

// HistorySource produces the yearly performance series for a ticker. It
// reports failures as an empty list.
type HistorySource interface {
	Fetch(ctx context.Context, ticker, period string) []series.YearValue
}

// Options selects the context attached to a report.
type Options struct {
	News        bool
	Performance bool
	// Period is passed to the history source; empty means its default.
	Period string
}

// Config wires an Aggregator.
type Config struct {
	// Adapters are merged in Priority order, whatever order they are given in.
	Adapters []fetcher.Adapter
	// Priority lists adapter names, highest first. Defaults to
	// DefaultPriority. Adapters it does not name go last, in given order.
	Priority []string

	News    NewsSource
	History HistorySource

	// Timeout bounds each adapter and context fetcher. Defaults to
	// DefaultTimeout.
	Timeout time.Duration

	Popular    []string
	Searchable []string

	Logger *slog.Logger
}

// Aggregator builds stock reports from a fixed set of adapters. It holds no
// per-request state and is safe for concurrent use.
type Aggregator struct {
	adapters   []fetcher.Adapter
	news       NewsSource
	history    HistorySource
	timeout    time.Duration
	popular    []string
	searchable []string
	logger     *slog.Logger
}

// New creates an Aggregator from cfg.
func New(cfg Config) *Aggregator {
	a := &Aggregator{
		adapters:   ordered(cfg.Adapters, cfg.Priority),
		news:       cfg.News,
		history:    cfg.History,
		timeout:    cfg.Timeout,
		popular:    cfg.Popular,
		searchable: cfg.Searchable,
		logger:     cfg.Logger,
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	if len(a.popular) == 0 {
		a.popular = DefaultPopular
	}
	if len(a.searchable) == 0 {
		a.searchable = DefaultSearchable
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// ordered returns adapters sorted by their position in priority.
func ordered(adapters []fetcher.Adapter, priority []string) []fetcher.Adapter {
	if len(priority) == 0 {
		priority = DefaultPriority
	}
	rank := func(a fetcher.Adapter) int {
		if i := slices.Index(priority, a.Name()); i >= 0 {
			return i
		}
		return len(priority)
	}
	out := slices.Clone(adapters)
	slices.SortStableFunc(out, func(x, y fetcher.Adapter) int {
		return rank(x) - rank(y)
	})
	return out
}

// NormalizeTicker trims and uppercases a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Stock runs every adapter and the requested context fetchers concurrently,
// waits for all of them and merges the records in priority order. Failed
// adapters contribute nothing; if they all fail the report only carries the
// ticker. The only error is ErrInvalidTicker.
func (a *Aggregator) Stock(ctx context.Context, ticker string, opts Options) (*Report, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrInvalidTicker
	}

	start := time.Now()
	results := make([]fetcher.Result, len(a.adapters))
	var news []stock.Article
	var performance []series.YearValue

	var wg conc.WaitGroup
	for i, ad := range a.adapters {
		wg.Go(func() {
			results[i] = fetcher.Invoke(ctx, ad, ticker, a.timeout, a.logger)
		})
	}
	if opts.News && a.news != nil {
		wg.Go(func() {
			ctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			news = a.news.Fetch(ctx, ticker)
		})
	}
	if opts.Performance && a.history != nil {
		wg.Go(func() {
			ctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			performance = a.history.Fetch(ctx, ticker, opts.Period)
		})
	}
	wg.Wait()

	records := make([]stock.Partial, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	unified := stock.Merge(ticker, records...)

	report := &Report{
		Unified: unified,
		Display: NewDisplay(unified),
		Sources: sourceStatuses(results),
	}
	if opts.News {
		report.News = nonNil(news)
	}
	if opts.Performance {
		report.Performance = nonNil(performance)
	}

	a.logger.Info("stock aggregated",
		"ticker", ticker,
		"sources_ok", report.SourcesOK(),
		"sources", len(results),
		"empty", report.Empty(),
		"elapsed", time.Since(start))

	return report, nil
}

// Popular reports every configured popular symbol, with news, in list order.
func (a *Aggregator) Popular(ctx context.Context) []*Report {
	return a.many(ctx, a.popular)
}

// Search reports every searchable symbol containing query, case-insensitively,
// with news. Queries shorter than MinSearchLength after trimming match nothing
// and query no provider.
func (a *Aggregator) Search(ctx context.Context, query string) []*Report {
	query = NormalizeTicker(query)
	if len(query) < MinSearchLength {
		return []*Report{}
	}

	var matches []string
	for _, symbol := range a.searchable {
		if strings.Contains(symbol, query) {
			matches = append(matches, symbol)
		}
	}
	return a.many(ctx, matches)
}

func (a *Aggregator) many(ctx context.Context, symbols []string) []*Report {
	reports := iter.Map(symbols, func(symbol *string) *Report {
		report, err := a.Stock(ctx, *symbol, Options{News: true})
		if err != nil {
			a.logger.Warn("skipping symbol", "ticker", *symbol, "error", err)
			return nil
		}
		return report
	})
	return slices.DeleteFunc(reports, func(r *Report) bool { return r == nil })
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
