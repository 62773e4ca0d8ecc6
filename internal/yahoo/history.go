package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/series"
)

const chartPath = "/v8/finance/chart/{symbol}"

// DefaultPeriod is the only chart period that is resampled.
const DefaultPeriod = "5y"

// HistoryFetcher produces the yearly performance series shown next to a
// stock.
type HistoryFetcher struct {
	client *Client
}

// NewHistoryFetcher creates a performance history fetcher
func NewHistoryFetcher(client *Client) *HistoryFetcher {
	return &HistoryFetcher{client: client}
}

// Fetch returns the last close of every calendar year within period. An empty
// period means DefaultPeriod; any other period yields nothing. Failures are
// logged and yield nothing.
func (h *HistoryFetcher) Fetch(ctx context.Context, ticker, period string) []series.YearValue {
	if period == "" {
		period = DefaultPeriod
	}
	if period != DefaultPeriod {
		h.client.logger.Debug("unsupported performance period", "ticker", ticker, "period", period)
		return []series.YearValue{}
	}

	closes, err := h.dailyCloses(ctx, ticker, period)
	if err != nil {
		h.client.logger.Warn("performance history unavailable",
			"ticker", ticker,
			"error_type", fetcher.TypeOf(err),
			"error", err)
		return []series.YearValue{}
	}
	return closes.LastPerYear()
}

func (h *HistoryFetcher) dailyCloses(ctx context.Context, ticker, period string) (series.Series, error) {
	doc, err := h.client.get(ctx, chartPath, ticker, map[string]string{
		"range":    period,
		"interval": "1d",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", ticker, err)
	}
	if desc := doc.Get("chart.error.description"); desc.Exists() {
		return nil, fetcher.NewValidationError(desc.String())
	}
	return chartCloses(doc.Get("chart.result.0")), nil
}

// chartCloses pairs the chart timestamps with their closes, dropping the null
// closes Yahoo reports for halted or partial sessions.
func chartCloses(result gjson.Result) series.Series {
	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.quote.0.close").Array()

	n := min(len(timestamps), len(closes))
	out := make(series.Series, 0, n)
	for i := 0; i < n; i++ {
		if closes[i].Type != gjson.Number || timestamps[i].Type != gjson.Number {
			continue
		}
		out = append(out, series.Point{
			Date:  time.Unix(timestamps[i].Int(), 0).UTC(),
			Value: closes[i].Float(),
		})
	}
	return out
}
