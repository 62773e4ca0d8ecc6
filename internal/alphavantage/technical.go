package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc"
	"github.com/tidwall/gjson"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/indicators"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

// IndicatorPeriod is the look-back used for SMA, RSI and momentum.
const IndicatorPeriod = 10

// indicator is one AlphaVantage technical indicator endpoint and the column
// holding its value.
type indicator struct {
	function string
	column   string
}

var (
	smaIndicator      = indicator{function: "SMA", column: "SMA"}
	rsiIndicator      = indicator{function: "RSI", column: "RSI"}
	momentumIndicator = indicator{function: "MOM", column: "MOM"}
)

// TechnicalAdapter reports the trailing SMA, RSI and momentum for the latest
// trading day.
type TechnicalAdapter struct {
	client *Client
}

// NewTechnicalAdapter creates the technical indicator adapter
func NewTechnicalAdapter(client *Client) *TechnicalAdapter {
	return &TechnicalAdapter{client: client}
}

// Name implements fetcher.Adapter
func (a *TechnicalAdapter) Name() string {
	return "alphavantage_technical"
}

// Fetch queries the three indicator endpoints concurrently and reads them on
// the most recent SMA date. When the SMA series comes back empty the values
// are computed from daily closes instead.
func (a *TechnicalAdapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	all := []indicator{smaIndicator, rsiIndicator, momentumIndicator}
	results := make([]series.Series, len(all))
	errs := make([]error, len(all))

	var wg conc.WaitGroup
	for i, ind := range all {
		wg.Go(func() {
			results[i], errs[i] = a.indicatorSeries(ctx, ticker, ind)
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			a.client.logger.Debug("indicator unavailable",
				"ticker", ticker,
				"function", all[i].function,
				"error", err)
		}
	}

	snap, ok := indicators.AtLatestDate(results[0], results[1], results[2])
	if !ok {
		var err error
		snap, err = a.fromDailyCloses(ctx, ticker)
		if err != nil {
			if errs[0] != nil {
				return stock.Partial{}, fmt.Errorf("SMA: %w; fallback: %w", errs[0], err)
			}
			return stock.Partial{}, err
		}
	}

	return stock.Partial{
		SMA10:    snap.SMA,
		RSI:      snap.RSI,
		Momentum: snap.Momentum,
	}, nil
}

func (a *TechnicalAdapter) indicatorSeries(ctx context.Context, ticker string, ind indicator) (series.Series, error) {
	doc, err := a.client.query(ctx, ind.function, ticker, map[string]string{
		"interval":    "daily",
		"time_period": strconv.Itoa(IndicatorPeriod),
		"series_type": "close",
	})
	if err != nil {
		return nil, err
	}
	return series.Column(objectWithPrefix(doc, "Technical Analysis"), ind.column), nil
}

func (a *TechnicalAdapter) fromDailyCloses(ctx context.Context, ticker string) (indicators.Snapshot, error) {
	doc, err := a.client.query(ctx, "TIME_SERIES_DAILY", ticker, nil)
	if err != nil {
		return indicators.Snapshot{}, err
	}

	closes := series.Column(objectWithPrefix(doc, "Time Series"), "4. close")
	snap, ok := indicators.FromCloses(closes, IndicatorPeriod)
	if !ok {
		return indicators.Snapshot{}, errNotEnoughHistory(ticker, len(closes))
	}

	a.client.logger.Debug("indicators computed from daily closes",
		"ticker", ticker,
		"date", snap.Date.Format(series.DateLayout))
	return snap, nil
}

// objectWithPrefix returns the first top level object whose key starts with
// prefix. AlphaVantage names these "Technical Analysis: SMA",
// "Time Series (Daily)" and so on.
func objectWithPrefix(doc gjson.Result, prefix string) gjson.Result {
	var found gjson.Result
	doc.ForEach(func(key, value gjson.Result) bool {
		if strings.HasPrefix(key.String(), prefix) && value.IsObject() {
			found = value
			return false
		}
		return true
	})
	return found
}

func errNotEnoughHistory(ticker string, points int) error {
	return fetcher.NewValidationError(fmt.Sprintf("not enough daily closes for %s: got %d, need %d", ticker, points, IndicatorPeriod))
}
