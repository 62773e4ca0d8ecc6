package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/growth"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

const (
	quoteSummaryPath = "/v10/finance/quoteSummary/{symbol}"
	timeseriesPath   = "/ws/fundamentals-timeseries/v1/finance/timeseries/{symbol}"
)

// summaryModules are the quoteSummary modules the adapter reads.
var summaryModules = []string{"summaryDetail", "assetProfile", "financialData", "price", "defaultKeyStatistics"}

// revenueLookback bounds the fundamentals query; four fiscal years plus slack.
const revenueLookback = 6 * 365 * 24 * time.Hour

// Adapter is the secondary source. It covers most of the overview fields and
// is the only source of multi-year revenue growth.
type Adapter struct {
	client *Client
}

// NewAdapter creates the Yahoo Finance adapter
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Name implements fetcher.Adapter
func (a *Adapter) Name() string {
	return "yahoo"
}

// Fetch reads the quote summary and the annual revenue series. They fail
// independently; the adapter only fails when both do.
func (a *Adapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	var rec stock.Partial

	summaryErr := a.fetchSummary(ctx, ticker, &rec)
	if summaryErr != nil {
		a.client.logger.Debug("quote summary unavailable", "ticker", ticker, "error", summaryErr)
	}

	growthErr := a.fetchRevenueGrowth(ctx, ticker, &rec)
	if growthErr != nil {
		a.client.logger.Debug("revenue series unavailable", "ticker", ticker, "error", growthErr)
	}

	if summaryErr != nil && growthErr != nil {
		return stock.Partial{}, fmt.Errorf("quote summary: %w; revenue series: %w", summaryErr, growthErr)
	}
	return rec, nil
}

func (a *Adapter) fetchSummary(ctx context.Context, ticker string, rec *stock.Partial) error {
	doc, err := a.client.get(ctx, quoteSummaryPath, ticker, map[string]string{
		"modules": strings.Join(summaryModules, ","),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch quote summary for %s: %w", ticker, err)
	}
	if desc := doc.Get("quoteSummary.error.description"); desc.Exists() {
		return fetcher.NewValidationError(desc.String())
	}

	result := doc.Get("quoteSummary.result.0")
	if !result.IsObject() {
		return fetcher.NewValidationError(fmt.Sprintf("quote summary not found in response for %s", ticker))
	}

	summary := result.Get("summaryDetail")
	profile := result.Get("assetProfile")
	financial := result.Get("financialData")
	price := result.Get("price")
	stats := result.Get("defaultKeyStatistics")

	rec.Name = firstText(price, "longName", "shortName")
	rec.Price = firstNumber(price, "regularMarketPrice")
	if !rec.Price.Valid {
		rec.Price = firstNumber(financial, "currentPrice")
	}
	rec.Change = firstNumber(price, "regularMarketChange")
	// Yahoo reports the change as a fraction; the record holds percent.
	if v := firstNumber(price, "regularMarketChangePercent"); v.Valid {
		rec.ChangePercent = stock.Float(series.Round2(v.Float64 * 100))
	}
	rec.Volume = firstNumber(price, "regularMarketVolume")
	if !rec.Volume.Valid {
		rec.Volume = firstNumber(summary, "volume")
	}

	rec.PERatio = firstNumber(summary, "trailingPE")
	rec.EPS = firstNumber(stats, "trailingEps")
	if !rec.EPS.Valid {
		rec.EPS = firstNumber(financial, "epsTrailingTwelveMonths")
	}
	rec.DividendYield = firstNumber(summary, "dividendYield")
	rec.MarketCap = firstNumber(summary, "marketCap")
	if !rec.MarketCap.Valid {
		rec.MarketCap = firstNumber(price, "marketCap")
	}
	rec.MovingAverage50 = firstNumber(summary, "fiftyDayAverage")

	rec.Sector = firstText(profile, "sector")
	rec.Industry = firstText(profile, "industry")

	rec.Revenue = firstNumber(financial, "totalRevenue")
	rec.NetProfit = firstNumber(stats, "netIncomeToCommon")
	if !rec.NetProfit.Valid {
		rec.NetProfit = firstNumber(financial, "netIncomeToCommon")
	}
	rec.EPSGrowthYoY = firstNumber(stats, "earningsQuarterlyGrowth")
	if !rec.EPSGrowthYoY.Valid {
		rec.EPSGrowthYoY = firstNumber(financial, "earningsGrowth")
	}
	rec.RevenueGrowthYoY = firstNumber(financial, "revenueGrowth")
	return nil
}

func (a *Adapter) fetchRevenueGrowth(ctx context.Context, ticker string, rec *stock.Partial) error {
	now := a.client.now()
	doc, err := a.client.get(ctx, timeseriesPath, ticker, map[string]string{
		"type":    "annualTotalRevenue",
		"period1": strconv.FormatInt(now.Add(-revenueLookback).Unix(), 10),
		"period2": strconv.FormatInt(now.Unix(), 10),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch revenue series for %s: %w", ticker, err)
	}

	revenue := annualRevenue(doc)
	yoy := growth.RevenueYoY(revenue.Descending().Values())
	rec.RevenueGrowthY1 = yoy[0]
	rec.RevenueGrowthY2 = yoy[1]
	rec.RevenueGrowthY3 = yoy[2]
	return nil
}

// annualRevenue collects the reported annual revenue points. Yahoo pads the
// series with nulls for years it has no figure for.
func annualRevenue(doc gjson.Result) series.Series {
	var out series.Series
	doc.Get("timeseries.result").ForEach(func(_, result gjson.Result) bool {
		result.Get("annualTotalRevenue").ForEach(func(_, p gjson.Result) bool {
			date, err := time.Parse(series.DateLayout, p.Get("asOfDate").String())
			if err != nil {
				return true
			}
			v, ok := series.Number(p.Get("reportedValue"))
			if !ok {
				return true
			}
			out = append(out, series.Point{Date: date, Value: v})
			return true
		})
		return true
	})
	return out
}
