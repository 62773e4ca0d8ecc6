package alphavantage

import (
	"context"
	"fmt"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/stock"
)

// notice holds the fields AlphaVantage uses to explain an empty answer.
type notice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	notice
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// OverviewResponse represents the AlphaVantage company overview. Every value
// is a string; missing figures come back as "None", "-" or "0".
type OverviewResponse struct {
	notice
	Symbol                     string `json:"Symbol"`
	Name                       string `json:"Name"`
	Sector                     string `json:"Sector"`
	Industry                   string `json:"Industry"`
	MarketCapitalization       string `json:"MarketCapitalization"`
	PERatio                    string `json:"PERatio"`
	EPS                        string `json:"EPS"`
	DividendYield              string `json:"DividendYield"`
	RevenueTTM                 string `json:"RevenueTTM"`
	NetIncomeTTM               string `json:"NetIncomeTTM"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	MovingAverage50Day         string `json:"50DayMovingAverage"`
}

// OverviewAdapter is the primary source: the instantaneous quote plus the
// company overview with valuation ratios and fundamentals.
type OverviewAdapter struct {
	client *Client
}

// NewOverviewAdapter creates the quote and overview adapter
func NewOverviewAdapter(client *Client) *OverviewAdapter {
	return &OverviewAdapter{client: client}
}

// Name implements fetcher.Adapter
func (a *OverviewAdapter) Name() string {
	return "alphavantage"
}

// Fetch retrieves the quote and the overview. Either half may fail without
// losing the other; the adapter only fails when both do.
func (a *OverviewAdapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	var rec stock.Partial

	quoteErr := a.fetchQuote(ctx, ticker, &rec)
	if quoteErr != nil {
		a.client.logger.Debug("quote unavailable", "ticker", ticker, "error", quoteErr)
	}

	overviewErr := a.fetchOverview(ctx, ticker, &rec)
	if overviewErr != nil {
		a.client.logger.Debug("overview unavailable", "ticker", ticker, "error", overviewErr)
	}

	if quoteErr != nil && overviewErr != nil {
		return stock.Partial{}, fmt.Errorf("quote: %w; overview: %w", quoteErr, overviewErr)
	}
	return rec, nil
}

func (a *OverviewAdapter) fetchQuote(ctx context.Context, ticker string, rec *stock.Partial) error {
	var result GlobalQuoteResponse

	req, err := a.client.request(ctx, "GLOBAL_QUOTE", ticker)
	if err != nil {
		return err
	}
	if _, err := fetcher.Get(req.SetResult(&result), ""); err != nil {
		return fmt.Errorf("failed to fetch stock price for %s: %w", ticker, err)
	}
	if err := checkNotice(result.Note, result.Information, result.ErrorMessage); err != nil {
		return err
	}

	q := result.GlobalQuote
	price := number(q.Price)
	if !price.Valid {
		return fetcher.NewValidationError(fmt.Sprintf("price not found in response for %s", ticker))
	}

	rec.Price = price
	rec.Change = number(q.Change)
	rec.ChangePercent = number(q.ChangePercent)
	rec.Volume = number(q.Volume)
	return nil
}

func (a *OverviewAdapter) fetchOverview(ctx context.Context, ticker string, rec *stock.Partial) error {
	var result OverviewResponse

	req, err := a.client.request(ctx, "OVERVIEW", ticker)
	if err != nil {
		return err
	}
	if _, err := fetcher.Get(req.SetResult(&result), ""); err != nil {
		return fmt.Errorf("failed to fetch overview for %s: %w", ticker, err)
	}
	if err := checkNotice(result.Note, result.Information, result.ErrorMessage); err != nil {
		return err
	}
	if result.Symbol == "" {
		return fetcher.NewValidationError(fmt.Sprintf("overview not found in response for %s", ticker))
	}

	rec.Name = text(result.Name)
	rec.Sector = text(result.Sector)
	rec.Industry = text(result.Industry)
	rec.PERatio = reported(result.PERatio)
	rec.EPS = reported(result.EPS)
	rec.DividendYield = reported(result.DividendYield)
	rec.MarketCap = reported(result.MarketCapitalization)
	rec.Revenue = reported(result.RevenueTTM)
	rec.NetProfit = reported(result.NetIncomeTTM)
	rec.EPSGrowthYoY = reported(result.QuarterlyEarningsGrowthYOY)
	rec.RevenueGrowthYoY = reported(result.QuarterlyRevenueGrowthYOY)
	rec.MovingAverage50 = reported(result.MovingAverage50Day)
	return nil
}
