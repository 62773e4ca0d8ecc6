package aggregator

import (
	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/format"
	"stockfetcher/internal/series"
	"stockfetcher/internal/stock"
)

// Report is the merged record for one ticker plus everything shown around it.
type Report struct {
	stock.Unified
	Display     Display            `json:"display"`
	News        []stock.Article    `json:"news,omitempty"`
	Performance []series.YearValue `json:"performance_data,omitempty"`
	Sources     []SourceStatus     `json:"sources"`
}

// Empty reports whether no provider supplied any field.
func (r *Report) Empty() bool {
	return r.Unified.Partial.Empty()
}

// SourcesOK counts the adapters that succeeded.
func (r *Report) SourcesOK() int {
	n := 0
	for _, s := range r.Sources {
		if s.OK {
			n++
		}
	}
	return n
}

// Display holds the formatted versions of selected fields. Fields whose raw
// value is unknown are left out.
type Display struct {
	MarketCap       string `json:"market_cap,omitempty"`
	Volume          string `json:"volume,omitempty"`
	Revenue         string `json:"revenue,omitempty"`
	NetProfit       string `json:"net_profit,omitempty"`
	RevenueGrowthY1 string `json:"revenue_growth_y1,omitempty"`
	RevenueGrowthY2 string `json:"revenue_growth_y2,omitempty"`
	RevenueGrowthY3 string `json:"revenue_growth_y3,omitempty"`
	Recommendation  string `json:"recommendation"`
}

// NewDisplay formats u for display.
func NewDisplay(u stock.Unified) Display {
	d := Display{
		Recommendation: format.Recommendation(u.Recommendation),
	}
	if u.MarketCap.Valid {
		d.MarketCap = format.MarketCap(u.MarketCap.Float64)
	}
	if u.Volume.Valid {
		d.Volume = format.Volume(u.Volume.Float64)
	}
	if u.Revenue.Valid {
		d.Revenue = format.Revenue(u.Revenue.Float64)
	}
	if u.NetProfit.Valid {
		d.NetProfit = format.Revenue(u.NetProfit.Float64)
	}
	if u.RevenueGrowthY1.Valid {
		d.RevenueGrowthY1 = format.Growth(u.RevenueGrowthY1.Float64)
	}
	if u.RevenueGrowthY2.Valid {
		d.RevenueGrowthY2 = format.Growth(u.RevenueGrowthY2.Float64)
	}
	if u.RevenueGrowthY3.Valid {
		d.RevenueGrowthY3 = format.Growth(u.RevenueGrowthY3.Float64)
	}
	return d
}

// SourceStatus summarizes one adapter invocation.
type SourceStatus struct {
	Name      string            `json:"name"`
	OK        bool              `json:"ok"`
	ErrorType fetcher.ErrorType `json:"error_type,omitempty"`
	Error     string            `json:"error,omitempty"`
	ElapsedMS int64             `json:"elapsed_ms"`
}

func sourceStatuses(results []fetcher.Result) []SourceStatus {
	out := make([]SourceStatus, len(results))
	for i, r := range results {
		out[i] = SourceStatus{
			Name:      r.Source,
			OK:        r.OK(),
			ElapsedMS: r.Elapsed.Milliseconds(),
		}
		if r.Err != nil {
			out[i].ErrorType = fetcher.TypeOf(r.Err)
			out[i].Error = r.Err.Error()
		}
	}
	return out
}
