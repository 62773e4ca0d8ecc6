package stock

import (
	"encoding/json"

	"github.com/guregu/null/v6"
)

// Partial is what a single provider knows about a ticker. Every field may be
// unknown: an invalid null value, an empty string, an empty list and a nil raw
// message all mean the provider did not supply it.
type Partial struct {
	Name          null.String `json:"name"`
	Price         null.Float  `json:"price"`
	Change        null.Float  `json:"change"`
	ChangePercent null.Float  `json:"change_percent"`
	Volume        null.Float  `json:"volume"`

	PERatio       null.Float  `json:"pe_ratio"`
	EPS           null.Float  `json:"eps"`
	DividendYield null.Float  `json:"dividend_yield"`
	Sector        null.String `json:"sector"`
	Industry      null.String `json:"industry"`
	MarketCap     null.Float  `json:"market_cap"`
	Revenue       null.Float  `json:"revenue"`
	NetProfit     null.Float  `json:"net_profit"`

	EPSGrowthYoY     null.Float `json:"eps_growth_yoy"`
	RevenueGrowthYoY null.Float `json:"revenue_growth_yoy"`
	RevenueGrowthY1  null.Float `json:"revenue_growth_y1"`
	RevenueGrowthY2  null.Float `json:"revenue_growth_y2"`
	RevenueGrowthY3  null.Float `json:"revenue_growth_y3"`

	SMA10           null.Float `json:"sma_10"`
	RSI             null.Float `json:"rsi"`
	Momentum        null.Float `json:"momentum"`
	MovingAverage50 null.Float `json:"moving_average_50"`

	// EPSTrend holds recent quarterly earnings-surprise entries as delivered by
	// the provider, newest first.
	EPSTrend []json.RawMessage `json:"eps_trend"`
	// Recommendation is the latest analyst recommendation entry.
	Recommendation json.RawMessage `json:"recommendation"`
}

// Unified is the merged view across all providers. Ticker comes from the
// request, never from a provider, so it is always set.
type Unified struct {
	Ticker string `json:"ticker"`
	Partial
}

// Empty reports whether no field is known.
func (p *Partial) Empty() bool {
	for _, f := range fields {
		if f.known(p) {
			return false
		}
	}
	return true
}

// Known reports whether the named field is set. Unknown names are never set.
func (p *Partial) Known(name string) bool {
	for _, f := range fields {
		if f.name == name {
			return f.known(p)
		}
	}
	return false
}

// FieldNames lists the merged fields in declaration order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Float returns a valid null.Float for v.
func Float(v float64) null.Float {
	return null.FloatFrom(v)
}

// String returns a null.String that is only valid when s is not blank.
func String(s string) null.String {
	return null.NewString(s, s != "")
}

type field struct {
	name  string
	known func(p *Partial) bool
	// fill copies the field from src into dst when dst does not know it yet.
	fill func(dst, src *Partial)
}

func floatField(name string, at func(p *Partial) *null.Float) field {
	return field{
		name:  name,
		known: func(p *Partial) bool { return at(p).Valid },
		fill: func(dst, src *Partial) {
			if d, s := at(dst), at(src); !d.Valid && s.Valid {
				*d = *s
			}
		},
	}
}

func stringField(name string, at func(p *Partial) *null.String) field {
	known := func(p *Partial) bool {
		v := at(p)
		return v.Valid && v.String != ""
	}
	return field{
		name:  name,
		known: known,
		fill: func(dst, src *Partial) {
			if !known(dst) && known(src) {
				*at(dst) = *at(src)
			}
		},
	}
}

var fields = []field{
	stringField("name", func(p *Partial) *null.String { return &p.Name }),
	floatField("price", func(p *Partial) *null.Float { return &p.Price }),
	floatField("change", func(p *Partial) *null.Float { return &p.Change }),
	floatField("change_percent", func(p *Partial) *null.Float { return &p.ChangePercent }),
	floatField("volume", func(p *Partial) *null.Float { return &p.Volume }),
	floatField("pe_ratio", func(p *Partial) *null.Float { return &p.PERatio }),
	floatField("eps", func(p *Partial) *null.Float { return &p.EPS }),
	floatField("dividend_yield", func(p *Partial) *null.Float { return &p.DividendYield }),
	stringField("sector", func(p *Partial) *null.String { return &p.Sector }),
	stringField("industry", func(p *Partial) *null.String { return &p.Industry }),
	floatField("market_cap", func(p *Partial) *null.Float { return &p.MarketCap }),
	floatField("revenue", func(p *Partial) *null.Float { return &p.Revenue }),
	floatField("net_profit", func(p *Partial) *null.Float { return &p.NetProfit }),
	floatField("eps_growth_yoy", func(p *Partial) *null.Float { return &p.EPSGrowthYoY }),
	floatField("revenue_growth_yoy", func(p *Partial) *null.Float { return &p.RevenueGrowthYoY }),
	floatField("revenue_growth_y1", func(p *Partial) *null.Float { return &p.RevenueGrowthY1 }),
	floatField("revenue_growth_y2", func(p *Partial) *null.Float { return &p.RevenueGrowthY2 }),
	floatField("revenue_growth_y3", func(p *Partial) *null.Float { return &p.RevenueGrowthY3 }),
	floatField("sma_10", func(p *Partial) *null.Float { return &p.SMA10 }),
	floatField("rsi", func(p *Partial) *null.Float { return &p.RSI }),
	floatField("momentum", func(p *Partial) *null.Float { return &p.Momentum }),
	floatField("moving_average_50", func(p *Partial) *null.Float { return &p.MovingAverage50 }),
	{
		name:  "eps_trend",
		known: func(p *Partial) bool { return len(p.EPSTrend) > 0 },
		fill: func(dst, src *Partial) {
			if len(dst.EPSTrend) == 0 && len(src.EPSTrend) > 0 {
				dst.EPSTrend = append([]json.RawMessage(nil), src.EPSTrend...)
			}
		},
	},
	{
		name:  "recommendation",
		known: func(p *Partial) bool { return len(p.Recommendation) > 0 },
		fill: func(dst, src *Partial) {
			if len(dst.Recommendation) == 0 && len(src.Recommendation) > 0 {
				dst.Recommendation = append(json.RawMessage(nil), src.Recommendation...)
			}
		},
	},
}
