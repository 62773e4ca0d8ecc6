// Package series holds the small set of date-indexed operations the providers
// need: parsing date keyed payloads, ordering, and yearly resampling.
package series

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// DateLayout is the calendar date format used by the upstream APIs.
const DateLayout = "2006-01-02"

// Point is a single observation.
type Point struct {
	Date  time.Time
	Value float64
}

// YearValue is one point of a yearly resampled series.
type YearValue struct {
	Year  string  `json:"year"`
	Value float64 `json:"value"`
}

// Series is an ordered list of points. Functions that need a specific order
// say so; none of them modify the receiver.
type Series []Point

// Ascending returns a copy sorted oldest first. Points on the same date keep
// their relative order.
func (s Series) Ascending() Series {
	out := append(Series(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Descending returns a copy sorted newest first.
func (s Series) Descending() Series {
	out := append(Series(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Values returns the values in the current order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Latest returns the point with the most recent date.
func (s Series) Latest() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	latest := s[0]
	for _, p := range s[1:] {
		if p.Date.After(latest.Date) {
			latest = p
		}
	}
	return latest, true
}

// LastPerYear keeps the last observation of every calendar year (UTC), ordered
// by year, with values rounded to two decimals.
func (s Series) LastPerYear() []YearValue {
	asc := s.Ascending()
	out := make([]YearValue, 0, 8)
	for i, p := range asc {
		if i+1 < len(asc) && asc[i+1].Date.UTC().Year() == p.Date.UTC().Year() {
			continue
		}
		out = append(out, YearValue{
			Year:  strconv.Itoa(p.Date.UTC().Year()),
			Value: Round2(p.Value),
		})
	}
	return out
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Column extracts one named column from a date keyed object such as
//
//	{"2024-01-12": {"SMA": "185.10"}, "2024-01-11": {"SMA": "184.92"}}
//
// Rows whose date or value cannot be parsed are skipped. The result keeps the
// document order.
func Column(obj gjson.Result, column string) Series {
	var out Series
	obj.ForEach(func(key, row gjson.Result) bool {
		date, err := time.Parse(DateLayout, strings.TrimSpace(key.String()))
		if err != nil {
			return true
		}
		v, ok := Number(row.Get(escape(column)))
		if !ok {
			return true
		}
		out = append(out, Point{Date: date, Value: v})
		return true
	})
	return out
}

// Number reads a JSON value that may be a number, a numeric string or a
// Yahoo style {"raw": n, "fmt": "..."} object.
func Number(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case gjson.JSON:
		if raw := r.Get("raw"); raw.Exists() && raw.Type != gjson.JSON {
			return Number(raw)
		}
	}
	return 0, false
}

// escape makes a literal key usable as a gjson path component.
func escape(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
