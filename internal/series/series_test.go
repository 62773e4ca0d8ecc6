package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSeries_Ordering(t *testing.T) {
	s := Series{
		{Date: day("2024-01-03"), Value: 3},
		{Date: day("2024-01-01"), Value: 1},
		{Date: day("2024-01-02"), Value: 2},
	}

	assert.Equal(t, []float64{1, 2, 3}, s.Ascending().Values())
	assert.Equal(t, []float64{3, 2, 1}, s.Descending().Values())
	// receiver untouched
	assert.Equal(t, []float64{3, 1, 2}, s.Values())
}

func TestSeries_Latest(t *testing.T) {
	_, ok := Series(nil).Latest()
	assert.False(t, ok)

	p, ok := Series{
		{Date: day("2023-12-29"), Value: 1},
		{Date: day("2024-01-02"), Value: 2},
		{Date: day("2023-06-01"), Value: 3},
	}.Latest()
	require.True(t, ok)
	assert.Equal(t, 2.0, p.Value)
}

func TestSeries_LastPerYear(t *testing.T) {
	s := Series{
		{Date: day("2021-12-31"), Value: 177.574},
		{Date: day("2020-01-02"), Value: 75.0875},
		{Date: day("2020-12-31"), Value: 132.691},
		{Date: day("2021-06-30"), Value: 136.96},
		{Date: day("2022-12-30"), Value: 129.93},
		{Date: day("2022-01-03"), Value: 182.01},
	}

	got := s.LastPerYear()

	assert.Equal(t, []YearValue{
		{Year: "2020", Value: 132.69},
		{Year: "2021", Value: 177.57},
		{Year: "2022", Value: 129.93},
	}, got)
}

func TestSeries_LastPerYear_Empty(t *testing.T) {
	got := Series{}.LastPerYear()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.5, Round2(2.499999))
	assert.Equal(t, -3.46, Round2(-3.455))
}

func TestColumn(t *testing.T) {
	doc := gjson.Parse(`{
		"2024-01-12": {"SMA": "185.1000", "extra": "x"},
		"2024-01-11": {"SMA": "184.9200"},
		"not-a-date": {"SMA": "1"},
		"2024-01-10": {"SMA": "n/a"},
		"2024-01-09": {"RSI": "55"}
	}`)

	got := Column(doc, "SMA")

	require.Len(t, got, 2)
	assert.Equal(t, day("2024-01-12"), got[0].Date)
	assert.Equal(t, 185.1, got[0].Value)
	assert.Equal(t, day("2024-01-11"), got[1].Date)
}

func TestColumn_DottedColumnName(t *testing.T) {
	doc := gjson.Parse(`{"2024-01-12": {"1. open": "180.0", "4. close": "185.92"}}`)

	got := Column(doc, "4. close")

	require.Len(t, got, 1)
	assert.Equal(t, 185.92, got[0].Value)
}

func TestColumn_Missing(t *testing.T) {
	assert.Empty(t, Column(gjson.Parse(`{}`).Get("nothing"), "SMA"))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
		ok   bool
	}{
		{"number", `{"v": 12.5}`, 12.5, true},
		{"string", `{"v": "12.5"}`, 12.5, true},
		{"raw object", `{"v": {"raw": 3.2e9, "fmt": "3.2B"}}`, 3.2e9, true},
		{"empty object", `{"v": {}}`, 0, false},
		{"null", `{"v": null}`, 0, false},
		{"placeholder", `{"v": "None"}`, 0, false},
		{"nan", `{"v": "NaN"}`, 0, false},
		{"missing", `{}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(gjson.Get(tt.json, "v"))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
