package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarketCap(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5e12, "1.50T"},
		{1e12, "1.00T"},
		{2.3e9, "2.30B"},
		{1e9, "1.00B"},
		{999.99e6, "999.99M"},
		{1e6, "1.00M"},
		{999999, "999999.00"},
		{0, "0.00"},
		{-2.3e9, "-2.30B"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, MarketCap(tt.in), "MarketCap(%v)", tt.in)
	}
}

func TestVolume(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.5e6, "2.5M"},
		{500, "500"},
		{1e3, "1.0K"},
		{12_345, "12.3K"},
		{1e9, "1.0B"},
		{3.4e12, "3400.0B"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Volume(tt.in), "Volume(%v)", tt.in)
	}
}

func TestRevenue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.2e9, "$1.2B"},
		{383.285e9, "$383.3B"},
		{1e6, "$1.0M"},
		{45.6e6, "$45.6M"},
		{950_000, "$950000.00"},
		{-5e9, "-$5.0B"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Revenue(tt.in), "Revenue(%v)", tt.in)
	}
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, "+12.50%", Growth(12.5))
	assert.Equal(t, "+0.00%", Growth(0))
	assert.Equal(t, "-3.10%", Growth(-3.1))
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
		want string
	}{
		{"typical", json.RawMessage(`{"buy":24,"hold":7,"sell":1,"strongBuy":13,"strongSell":0,"period":"2024-06-01"}`), "82% Buy"},
		{"all zero", json.RawMessage(`{"buy":0,"hold":0,"sell":0,"strongBuy":0,"strongSell":0}`), "N/A"},
		{"nil", nil, "N/A"},
		{"invalid", json.RawMessage(`{"buy":`), "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommendation(tt.raw))
		})
	}
}

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{25 * time.Hour, "1 days ago"},
		{24 * time.Hour, "1 days ago"},
		{3 * time.Hour, "3 hours ago"},
		{3*time.Hour + 59*time.Minute, "3 hours ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{72 * time.Hour, "3 days ago"},
		{10 * time.Minute, "0 hours ago"},
		{-time.Hour, "0 hours ago"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, TimeAgo(tt.in), "TimeAgo(%v)", tt.in)
	}
}
