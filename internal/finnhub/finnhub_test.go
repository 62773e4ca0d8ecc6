package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/stock"
)

var testNow = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

const earningsBody = `[
	{"actual": 1.53, "estimate": 1.5, "period": "2024-03-31", "quarter": 1, "surprise": 0.03, "symbol": "AAPL", "year": 2024},
	{"actual": 2.18, "estimate": 2.1, "period": "2023-12-31", "quarter": 4, "surprise": 0.08, "symbol": "AAPL", "year": 2023},
	{"actual": 1.46, "estimate": 1.39, "period": "2023-09-30", "quarter": 3, "surprise": 0.07, "symbol": "AAPL", "year": 2023},
	{"actual": 1.26, "estimate": 1.19, "period": "2023-06-30", "quarter": 2, "surprise": 0.07, "symbol": "AAPL", "year": 2023}
]`

const recommendationBody = `[
	{"buy": 24, "hold": 7, "period": "2024-06-01", "sell": 1, "strongBuy": 13, "strongSell": 0, "symbol": "AAPL"},
	{"buy": 23, "hold": 8, "period": "2024-05-01", "sell": 1, "strongBuy": 12, "strongSell": 0, "symbol": "AAPL"}
]`

func newFinnhubServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "test_token" {
			t.Errorf("token = %q, want test_token", got)
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if body == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(baseURL string) *Client {
	c := NewClient("test_token", baseURL, nil, fetcher.ClientOptions{})
	c.now = func() time.Time { return testNow }
	return c
}

func TestSentimentAdapter_Name(t *testing.T) {
	assert.Equal(t, "finnhub", NewSentimentAdapter(newTestClient("http://localhost")).Name())
}

func TestSentimentAdapter_Fetch(t *testing.T) {
	server := newFinnhubServer(t, map[string]string{
		"/stock/earnings":       earningsBody,
		"/stock/recommendation": recommendationBody,
	})

	rec, err := NewSentimentAdapter(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Len(t, rec.EPSTrend, 3)
	assert.JSONEq(t, `{"actual": 1.53, "estimate": 1.5, "period": "2024-03-31", "quarter": 1, "surprise": 0.03, "symbol": "AAPL", "year": 2024}`, string(rec.EPSTrend[0]))
	assert.Contains(t, string(rec.EPSTrend[2]), `"2023-09-30"`)
	assert.JSONEq(t, `{"buy": 24, "hold": 7, "period": "2024-06-01", "sell": 1, "strongBuy": 13, "strongSell": 0, "symbol": "AAPL"}`, string(rec.Recommendation))
	assert.False(t, rec.Price.Valid)
}

func TestSentimentAdapter_Fetch_EmptyLists(t *testing.T) {
	server := newFinnhubServer(t, map[string]string{
		"/stock/earnings":       `[]`,
		"/stock/recommendation": `[]`,
	})

	rec, err := NewSentimentAdapter(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}

func TestSentimentAdapter_Fetch_OneEndpointFails(t *testing.T) {
	server := newFinnhubServer(t, map[string]string{
		"/stock/earnings":       "",
		"/stock/recommendation": recommendationBody,
	})

	rec, err := NewSentimentAdapter(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Empty(t, rec.EPSTrend)
	assert.NotEmpty(t, rec.Recommendation)
}

func TestSentimentAdapter_Fetch_BothFail(t *testing.T) {
	server := newFinnhubServer(t, map[string]string{
		"/stock/earnings":       `{"error": "You don't have access to this resource."}`,
		"/stock/recommendation": `{"error": "You don't have access to this resource."}`,
	})

	_, err := NewSentimentAdapter(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Equal(t, fetcher.ErrorTypeValidation, fetcher.TypeOf(err))
	assert.Contains(t, err.Error(), "You don't have access to this resource.")
}

func TestNewsFetcher_Fetch(t *testing.T) {
	var from, to, symbol string
	items := ""
	for i := 0; i < 7; i++ {
		if i > 0 {
			items += ","
		}
		published := testNow.Add(-time.Duration(i*13) * time.Hour).Unix()
		items += fmt.Sprintf(`{"category": "company", "datetime": %d, "headline": " Headline %d ", "id": %d, "source": "Reuters", "url": "https://example.com/%d"}`, published, i, i, i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		q := r.URL.Query()
		from, to, symbol = q.Get("from"), q.Get("to"), q.Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[" + items + "]"))
	}))
	defer server.Close()

	got := NewNewsFetcher(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")

	assert.Equal(t, "2024-06-03", from)
	assert.Equal(t, "2024-06-10", to)
	assert.Equal(t, "AAPL", symbol)

	require.Len(t, got, NewsLimit)
	assert.Equal(t, stock.Article{
		Title:       "Headline 0",
		URL:         "https://example.com/0",
		Source:      "Reuters",
		PublishedAt: testNow,
		TimeAgo:     "0 hours ago",
	}, got[0])
	assert.Equal(t, "13 hours ago", got[1].TimeAgo)
	assert.Equal(t, "1 days ago", got[2].TimeAgo)
	assert.Equal(t, "Headline 4", got[4].Title)
	assert.Equal(t, "2 days ago", got[4].TimeAgo)
}

func TestNewsFetcher_Fetch_FailureIsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		bodies map[string]string
	}{
		{"server error", map[string]string{"/company-news": ""}},
		{"not found", map[string]string{}},
		{"not a list", map[string]string{"/company-news": `{"error": "Invalid API key"}`}},
		{"not json", map[string]string{"/company-news": `oops`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFinnhubServer(t, tt.bodies)

			got := NewNewsFetcher(newTestClient(server.URL)).Fetch(context.Background(), "AAPL")
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}
