package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/stock"
	"stockfetcher/internal/testutil"
)

func TestInvoke_Success(t *testing.T) {
	rec := stock.Partial{Price: stock.Float(178.23)}
	a := testutil.NewStubAdapter("alphavantage", rec, nil)

	res := fetcher.Invoke(context.Background(), a, "AAPL", time.Second, nil)

	require.True(t, res.OK())
	assert.Equal(t, "alphavantage", res.Source)
	assert.Equal(t, 178.23, res.Record.Price.Float64)
}

func TestInvoke_ErrorDiscardsRecord(t *testing.T) {
	rec := stock.Partial{Price: stock.Float(1)}
	a := testutil.NewStubAdapter("yahoo", rec, fetcher.NewServerError(http.StatusBadGateway))

	res := fetcher.Invoke(context.Background(), a, "AAPL", time.Second, nil)

	require.False(t, res.OK())
	assert.True(t, res.Record.Empty())
	assert.Equal(t, fetcher.ErrorTypeServer, fetcher.TypeOf(res.Err))
}

func TestInvoke_PlainErrorBecomesNetworkError(t *testing.T) {
	a := testutil.NewStubAdapter("finnhub", stock.Partial{}, errors.New("connection refused"))

	res := fetcher.Invoke(context.Background(), a, "AAPL", time.Second, nil)

	var fe *fetcher.FetchError
	require.ErrorAs(t, res.Err, &fe)
	assert.Equal(t, fetcher.ErrorTypeNetwork, fe.Type)
	assert.Contains(t, res.Err.Error(), "connection refused")
}

func TestInvoke_Panic(t *testing.T) {
	a := &testutil.StubAdapter{
		FetchFunc: func(ctx context.Context, ticker string) (stock.Partial, error) {
			panic("nil map write")
		},
	}

	res := fetcher.Invoke(context.Background(), a, "AAPL", time.Second, nil)

	require.False(t, res.OK())
	assert.Equal(t, fetcher.ErrorTypePanic, fetcher.TypeOf(res.Err))
	assert.Contains(t, res.Err.Error(), "nil map write")
}

func TestInvoke_Timeout(t *testing.T) {
	a := &testutil.StubAdapter{
		FetchFunc: func(ctx context.Context, ticker string) (stock.Partial, error) {
			<-ctx.Done()
			return stock.Partial{}, ctx.Err()
		},
	}

	start := time.Now()
	res := fetcher.Invoke(context.Background(), a, "AAPL", 50*time.Millisecond, nil)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, fetcher.ErrorTypeTimeout, fetcher.TypeOf(res.Err))
}

func TestInvoke_LateSuccessIsDropped(t *testing.T) {
	a := &testutil.StubAdapter{
		FetchFunc: func(ctx context.Context, ticker string) (stock.Partial, error) {
			<-ctx.Done()
			return stock.Partial{Price: stock.Float(1)}, nil
		},
	}

	res := fetcher.Invoke(context.Background(), a, "AAPL", 20*time.Millisecond, nil)

	require.False(t, res.OK())
	assert.True(t, res.Record.Empty())
}

func TestInvoke_MockReceivesTicker(t *testing.T) {
	m := testutil.NewMockAdapter("polygon")
	m.On("Fetch", mock.Anything, "TSLA").Return(stock.Partial{}, nil).Once()

	res := fetcher.Invoke(context.Background(), m, "TSLA", time.Second, nil)

	require.True(t, res.OK())
	m.AssertExpectations(t)
}
