package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stockfetcher/internal/fetcher"
	"stockfetcher/internal/stock"
)

// StubAdapter is a function-backed implementation of the Adapter interface for testing
type StubAdapter struct {
	FetchFunc func(ctx context.Context, ticker string) (stock.Partial, error)
	NameFunc  func() string
}

// Fetch implements the Adapter interface
func (s *StubAdapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	if s.FetchFunc != nil {
		return s.FetchFunc(ctx, ticker)
	}
	return stock.Partial{}, nil
}

// Name implements the Adapter interface
func (s *StubAdapter) Name() string {
	if s.NameFunc != nil {
		return s.NameFunc()
	}
	return "stub"
}

// NewStubAdapter creates a simple stub adapter with a predefined outcome
func NewStubAdapter(name string, record stock.Partial, err error) fetcher.Adapter {
	return &StubAdapter{
		FetchFunc: func(ctx context.Context, ticker string) (stock.Partial, error) {
			return record, err
		},
		NameFunc: func() string {
			return name
		},
	}
}

// MockAdapter is a testify mock of the Adapter interface, for tests that
// assert on how adapters are called.
type MockAdapter struct {
	mock.Mock
	name string
}

// NewMockAdapter creates a mock adapter reporting the given name.
func NewMockAdapter(name string) *MockAdapter {
	return &MockAdapter{name: name}
}

// Name implements the Adapter interface
func (m *MockAdapter) Name() string {
	return m.name
}

// Fetch implements the Adapter interface
func (m *MockAdapter) Fetch(ctx context.Context, ticker string) (stock.Partial, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(stock.Partial), args.Error(1)
}
