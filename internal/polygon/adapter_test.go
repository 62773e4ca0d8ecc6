package polygon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Fetch(t *testing.T) {
	a := NewAdapter("key")
	assert.Equal(t, "polygon", a.Name())

	rec, err := a.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}

func TestAdapter_Fetch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter("").Fetch(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}
