package alphavantage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Replays a recorded GLOBAL_QUOTE + OVERVIEW exchange. Skips when the
// cassette is absent unless RECORD_CASSETTES=1, in which case
// ALPHAVANTAGE_API_KEY is used to record one. Use the "demo" key when
// recording so no real key ends up in the cassette.
func TestOverviewAdapter_Fetch_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "alphavantage_overview")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()

	client := NewClient(os.Getenv("ALPHAVANTAGE_API_KEY"), "https://www.alphavantage.co/query", WithTransport(r))
	rec, err := NewOverviewAdapter(client).Fetch(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Greater(t, rec.Price.Float64, 0.0)
	assert.True(t, rec.Name.Valid)
}
