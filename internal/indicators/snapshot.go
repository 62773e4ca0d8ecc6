package indicators

import (
	"time"

	"github.com/guregu/null/v6"

	"stockfetcher/internal/series"
)

// Snapshot is the set of trailing indicators reported for one trading day.
type Snapshot struct {
	Date     time.Time
	SMA      null.Float
	RSI      null.Float
	Momentum null.Float
}

// AtLatestDate picks the most recent date of the moving average series and
// reads every indicator on that date. An indicator series without an entry on
// that date leaves its value null. It reports false when sma is empty.
func AtLatestDate(sma, rsi, momentum series.Series) (Snapshot, bool) {
	latest, ok := sma.Latest()
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Date:     latest.Date,
		SMA:      null.FloatFrom(latest.Value),
		RSI:      valueOn(rsi, latest.Date),
		Momentum: valueOn(momentum, latest.Date),
	}, true
}

// FromCloses computes the indicators locally from daily closes, using the
// same period for all three. It reports false when there is not enough
// history for the moving average.
func FromCloses(closes series.Series, period int) (Snapshot, bool) {
	asc := closes.Ascending()
	values := asc.Values()

	sma, ok := Last(SMA(values, period))
	if !ok {
		return Snapshot{}, false
	}
	snap := Snapshot{
		Date: asc[len(asc)-1].Date,
		SMA:  null.FloatFrom(sma),
	}
	if v, ok := Last(RSI(values, period)); ok {
		snap.RSI = null.FloatFrom(v)
	}
	if v, ok := Last(Momentum(values, period)); ok {
		snap.Momentum = null.FloatFrom(v)
	}
	return snap, true
}

func valueOn(s series.Series, date time.Time) null.Float {
	for _, p := range s {
		if p.Date.Equal(date) {
			return null.FloatFrom(p.Value)
		}
	}
	return null.Float{}
}
