// Package growth derives year-over-year changes from short annual series.
package growth

import (
	"math"

	"github.com/guregu/null/v6"
)

// Years is how many year-over-year changes RevenueYoY produces.
const Years = 3

// Percent returns (current - previous) / previous * 100. A zero or non-finite
// previous value yields an invalid result.
func Percent(current, previous float64) null.Float {
	if previous == 0 || math.IsNaN(previous) || math.IsInf(previous, 0) || math.IsNaN(current) || math.IsInf(current, 0) {
		return null.Float{}
	}
	return null.FloatFrom((current - previous) / previous * 100)
}

// RevenueYoY computes the last three year-over-year changes from annual
// figures ordered newest first, so index 0 compares the latest period with the
// one before it. Fewer than four figures leave every result invalid.
func RevenueYoY(newestFirst []float64) [Years]null.Float {
	var out [Years]null.Float
	if len(newestFirst) < Years+1 {
		return out
	}
	for i := 0; i < Years; i++ {
		out[i] = Percent(newestFirst[i], newestFirst[i+1])
	}
	return out
}
