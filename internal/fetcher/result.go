package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/panics"

	"stockfetcher/internal/stock"
)

// Result represents the outcome of one adapter invocation.
// It's designed to be collected from worker goroutines by the aggregator,
// which merges the records of every result, failed or not.
type Result struct {
	// Source is the adapter name.
	Source string

	// Record is what the adapter returned. It is empty when Err is set.
	Record stock.Partial

	// Err is the reason the adapter produced nothing. It always is or wraps a
	// *FetchError.
	Err error

	// Elapsed is the wall time spent in the adapter.
	Elapsed time.Duration
}

// OK reports whether the adapter succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Invoke runs a single adapter under its own timeout. It never returns an
// error and never panics: failures, timeouts and panics are recorded on the
// Result with an empty record, and logged.
func Invoke(ctx context.Context, a Adapter, ticker string, timeout time.Duration, logger *slog.Logger) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res := Result{Source: a.Name()}
	start := time.Now()

	var record stock.Partial
	var err error
	var pc panics.Catcher
	pc.Try(func() {
		record, err = a.Fetch(ctx, ticker)
	})
	res.Elapsed = time.Since(start)

	switch recovered := pc.Recovered(); {
	case recovered != nil:
		res.Err = NewPanicError(recovered.AsError())
	case err != nil:
		res.Err = classified(err)
	case ctx.Err() != nil:
		// The adapter ignored its context; whatever it returned is late.
		res.Err = ClassifyTransportError(fmt.Errorf("%s: %w", a.Name(), ctx.Err()))
	default:
		res.Record = record
	}

	if logger != nil {
		if res.Err != nil {
			logger.Warn("provider failed",
				"source", res.Source,
				"ticker", ticker,
				"error_type", TypeOf(res.Err),
				"elapsed", res.Elapsed,
				"error", res.Err)
		} else {
			logger.Debug("provider succeeded",
				"source", res.Source,
				"ticker", ticker,
				"elapsed", res.Elapsed)
		}
	}

	return res
}

// classified keeps err when it already wraps a FetchError, so the adapter's
// context stays in the message, and classifies it otherwise.
func classified(err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return ClassifyTransportError(err)
}
