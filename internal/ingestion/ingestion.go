package ingestion

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/garchcast/internal/logger"
)

const maxRefreshParallel = 7

// Refresher refreshes one ticker from upstream.
type Refresher interface {
	Refresh(ctx context.Context, ticker string) (int, error)
}

// RefreshAll refreshes every ticker concurrently.
//
// Behavior:
//   - Uses a concurrency limit of min(7, NumCPU), or parallel clamped to 1..7.
//   - If any ticker returns error, cancels the rest and returns that error.
//
// Returns:
//   - int: total rows written across tickers that finished.
//   - error: first error encountered (if any).
func RefreshAll(ctx context.Context, r Refresher, tickers []string, parallel int) (int, error) {
	if len(tickers) == 0 {
		return 0, nil
	}

	maxParallel := maxRefreshParallel
	if parallel > 0 {
		if parallel > maxRefreshParallel {
			parallel = maxRefreshParallel
		}
		maxParallel = parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("tickers", len(tickers)).Int("max_parallel", maxParallel).Msg("refresh start")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	counts := make([]int, len(tickers))

	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			start := time.Now()
			n, err := r.Refresh(gctx, ticker)
			if err != nil {
				logger.L().Error().Str("ticker", ticker).Dur("elapsed", time.Since(start)).Err(err).Msg("refresh failed")
				return fmt.Errorf("ticker %s: %w", ticker, err)
			}
			counts[i] = n
			logger.L().Info().Int("idx", i+1).Int("total", len(tickers)).Str("ticker", ticker).Int("rows", n).Dur("elapsed", time.Since(start)).Msg("ticker done")
			return nil
		})
	}

	err := g.Wait()
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, err
}
