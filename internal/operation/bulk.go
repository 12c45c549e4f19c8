package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jcarver/jobagent/internal/domain"
)

// PerItemFunc executes one item of a bulk batch and returns a reference to
// its output (a document path, batch id, or similar). The context is the
// parent operation's context, so cancellation reaches every in-flight item.
type PerItemFunc func(ctx context.Context, key string) (outputRef string, err error)

// BulkRunnerConfig holds configuration for the bulk runner.
type BulkRunnerConfig struct {
	// MaxConcurrency caps how many items run at once. If zero or negative,
	// defaults to 1.
	MaxConcurrency int
}

// DefaultBulkRunnerConfig returns a BulkRunnerConfig with reasonable
// defaults.
func DefaultBulkRunnerConfig() BulkRunnerConfig {
	return BulkRunnerConfig{MaxConcurrency: 4}
}

// BulkRunner fans a list of items out to bounded concurrent workers inside
// one parent operation. Its defining policy is partial-failure isolation: a
// single item's failure (including a panic) is captured into that item's
// result and never aborts sibling items.
type BulkRunner struct {
	maxConcurrency int
	logger         *slog.Logger
}

// NewBulkRunner creates a new BulkRunner.
func NewBulkRunner(config BulkRunnerConfig, logger *slog.Logger) *BulkRunner {
	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		logger.Warn("invalid bulk concurrency, using default",
			"specified", config.MaxConcurrency, "default", 1)
		maxConcurrency = 1
	}

	return &BulkRunner{
		maxConcurrency: maxConcurrency,
		logger:         logger.With("component", "bulk_runner"),
	}
}

// Run executes perItem for every key under the configured concurrency
// bound, reporting progress as completedItems/totalItems to the parent
// operation.
//
// The aggregated result preserves original submission order regardless of
// completion order. Run returns an error only when the whole batch must
// fail: every item failed (ErrAllItemsFailed) or cancellation was requested
// (domain.ErrCancelled, after in-flight items finished their current step).
// Otherwise the caller completes the parent operation with the returned
// BulkResult, embedding per-item detail so failed items can be retried
// selectively.
func (b *BulkRunner) Run(
	ctx context.Context,
	keys []string,
	perItem PerItemFunc,
	report ProgressFunc,
	token *Token,
) (*BulkResult, error) {
	total := len(keys)
	results := make([]BulkItemResult, total)
	for i, key := range keys {
		results[i] = BulkItemResult{Key: key}
	}

	if total == 0 {
		return &BulkResult{Items: results, Errors: []string{}}, nil
	}

	var completed atomic.Int64
	var reportMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(b.maxConcurrency)

	started := 0
	for i, key := range keys {
		// Checkpoint: no new item starts after cancellation is requested.
		// In-flight items finish their current step before honoring it.
		if token.Cancelled() {
			break
		}
		started++

		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					b.logger.Error("bulk item panicked", "key", key, "panic", rec)
					results[i] = BulkItemResult{
						Key:         key,
						Success:     false,
						ErrorDetail: fmt.Sprintf("internal error: %v", rec),
					}
				}

				done := completed.Add(1)
				reportMu.Lock()
				report(int(done*100/int64(total)),
					fmt.Sprintf("processed %d of %d items", done, total))
				reportMu.Unlock()
			}()

			outputRef, err := perItem(ctx, key)
			if err != nil {
				b.logger.Warn("bulk item failed", "key", key, "error", err)
				results[i] = BulkItemResult{
					Key:         key,
					Success:     false,
					ErrorDetail: err.Error(),
				}
				return nil
			}

			results[i] = BulkItemResult{
				Key:       key,
				Success:   true,
				OutputRef: outputRef,
			}
			return nil
		})
	}

	// Workers never return errors (isolation), so Wait only synchronizes.
	_ = g.Wait()

	if token.Cancelled() {
		b.logger.Info("bulk run cancelled",
			"started", started, "total", total)
		return nil, domain.ErrCancelled
	}

	result := &BulkResult{Items: results, Errors: []string{}}
	for _, item := range results {
		if item.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", item.Key, item.ErrorDetail))
		}
	}

	if result.SuccessCount == 0 {
		return nil, fmt.Errorf("%w: %d of %d", ErrAllItemsFailed, result.FailureCount, total)
	}

	return result, nil
}
