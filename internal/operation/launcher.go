package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jcarver/jobagent/internal/domain"
)

// ProgressFunc is the callback a task uses to report progress. percent must
// be non-decreasing across calls; message replaces the previous one.
type ProgressFunc func(percent int, message string)

// TaskFunc is the body of a launched operation. The context is cancelled
// when the operation's token fires or the launcher shuts down, so blocking
// collaborator calls unwind on their own; task code additionally polls the
// token before each externally blocking step and returns an error wrapping
// domain.ErrCancelled when it is set.
//
// The returned value becomes the operation's result. A returned error
// wrapping domain.ErrCancelled records the operation as cancelled; any
// other error records it as failed.
type TaskFunc func(ctx context.Context, report ProgressFunc, token *Token) (any, error)

// Launcher spawns one worker goroutine per started operation, wiring it to
// a fresh registry entry and cancellation token. Start never blocks the
// caller.
type Launcher struct {
	registry *Registry
	logger   *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewLauncher creates a new Launcher bound to the given registry.
func NewLauncher(registry *Registry, logger *slog.Logger) *Launcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &Launcher{
		registry: registry,
		logger:   logger.With("component", "operation_launcher"),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Start registers a new operation of the given kind and runs fn on a new
// worker goroutine. It returns the operation id immediately; callers poll
// the registry for completion.
func (l *Launcher) Start(kind Kind, fn TaskFunc) uuid.UUID {
	id, token := l.registry.Register(kind)

	ctx, cancelCtx := context.WithCancel(l.baseCtx)

	// Mirror the token into the context so collaborator calls observe
	// cancellation without polling.
	go func() {
		select {
		case <-token.Done():
			cancelCtx()
		case <-ctx.Done():
		}
	}()

	l.wg.Add(1)
	go l.run(ctx, cancelCtx, id, kind, fn, token)

	return id
}

// run executes one operation worker from pickup to terminal transition.
func (l *Launcher) run(
	ctx context.Context,
	cancelCtx context.CancelFunc,
	id uuid.UUID,
	kind Kind,
	fn TaskFunc,
	token *Token,
) {
	defer l.wg.Done()
	defer cancelCtx()

	logger := l.logger.With("operation_id", id, "kind", kind)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("operation worker panicked", "panic", rec)
			l.registry.Fail(id, fmt.Errorf("internal error: %v", rec))
		}
	}()

	l.registry.markRunning(id)
	logger.Info("operation started")

	report := func(percent int, message string) {
		l.registry.Report(id, percent, message)
	}

	result, err := fn(ctx, report, token)

	switch {
	case err == nil:
		l.registry.Complete(id, result)
	case domain.IsCancelled(err) || (token.Cancelled() && ctx.Err() != nil):
		logger.Info("operation cancelled cooperatively")
		l.registry.Cancel(id)
	default:
		logger.Error("operation failed", "error", err)
		l.registry.Fail(id, err)
	}
}

// Shutdown requests cancellation on every in-flight operation and waits for
// workers to unwind, up to the deadline of ctx. Workers past their last
// checkpoint run to natural completion.
func (l *Launcher) Shutdown(ctx context.Context) error {
	l.registry.RequestCancelAll()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.cancel()
		return nil
	case <-ctx.Done():
		// Force context cancellation on any stragglers, then give up
		// waiting. Workers still finish their terminal transition.
		l.cancel()
		return fmt.Errorf("shutdown deadline exceeded: %w", ctx.Err())
	}
}
